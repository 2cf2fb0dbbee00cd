package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrUnknownNode     = errors.New("unknown node")
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	ErrDuplicateID     = errors.New("duplicate identifier")
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// GraphError provides structured error information for graph operations.
type GraphError struct {
	Op      string // Operation that failed (e.g., "AddNode", "RemoveEdge")
	Entity  string // Entity type ("node" or "edge")
	ID      string // Entity identifier (if applicable)
	Context string // Additional context
	Cause   error  // Underlying sentinel
}

// Error implements the error interface.
func (e *GraphError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s %s: %v", e.Op, e.Entity, e.ID, e.Cause)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s %s (%s): %v", e.Op, e.Entity, e.Context, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Entity, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *GraphError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error or its cause.
func (e *GraphError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// Convenience constructors for common error patterns

// UnknownNodeError reports a reference to a node that does not exist.
func UnknownNodeError(op, id string) error {
	return &GraphError{Op: op, Entity: "node", ID: id, Cause: ErrUnknownNode}
}

// UnknownEndpointError reports an edge referencing a node that does not exist.
func UnknownEndpointError(op, id string) error {
	return &GraphError{Op: op, Entity: "edge", ID: id, Cause: ErrUnknownEndpoint}
}

// DuplicateError reports an insertion collision.
func DuplicateError(op, entity, id string) error {
	return &GraphError{Op: op, Entity: entity, ID: id, Cause: ErrDuplicateID}
}

// NotFoundError reports deletion or lookup of an absent element.
func NotFoundError(op, entity, id string) error {
	return &GraphError{Op: op, Entity: entity, ID: id, Cause: ErrNotFound}
}

// InvalidArgumentError reports a rejected argument with context.
func InvalidArgumentError(op, entity, context string) error {
	return &GraphError{Op: op, Entity: entity, Context: context, Cause: ErrInvalidArgument}
}

// IsUnknownNode returns true if the error refers to a nonexistent node or endpoint.
func IsUnknownNode(err error) bool {
	return errors.Is(err, ErrUnknownNode) || errors.Is(err, ErrUnknownEndpoint)
}

// IsDuplicate returns true if the error is an insertion collision.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateID)
}

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidArgument returns true if the error is an invalid argument error.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
