package mirror

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/golang/snappy"
	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register transports
	_ "go.nanomsg.org/mangos/v3/transport/all"
)

// NNGBackend publishes mirrored ops over an NNG PUB socket. Subscribers
// (external stores, dashboards) pick up the stream; nothing is retained for
// late joiners, matching the fire-and-forget contract.
type NNGBackend struct {
	sock mangos.Socket

	mu     sync.Mutex
	closed bool

	// Statistics
	published       uint64
	bytesCompressed uint64
}

// NewNNGBackend creates a PUB socket bound to listenAddr, e.g.
// "tcp://*:9190".
func NewNNGBackend(listenAddr string) (*NNGBackend, error) {
	sock, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}
	if err := sock.Listen(listenAddr); err != nil {
		sock.Close()
		return nil, fmt.Errorf("failed to bind PUB socket: %w", err)
	}
	return &NNGBackend{sock: sock}, nil
}

// Apply serializes the op as snappy-compressed JSON and publishes it.
func (b *NNGBackend) Apply(op Op) error {
	payload, err := EncodeOp(op)
	if err != nil {
		return err
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return fmt.Errorf("backend closed")
	}
	b.published++
	b.bytesCompressed += uint64(len(payload))
	b.mu.Unlock()

	if err := b.sock.Send(payload); err != nil {
		return fmt.Errorf("failed to publish mirror op: %w", err)
	}
	return nil
}

// Stats returns how many ops were published and the compressed byte total.
func (b *NNGBackend) Stats() (published, bytesCompressed uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.published, b.bytesCompressed
}

// Close closes the PUB socket.
func (b *NNGBackend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()
	return b.sock.Close()
}

// EncodeOp serializes an op to its wire form: snappy-compressed JSON.
func EncodeOp(op Op) ([]byte, error) {
	data, err := json.Marshal(op)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mirror op: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

// DecodeOp reverses EncodeOp.
func DecodeOp(payload []byte) (Op, error) {
	data, err := snappy.Decode(nil, payload)
	if err != nil {
		return Op{}, fmt.Errorf("failed to decompress mirror op: %w", err)
	}
	var op Op
	if err := json.Unmarshal(data, &op); err != nil {
		return Op{}, fmt.Errorf("failed to unmarshal mirror op: %w", err)
	}
	return op, nil
}
