package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGBackend persists mirrored ops to PostgreSQL.
type PGBackend struct {
	pool *pgxpool.Pool
}

// NewPGBackend connects to PostgreSQL and creates the mirror tables if they
// don't exist.
func NewPGBackend(ctx context.Context, databaseURL string) (*PGBackend, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pooling configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	b := &PGBackend{pool: pool}
	if err := b.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return b, nil
}

// migrate creates the necessary database tables
func (b *PGBackend) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS mycelium_nodes (
		id TEXT PRIMARY KEY,
		resource_level DOUBLE PRECISION NOT NULL,
		capacity DOUBLE PRECISION NOT NULL,
		health TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS mycelium_edges (
		node_a TEXT NOT NULL,
		node_b TEXT NOT NULL,
		base_cost DOUBLE PRECISION NOT NULL,
		effective_cost DOUBLE PRECISION NOT NULL,
		capacity DOUBLE PRECISION NOT NULL,
		usage_count BIGINT NOT NULL,
		health TEXT NOT NULL,
		grown BOOLEAN NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT now(),
		PRIMARY KEY (node_a, node_b)
	);

	CREATE INDEX IF NOT EXISTS idx_mycelium_edges_health ON mycelium_edges(health);
	CREATE INDEX IF NOT EXISTS idx_mycelium_nodes_health ON mycelium_nodes(health);
	`

	_, err := b.pool.Exec(ctx, schema)
	return err
}

// Apply writes one mirrored op. Each op is its own statement; the mirror is
// eventually consistent by design so there is no transaction spanning ops.
func (b *PGBackend) Apply(op Op) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch op.Kind {
	case OpUpsertNode:
		return b.upsertNode(ctx, op.NodeID, op.NodeAttrs)
	case OpUpsertEdge:
		return b.upsertEdge(ctx, op.Edge, op.EdgeAttrs)
	case OpDeleteNode:
		return b.deleteNode(ctx, op.NodeID)
	case OpDeleteEdge:
		return b.deleteEdge(ctx, op.Edge)
	default:
		return fmt.Errorf("unknown mirror op kind: %s", op.Kind)
	}
}

func (b *PGBackend) upsertNode(ctx context.Context, id string, attrs *NodeAttrs) error {
	if attrs == nil {
		return fmt.Errorf("upsert_node without attributes")
	}
	query := `
		INSERT INTO mycelium_nodes (id, resource_level, capacity, health, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE SET
			resource_level = EXCLUDED.resource_level,
			capacity = EXCLUDED.capacity,
			health = EXCLUDED.health,
			updated_at = now()
	`
	_, err := b.pool.Exec(ctx, query, id, attrs.ResourceLevel, attrs.Capacity, attrs.Health)
	if err != nil {
		return fmt.Errorf("failed to upsert node %s: %w", id, err)
	}
	return nil
}

func (b *PGBackend) upsertEdge(ctx context.Context, ref *EdgeRef, attrs *EdgeAttrs) error {
	if ref == nil || attrs == nil {
		return fmt.Errorf("upsert_edge without reference or attributes")
	}
	query := `
		INSERT INTO mycelium_edges (node_a, node_b, base_cost, effective_cost, capacity, usage_count, health, grown, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())
		ON CONFLICT (node_a, node_b) DO UPDATE SET
			base_cost = EXCLUDED.base_cost,
			effective_cost = EXCLUDED.effective_cost,
			capacity = EXCLUDED.capacity,
			usage_count = EXCLUDED.usage_count,
			health = EXCLUDED.health,
			grown = EXCLUDED.grown,
			updated_at = now()
	`
	_, err := b.pool.Exec(ctx, query,
		ref.A, ref.B,
		attrs.BaseCost,
		attrs.EffectiveCost,
		attrs.Capacity,
		attrs.UsageCount,
		attrs.Health,
		attrs.Grown,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert edge %s--%s: %w", ref.A, ref.B, err)
	}
	return nil
}

func (b *PGBackend) deleteNode(ctx context.Context, id string) error {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM mycelium_edges WHERE node_a = $1 OR node_b = $1`, id); err != nil {
		return fmt.Errorf("failed to delete edges of node %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM mycelium_nodes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete node %s: %w", id, err)
	}
	return tx.Commit(ctx)
}

func (b *PGBackend) deleteEdge(ctx context.Context, ref *EdgeRef) error {
	if ref == nil {
		return fmt.Errorf("delete_edge without reference")
	}
	_, err := b.pool.Exec(ctx,
		`DELETE FROM mycelium_edges WHERE node_a = $1 AND node_b = $2`, ref.A, ref.B)
	if err != nil {
		return fmt.Errorf("failed to delete edge %s--%s: %w", ref.A, ref.B, err)
	}
	return nil
}

// Ping checks database connectivity
func (b *PGBackend) Ping(ctx context.Context) error {
	return b.pool.Ping(ctx)
}

// Close closes the database connection pool
func (b *PGBackend) Close() error {
	b.pool.Close()
	return nil
}
