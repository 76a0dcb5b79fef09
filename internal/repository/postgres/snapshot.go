package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/clubhub/internal/app"
)

// currentSnapshot is the key of the one row the store keeps.
const currentSnapshot = "current"

// querier is the part of *pgxpool.Pool the store uses.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SnapshotStore keeps the latest state snapshot as a jsonb row in
// app_snapshots.
type SnapshotStore struct {
	pool querier
}

func NewSnapshotStore(pool querier) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// EnsureSchema creates the snapshot table if it does not exist yet.
func (s *SnapshotStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS app_snapshots (
			id       text PRIMARY KEY,
			data     jsonb NOT NULL,
			saved_at timestamptz NOT NULL
		)`
	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("create app_snapshots: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Save(ctx context.Context, snap app.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	query := `
		INSERT INTO app_snapshots (id, data, saved_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at`
	if _, err := s.pool.Exec(ctx, query, currentSnapshot, data, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) Load(ctx context.Context) (*app.Snapshot, error) {
	query := `SELECT data FROM app_snapshots WHERE id = $1`

	var data []byte
	err := s.pool.QueryRow(ctx, query, currentSnapshot).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select snapshot: %w", err)
	}

	var snap app.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}
