package repository

import (
	"context"

	"github.com/lalith-99/clubhub/internal/app"
)

// SnapshotRepository persists whole-state snapshots. The live state stays
// in memory; this is only what a restart resumes from.
type SnapshotRepository interface {
	// Save replaces the stored snapshot.
	Save(ctx context.Context, snap app.Snapshot) error

	// Load returns the stored snapshot. Returns nil, nil if none was saved.
	Load(ctx context.Context) (*app.Snapshot, error)
}
