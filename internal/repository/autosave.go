package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/lalith-99/clubhub/internal/app"
	"go.uber.org/zap"
)

// Snapshotter is anything that can copy out its state.
type Snapshotter interface {
	Snapshot() app.Snapshot
}

// Restorer replaces its state with a snapshot.
type Restorer interface {
	Restore(app.Snapshot) error
}

// Resume restores dst from the stored snapshot, if there is one. It
// reports whether anything was restored.
func Resume(ctx context.Context, repo SnapshotRepository, dst Restorer) (bool, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}
	if err := dst.Restore(*snap); err != nil {
		return false, fmt.Errorf("restore snapshot: %w", err)
	}
	return true, nil
}

// Autosave saves src every interval until ctx is done, then saves once
// more within finalTimeout. A failed periodic save is logged and retried
// on the next tick; the final save's error is returned.
func Autosave(ctx context.Context, repo SnapshotRepository, src Snapshotter, interval, finalTimeout time.Duration, log *zap.Logger) error {
	if interval <= 0 {
		return fmt.Errorf("autosave interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := repo.Save(ctx, src.Snapshot()); err != nil {
				log.Warn("periodic snapshot failed", zap.Error(err))
				continue
			}
			log.Debug("snapshot saved")
		case <-ctx.Done():
			saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalTimeout)
			defer cancel()
			if err := repo.Save(saveCtx, src.Snapshot()); err != nil {
				return fmt.Errorf("final snapshot: %w", err)
			}
			log.Info("final snapshot saved")
			return nil
		}
	}
}
