package app

import (
	"context"
	"slices"
	"time"

	"go.uber.org/zap"
)

// ExpireAt records when the workspace's credential stops being valid. After
// that the workspace is closed by ReapExpired.
func (w *Workspace) ExpireAt(t time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.expiresAt = t
}

// ExpiresAt reports when the workspace expires. Zero means never.
func (w *Workspace) ExpiresAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expiresAt
}

func (w *Workspace) expired(now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.expiresAt.IsZero() && !now.Before(w.expiresAt)
}

// ReapExpired logs out and closes every workspace whose credential has
// lapsed, and returns their ids in sorted order.
func (s *State) ReapExpired() []string {
	now := s.clock.Now()

	s.wsMu.Lock()
	open := make([]*Workspace, 0, len(s.workspaces))
	for _, w := range s.workspaces {
		open = append(open, w)
	}
	s.wsMu.Unlock()

	var closed []string
	for _, w := range open {
		if !w.expired(now) {
			continue
		}
		w.Logout()
		s.CloseWorkspace(w.id)
		closed = append(closed, w.id)
	}
	slices.Sort(closed)
	if len(closed) > 0 {
		s.log.Info("expired workspaces closed", zap.Int("count", len(closed)))
	}
	return closed
}

// RunReaper calls ReapExpired every interval until ctx is done. onClose, if
// set, is called with each closed workspace id so callers can drop state
// they keep per workspace.
func (s *State) RunReaper(ctx context.Context, interval time.Duration, onClose func(id string)) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, id := range s.ReapExpired() {
				if onClose != nil {
					onClose(id)
				}
			}
		}
	}
}
