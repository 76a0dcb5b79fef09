package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/lalith-99/clubhub/internal/models"
)

// Workspace is one client's view of the shared state: who they are, what
// they are looking at, and their call. Lock order is w.mu before st.mu.
type Workspace struct {
	id string
	st *State

	mu     sync.Mutex
	phase  AuthPhase
	userID string
	view   ViewState
	call   *models.VideoCall

	// expiresAt is when the client's credential lapses. Zero means never.
	expiresAt time.Time
}

func (w *Workspace) ID() string {
	return w.id
}

// Phase reports where the workspace is in the login state machine.
func (w *Workspace) Phase() AuthPhase {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == "" {
		return PhaseAnonymous
	}
	return w.phase
}

// UserID is the authenticated user's id, or "" when anonymous.
func (w *Workspace) UserID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseAuthenticated {
		return ""
	}
	return w.userID
}

// Auth returns a copy of the workspace's authentication state.
func (w *Workspace) Auth() models.AuthState {
	w.mu.Lock()
	defer w.mu.Unlock()

	state := models.AuthState{
		IsAuthenticated: w.phase == PhaseAuthenticated,
		Loading:         w.phase == PhaseAuthenticating,
	}
	if state.IsAuthenticated {
		w.st.mu.RLock()
		if u, ok := w.st.users.Get(w.userID); ok {
			u = u.Clone()
			state.User = &u
		}
		w.st.mu.RUnlock()
	}
	return state
}

// actorLocked returns the authenticated user. Caller holds w.mu and st.mu.
func (w *Workspace) actorLocked() (models.User, error) {
	if w.phase != PhaseAuthenticated {
		return models.User{}, ErrUnauthenticated
	}
	u, ok := w.st.users.Get(w.userID)
	if !ok {
		return models.User{}, fmt.Errorf("current user %s: %w", w.userID, ErrNotFound)
	}
	return u.Clone(), nil
}

// read runs fn with the workspace locked and the state read-locked, after
// checking the workspace is authenticated.
func (w *Workspace) read(fn func(u models.User) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.st.mu.RLock()
	defer w.st.mu.RUnlock()

	u, err := w.actorLocked()
	if err != nil {
		return err
	}
	return fn(u)
}

// write is read with the state write-locked.
func (w *Workspace) write(fn func(u models.User) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.st.mu.Lock()
	defer w.st.mu.Unlock()

	u, err := w.actorLocked()
	if err != nil {
		return err
	}
	return fn(u)
}

// moderateLocked returns ErrForbidden unless u may moderate clubID.
func (w *Workspace) moderateLocked(u models.User, clubID string) error {
	if !w.st.canModerateLocked(u, clubID) {
		return ErrForbidden
	}
	return nil
}

// CanModerate reports whether the signed-in user may moderate the club the
// workspace is looking at.
func (w *Workspace) CanModerate() bool {
	var ok bool
	w.read(func(u models.User) error {
		ok = w.st.canModerateLocked(u, w.view.CurrentClubID)
		return nil
	})
	return ok
}
