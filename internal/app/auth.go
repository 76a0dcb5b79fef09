package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lalith-99/clubhub/internal/fixtures"
	"github.com/lalith-99/clubhub/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthPhase is where a workspace sits in the login state machine:
// anonymous -> authenticating -> authenticated | anonymous,
// authenticated -> anonymous on logout.
type AuthPhase string

const (
	PhaseAnonymous      AuthPhase = "anonymous"
	PhaseAuthenticating AuthPhase = "authenticating"
	PhaseAuthenticated  AuthPhase = "authenticated"
)

// Authenticator checks a credential pair and returns the matching user id.
// A rejected pair yields ErrInvalidCredentials, with no hint of which half
// was wrong.
type Authenticator interface {
	Verify(ctx context.Context, email, password string) (string, error)
}

// DemoAuthenticator accepts exactly one credential pair. It is a stand-in
// for a real identity provider, not a security mechanism.
type DemoAuthenticator struct {
	email   string
	hash    []byte
	userID  string
	latency time.Duration
}

// NewDemoAuthenticator hashes the demo password once so that only the hash
// is held in memory. latency simulates the verification round trip.
func NewDemoAuthenticator(demo fixtures.Demo, latency time.Duration) (*DemoAuthenticator, error) {
	return newDemoAuthenticator(demo, latency, bcrypt.DefaultCost)
}

func newDemoAuthenticator(demo fixtures.Demo, latency time.Duration, cost int) (*DemoAuthenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(demo.Password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash demo password: %w", err)
	}
	return &DemoAuthenticator{
		email:   strings.ToLower(demo.Email),
		hash:    hash,
		userID:  demo.UserID,
		latency: latency,
	}, nil
}

func (a *DemoAuthenticator) Verify(ctx context.Context, email, password string) (string, error) {
	if err := sleep(ctx, a.latency); err != nil {
		return "", err
	}
	if strings.ToLower(strings.TrimSpace(email)) != a.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return a.userID, nil
}

// Login verifies the credentials and, on success, authenticates the
// workspace as the matching user. Any failure leaves it anonymous.
func (w *Workspace) Login(ctx context.Context, email, password string) (models.User, error) {
	if err := w.beginAuth(); err != nil {
		return models.User{}, err
	}

	userID, err := w.st.authn.Verify(ctx, email, password)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.phase = PhaseAnonymous
		w.userID = ""
		w.st.log.Debug("login rejected", zap.String("workspace_id", w.id), zap.Error(err))
		return models.User{}, fmt.Errorf("login: %w", err)
	}

	w.st.mu.Lock()
	defer w.st.mu.Unlock()
	if !w.st.users.Update(userID, func(u *models.User) { u.IsOnline = true }) {
		w.phase = PhaseAnonymous
		w.userID = ""
		return models.User{}, fmt.Errorf("login: user %s: %w", userID, ErrNotFound)
	}
	return w.enterLocked(userID), nil
}

// Signup registers a new member and authenticates the workspace as them.
// Emails are not checked for uniqueness.
func (w *Workspace) Signup(ctx context.Context, in SignupInput) (models.User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return models.User{}, err
	}
	if err := w.beginAuth(); err != nil {
		return models.User{}, err
	}

	err := sleep(ctx, w.st.authLatency)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.phase = PhaseAnonymous
		w.userID = ""
		return models.User{}, fmt.Errorf("signup: %w", err)
	}

	w.st.mu.Lock()
	defer w.st.mu.Unlock()
	user := models.User{
		ID:         w.st.ids.New(),
		Name:       in.Name,
		Email:      in.Email,
		Avatar:     w.st.defaults.Avatar,
		Role:       models.RoleMember,
		ClubID:     w.st.defaults.ClubID,
		Bio:        in.Bio,
		Skills:     append([]string(nil), in.Skills...),
		Year:       in.Year,
		Department: in.Department,
		IsOnline:   true,
	}
	if err := w.st.users.Append(user); err != nil {
		w.phase = PhaseAnonymous
		w.userID = ""
		return models.User{}, fmt.Errorf("signup: %w", err)
	}
	w.st.clubs.Update(user.ClubID, func(c *models.Club) { c.MemberCount++ })
	w.st.log.Info("user signed up", zap.String("user_id", user.ID))
	return w.enterLocked(user.ID), nil
}

// Logout drops the identity and every piece of authenticated-only view
// state. Logging out an anonymous workspace does nothing.
func (w *Workspace) Logout() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhaseAuthenticated {
		return
	}

	w.st.mu.Lock()
	defer w.st.mu.Unlock()
	now := w.st.clock.Now()
	w.st.users.Update(w.userID, func(u *models.User) {
		u.IsOnline = false
		u.LastSeen = &now
	})

	w.phase = PhaseAnonymous
	w.userID = ""
	w.call = nil
	w.view = w.st.defaultViewLocked()
}

func (w *Workspace) beginAuth() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase == PhaseAuthenticating {
		return ErrAuthInProgress
	}
	w.phase = PhaseAuthenticating
	return nil
}

// enterLocked finishes a successful login or signup. Caller holds w.mu and
// w.st.mu.
func (w *Workspace) enterLocked(userID string) models.User {
	w.phase = PhaseAuthenticated
	w.userID = userID
	w.call = nil
	w.view = w.st.defaultViewLocked()

	u, _ := w.st.users.Get(userID)
	w.st.log.Debug("workspace authenticated",
		zap.String("workspace_id", w.id),
		zap.String("user_id", userID),
	)
	return u.Clone()
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
