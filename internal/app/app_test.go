package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/lalith-99/clubhub/internal/fixtures"
	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
	"github.com/lalith-99/clubhub/internal/testutil"
)

const testPassword = "secret"

// seedAuth signs in any seeded user by email with testPassword.
type seedAuth map[string]string

func (a seedAuth) Verify(_ context.Context, email, password string) (string, error) {
	id, ok := a[email]
	if !ok || password != testPassword {
		return "", ErrInvalidCredentials
	}
	return id, nil
}

var seedUsers = seedAuth{
	"alex@university.edu":  "1", // admin of club 1
	"priya@university.edu": "2", // member
	"rahul@university.edu": "3", // member
	"sarah@university.edu": "4", // admin
}

type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) Publish(e realtime.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) last() realtime.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == 0 {
		return realtime.Event{}
	}
	return r.events[len(r.events)-1]
}

// memBlobs serves content by URL and counts opens.
type memBlobs struct {
	mu      sync.Mutex
	content map[string]string
	opens   int
	err     error

	// When set, Open signals started and waits for release.
	started chan struct{}
	release chan struct{}
}

func (b *memBlobs) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	b.mu.Lock()
	b.opens++
	started, release := b.started, b.release
	b.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		select {
		case <-release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if b.err != nil {
		return nil, b.err
	}
	body, ok := b.content[url]
	if !ok {
		return nil, errors.New("no such object")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

func (b *memBlobs) openCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opens
}

type testEnv struct {
	st    *State
	clock *testutil.StubClock
	pub   *recorder
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	clock := testutil.FixedClock()
	fx, err := fixtures.Default(clock.Now())
	if err != nil {
		t.Fatalf("fixtures.Default() error: %v", err)
	}

	pub := &recorder{}
	opts.Clock = clock
	opts.IDs = testutil.NewStubIDGenerator()
	opts.Publisher = pub
	if opts.Authenticator == nil {
		opts.Authenticator = seedUsers
	}
	st, err := New(fx, opts)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return &testEnv{st: st, clock: clock, pub: pub}
}

// signIn opens a workspace authenticated as the seeded user with email.
func (e *testEnv) signIn(t *testing.T, email string) *Workspace {
	t.Helper()
	w := e.st.OpenWorkspace()
	if _, err := w.Login(context.Background(), email, testPassword); err != nil {
		t.Fatalf("Login(%s) error: %v", email, err)
	}
	return w
}

func storedMessage(t *testing.T, st *State, id string) models.Message {
	t.Helper()
	st.mu.RLock()
	defer st.mu.RUnlock()
	msg, ok := st.messages.Get(id)
	if !ok {
		t.Fatalf("message %s missing", id)
	}
	return msg.Clone()
}
