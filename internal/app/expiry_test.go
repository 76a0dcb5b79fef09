package app

import (
	"context"
	"slices"
	"testing"
	"time"
)

func TestReapExpired(t *testing.T) {
	env := newTestEnv(t, Options{})

	lapsed := env.signIn(t, "alex@university.edu")
	lapsed.ExpireAt(env.clock.Now().Add(time.Hour))
	later := env.signIn(t, "priya@university.edu")
	later.ExpireAt(env.clock.Now().Add(3 * time.Hour))
	forever := env.signIn(t, "rahul@university.edu")

	if got := env.st.ReapExpired(); len(got) != 0 {
		t.Fatalf("ReapExpired() before expiry = %v, want none", got)
	}

	env.clock.Advance(2 * time.Hour)
	got := env.st.ReapExpired()
	if !slices.Equal(got, []string{lapsed.ID()}) {
		t.Fatalf("ReapExpired() = %v, want [%s]", got, lapsed.ID())
	}

	if _, ok := env.st.Workspace(lapsed.ID()); ok {
		t.Error("expired workspace still open")
	}
	if lapsed.Phase() != PhaseAnonymous {
		t.Errorf("expired workspace phase = %s, want anonymous", lapsed.Phase())
	}
	if u, _ := env.st.User("1"); u.IsOnline {
		t.Error("user of an expired workspace still online")
	}

	for _, w := range []*Workspace{later, forever} {
		if _, ok := env.st.Workspace(w.ID()); !ok {
			t.Errorf("workspace %s closed early", w.ID())
		}
	}

	// Already gone, so nothing more to do.
	if got := env.st.ReapExpired(); len(got) != 0 {
		t.Errorf("second ReapExpired() = %v, want none", got)
	}
}

func TestRunReaper_ReportsClosedWorkspaces(t *testing.T) {
	env := newTestEnv(t, Options{})
	w := env.signIn(t, "alex@university.edu")
	w.ExpireAt(env.clock.Now())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	closed := make(chan string, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		env.st.RunReaper(ctx, time.Millisecond, func(id string) { closed <- id })
	}()

	select {
	case id := <-closed:
		if id != w.ID() {
			t.Errorf("onClose(%q), want %q", id, w.ID())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reaper never closed the expired workspace")
	}
	if _, ok := env.st.Workspace(w.ID()); ok {
		t.Error("workspace still open after reaping")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunReaper did not return after cancel")
	}
}

func TestRunReaper_NonPositiveInterval(t *testing.T) {
	env := newTestEnv(t, Options{})
	// Returns at once rather than building a ticker.
	env.st.RunReaper(context.Background(), 0, nil)
}
