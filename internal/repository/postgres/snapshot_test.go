package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lalith-99/clubhub/internal/app"
	"github.com/lalith-99/clubhub/internal/models"
)

// fakePool stores the upserted row in memory.
type fakePool struct {
	row      []byte
	execs    []string
	execErr  error
	queryErr error
}

func (f *fakePool) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if strings.Contains(sql, "INSERT INTO app_snapshots") {
		f.row = args[1].([]byte)
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakePool) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return fakeRow{data: f.row, err: f.queryErr}
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if r.data == nil {
		return pgx.ErrNoRows
	}
	*dest[0].(*[]byte) = append([]byte(nil), r.data...)
	return nil
}

func TestSnapshotStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	pool := &fakePool{}
	s := NewSnapshotStore(pool)

	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema() error: %v", err)
	}
	if !strings.Contains(pool.execs[0], "CREATE TABLE IF NOT EXISTS app_snapshots") {
		t.Errorf("EnsureSchema ran %q", pool.execs[0])
	}

	got, err := s.Load(ctx)
	if err != nil || got != nil {
		t.Fatalf("Load() on empty table = %v, %v; want nil, nil", got, err)
	}

	snap := app.Snapshot{
		Users: []models.User{{ID: "1", Name: "Alex", Role: models.RoleAdmin}},
		Clubs: []models.Club{{ID: "1", Name: "GDSC", Admins: []string{"1"}}},
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got == nil || len(got.Users) != 1 || got.Users[0].Name != "Alex" || got.Clubs[0].Admins[0] != "1" {
		t.Errorf("Load() = %+v, want the saved snapshot", got)
	}
}

func TestSnapshotStore_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")

	tests := []struct {
		name string
		pool *fakePool
		run  func(*SnapshotStore) error
	}{
		{"save", &fakePool{execErr: boom}, func(s *SnapshotStore) error { return s.Save(ctx, app.Snapshot{}) }},
		{"ensure schema", &fakePool{execErr: boom}, func(s *SnapshotStore) error { return s.EnsureSchema(ctx) }},
		{"load", &fakePool{queryErr: boom}, func(s *SnapshotStore) error { _, err := s.Load(ctx); return err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(NewSnapshotStore(tt.pool)); !errors.Is(err, boom) {
				t.Errorf("error = %v, want it to wrap %v", err, boom)
			}
		})
	}

	if _, err := NewSnapshotStore(&fakePool{row: []byte("{")}).Load(ctx); err == nil {
		t.Error("Load() of corrupt json succeeded")
	}
}
