package app

import (
	"errors"
	"testing"

	"github.com/lalith-99/clubhub/internal/models"
)

func TestMembers_Query(t *testing.T) {
	env := newTestEnv(t, Options{})
	w := env.signIn(t, "priya@university.edu")

	tests := []struct {
		name string
		q    MemberQuery
		want int
	}{
		{"everyone", MemberQuery{}, 6},
		{"all role", MemberQuery{Role: "all"}, 6},
		{"admins", MemberQuery{Role: "admin"}, 3},
		{"members", MemberQuery{Role: "member"}, 3},
		{"by department", MemberQuery{Search: "data science"}, 1},
		{"by email", MemberQuery{Search: "RAHUL@"}, 1},
		{"search and role", MemberQuery{Search: "kumar", Role: "admin"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := w.Members(tt.q)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("Members(%+v) = %d users, want %d", tt.q, len(got), tt.want)
			}
		})
	}

	stats, err := w.MemberStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats != (MemberStats{Total: 6, Admins: 3, Members: 3}) {
		t.Errorf("MemberStats() = %+v", stats)
	}
}

func TestPromoteAndRemoveMember(t *testing.T) {
	env := newTestEnv(t, Options{})
	admin := env.signIn(t, "alex@university.edu")
	member := env.signIn(t, "priya@university.edu")

	if _, err := member.PromoteToAdmin("3"); !errors.Is(err, ErrForbidden) {
		t.Errorf("member PromoteToAdmin() error = %v, want ErrForbidden", err)
	}
	if _, err := member.RemoveMember("3"); !errors.Is(err, ErrForbidden) {
		t.Errorf("member RemoveMember() error = %v, want ErrForbidden", err)
	}

	u, err := admin.PromoteToAdmin("6")
	if err != nil {
		t.Fatalf("PromoteToAdmin() error: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("promoted role = %s", u.Role)
	}
	if _, err := admin.PromoteToAdmin("6"); err != nil {
		t.Fatalf("second PromoteToAdmin() error: %v", err)
	}
	club, _ := admin.CurrentClub()
	if n := countOf(club.Admins, "6"); n != 1 {
		t.Errorf("user 6 listed %d times in admins %v, want once", n, club.Admins)
	}

	if _, err := admin.RemoveMember("1"); !errors.Is(err, ErrValidation) {
		t.Errorf("RemoveMember(self) error = %v, want ErrValidation", err)
	}
	removed, err := admin.RemoveMember("6")
	if err != nil {
		t.Fatalf("RemoveMember() error: %v", err)
	}
	if removed.ClubID != "" || removed.Role != models.RoleMember {
		t.Errorf("removed user = %+v", removed)
	}
	club, _ = admin.CurrentClub()
	if club.MemberCount != 244 || countOf(club.Admins, "6") != 0 {
		t.Errorf("club after removal: count %d admins %v", club.MemberCount, club.Admins)
	}
	if _, err := admin.RemoveMember("6"); !errors.Is(err, ErrNotFound) {
		t.Errorf("removing a non-member error = %v, want ErrNotFound", err)
	}
}

func TestRemoveMember_CountNeverNegative(t *testing.T) {
	env := newTestEnv(t, Options{})
	admin := env.signIn(t, "alex@university.edu")

	env.st.mu.Lock()
	env.st.clubs.Update("1", func(c *models.Club) { c.MemberCount = 0 })
	env.st.mu.Unlock()

	if _, err := admin.RemoveMember("2"); err != nil {
		t.Fatal(err)
	}
	club, _ := admin.CurrentClub()
	if club.MemberCount != 0 {
		t.Errorf("MemberCount = %d, want 0", club.MemberCount)
	}
}

func countOf(ids []string, id string) int {
	n := 0
	for _, v := range ids {
		if v == id {
			n++
		}
	}
	return n
}
