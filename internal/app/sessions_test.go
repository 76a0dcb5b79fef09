package app

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/lalith-99/clubhub/internal/models"
)

func TestToggleJoin_LeaveThenRejoinAppends(t *testing.T) {
	env := newTestEnv(t, Options{})
	w := env.signIn(t, "priya@university.edu")

	s, err := w.ToggleJoin("1")
	if err != nil {
		t.Fatalf("ToggleJoin() leave error: %v", err)
	}
	if want := []string{"1", "3"}; !reflect.DeepEqual(s.Participants, want) {
		t.Errorf("after leave = %v, want %v", s.Participants, want)
	}

	s, err = w.ToggleJoin("1")
	if err != nil {
		t.Fatalf("ToggleJoin() rejoin error: %v", err)
	}
	if want := []string{"1", "3", "2"}; !reflect.DeepEqual(s.Participants, want) {
		t.Errorf("after rejoin = %v, want %v (rejoin goes to the end)", s.Participants, want)
	}
}

func TestToggleJoin_TwiceFromOutsideRestoresList(t *testing.T) {
	env := newTestEnv(t, Options{})
	w := env.signIn(t, "rahul@university.edu")

	sessions, _ := w.ClubSessions()
	var orig []string
	for _, s := range sessions {
		if s.ID == "2" {
			orig = s.Participants
		}
	}
	if _, err := w.ToggleJoin("2"); err != nil {
		t.Fatal(err)
	}
	s, err := w.ToggleJoin("2")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(s.Participants, orig) {
		t.Errorf("join+leave = %v, want %v", s.Participants, orig)
	}
}

func TestToggleJoin_AtCapacity(t *testing.T) {
	env := newTestEnv(t, Options{})
	admin := env.signIn(t, "alex@university.edu")
	member := env.signIn(t, "priya@university.edu")

	s, err := admin.CreateSession(SessionInput{
		Title:           "Mock Interviews",
		StartTime:       env.clock.Now().Add(2 * time.Hour),
		Duration:        60,
		Type:            models.SessionMeetup,
		MaxParticipants: 1,
	})
	if err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	if _, err := admin.ToggleJoin(s.ID); err != nil {
		t.Fatalf("admin join error: %v", err)
	}

	_, err = member.ToggleJoin(s.ID)
	if !errors.Is(err, ErrSessionFull) {
		t.Fatalf("join at capacity error = %v, want ErrSessionFull", err)
	}
	list, _ := member.ClubSessions()
	if got := list[0].Participants; len(got) != 1 || got[0] != "1" {
		t.Errorf("participants = %v, want only 1", got)
	}

	if _, err := member.ToggleJoin("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ToggleJoin(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestCreateSession(t *testing.T) {
	env := newTestEnv(t, Options{})
	admin := env.signIn(t, "alex@university.edu")
	member := env.signIn(t, "priya@university.edu")

	in := SessionInput{
		Title:           "Graphs Workshop",
		StartTime:       env.clock.Now().Add(72 * time.Hour),
		Duration:        90,
		Type:            models.SessionWorkshop,
		MaxParticipants: 30,
		MeetingLink:     "https://meet.google.com/aaa-bbbb-ccc",
	}
	if _, err := member.CreateSession(in); !errors.Is(err, ErrForbidden) {
		t.Errorf("member CreateSession() error = %v, want ErrForbidden", err)
	}

	s, err := admin.CreateSession(in)
	if err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}
	if s.Instructor.ID != "1" || s.ClubID != "1" || len(s.Participants) != 0 || s.Participants == nil {
		t.Errorf("CreateSession() = %+v", s)
	}
	list, _ := admin.ClubSessions()
	if len(list) != 3 || list[0].ID != s.ID {
		t.Errorf("new session not first: %d sessions, first %s", len(list), list[0].ID)
	}

	tests := []struct {
		name  string
		in    SessionInput
		field string
	}{
		{"no title", SessionInput{StartTime: in.StartTime, Duration: 1, Type: models.SessionDSA, MaxParticipants: 1}, "title"},
		{"zero duration", SessionInput{Title: "x", StartTime: in.StartTime, Type: models.SessionDSA, MaxParticipants: 1}, "duration"},
		{"bad type", SessionInput{Title: "x", StartTime: in.StartTime, Duration: 1, Type: "party", MaxParticipants: 1}, "type"},
		{"no capacity", SessionInput{Title: "x", StartTime: in.StartTime, Duration: 1, Type: models.SessionDSA}, "max_participants"},
		{"no start", SessionInput{Title: "x", Duration: 1, Type: models.SessionDSA, MaxParticipants: 1}, "start_time"},
		{"bad link", SessionInput{Title: "x", StartTime: in.StartTime, Duration: 1, Type: models.SessionDSA, MaxParticipants: 1, MeetingLink: "not a url"}, "meeting_link"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := admin.CreateSession(tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("CreateSession() error = %v, want *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.field]; !ok {
				t.Errorf("Fields = %v, want %s", verr.Fields, tt.field)
			}
		})
	}
}
