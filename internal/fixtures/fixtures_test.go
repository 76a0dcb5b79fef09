package fixtures

import (
	"strings"
	"testing"
	"time"
)

var now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestDefault(t *testing.T) {
	fx, err := Default(now)
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	if fx.Demo.Email != "alex@university.edu" || fx.Demo.Password != "demo123" {
		t.Errorf("Demo = %+v, want the alex@university.edu / demo123 pair", fx.Demo)
	}
	if len(fx.Clubs) != 3 {
		t.Errorf("len(Clubs) = %d, want 3", len(fx.Clubs))
	}
	if len(fx.Channels) != 4 {
		t.Errorf("len(Channels) = %d, want 4", len(fx.Channels))
	}
	if fx.Channels[0].Name != "general" {
		t.Errorf("first channel = %q, want general", fx.Channels[0].Name)
	}

	if got := fx.Messages[1].Author.Name; got != "Priya Singh" {
		t.Errorf("message 2 author = %q, want Priya Singh", got)
	}
	if got, want := fx.Messages[0].Timestamp, now.Add(-time.Hour); !got.Equal(want) {
		t.Errorf("message 1 timestamp = %v, want %v", got, want)
	}
	if got, want := fx.Sessions[0].StartTime, now.Add(24*time.Hour); !got.Equal(want) {
		t.Errorf("session 1 start = %v, want %v", got, want)
	}
	if fx.Resources[1].UploadedBy.Name != "Prof. Kumar" {
		t.Errorf("resource 2 uploader = %q, want Prof. Kumar", fx.Resources[1].UploadedBy.Name)
	}

	var rahulSeen bool
	for _, u := range fx.Users {
		if u.ID == "3" && u.LastSeen != nil && u.LastSeen.Equal(now.Add(-time.Hour)) {
			rahulSeen = true
		}
	}
	if !rahulSeen {
		t.Error("user 3 last_seen_ago was not resolved")
	}
}

func TestLoad_BrokenReferences(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no clubs",
			yaml:    "demo: {user_id: '1'}\nusers: [{id: '1'}]\n",
			wantErr: "no clubs",
		},
		{
			name: "channel in unknown club",
			yaml: `
demo: {user_id: "1"}
defaults: {club_id: "1"}
users: [{id: "1"}]
clubs: [{id: "1", created_at: "2024-01-01"}]
channels: [{id: "1", club_id: "9", type: general}]
`,
			wantErr: "unknown club",
		},
		{
			name: "message by unknown author",
			yaml: `
demo: {user_id: "1"}
defaults: {club_id: "1"}
users: [{id: "1"}]
clubs: [{id: "1", created_at: "2024-01-01"}]
channels: [{id: "1", club_id: "1", type: general}]
messages: [{id: "1", channel_id: "1", author_id: "7"}]
`,
			wantErr: "unknown user",
		},
		{
			name: "bad channel type",
			yaml: `
demo: {user_id: "1"}
defaults: {club_id: "1"}
users: [{id: "1"}]
clubs: [{id: "1", created_at: "2024-01-01"}]
channels: [{id: "1", club_id: "1", type: voice}]
`,
			wantErr: "unknown type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.yaml), now)
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load() error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
