package app

import (
	"fmt"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/store"
)

// Snapshot is a deep copy of every entity store, in store order.
type Snapshot struct {
	Users          []models.User            `json:"users"`
	Clubs          []models.Club            `json:"clubs"`
	Channels       []models.Channel         `json:"channels"`
	Messages       []models.Message         `json:"messages"`
	DirectMessages []models.DirectMessage   `json:"direct_messages"`
	Sessions       []models.Session         `json:"sessions"`
	Resources      []models.Resource        `json:"resources"`
	Applications   []models.ClubApplication `json:"applications"`
}

// Snapshot copies the current contents of every store.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Users:          cloneAll(s.users.Values(), models.User.Clone),
		Clubs:          cloneAll(s.clubs.Values(), models.Club.Clone),
		Channels:       s.channels.Values(),
		Messages:       cloneAll(s.messages.Values(), models.Message.Clone),
		DirectMessages: s.dms.Values(),
		Sessions:       cloneAll(s.sessions.Values(), models.Session.Clone),
		Resources:      cloneAll(s.resources.Values(), models.Resource.Clone),
		Applications:   cloneAll(s.applications.Values(), models.ClubApplication.Clone),
	}
}

// Restore replaces every store with the snapshot's contents. Either all
// stores are replaced or, on error, none are.
func (s *State) Restore(snap Snapshot) error {
	users := store.New(func(u models.User) string { return u.ID })
	clubs := store.New(func(c models.Club) string { return c.ID })
	channels := store.New(func(c models.Channel) string { return c.ID })
	messages := store.New(func(m models.Message) string { return m.ID })
	dms := store.New(func(d models.DirectMessage) string { return d.ID })
	sessions := store.New(func(s models.Session) string { return s.ID })
	resources := store.New(func(r models.Resource) string { return r.ID })
	applications := store.New(func(a models.ClubApplication) string { return a.ID })

	loads := []struct {
		name string
		load func() error
	}{
		{"users", func() error { return users.Replace(cloneAll(snap.Users, models.User.Clone)) }},
		{"clubs", func() error { return clubs.Replace(cloneAll(snap.Clubs, models.Club.Clone)) }},
		{"channels", func() error { return channels.Replace(append([]models.Channel(nil), snap.Channels...)) }},
		{"messages", func() error { return messages.Replace(cloneAll(snap.Messages, normalizeMessage)) }},
		{"direct messages", func() error { return dms.Replace(append([]models.DirectMessage(nil), snap.DirectMessages...)) }},
		{"sessions", func() error { return sessions.Replace(cloneAll(snap.Sessions, models.Session.Clone)) }},
		{"resources", func() error { return resources.Replace(cloneAll(snap.Resources, models.Resource.Clone)) }},
		{"applications", func() error { return applications.Replace(cloneAll(snap.Applications, models.ClubApplication.Clone)) }},
	}
	for _, l := range loads {
		if err := l.load(); err != nil {
			return fmt.Errorf("restore %s: %w", l.name, err)
		}
	}

	for _, ch := range channels.Values() {
		if !clubs.Has(ch.ClubID) {
			return fmt.Errorf("restore: channel %s references unknown club %s: %w", ch.ID, ch.ClubID, ErrNotFound)
		}
	}
	for _, m := range messages.Values() {
		if !channels.Has(m.ChannelID) {
			return fmt.Errorf("restore: message %s references unknown channel %s: %w", m.ID, m.ChannelID, ErrNotFound)
		}
	}
	for _, r := range resources.Values() {
		if !clubs.Has(r.ClubID) {
			return fmt.Errorf("restore: resource %s references unknown club %s: %w", r.ID, r.ClubID, ErrNotFound)
		}
	}
	for _, ss := range sessions.Values() {
		if !clubs.Has(ss.ClubID) {
			return fmt.Errorf("restore: session %s references unknown club %s: %w", ss.ID, ss.ClubID, ErrNotFound)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users, s.clubs, s.channels = users, clubs, channels
	s.messages, s.dms, s.sessions = messages, dms, sessions
	s.resources, s.applications = resources, applications
	return nil
}

// normalizeMessage copies m and drops duplicate readers.
func normalizeMessage(m models.Message) models.Message {
	m = m.Clone()
	seen := make(map[string]bool, len(m.ReadBy))
	readBy := make([]string, 0, len(m.ReadBy))
	for _, id := range m.ReadBy {
		if !seen[id] {
			seen[id] = true
			readBy = append(readBy, id)
		}
	}
	m.ReadBy = readBy
	return m
}

func cloneAll[T any](in []T, clone func(T) T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		out = append(out, clone(v))
	}
	return out
}
