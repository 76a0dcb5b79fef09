// Package fixtures loads the static seed data the application starts from.
package fixtures

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lalith-99/clubhub/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Demo is the one credential pair the demo authenticator accepts.
type Demo struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	UserID   string `yaml:"user_id"`
}

// Defaults are applied to users created at signup.
type Defaults struct {
	Avatar string `yaml:"avatar"`
	ClubID string `yaml:"club_id"`
}

// Fixtures is the resolved seed: every reference by id has been replaced
// with the referenced entity and every relative time made absolute.
type Fixtures struct {
	Demo           Demo
	Defaults       Defaults
	Users          []models.User
	Clubs          []models.Club
	Channels       []models.Channel
	Messages       []models.Message
	Sessions       []models.Session
	Resources      []models.Resource
	DirectMessages []models.DirectMessage
}

type rawUser struct {
	models.User `yaml:",inline"`
	LastSeenAgo string `yaml:"last_seen_ago"`
}

type rawClub struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Logo        string   `yaml:"logo"`
	MemberCount int      `yaml:"member_count"`
	Admins      []string `yaml:"admins"`
	CreatedAt   string   `yaml:"created_at"`
}

type rawChannel struct {
	ID           string             `yaml:"id"`
	Name         string             `yaml:"name"`
	Description  string             `yaml:"description"`
	ClubID       string             `yaml:"club_id"`
	Type         models.ChannelType `yaml:"type"`
	MessageCount int                `yaml:"message_count"`
}

type rawMessage struct {
	ID        string             `yaml:"id"`
	Content   string             `yaml:"content"`
	AuthorID  string             `yaml:"author_id"`
	ChannelID string             `yaml:"channel_id"`
	Ago       string             `yaml:"ago"`
	Pinned    bool               `yaml:"pinned"`
	Type      models.MessageType `yaml:"type"`
	ReadBy    []string           `yaml:"read_by"`
}

type rawSession struct {
	ID              string             `yaml:"id"`
	Title           string             `yaml:"title"`
	Description     string             `yaml:"description"`
	InstructorID    string             `yaml:"instructor_id"`
	ClubID          string             `yaml:"club_id"`
	In              string             `yaml:"in"`
	Duration        int                `yaml:"duration"`
	Type            models.SessionType `yaml:"type"`
	MaxParticipants int                `yaml:"max_participants"`
	Participants    []string           `yaml:"participants"`
	MeetingLink     string             `yaml:"meeting_link"`
}

type rawResource struct {
	ID            string                  `yaml:"id"`
	Title         string                  `yaml:"title"`
	Description   string                  `yaml:"description"`
	Category      models.ResourceCategory `yaml:"category"`
	FileURL       string                  `yaml:"file_url"`
	UploadedBy    string                  `yaml:"uploaded_by"`
	ClubID        string                  `yaml:"club_id"`
	DownloadCount int                     `yaml:"download_count"`
	Ago           string                  `yaml:"ago"`
	Tags          []string                `yaml:"tags"`
}

type rawDirectMessage struct {
	ID         string `yaml:"id"`
	Content    string `yaml:"content"`
	SenderID   string `yaml:"sender_id"`
	ReceiverID string `yaml:"receiver_id"`
	Ago        string `yaml:"ago"`
	Read       bool   `yaml:"read"`
}

type rawFixtures struct {
	Demo           Demo               `yaml:"demo"`
	Defaults       Defaults           `yaml:"defaults"`
	Users          []rawUser          `yaml:"users"`
	Clubs          []rawClub          `yaml:"clubs"`
	Channels       []rawChannel       `yaml:"channels"`
	Messages       []rawMessage       `yaml:"messages"`
	Sessions       []rawSession       `yaml:"sessions"`
	Resources      []rawResource      `yaml:"resources"`
	DirectMessages []rawDirectMessage `yaml:"direct_messages"`
}

// Default resolves the embedded seed against now.
func Default(now time.Time) (*Fixtures, error) {
	return Load(bytes.NewReader(seedYAML), now)
}

// LoadFile resolves a seed file on disk against now.
func LoadFile(path string, now time.Time) (*Fixtures, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return Load(f, now)
}

// Load decodes seed YAML from r and resolves it against now.
func Load(r io.Reader, now time.Time) (*Fixtures, error) {
	var raw rawFixtures
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return raw.resolve(now)
}

func (raw *rawFixtures) resolve(now time.Time) (*Fixtures, error) {
	fx := &Fixtures{Demo: raw.Demo, Defaults: raw.Defaults}

	users := make(map[string]models.User, len(raw.Users))
	for _, ru := range raw.Users {
		u := ru.User
		if ru.LastSeenAgo != "" {
			at, err := ago(now, ru.LastSeenAgo)
			if err != nil {
				return nil, fmt.Errorf("user %s: %w", u.ID, err)
			}
			u.LastSeen = &at
		}
		users[u.ID] = u
		fx.Users = append(fx.Users, u)
	}
	lookupUser := func(kind, id string) (models.User, error) {
		u, ok := users[id]
		if !ok {
			return models.User{}, fmt.Errorf("%s references unknown user %q", kind, id)
		}
		return u.Clone(), nil
	}

	clubs := make(map[string]bool, len(raw.Clubs))
	for _, rc := range raw.Clubs {
		created, err := time.Parse("2006-01-02", rc.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("club %s created_at: %w", rc.ID, err)
		}
		clubs[rc.ID] = true
		fx.Clubs = append(fx.Clubs, models.Club{
			ID:          rc.ID,
			Name:        rc.Name,
			Description: rc.Description,
			Logo:        rc.Logo,
			MemberCount: rc.MemberCount,
			Admins:      append([]string{}, rc.Admins...),
			CreatedAt:   created,
		})
	}
	if len(fx.Clubs) == 0 {
		return nil, fmt.Errorf("fixtures define no clubs")
	}
	if !clubs[fx.Defaults.ClubID] {
		return nil, fmt.Errorf("default club %q does not exist", fx.Defaults.ClubID)
	}
	if _, ok := users[fx.Demo.UserID]; !ok {
		return nil, fmt.Errorf("demo user %q does not exist", fx.Demo.UserID)
	}

	channels := make(map[string]bool, len(raw.Channels))
	for _, rc := range raw.Channels {
		if !clubs[rc.ClubID] {
			return nil, fmt.Errorf("channel %s references unknown club %q", rc.ID, rc.ClubID)
		}
		if !rc.Type.Valid() {
			return nil, fmt.Errorf("channel %s has unknown type %q", rc.ID, rc.Type)
		}
		channels[rc.ID] = true
		fx.Channels = append(fx.Channels, models.Channel(rc))
	}

	for _, rm := range raw.Messages {
		if !channels[rm.ChannelID] {
			return nil, fmt.Errorf("message %s references unknown channel %q", rm.ID, rm.ChannelID)
		}
		author, err := lookupUser("message "+rm.ID, rm.AuthorID)
		if err != nil {
			return nil, err
		}
		at, err := ago(now, rm.Ago)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", rm.ID, err)
		}
		fx.Messages = append(fx.Messages, models.Message{
			ID:        rm.ID,
			Content:   rm.Content,
			Author:    author,
			ChannelID: rm.ChannelID,
			Timestamp: at,
			IsPinned:  rm.Pinned,
			Type:      rm.Type,
			ReadBy:    append([]string{}, rm.ReadBy...),
		})
	}

	for _, rs := range raw.Sessions {
		if !clubs[rs.ClubID] {
			return nil, fmt.Errorf("session %s references unknown club %q", rs.ID, rs.ClubID)
		}
		instructor, err := lookupUser("session "+rs.ID, rs.InstructorID)
		if err != nil {
			return nil, err
		}
		d, err := time.ParseDuration(rs.In)
		if err != nil {
			return nil, fmt.Errorf("session %s start: %w", rs.ID, err)
		}
		fx.Sessions = append(fx.Sessions, models.Session{
			ID:              rs.ID,
			Title:           rs.Title,
			Description:     rs.Description,
			Instructor:      instructor,
			ClubID:          rs.ClubID,
			StartTime:       now.Add(d),
			Duration:        rs.Duration,
			Type:            rs.Type,
			MaxParticipants: rs.MaxParticipants,
			Participants:    append([]string{}, rs.Participants...),
			MeetingLink:     rs.MeetingLink,
		})
	}

	for _, rr := range raw.Resources {
		if !clubs[rr.ClubID] {
			return nil, fmt.Errorf("resource %s references unknown club %q", rr.ID, rr.ClubID)
		}
		uploader, err := lookupUser("resource "+rr.ID, rr.UploadedBy)
		if err != nil {
			return nil, err
		}
		at, err := ago(now, rr.Ago)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", rr.ID, err)
		}
		fx.Resources = append(fx.Resources, models.Resource{
			ID:            rr.ID,
			Title:         rr.Title,
			Description:   rr.Description,
			Category:      rr.Category,
			FileURL:       rr.FileURL,
			UploadedBy:    uploader,
			ClubID:        rr.ClubID,
			DownloadCount: rr.DownloadCount,
			UploadDate:    at,
			Tags:          rr.Tags,
		})
	}

	for _, rd := range raw.DirectMessages {
		for _, id := range []string{rd.SenderID, rd.ReceiverID} {
			if _, err := lookupUser("direct message "+rd.ID, id); err != nil {
				return nil, err
			}
		}
		at, err := ago(now, rd.Ago)
		if err != nil {
			return nil, fmt.Errorf("direct message %s: %w", rd.ID, err)
		}
		fx.DirectMessages = append(fx.DirectMessages, models.DirectMessage{
			ID:         rd.ID,
			Content:    rd.Content,
			SenderID:   rd.SenderID,
			ReceiverID: rd.ReceiverID,
			Timestamp:  at,
			IsRead:     rd.Read,
			Type:       models.DirectText,
		})
	}

	return fx, nil
}

func ago(now time.Time, s string) (time.Time, error) {
	if s == "" {
		return now, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse relative time %q: %w", s, err)
	}
	return now.Add(-d), nil
}
