package models

import (
	"time"
)

// Role is a user's standing inside their club.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User is a person in the community.
//
// ClubID is the club the user belongs to; it is empty once an admin
// removes them. Users are never deleted, only updated.
type User struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name" yaml:"name"`
	Email      string     `json:"email" yaml:"email"`
	Avatar     string     `json:"avatar" yaml:"avatar"`
	Role       Role       `json:"role" yaml:"role"`
	ClubID     string     `json:"club_id" yaml:"club_id"`
	Bio        string     `json:"bio,omitempty" yaml:"bio"`
	Skills     []string   `json:"skills,omitempty" yaml:"skills"`
	Year       string     `json:"year,omitempty" yaml:"year"`
	Department string     `json:"department,omitempty" yaml:"department"`
	IsOnline   bool       `json:"is_online" yaml:"is_online"`
	LastSeen   *time.Time `json:"last_seen,omitempty" yaml:"-"`
}

// Clone returns a copy that shares no slices or pointers with u.
func (u User) Clone() User {
	if u.Skills != nil {
		u.Skills = append([]string(nil), u.Skills...)
	}
	if u.LastSeen != nil {
		t := *u.LastSeen
		u.LastSeen = &t
	}
	return u
}

// Club is the top-level grouping. Channels, resources and sessions all
// carry a ClubID that must reference an existing club.
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Logo        string    `json:"logo"`
	MemberCount int       `json:"member_count"`
	Admins      []string  `json:"admins"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c Club) Clone() Club {
	c.Admins = append([]string{}, c.Admins...)
	return c
}

// IsAdmin reports whether userID is in the club's admin list.
func (c Club) IsAdmin(userID string) bool {
	for _, id := range c.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// ApplicationStatus tracks a club application through review.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

// ClubApplication is a request by a student president to register a new club.
type ClubApplication struct {
	ID              string            `json:"id"`
	ClubName        string            `json:"club_name"`
	Description     string            `json:"description"`
	Category        string            `json:"category"`
	ApplicantID     string            `json:"applicant_id"`
	PresidencyProof string            `json:"presidency_proof"`
	Status          ApplicationStatus `json:"status"`
	AppliedAt       time.Time         `json:"applied_at"`
	ReviewedAt      *time.Time        `json:"reviewed_at,omitempty"`
	ReviewedBy      string            `json:"reviewed_by,omitempty"`
	ClubID          string            `json:"club_id,omitempty"`
}

func (a ClubApplication) Clone() ClubApplication {
	if a.ReviewedAt != nil {
		t := *a.ReviewedAt
		a.ReviewedAt = &t
	}
	return a
}

// ChannelType decides which panel a channel opens.
type ChannelType string

const (
	ChannelGeneral   ChannelType = "general"
	ChannelQnA       ChannelType = "qna"
	ChannelResources ChannelType = "resources"
	ChannelSessions  ChannelType = "sessions"
)

// ChannelTypes lists every channel type in declaration order.
var ChannelTypes = []ChannelType{ChannelGeneral, ChannelQnA, ChannelResources, ChannelSessions}

func (t ChannelType) Valid() bool {
	switch t {
	case ChannelGeneral, ChannelQnA, ChannelResources, ChannelSessions:
		return true
	}
	return false
}

// Channel is a typed sub-forum inside a club. Names are unique per club.
type Channel struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	ClubID       string      `json:"club_id"`
	Type         ChannelType `json:"type"`
	MessageCount int         `json:"message_count"`
}

// MessageType classifies a channel message.
type MessageType string

const (
	MessageText         MessageType = "message"
	MessageQuestion     MessageType = "question"
	MessageAnswer       MessageType = "answer"
	MessageAnnouncement MessageType = "announcement"
)

type AttachmentType string

const (
	AttachmentFile  AttachmentType = "file"
	AttachmentImage AttachmentType = "image"
	AttachmentVideo AttachmentType = "video"
)

type Attachment struct {
	ID   string         `json:"id"`
	Name string         `json:"name"`
	URL  string         `json:"url"`
	Type AttachmentType `json:"type"`
	Size string         `json:"size"`
}

// Message is a single post in a channel. ReadBy never holds duplicates.
type Message struct {
	ID          string       `json:"id"`
	Content     string       `json:"content"`
	Author      User         `json:"author"`
	ChannelID   string       `json:"channel_id"`
	Timestamp   time.Time    `json:"timestamp"`
	IsPinned    bool         `json:"is_pinned"`
	Type        MessageType  `json:"type"`
	Attachments []Attachment `json:"attachments,omitempty"`
	ReadBy      []string     `json:"read_by"`
}

func (m Message) Clone() Message {
	m.Author = m.Author.Clone()
	if m.Attachments != nil {
		m.Attachments = append([]Attachment(nil), m.Attachments...)
	}
	m.ReadBy = append([]string{}, m.ReadBy...)
	return m
}

// HasRead reports whether userID is in ReadBy.
func (m Message) HasRead(userID string) bool {
	for _, id := range m.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

type DirectMessageType string

const (
	DirectText  DirectMessageType = "text"
	DirectFile  DirectMessageType = "file"
	DirectImage DirectMessageType = "image"
)

// DirectMessage is a private one-to-one message outside any channel.
type DirectMessage struct {
	ID         string            `json:"id"`
	Content    string            `json:"content"`
	SenderID   string            `json:"sender_id"`
	ReceiverID string            `json:"receiver_id"`
	Timestamp  time.Time         `json:"timestamp"`
	IsRead     bool              `json:"is_read"`
	Type       DirectMessageType `json:"type"`
}

// Between reports whether the message belongs to the conversation of a and b,
// in either direction.
func (d DirectMessage) Between(a, b string) bool {
	return (d.SenderID == a && d.ReceiverID == b) || (d.SenderID == b && d.ReceiverID == a)
}

// SessionType is the kind of scheduled event.
type SessionType string

const (
	SessionDSA      SessionType = "dsa"
	SessionTechTalk SessionType = "tech-talk"
	SessionWorkshop SessionType = "workshop"
	SessionMeetup   SessionType = "meetup"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionDSA, SessionTechTalk, SessionWorkshop, SessionMeetup:
		return true
	}
	return false
}

// Session is a scheduled live event with capacity-limited participation.
// Participants holds unique user ids in join order.
type Session struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Instructor      User        `json:"instructor"`
	ClubID          string      `json:"club_id"`
	StartTime       time.Time   `json:"start_time"`
	Duration        int         `json:"duration"`
	Type            SessionType `json:"type"`
	MaxParticipants int         `json:"max_participants"`
	Participants    []string    `json:"participants"`
	MeetingLink     string      `json:"meeting_link,omitempty"`
}

func (s Session) Clone() Session {
	s.Instructor = s.Instructor.Clone()
	s.Participants = append([]string{}, s.Participants...)
	return s
}

// Joined reports whether userID is a participant.
func (s Session) Joined(userID string) bool {
	for _, id := range s.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// Full reports whether no further participant can join.
func (s Session) Full() bool {
	return len(s.Participants) >= s.MaxParticipants
}

// ResourceCategory groups shared study material.
type ResourceCategory string

const (
	CategoryNotes      ResourceCategory = "notes"
	CategorySyllabus   ResourceCategory = "syllabus"
	CategoryPastPapers ResourceCategory = "past-papers"
	CategoryTutorials  ResourceCategory = "tutorials"
	CategoryBooks      ResourceCategory = "books"
)

func (c ResourceCategory) Valid() bool {
	switch c {
	case CategoryNotes, CategorySyllabus, CategoryPastPapers, CategoryTutorials, CategoryBooks:
		return true
	}
	return false
}

// Resource is a shared downloadable artifact. DownloadCount only grows.
type Resource struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Category      ResourceCategory `json:"category"`
	FileURL       string           `json:"file_url"`
	UploadedBy    User             `json:"uploaded_by"`
	ClubID        string           `json:"club_id"`
	DownloadCount int              `json:"download_count"`
	UploadDate    time.Time        `json:"upload_date"`
	Tags          []string         `json:"tags,omitempty"`
}

func (r Resource) Clone() Resource {
	r.UploadedBy = r.UploadedBy.Clone()
	if r.Tags != nil {
		r.Tags = append([]string(nil), r.Tags...)
	}
	return r
}

// MediaStream is a handle to a capture stream owned by an external media
// layer. It is carried, never opened or closed, by this service.
type MediaStream interface {
	StreamID() string
}

// CallParticipant holds one user's toggles inside an active call.
type CallParticipant struct {
	UserID          string      `json:"user_id"`
	UserName        string      `json:"user_name"`
	Avatar          string      `json:"avatar"`
	IsVideoEnabled  bool        `json:"is_video_enabled"`
	IsAudioEnabled  bool        `json:"is_audio_enabled"`
	IsScreenSharing bool        `json:"is_screen_sharing"`
	Stream          MediaStream `json:"-"`
}

// CallChatMessage is a line typed into the call sidebar.
type CallChatMessage struct {
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// VideoCall is ephemeral; it is discarded when the caller leaves.
type VideoCall struct {
	ID           string            `json:"id"`
	SessionID    string            `json:"session_id,omitempty"`
	Participants []CallParticipant `json:"participants"`
	Chat         []CallChatMessage `json:"chat"`
	IsActive     bool              `json:"is_active"`
	StartTime    time.Time         `json:"start_time"`
}

func (v VideoCall) Clone() VideoCall {
	v.Participants = append([]CallParticipant{}, v.Participants...)
	v.Chat = append([]CallChatMessage{}, v.Chat...)
	return v
}

// AuthState is a client's authentication status.
type AuthState struct {
	IsAuthenticated bool  `json:"is_authenticated"`
	User            *User `json:"user"`
	Loading         bool  `json:"loading"`
}
