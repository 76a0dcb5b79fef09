package realtime

import "encoding/json"

// Event types pushed to connected clients.
const (
	MessageCreated     = "message.created"
	MessageUpdated     = "message.updated"
	DirectMessageSent  = "dm.created"
	ResourceCreated    = "resource.created"
	ResourceDownloaded = "resource.downloaded"
	SessionCreated     = "session.created"
	SessionUpdated     = "session.updated"
	ChannelCreated     = "channel.created"
	ClubCreated        = "club.created"
	UserUpdated        = "user.updated"
)

// Event is a state change worth telling clients about.
//
// ClubID scopes the event to clients looking at that club. UserIDs, when
// set, restricts delivery to those users regardless of club.
type Event struct {
	Type      string          `json:"type"`
	ClubID    string          `json:"club_id,omitempty"`
	ChannelID string          `json:"channel_id,omitempty"`
	UserIDs   []string        `json:"user_ids,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEvent marshals payload into an Event.
func NewEvent(typ string, payload any) Event {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = []byte("null")
	}
	return Event{Type: typ, Payload: raw}
}

// For returns a copy of e addressed to the given users only.
func (e Event) For(userIDs ...string) Event {
	e.UserIDs = userIDs
	return e
}

// InClub returns a copy of e scoped to clubID.
func (e Event) InClub(clubID string) Event {
	e.ClubID = clubID
	return e
}

// InChannel returns a copy of e tagged with channelID.
func (e Event) InChannel(channelID string) Event {
	e.ChannelID = channelID
	return e
}
