package app

import (
	"fmt"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"go.uber.org/zap"
)

// CallControl names one of a participant's independent call toggles.
type CallControl string

const (
	ControlVideo       CallControl = "video"
	ControlAudio       CallControl = "audio"
	ControlScreenShare CallControl = "screen-share"
)

func ParseCallControl(s string) (CallControl, bool) {
	switch c := CallControl(s); c {
	case ControlVideo, ControlAudio, ControlScreenShare:
		return c, true
	}
	return "", false
}

// StartCall opens an ephemeral call for sessionID with the current user as
// its only participant. An existing call is replaced.
func (w *Workspace) StartCall(sessionID string) (models.VideoCall, error) {
	var out models.VideoCall
	err := w.read(func(u models.User) error {
		if !w.st.sessions.Has(sessionID) {
			return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		w.call = &models.VideoCall{
			ID:        w.st.ids.New(),
			SessionID: sessionID,
			Participants: []models.CallParticipant{{
				UserID:         u.ID,
				UserName:       u.Name,
				Avatar:         u.Avatar,
				IsVideoEnabled: true,
				IsAudioEnabled: true,
			}},
			Chat:      []models.CallChatMessage{},
			IsActive:  true,
			StartTime: w.st.clock.Now(),
		}
		out = w.call.Clone()
		return nil
	})
	if err == nil {
		w.st.log.Debug("call started", zap.String("workspace_id", w.id), zap.String("session_id", sessionID))
	}
	return out, err
}

// Toggle flips one control for the current user's entry only.
func (w *Workspace) Toggle(control CallControl) (models.VideoCall, error) {
	if _, ok := ParseCallControl(string(control)); !ok {
		return models.VideoCall{}, fieldError("control", "must be one of: video, audio, screen-share")
	}
	var out models.VideoCall
	err := w.read(func(u models.User) error {
		if w.call == nil {
			return ErrNoActiveCall
		}
		for i := range w.call.Participants {
			p := &w.call.Participants[i]
			if p.UserID != u.ID {
				continue
			}
			switch control {
			case ControlVideo:
				p.IsVideoEnabled = !p.IsVideoEnabled
			case ControlAudio:
				p.IsAudioEnabled = !p.IsAudioEnabled
			case ControlScreenShare:
				p.IsScreenSharing = !p.IsScreenSharing
			}
		}
		out = w.call.Clone()
		return nil
	})
	return out, err
}

func (w *Workspace) ToggleVideo() (models.VideoCall, error) { return w.Toggle(ControlVideo) }

func (w *Workspace) ToggleAudio() (models.VideoCall, error) { return w.Toggle(ControlAudio) }

func (w *Workspace) ToggleScreenShare() (models.VideoCall, error) {
	return w.Toggle(ControlScreenShare)
}

// AttachStream hands a participant the stream an external media layer
// captured for them. The handle is stored as-is.
func (w *Workspace) AttachStream(userID string, stream models.MediaStream) error {
	return w.read(func(models.User) error {
		if w.call == nil {
			return ErrNoActiveCall
		}
		for i := range w.call.Participants {
			if w.call.Participants[i].UserID == userID {
				w.call.Participants[i].Stream = stream
				return nil
			}
		}
		return fmt.Errorf("participant %s: %w", userID, ErrNotFound)
	})
}

// SendCallChat adds a line to the call's chat. The log dies with the call.
func (w *Workspace) SendCallChat(text string) (models.CallChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.CallChatMessage{}, fieldError("text", "is required")
	}
	var msg models.CallChatMessage
	err := w.read(func(u models.User) error {
		if w.call == nil {
			return ErrNoActiveCall
		}
		msg = models.CallChatMessage{UserID: u.ID, Text: text, Timestamp: w.st.clock.Now()}
		w.call.Chat = append(w.call.Chat, msg)
		return nil
	})
	return msg, err
}

// LeaveCall discards the call with all its participants and chat.
func (w *Workspace) LeaveCall() error {
	return w.read(func(models.User) error {
		if w.call == nil {
			return ErrNoActiveCall
		}
		w.call = nil
		return nil
	})
}

// Call returns the active call, if any.
func (w *Workspace) Call() (models.VideoCall, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.call == nil {
		return models.VideoCall{}, false
	}
	return w.call.Clone(), true
}
