package app

import (
	"fmt"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
)

// PanelKind is the right-hand content area shown beside the chat.
type PanelKind string

const (
	PanelChat      PanelKind = "chat"
	PanelResources PanelKind = "resources"
	PanelSessions  PanelKind = "sessions"
)

// SelectPanel maps a channel type to the panel it opens. Unknown types fall
// back to chat.
func SelectPanel(t models.ChannelType) PanelKind {
	switch t {
	case models.ChannelResources:
		return PanelResources
	case models.ChannelSessions:
		return PanelSessions
	default:
		return PanelChat
	}
}

// Overlay is a modal a client can open over the main layout.
type Overlay string

const (
	OverlayProfile        Overlay = "profile"
	OverlayDirectMessages Overlay = "direct-messages"
	OverlayMembers        Overlay = "members"
	OverlayCreateChannel  Overlay = "create-channel"
	OverlayCreateClub     Overlay = "create-club"
)

// ParseOverlay resolves an overlay name.
func ParseOverlay(s string) (Overlay, bool) {
	switch o := Overlay(s); o {
	case OverlayProfile, OverlayDirectMessages, OverlayMembers, OverlayCreateChannel, OverlayCreateClub:
		return o, true
	}
	return "", false
}

// ViewState is what a client is looking at.
type ViewState struct {
	CurrentClubID         string    `json:"current_club_id"`
	ActiveChannelID       string    `json:"active_channel_id"`
	ActivePanel           PanelKind `json:"active_panel"`
	ShowProfile           bool      `json:"show_profile"`
	ShowDirectMessages    bool      `json:"show_direct_messages"`
	ShowMembers           bool      `json:"show_members"`
	ShowCreateChannel     bool      `json:"show_create_channel"`
	ShowCreateClub        bool      `json:"show_create_club"`
	DownloadingResourceID string    `json:"downloading_resource_id,omitempty"`
	InCall                bool      `json:"in_call"`
}

func (v *ViewState) flag(o Overlay) *bool {
	switch o {
	case OverlayProfile:
		return &v.ShowProfile
	case OverlayDirectMessages:
		return &v.ShowDirectMessages
	case OverlayMembers:
		return &v.ShowMembers
	case OverlayCreateChannel:
		return &v.ShowCreateChannel
	case OverlayCreateClub:
		return &v.ShowCreateClub
	}
	return nil
}

// View returns a copy of the workspace's view state.
func (w *Workspace) View() ViewState {
	w.mu.Lock()
	defer w.mu.Unlock()
	v := w.view
	v.InCall = w.call != nil
	return v
}

// SelectChannel activates a channel of the current club and derives the
// panel from its type. An id not found in the club falls back to the
// club's first channel.
func (w *Workspace) SelectChannel(channelID string) (ViewState, error) {
	var out ViewState
	err := w.read(func(models.User) error {
		ch, ok := w.st.channels.Get(channelID)
		if !ok || ch.ClubID != w.view.CurrentClubID {
			w.st.resetChannelLocked(&w.view)
		} else {
			w.view.ActiveChannelID = ch.ID
			w.view.ActivePanel = SelectPanel(ch.Type)
		}
		out = w.view
		return nil
	})
	out.InCall = w.inCall()
	return out, err
}

// SwitchClub makes clubID current. Unknown clubs leave the view unchanged.
// When the active channel does not belong to the new club, the new club's
// first channel becomes active.
func (w *Workspace) SwitchClub(clubID string) (ViewState, error) {
	var out ViewState
	err := w.read(func(models.User) error {
		if !w.st.clubs.Has(clubID) {
			return fmt.Errorf("club %s: %w", clubID, ErrNotFound)
		}
		w.view.CurrentClubID = clubID
		if ch, ok := w.st.channels.Get(w.view.ActiveChannelID); !ok || ch.ClubID != clubID {
			w.st.resetChannelLocked(&w.view)
		}
		out = w.view
		return nil
	})
	out.InCall = w.inCall()
	return out, err
}

// OpenOverlay shows a modal. Channel creation is offered to admins only.
func (w *Workspace) OpenOverlay(o Overlay) error {
	return w.read(func(u models.User) error {
		flag := w.view.flag(o)
		if flag == nil {
			return fieldError("overlay", "is unknown")
		}
		if o == OverlayCreateChannel {
			if err := w.moderateLocked(u, w.view.CurrentClubID); err != nil {
				return err
			}
		}
		*flag = true
		return nil
	})
}

// CloseOverlay hides a modal. Closing one that is not open is a no-op.
func (w *Workspace) CloseOverlay(o Overlay) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	flag := w.view.flag(o)
	if flag == nil {
		return fieldError("overlay", "is unknown")
	}
	*flag = false
	return nil
}

// CurrentClub returns the club the workspace is looking at.
func (w *Workspace) CurrentClub() (models.Club, error) {
	var out models.Club
	err := w.read(func(models.User) error {
		c, ok := w.st.clubs.Get(w.view.CurrentClubID)
		if !ok {
			return fmt.Errorf("club %s: %w", w.view.CurrentClubID, ErrNotFound)
		}
		out = c.Clone()
		return nil
	})
	return out, err
}

// Channels lists the current club's channels in creation order.
func (w *Workspace) Channels() ([]models.Channel, error) {
	var out []models.Channel
	err := w.read(func(models.User) error {
		club := w.view.CurrentClubID
		out = w.st.channels.Filter(func(c models.Channel) bool { return c.ClubID == club })
		return nil
	})
	return out, err
}

// ChannelMessages lists the active channel's messages in send order.
func (w *Workspace) ChannelMessages() ([]models.Message, error) {
	var out []models.Message
	err := w.read(func(models.User) error {
		active := w.view.ActiveChannelID
		out = cloneAll(
			w.st.messages.Filter(func(m models.Message) bool { return m.ChannelID == active }),
			models.Message.Clone,
		)
		return nil
	})
	return out, err
}

// ResourceQuery narrows the resource list. Empty fields match everything.
type ResourceQuery struct {
	Category models.ResourceCategory
	Search   string
}

func (q ResourceQuery) match(r models.Resource) bool {
	if q.Category != "" && r.Category != q.Category {
		return false
	}
	if q.Search == "" {
		return true
	}
	s := strings.ToLower(q.Search)
	return strings.Contains(strings.ToLower(r.Title), s) ||
		strings.Contains(strings.ToLower(r.Description), s)
}

// ClubResources lists the current club's resources, most recent upload first.
func (w *Workspace) ClubResources(q ResourceQuery) ([]models.Resource, error) {
	var out []models.Resource
	err := w.read(func(models.User) error {
		club := w.view.CurrentClubID
		out = cloneAll(
			w.st.resources.Filter(func(r models.Resource) bool { return r.ClubID == club && q.match(r) }),
			models.Resource.Clone,
		)
		return nil
	})
	return out, err
}

// ClubSessions lists the current club's sessions, most recently created first.
func (w *Workspace) ClubSessions() ([]models.Session, error) {
	var out []models.Session
	err := w.read(func(models.User) error {
		club := w.view.CurrentClubID
		out = cloneAll(
			w.st.sessions.Filter(func(s models.Session) bool { return s.ClubID == club }),
			models.Session.Clone,
		)
		return nil
	})
	return out, err
}

func (w *Workspace) inCall() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.call != nil
}
