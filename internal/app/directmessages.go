package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
)

// SendDirectMessage sends a private text message to receiverID.
func (w *Workspace) SendDirectMessage(receiverID, content string) (models.DirectMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.DirectMessage{}, fieldError("content", "is required")
	}

	var dm models.DirectMessage
	err := w.write(func(u models.User) error {
		if !w.st.users.Has(receiverID) {
			return fmt.Errorf("user %s: %w", receiverID, ErrNotFound)
		}
		dm = models.DirectMessage{
			ID:         w.st.ids.New(),
			Content:    content,
			SenderID:   u.ID,
			ReceiverID: receiverID,
			Timestamp:  w.st.clock.Now(),
			Type:       models.DirectText,
		}
		if err := w.st.dms.Append(dm); err != nil {
			return err
		}
		w.st.pub.Publish(realtime.NewEvent(realtime.DirectMessageSent, dm).For(u.ID, receiverID))
		return nil
	})
	return dm, err
}

// Conversation returns the messages between the current user and peerID,
// oldest first. Messages with equal timestamps keep their send order.
func (w *Workspace) Conversation(peerID string) ([]models.DirectMessage, error) {
	var out []models.DirectMessage
	err := w.read(func(u models.User) error {
		out = w.st.conversationLocked(u.ID, peerID)
		return nil
	})
	return out, err
}

// UnreadCount counts unread messages peerID has sent the current user.
func (w *Workspace) UnreadCount(peerID string) (int, error) {
	var n int
	err := w.read(func(u models.User) error {
		n = w.st.unreadLocked(u.ID, peerID)
		return nil
	})
	return n, err
}

// LastMessage returns the newest message between the current user and
// peerID. ok is false when they have never exchanged one.
func (w *Workspace) LastMessage(peerID string) (dm models.DirectMessage, ok bool, err error) {
	err = w.read(func(u models.User) error {
		conv := w.st.conversationLocked(u.ID, peerID)
		if len(conv) > 0 {
			dm, ok = conv[len(conv)-1], true
		}
		return nil
	})
	return dm, ok, err
}

// MarkConversationRead marks every message from peerID to the current user
// as read and reports how many changed.
func (w *Workspace) MarkConversationRead(peerID string) (int, error) {
	var n int
	err := w.write(func(u models.User) error {
		unread := w.st.dms.Filter(func(d models.DirectMessage) bool {
			return d.SenderID == peerID && d.ReceiverID == u.ID && !d.IsRead
		})
		for _, d := range unread {
			w.st.dms.Update(d.ID, func(d *models.DirectMessage) { d.IsRead = true })
		}
		n = len(unread)
		return nil
	})
	return n, err
}

// Contact is a user the current user can message, with the state of their
// conversation.
type Contact struct {
	User        models.User           `json:"user"`
	Unread      int                   `json:"unread"`
	LastMessage *models.DirectMessage `json:"last_message,omitempty"`
}

// Contacts lists every other user whose name contains search, in user
// store order.
func (w *Workspace) Contacts(search string) ([]Contact, error) {
	search = strings.ToLower(strings.TrimSpace(search))
	var out []Contact
	err := w.read(func(u models.User) error {
		out = make([]Contact, 0)
		w.st.users.Each(func(peer models.User) {
			if peer.ID == u.ID {
				return
			}
			if search != "" && !strings.Contains(strings.ToLower(peer.Name), search) {
				return
			}
			c := Contact{User: peer.Clone(), Unread: w.st.unreadLocked(u.ID, peer.ID)}
			if conv := w.st.conversationLocked(u.ID, peer.ID); len(conv) > 0 {
				last := conv[len(conv)-1]
				c.LastMessage = &last
			}
			out = append(out, c)
		})
		return nil
	})
	return out, err
}

func (s *State) conversationLocked(a, b string) []models.DirectMessage {
	conv := s.dms.Filter(func(d models.DirectMessage) bool { return d.Between(a, b) })
	slices.SortStableFunc(conv, func(x, y models.DirectMessage) int {
		return x.Timestamp.Compare(y.Timestamp)
	})
	return conv
}

func (s *State) unreadLocked(userID, peerID string) int {
	n := 0
	s.dms.Each(func(d models.DirectMessage) {
		if d.SenderID == peerID && d.ReceiverID == userID && !d.IsRead {
			n++
		}
	})
	return n
}
