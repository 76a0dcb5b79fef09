package app

import (
	"fmt"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
	"go.uber.org/zap"
)

// SendMessage appends a plain message to channelID, or to the active
// channel when channelID is empty.
func (w *Workspace) SendMessage(channelID, content string) (models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, fieldError("content", "is required")
	}

	var msg models.Message
	err := w.write(func(u models.User) error {
		if channelID == "" {
			channelID = w.view.ActiveChannelID
		}
		ch, ok := w.st.channels.Get(channelID)
		if !ok {
			return fmt.Errorf("channel %s: %w", channelID, ErrNotFound)
		}

		msg = models.Message{
			ID:        w.st.ids.New(),
			Content:   content,
			Author:    u,
			ChannelID: ch.ID,
			Timestamp: w.st.clock.Now(),
			Type:      models.MessageText,
			ReadBy:    []string{},
		}
		if err := w.st.messages.Append(msg); err != nil {
			return err
		}
		w.st.channels.Update(ch.ID, func(c *models.Channel) { c.MessageCount++ })

		w.st.pub.Publish(realtime.NewEvent(realtime.MessageCreated, msg).InClub(ch.ClubID).InChannel(ch.ID))
		return nil
	})
	if err != nil {
		return models.Message{}, err
	}
	w.st.log.Debug("message sent", zap.String("message_id", msg.ID), zap.String("channel_id", msg.ChannelID))
	return msg.Clone(), nil
}

// TogglePin flips a message's pinned flag. Only admins may pin.
func (w *Workspace) TogglePin(messageID string) (models.Message, error) {
	var out models.Message
	err := w.write(func(u models.User) error {
		msg, ok := w.st.messages.Get(messageID)
		if !ok {
			return fmt.Errorf("message %s: %w", messageID, ErrNotFound)
		}
		ch, _ := w.st.channels.Get(msg.ChannelID)
		if err := w.moderateLocked(u, ch.ClubID); err != nil {
			return err
		}

		w.st.messages.Update(messageID, func(m *models.Message) {
			m.IsPinned = !m.IsPinned
			out = m.Clone()
		})
		w.st.pub.Publish(realtime.NewEvent(realtime.MessageUpdated, out).InClub(ch.ClubID).InChannel(ch.ID))
		return nil
	})
	return out, err
}

// MarkRead records that the current user has read a message. Marking an
// already-read message changes nothing and publishes nothing.
func (w *Workspace) MarkRead(messageID string) (models.Message, error) {
	var out models.Message
	err := w.write(func(u models.User) error {
		msg, ok := w.st.messages.Get(messageID)
		if !ok {
			return fmt.Errorf("message %s: %w", messageID, ErrNotFound)
		}
		if msg.HasRead(u.ID) {
			out = msg.Clone()
			return nil
		}

		w.st.messages.Update(messageID, func(m *models.Message) {
			m.ReadBy = append(m.ReadBy, u.ID)
			out = m.Clone()
		})
		ch, _ := w.st.channels.Get(out.ChannelID)
		w.st.pub.Publish(realtime.NewEvent(realtime.MessageUpdated, out).InClub(ch.ClubID).InChannel(ch.ID))
		return nil
	})
	return out, err
}
