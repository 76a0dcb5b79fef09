package app

import (
	"fmt"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
	"go.uber.org/zap"
)

// CreateChannel adds a channel to the current club. Names are lower-cased
// and must be unique within the club.
func (w *Workspace) CreateChannel(in ChannelInput) (models.Channel, error) {
	in.Name = strings.ToLower(strings.TrimSpace(in.Name))
	in.Description = strings.TrimSpace(in.Description)
	if err := validateInput(in); err != nil {
		return models.Channel{}, err
	}

	var ch models.Channel
	err := w.write(func(u models.User) error {
		club := w.view.CurrentClubID
		if err := w.moderateLocked(u, club); err != nil {
			return err
		}
		if _, taken := w.st.channels.Find(func(c models.Channel) bool {
			return c.ClubID == club && c.Name == in.Name
		}); taken {
			return fmt.Errorf("channel %q: %w", in.Name, ErrDuplicateName)
		}

		ch = models.Channel{
			ID:          w.st.ids.New(),
			Name:        in.Name,
			Description: in.Description,
			ClubID:      club,
			Type:        in.Type,
		}
		if err := w.st.channels.Append(ch); err != nil {
			return err
		}
		w.view.ShowCreateChannel = false
		w.st.pub.Publish(realtime.NewEvent(realtime.ChannelCreated, ch).InClub(club))
		return nil
	})
	if err != nil {
		return models.Channel{}, err
	}
	w.st.log.Info("channel created", zap.String("channel_id", ch.ID), zap.String("club_id", ch.ClubID))
	return ch, nil
}
