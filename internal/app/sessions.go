package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
	"go.uber.org/zap"
)

// CreateSession schedules a session in the current club with the current
// user as instructor. Only admins may schedule.
func (w *Workspace) CreateSession(in SessionInput) (models.Session, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.MeetingLink = strings.TrimSpace(in.MeetingLink)
	if err := validateInput(in); err != nil {
		return models.Session{}, err
	}

	var sess models.Session
	err := w.write(func(u models.User) error {
		club := w.view.CurrentClubID
		if err := w.moderateLocked(u, club); err != nil {
			return err
		}

		sess = models.Session{
			ID:              w.st.ids.New(),
			Title:           in.Title,
			Description:     strings.TrimSpace(in.Description),
			Instructor:      u,
			ClubID:          club,
			StartTime:       in.StartTime,
			Duration:        in.Duration,
			Type:            in.Type,
			MaxParticipants: in.MaxParticipants,
			Participants:    []string{},
			MeetingLink:     in.MeetingLink,
		}
		if err := w.st.sessions.Prepend(sess); err != nil {
			return err
		}
		w.st.pub.Publish(realtime.NewEvent(realtime.SessionCreated, sess).InClub(club))
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}
	w.st.log.Info("session created", zap.String("session_id", sess.ID), zap.String("club_id", sess.ClubID))
	return sess.Clone(), nil
}

// ToggleJoin leaves the session if the current user is in it and joins it
// otherwise. Rejoining puts the user at the end of the list. A join past
// capacity fails with ErrSessionFull and changes nothing.
func (w *Workspace) ToggleJoin(sessionID string) (models.Session, error) {
	var out models.Session
	err := w.write(func(u models.User) error {
		sess, ok := w.st.sessions.Get(sessionID)
		if !ok {
			return fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
		}
		joined := sess.Joined(u.ID)
		if !joined && sess.Full() {
			return fmt.Errorf("session %s: %w", sessionID, ErrSessionFull)
		}

		w.st.sessions.Update(sessionID, func(s *models.Session) {
			if joined {
				s.Participants = slices.DeleteFunc(s.Participants, func(id string) bool { return id == u.ID })
			} else {
				s.Participants = append(s.Participants, u.ID)
			}
			out = s.Clone()
		})
		w.st.pub.Publish(realtime.NewEvent(realtime.SessionUpdated, out).InClub(out.ClubID))
		return nil
	})
	return out, err
}
