package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
	"go.uber.org/zap"
)

// defaultChannels are created with every approved club.
var defaultChannels = []struct {
	name        string
	description string
	typ         models.ChannelType
}{
	{"general", "General discussion for all members", models.ChannelGeneral},
	{"q-and-a", "Ask questions and help each other out", models.ChannelQnA},
	{"resources", "Shared notes, papers and tutorials", models.ChannelResources},
	{"sessions", "Upcoming sessions and workshops", models.ChannelSessions},
}

// ApplyForClub files a pending application to register a new club.
func (w *Workspace) ApplyForClub(in ClubApplicationInput) (models.ClubApplication, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.PresidencyProofURL = strings.TrimSpace(in.PresidencyProofURL)
	if err := validateInput(in); err != nil {
		return models.ClubApplication{}, err
	}

	var app models.ClubApplication
	err := w.write(func(u models.User) error {
		app = models.ClubApplication{
			ID:              w.st.ids.New(),
			ClubName:        in.Name,
			Description:     in.Description,
			Category:        in.Category,
			ApplicantID:     u.ID,
			PresidencyProof: in.PresidencyProofURL,
			Status:          models.ApplicationPending,
			AppliedAt:       w.st.clock.Now(),
		}
		if err := w.st.applications.Append(app); err != nil {
			return err
		}
		w.view.ShowCreateClub = false
		return nil
	})
	if err != nil {
		return models.ClubApplication{}, err
	}
	w.st.log.Info("club application filed", zap.String("application_id", app.ID), zap.String("applicant_id", app.ApplicantID))
	return app, nil
}

// Applications lists club applications in filing order. Admins see every
// application, members only their own.
func (w *Workspace) Applications() ([]models.ClubApplication, error) {
	var out []models.ClubApplication
	err := w.read(func(u models.User) error {
		out = cloneAll(w.st.applications.Filter(func(a models.ClubApplication) bool {
			return u.Role == models.RoleAdmin || a.ApplicantID == u.ID
		}), models.ClubApplication.Clone)
		return nil
	})
	return out, err
}

// ReviewApplication approves or rejects a pending application. Approval
// creates the club, with the applicant as its admin, and its default
// channels.
func (w *Workspace) ReviewApplication(id string, approve bool) (models.ClubApplication, error) {
	var out models.ClubApplication
	err := w.write(func(u models.User) error {
		if u.Role != models.RoleAdmin {
			return ErrForbidden
		}
		app, ok := w.st.applications.Get(id)
		if !ok {
			return fmt.Errorf("application %s: %w", id, ErrNotFound)
		}
		if app.Status != models.ApplicationPending {
			return fieldError("status", "application has already been reviewed")
		}

		now := w.st.clock.Now()
		app.Status = models.ApplicationRejected
		app.ReviewedAt = &now
		app.ReviewedBy = u.ID

		if approve {
			club := models.Club{
				ID:          w.st.ids.New(),
				Name:        app.ClubName,
				Description: app.Description,
				MemberCount: 1,
				Admins:      []string{app.ApplicantID},
				CreatedAt:   now,
			}
			channels := make([]models.Channel, 0, len(defaultChannels))
			for _, dc := range defaultChannels {
				channels = append(channels, models.Channel{
					ID:          w.st.ids.New(),
					Name:        dc.name,
					Description: dc.description,
					ClubID:      club.ID,
					Type:        dc.typ,
				})
			}

			if err := w.st.clubs.Append(club); err != nil {
				return err
			}
			for _, ch := range channels {
				if err := w.st.channels.Append(ch); err != nil {
					return err
				}
			}
			app.Status = models.ApplicationApproved
			app.ClubID = club.ID
			w.st.pub.Publish(realtime.NewEvent(realtime.ClubCreated, club))
			w.moveMemberLocked(app.ApplicantID, club.ID)
		}

		w.st.applications.Update(id, func(a *models.ClubApplication) { *a = app })
		out = app.Clone()
		return nil
	})
	if err != nil {
		return models.ClubApplication{}, err
	}
	w.st.log.Info("club application reviewed",
		zap.String("application_id", out.ID),
		zap.String("status", string(out.Status)),
	)
	return out, nil
}

// moveMemberLocked makes userID a member of club, leaving the club they were
// in. The destination's member count is left to the caller.
func (w *Workspace) moveMemberLocked(userID, club string) {
	var (
		prev  string
		moved models.User
	)
	ok := w.st.users.Update(userID, func(u *models.User) {
		prev = u.ClubID
		u.ClubID = club
		moved = u.Clone()
	})
	if !ok {
		return
	}
	if prev != "" && prev != club {
		w.st.clubs.Update(prev, func(c *models.Club) {
			c.Admins = slices.DeleteFunc(c.Admins, func(id string) bool { return id == userID })
			if c.MemberCount > 0 {
				c.MemberCount--
			}
		})
		w.st.pub.Publish(realtime.NewEvent(realtime.UserUpdated, moved).InClub(prev))
	}
	w.st.pub.Publish(realtime.NewEvent(realtime.UserUpdated, moved).InClub(club))
}
