package app

import (
	"fmt"
	"slices"
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
	"go.uber.org/zap"
)

// MemberQuery narrows the member list. Role is "", "all", "admin" or
// "member"; Search matches name, email or department.
type MemberQuery struct {
	Search string
	Role   string
}

func (q MemberQuery) match(u models.User) bool {
	switch q.Role {
	case "", "all":
	default:
		if string(u.Role) != q.Role {
			return false
		}
	}
	s := strings.ToLower(strings.TrimSpace(q.Search))
	if s == "" {
		return true
	}
	for _, f := range []string{u.Name, u.Email, u.Department} {
		if strings.Contains(strings.ToLower(f), s) {
			return true
		}
	}
	return false
}

// Members lists the users of the current club that match q.
func (w *Workspace) Members(q MemberQuery) ([]models.User, error) {
	var out []models.User
	err := w.read(func(models.User) error {
		club := w.view.CurrentClubID
		out = cloneAll(w.st.users.Filter(func(u models.User) bool {
			return u.ClubID == club && q.match(u)
		}), models.User.Clone)
		return nil
	})
	return out, err
}

type MemberStats struct {
	Total   int `json:"total"`
	Admins  int `json:"admins"`
	Members int `json:"members"`
}

// MemberStats counts the current club's users by role.
func (w *Workspace) MemberStats() (MemberStats, error) {
	var st MemberStats
	err := w.read(func(models.User) error {
		club := w.view.CurrentClubID
		w.st.users.Each(func(u models.User) {
			if u.ClubID != club {
				return
			}
			st.Total++
			if u.Role == models.RoleAdmin {
				st.Admins++
			} else {
				st.Members++
			}
		})
		return nil
	})
	return st, err
}

// PromoteToAdmin makes a member of the current club one of its admins.
// Promoting an admin again changes nothing.
func (w *Workspace) PromoteToAdmin(userID string) (models.User, error) {
	var out models.User
	err := w.write(func(actor models.User) error {
		club := w.view.CurrentClubID
		if err := w.moderateLocked(actor, club); err != nil {
			return err
		}
		target, ok := w.st.users.Get(userID)
		if !ok || target.ClubID != club {
			return fmt.Errorf("member %s: %w", userID, ErrNotFound)
		}

		w.st.users.Update(userID, func(u *models.User) {
			u.Role = models.RoleAdmin
			out = u.Clone()
		})
		w.st.clubs.Update(club, func(c *models.Club) {
			if !c.IsAdmin(userID) {
				c.Admins = append(c.Admins, userID)
			}
		})
		w.st.pub.Publish(realtime.NewEvent(realtime.UserUpdated, out).InClub(club))
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	w.st.log.Info("member promoted", zap.String("user_id", userID))
	return out, nil
}

// RemoveMember takes a user out of the current club. Admins cannot remove
// themselves.
func (w *Workspace) RemoveMember(userID string) (models.User, error) {
	var out models.User
	err := w.write(func(actor models.User) error {
		club := w.view.CurrentClubID
		if err := w.moderateLocked(actor, club); err != nil {
			return err
		}
		if userID == actor.ID {
			return fieldError("user_id", "cannot remove yourself")
		}
		target, ok := w.st.users.Get(userID)
		if !ok || target.ClubID != club {
			return fmt.Errorf("member %s: %w", userID, ErrNotFound)
		}

		w.st.users.Update(userID, func(u *models.User) {
			u.ClubID = ""
			u.Role = models.RoleMember
			out = u.Clone()
		})
		w.st.clubs.Update(club, func(c *models.Club) {
			c.Admins = slices.DeleteFunc(c.Admins, func(id string) bool { return id == userID })
			if c.MemberCount > 0 {
				c.MemberCount--
			}
		})
		w.st.pub.Publish(realtime.NewEvent(realtime.UserUpdated, out).InClub(club))
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	w.st.log.Info("member removed", zap.String("user_id", userID))
	return out, nil
}
