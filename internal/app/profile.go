package app

import (
	"strings"

	"github.com/lalith-99/clubhub/internal/models"
	"github.com/lalith-99/clubhub/internal/realtime"
)

// UpdateProfile merges the set fields of p into the current user's record.
// Messages and sessions keep the author snapshot taken when they were made.
func (w *Workspace) UpdateProfile(p ProfileUpdate) (models.User, error) {
	if err := p.validate(); err != nil {
		return models.User{}, err
	}

	var out models.User
	err := w.write(func(u models.User) error {
		w.st.users.Update(u.ID, func(u *models.User) {
			if p.Name != nil {
				u.Name = strings.TrimSpace(*p.Name)
			}
			if p.Avatar != nil {
				u.Avatar = *p.Avatar
			}
			if p.Bio != nil {
				u.Bio = *p.Bio
			}
			if p.Skills != nil {
				u.Skills = append([]string(nil), (*p.Skills)...)
			}
			if p.Year != nil {
				u.Year = *p.Year
			}
			if p.Department != nil {
				u.Department = *p.Department
			}
			out = u.Clone()
		})
		w.st.pub.Publish(realtime.NewEvent(realtime.UserUpdated, out).InClub(out.ClubID))
		return nil
	})
	return out, err
}
