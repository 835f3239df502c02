package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Username       string      `json:"username"`
	HashedPassword string      `json:"-"`
	Bio            string      `json:"bio"`
	ProfilePic     string      `json:"profilePic"`
	Followers      []uuid.UUID `json:"followers"`
	Following      []uuid.UUID `json:"following"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// PublicProfile is the subset of user fields exposed to other users,
// e.g. as the counterpart in a conversation listing.
type PublicProfile struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Username   string    `json:"username"`
	ProfilePic string    `json:"profilePic"`
}

// Public returns the user's public profile view.
func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:         u.ID,
		Name:       u.Name,
		Username:   u.Username,
		ProfilePic: u.ProfilePic,
	}
}

// IsFollowing reports whether the user currently follows the given user ID.
func (u *User) IsFollowing(id uuid.UUID) bool {
	for _, f := range u.Following {
		if f == id {
			return true
		}
	}
	return false
}
