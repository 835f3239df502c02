package models

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID   `json:"id"`
	AuthorID  uuid.UUID   `json:"postedBy"`
	Text      string      `json:"text"`
	Img       string      `json:"img,omitempty"`
	Likes     []uuid.UUID `json:"likes"`
	Replies   []Reply     `json:"replies"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Reply is a denormalized comment embedded in its post: author profile
// fields are copied in at creation time for list rendering.
type Reply struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"userId"`
	Text           string    `json:"text"`
	Username       string    `json:"username"`
	UserProfilePic string    `json:"userProfilePic"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LikedBy reports whether the given user has liked the post.
func (p *Post) LikedBy(id uuid.UUID) bool {
	for _, l := range p.Likes {
		if l == id {
			return true
		}
	}
	return false
}
