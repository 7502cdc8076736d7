package posts

import "time"

type Post struct {
	ID          string  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string  `gorm:"not null" json:"title"`
	Description string  `gorm:"type:text;not null" json:"description"`
	ImageURL    *string `json:"image_url,omitempty"`
	ImageKey    *string `json:"-"`

	UserID    uint   `gorm:"not null;index" json:"user_id"`
	UserEmail string `gorm:"not null" json:"user_email"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) OwnedBy(userID uint) bool {
	return userID != 0 && p.UserID == userID
}
