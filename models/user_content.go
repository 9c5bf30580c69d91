package models

import "time"

// UserContent is a user-authored cultural item (event, tip or place review).
// The author is always assigned server-side from the authenticated session.
type UserContent struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Date        *time.Time `gorm:"type:date" json:"date"`
	Location    string     `gorm:"size:255" json:"location"`
	Culture     string     `gorm:"size:255" json:"culture"`
	Rating      *float64   `gorm:"type:decimal(3,2)" json:"rating"`
	AuthorID    uint       `gorm:"index;not null" json:"author_id"`
	CategoryID  uint       `gorm:"index;not null" json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Author    UserProfile `gorm:"foreignKey:AuthorID" json:"author"`
	Category  Category    `json:"category"`
	Interests []Interest  `gorm:"many2many:user_content_interests" json:"interests"`
	Comments  []Comment   `gorm:"foreignKey:UserContentID" json:"comments"`
}
