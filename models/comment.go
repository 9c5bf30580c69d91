package models

import "time"

// Comment is a reply attached to a content item. CreatedAt is assigned by the
// server at creation time and never changes afterwards.
type Comment struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserContentID uint      `gorm:"index;not null" json:"user_content_id"`
	UserProfileID uint      `gorm:"index;not null" json:"user_profile_id"`
	Text          string    `gorm:"type:text;not null" json:"text"`
	CreatedAt     time.Time `gorm:"<-:create" json:"created_at"`

	User UserProfile `gorm:"foreignKey:UserProfileID" json:"user"`
}
