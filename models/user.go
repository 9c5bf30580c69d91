package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	FirstName    string    `gorm:"size:64" json:"first_name"`
	LastName     string    `gorm:"size:64" json:"last_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Profile *UserProfile `json:"profile,omitempty"`
}

// AfterCreate creates the linked profile inside the same transaction,
// so a user never exists without one.
func (u *User) AfterCreate(tx *gorm.DB) error {
	profile := UserProfile{UserID: u.ID, BirthYear: defaultBirthYear}
	return tx.Create(&profile).Error
}

// AfterDelete removes the linked profile when the user is deleted.
func (u *User) AfterDelete(tx *gorm.DB) error {
	return tx.Where("user_id = ?", u.ID).Delete(&UserProfile{}).Error
}
