package models

import "time"

// defaultBirthYear mirrors the value a fresh profile starts with before
// the owner fills in registration details.
const defaultBirthYear = 2000

// UserProfile extends a User with demographic and social fields. Exactly one
// profile exists per user; it is created and removed together with the user.
type UserProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Country   string    `gorm:"size:2" json:"country"`
	BirthYear int       `gorm:"not null;default:2000" json:"birth_year"`
	About     string    `gorm:"type:text" json:"about"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User      User       `json:"user"`
	Interests []Interest `gorm:"many2many:user_profile_interests" json:"interests"`
}

// Age derives the profile owner's age from the birth year alone. It is only
// validated against the adult threshold at registration time.
func (p *UserProfile) Age(now time.Time) int {
	return now.Year() - p.BirthYear
}
