package models

// Interest is a tag shared by profiles and content. Names are not unique.
type Interest struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:64;not null" json:"name"`
}
