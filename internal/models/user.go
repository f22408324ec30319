package models

import "time"

// User represents a registered account.
type User struct {
	ID              string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name            string    `json:"name,omitempty" gorm:"type:varchar(100)" validate:"omitempty,max=100"`
	Email           string    `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password        string    `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	ProfilePhotoURL string    `json:"profile_photo_url,omitempty" gorm:"type:varchar(512)"`
	ProfilePhotoID  string    `json:"-" gorm:"type:varchar(255)"` // image host deletion handle
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
