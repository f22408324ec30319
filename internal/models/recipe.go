package models

import "time"

// Recipe represents a shared recipe with its hosted cover image.
type Recipe struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Title         string    `json:"title" gorm:"type:varchar(255)" validate:"required"`
	Ingredients   []string  `json:"ingredients" gorm:"serializer:json;type:text" validate:"required,min=1,dive,required"`
	Instructions  string    `json:"instructions" gorm:"type:text" validate:"required"`
	Time          string    `json:"time,omitempty" gorm:"type:varchar(100)"`
	CoverImageURL string    `json:"cover_image_url"`
	CoverImageID  string    `json:"-" gorm:"type:varchar(255)"` // image host deletion handle
	CreatedBy     string    `json:"created_by" gorm:"index;type:varchar(36)"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
