package models

import (
	"time"
)

// StoryTTL is how long a story stays visible after it is posted.
const StoryTTL = 24 * time.Hour

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

func (m MediaType) Valid() bool {
	return m == MediaImage || m == MediaVideo
}

type Story struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	MediaURL  string    `gorm:"type:text;not null" json:"img_url"`
	MediaType MediaType `gorm:"type:varchar(10);not null" json:"media_type"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}
