package models

import (
	"time"
)

type Post struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index" json:"user_id"`
	User          User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Body          string     `gorm:"type:text;not null" json:"body"`
	ImgURL        string     `json:"img_url"` // Optional
	LikesCount    int        `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int        `gorm:"not null;default:0" json:"comments_count"`
	SharesCount   int        `gorm:"not null;default:0" json:"shares_count"`
	NotifiedAt    *time.Time `gorm:"index" json:"-"` // set once follower fan-out has completed
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
