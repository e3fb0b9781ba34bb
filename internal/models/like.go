package models

import (
	"time"
)

// Like 点赞 - at most one per (user, post)
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_likes_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_likes_user_post" json:"post_id"`
	Post      Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeState is what the like endpoints report back.
type LikeState struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}
