package models

import (
	"time"
)

type NotificationType string

const (
	NotificationTypePost NotificationType = "post" // someone you follow published a post
)

type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index;uniqueIndex:idx_notifications_dedupe" json:"user_id"` // Receiver
	User      User             `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ActorID   uint             `gorm:"not null;index" json:"actor_id"` // Sender
	Actor     User             `gorm:"foreignKey:ActorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID    *uint            `gorm:"index;uniqueIndex:idx_notifications_dedupe" json:"post_id"`
	Post      *Post            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Type      NotificationType `gorm:"type:varchar(20);not null;uniqueIndex:idx_notifications_dedupe" json:"type"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
}
