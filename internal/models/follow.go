package models

import (
	"time"
)

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;uniqueIndex:idx_follows_pair" json:"follower_id"`
	Follower    User      `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	FollowingID uint      `gorm:"not null;index;uniqueIndex:idx_follows_pair" json:"following_id"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
