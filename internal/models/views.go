package models

import (
	"time"
)

// UserSummary is the author/actor block joined onto list rows.
type UserSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	ProfileImg string `json:"profile_img"`
}

// PostView is a post joined with its author's display fields.
type PostView struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"userId"`
	Body          string    `json:"desc"`
	BodyHTML      string    `json:"desc_html,omitempty"`
	ImgURL        string    `json:"img"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	SharesCount   int       `json:"shares_count"`
	CreatedAt     time.Time `json:"created_at"`
	Name          string    `json:"name"`
	ProfilePic    string    `json:"profilePic"`
}

type CommentView struct {
	ID             uint      `json:"id"`
	PostID         uint      `json:"post_id"`
	UserID         uint      `json:"user_id"`
	Body           string    `json:"comment_text"`
	CreatedAt      time.Time `json:"created_at"`
	Name           string    `json:"name"`
	ProfilePicture string    `json:"profilePicture"`
}

type NotificationView struct {
	ID           uint             `json:"id"`
	ActorID      uint             `json:"actor_id"`
	ActorName    string           `json:"actor_name"`
	ActorProfile string           `json:"actor_profile"`
	PostID       *uint            `json:"post_id"`
	Type         NotificationType `json:"type"`
	IsRead       bool             `json:"is_read"`
	CreatedAt    time.Time        `json:"created_at"`
}

type StoryView struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	MediaURL   string    `json:"img_url"`
	MediaType  MediaType `json:"media_type"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Name       string    `json:"name"`
	ProfileImg string    `json:"profile_img"`
}

// Active reports whether the story is still visible at now.
func (v StoryView) Active(now time.Time) bool {
	return now.Before(v.ExpiresAt)
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest carries either a keyset Cursor or an Offset.
// Cursor wins when both are set.
type PageRequest struct {
	Limit  int
	Offset int
	Cursor string
}

// Normalize clamps Limit into [1, MaxPageLimit] and Offset to >= 0.
func (p PageRequest) Normalize() PageRequest {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
	HasMore    bool   `json:"has_more"`
}

// NotificationPage adds the recipient's unread count to a page.
type NotificationPage struct {
	Page[NotificationView]
	UnreadCount int64 `json:"unread_count"`
}

// PostFilter narrows the feed. Zero UserID means every author.
type PostFilter struct {
	UserID uint
}

// FanoutTask asks for ActorID's followers to be notified about PostID.
type FanoutTask struct {
	ActorID   uint      `json:"actor_id"`
	PostID    uint      `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}
