package services

import (
	"context"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/models"
)

//go:generate go run go.uber.org/mock/mockgen -source=stores.go -destination=mocks/stores.go -package=mocks

type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, id uint, fields map[string]any) (*models.User, error)
}

type PostStore interface {
	Create(ctx context.Context, post *models.Post) error
	Get(ctx context.Context, id uint) (*models.Post, error)
	Delete(ctx context.Context, id uint) error
	PendingFanout(ctx context.Context, cutoff time.Time, limit int) ([]models.Post, error)
}

type LikeStore interface {
	Toggle(ctx context.Context, userID, postID uint) (models.LikeState, error)
	Status(ctx context.Context, userID, postID uint) (models.LikeState, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	Get(ctx context.Context, id uint) (*models.Comment, error)
	Delete(ctx context.Context, id uint) error
}

type FollowStore interface {
	Follow(ctx context.Context, followerID, followingID uint) error
	Unfollow(ctx context.Context, followerID, followingID uint) error
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
}

type NotificationStore interface {
	FanOut(ctx context.Context, actorID, postID uint, at time.Time) (int64, error)
	MarkRead(ctx context.Context, userID, id uint) error
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
	Delete(ctx context.Context, userID, id uint) error
	DeleteAll(ctx context.Context, userID uint) (int64, error)
}

type StoryStore interface {
	Create(ctx context.Context, story *models.Story) error
	Get(ctx context.Context, id uint) (*models.Story, error)
	Delete(ctx context.Context, id uint) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

type CounterStore interface {
	Reconcile(ctx context.Context) (int64, error)
}

// Reader serves the joined list and detail views.
type Reader interface {
	ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (models.Page[models.PostView], error)
	GetPostView(ctx context.Context, id uint) (*models.PostView, error)
	ListComments(ctx context.Context, postID uint, page models.PageRequest) (models.Page[models.CommentView], error)
	ListFollowers(ctx context.Context, userID uint, page models.PageRequest) (models.Page[models.UserSummary], error)
	ListFollowing(ctx context.Context, userID uint, page models.PageRequest) (models.Page[models.UserSummary], error)
	ListNotifications(ctx context.Context, userID uint, page models.PageRequest) (models.Page[models.NotificationView], error)
	UnreadCount(ctx context.Context, userID uint) (int64, error)
	ListActiveStories(ctx context.Context, now time.Time, limit int) ([]models.StoryView, error)
}

// Dispatcher hands post events to the fan-out pipeline.
type Dispatcher interface {
	PostCreated(ctx context.Context, task models.FanoutTask)
	PostDeleted(ctx context.Context, postID uint)
}

// Mirror copies an uploaded file to secondary storage.
type Mirror interface {
	Upload(ctx context.Context, localPath, name, mimeType string) error
}
