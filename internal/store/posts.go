package store

import (
	"context"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Create inserts the post and bumps the author's posts_count.
func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bump(tx, "users", post.UserID, "posts_count", +1); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(post).Error
	})
	return translate(err, "post")
}

func (s *PostStore) Get(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translate(err, "post")
	}
	return &post, nil
}

// Delete removes the post with its likes, comments and notifications and
// decrements the author's posts_count, all in one transaction.
func (s *PostStore) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "user_id").
			First(&post, id).Error; err != nil {
			return err
		}

		for _, dep := range []any{&models.Like{}, &models.Comment{}, &models.Notification{}} {
			if err := tx.Where("post_id = ?", id).Delete(dep).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&models.Post{}, id).Error; err != nil {
			return err
		}
		return bump(tx, "users", post.UserID, "posts_count", -1)
	})
	return translate(err, "post")
}

// PendingFanout lists posts created before cutoff whose follower
// notifications were never confirmed.
func (s *PostStore) PendingFanout(ctx context.Context, cutoff time.Time, limit int) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Select("id", "user_id", "created_at").
		Where("notified_at IS NULL AND created_at < ?", cutoff).
		Order("created_at ASC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, translate(err, "post")
	}
	return posts, nil
}
