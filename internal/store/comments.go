package store

import (
	"context"

	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentStore struct {
	db *gorm.DB
}

func NewCommentStore(db *gorm.DB) *CommentStore {
	return &CommentStore{db: db}
}

// Create inserts the comment and bumps the post's comments_count.
func (s *CommentStore) Create(ctx context.Context, comment *models.Comment) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := bump(tx, "posts", comment.PostID, "comments_count", +1); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(comment).Error
	})
	return translate(err, "post")
}

func (s *CommentStore) Get(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return nil, translate(err, "comment")
	}
	return &comment, nil
}

func (s *CommentStore) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "post_id").
			First(&comment, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, id).Error; err != nil {
			return err
		}
		return bump(tx, "posts", comment.PostID, "comments_count", -1)
	})
	return translate(err, "comment")
}
