package store

import (
	"context"

	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeStore struct {
	db *gorm.DB
}

func NewLikeStore(db *gorm.DB) *LikeStore {
	return &LikeStore{db: db}
}

// Toggle flips the (user, post) like. The post row is locked for the
// duration so toggles on one post serialize; the unique index still decides
// when two inserts race.
func (s *LikeStore) Toggle(ctx context.Context, userID, postID uint) (models.LikeState, error) {
	var state models.LikeState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&post, postID).Error; err != nil {
			return err
		}

		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			if err := bump(tx, "posts", postID, "likes_count", -1); err != nil {
				return err
			}
		} else {
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Omit(clause.Associations).
				Create(&models.Like{UserID: userID, PostID: postID})
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected > 0 {
				if err := bump(tx, "posts", postID, "likes_count", +1); err != nil {
					return err
				}
			}
			state.Liked = true
		}

		return tx.Model(&models.Post{}).Select("likes_count").Where("id = ?", postID).Scan(&state.LikesCount).Error
	})
	if err != nil {
		return models.LikeState{}, translate(err, "post")
	}
	return state, nil
}

func (s *LikeStore) Status(ctx context.Context, userID, postID uint) (models.LikeState, error) {
	var post models.Post
	db := s.db.WithContext(ctx)
	if err := db.Select("id", "likes_count").First(&post, postID).Error; err != nil {
		return models.LikeState{}, translate(err, "post")
	}

	var n int64
	if err := db.Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&n).Error; err != nil {
		return models.LikeState{}, translate(err, "like")
	}
	return models.LikeState{Liked: n > 0, LikesCount: post.LikesCount}, nil
}
