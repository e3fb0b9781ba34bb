package store

import (
	"context"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowStore struct {
	db *gorm.DB
}

func NewFollowStore(db *gorm.DB) *FollowStore {
	return &FollowStore{db: db}
}

// Follow inserts the edge and bumps both counters. The unique index on
// (follower_id, following_id) reports an existing edge as AlreadyExists.
func (s *FollowStore) Follow(ctx context.Context, followerID, followingID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.User
		if err := tx.Select("id").First(&target, followingID).Error; err != nil {
			return err
		}

		edge := models.Follow{FollowerID: followerID, FollowingID: followingID}
		if err := tx.Omit(clause.Associations).Create(&edge).Error; err != nil {
			if err = translate(err, "follow"); apperr.IsAlreadyExists(err) {
				return apperr.Wrap(err, apperr.KindAlreadyExists, "already following this user")
			}
			return err
		}

		return bumpUsers(tx,
			userCounter{id: followerID, col: "following_count", delta: +1},
			userCounter{id: followingID, col: "followers_count", delta: +1},
		)
	})
	return translate(err, "user")
}

func (s *FollowStore) Unfollow(ctx context.Context, followerID, followingID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("not following this user")
		}

		return bumpUsers(tx,
			userCounter{id: followerID, col: "following_count", delta: -1},
			userCounter{id: followingID, col: "followers_count", delta: -1},
		)
	})
	return translate(err, "follow")
}

func (s *FollowStore) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	if err != nil {
		return false, translate(err, "follow")
	}
	return n > 0, nil
}
