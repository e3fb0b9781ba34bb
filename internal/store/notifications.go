package store

import (
	"context"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const fanoutBatchSize = 500

type NotificationStore struct {
	db *gorm.DB
}

func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{db: db}
}

// FanOut writes one "post" notification per follower of actorID (never the
// actor) and stamps posts.notified_at. Rows that already exist are skipped,
// so replaying a post is harmless. Returns the number of rows inserted.
func (s *NotificationStore) FanOut(ctx context.Context, actorID, postID uint, at time.Time) (int64, error) {
	var inserted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).
			Select("id", "user_id").
			First(&post, postID).Error; err != nil {
			return err
		}

		var followerIDs []uint
		if err := tx.Model(&models.Follow{}).
			Where("following_id = ? AND follower_id <> ?", actorID, actorID).
			Pluck("follower_id", &followerIDs).Error; err != nil {
			return err
		}

		if len(followerIDs) > 0 {
			pid := postID
			rows := make([]models.Notification, 0, len(followerIDs))
			for _, uid := range followerIDs {
				rows = append(rows, models.Notification{
					UserID:    uid,
					ActorID:   actorID,
					PostID:    &pid,
					Type:      models.NotificationTypePost,
					CreatedAt: at,
				})
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Omit(clause.Associations).
				CreateInBatches(&rows, fanoutBatchSize)
			if res.Error != nil {
				return res.Error
			}
			inserted = res.RowsAffected
		}

		return tx.Model(&models.Post{}).Where("id = ?", postID).UpdateColumn("notified_at", at).Error
	})
	if err != nil {
		return 0, translate(err, "post")
	}
	return inserted, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if res.Error != nil {
		return translate(res.Error, "notification")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, translate(res.Error, "notification")
}

// Delete removes a notification only if it belongs to userID.
func (s *NotificationStore) Delete(ctx context.Context, userID, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Notification{})
	if res.Error != nil {
		return translate(res.Error, "notification")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("notification not found")
	}
	return nil
}

func (s *NotificationStore) DeleteAll(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Notification{})
	return res.RowsAffected, translate(res.Error, "notification")
}
