package store

import (
	"context"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoryStore struct {
	db *gorm.DB
}

func NewStoryStore(db *gorm.DB) *StoryStore {
	return &StoryStore{db: db}
}

func (s *StoryStore) Create(ctx context.Context, story *models.Story) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(story).Error, "story")
}

func (s *StoryStore) Get(ctx context.Context, id uint) (*models.Story, error) {
	var story models.Story
	if err := s.db.WithContext(ctx).First(&story, id).Error; err != nil {
		return nil, translate(err, "story")
	}
	return &story, nil
}

func (s *StoryStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Story{}, id)
	if res.Error != nil {
		return translate(res.Error, "story")
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "story")
	}
	return nil
}

// PurgeExpired hard-deletes stories whose expires_at is at or before now.
func (s *StoryStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Story{})
	return res.RowsAffected, translate(res.Error, "story")
}
