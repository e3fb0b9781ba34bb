package services

import (
	"context"
	"strings"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/utils"
)

const (
	storiesLimit    = 10
	storiesCacheKey = "active"
)

type StoryOpts struct {
	CacheTTL time.Duration
	Clock    Clock
}

type StoryService struct {
	stories StoryStore
	reader  Reader
	cache   *utils.TTLCache[string, []models.StoryView]
	now     Clock
	log     logger.Logger
}

func NewStoryService(stories StoryStore, reader Reader, log logger.Logger, opts StoryOpts) (*StoryService, error) {
	if opts.Clock == nil {
		opts.Clock = systemClock
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 30 * time.Second
	}
	cache, err := utils.NewTTLCache[string, []models.StoryView](8, opts.CacheTTL)
	if err != nil {
		return nil, err
	}
	cache.SetClock(opts.Clock)
	return &StoryService{
		stories: stories,
		reader:  reader,
		cache:   cache,
		now:     opts.Clock,
		log:     log.WithComponent("StoryService"),
	}, nil
}

// AddStory 发布 24 小时限时动态
func (s *StoryService) AddStory(ctx context.Context, owner *models.User, mediaURL string, mediaType models.MediaType) (*models.StoryView, error) {
	if err := requireUser(owner); err != nil {
		return nil, err
	}
	mediaURL = strings.TrimSpace(mediaURL)
	if mediaURL == "" {
		return nil, apperr.Validation("img_url is required")
	}
	if !mediaType.Valid() {
		return nil, apperr.Validation("media_type must be image or video")
	}

	now := s.now()
	story := &models.Story{
		UserID:    owner.ID,
		MediaURL:  mediaURL,
		MediaType: mediaType,
		CreatedAt: now,
		ExpiresAt: now.Add(models.StoryTTL),
	}
	if err := s.stories.Create(ctx, story); err != nil {
		return nil, err
	}
	s.cache.Delete(storiesCacheKey)

	return &models.StoryView{
		ID:         story.ID,
		UserID:     owner.ID,
		MediaURL:   story.MediaURL,
		MediaType:  story.MediaType,
		CreatedAt:  story.CreatedAt,
		ExpiresAt:  story.ExpiresAt,
		Name:       owner.Name,
		ProfileImg: owner.ProfileImg,
	}, nil
}

// ListStories returns the newest unexpired stories. Cached lists are
// re-filtered on every read; since every story lives exactly StoryTTL,
// anything older than an expired entry has expired too, so filtering never
// hides a story that should be shown.
func (s *StoryService) ListStories(ctx context.Context) ([]models.StoryView, error) {
	now := s.now()
	if cached, ok := s.cache.Get(storiesCacheKey); ok {
		return activeOnly(cached, now), nil
	}

	list, err := s.reader.ListActiveStories(ctx, now, storiesLimit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(storiesCacheKey, list)
	return activeOnly(list, now), nil
}

func activeOnly(list []models.StoryView, now time.Time) []models.StoryView {
	out := make([]models.StoryView, 0, len(list))
	for _, v := range list {
		if v.Active(now) {
			out = append(out, v)
		}
	}
	return out
}

// DeleteStory 删除动态（仅本人）
func (s *StoryService) DeleteStory(ctx context.Context, requester *models.User, id uint) error {
	if err := requireUser(requester); err != nil {
		return err
	}
	story, err := s.stories.Get(ctx, id)
	if err != nil {
		return err
	}
	if story.UserID != requester.ID {
		return apperr.Forbidden("you can only delete your own stories")
	}
	if err := s.stories.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(storiesCacheKey)
	return nil
}

// PurgeExpired hard-deletes expired stories. Run by the scheduler.
func (s *StoryService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.stories.PurgeExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.cache.Delete(storiesCacheKey)
		s.log.Info("purged expired stories", "count", n)
	}
	return n, nil
}
