package services

import (
	"context"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
)

type LikeService struct {
	likes LikeStore
}

func NewLikeService(likes LikeStore) *LikeService {
	return &LikeService{likes: likes}
}

// ToggleLike 点赞 / 取消点赞，返回最新状态和点赞数
func (s *LikeService) ToggleLike(ctx context.Context, user *models.User, postID uint) (models.LikeState, error) {
	if err := requireUser(user); err != nil {
		return models.LikeState{}, err
	}
	if postID == 0 {
		return models.LikeState{}, apperr.Validation("postId is required")
	}
	return s.likes.Toggle(ctx, user.ID, postID)
}

func (s *LikeService) LikeStatus(ctx context.Context, user *models.User, postID uint) (models.LikeState, error) {
	if err := requireUser(user); err != nil {
		return models.LikeState{}, err
	}
	if postID == 0 {
		return models.LikeState{}, apperr.Validation("postId is required")
	}
	return s.likes.Status(ctx, user.ID, postID)
}
