package services

import (
	"context"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
)

type GraphService struct {
	follows FollowStore
	users   UserStore
	reader  Reader
}

func NewGraphService(follows FollowStore, users UserStore, reader Reader) *GraphService {
	return &GraphService{follows: follows, users: users, reader: reader}
}

// Follow 关注用户。重复关注由唯一索引判定，返回 AlreadyExists。
func (s *GraphService) Follow(ctx context.Context, follower *models.User, followingID uint) error {
	if err := requireUser(follower); err != nil {
		return err
	}
	if followingID == 0 {
		return apperr.Validation("followingId is required")
	}
	if follower.ID == followingID {
		return apperr.Validation("cannot follow yourself")
	}
	return s.follows.Follow(ctx, follower.ID, followingID)
}

func (s *GraphService) Unfollow(ctx context.Context, follower *models.User, followingID uint) error {
	if err := requireUser(follower); err != nil {
		return err
	}
	if follower.ID == followingID {
		return apperr.Validation("cannot unfollow yourself")
	}
	return s.follows.Unfollow(ctx, follower.ID, followingID)
}

func (s *GraphService) IsFollowing(ctx context.Context, follower *models.User, followingID uint) (bool, error) {
	if err := requireUser(follower); err != nil {
		return false, err
	}
	return s.follows.IsFollowing(ctx, follower.ID, followingID)
}

func (s *GraphService) ListFollowers(ctx context.Context, userID uint, page models.PageRequest) (models.Page[models.UserSummary], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return models.Page[models.UserSummary]{}, err
	}
	return s.reader.ListFollowers(ctx, userID, page.Normalize())
}

func (s *GraphService) ListFollowing(ctx context.Context, userID uint, page models.PageRequest) (models.Page[models.UserSummary], error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return models.Page[models.UserSummary]{}, err
	}
	return s.reader.ListFollowing(ctx, userID, page.Normalize())
}
