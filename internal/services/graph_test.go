package services

import (
	"context"
	"testing"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/services/mocks"
	"go.uber.org/mock/gomock"
)

func TestFollowSelfRejected(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewGraphService(mocks.NewMockFollowStore(ctrl), mocks.NewMockUserStore(ctrl), mocks.NewMockReader(ctrl))

	err := svc.Follow(context.Background(), &models.User{ID: 3}, 3)
	if !apperr.IsValidation(err) {
		t.Fatalf("got %v, want validation", err)
	}
}

func TestFollowDuplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	follows := mocks.NewMockFollowStore(ctrl)
	svc := NewGraphService(follows, mocks.NewMockUserStore(ctrl), mocks.NewMockReader(ctrl))

	follows.EXPECT().Follow(gomock.Any(), uint(1), uint(2)).Return(nil)
	follows.EXPECT().Follow(gomock.Any(), uint(1), uint(2)).Return(apperr.AlreadyExists("already following this user"))

	me := &models.User{ID: 1}
	if err := svc.Follow(context.Background(), me, 2); err != nil {
		t.Fatalf("first follow: %v", err)
	}
	if err := svc.Follow(context.Background(), me, 2); !apperr.IsAlreadyExists(err) {
		t.Fatalf("second follow: got %v", err)
	}
}

func TestListFollowersUnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	svc := NewGraphService(mocks.NewMockFollowStore(ctrl), users, mocks.NewMockReader(ctrl))

	users.EXPECT().GetByID(gomock.Any(), uint(77)).Return(nil, apperr.NotFound("user not found"))
	if _, err := svc.ListFollowers(context.Background(), 77, models.PageRequest{}); !apperr.IsNotFound(err) {
		t.Fatalf("got %v, want not found", err)
	}
}

func TestListFollowingPaginates(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	reader := mocks.NewMockReader(ctrl)
	svc := NewGraphService(mocks.NewMockFollowStore(ctrl), users, reader)

	users.EXPECT().GetByID(gomock.Any(), uint(5)).Return(&models.User{ID: 5}, nil)
	reader.EXPECT().
		ListFollowing(gomock.Any(), uint(5), models.PageRequest{Limit: 20, Offset: 40}).
		Return(models.Page[models.UserSummary]{Items: []models.UserSummary{{ID: 9, Name: "N"}}}, nil)

	page, err := svc.ListFollowing(context.Background(), 5, models.PageRequest{Offset: 40})
	if err != nil || len(page.Items) != 1 {
		t.Fatalf("ListFollowing = %+v, %v", page, err)
	}
}
