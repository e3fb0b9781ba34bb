package services

import (
	"context"

	"github.com/Sheetal-x-Sharma/LCC/internal/models"
)

type NotificationService struct {
	notes  NotificationStore
	reader Reader
}

func NewNotificationService(notes NotificationStore, reader Reader) *NotificationService {
	return &NotificationService{notes: notes, reader: reader}
}

// List 通知列表（最新在前）以及未读数
func (s *NotificationService) List(ctx context.Context, user *models.User, page models.PageRequest) (*models.NotificationPage, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	items, err := s.reader.ListNotifications(ctx, user.ID, page.Normalize())
	if err != nil {
		return nil, err
	}
	unread, err := s.reader.UnreadCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &models.NotificationPage{Page: items, UnreadCount: unread}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, user *models.User) (int64, error) {
	if err := requireUser(user); err != nil {
		return 0, err
	}
	return s.reader.UnreadCount(ctx, user.ID)
}

func (s *NotificationService) MarkRead(ctx context.Context, user *models.User, id uint) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return s.notes.MarkRead(ctx, user.ID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, user *models.User) (int64, error) {
	if err := requireUser(user); err != nil {
		return 0, err
	}
	return s.notes.MarkAllRead(ctx, user.ID)
}

// Delete removes one of the caller's notifications; other users' rows are
// reported as not found.
func (s *NotificationService) Delete(ctx context.Context, user *models.User, id uint) error {
	if err := requireUser(user); err != nil {
		return err
	}
	return s.notes.Delete(ctx, user.ID, id)
}

func (s *NotificationService) DeleteAll(ctx context.Context, user *models.User) (int64, error) {
	if err := requireUser(user); err != nil {
		return 0, err
	}
	return s.notes.DeleteAll(ctx, user.ID)
}
