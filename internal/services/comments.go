package services

import (
	"context"
	"unicode/utf8"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/utils"
)

type CommentService struct {
	comments CommentStore
	posts    PostStore
	reader   Reader
}

func NewCommentService(comments CommentStore, posts PostStore, reader Reader) *CommentService {
	return &CommentService{comments: comments, posts: posts, reader: reader}
}

func (s *CommentService) ListComments(ctx context.Context, postID uint, page models.PageRequest) (models.Page[models.CommentView], error) {
	return s.reader.ListComments(ctx, postID, page.Normalize())
}

// AddComment 发表评论，评论数在同一事务中 +1
func (s *CommentService) AddComment(ctx context.Context, user *models.User, postID uint, body string) (*models.CommentView, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	if postID == 0 {
		return nil, apperr.Validation("postId is required")
	}
	body = utils.SanitizeText(body)
	if body == "" {
		return nil, apperr.Validation("comment text is required")
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return nil, apperr.Newf(apperr.KindValidation, "comment must be at most %d characters", maxBodyLen)
	}

	comment := &models.Comment{PostID: postID, UserID: user.ID, Body: body}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return &models.CommentView{
		ID:             comment.ID,
		PostID:         postID,
		UserID:         user.ID,
		Body:           comment.Body,
		CreatedAt:      comment.CreatedAt,
		Name:           user.Name,
		ProfilePicture: user.ProfileImg,
	}, nil
}

// DeleteComment may be done by the comment's author or the post's owner.
func (s *CommentService) DeleteComment(ctx context.Context, user *models.User, id uint) error {
	if err := requireUser(user); err != nil {
		return err
	}
	comment, err := s.comments.Get(ctx, id)
	if err != nil {
		return err
	}
	if comment.UserID != user.ID {
		post, err := s.posts.Get(ctx, comment.PostID)
		if err != nil {
			return err
		}
		if post.UserID != user.ID {
			return apperr.Forbidden("you cannot delete this comment")
		}
	}
	return s.comments.Delete(ctx, id)
}
