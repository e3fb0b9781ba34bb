package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/utils"
)

type PostService struct {
	posts  PostStore
	reader Reader
	events Dispatcher
	log    logger.Logger
}

func NewPostService(posts PostStore, reader Reader, events Dispatcher, log logger.Logger) *PostService {
	return &PostService{
		posts:  posts,
		reader: reader,
		events: events,
		log:    log.WithComponent("PostService"),
	}
}

// CreatePost 发布帖子。计数器与帖子在同一事务中写入；粉丝通知在提交后异步派发。
func (s *PostService) CreatePost(ctx context.Context, author *models.User, body, imgURL string) (*models.PostView, error) {
	if err := requireUser(author); err != nil {
		return nil, err
	}
	body = utils.SanitizeText(body)
	if body == "" {
		return nil, apperr.Validation("post body is required")
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return nil, apperr.Newf(apperr.KindValidation, "post body must be at most %d characters", maxBodyLen)
	}

	post := &models.Post{
		UserID: author.ID,
		Body:   body,
		ImgURL: strings.TrimSpace(imgURL),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}

	// Fan-out failures never fail the write; the sweeper replays them.
	s.events.PostCreated(ctx, models.FanoutTask{
		ActorID:   author.ID,
		PostID:    post.ID,
		CreatedAt: post.CreatedAt,
	})

	return &models.PostView{
		ID:         post.ID,
		UserID:     author.ID,
		Body:       post.Body,
		BodyHTML:   utils.RenderMarkdown(post.Body),
		ImgURL:     post.ImgURL,
		CreatedAt:  post.CreatedAt,
		Name:       author.Name,
		ProfilePic: author.ProfileImg,
	}, nil
}

// DeletePost 删除帖子（仅作者本人）
func (s *PostService) DeletePost(ctx context.Context, requester *models.User, id uint) error {
	if err := requireUser(requester); err != nil {
		return err
	}
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.UserID != requester.ID {
		return apperr.Forbidden("you can only delete your own posts")
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}

	s.events.PostDeleted(ctx, id)
	s.log.Info("post deleted", "post_id", id, "user_id", requester.ID)
	return nil
}

func (s *PostService) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (models.Page[models.PostView], error) {
	out, err := s.reader.ListPosts(ctx, filter, page.Normalize())
	if err != nil {
		return out, err
	}
	for i := range out.Items {
		out.Items[i].BodyHTML = utils.RenderMarkdown(out.Items[i].Body)
	}
	return out, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.PostView, error) {
	v, err := s.reader.GetPostView(ctx, id)
	if err != nil {
		return nil, err
	}
	v.BodyHTML = utils.RenderMarkdown(v.Body)
	return v, nil
}
