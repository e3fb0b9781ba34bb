// Package query is the read side: list and detail views joined with author
// fields, built with squirrel and executed on the pgx pool.
package query

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var SqBuilder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var ErrBadQuery = errors.New("bad query")

type Repo struct {
	pg     *pgxpool.Pool
	logger logger.Logger
}

func New(pg *pgxpool.Pool, log logger.Logger) *Repo {
	return &Repo{
		pg:     pg,
		logger: log.WithComponent("QueryRepo"),
	}
}

var postColumns = []string{
	"p.id", "p.user_id", "p.body", "p.img_url",
	"p.likes_count", "p.comments_count", "p.shares_count", "p.created_at",
	"u.name", "u.profile_img",
}

func scanPost(row pgx.Row) (models.PostView, error) {
	var v models.PostView
	var id, uid int64
	err := row.Scan(&id, &uid, &v.Body, &v.ImgURL,
		&v.LikesCount, &v.CommentsCount, &v.SharesCount, &v.CreatedAt,
		&v.Name, &v.ProfilePic)
	v.ID, v.UserID = uint(id), uint(uid)
	return v, err
}

// postsQuery builds the feed statement. It fetches Limit+1 rows so the caller
// can tell whether another page exists.
func postsQuery(filter models.PostFilter, page models.PageRequest) (sq.SelectBuilder, error) {
	page = page.Normalize()
	q := SqBuilder.
		Select(postColumns...).
		From("posts p").
		Join("users u ON u.id = p.user_id").
		OrderBy("p.created_at DESC", "p.id DESC").
		Limit(uint64(page.Limit + 1))

	if filter.UserID != 0 {
		q = q.Where(sq.Eq{"p.user_id": filter.UserID})
	}

	if page.Cursor != "" {
		c, err := DecodeCursor(page.Cursor)
		if err != nil {
			return q, err
		}
		q = q.Where(sq.Or{
			sq.Lt{"p.created_at": c.CreatedAt},
			sq.And{sq.Eq{"p.created_at": c.CreatedAt}, sq.Lt{"p.id": c.ID}},
		})
	} else if page.Offset > 0 {
		q = q.Offset(uint64(page.Offset))
	}
	return q, nil
}

func (r *Repo) ListPosts(ctx context.Context, filter models.PostFilter, page models.PageRequest) (models.Page[models.PostView], error) {
	page = page.Normalize()
	q, err := postsQuery(filter, page)
	if err != nil {
		return models.Page[models.PostView]{}, err
	}
	items, err := collect(ctx, r, q, scanPost)
	if err != nil {
		return models.Page[models.PostView]{}, err
	}

	out := trim(items, page.Limit)
	if out.HasMore && len(out.Items) > 0 {
		last := out.Items[len(out.Items)-1]
		out.NextCursor = EncodeCursor(Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return out, nil
}

func (r *Repo) GetPostView(ctx context.Context, id uint) (*models.PostView, error) {
	query, args, err := SqBuilder.
		Select(postColumns...).
		From("posts p").
		Join("users u ON u.id = p.user_id").
		Where(sq.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, apperr.Internal(ErrBadQuery)
	}

	v, err := scanPost(r.pg.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("post not found")
		}
		return nil, apperr.Internal(err)
	}
	return &v, nil
}

func commentsQuery(postID uint, page models.PageRequest) sq.SelectBuilder {
	page = page.Normalize()
	return SqBuilder.
		Select("c.id", "c.post_id", "c.user_id", "c.body", "c.created_at", "u.name", "u.profile_img").
		From("comments c").
		Join("users u ON u.id = c.user_id").
		Where(sq.Eq{"c.post_id": postID}).
		OrderBy("c.created_at ASC", "c.id ASC").
		Limit(uint64(page.Limit + 1)).
		Offset(uint64(page.Offset))
}

func (r *Repo) ListComments(ctx context.Context, postID uint, page models.PageRequest) (models.Page[models.CommentView], error) {
	page = page.Normalize()
	items, err := collect(ctx, r, commentsQuery(postID, page), func(row pgx.Row) (models.CommentView, error) {
		var v models.CommentView
		var id, pid, uid int64
		err := row.Scan(&id, &pid, &uid, &v.Body, &v.CreatedAt, &v.Name, &v.ProfilePicture)
		v.ID, v.PostID, v.UserID = uint(id), uint(pid), uint(uid)
		return v, err
	})
	if err != nil {
		return models.Page[models.CommentView]{}, err
	}
	return trim(items, page.Limit), nil
}

// graphQuery lists the other side of userID's follow edges, newest first.
// followers=true returns who follows userID.
func graphQuery(userID uint, followers bool, page models.PageRequest) sq.SelectBuilder {
	page = page.Normalize()
	join, where := "users u ON u.id = f.following_id", "f.follower_id"
	if followers {
		join, where = "users u ON u.id = f.follower_id", "f.following_id"
	}
	return SqBuilder.
		Select("u.id", "u.name", "u.profile_img").
		From("follows f").
		Join(join).
		Where(sq.Eq{where: userID}).
		OrderBy("f.created_at DESC", "f.id DESC").
		Limit(uint64(page.Limit + 1)).
		Offset(uint64(page.Offset))
}

func scanSummary(row pgx.Row) (models.UserSummary, error) {
	var v models.UserSummary
	var id int64
	err := row.Scan(&id, &v.Name, &v.ProfileImg)
	v.ID = uint(id)
	return v, err
}

func (r *Repo) ListFollowers(ctx context.Context, userID uint, page models.PageRequest) (models.Page[models.UserSummary], error) {
	page = page.Normalize()
	items, err := collect(ctx, r, graphQuery(userID, true, page), scanSummary)
	if err != nil {
		return models.Page[models.UserSummary]{}, err
	}
	return trim(items, page.Limit), nil
}

func (r *Repo) ListFollowing(ctx context.Context, userID uint, page models.PageRequest) (models.Page[models.UserSummary], error) {
	page = page.Normalize()
	items, err := collect(ctx, r, graphQuery(userID, false, page), scanSummary)
	if err != nil {
		return models.Page[models.UserSummary]{}, err
	}
	return trim(items, page.Limit), nil
}

func notificationsQuery(userID uint, page models.PageRequest) sq.SelectBuilder {
	page = page.Normalize()
	return SqBuilder.
		Select("n.id", "n.actor_id", "u.name", "u.profile_img", "n.post_id", "n.type", "n.is_read", "n.created_at").
		From("notifications n").
		Join("users u ON u.id = n.actor_id").
		Where(sq.Eq{"n.user_id": userID}).
		OrderBy("n.created_at DESC", "n.id DESC").
		Limit(uint64(page.Limit + 1)).
		Offset(uint64(page.Offset))
}

func (r *Repo) ListNotifications(ctx context.Context, userID uint, page models.PageRequest) (models.Page[models.NotificationView], error) {
	page = page.Normalize()
	items, err := collect(ctx, r, notificationsQuery(userID, page), func(row pgx.Row) (models.NotificationView, error) {
		var v models.NotificationView
		var id, actor int64
		var postID *int64
		var typ string
		err := row.Scan(&id, &actor, &v.ActorName, &v.ActorProfile, &postID, &typ, &v.IsRead, &v.CreatedAt)
		v.ID, v.ActorID, v.Type = uint(id), uint(actor), models.NotificationType(typ)
		if postID != nil {
			pid := uint(*postID)
			v.PostID = &pid
		}
		return v, err
	})
	if err != nil {
		return models.Page[models.NotificationView]{}, err
	}
	return trim(items, page.Limit), nil
}

func (r *Repo) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	query, args, err := SqBuilder.
		Select("COUNT(*)").
		From("notifications").
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, apperr.Internal(ErrBadQuery)
	}
	var n int64
	if err := r.pg.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, apperr.Internal(err)
	}
	return n, nil
}

func storiesQuery(now time.Time, limit int) sq.SelectBuilder {
	return SqBuilder.
		Select("s.id", "s.user_id", "s.media_url", "s.media_type", "s.created_at", "s.expires_at", "u.name", "u.profile_img").
		From("stories s").
		Join("users u ON u.id = s.user_id").
		Where(sq.Gt{"s.expires_at": now}).
		OrderBy("s.created_at DESC", "s.id DESC").
		Limit(uint64(limit))
}

// ListActiveStories returns up to limit unexpired stories, newest first.
func (r *Repo) ListActiveStories(ctx context.Context, now time.Time, limit int) ([]models.StoryView, error) {
	return collect(ctx, r, storiesQuery(now, limit), func(row pgx.Row) (models.StoryView, error) {
		var v models.StoryView
		var id, uid int64
		var mt string
		err := row.Scan(&id, &uid, &v.MediaURL, &mt, &v.CreatedAt, &v.ExpiresAt, &v.Name, &v.ProfileImg)
		v.ID, v.UserID, v.MediaType = uint(id), uint(uid), models.MediaType(mt)
		return v, err
	})
}

func collect[T any](ctx context.Context, r *Repo, q sq.SelectBuilder, scan func(pgx.Row) (T, error)) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		r.logger.Error("build query", "error", err)
		return nil, apperr.Internal(ErrBadQuery)
	}

	rows, err := r.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	return items, nil
}

func trim[T any](items []T, limit int) models.Page[T] {
	if len(items) > limit {
		return models.Page[T]{Items: items[:limit], HasMore: true}
	}
	return models.Page[T]{Items: items}
}
