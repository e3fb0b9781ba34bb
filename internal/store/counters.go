package store

import (
	"context"
	"sort"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func increment(col string) clause.Expr {
	return gorm.Expr(col + " + 1")
}

// decrement never takes a counter below zero.
func decrement(col string) clause.Expr {
	return gorm.Expr("CASE WHEN " + col + " > 0 THEN " + col + " - 1 ELSE 0 END")
}

// bump adjusts one counter column on table row id. A missing row is NotFound.
func bump(tx *gorm.DB, table string, id uint, col string, delta int) error {
	expr := increment(col)
	if delta < 0 {
		expr = decrement(col)
	}
	res := tx.Table(table).Where("id = ?", id).UpdateColumn(col, expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(table[:len(table)-1] + " not found")
	}
	return nil
}

type userCounter struct {
	id    uint
	col   string
	delta int
}

// bumpUsers applies counter changes to several users in ascending id order so
// that two concurrent follow operations lock rows in the same order.
func bumpUsers(tx *gorm.DB, changes ...userCounter) error {
	sort.Slice(changes, func(i, j int) bool { return changes[i].id < changes[j].id })
	for _, ch := range changes {
		if err := bump(tx, "users", ch.id, ch.col, ch.delta); err != nil {
			return err
		}
	}
	return nil
}

type CounterStore struct {
	db *gorm.DB
}

func NewCounterStore(db *gorm.DB) *CounterStore {
	return &CounterStore{db: db}
}

const reconcilePosts = `
UPDATE posts p
SET likes_count = s.likes, comments_count = s.comments
FROM (
	SELECT p2.id,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p2.id) AS likes,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p2.id) AS comments
	FROM posts p2
) s
WHERE s.id = p.id AND (p.likes_count <> s.likes OR p.comments_count <> s.comments)`

const reconcileUsers = `
UPDATE users u
SET posts_count = s.posts, followers_count = s.followers, following_count = s.following
FROM (
	SELECT u2.id,
		(SELECT COUNT(*) FROM posts p WHERE p.user_id = u2.id) AS posts,
		(SELECT COUNT(*) FROM follows f WHERE f.following_id = u2.id) AS followers,
		(SELECT COUNT(*) FROM follows f WHERE f.follower_id = u2.id) AS following
	FROM users u2
) s
WHERE s.id = u.id
	AND (u.posts_count <> s.posts OR u.followers_count <> s.followers OR u.following_count <> s.following)`

// Reconcile recomputes every denormalized counter from its source rows and
// returns how many rows were corrected.
func (s *CounterStore) Reconcile(ctx context.Context) (int64, error) {
	var fixed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range []string{reconcilePosts, reconcileUsers} {
			res := tx.Exec(stmt)
			if res.Error != nil {
				return res.Error
			}
			fixed += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, translate(err, "counter")
	}
	return fixed, nil
}
