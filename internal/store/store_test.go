package store

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/migrations"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// openTestDB connects to TEST_DATABASE_URL, rebuilds the schema and returns
// the handle. Tests are skipped without it.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	ctx := context.Background()
	if err := migrations.Run(ctx, sqlDB, "reset"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := migrations.Up(ctx, sqlDB); err != nil {
		t.Fatalf("up: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return gdb
}

func mkUser(t *testing.T, s *UserStore, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, Email: fmt.Sprintf("%s@lnmiit.ac.in", name), UserType: models.UserTypeStudent}
	if err := s.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", name, err)
	}
	return u
}

func TestLikeToggleKeepsCounter(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	users, posts, likes := NewUserStore(gdb), NewPostStore(gdb), NewLikeStore(gdb)

	author := mkUser(t, users, "author")
	post := &models.Post{UserID: author.ID, Body: "hello"}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}

	state, err := likes.Toggle(ctx, author.ID, post.ID)
	if err != nil || !state.Liked || state.LikesCount != 1 {
		t.Fatalf("first toggle = %+v, %v", state, err)
	}
	state, err = likes.Toggle(ctx, author.ID, post.ID)
	if err != nil || state.Liked || state.LikesCount != 0 {
		t.Fatalf("second toggle = %+v, %v", state, err)
	}

	if _, err := likes.Toggle(ctx, author.ID, post.ID+999); !apperr.IsNotFound(err) {
		t.Fatalf("toggle on missing post: got %v, want not found", err)
	}
}

func TestConcurrentLikesMatchRows(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	users, posts, likes := NewUserStore(gdb), NewPostStore(gdb), NewLikeStore(gdb)

	author := mkUser(t, users, "writer")
	post := &models.Post{UserID: author.ID, Body: "race"}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		u := mkUser(t, users, fmt.Sprintf("fan%d", i))
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			if _, err := likes.Toggle(ctx, uid, post.ID); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}(u.ID)
	}
	wg.Wait()

	var rows int64
	gdb.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&rows)
	got, _ := posts.Get(ctx, post.ID)
	if int64(got.LikesCount) != rows || rows != n {
		t.Fatalf("likes_count = %d, rows = %d, want %d", got.LikesCount, rows, n)
	}
}

func TestFollowLifecycle(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	users, follows := NewUserStore(gdb), NewFollowStore(gdb)

	a := mkUser(t, users, "alice")
	b := mkUser(t, users, "bob")

	if err := follows.Follow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if err := follows.Follow(ctx, a.ID, b.ID); !apperr.IsAlreadyExists(err) {
		t.Fatalf("second follow: got %v, want already exists", err)
	}
	if err := follows.Follow(ctx, a.ID, a.ID); !apperr.IsValidation(err) {
		t.Fatalf("self follow: got %v, want validation", err)
	}

	ok, err := follows.IsFollowing(ctx, a.ID, b.ID)
	if err != nil || !ok {
		t.Fatalf("IsFollowing = %v, %v", ok, err)
	}

	gotB, _ := users.GetByID(ctx, b.ID)
	gotA, _ := users.GetByID(ctx, a.ID)
	if gotB.FollowersCount != 1 || gotA.FollowingCount != 1 {
		t.Fatalf("counters after follow: followers=%d following=%d", gotB.FollowersCount, gotA.FollowingCount)
	}

	if err := follows.Unfollow(ctx, a.ID, b.ID); err != nil {
		t.Fatalf("unfollow: %v", err)
	}
	if err := follows.Unfollow(ctx, a.ID, b.ID); !apperr.IsNotFound(err) {
		t.Fatalf("second unfollow: got %v, want not found", err)
	}
	gotB, _ = users.GetByID(ctx, b.ID)
	if gotB.FollowersCount != 0 {
		t.Fatalf("followers_count = %d, want 0", gotB.FollowersCount)
	}
}

func TestFanOutIsIdempotentAndSkipsActor(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	users, posts, follows, notes := NewUserStore(gdb), NewPostStore(gdb), NewFollowStore(gdb), NewNotificationStore(gdb)

	actor := mkUser(t, users, "poster")
	f1 := mkUser(t, users, "reader1")
	f2 := mkUser(t, users, "reader2")
	for _, f := range []*models.User{f1, f2} {
		if err := follows.Follow(ctx, f.ID, actor.ID); err != nil {
			t.Fatalf("follow: %v", err)
		}
	}

	post := &models.Post{UserID: actor.ID, Body: "news"}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}

	now := time.Now()
	n, err := notes.FanOut(ctx, actor.ID, post.ID, now)
	if err != nil || n != 2 {
		t.Fatalf("FanOut = %d, %v; want 2", n, err)
	}
	n, err = notes.FanOut(ctx, actor.ID, post.ID, now)
	if err != nil || n != 0 {
		t.Fatalf("replayed FanOut = %d, %v; want 0", n, err)
	}

	var self int64
	gdb.Model(&models.Notification{}).Where("user_id = ?", actor.ID).Count(&self)
	if self != 0 {
		t.Fatalf("actor received %d notifications", self)
	}

	pending, err := posts.PendingFanout(ctx, now.Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("PendingFanout: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("post still pending after fan-out: %+v", pending)
	}

	if err := posts.Delete(ctx, post.ID); err != nil {
		t.Fatalf("delete post: %v", err)
	}
	var left int64
	gdb.Model(&models.Notification{}).Where("post_id = ?", post.ID).Count(&left)
	if left != 0 {
		t.Fatalf("%d notifications survived post deletion", left)
	}
	got, _ := users.GetByID(ctx, actor.ID)
	if got.PostsCount != 0 {
		t.Fatalf("posts_count = %d, want 0", got.PostsCount)
	}
}

func TestPurgeExpiredStories(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	users, stories := NewUserStore(gdb), NewStoryStore(gdb)

	owner := mkUser(t, users, "storyteller")
	now := time.Now().UTC()
	old := &models.Story{UserID: owner.ID, MediaURL: "/a.png", MediaType: models.MediaImage, ExpiresAt: now.Add(-time.Minute)}
	fresh := &models.Story{UserID: owner.ID, MediaURL: "/b.png", MediaType: models.MediaImage, ExpiresAt: now.Add(time.Hour)}
	for _, s := range []*models.Story{old, fresh} {
		if err := stories.Create(ctx, s); err != nil {
			t.Fatalf("create story: %v", err)
		}
	}

	n, err := stories.PurgeExpired(ctx, now)
	if err != nil || n != 1 {
		t.Fatalf("PurgeExpired = %d, %v; want 1", n, err)
	}
	if _, err := stories.Get(ctx, fresh.ID); err != nil {
		t.Fatalf("fresh story gone: %v", err)
	}
}

func TestReconcileRepairsDrift(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	users, posts := NewUserStore(gdb), NewPostStore(gdb)

	u := mkUser(t, users, "drifter")
	post := &models.Post{UserID: u.ID, Body: "x"}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("create post: %v", err)
	}
	gdb.Model(&models.Post{}).Where("id = ?", post.ID).UpdateColumn("likes_count", 7)
	gdb.Model(&models.User{}).Where("id = ?", u.ID).UpdateColumn("posts_count", 4)

	fixed, err := NewCounterStore(gdb).Reconcile(ctx)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if fixed != 2 {
		t.Fatalf("fixed = %d, want 2", fixed)
	}
	got, _ := posts.Get(ctx, post.ID)
	if got.LikesCount != 0 {
		t.Fatalf("likes_count = %d after reconcile", got.LikesCount)
	}
}
