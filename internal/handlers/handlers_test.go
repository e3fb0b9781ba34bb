package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/auth"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/middleware"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/Sheetal-x-Sharma/LCC/internal/services/mocks"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine returns an engine whose requests run as user (nil for anonymous).
func newEngine(user *models.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.CheckUserKey, user)
		}
		c.Next()
	})
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if s, ok := body.(string); ok {
		buf.WriteString(s)
	} else if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorKind(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Kind string `json:"kind"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", w.Body.String(), err)
	}
	return body.Error.Kind
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func TestPostCreate(t *testing.T) {
	ctrl := gomock.NewController(t)
	posts := mocks.NewMockPostStore(ctrl)
	events := mocks.NewMockDispatcher(ctrl)
	h := NewPostHandler(services.NewPostService(posts, mocks.NewMockReader(ctrl), events, logger.Nop()))

	posts.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, p *models.Post) error {
		p.ID = 12
		return nil
	})
	events.EXPECT().PostCreated(gomock.Any(), gomock.Any())

	r := newEngine(&models.User{ID: 1, Name: "Dev"})
	r.POST("/posts", h.Create)

	w := doJSON(r, http.MethodPost, "/posts", map[string]any{"user_id": 99, "desc_text": "exam tomorrow", "img_url": ""})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var got models.PostView
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != 12 || got.UserID != 1 || got.Body != "exam tomorrow" || got.Name != "Dev" {
		t.Fatalf("post = %+v", got)
	}
}

func TestPostCreateBadBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewPostHandler(services.NewPostService(mocks.NewMockPostStore(ctrl), mocks.NewMockReader(ctrl), mocks.NewMockDispatcher(ctrl), logger.Nop()))

	r := newEngine(&models.User{ID: 1})
	r.POST("/posts", h.Create)

	w := doJSON(r, http.MethodPost, "/posts", "{not json")
	if w.Code != http.StatusBadRequest || errorKind(t, w) != "validation" {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	w = doJSON(r, http.MethodPost, "/posts", map[string]string{"desc_text": "   "})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty body status = %d", w.Code)
	}
}

func TestPostDeleteForbidden(t *testing.T) {
	ctrl := gomock.NewController(t)
	posts := mocks.NewMockPostStore(ctrl)
	h := NewPostHandler(services.NewPostService(posts, mocks.NewMockReader(ctrl), mocks.NewMockDispatcher(ctrl), logger.Nop()))

	posts.EXPECT().Get(gomock.Any(), uint(3)).Return(&models.Post{ID: 3, UserID: 2}, nil)

	r := newEngine(&models.User{ID: 1})
	r.DELETE("/posts/:id", h.Delete)

	w := doJSON(r, http.MethodDelete, "/posts/3", nil)
	if w.Code != http.StatusForbidden || errorKind(t, w) != "forbidden" {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	w = doJSON(r, http.MethodDelete, "/posts/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", w.Code)
	}
}

func TestPostListFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockReader(ctrl)
	h := NewPostHandler(services.NewPostService(mocks.NewMockPostStore(ctrl), reader, mocks.NewMockDispatcher(ctrl), logger.Nop()))

	reader.EXPECT().
		ListPosts(gomock.Any(), models.PostFilter{UserID: 5}, models.PageRequest{Limit: 10, Offset: 20}).
		Return(models.Page[models.PostView]{Items: []models.PostView{{ID: 1}}, HasMore: true}, nil)

	r := newEngine(nil)
	r.GET("/posts", h.List)

	w := doJSON(r, http.MethodGet, "/posts?userId=5&limit=10&offset=20", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if !strings.Contains(w.Body.String(), `"has_more":true`) {
		t.Fatalf("body = %s", w.Body)
	}

	w = doJSON(r, http.MethodGet, "/posts?userId=x", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad userId status = %d", w.Code)
	}
}

func TestLikeToggle(t *testing.T) {
	ctrl := gomock.NewController(t)
	likes := mocks.NewMockLikeStore(ctrl)
	h := NewLikeHandler(services.NewLikeService(likes))

	likes.EXPECT().Toggle(gomock.Any(), uint(1), uint(8)).Return(models.LikeState{Liked: true, LikesCount: 4}, nil)

	r := newEngine(&models.User{ID: 1})
	r.POST("/likes/toggle", h.Toggle)

	w := doJSON(r, http.MethodPost, "/likes/toggle", map[string]uint{"postId": 8})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"liked":true,"likes_count":4}` {
		t.Fatalf("body = %s", got)
	}
}

func TestFollowHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	follows := mocks.NewMockFollowStore(ctrl)
	h := NewFollowHandler(services.NewGraphService(follows, mocks.NewMockUserStore(ctrl), mocks.NewMockReader(ctrl)))

	r := newEngine(&models.User{ID: 4})
	r.POST("/followers", h.Follow)
	r.GET("/followers/check/:followingId", h.Check)
	r.DELETE("/followers/:followingId", h.Unfollow)

	if w := doJSON(r, http.MethodPost, "/followers", map[string]uint{"followingId": 4}); w.Code != http.StatusBadRequest {
		t.Fatalf("self follow status = %d", w.Code)
	}

	follows.EXPECT().Follow(gomock.Any(), uint(4), uint(6)).Return(apperr.AlreadyExists("already following this user"))
	if w := doJSON(r, http.MethodPost, "/followers", map[string]uint{"followingId": 6}); w.Code != http.StatusConflict {
		t.Fatalf("duplicate follow status = %d", w.Code)
	}

	follows.EXPECT().IsFollowing(gomock.Any(), uint(4), uint(6)).Return(true, nil)
	w := doJSON(r, http.MethodGet, "/followers/check/6", nil)
	if strings.TrimSpace(w.Body.String()) != `{"following":true}` {
		t.Fatalf("check body = %s", w.Body)
	}

	follows.EXPECT().Unfollow(gomock.Any(), uint(4), uint(7)).Return(apperr.NotFound("not following this user"))
	if w := doJSON(r, http.MethodDelete, "/followers/7", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unfollow status = %d", w.Code)
	}
}

func TestNotificationsRequireUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewNotificationHandler(services.NewNotificationService(mocks.NewMockNotificationStore(ctrl), mocks.NewMockReader(ctrl)))

	r := newEngine(nil)
	r.GET("/notifications", h.List)

	w := doJSON(r, http.MethodGet, "/notifications", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestNotificationsDeleteAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	notes := mocks.NewMockNotificationStore(ctrl)
	h := NewNotificationHandler(services.NewNotificationService(notes, mocks.NewMockReader(ctrl)))

	notes.EXPECT().DeleteAll(gomock.Any(), uint(2)).Return(int64(5), nil)

	r := newEngine(&models.User{ID: 2})
	r.DELETE("/notifications", h.DeleteAll)

	w := doJSON(r, http.MethodDelete, "/notifications", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"deleted":5`) {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
}

func TestNotificationsUnreadCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	reader := mocks.NewMockReader(ctrl)
	h := NewNotificationHandler(services.NewNotificationService(mocks.NewMockNotificationStore(ctrl), reader))

	reader.EXPECT().UnreadCount(gomock.Any(), uint(2)).Return(int64(4), nil)

	r := newEngine(&models.User{ID: 2})
	r.GET("/notifications/unread-count", h.Unread)

	w := doJSON(r, http.MethodGet, "/notifications/unread-count", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"unread_count":4`) {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
}

func TestStoryCreateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, err := services.NewStoryService(mocks.NewMockStoryStore(ctrl), mocks.NewMockReader(ctrl), logger.Nop(), services.StoryOpts{})
	if err != nil {
		t.Fatal(err)
	}
	r := newEngine(&models.User{ID: 2})
	r.POST("/stories", NewStoryHandler(svc).Create)

	w := doJSON(r, http.MethodPost, "/stories", map[string]string{"img_url": "/uploads/stories/x.gif", "media_type": "gif"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for k, data := range files {
		fw, err := mw.CreateFormFile(k, k+".png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	uploads := services.NewUploadService(t.TempDir(), 1<<20, nil, logger.Nop())
	r := newEngine(&models.User{ID: 1})
	r.POST("/upload/posts", NewUploadHandler(uploads).Upload(services.UploadPosts))

	body, ct := multipartBody(t, nil, map[string][]byte{"file": pngBytes})
	req := httptest.NewRequest(http.MethodPost, "/upload/posts", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	var res services.UploadResult
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.FileURL, "/uploads/posts/") || res.MediaType != models.MediaImage {
		t.Fatalf("result = %+v", res)
	}

	body, ct = multipartBody(t, map[string]string{"note": "no file"}, nil)
	req = httptest.NewRequest(http.MethodPost, "/upload/posts", body)
	req.Header.Set("Content-Type", ct)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file status = %d", w.Code)
	}
}

func TestUserUpdateMultipart(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	uploads := services.NewUploadService(t.TempDir(), 1<<20, nil, logger.Nop())
	h := NewUserHandler(services.NewUserService(users), uploads)

	users.EXPECT().Update(gomock.Any(), uint(3), gomock.Any()).DoAndReturn(func(_ context.Context, _ uint, fields map[string]any) (*models.User, error) {
		img, _ := fields["profile_img"].(string)
		if !strings.HasPrefix(img, "/uploads/posts/") {
			t.Errorf("profile_img = %q", img)
		}
		if fields["city"] != "Jaipur" {
			t.Errorf("city = %v", fields["city"])
		}
		return &models.User{ID: 3, ProfileImg: img, City: "Jaipur"}, nil
	})

	r := newEngine(&models.User{ID: 3})
	r.PUT("/users/:userId", h.Update)

	body, ct := multipartBody(t, map[string]string{"city": "Jaipur"}, map[string][]byte{"profile_img": pngBytes})
	req := httptest.NewRequest(http.MethodPut, "/users/3", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
}

func TestUserProfileHidesIdentity(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	h := NewUserHandler(services.NewUserService(users), nil)

	users.EXPECT().GetByID(gomock.Any(), uint(7)).
		Return(&models.User{ID: 7, Name: "Kabir", Email: "kabir@lnmiit.ac.in", GoogleID: "g-7", City: "Jaipur"}, nil)

	r := newEngine(nil)
	r.GET("/users/:userId", h.Profile)

	w := doJSON(r, http.MethodGet, "/users/7", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["email"]; ok {
		t.Errorf("email exposed: %s", w.Body)
	}
	if _, ok := body["google_id"]; ok {
		t.Errorf("google_id exposed: %s", w.Body)
	}
	if body["name"] != "Kabir" || body["city"] != "Jaipur" {
		t.Errorf("profile = %s", w.Body)
	}
}

func TestUserUpdateOtherUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	h := NewUserHandler(services.NewUserService(mocks.NewMockUserStore(ctrl)), nil)

	r := newEngine(&models.User{ID: 3})
	r.PUT("/users/:userId", h.Update)

	w := doJSON(r, http.MethodPut, "/users/4", map[string]string{"bio": "hi"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d", w.Code)
	}
}

type stubVerifier struct{ id auth.Identity }

func (s stubVerifier) Verify(context.Context, string) (auth.Identity, error) { return s.id, nil }

type stubTokens struct{}

func (stubTokens) Issue(uint) (string, time.Time, error) { return "jwt-token", time.Now().Add(time.Hour), nil }
func (stubTokens) Parse(string) (uint, error) { return 0, apperr.Unauthenticated("invalid token") }

type stubOAuth struct{ enabled bool }

func (s stubOAuth) Enabled() bool { return s.enabled }
func (s stubOAuth) AuthCodeURL(state string) string { return "https://accounts.example/auth?state=" + state }
func (s stubOAuth) Exchange(context.Context, string) (auth.Identity, error) {
	return auth.Identity{}, errors.New("exchange should not be reached")
}

func newAuthHandler(t *testing.T, users *mocks.MockUserStore, oauth OAuthProvider) *AuthHandler {
	authSvc := services.NewAuthService(users, stubVerifier{id: auth.Identity{
		Subject: "g-1", Email: "x@lnmiit.ac.in", EmailVerified: true, Name: "X",
	}}, stubTokens{}, "lnmiit.ac.in", logger.Nop())
	return NewAuthHandler(authSvc, services.NewUserService(users), oauth, CookieOpts{TTL: time.Hour, FrontendURL: "http://localhost:5173"})
}

func TestGoogleLoginSetsCookie(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	h := newAuthHandler(t, users, stubOAuth{})

	users.EXPECT().GetByEmail(gomock.Any(), "x@lnmiit.ac.in").Return(&models.User{ID: 5, GoogleID: "g-1", Email: "x@lnmiit.ac.in"}, nil)

	r := newEngine(nil)
	r.POST("/auth/google", h.GoogleLogin)

	w := doJSON(r, http.MethodPost, "/auth/google", map[string]string{"token": "id-token"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body)
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, middleware.TokenCookie+"=jwt-token") || !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("Set-Cookie = %q", cookie)
	}
	if !strings.Contains(w.Body.String(), `"isNewUser":false`) {
		t.Fatalf("body = %s", w.Body)
	}

	if w := doJSON(r, http.MethodPost, "/auth/google", map[string]string{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing token status = %d", w.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newAuthHandler(t, mocks.NewMockUserStore(gomock.NewController(t)), stubOAuth{})
	r := newEngine(nil)
	r.POST("/auth/logout", h.Logout)

	w := doJSON(r, http.MethodPost, "/auth/logout", nil)
	if cookie := w.Header().Get("Set-Cookie"); !strings.Contains(cookie, "Max-Age=0") {
		t.Fatalf("Set-Cookie = %q", cookie)
	}
}

func TestGoogleRedirectFlow(t *testing.T) {
	h := newAuthHandler(t, mocks.NewMockUserStore(gomock.NewController(t)), stubOAuth{enabled: true})

	r := gin.New()
	r.Use(sessions.Sessions("lcc_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/auth/google/login", h.GoogleRedirect)
	r.GET("/auth/google/callback", h.GoogleCallback)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("login status = %d", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Location"), "https://accounts.example/auth?state=") {
		t.Fatalf("Location = %q", w.Header().Get("Location"))
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=abc", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("forged state status = %d", w.Code)
	}
}

func TestGoogleRedirectDisabled(t *testing.T) {
	h := newAuthHandler(t, mocks.NewMockUserStore(gomock.NewController(t)), stubOAuth{})

	r := gin.New()
	r.Use(sessions.Sessions("lcc_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/auth/google/login", h.GoogleRedirect)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthz(t *testing.T) {
	for _, tt := range []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{errors.New("connection refused"), http.StatusServiceUnavailable},
	} {
		r := gin.New()
		r.GET("/healthz", NewHealthHandler(stubPinger{err: tt.err}).Healthz)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		if w.Code != tt.want {
			t.Errorf("ping err %v: status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}
