package router

import (
	"net/http"

	"github.com/Sheetal-x-Sharma/LCC/internal/handlers"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/middleware"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth          *handlers.AuthHandler
	Posts         *handlers.PostHandler
	Likes         *handlers.LikeHandler
	Comments      *handlers.CommentHandler
	Follows       *handlers.FollowHandler
	Notifications *handlers.NotificationHandler
	Stories       *handlers.StoryHandler
	Users         *handlers.UserHandler
	Uploads       *handlers.UploadHandler
	Health        *handlers.HealthHandler
}

type Opts struct {
	SessionSecret string
	SecureCookies bool
	UploadDir     string
	Auth          middleware.Authenticator
	Limiter       *middleware.RateLimiter
	Logger        logger.Logger
}

// New builds the gin engine with every route registered.
func New(h Handlers, opts Opts) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20
	r.Use(gin.Recovery(), middleware.RequestLogger(opts.Logger))

	// OAuth state only; the login session itself is the JWT cookie
	store := cookie.NewStore([]byte(opts.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/api/auth",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("lcc_session", store))

	r.Static("/uploads", opts.UploadDir)
	r.GET("/healthz", h.Health.Healthz)

	RegisterRoutes(r.Group("/api"), h, opts)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"kind": "not_found", "message": "route not found"}})
	})
	return r
}

func RegisterRoutes(api *gin.RouterGroup, h Handlers, opts Opts) {
	api.Use(middleware.LoadUser(opts.Auth))
	authRequired := middleware.AuthRequired()
	limit := opts.Limiter.Limit()

	// 公共路由 (Public Routes)
	api.POST("/auth/google", h.Auth.GoogleLogin)                 // ID token 登录
	api.GET("/auth/google/login", h.Auth.GoogleRedirect)         // 跳转 Google 授权
	api.GET("/auth/google/callback", h.Auth.GoogleCallback)      // 授权回调
	api.POST("/auth/logout", h.Auth.Logout)                      // 退出登录
	api.GET("/posts", h.Posts.List)                              // 帖子列表
	api.GET("/posts/:id", h.Posts.Get)                           // 帖子详情
	api.GET("/comments/:postId", h.Comments.List)                // 评论列表
	api.GET("/followers/followers/:userId", h.Follows.Followers) // 粉丝列表
	api.GET("/followers/following/:userId", h.Follows.Following) // 关注列表
	api.GET("/users/:userId", h.Users.Profile)                   // 用户主页

	// 受保护路由 (Protected Routes)
	authorized := api.Group("")
	authorized.Use(authRequired)
	{
		authorized.POST("/auth/register", h.Auth.Register)
		authorized.GET("/auth/me", h.Auth.Me)

		authorized.POST("/posts", limit, h.Posts.Create)
		authorized.DELETE("/posts/:id", h.Posts.Delete)

		authorized.POST("/likes/toggle", limit, h.Likes.Toggle)
		authorized.GET("/likes/status", h.Likes.Status)

		authorized.POST("/comments", limit, h.Comments.Create)
		authorized.DELETE("/comments/:id", h.Comments.Delete)

		authorized.POST("/followers", limit, h.Follows.Follow)
		authorized.DELETE("/followers/:followingId", h.Follows.Unfollow)
		authorized.GET("/followers/check/:followingId", h.Follows.Check)

		authorized.GET("/notifications", h.Notifications.List)
		authorized.GET("/notifications/unread-count", h.Notifications.Unread)
		authorized.POST("/notifications/read-all", h.Notifications.ReadAll)
		authorized.POST("/notifications/:id/read", h.Notifications.Read)
		authorized.DELETE("/notifications/:id", h.Notifications.Delete)
		authorized.DELETE("/notifications", h.Notifications.DeleteAll)

		authorized.GET("/stories", h.Stories.List)
		authorized.POST("/stories", limit, h.Stories.Create)
		authorized.DELETE("/stories/:id", h.Stories.Delete)

		authorized.PUT("/users/:userId", h.Users.Update)

		authorized.POST("/upload", limit, h.Uploads.Upload(services.UploadGeneric))
		authorized.POST("/upload/posts", limit, h.Uploads.Upload(services.UploadPosts))
		authorized.POST("/upload/stories", limit, h.Uploads.Upload(services.UploadStories))
	}
}
