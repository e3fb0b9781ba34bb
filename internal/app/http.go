package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/Sheetal-x-Sharma/LCC/internal/config"
	"github.com/Sheetal-x-Sharma/LCC/internal/handlers"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/middleware"
	"github.com/Sheetal-x-Sharma/LCC/internal/router"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"go.uber.org/fx"
)

var httpModule = fx.Module("http",
	fx.Provide(
		handlers.NewPostHandler,
		handlers.NewLikeHandler,
		handlers.NewCommentHandler,
		handlers.NewFollowHandler,
		handlers.NewNotificationHandler,
		handlers.NewStoryHandler,
		handlers.NewUserHandler,
		handlers.NewUploadHandler,
		newAuthHandler,
		newHealthHandler,
		newRouter,
	),
	fx.Invoke(newHTTPServer),
)

func newAuthHandler(authSvc *services.AuthService, users *services.UserService, oauth handlers.OAuthProvider, cfg *config.Config) *handlers.AuthHandler {
	return handlers.NewAuthHandler(authSvc, users, oauth, handlers.CookieOpts{
		Secure:      cfg.Auth.SecureCookies,
		TTL:         cfg.Auth.TokenTTL,
		FrontendURL: cfg.Auth.FrontendURL,
	})
}

func newHealthHandler(pool *pgxpool.Pool) *handlers.HealthHandler {
	return handlers.NewHealthHandler(pool)
}

type routerParams struct {
	fx.In

	Config *config.Config
	Logger logger.Logger
	Auth   *services.AuthService

	AuthHandler   *handlers.AuthHandler
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

func newRouter(p routerParams) (*gin.Engine, error) {
	if p.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	limiter, err := middleware.NewRateLimiter(p.Config.RateLimit.Requests, p.Config.RateLimit.Per, p.Config.RateLimit.Burst)
	if err != nil {
		return nil, err
	}
	return router.New(router.Handlers{
		Auth:          p.AuthHandler,
		Posts:         p.Posts,
		Likes:         p.Likes,
		Comments:      p.Comments,
		Follows:       p.Follows,
		Notifications: p.Notifications,
		Stories:       p.Stories,
		Users:         p.Users,
		Uploads:       p.Uploads,
		Health:        p.Health,
	}, router.Opts{
		SessionSecret: p.Config.Auth.SessionSecret,
		SecureCookies: p.Config.Auth.SecureCookies,
		UploadDir:     p.Config.Upload.Dir,
		Auth:          p.Auth,
		Limiter:       limiter,
		Logger:        p.Logger,
	}), nil
}

func newHTTPServer(lc fx.Lifecycle, cfg *config.Config, engine *gin.Engine, log logger.Logger) {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.App.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           c.Handler(engine),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", "addr", srv.Addr, "env", cfg.App.Env)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server")
			return srv.Shutdown(ctx)
		},
	})
}
