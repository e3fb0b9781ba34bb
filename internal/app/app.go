// Package app assembles the API server with fx.
package app

import (
	"context"

	"github.com/Sheetal-x-Sharma/LCC/internal/auth"
	"github.com/Sheetal-x-Sharma/LCC/internal/config"
	"github.com/Sheetal-x-Sharma/LCC/internal/db"
	"github.com/Sheetal-x-Sharma/LCC/internal/handlers"
	"github.com/Sheetal-x-Sharma/LCC/internal/logger"
	"github.com/Sheetal-x-Sharma/LCC/internal/query"
	"github.com/Sheetal-x-Sharma/LCC/internal/services"
	"github.com/Sheetal-x-Sharma/LCC/internal/store"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

var Module = fx.Options(
	fx.Provide(
		config.Load,
		newLogger,
		db.NewGorm,
		db.NewPool,
	),
	storeModule,
	fx.Provide(
		fx.Annotate(query.New, fx.As(new(services.Reader))),
	),
	authModule,
	workerModule,
	serviceModule,
	httpModule,
	fx.WithLogger(func(log logger.Logger) fxevent.Logger {
		return &fxevent.SlogLogger{Logger: log.WithComponent("fx").Slog()}
	}),
)

var storeModule = fx.Module("store",
	fx.Provide(
		fx.Annotate(store.NewUserStore, fx.As(new(services.UserStore))),
		fx.Annotate(store.NewPostStore, fx.As(new(services.PostStore))),
		fx.Annotate(store.NewLikeStore, fx.As(new(services.LikeStore))),
		fx.Annotate(store.NewCommentStore, fx.As(new(services.CommentStore))),
		fx.Annotate(store.NewFollowStore, fx.As(new(services.FollowStore))),
		fx.Annotate(store.NewNotificationStore, fx.As(new(services.NotificationStore))),
		fx.Annotate(store.NewStoryStore, fx.As(new(services.StoryStore))),
		fx.Annotate(store.NewCounterStore, fx.As(new(services.CounterStore))),
	),
)

var authModule = fx.Module("auth",
	fx.Provide(
		fx.Annotate(newGoogleVerifier, fx.As(new(services.IdentityVerifier))),
		fx.Annotate(newTokenIssuer, fx.As(new(services.Tokens))),
		fx.Annotate(newOAuthFlow, fx.As(new(handlers.OAuthProvider))),
	),
)

var serviceModule = fx.Module("services",
	fx.Provide(
		services.NewPostService,
		services.NewLikeService,
		services.NewCommentService,
		services.NewGraphService,
		services.NewNotificationService,
		services.NewUserService,
		newAuthService,
		newStoryService,
		newUploadService,
	),
)

func newLogger(lc fx.Lifecycle, cfg *config.Config) logger.Logger {
	log := logger.New(logger.Opts{
		Env:       cfg.App.Env,
		Level:     cfg.App.LogLevel,
		SentryDSN: cfg.Sentry.DSN,
	})
	lc.Append(fx.StopHook(logger.Flush))
	return log
}

func newGoogleVerifier(cfg *config.Config) (*auth.GoogleVerifier, error) {
	return auth.NewGoogleVerifier(context.Background(), cfg.Auth.GoogleClientID)
}

func newTokenIssuer(cfg *config.Config) *auth.TokenIssuer {
	return auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
}

func newOAuthFlow(cfg *config.Config) *auth.OAuthFlow {
	return auth.NewOAuthFlow(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURL)
}

func newAuthService(users services.UserStore, verifier services.IdentityVerifier, tokens services.Tokens, cfg *config.Config, log logger.Logger) *services.AuthService {
	return services.NewAuthService(users, verifier, tokens, cfg.Auth.AllowedEmailDomain, log)
}

func newStoryService(stories services.StoryStore, reader services.Reader, cfg *config.Config, log logger.Logger) (*services.StoryService, error) {
	return services.NewStoryService(stories, reader, log, services.StoryOpts{CacheTTL: cfg.Jobs.StoriesCacheTTL})
}

func newUploadService(mirror *services.MirrorWorker, cfg *config.Config, log logger.Logger) *services.UploadService {
	return services.NewUploadService(cfg.Upload.Dir, cfg.Upload.MaxBytes, mirror, log)
}
