package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// Logger is the structured logger used across the service. Arguments after
// msg are key-value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	WithComponent(name string) Logger
	Slog() *slog.Logger
}

type Opts struct {
	Env       string
	Level     string
	SentryDSN string
	Output    io.Writer
}

type Impl struct {
	l *slog.Logger
}

var _ Logger = (*Impl)(nil)

// New builds a zerolog-backed slog logger. In development the output is a
// human readable console, otherwise JSON lines. Errors are also sent to
// Sentry when a DSN is configured.
func New(opts Opts) *Impl {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Env == "" || opts.Env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	zl := zerolog.New(out).With().Timestamp().Logger()

	level := parseLevel(opts.Level)
	var handler slog.Handler = slogzerolog.Option{Level: level, Logger: &zl}.NewZerologHandler()

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			Environment:      opts.Env,
			AttachStacktrace: true,
		})
		if err == nil {
			handler = slogmulti.Fanout(
				handler,
				slogsentry.Option{Level: slog.LevelError}.NewSentryHandler(),
			)
		} else {
			zl.Warn().Err(err).Msg("sentry init failed, continuing without it")
		}
	}

	return &Impl{l: slog.New(handler)}
}

// Nop discards everything. Used by tests.
func Nop() *Impl {
	return &Impl{l: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// Flush waits for buffered Sentry events.
func Flush() {
	sentry.Flush(2 * time.Second)
}

func (i *Impl) Debug(msg string, args ...any) { i.l.Debug(msg, args...) }
func (i *Impl) Info(msg string, args ...any)  { i.l.Info(msg, args...) }
func (i *Impl) Warn(msg string, args ...any)  { i.l.Warn(msg, args...) }
func (i *Impl) Error(msg string, args ...any) { i.l.Error(msg, args...) }

func (i *Impl) With(args ...any) Logger {
	return &Impl{l: i.l.With(args...)}
}

func (i *Impl) WithComponent(name string) Logger {
	return i.With("component", name)
}

func (i *Impl) Slog() *slog.Logger {
	return i.l
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
