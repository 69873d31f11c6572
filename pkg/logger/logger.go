// Package logger configures the process-wide slog logger and carries a
// request-scoped logger through context.
//
//	log := logger.WithCtx(r.Context())
//	log.Info("product created", "product_id", p.ID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/shashiranjanraj/catalog/config"
)

var (
	mu sync.RWMutex
	// L is the base logger. Use Base() from code that may race with Attach.
	L *slog.Logger
)

func init() {
	L = New(config.AppEnv(), os.Stdout)
	slog.SetDefault(L)
}

// New builds a logger for env: JSON at info level for production, text at
// debug level everywhere else.
func New(env string, w io.Writer) *slog.Logger {
	return slog.New(newHandler(env, w))
}

func newHandler(env string, w io.Writer) slog.Handler {
	switch env {
	case "production", "prod":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}

// Base returns the current base logger.
func Base() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return L
}

// Attach fans every subsequent record out to h in addition to the current
// handler.
func Attach(h slog.Handler) {
	mu.Lock()
	defer mu.Unlock()
	L = slog.New(NewMultiHandler(L.Handler(), h))
	slog.SetDefault(L)
}

type ctxKey struct{}

// WithCtx returns the logger injected by the request logger middleware, or
// the base logger.
func WithCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
			return log
		}
	}
	return Base()
}

// InjectLogger stores log in ctx.
func InjectLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

func Debug(msg string, args ...any) { Base().Debug(msg, args...) }
func Info(msg string, args ...any)  { Base().Info(msg, args...) }
func Warn(msg string, args ...any)  { Base().Warn(msg, args...) }
func Error(msg string, args ...any) { Base().Error(msg, args...) }
