package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/catalog/pkg/logger"
)

type fakeCollection struct {
	mu   sync.Mutex
	docs []logger.LogEntry
}

func (f *fakeCollection) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(logger.LogEntry))
	}
	return &mongo.InsertManyResult{}, nil
}

func TestNewPicksHandlerByEnv(t *testing.T) {
	var buf bytes.Buffer
	logger.New("production", &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	logger.New("local", &buf).Debug("dev line")
	assert.Contains(t, buf.String(), "msg=\"dev line\"")
}

func TestWithCtx(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New("production", &buf).With("request_id", "abc")

	ctx := logger.InjectLogger(context.Background(), l)
	logger.WithCtx(ctx).Info("tagged")

	assert.Contains(t, buf.String(), `"request_id":"abc"`)
	assert.Same(t, logger.Base(), logger.WithCtx(context.Background()))
}

func TestMongoHandlerFlushesOnClose(t *testing.T) {
	col := &fakeCollection{}
	h := logger.NewMongoHandler(col, slog.LevelInfo)

	log := slog.New(h).With("request_id", "r-1")
	log.Debug("dropped by level")
	log.WithGroup("product").Info("created", "id", 7)
	h.Close()
	h.Close()

	col.mu.Lock()
	defer col.mu.Unlock()
	require.Len(t, col.docs, 1)
	assert.Equal(t, "created", col.docs[0].Msg)
	assert.Equal(t, "r-1", col.docs[0].RequestID)
	assert.EqualValues(t, 7, col.docs[0].Attrs["product.id"])
}

func TestMultiHandlerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	m := logger.NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	l := slog.New(m)

	l.Info("info only")
	l.Warn("both")

	assert.Contains(t, a.String(), "info only")
	assert.NotContains(t, b.String(), "info only")
	assert.Contains(t, b.String(), "both")
}
