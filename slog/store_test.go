package slog_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/canonbase/canon"
	"github.com/canonbase/canon/mock"
	canonslog "github.com/canonbase/canon/slog"
	"github.com/stretchr/testify/assert"
)

func TestLoggingStore_Put(t *testing.T) {
	t.Parallel()

	t.Run("logs hash and size", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ContentStore{
			PutFn: func(content []byte) (string, error) {
				return "abc123", nil
			},
		}

		store := canonslog.NewLoggingStore(inner, logger)
		hash, err := store.Put([]byte("hello world"))

		assert.NoError(t, err)
		assert.Equal(t, "abc123", hash)
		output := buf.String()
		assert.Contains(t, output, "blob put")
		assert.Contains(t, output, "hash=abc123")
		assert.Contains(t, output, "size=11")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs put errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ContentStore{
			PutFn: func(content []byte) (string, error) {
				return "", errors.New("disk full")
			},
		}

		store := canonslog.NewLoggingStore(inner, logger)
		_, err := store.Put([]byte("content"))

		assert.Error(t, err)
		assert.Contains(t, buf.String(), `err="disk full"`)
	})
}

func TestLoggingStore_Get(t *testing.T) {
	t.Parallel()

	t.Run("logs hits", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ContentStore{
			GetFn: func(hash string) ([]byte, bool) {
				return []byte("stored content"), true
			},
		}

		store := canonslog.NewLoggingStore(inner, logger)
		content, ok := store.Get("abc123")

		assert.True(t, ok)
		assert.Equal(t, []byte("stored content"), content)
		output := buf.String()
		assert.Contains(t, output, "blob get")
		assert.Contains(t, output, "hash=abc123")
		assert.Contains(t, output, "hit=true")
	})

	t.Run("logs misses", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ContentStore{
			GetFn: func(hash string) ([]byte, bool) {
				return nil, false
			},
		}

		store := canonslog.NewLoggingStore(inner, logger)
		_, ok := store.Get("missing")

		assert.False(t, ok)
		assert.Contains(t, buf.String(), "hit=false")
	})
}

func TestLoggingStore_EvictToSize(t *testing.T) {
	t.Parallel()

	t.Run("logs eviction target", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ContentStore{
			EvictToSizeFn: func(maxBytes int64) error {
				return nil
			},
		}

		store := canonslog.NewLoggingStore(inner, logger)
		err := store.EvictToSize(1024)

		assert.NoError(t, err)
		output := buf.String()
		assert.Contains(t, output, "store eviction")
		assert.Contains(t, output, "maxBytes=1024")
	})
}

func TestLoggingStore_Delegates(t *testing.T) {
	t.Parallel()

	t.Run("has passes through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ContentStore{
			HasFn: func(hash string) bool {
				return hash == "present"
			},
		}

		store := canonslog.NewLoggingStore(inner, logger)

		assert.True(t, store.Has("present"))
		assert.False(t, store.Has("absent"))
	})

	t.Run("counters passes through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		inner := &mock.ContentStore{
			CountersFn: func() canon.StoreCounters {
				return canon.StoreCounters{Puts: 4, Hits: 9, Misses: 1}
			},
		}

		store := canonslog.NewLoggingStore(inner, logger)
		counters := store.Counters()

		assert.Equal(t, int64(4), counters.Puts)
		assert.Equal(t, int64(9), counters.Hits)
		assert.Equal(t, int64(1), counters.Misses)
	})
}
