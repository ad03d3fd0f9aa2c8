package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcflow/accesskit/pkg/logger"
)

func TestNew(t *testing.T) {
	t.Run("creates JSON logger by default", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		require.NotNil(t, log)
		log.Info("hello")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text format option", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithFormat(logger.FormatText),
		)
		log.Info("hello")
		out := buf.String()
		assert.Contains(t, out, "INFO")
		assert.Contains(t, out, "hello")
	})

	t.Run("includes static attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithAttr(slog.String("service", "access")),
		)
		log.Info("msg")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "access", entry["service"])
	})

	t.Run("extracts from context", func(t *testing.T) {
		buf := &bytes.Buffer{}
		type key string
		ctxKey := key("actor")
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextExtractors(func(ctx context.Context) (slog.Attr, bool) {
				if v := ctx.Value(ctxKey); v != nil {
					return slog.String("actor_id", v.(string)), true
				}
				return slog.Attr{}, false
			}),
		)
		ctx := context.WithValue(context.Background(), ctxKey, "user-42")
		log.InfoContext(ctx, "context msg")
		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "user-42", entry["actor_id"])
	})

	t.Run("development defaults", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(
			logger.WithDevelopment("access"),
			logger.WithOutput(buf),
		)
		log.Debug("verbose")
		assert.Contains(t, buf.String(), "verbose")
		assert.Contains(t, buf.String(), "service=access")
	})
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	t.Run("error nil yields empty attr", func(t *testing.T) {
		t.Parallel()
		assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
	})

	t.Run("empty ids yield empty attrs", func(t *testing.T) {
		t.Parallel()
		assert.True(t, logger.UserID("").Equal(slog.Attr{}))
		assert.True(t, logger.OrganizationID("").Equal(slog.Attr{}))
		assert.True(t, logger.Role("").Equal(slog.Attr{}))
	})

	t.Run("keys are stable", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "user_id", logger.UserID("u1").Key)
		assert.Equal(t, "actor_id", logger.ActorID("u2").Key)
		assert.Equal(t, "organization_id", logger.OrganizationID("org").Key)
		assert.Equal(t, "role_id", logger.RoleID("r1").Key)
		assert.Equal(t, "step", logger.Step(3).Key)
	})
}
