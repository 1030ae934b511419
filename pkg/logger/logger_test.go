package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json format by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := New(WithOutput(&buf))
		log.Info("hello", slog.String("key", "value"))

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "value", record["key"])
	})

	t.Run("text format", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := New(WithOutput(&buf), WithFormat(FormatText))
		log.Info("hello")

		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := New(WithOutput(&buf), WithLevel(slog.LevelWarn))

		log.Info("dropped")
		assert.Empty(t, buf.String())

		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("service attr on every record", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := New(WithOutput(&buf), WithService("identity"))
		log.Info("hello")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "identity", record["service"])
	})

	t.Run("development mode", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := New(WithOutput(&buf), WithDevelopment())
		log.Debug("debug line")

		assert.True(t, strings.Contains(buf.String(), "debug line"))
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			New(WithFormat(Format("xml")))
		})
	})

	t.Run("nil output ignored", func(t *testing.T) {
		t.Parallel()

		assert.NotPanics(t, func() {
			log := New(WithOutput(nil))
			_ = log.Enabled(context.Background(), slog.LevelInfo)
		})
	})
}

func TestAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(WithOutput(&buf))
	log.Info("event",
		UserID("u-1"),
		Provider("github"),
		Component("auth"),
		Purpose("EMAIL_VERIFICATION"),
		Count(7),
	)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "u-1", record["user_id"])
	assert.Equal(t, "github", record["provider"])
	assert.Equal(t, "auth", record["component"])
	assert.Equal(t, "EMAIL_VERIFICATION", record["purpose"])
	assert.Equal(t, float64(7), record["count"])
}
