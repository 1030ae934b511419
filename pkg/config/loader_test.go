package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string        `env:"TEST_CFG_NAME,required"`
	Port    int           `env:"TEST_CFG_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"TEST_CFG_TIMEOUT" envDefault:"30s"`
}

func TestLoad(t *testing.T) {
	t.Run("populates from environment", func(t *testing.T) {
		t.Setenv("TEST_CFG_NAME", "identity")
		t.Setenv("TEST_CFG_PORT", "9090")

		var cfg testConfig
		require.NoError(t, Load(&cfg))
		assert.Equal(t, "identity", cfg.Name)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, 30*time.Second, cfg.Timeout)
	})

	t.Run("unparseable value", func(t *testing.T) {
		t.Setenv("TEST_CFG_NAME", "identity")
		t.Setenv("TEST_CFG_PORT", "not-a-number")

		var cfg testConfig
		err := Load(&cfg)
		assert.ErrorIs(t, err, ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		err := Load[testConfig](nil)
		assert.ErrorIs(t, err, ErrNilPointer)
	})
}

func TestMustLoad(t *testing.T) {
	t.Run("returns on success", func(t *testing.T) {
		t.Setenv("TEST_CFG_NAME", "identity")

		var cfg testConfig
		assert.NotPanics(t, func() { MustLoad(&cfg) })
		assert.Equal(t, "identity", cfg.Name)
	})

	t.Run("panics on failure", func(t *testing.T) {
		t.Setenv("TEST_CFG_NAME", "identity")
		t.Setenv("TEST_CFG_TIMEOUT", "not-a-duration")

		var cfg testConfig
		assert.Panics(t, func() { MustLoad(&cfg) })
	})
}
