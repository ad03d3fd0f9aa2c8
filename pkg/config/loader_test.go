package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lcflow/accesskit/pkg/config"
)

func TestLoad(t *testing.T) {
	t.Run("parses env into struct", func(t *testing.T) {
		type storeConfig struct {
			URL      string `env:"TEST_STORE_URL" envDefault:"mongodb://localhost:27017"`
			Database string `env:"TEST_STORE_DB" envDefault:"access"`
		}
		t.Setenv("TEST_STORE_URL", "mongodb://db:27017")

		var cfg storeConfig
		require.NoError(t, config.Load(&cfg))
		assert.Equal(t, "mongodb://db:27017", cfg.URL)
		assert.Equal(t, "access", cfg.Database)
	})

	t.Run("caches per type", func(t *testing.T) {
		type cachedConfig struct {
			Value string `env:"TEST_CACHED_VALUE" envDefault:"first"`
		}
		var first cachedConfig
		require.NoError(t, config.Load(&first))
		assert.Equal(t, "first", first.Value)

		// Changing the environment after the first load has no effect.
		t.Setenv("TEST_CACHED_VALUE", "second")
		var again cachedConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, "first", again.Value)
	})

	t.Run("nil pointer", func(t *testing.T) {
		type nilConfig struct{}
		var target *nilConfig
		err := config.Load(target)
		assert.ErrorIs(t, err, config.ErrNilPointer)
	})

	t.Run("missing required variable", func(t *testing.T) {
		type requiredConfig struct {
			Token string `env:"TEST_REQUIRED_TOKEN,required"`
		}
		var cfg requiredConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})
}

func TestMustLoad(t *testing.T) {
	type panicConfig struct {
		Token string `env:"TEST_MUST_TOKEN,required"`
	}
	assert.Panics(t, func() {
		var cfg panicConfig
		config.MustLoad(&cfg)
	})
}
