package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SELAH_BACKEND_URL", "")
	t.Setenv("SELAH_BACKEND_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.BackendConfigured())
	assert.Equal(t, "127.0.0.1:8787", cfg.CallbackAddr)
	assert.Equal(t, 25, cfg.DefaultMinutes)
	assert.False(t, cfg.Debug)
}

func TestLoadBackend(t *testing.T) {
	t.Setenv("SELAH_BACKEND_URL", "https://example.supabase.co")
	t.Setenv("SELAH_BACKEND_KEY", "anon-key")
	t.Setenv("SELAH_DEFAULT_MINUTES", "40")
	t.Setenv("SELAH_DEBUG", "1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.BackendConfigured())
	assert.Equal(t, 40, cfg.DefaultMinutes)
	assert.True(t, cfg.Debug)
}

func TestValidatePairing(t *testing.T) {
	t.Setenv("SELAH_BACKEND_URL", "https://example.supabase.co")
	t.Setenv("SELAH_BACKEND_KEY", "")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SELAH_BACKEND_URL", "")
	t.Setenv("SELAH_BACKEND_KEY", "anon-key")
	_, err = Load()
	assert.Error(t, err)
}

func TestValidateMinutesRange(t *testing.T) {
	t.Setenv("SELAH_BACKEND_URL", "")
	t.Setenv("SELAH_BACKEND_KEY", "")

	t.Setenv("SELAH_DEFAULT_MINUTES", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SELAH_DEFAULT_MINUTES", "241")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("SELAH_DEFAULT_MINUTES", "240")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 240, cfg.DefaultMinutes)
}

func TestMalformedIntFallsBack(t *testing.T) {
	t.Setenv("SELAH_BACKEND_URL", "")
	t.Setenv("SELAH_BACKEND_KEY", "")
	t.Setenv("SELAH_DEFAULT_MINUTES", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.DefaultMinutes)
}
