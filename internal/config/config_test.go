package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaultsWhenUnset(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("WINDOW_SECONDS", "")
	t.Setenv("WINDOW_COUNT", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, uint32(60), cfg.WindowSeconds)
	require.Equal(t, uint32(24*60), cfg.WindowCount)
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("WINDOW_SECONDS", "30")
	t.Setenv("WINDOW_COUNT", "2880")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, uint32(30), cfg.WindowSeconds)
	require.Equal(t, uint32(2880), cfg.WindowCount)
}

func TestLoadRejectsUnparseableWindow(t *testing.T) {
	t.Setenv("WINDOW_SECONDS", "not-a-number")

	_, err := Load()
	require.ErrorIs(t, err, ErrConfig)
}
