package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults apply when the file is missing", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "application.yaml"))
		require.NoError(t, err)

		assert.Equal(t, ":8181", cfg.Addr)
		assert.True(t, cfg.Frontend.Enabled)
		assert.Equal(t, "America/Vancouver", cfg.Calendar.Timezone)
		assert.Equal(t, "-//coursecal//course schedule converter//EN", cfg.Calendar.ProductID)
		assert.Equal(t, "./config/breaks.yaml", cfg.Breaks.File)
	})

	t.Run("yaml file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "application.yaml")
		content := `
addr: ":9000"
frontend:
  enabled: false
calendar:
  timezone: America/Toronto
breaks:
  file: /etc/coursecal/breaks.yaml
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.False(t, cfg.Frontend.Enabled)
		assert.Equal(t, "America/Toronto", cfg.Calendar.Timezone)
		assert.Equal(t, "/etc/coursecal/breaks.yaml", cfg.Breaks.File)
		// Untouched keys keep their defaults.
		assert.Equal(t, "-//coursecal//course schedule converter//EN", cfg.Calendar.ProductID)
	})

	t.Run("environment overrides file and defaults", func(t *testing.T) {
		t.Setenv("COURSECAL_ADDR", ":7777")
		t.Setenv("COURSECAL_CALENDAR_TIMEZONE", "America/Edmonton")

		cfg, err := Load(filepath.Join(t.TempDir(), "application.yaml"))
		require.NoError(t, err)
		assert.Equal(t, ":7777", cfg.Addr)
		assert.Equal(t, "America/Edmonton", cfg.Calendar.Timezone)
	})
}
