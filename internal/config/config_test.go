package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)

		require.Equal(t, 3009, cfg.Server.Port)
		require.Equal(t, "yahoo", cfg.Prices.Provider)
		require.NoError(t, cfg.Validate())
	})

	t.Run("reads yaml values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(
			"server:\n  port: 8080\nprices:\n  provider: csv\n  csv_dir: ./bars\n  sqlite_path: ./cache.db\n",
		), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)

		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, "csv", cfg.Prices.Provider)
		require.Equal(t, "./bars", cfg.Prices.CSVDir)
		require.Equal(t, "./cache.db", cfg.Prices.SQLitePath)
		require.NoError(t, cfg.Validate())
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("DIPBACKTEST_PORT", "9000")
		t.Setenv("DIPBACKTEST_PRICE_PROVIDER", "csv")
		t.Setenv("DIPBACKTEST_PRICE_CSV_DIR", "/data/bars")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)

		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, "csv", cfg.Prices.Provider)
		require.Equal(t, "/data/bars", cfg.Prices.CSVDir)
	})

	t.Run("rejects unknown providers", func(t *testing.T) {
		t.Setenv("DIPBACKTEST_PRICE_PROVIDER", "carrier-pigeon")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		require.Error(t, cfg.Validate())
	})

	t.Run("csv provider requires a directory", func(t *testing.T) {
		t.Setenv("DIPBACKTEST_PRICE_PROVIDER", "csv")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		require.Error(t, cfg.Validate())
	})
}
