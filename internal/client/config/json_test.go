package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"api_url": "https://www.example/api",
		"mode":    "production",
	})

	t.Run("loads from -config", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		require.NoError(t, parseJson(cfg, []string{"-config", path}))

		assert.Equal(t, "https://www.example/api", cfg.APIBaseURL)
		assert.Equal(t, ModeProduction, cfg.Mode)
		assert.Equal(t, "rentdesk.db", cfg.DBPath, "keys absent from the file keep their value")
	})

	t.Run("loads from -c=", func(t *testing.T) {
		cfg := &Config{}
		require.NoError(t, parseJson(cfg, []string{"-c=" + path}))
		assert.Equal(t, ModeProduction, cfg.Mode)
	})

	t.Run("no flag → no changes", func(t *testing.T) {
		cfg := &Config{Mode: ModeDevelopment, DBPath: "x.db"}
		require.NoError(t, parseJson(cfg, []string{"-u", "http://a/api"}))

		assert.Equal(t, &Config{Mode: ModeDevelopment, DBPath: "x.db"}, cfg)
	})

	t.Run("invalid JSON → error", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		err := parseJson(&Config{}, []string{"-config", bad})
		require.ErrorContains(t, err, "parse")
	})
}
