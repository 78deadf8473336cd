package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 30000, cfg.Timeout)
	assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetAllowEmptyTokenSecret())
	assert.False(t, cfg.GetNoColor())
	assert.Equal(t, "header", cfg.OAuthPlacement)
	assert.True(t, cfg.IsDefault())
}

func TestConfig_Getters_NilDefaults(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.GetFollowRedirects())
	assert.True(t, cfg.GetValidateSSL())
	assert.False(t, cfg.GetAllowEmptyTokenSecret())
	assert.False(t, cfg.GetNoColor())
}

func TestFindAndLoadConfig(t *testing.T) {
	t.Run("no config file", func(t *testing.T) {
		cfg, err := FindAndLoadConfig(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.IsDefault())
	})

	t.Run("json", func(t *testing.T) {
		dir := t.TempDir()
		content := `{"timeout": 5000, "validateSSL": false, "headers": {"X-Api": "1"}, "oauthPlacement": "inline"}`
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".extapi.json"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 5000, cfg.Timeout)
		assert.False(t, cfg.GetValidateSSL())
		assert.True(t, cfg.GetFollowRedirects())
		assert.Equal(t, "1", cfg.Headers["X-Api"])
		assert.Equal(t, "inline", cfg.OAuthPlacement)
	})

	t.Run("yaml", func(t *testing.T) {
		dir := t.TempDir()
		content := `timeout: 2000
allowEmptyTokenSecret: true
historyFile: calls.db
variables:
  host: api.example.com
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extapi.yaml"), []byte(content), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 2000, cfg.Timeout)
		assert.True(t, cfg.GetAllowEmptyTokenSecret())
		assert.Equal(t, "calls.db", cfg.HistoryFile)
		assert.Equal(t, "api.example.com", cfg.Variables["host"])
	})

	t.Run("json wins over yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extapi.json"), []byte(`{"timeout": 1}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extapi.yaml"), []byte("timeout: 2\n"), 0644))

		cfg, err := FindAndLoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.Timeout)
	})

	t.Run("invalid json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extapi.json"), []byte(`{`), 0644))

		_, err := FindAndLoadConfig(dir)
		assert.Error(t, err)
	})

	t.Run("invalid placement", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extapi.json"), []byte(`{"oauthPlacement": "body"}`), 0644))

		_, err := FindAndLoadConfig(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oauthPlacement")
	})
}

func TestLoadConfig_ExplicitPathMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfig_Merge(t *testing.T) {
	base := DefaultConfig()
	base.Headers = map[string]string{"A": "1", "B": "1"}

	other := &Config{
		Timeout:     1000,
		ValidateSSL: BoolPtr(false),
		Headers:     map[string]string{"B": "2"},
		Output:      "json",
	}

	merged := base.Merge(other)
	assert.Equal(t, 1000, merged.Timeout)
	assert.False(t, merged.GetValidateSSL())
	assert.True(t, merged.GetFollowRedirects())
	assert.Equal(t, "json", merged.Output)
	assert.Equal(t, map[string]string{"A": "1", "B": "2"}, merged.Headers)

	// base is untouched
	assert.Equal(t, "1", base.Headers["B"])
	assert.Equal(t, 30000, base.Timeout)

	assert.Same(t, base, base.Merge(nil))
}

func TestConfig_SaveConfig(t *testing.T) {
	for _, name := range []string{"extapi.json", "extapi.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := DefaultConfig()
			cfg.Proxy = "http://proxy:8080"
			cfg.Headers = map[string]string{"Accept": "application/xml"}

			require.NoError(t, cfg.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestState(t *testing.T) {
	t.Run("missing file is empty state", func(t *testing.T) {
		s, err := LoadState(filepath.Join(t.TempDir(), "state.json"))
		require.NoError(t, err)
		assert.Empty(t, s.LastAPIFile)
	})

	t.Run("save and load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "state.json")
		require.NoError(t, (&State{LastAPIFile: "/tmp/x.api"}).Save(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"lastApiFile": "/tmp/x.api"`)

		s, err := LoadState(path)
		require.NoError(t, err)
		assert.Equal(t, "/tmp/x.api", s.LastAPIFile)
	})

	t.Run("state dir from environment", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(StateDirEnv, dir)

		path, err := StatePath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "state.json"), path)
	})
}
