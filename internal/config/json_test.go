package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

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

func Test_parseJson(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := writeTempJSON(t, dir, "flag.json", map[string]any{
		"backend_url":        "https://api.example",
		"project_id":         "proj",
		"task_type":          "tabular_classification",
		"expected_columns":   []string{"age", "income"},
		"upload_concurrency": 4,
		"request_timeout":    int64(3 * time.Second),
		"presign_mode":       "s3",
		"s3_bucket":          "predict",
		"log_json":           true,
	})

	t.Run("loads from -config", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://api.example", cfg.BackendURL)
		assert.Equal(t, "proj", cfg.ProjectID)
		assert.Equal(t, "tabular_classification", cfg.TaskType)
		assert.Equal(t, []string{"age", "income"}, cfg.ExpectedColumns)
		assert.Equal(t, 4, cfg.UploadConcurrency)
		assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "s3", cfg.PresignMode)
		assert.Equal(t, "predict", cfg.S3Bucket)
		assert.True(t, cfg.LogJSON)

		// untouched by the file
		assert.Equal(t, VersionCount, cfg.VersionStrategy)
		assert.Equal(t, int64(20<<20), cfg.MaxFileSize)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ProjectID: "keep", RequestTimeout: 42 * time.Second}
		parseJson(cfg)

		assert.Equal(t, "keep", cfg.ProjectID)
		assert.Equal(t, 42*time.Second, cfg.RequestTimeout)
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(dir, "nope.json")}
		require.Panics(t, func() { parseJson(&Config{}) })
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}
		require.Panics(t, func() { parseJson(&Config{}) })
	})
}
