package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all common flags",
			args: []string{"cmd", "-b", "http://api", "-p", "proj", "-task", "tabular", "-columns", "a, b,,c",
				"-n", "3", "-timeout", "2s", "-verify", "data.csv"},
			expected: &Config{
				BackendURL:        "http://api",
				ProjectID:         "proj",
				TaskType:          "tabular",
				ExpectedColumns:   []string{"a", "b", "c"},
				UploadConcurrency: 3,
				RequestTimeout:    2 * time.Second,
				Verify:            true,
			},
		},
		{
			name: "storage backends",
			args: []string{"cmd", "-presign", "s3", "-s3-bucket", "bkt", "-s3-endpoint=http://minio:9000",
				"-version-strategy", "redis", "-r", "localhost:6379", "-records-source", "postgres", "-d", "postgres://db", "-migrate-records"},
			expected: &Config{
				PresignMode:     "s3",
				S3Bucket:        "bkt",
				S3BaseEndpoint:  "http://minio:9000",
				VersionStrategy: "redis",
				RedisAddr:       "localhost:6379",
				RecordsSource:   "postgres",
				DatabaseDSN:     "postgres://db",
				MigrateRecords:  true,
			},
		},
		{
			name:     "history mode",
			args:     []string{"cmd", "-history", "-history-path", "/tmp/h.db", "-log-json"},
			expected: &Config{ShowHistory: true, HistoryPath: "/tmp/h.db", LogJSON: true},
		},
		{name: "bad concurrency", args: []string{"cmd", "-n", "many"}, expectPanic: true},
		{name: "bad timeout", args: []string{"cmd", "-timeout", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestFiles(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"cmd", "-c", "cfg.json", "-p", "proj", "dog.jpg", "-verify", "cat.png", "--", "-odd.png"}
	assert.Equal(t, []string{"dog.jpg", "cat.png", "-odd.png"}, Files())
}

func TestSplitColumns(t *testing.T) {
	assert.Nil(t, splitColumns(""))
	assert.Equal(t, []string{"a", "b"}, splitColumns(" a ,b, "))
}
