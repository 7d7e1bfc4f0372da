// Package config assembles the predictupload runtime settings.
//
// Sources are applied in order, later ones winning: built-in defaults, a
// JSON file named with -c/-config, the PREDICTUPLOAD_TOKEN environment
// variable, and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/predictupload/internal/common"
	"github.com/dmitrijs2005/predictupload/internal/models"
	"github.com/dmitrijs2005/predictupload/internal/upload"
)

const (
	PresignBackend = "backend"
	PresignS3      = "s3"

	VersionCount   = "count"
	VersionRecords = "records"
	VersionRedis   = "redis"

	RecordsFromBackend  = "backend"
	RecordsFromPostgres = "postgres"

	TokenEnv = "PREDICTUPLOAD_TOKEN"
)

// Config holds runtime settings for the predictupload CLI.
type Config struct {
	BackendURL string
	AuthToken  string

	ProjectID       string
	TaskType        string
	ExpectedColumns []string

	MaxFileSize       int64
	UploadConcurrency int
	RequestTimeout    time.Duration

	// PresignMode selects who signs the PUT URLs: the backend or a local
	// S3 client holding credentials.
	PresignMode string
	// VersionStrategy selects the one way the next version is resolved.
	VersionStrategy string
	RecordsSource   string

	DatabaseDSN string
	// MigrateRecords creates the deploy_data table before it is read.
	MigrateRecords bool
	RedisAddr      string

	S3AccessKey    string
	S3SecretKey    string
	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string

	HistoryPath string
	LogLevel    string
	LogJSON     bool

	// Verify lists the uploaded folder after a successful upload.
	Verify bool
	// ShowHistory prints the recorded uploads and exits.
	ShowHistory bool

	// Task is TaskType parsed by Validate.
	Task models.TaskKind
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BackendURL = "http://127.0.0.1:8080"
	c.MaxFileSize = common.MaxStagedFileSize
	c.UploadConcurrency = upload.DefaultConcurrency
	c.RequestTimeout = 30 * time.Second
	c.PresignMode = PresignBackend
	c.VersionStrategy = VersionCount
	c.RecordsSource = RecordsFromBackend
	c.S3Region = "us-east-1"
	c.HistoryPath = ".predictupload/history.db"
	c.LogLevel = "info"
}

// LoadConfig constructs a Config from all sources. Malformed input panics,
// as the flag and JSON parsers do.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(cfg *Config) {
	if v := os.Getenv(TokenEnv); v != "" {
		cfg.AuthToken = v
	}
}

// NeedsBackend reports whether any selected component talks to the REST
// backend.
func (c *Config) NeedsBackend() bool {
	return c.PresignMode == PresignBackend ||
		c.VersionStrategy == VersionCount ||
		(c.VersionStrategy == VersionRecords && c.RecordsSource == RecordsFromBackend) ||
		c.Verify
}

// Validate checks the combination of settings and fills Task.
// History listing needs nothing but HistoryPath.
func (c *Config) Validate() error {
	var errs []error

	if c.ShowHistory {
		if c.HistoryPath == "" {
			return errors.New("history path is empty")
		}
		return nil
	}

	if c.ProjectID == "" {
		errs = append(errs, errors.New("project id is required"))
	}

	task, err := models.ParseTaskType(c.TaskType)
	if err != nil {
		errs = append(errs, err)
	}
	c.Task = task
	if task == models.TaskTabular && len(c.ExpectedColumns) == 0 {
		errs = append(errs, errors.New("expected columns are required for tabular tasks"))
	}

	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize))
	}
	if c.UploadConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("upload concurrency must be positive, got %d", c.UploadConcurrency))
	}

	switch c.PresignMode {
	case PresignBackend:
	case PresignS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("s3 presigning needs a bucket"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown presign mode %q", c.PresignMode))
	}

	switch c.VersionStrategy {
	case VersionCount, VersionRecords:
	case VersionRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis version strategy needs a redis address"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown version strategy %q", c.VersionStrategy))
	}

	switch c.RecordsSource {
	case RecordsFromBackend:
	case RecordsFromPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("postgres records source needs a database dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown records source %q", c.RecordsSource))
	}

	if c.NeedsBackend() && c.BackendURL == "" {
		errs = append(errs, errors.New("backend url is required"))
	}

	return errors.Join(errs...)
}
