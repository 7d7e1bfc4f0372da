package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/predictupload/internal/flagx"
	"github.com/dmitrijs2005/predictupload/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations go
// through timex.Duration so "30s" and integer nanoseconds both work.
type JsonConfig struct {
	BackendURL        string         `json:"backend_url"`
	AuthToken         string         `json:"auth_token"`
	ProjectID         string         `json:"project_id"`
	TaskType          string         `json:"task_type"`
	ExpectedColumns   []string       `json:"expected_columns"`
	MaxFileSize       int64          `json:"max_file_size"`
	UploadConcurrency int            `json:"upload_concurrency"`
	RequestTimeout    timex.Duration `json:"request_timeout"`
	PresignMode       string         `json:"presign_mode"`
	VersionStrategy   string         `json:"version_strategy"`
	RecordsSource     string         `json:"records_source"`
	DatabaseDSN       string         `json:"database_dsn"`
	MigrateRecords    bool           `json:"migrate_records"`
	RedisAddr         string         `json:"redis_addr"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	HistoryPath       string         `json:"history_path"`
	LogLevel          string         `json:"log_level"`
	LogJSON           bool           `json:"log_json"`
}

// parseJson overlays cfg with the fields present in the file named by
// -c/-config. Absent or zero fields keep their current value. Read and
// decode errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.BackendURL, jc.BackendURL)
	setString(&cfg.AuthToken, jc.AuthToken)
	setString(&cfg.ProjectID, jc.ProjectID)
	setString(&cfg.TaskType, jc.TaskType)
	if len(jc.ExpectedColumns) > 0 {
		cfg.ExpectedColumns = jc.ExpectedColumns
	}
	if jc.MaxFileSize > 0 {
		cfg.MaxFileSize = jc.MaxFileSize
	}
	if jc.UploadConcurrency > 0 {
		cfg.UploadConcurrency = jc.UploadConcurrency
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	setString(&cfg.PresignMode, jc.PresignMode)
	setString(&cfg.VersionStrategy, jc.VersionStrategy)
	setString(&cfg.RecordsSource, jc.RecordsSource)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	if jc.MigrateRecords {
		cfg.MigrateRecords = true
	}
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.HistoryPath, jc.HistoryPath)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.LogJSON {
		cfg.LogJSON = true
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
