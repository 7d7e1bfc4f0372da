package config

import (
	"flag"
	"os"
	"strings"

	"github.com/dmitrijs2005/predictupload/internal/flagx"
)

// FlagSpec lists every flag parseFlags understands. Anything else on the
// command line that is not a flag value is a file to stage.
var FlagSpec = flagx.Spec{
	Value: []string{
		"-b", "-t", "-p", "-task", "-columns", "-max-size", "-n", "-timeout",
		"-presign", "-version-strategy", "-records-source", "-d", "-r",
		"-s3-access-key", "-s3-secret-key", "-s3-bucket", "-s3-region", "-s3-endpoint",
		"-history-path", "-l",
	},
	Bool: []string{"-log-json", "-verify", "-history"},
}

// parseFlags populates Config fields from command-line flags.
//
//	-b string   backend base URL
//	-t string   bearer token
//	-p string   project id
//	-task       task type (image_classification, tabular_regression, ...)
//	-columns    expected columns, comma separated
//	-n int      parallel uploads
//	-timeout    per-request timeout, e.g. 30s
//	-verify     list the uploaded folder afterwards
//	-history    print the upload history and exit
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], FlagSpec)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BackendURL, "b", cfg.BackendURL, "backend base URL")
	fs.StringVar(&cfg.AuthToken, "t", cfg.AuthToken, "bearer token")
	fs.StringVar(&cfg.ProjectID, "p", cfg.ProjectID, "project id")
	fs.StringVar(&cfg.TaskType, "task", cfg.TaskType, "task type")
	columns := fs.String("columns", strings.Join(cfg.ExpectedColumns, ","), "expected columns, comma separated")
	fs.Int64Var(&cfg.MaxFileSize, "max-size", cfg.MaxFileSize, "files of this many bytes or more are rejected")
	fs.IntVar(&cfg.UploadConcurrency, "n", cfg.UploadConcurrency, "parallel uploads")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "per-request timeout")

	fs.StringVar(&cfg.PresignMode, "presign", cfg.PresignMode, "presign mode: backend or s3")
	fs.StringVar(&cfg.VersionStrategy, "version-strategy", cfg.VersionStrategy, "version strategy: count, records or redis")
	fs.StringVar(&cfg.RecordsSource, "records-source", cfg.RecordsSource, "deploy-data records source: backend or postgres")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "postgres DSN for deploy-data records")
	fs.BoolVar(&cfg.MigrateRecords, "migrate-records", cfg.MigrateRecords, "create the deploy_data table if it is missing")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for the version counter")

	fs.StringVar(&cfg.S3AccessKey, "s3-access-key", cfg.S3AccessKey, "S3 access key")
	fs.StringVar(&cfg.S3SecretKey, "s3-secret-key", cfg.S3SecretKey, "S3 secret key")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "S3 endpoint for S3-compatible storage")

	fs.StringVar(&cfg.HistoryPath, "history-path", cfg.HistoryPath, "upload history database file")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log as JSON")
	fs.BoolVar(&cfg.Verify, "verify", cfg.Verify, "list the uploaded folder after upload")
	fs.BoolVar(&cfg.ShowHistory, "history", cfg.ShowHistory, "print upload history and exit")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.ExpectedColumns = splitColumns(*columns)
}

// Files returns the positional arguments: the paths to stage.
func Files() []string {
	return flagx.Positional(os.Args[1:], FlagSpec, flagx.ConfigFileSpec)
}

func splitColumns(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
