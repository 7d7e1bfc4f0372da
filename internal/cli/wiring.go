package cli

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrijs2005/predictupload/internal/backend"
	"github.com/dmitrijs2005/predictupload/internal/config"
	"github.com/dmitrijs2005/predictupload/internal/deploydata"
	"github.com/dmitrijs2005/predictupload/internal/logging"
	"github.com/dmitrijs2005/predictupload/internal/presign"
	"github.com/dmitrijs2005/predictupload/internal/version"
)

// openPostgres and migrateDeployData are seams so tests do not need a
// database.
var (
	openPostgres      = deploydata.Open
	migrateDeployData = deploydata.Migrate
)

func (a *App) buildBroker(ctx context.Context) (presign.Broker, error) {
	if a.cfg.PresignMode == config.PresignS3 {
		return presign.NewS3Broker(ctx, presign.S3Options{
			AccessKey:    a.cfg.S3AccessKey,
			SecretKey:    a.cfg.S3SecretKey,
			Bucket:       a.cfg.S3Bucket,
			Region:       a.cfg.S3Region,
			BaseEndpoint: a.cfg.S3BaseEndpoint,
		})
	}
	return presign.NewBackendBroker(a.api), nil
}

// buildRecordsLister returns nil when no source is reachable. Version
// resolution then simply has one strategy less.
func (a *App) buildRecordsLister(ctx context.Context) version.RecordLister {
	if a.cfg.RecordsSource != config.RecordsFromPostgres {
		if a.api == nil {
			return nil
		}
		return a.api
	}

	db, err := openPostgres(ctx, a.cfg.DatabaseDSN)
	if err != nil {
		a.logger.Warn(ctx, "deploy-data database unavailable, records strategy disabled", "error", err)
		return nil
	}
	if a.cfg.MigrateRecords {
		if err := migrateDeployData(ctx, db); err != nil {
			a.logger.Warn(ctx, "deploy-data migration failed, records strategy disabled", "error", err)
			_ = db.Close()
			return nil
		}
	}
	a.closers = append(a.closers, db.Close)
	return deploydata.NewPostgresRepository(db)
}

// buildResolver returns a resolver holding exactly one strategy. A failing
// strategy yields version 1; there is no fall-through to another source.
func (a *App) buildResolver(ctx context.Context) *version.Resolver {
	var s version.Strategy
	switch a.cfg.VersionStrategy {
	case config.VersionRecords:
		if l := a.buildRecordsLister(ctx); l != nil {
			s = version.NewRecordsStrategy(l)
		}
	case config.VersionRedis:
		rdb := redis.NewClient(&redis.Options{Addr: a.cfg.RedisAddr})
		a.closers = append(a.closers, rdb.Close)
		s = version.NewRedisStrategy(rdb)
	default:
		if a.api != nil {
			s = version.NewCountStrategy(a.api)
		}
	}
	r := version.NewResolver(a.logger, compact(s)...)
	a.logger.Debug(ctx, "version strategy", "names", r.Names())
	return r
}

func compact(ss ...version.Strategy) []version.Strategy {
	out := make([]version.Strategy, 0, len(ss))
	for _, s := range ss {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func newBackend(cfg *config.Config, logger logging.Logger) *backend.Client {
	return backend.New(backend.Options{
		BaseURL: cfg.BackendURL,
		Token:   cfg.AuthToken,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
}
