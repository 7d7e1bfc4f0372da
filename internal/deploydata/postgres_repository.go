// Package deploydata reads deploy-data records straight from the backend's
// Postgres database. It is the alternative to the REST listing when the CLI
// runs next to the database.
package deploydata

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/predictupload/internal/dbx"
	"github.com/dmitrijs2005/predictupload/internal/deploydata/migrations"
	"github.com/dmitrijs2005/predictupload/internal/models"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Open connects to Postgres through the pgx stdlib driver.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	return dbx.Open(ctx, "pgx", dsn)
}

// Migrate creates the deploy_data table if it is missing.
func Migrate(ctx context.Context, db *sql.DB) error {
	return dbx.Migrate(ctx, db, goose.DialectPostgres, migrations.FS)
}

// ListDeployData returns the project's records, newest first.
func (r *PostgresRepository) ListDeployData(ctx context.Context, projectID string) ([]models.DeployRecord, error) {
	query := `SELECT id, project_id, storage_path, created_at
		FROM deploy_data
		WHERE project_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var out []models.DeployRecord
	for rows.Next() {
		var rec models.DeployRecord
		if err := rows.Scan(&rec.ID, &rec.ProjectID, &rec.StoragePath, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan deploy_data: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate deploy_data: %w", err)
	}
	return out, nil
}
