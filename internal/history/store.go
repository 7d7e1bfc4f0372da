// Package history keeps a local SQLite log of completed uploads so the CLI
// can show what was sent where.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/predictupload/internal/dbx"
	"github.com/dmitrijs2005/predictupload/internal/filex"
	"github.com/dmitrijs2005/predictupload/internal/history/migrations"
	"github.com/dmitrijs2005/predictupload/internal/models"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Entry is one recorded upload.
type Entry struct {
	ID        int64
	ProjectID string
	Version   int
	Prefix    string
	CreatedAt time.Time
	Files     []File
}

// File is one object written by an upload.
type File struct {
	Name string
	Key  string
	Size int64
}

type Store struct {
	db *sql.DB
}

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the history database at path and applies
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return nil, err
	}
	return OpenDSN(ctx, "file:"+abs)
}

// OpenDSN is Open for an explicit modernc sqlite DSN.
func OpenDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := dbx.Open(ctx, "sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection also keeps a
	// ":memory:" database alive for the lifetime of the store.
	db.SetMaxOpenConns(1)

	if err := dbx.Migrate(ctx, db, goose.DialectSQLite3, migrations.FS); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a completed upload together with its files.
func (s *Store) Record(ctx context.Context, c models.Completed) (int64, error) {
	at := c.At
	if at.IsZero() {
		at = time.Now()
	}

	var id int64
	err := dbx.WithTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO uploads (project_id, version, prefix, file_count, created_at) VALUES (?, ?, ?, ?, ?)`,
			c.ProjectID, c.Version, c.Prefix, len(c.Files), at.UTC().Format(time.RFC3339Nano))
		if err != nil {
			return fmt.Errorf("failed to insert upload: %w", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read upload id: %w", err)
		}

		for i, f := range c.Files {
			key := c.Keys[f.Name]
			if key == "" {
				key = c.Prefix + f.Name
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO upload_files (upload_id, position, name, object_key, size) VALUES (?, ?, ?, ?, ?)`,
				id, i, f.Name, key, f.Size); err != nil {
				return fmt.Errorf("failed to insert upload file %s: %w", f.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns the uploads of projectID, newest first. An empty projectID
// lists every project.
func (s *Store) List(ctx context.Context, projectID string) ([]Entry, error) {
	query := `SELECT id, project_id, version, prefix, created_at FROM uploads`
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select uploads: %w", err)
	}

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			at string
		)
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.Version, &e.Prefix, &at); err != nil {
			rows.Close()
			return nil, err
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339Nano, at); err != nil {
			rows.Close()
			return nil, fmt.Errorf("upload %d: bad created_at %q: %w", e.ID, at, err)
		}
		out = append(out, e)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	// Files are loaded after the uploads cursor is closed: the store runs on
	// a single connection.
	for i := range out {
		if out[i].Files, err = s.files(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) files(ctx context.Context, uploadID int64) ([]File, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, object_key, size FROM upload_files WHERE upload_id = ? ORDER BY position`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("failed to select upload files: %w", err)
	}
	defer rows.Close()

	var out []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.Name, &f.Key, &f.Size); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}
