package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/dbx"
)

// Repository is the storage of journal rows.
type Repository interface {
	Insert(ctx context.Context, e *Entry) error
	UpsertStoredFile(ctx context.Context, e *Entry) error
	Recent(ctx context.Context, limit int) ([]*Entry, error)
}

// SQLRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

func (r *SQLRepository) Insert(ctx context.Context, e *Entry) error {
	query := r.dialect.Rebind(`
		INSERT INTO uploads (id, filename, target_dir, path, bytes, checksum, status, message, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Filename, e.TargetDir, e.Path, e.Bytes, e.Checksum, e.Status, e.Message,
		e.StartedAt.UnixMilli(), e.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert upload: %w", err)
	}
	return nil
}

// UpsertStoredFile points the path of e at this upload.
func (r *SQLRepository) UpsertStoredFile(ctx context.Context, e *Entry) error {
	query := r.dialect.Rebind(`
		INSERT INTO stored_files (path, bytes, checksum, upload_id, uploaded_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (path) DO UPDATE SET
			bytes = excluded.bytes,
			checksum = excluded.checksum,
			upload_id = excluded.upload_id,
			uploaded_at = excluded.uploaded_at`)

	_, err := r.db.ExecContext(ctx, query, e.Path, e.Bytes, e.Checksum, e.ID, e.FinishedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to upsert stored file: %w", err)
	}
	return nil
}

// Recent returns at most limit uploads, newest first.
func (r *SQLRepository) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	query := r.dialect.Rebind(`
		SELECT id, filename, target_dir, path, bytes, checksum, status, message, started_at, finished_at
		FROM uploads
		ORDER BY finished_at DESC, id
		LIMIT ?`)

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select uploads: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		var (
			e                 Entry
			started, finished int64
		)
		if err := rows.Scan(&e.ID, &e.Filename, &e.TargetDir, &e.Path, &e.Bytes, &e.Checksum, &e.Status, &e.Message, &started, &finished); err != nil {
			return nil, err
		}
		e.StartedAt = time.UnixMilli(started).UTC()
		e.FinishedAt = time.UnixMilli(finished).UTC()
		result = append(result, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
