package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/dmitrijs2005/gophdrive/internal/logging"
	"github.com/dmitrijs2005/gophdrive/internal/server/metrics"
	"github.com/dmitrijs2005/gophdrive/internal/server/migrations"
	"github.com/dmitrijs2005/gophdrive/internal/server/upload"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// writeTimeout bounds a journal write; it is detached from the upload
// context so aborted streams are still recorded.
const writeTimeout = 5 * time.Second

var (
	openDB = sql.Open

	// gooseUpContext is a seam for testing goose.UpContext.
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}
)

// Journal records upload sessions into a SQL database.
type Journal struct {
	db      *sql.DB
	dialect dbx.Dialect
	logger  logging.Logger
}

// RunMigrations applies the embedded schema to db.
func RunMigrations(ctx context.Context, db *sql.DB, dialect dbx.Dialect) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect.GooseDialect()); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// Open connects to dsn, migrates the schema and returns a ready Journal.
// PostgreSQL URLs use pgx, anything else is an SQLite database file.
func Open(ctx context.Context, dsn string, logger logging.Logger) (*Journal, error) {
	dialect := dbx.DetectDialect(dsn)

	db, err := openDB(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	if err := RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}

	// sqlite allows one writer at a time
	if dialect == dbx.SQLite {
		db.SetMaxOpenConns(1)
	}

	return New(db, dialect, logger), nil
}

// New wraps an already migrated database.
func New(db *sql.DB, dialect dbx.Dialect, logger logging.Logger) *Journal {
	return &Journal{db: db, dialect: dialect, logger: logger.With("module", "journal")}
}

// Record stores e, and for a completed upload also the stored file, in one
// transaction.
func (j *Journal) Record(ctx context.Context, e *Entry) error {
	return dbx.WithTx(ctx, j.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLRepository(tx, j.dialect)
		if err := repo.Insert(ctx, e); err != nil {
			return err
		}
		if e.Status != StatusCompleted {
			return nil
		}
		return repo.UpsertStoredFile(ctx, e)
	})
}

// Recent returns the latest uploads, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	return NewSQLRepository(j.db, j.dialect).Recent(ctx, limit)
}

// UploadFinished implements upload.Observer.
func (j *Journal) UploadFinished(ctx context.Context, o upload.Outcome) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	e := entryFromOutcome(o)
	if err := j.Record(ctx, e); err != nil {
		metrics.RecordJournalError()
		j.logger.Warn(ctx, "failed to record upload", "id", e.ID, "error", err)
	}
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func entryFromOutcome(o upload.Outcome) *Entry {
	e := &Entry{
		ID:         o.ID,
		Filename:   o.Filename,
		TargetDir:  o.TargetDir,
		Path:       o.Path,
		Bytes:      o.Bytes,
		Checksum:   o.Checksum,
		Status:     StatusCompleted,
		StartedAt:  o.Started,
		FinishedAt: o.Finished,
	}

	if o.Err != nil {
		e.Status = StatusFailed
		e.Message = o.Err.Error()
		if errors.Is(o.Err, context.Canceled) {
			e.Message = "cancelled by client"
		}
	} else {
		e.Message = (&upload.Result{Bytes: o.Bytes}).Message()
	}
	return e
}
