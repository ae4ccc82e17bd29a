package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the history database after a bump.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version does not match the
// expected version.
var ErrSchemaMismatch = errors.New("history: schema version mismatch")

// Run is one recorded optimization run.
type Run struct {
	ID                   string
	CreatedAt            time.Time
	Animation            string
	JointCount           int
	DurationSeconds      float64
	TranslationTolerance float64
	RotationTolerance    float64
	ScaleTolerance       float64
	KeysBefore           int
	KeysAfter            int
	MaxPositionError     float64
	MeanPositionError    float64
	ArchivePath          string
}

// Compression returns the surviving key fraction, 1 when the source had no
// keys.
func (r *Run) Compression() float64 {
	if r.KeysBefore == 0 {
		return 1
	}
	return float64(r.KeysAfter) / float64(r.KeysBefore)
}

// Store manages run persistence backed by SQLite.
type Store struct {
	db      *sql.DB
	path    string
	maxRuns int
}

// Open initializes or connects to the history database. Past maxRuns recorded
// runs, the oldest are pruned on each insert.
func Open(path string, maxRuns int) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("history: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("history: apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path, maxRuns: maxRuns}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("history: check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("history: read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'animopt history clear' or delete the database)",
			ErrSchemaMismatch, version, schemaVersion)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("history: create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("history: record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit schema: %w", err)
	}
	return nil
}

// Record inserts a run, assigning an ID and timestamp when unset, and prunes
// runs past the retention limit. The stored run is returned.
func (s *Store) Record(ctx context.Context, run Run) (*Run, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (
            id, created_at, animation, joint_count, duration_seconds,
            translation_tolerance, rotation_tolerance, scale_tolerance,
            keys_before, keys_after, max_position_error, mean_position_error,
            archive_path
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.CreatedAt.Format(time.RFC3339Nano),
		run.Animation,
		run.JointCount,
		run.DurationSeconds,
		run.TranslationTolerance,
		run.RotationTolerance,
		run.ScaleTolerance,
		run.KeysBefore,
		run.KeysAfter,
		run.MaxPositionError,
		run.MeanPositionError,
		nullableString(run.ArchivePath),
	)
	if err != nil {
		return nil, fmt.Errorf("history: insert run: %w", err)
	}

	if err := s.prune(ctx); err != nil {
		return nil, err
	}
	return &run, nil
}

func (s *Store) prune(ctx context.Context) error {
	if s.maxRuns <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM runs WHERE id NOT IN (
            SELECT id FROM runs ORDER BY created_at DESC, id LIMIT ?
        )`, s.maxRuns)
	if err != nil {
		return fmt.Errorf("history: prune runs: %w", err)
	}
	return nil
}

const runColumns = `id, created_at, animation, joint_count, duration_seconds,
    translation_tolerance, rotation_tolerance, scale_tolerance,
    keys_before, keys_after, max_position_error, mean_position_error,
    archive_path`

// List returns the most recent runs, newest first. A limit of zero or less
// returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("history: list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate runs: %w", err)
	}
	return runs, nil
}

// Get fetches a run by identifier. Returns nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// Clear removes every recorded run.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("history: clear runs: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	var archivePath sql.NullString
	err := row.Scan(
		&run.ID,
		&createdAt,
		&run.Animation,
		&run.JointCount,
		&run.DurationSeconds,
		&run.TranslationTolerance,
		&run.RotationTolerance,
		&run.ScaleTolerance,
		&run.KeysBefore,
		&run.KeysAfter,
		&run.MaxPositionError,
		&run.MeanPositionError,
		&archivePath,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("history: scan run: %w", err)
	}

	run.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("history: parse run timestamp: %w", err)
	}
	run.ArchivePath = archivePath.String
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
