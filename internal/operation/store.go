package operation

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"cutover/internal/api"
)

// Store is the SQLite-backed audit log for operations. Terminal records are
// written once and never updated afterwards; the orchestration layer treats
// them as immutable history.
type Store struct {
	db *sql.DB
}

//go:embed migrations/*.sql
var migrationFS embed.FS

// NewStore opens (or creates) the audit database at the given path and
// applies the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema, err := migrationFS.ReadFile("migrations/0001_init.sql")
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save upserts an operation snapshot. Steps travel as a JSON document; the
// audit consumers read whole operations, never individual step rows.
func (s *Store) Save(ctx context.Context, snapshot api.OperationSnapshot) error {
	stepsJSON, err := json.Marshal(snapshot.Steps)
	if err != nil {
		return fmt.Errorf("encode steps for operation %s: %w", snapshot.OperationID, err)
	}

	var endTime interface{}
	if snapshot.EndTime != nil {
		endTime = snapshot.EndTime.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO operations
			(id, kind, environment, status, dry_run, progress, comments, error_message, start_time, end_time, steps_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			progress = excluded.progress,
			error_message = excluded.error_message,
			end_time = excluded.end_time,
			steps_json = excluded.steps_json`,
		snapshot.OperationID,
		string(snapshot.Kind),
		snapshot.Environment,
		string(snapshot.Status),
		snapshot.DryRun,
		snapshot.ProgressPercentage,
		snapshot.Comments,
		snapshot.ErrorMessage,
		snapshot.StartTime.UTC().Format(time.RFC3339Nano),
		endTime,
		string(stepsJSON),
	)
	if err != nil {
		return fmt.Errorf("save operation %s: %w", snapshot.OperationID, err)
	}
	return nil
}

// Get loads one operation by id.
func (s *Store) Get(ctx context.Context, operationID string) (api.OperationSnapshot, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, environment, status, dry_run, progress, comments, error_message, start_time, end_time, steps_json
		FROM operations WHERE id = ?`, operationID)

	snapshot, err := scanOperation(row)
	if err == sql.ErrNoRows {
		return api.OperationSnapshot{}, false, nil
	}
	if err != nil {
		return api.OperationSnapshot{}, false, fmt.Errorf("load operation %s: %w", operationID, err)
	}
	return snapshot, true, nil
}

// List returns operations newest first, optionally filtered by environment.
func (s *Store) List(ctx context.Context, environment string, limit int) ([]api.OperationSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, kind, environment, status, dry_run, progress, comments, error_message, start_time, end_time, steps_json
		FROM operations`
	args := []interface{}{}
	if environment != "" {
		query += ` WHERE environment = ?`
		args = append(args, environment)
	}
	query += ` ORDER BY start_time DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list operations: %w", err)
	}
	defer rows.Close()

	var snapshots []api.OperationSnapshot
	for rows.Next() {
		snapshot, err := scanOperation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan operation row: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOperation(row rowScanner) (api.OperationSnapshot, error) {
	var (
		snapshot  api.OperationSnapshot
		kind      string
		status    string
		startRaw  string
		endRaw    sql.NullString
		stepsJSON string
	)

	err := row.Scan(
		&snapshot.OperationID,
		&kind,
		&snapshot.Environment,
		&status,
		&snapshot.DryRun,
		&snapshot.ProgressPercentage,
		&snapshot.Comments,
		&snapshot.ErrorMessage,
		&startRaw,
		&endRaw,
		&stepsJSON,
	)
	if err != nil {
		return api.OperationSnapshot{}, err
	}

	snapshot.Kind = api.OperationKind(kind)
	snapshot.Status = api.OperationStatus(status)

	if snapshot.StartTime, err = time.Parse(time.RFC3339Nano, startRaw); err != nil {
		return api.OperationSnapshot{}, fmt.Errorf("parse start time: %w", err)
	}
	if endRaw.Valid {
		endTime, err := time.Parse(time.RFC3339Nano, endRaw.String)
		if err != nil {
			return api.OperationSnapshot{}, fmt.Errorf("parse end time: %w", err)
		}
		snapshot.EndTime = &endTime
	}

	if err := json.Unmarshal([]byte(stepsJSON), &snapshot.Steps); err != nil {
		return api.OperationSnapshot{}, fmt.Errorf("decode steps: %w", err)
	}
	return snapshot, nil
}
