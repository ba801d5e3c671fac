// Package snapstore persists dataset snapshots and drift reports.
package snapstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver

	"driftscan/internal/contract"
	"driftscan/schema"
)

// Table names for snapshot storage.
const (
	snapshotsTable = "driftscan_snapshots"
	reportsTable   = "driftscan_reports"
)

// timeFormat is how timestamps are stored. RFC3339 sorts lexicographically,
// which keeps ORDER BY portable across all three backends.
const timeFormat = time.RFC3339Nano

// StoreImpl handles durable snapshot storage using various database backends.
type StoreImpl struct {
	db       *sql.DB
	backend  schema.DatabaseBackend
	location string
}

var _ contract.SnapshotStore = (*StoreImpl)(nil) // Compile-time check

// NewStore initializes and returns a snapshot store for the backend.
// NoneBackend returns (nil, nil): callers treat a nil store as "persistence
// disabled".
func NewStore(backend schema.DatabaseBackend, connStr string) (contract.SnapshotStore, error) {
	if backend == schema.NoneBackend {
		return nil, nil
	}

	var db *sql.DB
	var err error
	location := connStr

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetSnapshotDBFilePath()
		}
		location = dbPath
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite store at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr should be: user:password@tcp(host:port)/dbname
		dsn, dsnErr := mysqlMigrationDSN(connStr)
		if dsnErr != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", dsnErr)
		}
		db, err = sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr should be: host=localhost port=5432 user=postgres dbname=mydb
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s store. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if err := Migrate(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate snapshot store schema: %w", err)
	}

	return &StoreImpl{db: db, backend: backend, location: location}, nil
}

// SaveSnapshot inserts or replaces a snapshot by ID.
func (s *StoreImpl) SaveSnapshot(snap *schema.Snapshot) error {
	payload, err := json.Marshal(snap.Summary)
	if err != nil {
		return fmt.Errorf("cannot encode summary: %w", err)
	}
	query := s.upsertSnapshotQuery()
	_, err = s.db.Exec(query, snap.ID, snap.Name, snap.Source, snap.CreatedAt.UTC().Format(timeFormat), snap.Summary.RowCount, string(payload))
	return err
}

// GetSnapshot loads one snapshot by its ID.
func (s *StoreImpl) GetSnapshot(id string) (*schema.Snapshot, error) {
	query := fmt.Sprintf(`SELECT id, name, source, created_at, summary FROM %s WHERE id = %s`,
		snapshotsTable, s.placeholder(1))

	var snap schema.Snapshot
	var createdAt, payload string
	row := s.db.QueryRow(query, id)
	if err := row.Scan(&snap.ID, &snap.Name, &snap.Source, &createdAt, &payload); err != nil {
		return nil, err
	}
	if t, err := time.Parse(timeFormat, createdAt); err == nil {
		snap.CreatedAt = t
	}
	if err := json.Unmarshal([]byte(payload), &snap.Summary); err != nil {
		return nil, fmt.Errorf("cannot decode stored summary for %s: %w", id, err)
	}
	return &snap, nil
}

// ListSnapshots returns the most recent snapshots, newest first.
func (s *StoreImpl) ListSnapshots(limit int) ([]schema.Snapshot, error) {
	if limit <= 0 {
		limit = contract.DefaultResultLimit
	}
	query := fmt.Sprintf(`SELECT id, name, source, created_at, row_count FROM %s ORDER BY created_at DESC LIMIT %d`,
		snapshotsTable, limit)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []schema.Snapshot
	for rows.Next() {
		var snap schema.Snapshot
		var createdAt string
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.Source, &createdAt, &snap.Summary.RowCount); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeFormat, createdAt); err == nil {
			snap.CreatedAt = t
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// SaveReport persists the drift report produced for a snapshot pair.
func (s *StoreImpl) SaveReport(oldID, newID string, report *schema.DriftReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("cannot encode report: %w", err)
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, old_id, new_id, created_at, composite_score, severity, semantic_score, report)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s)`,
		reportsTable,
		s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4),
		s.placeholder(5), s.placeholder(6), s.placeholder(7), s.placeholder(8))
	_, err = s.db.Exec(query,
		uuid.NewString(), oldID, newID, time.Now().UTC().Format(timeFormat),
		report.CompositeScore, string(report.Severity), report.SemanticScore, string(payload))
	return err
}

// History returns stored comparison outcomes, newest first.
func (s *StoreImpl) History(limit int) ([]schema.HistoryPoint, error) {
	if limit <= 0 {
		limit = contract.DefaultResultLimit
	}
	query := fmt.Sprintf(`SELECT old_id, new_id, created_at, composite_score, severity FROM %s ORDER BY created_at DESC LIMIT %d`,
		reportsTable, limit)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []schema.HistoryPoint
	for rows.Next() {
		var p schema.HistoryPoint
		var createdAt, severity string
		if err := rows.Scan(&p.OldID, &p.NewID, &createdAt, &p.Score, &severity); err != nil {
			return nil, err
		}
		if t, err := time.Parse(timeFormat, createdAt); err == nil {
			p.CreatedAt = t
		}
		p.Severity = schema.Severity(severity)
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetStatus returns counts and location info for the store.
func (s *StoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{Backend: s.backend, Location: s.location}
	if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, snapshotsTable)).Scan(&status.SnapshotCount); err != nil {
		return status, err
	}
	if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %s`, reportsTable)).Scan(&status.ReportCount); err != nil {
		return status, err
	}
	return status, nil
}

// Clear removes all stored snapshots and reports.
func (s *StoreImpl) Clear() error {
	if _, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s`, reportsTable)); err != nil {
		return err
	}
	_, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s`, snapshotsTable))
	return err
}

// Close closes the underlying connection.
func (s *StoreImpl) Close() error {
	return s.db.Close()
}

// mysqlMigrationDSN rewrites a MySQL connection string with multiStatements
// enabled. Each migration file holds several SQL statements and the driver
// rejects multi-statement Exec calls without it.
func mysqlMigrationDSN(connStr string) (string, error) {
	cfg, err := gomysql.ParseDSN(connStr)
	if err != nil {
		return "", err
	}
	cfg.MultiStatements = true
	return cfg.FormatDSN(), nil
}

// placeholder returns the nth parameter placeholder for the backend.
func (s *StoreImpl) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// upsertSnapshotQuery returns the backend-specific snapshot UPSERT.
func (s *StoreImpl) upsertSnapshotQuery() string {
	switch s.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (id, name, source, created_at, row_count, summary) VALUES (?, ?, ?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE name = new.name, source = new.source, created_at = new.created_at, row_count = new.row_count, summary = new.summary`, snapshotsTable)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (id, name, source, created_at, row_count, summary) VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, source = EXCLUDED.source, created_at = EXCLUDED.created_at, row_count = EXCLUDED.row_count, summary = EXCLUDED.summary`, snapshotsTable)

	default: // SQLite
		return fmt.Sprintf(`INSERT INTO %s (id, name, source, created_at, row_count, summary) VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET name = excluded.name, source = excluded.source, created_at = excluded.created_at, row_count = excluded.row_count, summary = excluded.summary`, snapshotsTable)
	}
}
