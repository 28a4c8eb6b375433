package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	mdwerror "github.com/msto63/fanucmacro/foundation/core/error"
	"github.com/msto63/fanucmacro/foundation/macro/variables"
)

// Snapshot is a saved copy of a session's set registers
type Snapshot struct {
	ID        string                         `json:"id" yaml:"id"`
	SessionID string                         `json:"session_id" yaml:"session_id"`
	CreatedAt time.Time                      `json:"created_at" yaml:"created_at"`
	Label     string                         `json:"label,omitempty" yaml:"label,omitempty"`
	Min       variables.Register             `json:"min" yaml:"min"`
	Max       variables.Register             `json:"max" yaml:"max"`
	Registers map[variables.Register]float64 `json:"-" yaml:"-"`
}

// SortedRegisters returns the snapshot's register numbers in ascending order
func (s *Snapshot) SortedRegisters() []variables.Register {
	registers := make([]variables.Register, 0, len(s.Registers))
	for r := range s.Registers {
		registers = append(registers, r)
	}
	sort.Slice(registers, func(i, j int) bool { return registers[i] < registers[j] })
	return registers
}

// SnapshotFilter defines criteria for listing snapshots
type SnapshotFilter struct {
	SessionID string
	Limit     int
}

// SnapshotStore defines the interface for snapshot persistence
type SnapshotStore interface {
	Save(ctx context.Context, snapshot *Snapshot) error
	Get(ctx context.Context, id string) (*Snapshot, error)
	Latest(ctx context.Context, sessionID string) (*Snapshot, error)
	List(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// SQLiteSnapshotStore implements SnapshotStore using SQLite
type SQLiteSnapshotStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	Path string
}

// DefaultConfig returns default configuration
func DefaultConfig() SQLiteConfig {
	return SQLiteConfig{
		Path: "./data/macro.db",
	}
}

// NewSQLiteSnapshotStore opens (or creates) the snapshot database
func NewSQLiteSnapshotStore(cfg SQLiteConfig) (*SQLiteSnapshotStore, error) {
	dir := filepath.Dir(cfg.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, dbError(err, "failed to create directory").WithDetail("dir", dir)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on")
	if err != nil {
		return nil, dbError(err, "failed to open database").WithDetail("path", cfg.Path)
	}

	store := &SQLiteSnapshotStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "failed to initialize schema").WithDetail("path", cfg.Path)
	}

	return store, nil
}

// initSchema creates the necessary tables
func (s *SQLiteSnapshotStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		label TEXT,
		min_register INTEGER NOT NULL,
		max_register INTEGER NOT NULL
	);

	-- Values are stored as text so NaN and infinities survive
	CREATE TABLE IF NOT EXISTS snapshot_registers (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
		register_no INTEGER NOT NULL,
		value TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, register_no)
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_session ON snapshots(session_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Save stores snapshot. Empty ID and CreatedAt are filled in.
func (s *SQLiteSnapshotStore) Save(ctx context.Context, snapshot *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot.ID == "" {
		snapshot.ID = uuid.New().String()
	}
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return dbError(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO snapshots (id, session_id, created_at, label, min_register, max_register)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snapshot.ID, snapshot.SessionID, snapshot.CreatedAt, snapshot.Label, int(snapshot.Min), int(snapshot.Max))
	if err != nil {
		return dbError(err, "failed to insert snapshot").WithDetail("id", snapshot.ID)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_registers (snapshot_id, register_no, value) VALUES (?, ?, ?)
	`)
	if err != nil {
		return dbError(err, "failed to prepare statement")
	}
	defer stmt.Close()

	for r, v := range snapshot.Registers {
		if _, err := stmt.ExecContext(ctx, snapshot.ID, int(r), strconv.FormatFloat(v, 'g', -1, 64)); err != nil {
			return dbError(err, "failed to insert register").WithDetail("register", int(r))
		}
	}

	if err := tx.Commit(); err != nil {
		return dbError(err, "failed to commit transaction")
	}
	return nil
}

// Get retrieves a snapshot by ID
func (s *SQLiteSnapshotStore) Get(ctx context.Context, id string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, created_at, label, min_register, max_register
		FROM snapshots WHERE id = ?
	`, id)

	snapshot, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, mdwerror.New(fmt.Sprintf("snapshot not found: %s", id)).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("store.Get").
			WithDetail("id", id)
	}
	if err != nil {
		return nil, dbError(err, "failed to query snapshot").WithDetail("id", id)
	}

	if err := s.loadRegisters(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// Latest retrieves the most recent snapshot of a session
func (s *SQLiteSnapshotStore) Latest(ctx context.Context, sessionID string) (*Snapshot, error) {
	snapshots, err := s.List(ctx, SnapshotFilter{SessionID: sessionID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, mdwerror.New(fmt.Sprintf("no snapshot for session %s", sessionID)).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("store.Latest").
			WithDetail("session_id", sessionID)
	}
	return snapshots[0], nil
}

// List retrieves snapshots, newest first
func (s *SQLiteSnapshotStore) List(ctx context.Context, filter SnapshotFilter) ([]*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, session_id, created_at, label, min_register, max_register FROM snapshots WHERE 1=1`
	var args []interface{}

	if filter.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, filter.SessionID)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "failed to query snapshots")
	}

	var snapshots []*Snapshot
	for rows.Next() {
		snapshot, err := scanSnapshot(rows)
		if err != nil {
			rows.Close()
			return nil, dbError(err, "failed to scan snapshot")
		}
		snapshots = append(snapshots, snapshot)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, dbError(err, "failed to iterate snapshots")
	}
	rows.Close()

	for _, snapshot := range snapshots {
		if err := s.loadRegisters(ctx, snapshot); err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

// Delete removes a snapshot and its registers
func (s *SQLiteSnapshotStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return dbError(err, "failed to delete snapshot").WithDetail("id", id)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return mdwerror.New(fmt.Sprintf("snapshot not found: %s", id)).
			WithCode(mdwerror.CodeNotFound).
			WithOperation("store.Delete").
			WithDetail("id", id)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteSnapshotStore) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snapshot Snapshot
	var label sql.NullString
	var min, max int

	if err := row.Scan(&snapshot.ID, &snapshot.SessionID, &snapshot.CreatedAt, &label, &min, &max); err != nil {
		return nil, err
	}
	snapshot.Label = label.String
	snapshot.Min = variables.Register(min)
	snapshot.Max = variables.Register(max)
	return &snapshot, nil
}

func (s *SQLiteSnapshotStore) loadRegisters(ctx context.Context, snapshot *Snapshot) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT register_no, value FROM snapshot_registers WHERE snapshot_id = ?
	`, snapshot.ID)
	if err != nil {
		return dbError(err, "failed to query registers").WithDetail("id", snapshot.ID)
	}
	defer rows.Close()

	snapshot.Registers = make(map[variables.Register]float64)
	for rows.Next() {
		var register int
		var raw string
		if err := rows.Scan(&register, &raw); err != nil {
			return dbError(err, "failed to scan register").WithDetail("id", snapshot.ID)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return mdwerror.Wrap(err, "corrupt register value").
				WithCode(mdwerror.CodeDataCorruption).
				WithOperation("store.loadRegisters").
				WithDetail("id", snapshot.ID).
				WithDetail("register", register)
		}
		snapshot.Registers[variables.Register(register)] = v
	}
	return rows.Err()
}

func dbError(err error, message string) *mdwerror.Error {
	return mdwerror.Wrap(err, message).WithCode(mdwerror.CodeDatabaseError)
}
