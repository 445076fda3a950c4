// Package storage persists workflow events in a local SQLite database so
// past repair runs can be audited from the CLI.
package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devicerescue/devicerescue/internal/config"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const (
	// EnvEventDBPath overrides the default ~/.devicerescue/events.sqlite.
	EnvEventDBPath = "RESCUE_EVENT_DB_PATH"

	defaultDBDirName  = ".devicerescue"
	defaultDBFileName = "events.sqlite"
	eventTableName    = "workflow_events"
)

// Event is one persisted workflow record.
type Event struct {
	ID       int64
	Category string
	DeviceID string
	Method   string
	Level    string
	Message  string
	At       time.Time
}

// EventStore writes and reads workflow events. Satisfies the orchestrator's
// sink contract via Event.
type EventStore struct {
	db *sql.DB
}

// OpenEventStore opens (creating if needed) the event database at path, or
// the resolved default when path is empty.
func OpenEventStore(path string) (*EventStore, error) {
	if strings.TrimSpace(path) == "" {
		resolved, err := resolveDatabasePath()
		if err != nil {
			return nil, err
		}
		path = resolved
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "storage: open %s failed", path)
	}
	if err := configureSQLite(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := prepareSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &EventStore{db: db}, nil
}

// Event records one workflow event. The sink is a side channel and must
// never disturb the workflow, so persistence failures are dropped.
func (s *EventStore) Event(category, deviceID, method, level, message string) {
	if s == nil || s.db == nil {
		return
	}
	_, _ = s.db.Exec(
		`INSERT INTO `+eventTableName+` (category, device_id, method, level, message, at) VALUES (?, ?, ?, ?, ?, ?)`,
		category, deviceID, method, level, message, time.Now().Unix(),
	)
}

// RecentEvents returns up to limit events for a device, newest first. An
// empty deviceID matches all devices.
func (s *EventStore) RecentEvents(deviceID string, limit int) ([]Event, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("storage: event store is closed")
	}
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT id, category, device_id, method, level, message, at FROM ` + eventTableName
	args := []any{}
	if strings.TrimSpace(deviceID) != "" {
		query += ` WHERE device_id = ?`
		args = append(args, deviceID)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "storage: query events failed")
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var at int64
		if err := rows.Scan(&ev.ID, &ev.Category, &ev.DeviceID, &ev.Method, &ev.Level, &ev.Message, &at); err != nil {
			return nil, errors.Wrap(err, "storage: scan event failed")
		}
		ev.At = time.Unix(at, 0)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close releases the underlying database handle.
func (s *EventStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func resolveDatabasePath() (string, error) {
	if custom := config.String(EnvEventDBPath, ""); custom != "" {
		if err := ensureDirExists(filepath.Dir(custom)); err != nil {
			return "", err
		}
		return custom, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "storage: locate user home failed")
	}
	dir := filepath.Join(home, defaultDBDirName)
	if err := ensureDirExists(dir); err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultDBFileName), nil
}

func ensureDirExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return errors.Wrapf(err, "storage: create dir %s failed", path)
	}
	return nil
}

func configureSQLite(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA temp_store=MEMORY;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "storage: execute %s failed", pragma)
		}
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return nil
}

func prepareSchema(db *sql.DB) error {
	createTable := `CREATE TABLE IF NOT EXISTS ` + eventTableName + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		device_id TEXT NOT NULL,
		method TEXT NOT NULL,
		level TEXT NOT NULL,
		message TEXT NOT NULL,
		at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTable); err != nil {
		return errors.Wrap(err, "storage: create events table failed")
	}
	createIndex := `CREATE INDEX IF NOT EXISTS idx_workflow_events_device ON ` + eventTableName + ` (device_id, id)`
	if _, err := db.Exec(createIndex); err != nil {
		return errors.Wrap(err, "storage: create events index failed")
	}
	return nil
}
