// Package auditsink offers an optional, durable mirror of the in-memory
// audit buffer (internal/security.AuditLogger), backed by the pure-Go
// modernc.org/sqlite driver.
//
// Sink is a one-way mirror: nothing in the core ever reads from it to
// answer a read() or check_config call. The in-memory ring buffer remains
// the single source of truth; Sink exists only so a host that needs a
// record surviving process restarts has somewhere to send one.
package auditsink

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/confkit/confkit/internal/security"
)

const schema = `
CREATE TABLE IF NOT EXISTS security_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	event_type TEXT NOT NULL,
	severity TEXT NOT NULL,
	source TEXT NOT NULL,
	field TEXT,
	error_code TEXT,
	details TEXT,
	correlation_id TEXT,
	occurred_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_security_events_severity ON security_events(severity);
CREATE INDEX IF NOT EXISTS idx_security_events_correlation ON security_events(correlation_id);
`

// Sink persists security.Event values to a SQLite database.
type Sink struct {
	db *sql.DB
}

// Open opens (creating if needed) a SQLite database at path and ensures
// its schema exists. Pass ":memory:" for a transient, test-only sink.
func Open(path string) (*Sink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open audit sink database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create audit sink schema: %w", err)
	}
	return &Sink{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Sink) Close() error { return s.db.Close() }

// Write appends ev to the durable store. It never returns an error that
// should abort the caller's audit append to the in-memory buffer; hosts
// typically log a write failure here rather than propagate it.
func (s *Sink) Write(ev security.Event) error {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT INTO security_events (event_type, severity, source, field, error_code, details, correlation_id, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.Type, string(ev.Severity), string(ev.Source), ev.Field, ev.ErrorCode, ev.Details, ev.CorrelationID,
		ev.Timestamp.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert security event: %w", err)
	}
	return nil
}

// Recent returns up to limit of the most recently written events, newest
// first. It exists for operator inspection, not for anything the core's
// own read/validate/check_config path consults.
func (s *Sink) Recent(limit int) ([]security.Event, error) {
	rows, err := s.db.Query(
		`SELECT event_type, severity, source, field, error_code, details, correlation_id, occurred_at
		 FROM security_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query security events: %w", err)
	}
	defer rows.Close()

	var out []security.Event
	for rows.Next() {
		var ev security.Event
		var severity, source, occurredAt string
		if err := rows.Scan(&ev.Type, &severity, &source, &ev.Field, &ev.ErrorCode, &ev.Details, &ev.CorrelationID, &occurredAt); err != nil {
			return nil, fmt.Errorf("scan security event: %w", err)
		}
		ev.Severity = security.Severity(severity)
		ev.Source = security.Source(source)
		if ts, err := time.Parse(time.RFC3339, occurredAt); err == nil {
			ev.Timestamp = ts
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// MarshalDetail is a small helper for sinks that want to store structured
// Details rather than a plain string, JSON-encoding the side payload.
func MarshalDetail(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
