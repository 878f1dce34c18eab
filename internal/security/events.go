// Package security implements the security validator and audit log of
// the configuration core: path/number/string rules applied field-by-field using the
// schema's declared field kind, cross-source override detection, and a
// bounded, thread-safe audit event buffer.
package security

import "time"

// Severity is one of the four levels an Event can carry.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Source is where the value under evaluation came from.
type Source string

const (
	SourceCLI    Source = "cli"
	SourceConfig Source = "config"
	SourceMerged Source = "merged"
	SourceSystem Source = "system"
)

// Event is one finding raised by a field rule, cross-source check, or
// policy overlay evaluation.
type Event struct {
	Type          string
	Severity      Severity
	Source        Source
	Field         string
	ErrorCode     string
	Details       string
	CorrelationID string
	Timestamp     time.Time
}
