package security

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// bufferCapacity bounds the audit-log event buffer to the last 100
// events; older events are dropped on overflow.
const bufferCapacity = 100

// AuditLogger is the process-wide-safe audit event buffer: its event
// buffer is the only mutable global state here and must tolerate
// concurrent appends. It is a ring buffer guarded by a mutex.
type AuditLogger struct {
	mu                      sync.Mutex
	events                  []Event
	next                    int
	filled                  bool
	severityFloor           Severity
	includeSensitiveDetails bool
}

// NewAuditLogger builds a logger that records events at severityFloor and
// above. includeSensitiveDetails controls the built-in sanitization of
// home-directory prefixes and path truncation.
func NewAuditLogger(severityFloor Severity, includeSensitiveDetails bool) *AuditLogger {
	return &AuditLogger{
		events:                  make([]Event, bufferCapacity),
		severityFloor:           severityFloor,
		includeSensitiveDetails: includeSensitiveDetails,
	}
}

var severityRank = map[Severity]int{
	SeverityInfo:     0,
	SeverityWarning:  1,
	SeverityError:    2,
	SeverityCritical: 3,
}

// Record appends ev to the ring buffer if its severity meets the floor,
// sanitizing Details first. It assigns a CorrelationID if one is not
// already set.
func (a *AuditLogger) Record(ev Event) {
	if severityRank[ev.Severity] < severityRank[a.severityFloor] {
		return
	}
	if ev.CorrelationID == "" {
		ev.CorrelationID = uuid.NewString()
	}
	ev.Details = a.sanitize(ev.Details)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.events[a.next] = ev
	a.next = (a.next + 1) % bufferCapacity
	if a.next == 0 {
		a.filled = true
	}
}

// sanitize truncates long paths to <=100 chars and strips home-directory
// prefixes when includeSensitiveDetails is false.
func (a *AuditLogger) sanitize(details string) string {
	if a.includeSensitiveDetails {
		return details
	}
	out := details
	if home := homeDirHint(); home != "" {
		out = strings.ReplaceAll(out, home, "~")
	}
	if len(out) > 100 {
		out = out[:100]
	}
	return out
}

// Events returns a snapshot of the buffer's current contents, oldest
// first.
func (a *AuditLogger) Events() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.filled {
		out := make([]Event, a.next)
		copy(out, a.events[:a.next])
		return out
	}
	out := make([]Event, bufferCapacity)
	copy(out, a.events[a.next:])
	copy(out[bufferCapacity-a.next:], a.events[:a.next])
	return out
}

// Count returns how many events are currently buffered.
func (a *AuditLogger) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.filled {
		return bufferCapacity
	}
	return a.next
}

// homeDirHint is a seam for tests; production code should inject the real
// home directory via SetHomeDirHint rather than relying on this default.
var homeDirHintValue string

func homeDirHint() string { return homeDirHintValue }

// SetHomeDirHint configures the string sanitize() replaces with "~". Hosts
// normally call this once at startup with os.UserHomeDir().
func SetHomeDirHint(path string) { homeDirHintValue = path }
