package server

import (
	"sync"
	"time"
)

// DefaultActivityCap is the bound on retained activity entries.
const DefaultActivityCap = 100

// ActivityEntry records one tool invocation.
type ActivityEntry struct {
	Tool      string    `json:"tool"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// ActivityLog is a bounded, most-recent-first history of tool invocations.
// It feeds observability tooling only; recording never fails and has no
// effect on dispatch outcomes.
type ActivityLog struct {
	mu      sync.Mutex
	limit   int
	entries []ActivityEntry
}

// NewActivityLog creates a log bounded at limit entries; a non-positive
// limit selects DefaultActivityCap.
func NewActivityLog(limit int) *ActivityLog {
	if limit <= 0 {
		limit = DefaultActivityCap
	}
	return &ActivityLog{limit: limit}
}

// Record prepends an entry, evicting the oldest when the log is full, and
// returns the recorded entry.
func (l *ActivityLog) Record(tool string, success bool, err error) ActivityEntry {
	entry := ActivityEntry{
		Tool:      tool,
		Timestamp: time.Now().UTC(),
		Success:   success,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append([]ActivityEntry{entry}, l.entries...)
	if len(l.entries) > l.limit {
		l.entries = l.entries[:l.limit]
	}
	return entry
}

// Entries returns a copy of the log, most recent first.
func (l *ActivityLog) Entries() []ActivityEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ActivityEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of retained entries.
func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
