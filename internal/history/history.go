// Package history keeps the bounded, append-only log of prior submissions
// that the similarity comparator reads.
package history

import (
	"sync"
	"time"

	"github.com/credlens/credlens/internal/analysis"
)

// DefaultCapacity bounds the log when no capacity is configured.
const DefaultCapacity = 200

// Log is a FIFO-bounded append-only log. Appends and capacity eviction are
// atomic with respect to each other.
type Log struct {
	mu       sync.RWMutex
	entries  []analysis.HistoryEntry
	capacity int
}

// NewLog creates a log holding at most capacity entries. Non-positive
// capacity falls back to the default.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Append records one completed analysis, evicting the oldest entries once
// the capacity is exceeded.
func (l *Log) Append(text string, score float64, ts time.Time) {
	entry := analysis.HistoryEntry{
		Fingerprint: analysis.Fingerprint(text),
		Score:       score,
		Timestamp:   ts,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append([]analysis.HistoryEntry(nil), l.entries[over:]...)
	}
}

// Seed replaces the log contents, oldest first, trimming to capacity. Used
// at startup to restore persisted history.
func (l *Log) Seed(entries []analysis.HistoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if over := len(entries) - l.capacity; over > 0 {
		entries = entries[over:]
	}
	l.entries = append([]analysis.HistoryEntry(nil), entries...)
}

// Snapshot returns a copy of the current entries, oldest first.
func (l *Log) Snapshot() []analysis.HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]analysis.HistoryEntry(nil), l.entries...)
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
