// Package eventlog keeps the ordered record of gate outcomes shown to the
// user: connects, submissions, discards, confirmations, rejections, errors.
package eventlog

import (
	"context"
	"sync"
	"time"

	"github.com/walletgate/walletgate/internal/idgen"
)

// Outcome tags an entry with what happened.
type Outcome string

const (
	OutcomeConnect Outcome = "connect"
	OutcomeSubmit  Outcome = "submit"
	OutcomeDiscard Outcome = "discard"
	OutcomeConfirm Outcome = "confirm"
	OutcomeReject  Outcome = "reject"
	OutcomeError   Outcome = "error"
)

// Entry is one timestamped, human-readable log line.
type Entry struct {
	ID      string    `json:"id"`
	Outcome Outcome   `json:"outcome"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Store persists entries beyond process lifetime. Optional — the in-memory
// Log is the source of truth for the UI.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
}

// Log is the append-only event sequence. Single logical writer (the gate),
// but mutex-guarded so HTTP reads never race the writer. A cap bounds
// growth; 0 means unbounded.
type Log struct {
	mu      sync.RWMutex
	entries []Entry // oldest first; Snapshot reverses
	cap     int
	store   Store // optional persistent copy, best-effort
}

// New creates an event log capped at cap entries (0 = unbounded).
func New(cap int) *Log {
	return &Log{cap: cap}
}

// WithStore attaches a persistent store. Appends to it are best-effort and
// never block or fail the in-memory log.
func (l *Log) WithStore(s Store) *Log {
	l.store = s
	return l
}

// Append records an outcome. Returns the created entry.
func (l *Log) Append(outcome Outcome, message string) Entry {
	entry := Entry{
		ID:      idgen.WithPrefix("evt_"),
		Outcome: outcome,
		Message: message,
		At:      time.Now(),
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if l.cap > 0 && len(l.entries) > l.cap {
		// Evict oldest
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
	l.mu.Unlock()

	if l.store != nil {
		e := entry
		go func() {
			_ = l.store.Append(context.Background(), &e)
		}()
	}

	return entry
}

// Snapshot returns the entries most-recent-first.
func (l *Log) Snapshot() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]Entry, len(l.entries))
	for i, e := range l.entries {
		result[len(l.entries)-1-i] = e
	}
	return result
}

// Len returns the number of retained entries.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
