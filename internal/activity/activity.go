// Package activity records a bounded, newest-first log of user actions.
package activity

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is used when New is given a non-positive capacity.
const DefaultCapacity = 100

// Entry is one recorded action.
type Entry struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Description string    `json:"description"`
}

// String formats the entry as "[HH:MM:SS] description".
func (e Entry) String() string {
	return "[" + e.Time.Format("15:04:05") + "] " + e.Description
}

// Log is a capacity-bounded activity log. The newest entry is first; once the
// log is full the oldest entry is dropped.
//
// Log is not safe for concurrent use.
type Log struct {
	entries  []Entry
	capacity int
	now      func() time.Time
}

// New creates a Log holding at most capacity entries.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity, now: time.Now}
}

// WithClock replaces the time source. Intended for tests.
func (l *Log) WithClock(now func() time.Time) *Log {
	l.now = now
	return l
}

// Add records description and returns the new entry.
func (l *Log) Add(description string) Entry {
	e := Entry{
		ID:          uuid.New().String(),
		Time:        l.now(),
		Description: description,
	}

	if len(l.entries) < l.capacity {
		l.entries = append(l.entries, Entry{})
	}
	copy(l.entries[1:], l.entries[:len(l.entries)-1])
	l.entries[0] = e
	return e
}

// Entries returns a copy of the log, newest first.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Lines returns the formatted entries, newest first.
func (l *Log) Lines() []string {
	out := make([]string, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.String()
	}
	return out
}

// Len returns the number of entries.
func (l *Log) Len() int { return len(l.entries) }

// Capacity returns the maximum number of entries kept.
func (l *Log) Capacity() int { return l.capacity }

// Clear removes all entries.
func (l *Log) Clear() { l.entries = nil }
