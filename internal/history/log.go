package history

import (
	"sync"
)

// Recorder receives every record accepted by a Log.
type Recorder interface {
	Record(Record)
}

// Log stores records most-recent-first. Records are never removed.
type Log struct {
	mu      sync.Mutex
	records []Record
	sinks   []Recorder
}

// NewLog creates an empty log that also forwards records to sinks.
func NewLog(sinks ...Recorder) *Log {
	out := &Log{}
	for _, s := range sinks {
		if s != nil {
			out.sinks = append(out.sinks, s)
		}
	}
	return out
}

// Prepend places rec at the head of the log.
func (l *Log) Prepend(rec Record) {
	l.mu.Lock()
	l.records = append([]Record{rec}, l.records...)
	sinks := l.sinks
	l.mu.Unlock()

	for _, s := range sinks {
		s.Record(rec)
	}
}

// Snapshot returns a copy, newest first.
func (l *Log) Snapshot() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports how many records were accepted.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
