// Package transcript keeps the append-only message log of one game and
// exports it as text or PDF.
package transcript

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Kind classifies a transcript entry.
type Kind string

const (
	KindPlayer Kind = "player"
	KindSystem Kind = "system"
	KindHint   Kind = "hint"
)

// Entry is one message in the log.
type Entry struct {
	Kind Kind      `json:"kind"`
	Text string    `json:"text"`
	Time time.Time `json:"time"`
}

// Log is safe for concurrent use.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// New returns an empty log.
func New() *Log {
	return &Log{now: time.Now}
}

// Add appends an entry stamped with the current time.
func (l *Log) Add(kind Kind, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Kind: kind, Text: text, Time: l.now()})
}

// Player records a command typed by the player.
func (l *Log) Player(text string) { l.Add(KindPlayer, text) }

// System records game output.
func (l *Log) System(text string) { l.Add(KindSystem, text) }

// Hint records a revealed hint.
func (l *Log) Hint(text string) { l.Add(KindHint, text) }

// Entries returns a copy of the log.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}

// Len reports the number of entries.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Reset clears the log, e.g. on restart.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}

// Line renders one entry the way front ends print it.
func Line(e Entry) string {
	switch e.Kind {
	case KindPlayer:
		return "> " + e.Text
	case KindHint:
		return "💡 " + e.Text
	default:
		return e.Text
	}
}

// WriteText writes the transcript as plain text under a title line.
func WriteText(w io.Writer, title string, entries []Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", title, strings.Repeat("=", len(title)))
	for _, e := range entries {
		b.WriteString(Line(e))
		b.WriteString("\n")
		if e.Kind != KindPlayer {
			b.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
