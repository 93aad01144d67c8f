// Package diag carries structured diagnostic events from the reconstruction
// heuristics to an injectable observer. The core packages never write to the
// console directly; everything a reviewer needs to audit a deviating entry
// flows through here with document, page, and entry identifiers attached.
package diag

import (
	"context"
	"log/slog"
)

// Level is the severity of a diagnostic event.
type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

// String returns a string representation of the level
func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Info:
		return "info"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one diagnostic emitted during reconstruction. Document, Page, and
// MedNr locate the offending region; zero values mean "not scoped that far".
type Event struct {
	Level    Level
	Message  string
	Document string
	Page     int // printed page number
	MedNr    int // entry identifier
}

// Observer consumes diagnostic events. Implementations must be safe for use
// from a single document's processing; cross-document parallelism hands each
// document the same observer, so shared backends should be concurrency-safe.
type Observer interface {
	Event(e Event)
}

// Nop returns an observer that discards everything.
func Nop() Observer {
	return nopObserver{}
}

type nopObserver struct{}

func (nopObserver) Event(Event) {}

// NewSlog returns an observer backed by a slog logger. Event identifiers are
// attached as attributes so downstream handlers can filter per document or
// entry.
func NewSlog(l *slog.Logger) Observer {
	if l == nil {
		l = slog.Default()
	}
	return slogObserver{l: l}
}

type slogObserver struct {
	l *slog.Logger
}

func (o slogObserver) Event(e Event) {
	attrs := make([]any, 0, 6)
	if e.Document != "" {
		attrs = append(attrs, "document", e.Document)
	}
	if e.Page != 0 {
		attrs = append(attrs, "page", e.Page)
	}
	if e.MedNr != 0 {
		attrs = append(attrs, "medNr", e.MedNr)
	}

	o.l.Log(context.Background(), slogLevel(e.Level), e.Message, attrs...)
}

func slogLevel(l Level) slog.Level {
	switch l {
	case Debug:
		return slog.LevelDebug
	case Info:
		return slog.LevelInfo
	case Warn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Tee returns an observer that forwards every event to all given observers.
func Tee(obs ...Observer) Observer {
	return teeObserver(obs)
}

type teeObserver []Observer

func (t teeObserver) Event(e Event) {
	for _, o := range t {
		if o != nil {
			o.Event(e)
		}
	}
}
