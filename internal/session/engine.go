package session

import (
	"time"

	"github.com/mbaklund/vinyl/internal/core"
)

// Engine is the audio backend the session drives. Implementations own the
// actual decoding and output; the session only issues commands and reacts
// to events.
type Engine interface {
	Load(path string) error
	Play() error
	Pause() error
	Resume() error
	Stop() error
	Seek(d time.Duration) error
	SetVolume(fraction float64) error
	SetLoopMode(mode core.LoopMode) error
	Close() error
}

// EventKind identifies an engine event.
type EventKind int

const (
	// EventDuration reports the total duration of the loaded track.
	EventDuration EventKind = iota
	// EventPosition reports the current playback position. Ticks arrive at
	// engine-determined intervals; the latest value wins.
	EventPosition
	// EventState reports a play/pause state change.
	EventState
	// EventCompleted reports that the current track played to the end.
	EventCompleted
)

// Event is an asynchronous notification from the engine.
type Event struct {
	Kind     EventKind
	Duration time.Duration
	Position time.Duration
	Playing  bool
}
