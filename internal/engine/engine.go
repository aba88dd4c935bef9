// Package engine implements the session's audio backend on top of beep.
// It decodes files by extension, plays through the default speaker, and
// reports duration, position ticks, state changes and completion as
// asynchronous events.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/errors"
	"github.com/mbaklund/vinyl/internal/session"
)

const positionTickInterval = 200 * time.Millisecond

// Engine plays local audio files through beep's speaker.
type Engine struct {
	mu sync.Mutex

	handler func(session.Event)

	initialized bool
	sampleRate  beep.SampleRate

	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	fraction float64

	// done identifies the active playback; closing it stops the position
	// ticker and invalidates the completion callback.
	done chan struct{}
}

// New creates an engine. The speaker is initialized lazily on first load.
func New() *Engine {
	return &Engine{
		sampleRate: beep.SampleRate(44100),
		fraction:   1.0,
	}
}

// SetHandler registers the event handler. Must be set before Load.
func (e *Engine) SetHandler(fn func(session.Event)) {
	e.handler = fn
}

func (e *Engine) emit(ev session.Event) {
	if e.handler != nil {
		e.handler(ev)
	}
}

func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return mp3.Decode(f)
	case ".wav":
		return wav.Decode(f)
	case ".flac":
		return flac.Decode(f)
	case ".ogg":
		return vorbis.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%s: %w", filepath.Ext(path), errors.ErrUnsupportedFormat)
	}
}

// Load stops any current playback and prepares the track at path. The
// track's duration is reported as soon as the decoder knows it.
func (e *Engine) Load(path string) error {
	e.mu.Lock()
	e.stopLocked()

	f, err := os.Open(path)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	streamer, format, err := decode(path, f)
	if err != nil {
		f.Close()
		e.mu.Unlock()
		return err
	}

	if !e.initialized {
		if err := speaker.Init(e.sampleRate, e.sampleRate.N(time.Second/10)); err != nil {
			streamer.Close()
			f.Close()
			e.mu.Unlock()
			return err
		}
		e.initialized = true
	}

	resampled := beep.Resample(4, format.SampleRate, e.sampleRate, streamer)
	e.ctrl = &beep.Ctrl{Streamer: resampled}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   fractionToGain(e.fraction),
		Silent:   e.fraction == 0,
	}
	e.file = f
	e.streamer = streamer
	e.format = format

	duration := format.SampleRate.D(streamer.Len())
	e.mu.Unlock()

	slog.Debug("loaded track", "path", path, "duration", duration)
	e.emit(session.Event{Kind: session.EventDuration, Duration: duration})
	return nil
}

// Play starts playback of the loaded track.
func (e *Engine) Play() error {
	e.mu.Lock()
	if e.volume == nil {
		e.mu.Unlock()
		return fmt.Errorf("no track loaded: %w", errors.ErrTrackNotFound)
	}

	done := make(chan struct{})
	e.done = done

	// The completion callback runs on the speaker goroutine; hop off it
	// before touching engine state so the next load cannot deadlock.
	speaker.Play(beep.Seq(e.volume, beep.Callback(func() {
		go e.finished(done)
	})))
	go e.tickPosition(done)
	e.mu.Unlock()

	e.emit(session.Event{Kind: session.EventState, Playing: true})
	return nil
}

// finished reports track completion unless the playback was superseded.
func (e *Engine) finished(done chan struct{}) {
	e.mu.Lock()
	stale := e.done != done
	e.mu.Unlock()
	if stale {
		return
	}

	e.emit(session.Event{Kind: session.EventState, Playing: false})
	e.emit(session.Event{Kind: session.EventCompleted})
}

// tickPosition emits position events until the playback ends.
func (e *Engine) tickPosition(done chan struct{}) {
	ticker := time.NewTicker(positionTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			pos, ok := e.position()
			if ok {
				e.emit(session.Event{Kind: session.EventPosition, Position: pos})
			}
		}
	}
}

func (e *Engine) position() (time.Duration, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return 0, false
	}

	speaker.Lock()
	pos := e.streamer.Position()
	speaker.Unlock()

	return e.format.SampleRate.D(pos), true
}

// Pause pauses playback without unloading the track.
func (e *Engine) Pause() error {
	e.mu.Lock()
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = true
		speaker.Unlock()
	}
	e.mu.Unlock()

	e.emit(session.Event{Kind: session.EventState, Playing: false})
	return nil
}

// Resume continues paused playback.
func (e *Engine) Resume() error {
	e.mu.Lock()
	if e.ctrl != nil {
		speaker.Lock()
		e.ctrl.Paused = false
		speaker.Unlock()
	}
	e.mu.Unlock()

	e.emit(session.Event{Kind: session.EventState, Playing: true})
	return nil
}

// Stop halts playback and releases the decoder.
func (e *Engine) Stop() error {
	e.mu.Lock()
	e.stopLocked()
	e.mu.Unlock()

	e.emit(session.Event{Kind: session.EventState, Playing: false})
	return nil
}

// stopLocked tears down the active playback. Caller holds e.mu.
func (e *Engine) stopLocked() {
	if e.done != nil {
		close(e.done)
		e.done = nil
	}
	if e.streamer != nil {
		speaker.Clear()
		e.streamer.Close()
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.ctrl = nil
	e.volume = nil
}

// Seek jumps to the given position, clamped to the track bounds.
func (e *Engine) Seek(d time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.streamer == nil {
		return nil
	}

	n := e.format.SampleRate.N(d)
	if n < 0 {
		n = 0
	}
	if limit := e.streamer.Len() - 1; n > limit {
		n = limit
	}

	speaker.Lock()
	defer speaker.Unlock()
	return e.streamer.Seek(n)
}

// SetVolume applies the fraction in [0,1] to the active playback and
// remembers it for subsequent loads. Zero mutes outright.
func (e *Engine) SetVolume(fraction float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.fraction = fraction
	if e.volume == nil {
		return nil
	}

	speaker.Lock()
	e.volume.Silent = fraction == 0
	if fraction > 0 {
		e.volume.Volume = fractionToGain(fraction)
	}
	speaker.Unlock()
	return nil
}

// SetLoopMode is a no-op. Completion-driven advance in the session stays
// authoritative; the engine never repeats on its own.
func (e *Engine) SetLoopMode(core.LoopMode) error {
	return nil
}

// Close stops playback and shuts the speaker down.
func (e *Engine) Close() error {
	e.mu.Lock()
	e.stopLocked()
	initialized := e.initialized
	e.initialized = false
	e.mu.Unlock()

	if initialized {
		speaker.Close()
	}
	return nil
}

// fractionToGain maps a linear [0,1] fraction to beep's log-domain volume.
func fractionToGain(fraction float64) float64 {
	if fraction <= 0 {
		return 0
	}
	return math.Log2(fraction)
}
