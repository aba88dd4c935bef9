// Package session owns playback transport state: the current track, the
// play/pause flag, position, volume, shuffle and loop mode. It mediates all
// transitions by delegating audio work to an Engine and reacting to the
// engine's asynchronous events, including completion-driven auto-advance.
package session

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"time"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/errors"
)

// Source is the track list the session plays from. The library implements it.
type Source interface {
	Len() int
	TrackAt(i int) (core.Track, bool)
}

// Session is the playback state machine. All mutations run under one lock;
// engine commands are issued outside it so engine events can re-enter
// HandleEvent without deadlocking.
type Session struct {
	mu       sync.Mutex
	engine   Engine
	source   Source
	current  int
	playing  bool
	position time.Duration
	duration time.Duration
	volume   float64
	shuffle  bool
	loop     core.LoopMode

	// gen increments on every new playback request. A request that was
	// superseded before reaching the engine never gets there, and a late
	// outcome for one that did is discarded.
	gen uint64

	loads chan loadRequest
	quit  chan struct{}

	onChange func(core.PlaybackState)
	onError  func(error)
}

// loadRequest identifies one playback request handed to the load loop.
type loadRequest struct {
	gen  uint64
	path string
}

// New creates a session playing from source through engine.
func New(engine Engine, source Source) *Session {
	s := &Session{
		engine:  engine,
		source:  source,
		current: core.NoTrack,
		volume:  1.0,
		loads:   make(chan loadRequest, 1),
		quit:    make(chan struct{}),
	}
	go s.loadLoop()
	return s
}

// SetChangeHandler registers the state observer. Set it before issuing
// commands; it is invoked after every state change.
func (s *Session) SetChangeHandler(fn func(core.PlaybackState)) {
	s.onChange = fn
}

// SetErrorHandler registers the observer for playback failures.
func (s *Session) SetErrorHandler(fn func(error)) {
	s.onError = fn
}

// State returns a snapshot of the current playback state.
func (s *Session) State() core.PlaybackState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() core.PlaybackState {
	st := core.PlaybackState{
		Index:     s.current,
		IsPlaying: s.playing,
		Position:  s.position,
		Duration:  s.duration,
		Volume:    s.volume,
		Shuffle:   s.shuffle,
		Loop:      s.loop,
	}
	if s.current != core.NoTrack {
		if t, ok := s.source.TrackAt(s.current); ok {
			st.Track = &t
		}
	}
	return st
}

func (s *Session) emit(st core.PlaybackState) {
	if s.onChange != nil {
		s.onChange(st)
	}
}

func (s *Session) fail(err error) {
	if s.onError != nil {
		s.onError(err)
	}
}

// Play starts playback of the track at index. Out-of-range indices are
// ignored. The current index updates immediately; the engine load happens
// asynchronously and a failure reverts the session to idle.
func (s *Session) Play(index int) {
	s.mu.Lock()
	track, ok := s.source.TrackAt(index)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.startLocked(index, track.Path)
}

// startLocked records the new current index and hands the load to the load
// loop. It releases the lock and emits the intermediate "loading" state.
func (s *Session) startLocked(index int, path string) {
	s.current = index
	s.playing = false
	s.position = 0
	s.duration = 0
	s.gen++
	gen := s.gen
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(st)
	s.enqueueLoad(loadRequest{gen: gen, path: path})
}

// enqueueLoad hands a request to the load loop, displacing any queued
// request that has not started yet. Newest wins.
func (s *Session) enqueueLoad(req loadRequest) {
	for {
		select {
		case s.loads <- req:
			return
		default:
			select {
			case <-s.loads:
			default:
			}
		}
	}
}

// loadLoop executes load requests one at a time, so a superseded request
// cannot drive the engine after a newer one has taken over.
func (s *Session) loadLoop() {
	for {
		select {
		case <-s.quit:
			return
		case req := <-s.loads:
			s.load(req.gen, req.path)
		}
	}
}

// superseded reports whether a newer request has replaced gen.
func (s *Session) superseded(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gen != s.gen
}

func (s *Session) load(gen uint64, path string) {
	if s.superseded(gen) {
		return
	}

	err := s.engine.Load(path)
	if s.superseded(gen) {
		// A newer request arrived while the load ran. The stale track must
		// not start; unload it so nothing lingers if the session went idle.
		_ = s.engine.Stop()
		return
	}
	if err == nil {
		err = s.engine.Play()
	}

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		_ = s.engine.Stop()
		return
	}
	if err != nil {
		s.current = core.NoTrack
		s.playing = false
		s.position = 0
		s.duration = 0
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(st)
		s.fail(fmt.Errorf("%s: %w", filepath.Base(path), errors.ErrPlaybackStart))
		return
	}
	s.playing = true
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(st)
}

// Pause pauses playback. No-op when idle or already paused.
func (s *Session) Pause() {
	s.mu.Lock()
	if s.current == core.NoTrack || !s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = false
	st := s.snapshotLocked()
	s.mu.Unlock()

	_ = s.engine.Pause()
	s.emit(st)
}

// Resume resumes playback. No-op when idle or already playing.
func (s *Session) Resume() {
	s.mu.Lock()
	if s.current == core.NoTrack || s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = true
	st := s.snapshotLocked()
	s.mu.Unlock()

	_ = s.engine.Resume()
	s.emit(st)
}

// TogglePlay pauses when playing and resumes when paused.
func (s *Session) TogglePlay() {
	s.mu.Lock()
	playing := s.playing
	s.mu.Unlock()

	if playing {
		s.Pause()
	} else {
		s.Resume()
	}
}

// Stop halts the engine and resets the session to idle.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.current == core.NoTrack {
		s.mu.Unlock()
		return
	}
	s.current = core.NoTrack
	s.playing = false
	s.position = 0
	s.duration = 0
	s.gen++
	st := s.snapshotLocked()
	s.mu.Unlock()

	_ = s.engine.Stop()
	s.emit(st)
}

// Seek jumps to the given position. Bounds are left to the engine, which
// may clamp; position ticks correct the mirrored value.
func (s *Session) Seek(d time.Duration) {
	s.mu.Lock()
	if s.current == core.NoTrack {
		s.mu.Unlock()
		return
	}
	s.position = d
	st := s.snapshotLocked()
	s.mu.Unlock()

	_ = s.engine.Seek(d)
	s.emit(st)
}

// SetVolume clamps the fraction to [0,1], forwards it to the engine, and
// mirrors it into session state regardless of engine acknowledgment.
func (s *Session) SetVolume(fraction float64) {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	s.mu.Lock()
	s.volume = fraction
	st := s.snapshotLocked()
	s.mu.Unlock()

	_ = s.engine.SetVolume(fraction)
	s.emit(st)
}

// Volume returns the current volume fraction.
func (s *Session) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// ToggleShuffle flips shuffle mode without changing the current track.
func (s *Session) ToggleShuffle() bool {
	s.mu.Lock()
	s.shuffle = !s.shuffle
	on := s.shuffle
	st := s.snapshotLocked()
	s.mu.Unlock()

	s.emit(st)
	return on
}

// SetShuffle sets shuffle mode directly (used for config defaults).
func (s *Session) SetShuffle(on bool) {
	s.mu.Lock()
	s.shuffle = on
	st := s.snapshotLocked()
	s.mu.Unlock()
	s.emit(st)
}

// CycleLoopMode advances off → all → one → off. The mode is forwarded to
// the engine for consistency, but completion-driven advance here stays
// authoritative.
func (s *Session) CycleLoopMode() core.LoopMode {
	s.mu.Lock()
	s.loop = s.loop.Cycle()
	mode := s.loop
	st := s.snapshotLocked()
	s.mu.Unlock()

	_ = s.engine.SetLoopMode(mode)
	s.emit(st)
	return mode
}

// SetLoopMode sets the loop mode directly (used for config defaults).
func (s *Session) SetLoopMode(mode core.LoopMode) {
	s.mu.Lock()
	s.loop = mode
	st := s.snapshotLocked()
	s.mu.Unlock()

	_ = s.engine.SetLoopMode(mode)
	s.emit(st)
}

// Next skips forward. Shuffle picks a random other track; otherwise the
// index advances by one, wrapping to 0 only under repeat-all. No-op at the
// end of the list otherwise.
func (s *Session) Next() {
	s.mu.Lock()
	n := s.source.Len()
	if s.current == core.NoTrack || n == 0 {
		s.mu.Unlock()
		return
	}

	var next int
	switch {
	case s.shuffle:
		next = s.randomNextLocked()
	case s.current >= n-1:
		if s.loop != core.LoopAll {
			s.mu.Unlock()
			return
		}
		next = 0
	default:
		next = s.current + 1
	}

	track, ok := s.source.TrackAt(next)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.startLocked(next, track.Path)
}

// Previous moves back one position. No-op at index 0; it does not wrap.
func (s *Session) Previous() {
	s.mu.Lock()
	if s.current == core.NoTrack || s.current == 0 {
		s.mu.Unlock()
		return
	}

	next := s.current - 1
	track, ok := s.source.TrackAt(next)
	if !ok {
		s.mu.Unlock()
		return
	}
	s.startLocked(next, track.Path)
}

// HandleEvent processes an asynchronous engine event. Events are handled
// one at a time, each running to completion.
func (s *Session) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventDuration:
		s.mu.Lock()
		s.duration = ev.Duration
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(st)

	case EventPosition:
		s.mu.Lock()
		s.position = ev.Position
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(st)

	case EventState:
		s.mu.Lock()
		s.playing = ev.Playing
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(st)

	case EventCompleted:
		s.advance()
	}
}

// advance resolves what plays after the current track completes.
func (s *Session) advance() {
	s.mu.Lock()
	if s.current == core.NoTrack {
		s.mu.Unlock()
		return
	}

	next, halt := s.resolveNextLocked()
	if halt {
		// End of list: playback stops but the index keeps pointing at the
		// last track rather than resetting to idle.
		s.playing = false
		s.position = 0
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(st)
		return
	}

	track, ok := s.source.TrackAt(next)
	if !ok {
		// The library changed shape while the track played; go idle.
		s.current = core.NoTrack
		s.playing = false
		s.position = 0
		s.duration = 0
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(st)
		return
	}
	s.startLocked(next, track.Path)
}

// resolveNextLocked applies the completion rules in strict priority order:
// repeat-one, shuffle, wrap under repeat-all, plain advance. The second
// return value is true when playback should halt at the end of the list.
func (s *Session) resolveNextLocked() (int, bool) {
	n := s.source.Len()
	switch {
	case n == 0:
		return s.current, true
	case s.loop == core.LoopOne:
		return s.current, false
	case s.shuffle:
		return s.randomNextLocked(), false
	case s.current >= n-1:
		if s.loop == core.LoopAll {
			return 0, false
		}
		return s.current, true
	default:
		return s.current + 1, false
	}
}

// randomNextLocked picks a uniformly random index among all tracks except
// the current one. With a single track it replays that track.
func (s *Session) randomNextLocked() int {
	n := s.source.Len()
	if n <= 1 || s.current == core.NoTrack {
		return s.current
	}
	i := rand.IntN(n - 1)
	if i >= s.current {
		i++
	}
	return i
}

// HandleTrackRemoved keeps the session consistent after the library removes
// the track at index i. Removing the active track stops playback and resets
// to idle; removing an earlier track shifts the current index down.
func (s *Session) HandleTrackRemoved(i int) {
	s.mu.Lock()
	switch {
	case s.current == core.NoTrack || i > s.current:
		s.mu.Unlock()
		return

	case i == s.current:
		s.current = core.NoTrack
		s.playing = false
		s.position = 0
		s.duration = 0
		s.gen++
		st := s.snapshotLocked()
		s.mu.Unlock()
		_ = s.engine.Stop()
		s.emit(st)

	default: // i < s.current
		s.current--
		st := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(st)
	}
}

// Close stops playback, shuts the load loop down and releases the engine.
func (s *Session) Close() error {
	s.Stop()
	close(s.quit)
	return s.engine.Close()
}
