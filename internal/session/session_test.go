package session

import (
	"sync"
	"testing"
	"time"

	"github.com/mbaklund/vinyl/internal/core"
	vinylerrors "github.com/mbaklund/vinyl/internal/errors"

	"errors"
)

// sliceSource is a fixed track list.
type sliceSource []core.Track

func (s sliceSource) Len() int { return len(s) }

func (s sliceSource) TrackAt(i int) (core.Track, bool) {
	if i < 0 || i >= len(s) {
		return core.Track{}, false
	}
	return s[i], true
}

func tracks(n int) sliceSource {
	src := make(sliceSource, n)
	for i := range src {
		src[i] = core.Track{Path: "/music/" + string(rune('a'+i)) + ".mp3", Name: string(rune('a'+i)) + ".mp3"}
	}
	return src
}

// fakeEngine records commands and can be told to fail or block loads.
type fakeEngine struct {
	mu        sync.Mutex
	loads     []string
	loaded    string
	played    []string
	failPaths map[string]bool
	blockPath string
	release   chan struct{}
	playing   bool
	volume    float64
	seeked    time.Duration
	loop      core.LoopMode
	stops     int
	pauses    int
	resumes   int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{failPaths: map[string]bool{}, release: make(chan struct{})}
}

func (e *fakeEngine) Load(path string) error {
	e.mu.Lock()
	block := path == e.blockPath
	e.loads = append(e.loads, path)
	e.loaded = path
	fail := e.failPaths[path]
	e.mu.Unlock()

	if block {
		<-e.release
	}
	if fail {
		return errors.New("decode failed")
	}
	return nil
}

func (e *fakeEngine) Play() error {
	e.mu.Lock()
	e.playing = true
	e.played = append(e.played, e.loaded)
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) Pause() error {
	e.mu.Lock()
	e.playing = false
	e.pauses++
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) Resume() error {
	e.mu.Lock()
	e.playing = true
	e.resumes++
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) Stop() error {
	e.mu.Lock()
	e.playing = false
	e.stops++
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) Seek(d time.Duration) error {
	e.mu.Lock()
	e.seeked = d
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) SetVolume(f float64) error {
	e.mu.Lock()
	e.volume = f
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) SetLoopMode(m core.LoopMode) error {
	e.mu.Lock()
	e.loop = m
	e.mu.Unlock()
	return nil
}

func (e *fakeEngine) Close() error { return nil }

func (e *fakeEngine) loadCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.loads)
}

func (e *fakeEngine) playedPaths() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.played...)
}

// harness wires a session to channels the tests can wait on.
type harness struct {
	session *Session
	engine  *fakeEngine
	states  chan core.PlaybackState
	errs    chan error
}

func newHarness(src Source) *harness {
	engine := newFakeEngine()
	s := New(engine, src)
	h := &harness{
		session: s,
		engine:  engine,
		states:  make(chan core.PlaybackState, 256),
		errs:    make(chan error, 16),
	}
	s.SetChangeHandler(func(st core.PlaybackState) { h.states <- st })
	s.SetErrorHandler(func(err error) { h.errs <- err })
	return h
}

func (h *harness) waitState(t *testing.T, pred func(core.PlaybackState) bool) core.PlaybackState {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-h.states:
			if pred(st) {
				return st
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state, last known: %+v", h.session.State())
		}
	}
}

func (h *harness) waitError(t *testing.T) error {
	t.Helper()
	select {
	case err := <-h.errs:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error")
		return nil
	}
}

func playing(i int) func(core.PlaybackState) bool {
	return func(st core.PlaybackState) bool { return st.Index == i && st.IsPlaying }
}

func TestPlayOutOfRangeIsNoop(t *testing.T) {
	h := newHarness(tracks(2))

	h.session.Play(-1)
	h.session.Play(2)

	st := h.session.State()
	if st.Index != core.NoTrack || st.IsPlaying {
		t.Errorf("state changed: %+v", st)
	}
	if h.engine.loadCount() != 0 {
		t.Errorf("engine loaded %d tracks, want 0", h.engine.loadCount())
	}
}

func TestPlaySetsIndexBeforeEngineConfirms(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.engine.blockPath = src[1].Path

	h.session.Play(1)

	// The current index reflects the request before the load resolves.
	if st := h.session.State(); st.Index != 1 || st.IsPlaying {
		t.Errorf("loading state = %+v, want index 1, not playing", st)
	}

	close(h.engine.release)
	h.waitState(t, playing(1))
}

func TestPlayFailureRevertsToIdle(t *testing.T) {
	src := tracks(2)
	h := newHarness(src)
	h.engine.failPaths[src[0].Path] = true

	h.session.Play(0)

	err := h.waitError(t)
	if !errors.Is(err, vinylerrors.ErrPlaybackStart) {
		t.Errorf("error = %v, want ErrPlaybackStart", err)
	}

	st := h.waitState(t, func(st core.PlaybackState) bool { return st.Index == core.NoTrack })
	if st.IsPlaying {
		t.Error("session should not be playing after a failed load")
	}
}

func TestSupersededPlayOutcomeIgnored(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.engine.blockPath = src[0].Path
	h.engine.failPaths[src[0].Path] = true

	h.session.Play(0) // will fail, but only after being superseded
	h.session.Play(1)
	close(h.engine.release)
	h.waitState(t, playing(1))

	// The late failure for track 0 must not disturb the newer session state.
	time.Sleep(50 * time.Millisecond)
	select {
	case err := <-h.errs:
		t.Errorf("superseded failure surfaced: %v", err)
	default:
	}
	if st := h.session.State(); st.Index != 1 || !st.IsPlaying {
		t.Errorf("state = %+v, want index 1 playing", st)
	}
}

func TestSupersededLoadNeverDrivesEngine(t *testing.T) {
	src := tracks(2)
	h := newHarness(src)
	h.engine.blockPath = src[0].Path

	h.session.Play(0) // load stalls in the engine
	h.session.Play(1) // supersedes before the first load resolves

	close(h.engine.release)
	h.waitState(t, playing(1))

	// Only the newest request may start playback; the stale one must not
	// leave the engine playing a track the session no longer reports.
	played := h.engine.playedPaths()
	if len(played) == 0 || played[len(played)-1] != src[1].Path {
		t.Fatalf("engine played %v, want last started track %s", played, src[1].Path)
	}
	for _, p := range played {
		if p == src[0].Path {
			t.Errorf("superseded track %s reached the engine", p)
		}
	}
}

func TestPauseResume(t *testing.T) {
	h := newHarness(tracks(2))

	// No-ops while idle.
	h.session.Pause()
	h.session.Resume()
	if h.engine.pauses != 0 || h.engine.resumes != 0 {
		t.Error("pause/resume while idle should not reach the engine")
	}

	h.session.Play(0)
	h.waitState(t, playing(0))

	// Resume while already playing is a no-op.
	h.session.Resume()
	if h.engine.resumes != 0 {
		t.Error("resume while playing should be a no-op")
	}

	h.session.Pause()
	if st := h.session.State(); st.IsPlaying || st.Index != 0 {
		t.Errorf("state after pause = %+v", st)
	}

	// Pause while already paused is a no-op.
	h.session.Pause()
	if h.engine.pauses != 1 {
		t.Errorf("engine pauses = %d, want 1", h.engine.pauses)
	}

	h.session.Resume()
	if st := h.session.State(); !st.IsPlaying {
		t.Error("resume should restore playing state")
	}
}

func TestStopResetsToIdle(t *testing.T) {
	h := newHarness(tracks(2))
	h.session.Play(1)
	h.waitState(t, playing(1))

	h.session.Stop()

	st := h.session.State()
	if st.Index != core.NoTrack || st.IsPlaying || st.Position != 0 {
		t.Errorf("state after stop = %+v, want idle", st)
	}
	if h.engine.stops != 1 {
		t.Errorf("engine stops = %d, want 1", h.engine.stops)
	}
}

func TestLoopOneReplaysCurrent(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.session.SetLoopMode(core.LoopOne)
	h.session.Play(1)
	h.waitState(t, playing(1))

	before := h.engine.loadCount()
	h.session.HandleEvent(Event{Kind: EventCompleted})

	if st := h.session.State(); st.Index != 1 {
		t.Errorf("index after repeat-one completion = %d, want 1", st.Index)
	}
	h.waitState(t, playing(1))
	if h.engine.loadCount() != before+1 {
		t.Errorf("engine loads = %d, want %d", h.engine.loadCount(), before+1)
	}
}

func TestLoopAllWrapsFromLastToFirst(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.session.SetLoopMode(core.LoopAll)
	h.session.Play(2)
	h.waitState(t, playing(2))

	h.session.HandleEvent(Event{Kind: EventCompleted})

	if st := h.session.State(); st.Index != 0 {
		t.Errorf("index after wrap = %d, want 0", st.Index)
	}
	h.waitState(t, playing(0))
}

func TestHaltAtEndOfList(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.session.Play(2)
	h.waitState(t, playing(2))

	before := h.engine.loadCount()
	h.session.HandleEvent(Event{Kind: EventCompleted})

	st := h.session.State()
	if st.IsPlaying {
		t.Error("playback should halt at the end of the list")
	}
	if st.Index != 2 {
		t.Errorf("index = %d, want 2 (not reset to idle)", st.Index)
	}
	if h.engine.loadCount() != before {
		t.Error("no new track should load after halting")
	}
}

func TestCompletionAdvancesByOne(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.session.Play(0)
	h.waitState(t, playing(0))

	h.session.HandleEvent(Event{Kind: EventCompleted})

	if st := h.session.State(); st.Index != 1 {
		t.Errorf("index = %d, want 1", st.Index)
	}
	h.waitState(t, playing(1))
}

func TestShuffleNextExcludesCurrent(t *testing.T) {
	src := tracks(5)
	engine := newFakeEngine()
	s := New(engine, src)
	s.shuffle = true
	s.current = 2

	counts := make(map[int]int)
	const trials = 4000
	for range trials {
		counts[s.randomNextLocked()]++
	}

	if counts[2] != 0 {
		t.Fatalf("shuffle picked the current index %d times", counts[2])
	}
	// Each of the remaining indices should land near trials/4.
	for _, i := range []int{0, 1, 3, 4} {
		got := counts[i]
		if got < trials/8 || got > trials/2 {
			t.Errorf("index %d picked %d times out of %d, outside uniform bounds", i, got, trials)
		}
	}
}

func TestShuffleSingleTrackReplays(t *testing.T) {
	src := tracks(1)
	h := newHarness(src)
	h.session.SetShuffle(true)
	h.session.Play(0)
	h.waitState(t, playing(0))

	h.session.HandleEvent(Event{Kind: EventCompleted})

	if st := h.session.State(); st.Index != 0 {
		t.Errorf("index = %d, want 0", st.Index)
	}
	h.waitState(t, playing(0))
}

func TestNextAtEndIsNoopWithoutLoopAll(t *testing.T) {
	src := tracks(2)
	h := newHarness(src)
	h.session.Play(1)
	h.waitState(t, playing(1))

	before := h.engine.loadCount()
	h.session.Next()

	if st := h.session.State(); st.Index != 1 || !st.IsPlaying {
		t.Errorf("state = %+v, want unchanged", st)
	}
	if h.engine.loadCount() != before {
		t.Error("Next at end of list should not load anything")
	}
}

func TestNextWrapsUnderLoopAll(t *testing.T) {
	src := tracks(2)
	h := newHarness(src)
	h.session.SetLoopMode(core.LoopAll)
	h.session.Play(1)
	h.waitState(t, playing(1))

	h.session.Next()

	if st := h.session.State(); st.Index != 0 {
		t.Errorf("index = %d, want 0", st.Index)
	}
	h.waitState(t, playing(0))
}

func TestPreviousAtZeroIsNoop(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.session.Play(0)
	h.waitState(t, playing(0))

	before := h.engine.loadCount()
	h.session.Previous()

	if st := h.session.State(); st.Index != 0 || !st.IsPlaying {
		t.Errorf("state = %+v, want unchanged", st)
	}
	if h.engine.loadCount() != before {
		t.Error("Previous at index 0 should not load anything")
	}
}

func TestPreviousMovesBack(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.session.Play(2)
	h.waitState(t, playing(2))

	h.session.Previous()

	if st := h.session.State(); st.Index != 1 {
		t.Errorf("index = %d, want 1", st.Index)
	}
	h.waitState(t, playing(1))
}

func TestSetVolumeClampsAndMirrors(t *testing.T) {
	h := newHarness(tracks(1))

	h.session.SetVolume(1.5)
	if got := h.session.Volume(); got != 1.0 {
		t.Errorf("volume = %v, want clamped to 1.0", got)
	}

	h.session.SetVolume(-0.2)
	if got := h.session.Volume(); got != 0 {
		t.Errorf("volume = %v, want clamped to 0", got)
	}

	h.session.SetVolume(0.3)
	if h.engine.volume != 0.3 {
		t.Errorf("engine volume = %v, want 0.3", h.engine.volume)
	}
	if got := h.session.State().Volume; got != 0.3 {
		t.Errorf("mirrored volume = %v, want 0.3", got)
	}
}

func TestSeekForwardsToEngine(t *testing.T) {
	src := tracks(1)
	h := newHarness(src)

	// Seek while idle is a no-op.
	h.session.Seek(5 * time.Second)
	if h.engine.seeked != 0 {
		t.Error("seek while idle should not reach the engine")
	}

	h.session.Play(0)
	h.waitState(t, playing(0))
	h.session.Seek(42 * time.Second)

	if h.engine.seeked != 42*time.Second {
		t.Errorf("engine seeked = %v, want 42s", h.engine.seeked)
	}
	if got := h.session.State().Position; got != 42*time.Second {
		t.Errorf("mirrored position = %v, want 42s", got)
	}
}

func TestCycleLoopModeForwardsToEngine(t *testing.T) {
	h := newHarness(tracks(1))

	if got := h.session.CycleLoopMode(); got != core.LoopAll {
		t.Errorf("CycleLoopMode() = %v, want LoopAll", got)
	}
	if h.engine.loop != core.LoopAll {
		t.Errorf("engine loop = %v, want LoopAll", h.engine.loop)
	}
	if got := h.session.CycleLoopMode(); got != core.LoopOne {
		t.Errorf("CycleLoopMode() = %v, want LoopOne", got)
	}
	if got := h.session.CycleLoopMode(); got != core.LoopOff {
		t.Errorf("CycleLoopMode() = %v, want LoopOff", got)
	}
}

func TestToggleShuffleDoesNotChangeTrack(t *testing.T) {
	h := newHarness(tracks(3))
	h.session.Play(1)
	h.waitState(t, playing(1))

	if !h.session.ToggleShuffle() {
		t.Error("ToggleShuffle() = false, want true")
	}
	if st := h.session.State(); st.Index != 1 || !st.IsPlaying {
		t.Errorf("state = %+v, want track unchanged", st)
	}
	if h.session.ToggleShuffle() {
		t.Error("second ToggleShuffle() = true, want false")
	}
}

func TestEngineEventsUpdateState(t *testing.T) {
	h := newHarness(tracks(1))
	h.session.Play(0)
	h.waitState(t, playing(0))

	h.session.HandleEvent(Event{Kind: EventDuration, Duration: 3 * time.Minute})
	h.session.HandleEvent(Event{Kind: EventPosition, Position: 90 * time.Second})
	h.session.HandleEvent(Event{Kind: EventState, Playing: false})

	st := h.session.State()
	if st.Duration != 3*time.Minute {
		t.Errorf("duration = %v, want 3m", st.Duration)
	}
	if st.Position != 90*time.Second {
		t.Errorf("position = %v, want 90s", st.Position)
	}
	if st.IsPlaying {
		t.Error("state event should have marked the session paused")
	}
}

func TestRemovingCurrentTrackReachesIdle(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.session.Play(1)
	h.waitState(t, playing(1))

	// Composition logic: remove from library, then inform the session.
	h.session.HandleTrackRemoved(1)

	st := h.session.State()
	if st.Index != core.NoTrack || st.IsPlaying {
		t.Errorf("state = %+v, want idle", st)
	}
	if h.engine.stops != 1 {
		t.Errorf("engine stops = %d, want 1", h.engine.stops)
	}
}

func TestRemovingEarlierTrackShiftsIndex(t *testing.T) {
	src := tracks(3)
	h := newHarness(src)
	h.session.Play(2)
	h.waitState(t, playing(2))

	h.session.HandleTrackRemoved(0)

	st := h.session.State()
	if st.Index != 1 {
		t.Errorf("index = %d, want 1 after earlier removal", st.Index)
	}
	if !st.IsPlaying {
		t.Error("playback should continue after removing a different track")
	}

	// Removing a later track leaves the index alone.
	h.session.HandleTrackRemoved(2)
	if st := h.session.State(); st.Index != 1 {
		t.Errorf("index = %d, want 1 after later removal", st.Index)
	}
}
