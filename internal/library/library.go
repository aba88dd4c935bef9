// Package library owns the in-memory track collections: the flat track
// list, the liked set, and named playlists. Nothing here is persisted;
// the library lives for the process lifetime only.
package library

import (
	"strings"
	"sync"

	"github.com/mbaklund/vinyl/internal/core"
)

// Library is the store for all tracks the user has added this session.
type Library struct {
	mu        sync.RWMutex
	tracks    []core.Track
	liked     []string // track paths, insertion-ordered for display
	playlists []core.Playlist
	listeners []func()
}

// New creates an empty Library.
func New() *Library {
	return &Library{}
}

// Subscribe registers a listener invoked after every mutation. Listeners
// must not call back into the Library.
func (l *Library) Subscribe(fn func()) {
	l.mu.Lock()
	l.listeners = append(l.listeners, fn)
	l.mu.Unlock()
}

// AddTracks appends tracks to the end of the list and returns how many were
// added. Duplicates by path are allowed at this layer.
func (l *Library) AddTracks(tracks []core.Track) int {
	if len(tracks) == 0 {
		return 0
	}

	l.mu.Lock()
	l.tracks = append(l.tracks, tracks...)
	listeners := l.listeners
	l.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return len(tracks)
}

// Tracks returns a copy of the track list.
func (l *Library) Tracks() []core.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tracks := make([]core.Track, len(l.tracks))
	copy(tracks, l.tracks)
	return tracks
}

// Len returns the number of tracks in the library.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tracks)
}

// TrackAt returns the track at the given index.
func (l *Library) TrackAt(i int) (core.Track, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.tracks) {
		return core.Track{}, false
	}
	return l.tracks[i], true
}

// IndexOf returns the current index of the track with the given path, or
// core.NoTrack if it is no longer in the library. Stale playlist and liked
// references resolve here to "not found".
func (l *Library) IndexOf(path string) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i, t := range l.tracks {
		if t.Path == path {
			return i
		}
	}
	return core.NoTrack
}

// RemoveTrack removes the track at index i. The caller composing library
// and playback session is responsible for stopping playback if i is the
// session's current index.
func (l *Library) RemoveTrack(i int) bool {
	l.mu.Lock()
	if i < 0 || i >= len(l.tracks) {
		l.mu.Unlock()
		return false
	}
	l.tracks = append(l.tracks[:i], l.tracks[i+1:]...)
	listeners := l.listeners
	l.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// ToggleLiked adds the path to the liked set, or removes it if present.
func (l *Library) ToggleLiked(path string) {
	l.mu.Lock()
	removed := false
	for i, p := range l.liked {
		if p == path {
			l.liked = append(l.liked[:i], l.liked[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		l.liked = append(l.liked, path)
	}
	listeners := l.listeners
	l.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// IsLiked reports whether the path is in the liked set.
func (l *Library) IsLiked(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, p := range l.liked {
		if p == path {
			return true
		}
	}
	return false
}

// Liked returns the liked tracks in the order they were liked. Paths that
// no longer resolve to a library track are omitted from display.
func (l *Library) Liked() []core.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []core.Track
	for _, path := range l.liked {
		for _, t := range l.tracks {
			if t.Path == path {
				out = append(out, t)
				break
			}
		}
	}
	return out
}

// CreatePlaylist appends a new empty playlist. Names are trimmed; an empty
// name is silently rejected. Duplicate names are permitted.
func (l *Library) CreatePlaylist(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}

	l.mu.Lock()
	l.playlists = append(l.playlists, core.Playlist{Name: name})
	listeners := l.listeners
	l.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// Playlists returns a copy of the playlists.
func (l *Library) Playlists() []core.Playlist {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]core.Playlist, len(l.playlists))
	for i, p := range l.playlists {
		out[i] = core.Playlist{Name: p.Name, Paths: append([]string(nil), p.Paths...)}
	}
	return out
}

// AddToPlaylist appends the path to the playlist at index i unless the
// playlist already references it. Returns true if the playlist changed.
func (l *Library) AddToPlaylist(i int, path string) bool {
	l.mu.Lock()
	if i < 0 || i >= len(l.playlists) {
		l.mu.Unlock()
		return false
	}
	if l.playlists[i].Contains(path) {
		l.mu.Unlock()
		return false
	}
	l.playlists[i].Paths = append(l.playlists[i].Paths, path)
	listeners := l.listeners
	l.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
	return true
}

// PlaylistTracks resolves the playlist at index i against the current
// track list. Stale references are skipped.
func (l *Library) PlaylistTracks(i int) []core.Track {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if i < 0 || i >= len(l.playlists) {
		return nil
	}

	var out []core.Track
	for _, path := range l.playlists[i].Paths {
		for _, t := range l.tracks {
			if t.Path == path {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
