package core

// Track represents a single playable audio file. The filesystem path is the
// track's identity for the lifetime of the session.
type Track struct {
	Path    string `json:"path"`
	Name    string `json:"name"`
	Size    int64  `json:"size,omitempty"`
	Artwork []byte `json:"-"` // reserved, never populated
}

// Playlist is a named, ordered collection of track references. Entries are
// track paths; a path appears at most once per playlist.
type Playlist struct {
	Name  string   `json:"name"`
	Paths []string `json:"paths"`
}

// Contains reports whether the playlist already references the given path.
func (p *Playlist) Contains(path string) bool {
	for _, q := range p.Paths {
		if q == path {
			return true
		}
	}
	return false
}

// Len returns the number of tracks referenced by the playlist.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Paths)
}
