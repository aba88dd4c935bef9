// Package picker resolves user-supplied paths into playable library entries.
// It is the boundary between "files the user pointed at" and "tracks the
// library will accept": directories are walked, unsupported or unreadable
// entries are skipped and reported rather than added.
package picker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/errors"
)

// Picker selects playable audio files from the filesystem.
type Picker struct {
	extensions map[string]bool
}

// New creates a Picker accepting the given file extensions (e.g. ".mp3").
func New(extensions []string) *Picker {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Picker{extensions: exts}
}

// Playable reports whether the path has an accepted audio extension.
func (p *Picker) Playable(path string) bool {
	return p.extensions[strings.ToLower(filepath.Ext(path))]
}

// Pick expands the given paths into tracks. Each argument may be a file or a
// directory; directories are walked recursively. Entries that cannot be
// resolved to a playable file are skipped and recorded as errors so the
// caller can surface a notice, while the remaining files still proceed.
func (p *Picker) Pick(paths []string) *errors.PartialResult[[]core.Track] {
	result := &errors.PartialResult[[]core.Track]{}

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			result.AddError(fmt.Errorf("%s: %w", path, err))
			continue
		}

		info, err := os.Stat(abs)
		if err != nil {
			result.AddError(fmt.Errorf("%s: %w", path, err))
			continue
		}

		if info.IsDir() {
			tracks, err := p.walk(abs)
			if err != nil {
				result.AddError(fmt.Errorf("%s: %w", path, err))
				continue
			}
			result.Data = append(result.Data, tracks...)
			continue
		}

		if !p.Playable(abs) {
			result.AddError(fmt.Errorf("%s: %w", filepath.Base(path), errors.ErrUnsupportedFormat))
			continue
		}

		result.Data = append(result.Data, core.Track{
			Path: abs,
			Name: filepath.Base(abs),
			Size: info.Size(),
		})
	}

	return result
}

// walk collects playable files under dir in a stable, sorted order.
func (p *Picker) walk(dir string) ([]core.Track, error) {
	var tracks []core.Track

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !p.Playable(d.Name()) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Entry vanished mid-walk; skip it.
			return nil
		}

		tracks = append(tracks, core.Track{
			Path: path,
			Name: d.Name(),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tracks, func(i, j int) bool { return tracks[i].Path < tracks[j].Path })
	return tracks, nil
}
