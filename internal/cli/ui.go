package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/engine"
	"github.com/mbaklund/vinyl/internal/library"
	"github.com/mbaklund/vinyl/internal/picker"
	"github.com/mbaklund/vinyl/internal/session"
	"github.com/mbaklund/vinyl/internal/tui"
)

// runUI scans the configured music directory and starts the dashboard.
func runUI() error {
	lib := library.New()
	pick := picker.New(cfg.Library.Extensions)

	if cfg.Library.MusicDir != "" {
		result := pick.Pick([]string{cfg.Library.MusicDir})
		lib.AddTracks(result.Data)
		if result.HasErrors() && verbose {
			fmt.Fprintln(os.Stderr, result.ErrorSummary())
		}
	}

	eng := engine.New()
	sess := newSession(eng, lib)
	defer sess.Close()

	if cfg.Library.Watch && cfg.Library.MusicDir != "" {
		w, err := library.NewWatcher(lib, pick, cfg.Library.MusicDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "watch disabled: %v\n", err)
		} else {
			defer w.Close()
		}
	}

	refresh := time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond
	return tui.Run(lib, sess, cfg.TUI.Theme, refresh)
}

// newSession builds a session wired to the engine and seeded with the
// configured playback defaults.
func newSession(eng *engine.Engine, lib *library.Library) *session.Session {
	sess := session.New(eng, lib)
	eng.SetHandler(sess.HandleEvent)

	sess.SetVolume(float64(*cfg.Defaults.Volume) / 100)
	sess.SetShuffle(cfg.Defaults.Shuffle)
	sess.SetLoopMode(core.ParseLoopMode(cfg.Defaults.Repeat))

	return sess
}
