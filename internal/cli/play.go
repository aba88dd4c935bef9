package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/engine"
	"github.com/mbaklund/vinyl/internal/errors"
	"github.com/mbaklund/vinyl/internal/library"
	"github.com/mbaklund/vinyl/internal/picker"
	"github.com/mbaklund/vinyl/internal/wizard"
)

var (
	playShuffle bool
	playLoop    string
	playVolume  int
)

var playCmd = &cobra.Command{
	Use:   "play [file|directory...]",
	Short: "Play audio files without the dashboard",
	Long: `Play plays the given files or directories in order and exits when the
last track finishes. With no arguments it offers a selection from the
configured music directory.`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&playShuffle, "shuffle", false, "play tracks in random order")
	playCmd.Flags().StringVar(&playLoop, "loop", "", "loop mode: off, all, one")
	playCmd.Flags().IntVar(&playVolume, "volume", -1, "playback volume (0-100)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	pick := picker.New(cfg.Library.Extensions)

	paths := args
	if len(paths) == 0 {
		if cfg.Library.MusicDir == "" {
			return errors.WithSuggestion(errors.ErrNoTracks,
				"Pass files to play, or set music_dir in ~/.vinylrc")
		}
		paths = []string{cfg.Library.MusicDir}
	}

	result := pick.Pick(paths)
	if result.HasErrors() {
		fmt.Fprintln(os.Stderr, result.ErrorSummary())
	}

	tracks := result.Data
	if len(tracks) == 0 {
		return errors.ErrNoTracks
	}

	// With no explicit arguments, let the user narrow the selection.
	if len(args) == 0 && wizard.CanInteract() {
		selected, err := wizard.PickFiles(tracks)
		if err != nil {
			return err
		}
		if len(selected) == 0 {
			return nil
		}
		tracks = selected
	}

	lib := library.New()
	lib.AddTracks(tracks)

	eng := engine.New()
	sess := newSession(eng, lib)
	defer sess.Close()

	if cmd.Flags().Changed("shuffle") {
		sess.SetShuffle(playShuffle)
	}
	if playLoop != "" {
		sess.SetLoopMode(core.ParseLoopMode(playLoop))
	}
	if playVolume >= 0 {
		sess.SetVolume(float64(playVolume) / 100)
	}

	states := make(chan core.PlaybackState, 128)
	errCh := make(chan error, 16)
	sess.SetChangeHandler(func(st core.PlaybackState) {
		select {
		case states <- st:
		default:
		}
	})
	sess.SetErrorHandler(func(err error) {
		select {
		case errCh <- err:
		default:
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	sess.Play(0)

	return waitForPlayback(states, errCh, sigCh)
}

// waitForPlayback blocks until playback comes to rest or the user
// interrupts. A short grace period distinguishes the gap between tracks
// from the end of the queue.
func waitForPlayback(states <-chan core.PlaybackState, errCh <-chan error, sigCh <-chan os.Signal) error {
	var settle <-chan time.Time
	lastPath := ""

	for {
		select {
		case st := <-states:
			if st.HasTrack() && st.Track.Path != lastPath {
				lastPath = st.Track.Path
				fmt.Printf("▶ %s\n", st.Track.Name)
			}
			if st.IsPlaying {
				settle = nil
			} else {
				settle = time.After(2 * time.Second)
			}

		case err := <-errCh:
			fmt.Fprintln(os.Stderr, errors.Format(err))
			settle = time.After(2 * time.Second)

		case <-settle:
			return nil

		case <-sigCh:
			fmt.Println()
			return nil
		}
	}
}
