package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/mbaklund/vinyl/internal/errors"
	"github.com/mbaklund/vinyl/internal/picker"
)

var scanCmd = &cobra.Command{
	Use:   "scan [directory...]",
	Short: "List playable files under a directory",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		if cfg.Library.MusicDir == "" {
			return errors.WithSuggestion(errors.ErrNoTracks,
				"Pass a directory to scan, or set music_dir in ~/.vinylrc")
		}
		paths = []string{cfg.Library.MusicDir}
	}

	pick := picker.New(cfg.Library.Extensions)
	result := pick.Pick(paths)

	if jsonOut {
		data, err := json.MarshalIndent(result.Data, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		for _, t := range result.Data {
			fmt.Printf("%-50s %10s  %s\n", t.Name, humanize.Bytes(uint64(t.Size)), t.Path)
		}
		fmt.Printf("\n%d playable file(s)\n", len(result.Data))
	}

	if result.HasErrors() {
		fmt.Fprintln(os.Stderr, result.ErrorSummary())
	}

	return nil
}
