package wizard

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/mbaklund/vinyl/internal/core"
)

// PickFiles prompts the user to choose tracks from the given candidates.
// Returns the selection in candidate order, or nil if cancelled.
func PickFiles(candidates []core.Track) ([]core.Track, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	options := make([]huh.Option[string], len(candidates))
	for i, t := range candidates {
		label := t.Name
		if t.Size > 0 {
			label = fmt.Sprintf("%s (%s)", t.Name, humanize.Bytes(uint64(t.Size)))
		}
		options[i] = huh.NewOption(label, t.Path)
	}

	var chosen []string
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title("Add to library").
			Description("space to toggle, enter to confirm").
			Options(options...).
			Value(&chosen),
	))
	if err := form.Run(); err != nil {
		if err == huh.ErrUserAborted {
			return nil, nil
		}
		return nil, err
	}

	selected := make(map[string]bool, len(chosen))
	for _, path := range chosen {
		selected[path] = true
	}

	var out []core.Track
	for _, t := range candidates {
		if selected[t.Path] {
			out = append(out, t)
		}
	}
	return out, nil
}
