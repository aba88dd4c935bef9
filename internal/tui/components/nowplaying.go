package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/tui/styles"
)

// NowPlaying renders the transport: a one-line mini player by default, or
// an expanded full panel.
type NowPlaying struct{}

// NewNowPlaying creates a new NowPlaying component.
func NewNowPlaying() *NowPlaying {
	return &NowPlaying{}
}

// RenderMini renders the compact player row.
func (n *NowPlaying) RenderMini(state *core.PlaybackState, width int) string {
	if !state.HasTrack() {
		return styles.Muted.Render("Nothing playing — press enter on a track")
	}

	icon := styles.StatusIcon(state.IsPlaying)
	name := styles.Title.Render(state.Track.Name)
	times := styles.Dim.Render(fmt.Sprintf("%s / %s", formatDuration(state.Position), formatDuration(state.Duration)))
	flags := styles.Muted.Render(transportFlags(state))

	line := fmt.Sprintf("%s %s  %s  %s", icon, name, times, flags)
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// RenderFull renders the expanded player panel.
func (n *NowPlaying) RenderFull(state *core.PlaybackState, width, height int) string {
	title := styles.PanelTitle("Now Playing", true)

	var content string
	if !state.HasTrack() {
		content = styles.Muted.Render("Nothing playing")
	} else {
		content = n.renderTrack(state, width-4)
	}

	panel := styles.Panel(true).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (n *NowPlaying) renderTrack(state *core.PlaybackState, width int) string {
	icon := styles.StatusIcon(state.IsPlaying)
	name := styles.Title.Width(width - 4).Render(state.Track.Name)
	path := styles.Dim.Render(state.Track.Path)

	progressWidth := width - 14
	if progressWidth < 10 {
		progressWidth = 10
	}
	bar := styles.ProgressBar(state.ProgressPercent(), progressWidth)
	progress := fmt.Sprintf("%s %s %s",
		formatDuration(state.Position), bar, formatDuration(state.Duration))

	volume := fmt.Sprintf("🔊 %d%%", int(state.Volume*100))
	info := styles.Muted.Render(volume + "  " + transportFlags(state))

	return lipgloss.JoinVertical(lipgloss.Left,
		icon+" "+name,
		"  "+path,
		"",
		progress,
		"",
		info,
	)
}

// transportFlags shows shuffle and loop state, e.g. "⇄ shuffle  ↻ all".
func transportFlags(state *core.PlaybackState) string {
	out := ""
	if state.Shuffle {
		out += "⇄ shuffle"
	}
	if state.Loop != core.LoopOff {
		if out != "" {
			out += "  "
		}
		out += "↻ " + state.Loop.String()
	}
	return out
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	if m >= 60 {
		return fmt.Sprintf("%d:%02d:%02d", m/60, m%60, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
