package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/tui/styles"
)

// TrackList is a scrollable cursor list of tracks, used for both the
// library and the liked panel.
type TrackList struct {
	title  string
	cursor int
	offset int
	empty  string
}

// NewTrackList creates a track list panel with the given title and
// empty-state message.
func NewTrackList(title, empty string) *TrackList {
	return &TrackList{title: title, empty: empty}
}

// CursorDown moves the cursor down within n items.
func (l *TrackList) CursorDown(n int) {
	if l.cursor < n-1 {
		l.cursor++
	}
}

// CursorUp moves the cursor up.
func (l *TrackList) CursorUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// Cursor returns the cursor position.
func (l *TrackList) Cursor() int {
	return l.cursor
}

// Clamp keeps the cursor within n items after the list shrinks.
func (l *TrackList) Clamp(n int) {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// Render renders the panel. currentPath marks the session's active track
// when it appears in this list; pass "" to disable.
func (l *TrackList) Render(tracks []core.Track, liked func(string) bool, currentPath string, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("%s (%d)", l.title, len(tracks)), focused)

	var content string
	if len(tracks) == 0 {
		content = styles.Muted.Render(l.empty)
	} else {
		content = l.renderTracks(tracks, liked, currentPath, width-4, height-4)
	}

	panel := styles.Panel(focused).
		Width(width).
		Height(height)

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		content,
	))
}

func (l *TrackList) renderTracks(tracks []core.Track, liked func(string) bool, currentPath string, width, height int) string {
	if height < 1 {
		height = 1
	}

	// Keep the cursor visible.
	if l.cursor < l.offset {
		l.offset = l.cursor
	}
	if l.cursor >= l.offset+height {
		l.offset = l.cursor - height + 1
	}

	end := l.offset + height
	if end > len(tracks) {
		end = len(tracks)
	}

	var lines []string
	for i := l.offset; i < end; i++ {
		t := tracks[i]

		marker := "  "
		if t.Path == currentPath && currentPath != "" {
			marker = styles.Playing.Render("▶ ")
		}

		heart := "  "
		if liked != nil && liked(t.Path) {
			heart = styles.Liked.Render("♥ ")
		}

		name := t.Name
		size := ""
		if t.Size > 0 {
			size = " " + styles.Dim.Render(humanize.Bytes(uint64(t.Size)))
		}

		line := marker + heart + name + size
		style := lipgloss.NewStyle().MaxWidth(width)
		if i == l.cursor {
			style = style.Background(styles.Border)
		}
		lines = append(lines, style.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
