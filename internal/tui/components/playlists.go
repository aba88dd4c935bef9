package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/tui/styles"
)

// Playlists renders the playlist panel.
type Playlists struct {
	cursor int
	offset int
}

// NewPlaylists creates a new playlist panel.
func NewPlaylists() *Playlists {
	return &Playlists{}
}

// CursorDown moves the cursor down within n items.
func (p *Playlists) CursorDown(n int) {
	if p.cursor < n-1 {
		p.cursor++
	}
}

// CursorUp moves the cursor up.
func (p *Playlists) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// Cursor returns the cursor position.
func (p *Playlists) Cursor() int {
	return p.cursor
}

// Render renders the panel.
func (p *Playlists) Render(playlists []core.Playlist, width, height int, focused bool) string {
	title := styles.PanelTitle(fmt.Sprintf("Playlists (%d)", len(playlists)), focused)

	var content string
	if len(playlists) == 0 {
		content = styles.Muted.Render("No playlists — press N to create one")
	} else {
		content = p.renderPlaylists(playlists, width-4, height-4)
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

func (p *Playlists) renderPlaylists(playlists []core.Playlist, width, height int) string {
	if height < 1 {
		height = 1
	}
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+height {
		p.offset = p.cursor - height + 1
	}

	end := p.offset + height
	if end > len(playlists) {
		end = len(playlists)
	}

	var lines []string
	for i := p.offset; i < end; i++ {
		pl := playlists[i]
		line := fmt.Sprintf("%s %s", pl.Name, styles.Dim.Render(fmt.Sprintf("(%d)", pl.Len())))

		style := lipgloss.NewStyle().MaxWidth(width)
		if i == p.cursor {
			style = style.Background(styles.Border)
		}
		lines = append(lines, style.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
