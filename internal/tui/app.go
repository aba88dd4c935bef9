// Package tui implements the interactive dashboard: library, playlists and
// liked panels around a mini player that expands into a full view.
package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mbaklund/vinyl/internal/core"
	"github.com/mbaklund/vinyl/internal/errors"
	"github.com/mbaklund/vinyl/internal/library"
	"github.com/mbaklund/vinyl/internal/session"
	"github.com/mbaklund/vinyl/internal/tui/components"
	"github.com/mbaklund/vinyl/internal/tui/styles"
)

// Panel represents which panel is focused.
type Panel int

const (
	PanelLibrary Panel = iota
	PanelPlaylists
	PanelLiked
)

const (
	noticeDuration = 5 * time.Second
	seekStep       = 5 * time.Second
	volumeStep     = 0.05
)

// App holds the wiring between the stores and the bubbletea program.
type App struct {
	lib  *library.Library
	sess *session.Session

	states     chan core.PlaybackState
	errs       chan error
	libChanges chan struct{}
}

// NewApp wires the library and session into channels the TUI consumes.
func NewApp(lib *library.Library, sess *session.Session) *App {
	app := &App{
		lib:        lib,
		sess:       sess,
		states:     make(chan core.PlaybackState, 128),
		errs:       make(chan error, 16),
		libChanges: make(chan struct{}, 16),
	}

	sess.SetChangeHandler(func(st core.PlaybackState) {
		select {
		case app.states <- st:
		default:
		}
	})
	sess.SetErrorHandler(func(err error) {
		select {
		case app.errs <- err:
		default:
		}
	})
	lib.Subscribe(func() {
		select {
		case app.libChanges <- struct{}{}:
		default:
		}
	})

	return app
}

// Run starts the dashboard and blocks until the user quits. The refresh
// interval drives the redraw tick that expires notices.
func Run(lib *library.Library, sess *session.Session, theme string, refresh time.Duration) error {
	styles.SetTheme(theme)

	app := NewApp(lib, sess)
	m := NewModel(app)
	if refresh > 0 {
		m.refresh = refresh
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Model is the dashboard TUI model.
type Model struct {
	app    *App
	width  int
	height int

	focusedPanel Panel
	fullPlayer   bool
	showHelp     bool

	// State copies for rendering
	state     core.PlaybackState
	tracks    []core.Track
	liked     []core.Track
	playlists []core.Playlist

	// Components
	libraryView   *components.TrackList
	likedView     *components.TrackList
	playlistsView *components.Playlists
	nowPlaying    *components.NowPlaying

	// Create-playlist overlay
	showNewPlaylist bool
	nameInput       textinput.Model

	// Add-to-playlist overlay
	showAddTo   bool
	addToCursor int
	addToPath   string

	// Transient notice
	notice       string
	noticeExpiry time.Time

	refresh  time.Duration
	quitting bool
}

// NewModel creates the dashboard model.
func NewModel(app *App) Model {
	ti := textinput.New()
	ti.Placeholder = "Playlist name"
	ti.CharLimit = 60
	ti.Width = 40

	return Model{
		app:           app,
		state:         app.sess.State(),
		tracks:        app.lib.Tracks(),
		liked:         app.lib.Liked(),
		playlists:     app.lib.Playlists(),
		libraryView:   components.NewTrackList("Library", "No tracks — add files with 'vinyl play <file>...'"),
		likedView:     components.NewTrackList("Liked", "Press l on a track to like it"),
		playlistsView: components.NewPlaylists(),
		nowPlaying:    components.NewNowPlaying(),
		nameInput:     ti,
		refresh:       time.Second,
	}
}

// Messages
type stateMsg core.PlaybackState
type errMsg error
type libraryChangedMsg struct{}
type tickMsg time.Time

// Commands
func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		return stateMsg(<-m.app.states)
	}
}

func (m Model) waitForError() tea.Cmd {
	return func() tea.Msg {
		return errMsg(<-m.app.errs)
	}
}

func (m Model) waitForLibrary() tea.Cmd {
	return func() tea.Msg {
		<-m.app.libChanges
		return libraryChangedMsg{}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForState(),
		m.waitForError(),
		m.waitForLibrary(),
		m.tick(),
	)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = core.PlaybackState(msg)
		return m, m.waitForState()

	case errMsg:
		m.setNotice(errors.Format(msg))
		return m, m.waitForError()

	case libraryChangedMsg:
		m.refreshLists()
		return m, m.waitForLibrary()

	case tickMsg:
		if m.notice != "" && time.Now().After(m.noticeExpiry) {
			m.notice = ""
		}
		return m, m.tick()
	}

	if m.showNewPlaylist {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) refreshLists() {
	m.tracks = m.app.lib.Tracks()
	m.liked = m.app.lib.Liked()
	m.playlists = m.app.lib.Playlists()
	m.libraryView.Clamp(len(m.tracks))
	m.likedView.Clamp(len(m.liked))
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeExpiry = time.Now().Add(noticeDuration)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.showNewPlaylist {
		return m.handleNewPlaylistKey(msg)
	}

	if m.showAddTo {
		return m.handleAddToKey(msg)
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "tab":
		m.focusedPanel = (m.focusedPanel + 1) % 3
		return m, nil

	case "shift+tab":
		m.focusedPanel = (m.focusedPanel + 2) % 3
		return m, nil

	case "f":
		m.fullPlayer = !m.fullPlayer
		return m, nil

	// Transport
	case " ":
		m.app.sess.TogglePlay()
		return m, nil
	case "n":
		m.app.sess.Next()
		return m, nil
	case "p":
		m.app.sess.Previous()
		return m, nil
	case "s":
		m.app.sess.ToggleShuffle()
		return m, nil
	case "r":
		m.app.sess.CycleLoopMode()
		return m, nil
	case "+", "=":
		m.app.sess.SetVolume(m.state.Volume + volumeStep)
		return m, nil
	case "-":
		m.app.sess.SetVolume(m.state.Volume - volumeStep)
		return m, nil
	case "right":
		if m.state.HasTrack() {
			m.app.sess.Seek(m.state.Position + seekStep)
		}
		return m, nil
	case "left":
		if m.state.HasTrack() {
			pos := m.state.Position - seekStep
			if pos < 0 {
				pos = 0
			}
			m.app.sess.Seek(pos)
		}
		return m, nil

	case "N":
		m.showNewPlaylist = true
		m.nameInput.SetValue("")
		m.nameInput.Focus()
		return m, textinput.Blink
	}

	return m.handlePanelKey(msg)
}

func (m Model) handlePanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	switch m.focusedPanel {
	case PanelLibrary:
		switch key {
		case "j", "down":
			m.libraryView.CursorDown(len(m.tracks))
		case "k", "up":
			m.libraryView.CursorUp()
		case "enter":
			m.app.sess.Play(m.libraryView.Cursor())
		case "l":
			if t, ok := m.selectedTrack(); ok {
				m.app.lib.ToggleLiked(t.Path)
			}
		case "x":
			i := m.libraryView.Cursor()
			if m.app.lib.RemoveTrack(i) {
				m.app.sess.HandleTrackRemoved(i)
			}
		case "a":
			if t, ok := m.selectedTrack(); ok {
				return m.openAddTo(t.Path), nil
			}
		}

	case PanelLiked:
		switch key {
		case "j", "down":
			m.likedView.CursorDown(len(m.liked))
		case "k", "up":
			m.likedView.CursorUp()
		case "enter":
			if t, ok := m.selectedTrack(); ok {
				m.playByPath(t.Path)
			}
		case "l":
			if t, ok := m.selectedTrack(); ok {
				m.app.lib.ToggleLiked(t.Path)
			}
		case "a":
			if t, ok := m.selectedTrack(); ok {
				return m.openAddTo(t.Path), nil
			}
		}

	case PanelPlaylists:
		switch key {
		case "j", "down":
			m.playlistsView.CursorDown(len(m.playlists))
		case "k", "up":
			m.playlistsView.CursorUp()
		case "enter":
			m.playPlaylist(m.playlistsView.Cursor())
		}
	}

	return m, nil
}

// selectedTrack returns the track under the cursor of the focused panel.
func (m *Model) selectedTrack() (core.Track, bool) {
	switch m.focusedPanel {
	case PanelLibrary:
		i := m.libraryView.Cursor()
		if i >= 0 && i < len(m.tracks) {
			return m.tracks[i], true
		}
	case PanelLiked:
		i := m.likedView.Cursor()
		if i >= 0 && i < len(m.liked) {
			return m.liked[i], true
		}
	}
	return core.Track{}, false
}

// playByPath resolves a liked or playlist reference back to a library
// index. Stale references surface as a notice.
func (m *Model) playByPath(path string) {
	i := m.app.lib.IndexOf(path)
	if i == core.NoTrack {
		m.setNotice(errors.Format(errors.ErrTrackNotFound))
		return
	}
	m.app.sess.Play(i)
}

// playPlaylist starts the first resolvable track of the playlist.
func (m *Model) playPlaylist(i int) {
	if i < 0 || i >= len(m.playlists) {
		return
	}
	for _, path := range m.playlists[i].Paths {
		if idx := m.app.lib.IndexOf(path); idx != core.NoTrack {
			m.app.sess.Play(idx)
			return
		}
	}
	m.setNotice(errors.Format(errors.ErrTrackNotFound))
}

func (m Model) openAddTo(path string) Model {
	if len(m.playlists) == 0 {
		m.setNotice(errors.Format(errors.ErrPlaylistNotFound))
		return m
	}
	m.showAddTo = true
	m.addToCursor = 0
	m.addToPath = path
	return m
}

func (m Model) handleNewPlaylistKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showNewPlaylist = false
		m.nameInput.Blur()
		return m, nil

	case "enter":
		// Empty names are silently rejected by the library.
		m.app.lib.CreatePlaylist(m.nameInput.Value())
		m.showNewPlaylist = false
		m.nameInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m Model) handleAddToKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showAddTo = false
		return m, nil

	case "j", "down":
		if m.addToCursor < len(m.playlists)-1 {
			m.addToCursor++
		}
		return m, nil

	case "k", "up":
		if m.addToCursor > 0 {
			m.addToCursor--
		}
		return m, nil

	case "enter":
		m.app.lib.AddToPlaylist(m.addToCursor, m.addToPath)
		m.showAddTo = false
		return m, nil
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	header := styles.Highlight.Render(" vinyl ") + styles.Dim.Render(" local audio player")

	playerHeight := 3
	if m.fullPlayer {
		playerHeight = 11
	}
	panelHeight := m.height - playerHeight - 4
	if panelHeight < 6 {
		panelHeight = 6
	}

	libWidth := m.width * 40 / 100
	plWidth := m.width * 30 / 100
	likedWidth := m.width - libWidth - plWidth - 6

	currentPath := ""
	if m.state.HasTrack() {
		currentPath = m.state.Track.Path
	}

	libPanel := m.libraryView.Render(m.tracks, m.app.lib.IsLiked, currentPath, libWidth, panelHeight, m.focusedPanel == PanelLibrary)
	plPanel := m.playlistsView.Render(m.playlists, plWidth, panelHeight, m.focusedPanel == PanelPlaylists)
	likedPanel := m.likedView.Render(m.liked, m.app.lib.IsLiked, currentPath, likedWidth, panelHeight, m.focusedPanel == PanelLiked)

	panels := lipgloss.JoinHorizontal(lipgloss.Top, libPanel, plPanel, likedPanel)

	var player string
	if m.fullPlayer {
		player = m.nowPlaying.RenderFull(&m.state, m.width-2, playerHeight-2)
	} else {
		player = m.nowPlaying.RenderMini(&m.state, m.width-2)
	}

	sections := []string{header, panels, player}

	if m.showNewPlaylist {
		sections = append(sections, m.renderNewPlaylist())
	} else if m.showAddTo {
		sections = append(sections, m.renderAddTo())
	} else {
		sections = append(sections, m.renderStatusBar())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStatusBar() string {
	if m.notice != "" {
		// Collapse the multi-line error format into one status line.
		line := strings.ReplaceAll(m.notice, "\n\n", " — ")
		return styles.ErrorText.Render(line)
	}
	hints := "enter play • space pause • n/p skip • s shuffle • r loop • l like • a add to playlist • N new playlist • f expand • ? help • q quit"
	return styles.Dim.Render(hints)
}

func (m Model) renderNewPlaylist() string {
	return styles.Highlight.Render("New playlist: ") + m.nameInput.View() +
		styles.Dim.Render("  (enter create, esc cancel)")
}

func (m Model) renderAddTo() string {
	var b strings.Builder
	b.WriteString(styles.Highlight.Render("Add to playlist: "))
	for i, p := range m.playlists {
		name := p.Name
		if i == m.addToCursor {
			name = styles.Highlight.Render("[" + name + "]")
		} else {
			name = styles.Muted.Render(name)
		}
		b.WriteString(name)
		if i < len(m.playlists)-1 {
			b.WriteString("  ")
		}
	}
	b.WriteString(styles.Dim.Render("  (enter add, esc cancel)"))
	return b.String()
}

func (m Model) renderHelp() string {
	help := `
  vinyl — keyboard shortcuts

  Transport
    enter        play selected track
    space        play / pause
    n / p        next / previous track
    ← / →        seek 5s back / forward
    + / -        volume up / down
    s            toggle shuffle
    r            cycle loop mode (off → all → one)

  Library
    tab          switch panel
    j / k        move cursor
    l            like / unlike track
    x            remove track from library
    a            add track to a playlist
    N            create a playlist

  View
    f            expand / collapse player
    ?            toggle this help
    q            quit
`
	return styles.Title.Render(help)
}
