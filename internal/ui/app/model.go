package app

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "bookshelf/internal/modules/catalog/dto"
	"bookshelf/internal/ui/components"
	"bookshelf/internal/ui/theme"
	libraryview "bookshelf/internal/ui/views/library"
	readerview "bookshelf/internal/ui/views/reader"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.
// Sub-view ports are defined in their own packages and narrowed further.

type prefsPort interface {
	SavePrefs(ctx context.Context, input catalogdto.PrefsInput) error
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabLibrary tabID = iota
	tabReader
	tabCount
)

var tabLabels = [tabCount]string{"Bookshelf", "Reader"}

// ─── async messages ───────────────────────────────────────────────────────────

type shutdownDoneMsg struct{}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Enter   key.Binding
	Fav     key.Binding
	Rescan  key.Binding
	PrevPg  key.Binding
	NextPg  key.Binding
	Zoom    key.Binding
	Pan     key.Binding
	Mode    key.Binding
	Goto    key.Binding
	Mark    key.Binding
	Notes   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		Fav:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favorite")),
		Rescan:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rescan")),
		PrevPg:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "page")),
		NextPg:  key.NewBinding(key.WithKeys("right"), key.WithHelp("←/→", "page")),
		Zoom:    key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "zoom")),
		Pan:     key.NewBinding(key.WithKeys("h", "j", "k", "l"), key.WithHelp("hjkl", "pan")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "view mode")),
		Goto:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "goto page")),
		Mark:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bookmark")),
		Notes:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notes")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Enter, k.Fav, k.Rescan},
		{k.PrevPg, k.Zoom, k.Pan, k.Mode},
		{k.Goto, k.Mark, k.Notes},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the global help
// overlay, and the command palette. All business logic is delegated to port
// interfaces; all rendering is delegated to sub-views.
type Model struct {
	prefs prefsPort

	// transmitPixels is the active frame pixel budget, persisted with the
	// other viewer preferences at shutdown.
	transmitPixels int

	libView  libraryview.Model
	readView readerview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	quitting  bool
	width     int
	height    int
}

func NewModel(library libraryview.CatalogPort, reader readerview.Model, prefs prefsPort, roots []catalogdto.RootInput, transmitPixels int) Model {
	return Model{
		prefs:          prefs,
		transmitPixels: transmitPixels,
		libView:        libraryview.New(library, roots),
		readView:       reader,
		activeTab:      tabLibrary,
		keys:           defaultKeys(),
		help:           help.New(),
		palette:        components.NewPalette(),
		status:         "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return m.libView.Init()
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()

	case shutdownDoneMsg:
		return m, tea.Quit

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	// OpenedMsg is produced by the reader view but bubbles up through the
	// top level so we can auto-switch tabs and update status.
	case readerview.OpenedMsg:
		if msg.Err != nil {
			m.status = "reader: " + msg.Err.Error()
		} else {
			m.status = "reading: " + msg.Title
			m.activeTab = tabReader
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}

		// Yield to the sub-view while it captures free-form typing.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m.shutdown()
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
		case "?":
			m.showHelp = !m.showHelp
		case ":":
			return m, m.palette.Open()
		case "enter":
			if m.activeTab == tabLibrary {
				if id, ok := m.libView.SelectedBookID(); ok {
					return m, m.readView.OpenBook(id)
				}
			}
		case "f":
			if m.activeTab == tabLibrary {
				cmds = append(cmds, m.libView.ToggleFavoriteCmd())
			}
		case "r":
			if m.activeTab == tabLibrary {
				m.status = "rescanning…"
				cmds = append(cmds, m.libView.ScanCmd())
			}
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabLibrary:
		m.libView, tabCmd = m.libView.Update(msg)
	case tabReader:
		m.readView, tabCmd = m.readView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.activeTab == tabLibrary:
		content = m.libView.View()
	default:
		content = m.readView.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "bookshelf  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(input) == "" {
		return m, nil
	}
	parts := strings.Fields(input)

	switch parts[0] {
	case "goto":
		if len(parts) < 2 {
			m.status = "usage: goto <page>"
			return m, nil
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "invalid page"
			return m, nil
		}
		m.activeTab = tabReader
		var cmd tea.Cmd
		m.readView, cmd = m.readView.Goto(page)
		return m, cmd

	case "zoom":
		if len(parts) < 2 {
			m.status = "usage: zoom <percent>"
			return m, nil
		}
		pct, err := strconv.Atoi(strings.TrimSuffix(parts[1], "%"))
		if err != nil {
			m.status = "invalid zoom"
			return m, nil
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.SetZoom(pct)
		return m, cmd

	case "mode":
		if len(parts) < 2 {
			m.status = "usage: mode <image|reflow|wrap|raw>"
			return m, nil
		}
		var cmd tea.Cmd
		m.readView, cmd = m.readView.SetMode(parts[1])
		return m, cmd

	case "bookmark:add":
		label := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
		return m, m.readView.AddBookmark(label)

	case "bookmark:list":
		m.activeTab = tabLibrary
		m.status = "bookmarks are shown in the book detail pane"
		return m, nil

	case "note:edit":
		m.activeTab = tabReader
		m.status = "notes: n to toggle, e to edit"
		return m, nil

	case "favorite":
		return m, m.libView.ToggleFavoriteCmd()

	case "scan":
		m.status = "rescanning…"
		return m, m.libView.ScanCmd()

	case "reload":
		if id, ok := m.libView.SelectedBookID(); ok {
			return m, m.readView.OpenBook(id)
		}
		m.status = "no book selected"
		return m, nil

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// shutdown saves reading state and preferences before quitting.
func (m Model) shutdown() (tea.Model, tea.Cmd) {
	m.quitting = true
	closeCmd := m.readView.CloseCmd()
	saveCmd := m.savePrefsCmd()
	return m, tea.Sequence(closeCmd, saveCmd, func() tea.Msg { return shutdownDoneMsg{} })
}

// subViewFiltering reports whether the active tab is capturing free typing
// (list filter or reader prompt), in which case global keys must yield.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabLibrary:
		return m.libView.Filtering()
	case tabReader:
		return m.readView.Filtering()
	}
	return false
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.libView, _ = m.libView.Update(sz)
	m.readView, _ = m.readView.Update(sz)
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) savePrefsCmd() tea.Cmd {
	prefs := m.prefs
	input := catalogdto.PrefsInput{
		Mode:              m.readView.Mode(),
		ZoomPercent:       m.readView.Zoom(),
		MaxTransmitPixels: m.transmitPixels,
	}
	return func() tea.Msg {
		_ = prefs.SavePrefs(context.Background(), input)
		return nil
	}
}
