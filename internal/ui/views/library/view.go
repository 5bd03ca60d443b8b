package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	catalogdto "bookshelf/internal/modules/catalog/dto"
	"bookshelf/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type CatalogPort interface {
	ListBooks(ctx context.Context) ([]catalogdto.BookOutput, error)
	ListBookmarks(ctx context.Context, bookID string) ([]catalogdto.BookmarkOutput, error)
	ToggleFavorite(ctx context.Context, bookID string) (bool, error)
	Scan(ctx context.Context, roots []catalogdto.RootInput) (catalogdto.ScanOutput, error)
}

// ─── messages ────────────────────────────────────────────────────────────────

type BooksLoadedMsg struct {
	Books []catalogdto.BookOutput
	Err   error
}

type BookmarksLoadedMsg struct {
	BookID    string
	Bookmarks []catalogdto.BookmarkOutput
	Err       error
}

type FavoriteToggledMsg struct {
	BookID   string
	Favorite bool
	Err      error
}

type ScanDoneMsg struct {
	Result catalogdto.ScanOutput
	Err    error
}

// ─── list item ───────────────────────────────────────────────────────────────

type bookItem struct {
	book catalogdto.BookOutput
}

func (i bookItem) Title() string {
	if i.book.Favorite {
		return "★ " + i.book.Title
	}
	return i.book.Title
}

func (i bookItem) Description() string {
	return fmt.Sprintf("%.0f%%  %s", i.book.ProgressPct, humanSize(i.book.SizeBytes))
}

func (i bookItem) FilterValue() string { return i.book.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      CatalogPort
	roots     []catalogdto.RootInput
	list      list.Model
	preview   viewport.Model
	spinner   spinner.Model
	bookmarks []catalogdto.BookmarkOutput
	loading   bool
	width     int
	height    int
}

func New(port CatalogPort, roots []catalogdto.RootInput) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Bookshelf"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	return Model{
		port:    port,
		roots:   roots,
		list:    l,
		preview: vp,
		spinner: sp,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.ScanCmd(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()

	case ScanDoneMsg:
		if msg.Err != nil {
			m.list.Title = "Bookshelf — scan failed: " + msg.Err.Error()
		}
		cmds = append(cmds, m.loadBooksCmd())

	case BooksLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			m.list.Title = "Bookshelf — " + msg.Err.Error()
			return m, nil
		}
		items := make([]list.Item, len(msg.Books))
		for i, b := range msg.Books {
			items[i] = bookItem{book: b}
		}
		cmds = append(cmds, m.list.SetItems(items))
		if len(msg.Books) > 0 {
			cmds = append(cmds, m.loadBookmarksCmd(msg.Books[0].ID))
		}
		m.preview.SetContent(m.renderDetail())

	case BookmarksLoadedMsg:
		if id, ok := m.SelectedBookID(); ok && id == msg.BookID && msg.Err == nil {
			m.bookmarks = msg.Bookmarks
			m.preview.SetContent(m.renderDetail())
		}

	case FavoriteToggledMsg:
		if msg.Err == nil {
			cmds = append(cmds, m.loadBooksCmd())
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if !m.loading {
		var lCmd tea.Cmd
		prevIdx := m.list.Index()
		m.list, lCmd = m.list.Update(msg)
		cmds = append(cmds, lCmd)
		if m.list.Index() != prevIdx {
			m.bookmarks = nil
			m.preview.SetContent(m.renderDetail())
			if id, ok := m.SelectedBookID(); ok {
				cmds = append(cmds, m.loadBookmarksCmd(id))
			}
		}

		var vCmd tea.Cmd
		m.preview, vCmd = m.preview.Update(msg)
		cmds = append(cmds, vCmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.loading {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Scanning library…")
	}

	listW := m.width * 4 / 10
	detailW := m.width - listW

	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(m.height).
		Render(m.list.View())

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(detailW - 2).
		Height(m.height - 2).
		Render(m.preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// SelectedBookID returns the current selection's id, if any.
func (m Model) SelectedBookID() (string, bool) {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book.ID, true
	}
	return "", false
}

// SelectedBookTitle returns the current selection's title.
func (m Model) SelectedBookTitle() string {
	if item, ok := m.list.SelectedItem().(bookItem); ok {
		return item.book.Title
	}
	return ""
}

// Filtering reports whether the list's search filter is currently active.
// The app model checks this to avoid consuming global keys during a search.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

// ToggleFavoriteCmd flips the favorite flag of the selected book.
func (m Model) ToggleFavoriteCmd() tea.Cmd {
	id, ok := m.SelectedBookID()
	if !ok {
		return nil
	}
	return func() tea.Msg {
		fav, err := m.port.ToggleFavorite(context.Background(), id)
		return FavoriteToggledMsg{BookID: id, Favorite: fav, Err: err}
	}
}

// ScanCmd rescans the configured roots and reloads the book list.
func (m Model) ScanCmd() tea.Cmd {
	return func() tea.Msg {
		result, err := m.port.Scan(context.Background(), m.roots)
		return ScanDoneMsg{Result: result, Err: err}
	}
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	listW := m.width * 4 / 10
	detailW := m.width - listW
	m.list.SetSize(listW, m.height)
	m.preview.Width = detailW - 4
	m.preview.Height = m.height - 4
}

func (m Model) renderDetail() string {
	item, ok := m.list.SelectedItem().(bookItem)
	if !ok {
		return theme.Muted.Render("Select a book to see details")
	}
	b := item.book
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(b.Title) + "\n\n")
	sb.WriteString(theme.Muted.Render("file:  ") + b.Path + "\n")
	sb.WriteString(theme.Muted.Render("size:  ") + humanSize(b.SizeBytes) + "\n")
	sb.WriteString(fmt.Sprintf("%s%.1f%%\n", theme.Muted.Render("read:  "), b.ProgressPct))
	if !b.LastOpenedAt.IsZero() {
		sb.WriteString(theme.Muted.Render("last:  ") + b.LastOpenedAt.Format("2006-01-02 15:04") + "\n")
	}
	if b.Favorite {
		sb.WriteString(theme.Hot.Render("★ favorite") + "\n")
	}
	if len(m.bookmarks) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Bookmarks") + "\n")
		for _, mark := range m.bookmarks {
			sb.WriteString(fmt.Sprintf("  p.%-4d %s\n", mark.Page+1, mark.Label))
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: read  f: favorite  r: rescan"))
	return sb.String()
}

func (m Model) loadBooksCmd() tea.Cmd {
	return func() tea.Msg {
		books, err := m.port.ListBooks(context.Background())
		return BooksLoadedMsg{Books: books, Err: err}
	}
}

func (m Model) loadBookmarksCmd(id string) tea.Cmd {
	return func() tea.Msg {
		marks, err := m.port.ListBookmarks(context.Background(), id)
		return BookmarksLoadedMsg{BookID: id, Bookmarks: marks, Err: err}
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
