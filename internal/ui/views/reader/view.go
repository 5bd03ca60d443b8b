package reader

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	catalogdto "bookshelf/internal/modules/catalog/dto"
	renderdto "bookshelf/internal/modules/render/dto"
	textdto "bookshelf/internal/modules/text/dto"
	"bookshelf/internal/ui/sink"
	"bookshelf/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Minimal interfaces this view needs from each use-case.

type RenderPort interface {
	Open(ctx context.Context, path string) (renderdto.OpenOutput, error)
	Close(ctx context.Context) error
	Frame(ctx context.Context, input renderdto.FrameInput) (renderdto.FrameOutput, error)
}

type TextPort interface {
	Open(ctx context.Context, path string) (textdto.OpenOutput, error)
	Close(ctx context.Context) error
	Page(ctx context.Context, input textdto.PageInput) (textdto.PageOutput, error)
}

type CatalogPort interface {
	OpenBook(ctx context.Context, bookID string) (catalogdto.OpenBookOutput, error)
	SaveProgress(ctx context.Context, input catalogdto.SaveProgressInput) error
	AddBookmark(ctx context.Context, input catalogdto.BookmarkInput) (catalogdto.BookmarkOutput, error)
	GetNote(ctx context.Context, bookID string, page int) (catalogdto.NoteOutput, error)
	SaveNote(ctx context.Context, input catalogdto.NoteInput) error
}

// Config carries the viewer knobs the reader needs at key-handling time.
// DefaultMode and DefaultZoom come from persisted preferences and apply
// whenever a book carries no saved progress of its own.
type Config struct {
	ZoomMin, ZoomMax, ZoomStep int
	CellWidthPx, CellHeightPx  int
	Gray                       bool
	DefaultMode                string
	DefaultZoom                int
}

// ModeImage shows the rasterized page; the other modes come from the text
// pipeline and use textdto.Mode values.
const ModeImage = "image"

// ─── messages ────────────────────────────────────────────────────────────────

// OpenedMsg is sent when a book has been opened (or failed to open).
type OpenedMsg struct {
	BookID    string
	Title     string
	PageCount int
	Session   catalogdto.OpenBookOutput
	Err       error
}

// frameMsg and textMsg carry the dispatch sequence number; results from a
// superseded dispatch are discarded, never displayed.
type frameMsg struct {
	seq int
	out renderdto.FrameOutput
	err error
}

type textMsg struct {
	seq int
	out textdto.PageOutput
	err error
}

type noteLoadedMsg struct {
	page int
	out  catalogdto.NoteOutput
	err  error
}

type bookmarkAddedMsg struct {
	out catalogdto.BookmarkOutput
	err error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	render  RenderPort
	text    TextPort
	catalog CatalogPort
	sink    sink.Sink
	cfg     Config

	bookID    string
	title     string
	pageCount int

	// navigation state: every mutation bumps seq and dispatches exactly
	// one frame or text request.
	page       int
	mode       string
	zoom       int
	panX, panY int
	seq        int

	// last displayed content
	imagePayload                     string
	cellX, cellY, cellCols, cellRows int
	placeholder                      string
	textView                         viewport.Model

	// notes
	showNotes    bool
	noteBody     string
	renderedNote string
	noteEditor   textarea.Model
	editingNote  bool
	renderer     *glamour.TermRenderer

	// goto prompt
	gotoInput  textinput.Model
	gotoActive bool

	spinner spinner.Model
	loading bool
	status  string
	width   int
	height  int
}

func New(render RenderPort, text TextPort, catalog CatalogPort, snk sink.Sink, cfg Config) Model {
	if cfg.ZoomMin <= 0 {
		cfg.ZoomMin = 50
	}
	if cfg.ZoomMax <= 0 {
		cfg.ZoomMax = 400
	}
	if cfg.ZoomStep <= 0 {
		cfg.ZoomStep = 25
	}
	if cfg.CellWidthPx <= 0 {
		cfg.CellWidthPx = 8
	}
	if cfg.CellHeightPx <= 0 {
		cfg.CellHeightPx = 16
	}
	if !validMode(cfg.DefaultMode) {
		cfg.DefaultMode = ModeImage
	}
	if cfg.DefaultZoom <= 0 {
		cfg.DefaultZoom = 100
	}
	cfg.DefaultZoom = clamp(cfg.DefaultZoom, cfg.ZoomMin, cfg.ZoomMax)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)

	gi := textinput.New()
	gi.Placeholder = "page"
	gi.CharLimit = 6

	ta := textarea.New()
	ta.Placeholder = "page note (markdown)…"

	r, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(38),
	)

	return Model{
		render:     render,
		text:       text,
		catalog:    catalog,
		sink:       snk,
		cfg:        cfg,
		mode:       cfg.DefaultMode,
		zoom:       cfg.DefaultZoom,
		textView:   viewport.New(0, 0),
		gotoInput:  gi,
		noteEditor: ta,
		renderer:   r,
	}
}

// Init is a no-op: the reader is idle until OpenBook is called.
func (m Model) Init() tea.Cmd { return nil }

// OpenBook starts a reading session: catalog open (restores progress), then
// both pipelines open the file. Produces an OpenedMsg.
func (m *Model) OpenBook(bookID string) tea.Cmd {
	m.loading = true
	render, text, catalog := m.render, m.text, m.catalog
	return tea.Batch(func() tea.Msg {
		ctx := context.Background()
		session, err := catalog.OpenBook(ctx, bookID)
		if err != nil {
			return OpenedMsg{BookID: bookID, Err: err}
		}
		opened, err := render.Open(ctx, session.Book.Path)
		if err != nil {
			return OpenedMsg{BookID: bookID, Err: err}
		}
		if _, err := text.Open(ctx, session.Book.Path); err != nil {
			return OpenedMsg{BookID: bookID, Err: err}
		}
		return OpenedMsg{
			BookID:    bookID,
			Title:     session.Book.Title,
			PageCount: opened.PageCount,
			Session:   session,
		}
	}, m.spinner.Tick)
}

// CloseCmd saves progress and releases both document handles. Used by the
// app on quit and when leaving a book.
func (m Model) CloseCmd() tea.Cmd {
	if m.bookID == "" {
		return nil
	}
	render, text := m.render, m.text
	save := m.saveProgressCmd()
	return tea.Sequence(save, func() tea.Msg {
		ctx := context.Background()
		_ = render.Close(ctx)
		_ = text.Close(ctx)
		return nil
	})
}

func (m Model) Active() bool { return m.bookID != "" }

// Mode and Zoom expose the current viewing state for preference persistence.
func (m Model) Mode() string { return m.mode }
func (m Model) Zoom() int    { return m.zoom }

// Filtering reports whether a text prompt inside the reader is capturing
// keystrokes.
func (m Model) Filtering() bool { return m.gotoActive || m.editingNote }

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		if m.bookID != "" {
			cmds = append(cmds, m.refresh())
		}

	case OpenedMsg:
		m.loading = false
		if msg.Err != nil {
			m.status = "open failed: " + msg.Err.Error()
			return m, nil
		}
		m.bookID = msg.BookID
		m.title = msg.Title
		m.pageCount = msg.PageCount
		m.page = clamp(msg.Session.Page, 0, m.pageCount-1)
		m.panX, m.panY = 0, 0
		// Saved per-book progress wins; otherwise the persisted preference
		// defaults apply.
		m.zoom = m.cfg.DefaultZoom
		m.mode = m.cfg.DefaultMode
		if msg.Session.ZoomPercent > 0 {
			m.zoom = clamp(msg.Session.ZoomPercent, m.cfg.ZoomMin, m.cfg.ZoomMax)
		}
		if validMode(msg.Session.Mode) {
			m.mode = msg.Session.Mode
		}
		m.status = fmt.Sprintf("opened %s", m.title)
		cmds = append(cmds, m.refresh())
		if m.showNotes {
			cmds = append(cmds, m.loadNoteCmd())
		}

	case frameMsg:
		if msg.seq != m.seq {
			break // superseded dispatch
		}
		m.loading = false
		if msg.err != nil {
			m.status = "render: " + msg.err.Error()
			break
		}
		m.applyFrame(msg.out)

	case textMsg:
		if msg.seq != m.seq {
			break
		}
		m.loading = false
		if msg.err != nil {
			m.status = "text: " + msg.err.Error()
			break
		}
		m.applyTextPage(msg.out)

	case noteLoadedMsg:
		if msg.page == m.page && msg.err == nil {
			m.setNote(msg.out.Body)
		}

	case bookmarkAddedMsg:
		if msg.err != nil {
			m.status = "bookmark: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("bookmarked p.%d (%s)", msg.out.Page+1, msg.out.Label)
		}

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode != ModeImage {
		var cmd tea.Cmd
		m.textView, cmd = m.textView.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.gotoActive {
		return m.handleGotoKey(msg)
	}
	if m.editingNote {
		return m.handleNoteKey(msg)
	}
	if m.bookID == "" {
		return m, nil
	}

	switch msg.String() {
	case "left":
		return m.setPage(m.page - 1)
	case "right":
		return m.setPage(m.page + 1)
	case "+", "=":
		return m.setZoom(m.zoom + m.cfg.ZoomStep)
	case "-":
		return m.setZoom(m.zoom - m.cfg.ZoomStep)
	case "0":
		m.zoom, m.panX, m.panY = 100, 0, 0
		return m, m.refresh()
	case "h":
		return m.pan(-2*m.cfg.CellWidthPx, 0)
	case "l":
		return m.pan(2*m.cfg.CellWidthPx, 0)
	case "k":
		return m.pan(0, -2*m.cfg.CellHeightPx)
	case "j":
		return m.pan(0, 2*m.cfg.CellHeightPx)
	case "m":
		m.mode = nextMode(m.mode)
		m.status = "mode: " + m.mode
		return m, tea.Batch(m.refresh(), m.saveProgressCmd())
	case "g":
		m.gotoActive = true
		m.gotoInput.SetValue("")
		return m, m.gotoInput.Focus()
	case "b":
		return m, m.addBookmarkCmd("")
	case "n":
		m.showNotes = !m.showNotes
		m.resize()
		if m.showNotes {
			return m, tea.Batch(m.loadNoteCmd(), m.refresh())
		}
		return m, m.refresh()
	case "e":
		if m.showNotes {
			m.editingNote = true
			m.noteEditor.SetValue(m.noteBody)
			return m, m.noteEditor.Focus()
		}
	}

	// Unhandled keys scroll the text viewport in text modes.
	if m.mode != ModeImage {
		var cmd tea.Cmd
		m.textView, cmd = m.textView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleGotoKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.gotoActive = false
		m.gotoInput.Blur()
		return m, nil
	case "enter":
		m.gotoActive = false
		m.gotoInput.Blur()
		if n, err := strconv.Atoi(strings.TrimSpace(m.gotoInput.Value())); err == nil {
			return m.setPage(n - 1)
		}
		m.status = "goto: not a page number"
		return m, nil
	}
	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return m, cmd
}

func (m Model) handleNoteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editingNote = false
		m.noteEditor.Blur()
		return m, nil
	case "ctrl+s":
		m.editingNote = false
		m.noteEditor.Blur()
		body := m.noteEditor.Value()
		m.setNote(body)
		return m, m.saveNoteCmd(body)
	}
	var cmd tea.Cmd
	m.noteEditor, cmd = m.noteEditor.Update(msg)
	return m, cmd
}

// ─── navigation ───────────────────────────────────────────────────────────────

func (m Model) setPage(page int) (Model, tea.Cmd) {
	page = clamp(page, 0, m.pageCount-1)
	if page == m.page {
		return m, nil
	}
	m.page = page
	m.panX, m.panY = 0, 0
	cmds := []tea.Cmd{m.refresh(), m.saveProgressCmd()}
	if m.showNotes {
		cmds = append(cmds, m.loadNoteCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) setZoom(zoom int) (Model, tea.Cmd) {
	zoom = clamp(zoom, m.cfg.ZoomMin, m.cfg.ZoomMax)
	if zoom == m.zoom {
		return m, nil
	}
	m.zoom = zoom
	if zoom == 100 {
		m.panX, m.panY = 0, 0
	}
	return m, m.refresh()
}

func (m Model) pan(dx, dy int) (Model, tea.Cmd) {
	if m.mode != ModeImage {
		return m, nil // text modes scroll via the viewport
	}
	m.panX += dx
	m.panY += dy
	return m, m.refresh()
}

// refresh dispatches the request matching the current navigation state and
// bumps the sequence number so in-flight results get discarded.
func (m *Model) refresh() tea.Cmd {
	if m.bookID == "" || m.width == 0 {
		return nil
	}
	m.seq++
	seq := m.seq
	m.loading = true

	cols, rows := m.contentSize()
	if m.mode == ModeImage {
		input := renderdto.FrameInput{
			Page:         m.page,
			ZoomPercent:  m.zoom,
			PanX:         m.panX,
			PanY:         m.panY,
			FrameCols:    cols,
			FrameRows:    rows,
			CellWidthPx:  m.cfg.CellWidthPx,
			CellHeightPx: m.cfg.CellHeightPx,
			Gray:         m.cfg.Gray,
		}
		render := m.render
		return tea.Batch(func() tea.Msg {
			out, err := render.Frame(context.Background(), input)
			return frameMsg{seq: seq, out: out, err: err}
		}, m.spinner.Tick)
	}

	input := textdto.PageInput{Page: m.page, Mode: textdto.Mode(m.mode), Width: cols}
	text := m.text
	return tea.Batch(func() tea.Msg {
		out, err := text.Page(context.Background(), input)
		return textMsg{seq: seq, out: out, err: err}
	}, m.spinner.Tick)
}

// ─── result application ───────────────────────────────────────────────────────

func (m *Model) applyFrame(out renderdto.FrameOutput) {
	// Adopt the corrected pan so the next keypress moves from the clamped
	// position, not the rejected one.
	m.panX, m.panY = out.PanX, out.PanY
	m.zoom = out.ZoomPercent

	if out.Placeholder != "" {
		m.placeholder = out.Placeholder
		m.imagePayload = ""
		m.status = "page unavailable"
		return
	}
	m.placeholder = ""
	payload, err := m.sink.Emit(out.Image, sink.Placement{
		Crop:      cropRect(out),
		TransmitW: out.TransmitW,
		TransmitH: out.TransmitH,
		CellX:     out.CellX,
		CellY:     out.CellY,
		CellCols:  out.CellCols,
		CellRows:  out.CellRows,
	})
	if err != nil {
		m.placeholder = err.Error()
		m.imagePayload = ""
		return
	}
	m.imagePayload = payload
	m.cellX, m.cellY = out.CellX, out.CellY
	m.cellCols, m.cellRows = out.CellCols, out.CellRows
	m.status = fmt.Sprintf("p.%d/%d  %d%%", m.page+1, m.pageCount, m.zoom)
}

func (m *Model) applyTextPage(out textdto.PageOutput) {
	if out.Empty {
		m.placeholder = out.Reason
		m.textView.SetContent("")
		return
	}
	m.placeholder = ""
	m.textView.SetContent(strings.Join(out.Lines, "\n"))
	m.textView.GotoTop()
	m.status = fmt.Sprintf("p.%d/%d  %s", m.page+1, m.pageCount, m.mode)
}

func (m *Model) setNote(body string) {
	m.noteBody = body
	if body == "" {
		m.renderedNote = theme.Muted.Render("(no note — e to edit)")
		return
	}
	if m.renderer != nil {
		if rendered, err := m.renderer.Render(body); err == nil {
			m.renderedNote = rendered
			return
		}
	}
	m.renderedNote = body
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderFooter()
	contentH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.bookID == "" && !m.loading:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("Open a book from the Bookshelf tab (enter)"))
	case m.loading:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" Rendering…")
	default:
		content = m.renderContent(contentH)
	}

	if m.gotoActive {
		prompt := theme.Title.Render("go to page: ") + m.gotoInput.View()
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, prompt)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderContent(contentH int) string {
	main := m.renderMain(contentH)
	if !m.showNotes {
		return main
	}
	notes := m.renderNotes(contentH)
	return lipgloss.JoinHorizontal(lipgloss.Top, main, notes)
}

func (m Model) renderMain(contentH int) string {
	mainW, _ := m.contentSize()

	if m.placeholder != "" {
		box := theme.Placeholder.Width(mainW - 4).Height(contentH - 2).
			Render("░░░\n" + m.placeholder)
		return lipgloss.Place(mainW, contentH, lipgloss.Center, lipgloss.Center, box)
	}

	if m.mode != ModeImage {
		vp := m.textView
		vp.Width = mainW
		vp.Height = contentH
		return vp.View()
	}

	if m.imagePayload == "" {
		return lipgloss.Place(mainW, contentH, lipgloss.Center, lipgloss.Center,
			theme.Muted.Render("(no frame)"))
	}
	return placePayload(m.imagePayload, m.cellX, m.cellY, contentH, m.sink.Name() == "halfblock")
}

func (m Model) renderNotes(contentH int) string {
	var body string
	if m.editingNote {
		body = m.noteEditor.View() + "\n" + theme.Muted.Render("ctrl+s: save  esc: cancel")
	} else {
		body = m.renderedNote
	}
	return theme.Pane.Width(38).Height(contentH - 2).
		Render(theme.Title.Render(fmt.Sprintf("Notes — p.%d", m.page+1)) + "\n\n" + body)
}

func (m Model) renderHeader() string {
	if m.bookID == "" {
		return theme.Title.Render("Reader") + "\n"
	}
	parts := []string{
		theme.Title.Render(m.title),
		theme.Muted.Render(fmt.Sprintf("p.%d/%d", m.page+1, m.pageCount)),
		theme.Muted.Render(fmt.Sprintf("%d%%", m.zoom)),
		theme.Muted.Render("[" + m.mode + "]"),
	}
	if m.sink != nil {
		parts = append(parts, theme.Muted.Render(m.sink.Name()))
	}
	return strings.Join(parts, "  ") + "\n"
}

func (m Model) renderFooter() string {
	hints := "←/→: page  +/-: zoom  hjkl: pan  0: reset  m: mode  g: goto  b: mark  n: notes"
	left := m.status
	right := theme.Muted.Render(hints)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) saveProgressCmd() tea.Cmd {
	if m.bookID == "" {
		return nil
	}
	catalog := m.catalog
	input := catalogdto.SaveProgressInput{
		BookID:      m.bookID,
		Page:        m.page,
		PageCount:   m.pageCount,
		ZoomPercent: m.zoom,
		Mode:        m.mode,
	}
	return func() tea.Msg {
		_ = catalog.SaveProgress(context.Background(), input)
		return nil
	}
}

func (m Model) addBookmarkCmd(label string) tea.Cmd {
	catalog := m.catalog
	input := catalogdto.BookmarkInput{BookID: m.bookID, Page: m.page, Label: label}
	return func() tea.Msg {
		out, err := catalog.AddBookmark(context.Background(), input)
		return bookmarkAddedMsg{out: out, err: err}
	}
}

func (m Model) loadNoteCmd() tea.Cmd {
	catalog := m.catalog
	bookID, page := m.bookID, m.page
	return func() tea.Msg {
		out, err := catalog.GetNote(context.Background(), bookID, page)
		return noteLoadedMsg{page: page, out: out, err: err}
	}
}

func (m Model) saveNoteCmd(body string) tea.Cmd {
	catalog := m.catalog
	input := catalogdto.NoteInput{BookID: m.bookID, Page: m.page, Body: body}
	return func() tea.Msg {
		_ = catalog.SaveNote(context.Background(), input)
		return nil
	}
}

// Goto jumps to a 1-based page, for the command palette.
func (m *Model) Goto(page int) (Model, tea.Cmd) {
	return m.setPage(page - 1)
}

// SetZoom sets an absolute zoom percent, for the command palette.
func (m *Model) SetZoom(pct int) (Model, tea.Cmd) {
	return m.setZoom(pct)
}

// SetMode switches the view mode, for the command palette.
func (m *Model) SetMode(mode string) (Model, tea.Cmd) {
	if !validMode(mode) {
		m.status = "unknown mode: " + mode
		return *m, nil
	}
	m.mode = mode
	return *m, tea.Batch(m.refresh(), m.saveProgressCmd())
}

// AddBookmark adds a bookmark on the current page, for the command palette.
func (m Model) AddBookmark(label string) tea.Cmd {
	if m.bookID == "" {
		return nil
	}
	return m.addBookmarkCmd(label)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) resize() {
	cols, rows := m.contentSize()
	m.textView.Width = cols
	m.textView.Height = rows
	m.noteEditor.SetWidth(36)
	m.noteEditor.SetHeight(max(rows-6, 3))
}

// contentSize is the cell rect available for the page: full width minus the
// notes pane, height minus header and footer.
func (m Model) contentSize() (cols, rows int) {
	cols = m.width
	if m.showNotes {
		cols -= 40
	}
	rows = m.height - 3
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return cols, rows
}

// placePayload positions an emitted frame inside the content area. Halfblock
// payloads are cell text and get indented per row; kitty payloads are one
// escape sequence anchored at the cell origin.
func placePayload(payload string, cellX, cellY, contentH int, cells bool) string {
	var sb strings.Builder
	sb.WriteString(strings.Repeat("\n", cellY))
	indent := strings.Repeat(" ", cellX)
	if cells {
		lines := strings.Split(payload, "\n")
		for i, line := range lines {
			if i > 0 {
				sb.WriteByte('\n')
			}
			sb.WriteString(indent + line)
		}
		for used := cellY + len(lines); used < contentH; used++ {
			sb.WriteByte('\n')
		}
	} else {
		sb.WriteString(indent + payload)
		for used := cellY + 1; used < contentH; used++ {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func cropRect(out renderdto.FrameOutput) image.Rectangle {
	return image.Rect(out.CropX, out.CropY, out.CropX+out.CropW, out.CropY+out.CropH)
}

func validMode(mode string) bool {
	switch mode {
	case ModeImage, string(textdto.ModeReflow), string(textdto.ModeWrap), string(textdto.ModeRaw):
		return true
	}
	return false
}

// nextMode cycles image → the text modes in dto order → back to image.
func nextMode(mode string) string {
	switch mode {
	case ModeImage:
		return string(textdto.ModeReflow)
	case string(textdto.ModeRaw):
		return ModeImage
	default:
		return string(textdto.Mode(mode).Cycle())
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
