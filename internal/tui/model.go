package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"jellynav/internal/browse"
	"jellynav/internal/domain"
	"jellynav/internal/history"
	"jellynav/internal/search"
	"jellynav/internal/service"
	"jellynav/internal/tui/styles"
)

// frame is one level of the navigation stack
type frame struct {
	node    *domain.NavigationNode
	address string
	cursor  int
	offset  int // first visible row
}

// Model is the root bubbletea model for the library browser
type Model struct {
	resolver *browse.Resolver
	playback *service.Playback
	library  *service.Library
	visits   *history.Store // nil when history is disabled
	logger   *slog.Logger

	keys   KeyMap
	stack  []frame
	recent []history.Entry // most recent first, loaded at startup

	filterInput textinput.Model
	filtering   bool
	matches     []search.Match
	matchCursor int

	loading      bool
	spinnerFrame int
	status       string
	errText      string
	showHelp     bool

	width  int
	height int
}

// NewModel creates the browser model. visits may be nil.
func NewModel(resolver *browse.Resolver, playback *service.Playback, library *service.Library, visits *history.Store, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.CharLimit = 64

	return &Model{
		resolver:    resolver,
		playback:    playback,
		library:     library,
		visits:      visits,
		logger:      logger,
		keys:        DefaultKeyMap(),
		filterInput: ti,
	}
}

// maxRecent bounds how many past visits the root view offers.
const maxRecent = 10

// Init resolves the library root and loads the visit history
func (m *Model) Init() tea.Cmd {
	m.loading = true
	return tea.Batch(m.resolveCmd("", true), m.loadRecentCmd(), tickCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if m.loading {
			m.spinnerFrame = (m.spinnerFrame + 1) % len(styles.SpinnerFrames)
			return m, tickCmd()
		}
		return m, nil

	case NodeResolvedMsg:
		m.loading = false
		m.errText = ""
		if msg.Push {
			m.stack = append(m.stack, frame{node: msg.Node, address: msg.Address})
		} else if len(m.stack) > 0 {
			top := &m.stack[len(m.stack)-1]
			top.node = msg.Node
			if top.cursor >= len(msg.Node.Children) {
				top.cursor = 0
				top.offset = 0
			}
		}
		m.clearFilter()
		if m.visits != nil && msg.Push && msg.Address != "" {
			if err := m.visits.RecordVisit(msg.Address, msg.Node.Title); err != nil {
				m.logger.Warn("failed to record visit", "error", err)
			}
			m.rememberVisit(msg.Address, msg.Node.Title)
		}
		return m, nil

	case RecentLoadedMsg:
		m.recent = msg.Entries
		return m, nil

	case PlaybackStartedMsg:
		m.loading = false
		m.status = "playing " + msg.Title
		return m, nil

	case CacheDroppedMsg:
		if top := m.top(); top != nil {
			m.loading = true
			return m, tea.Batch(m.resolveCmd(top.address, false), tickCmd())
		}
		return m, nil

	case ErrMsg:
		m.loading = false
		m.errText = msg.Error()
		m.logger.Error("browser error", "error", msg.Err, "context", msg.Context)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			return m.updateFilter(msg)
		}
		return m.updateBrowse(msg)
	}

	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	top := m.top()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.errText = ""
		m.status = ""
		m.clearFilter()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if top != nil && top.cursor > 0 {
			top.cursor--
			m.scrollIntoView(top)
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if top != nil && top.cursor < len(m.visibleChildren())-1 {
			top.cursor++
			m.scrollIntoView(top)
		}
		return m, nil

	case key.Matches(msg, m.keys.Home):
		if top != nil {
			top.cursor = 0
			top.offset = 0
		}
		return m, nil

	case key.Matches(msg, m.keys.End):
		if top != nil && len(m.visibleChildren()) > 0 {
			top.cursor = len(m.visibleChildren()) - 1
			m.scrollIntoView(top)
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m.openSelected()

	case key.Matches(msg, m.keys.Back):
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			m.clearFilter()
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		if top != nil && len(top.node.Children) > 0 {
			m.filtering = true
			m.filterInput.SetValue("")
			m.filterInput.Focus()
			m.matches = nil
			m.matchCursor = 0
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		m.status = ""
		return m, m.dropCacheCmd()

	case key.Matches(msg, m.keys.JumpBack):
		if entry, ok := m.lastVisit(); ok {
			m.loading = true
			m.errText = ""
			return m, tea.Batch(m.resolveCmd(entry.Address, true), tickCmd())
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.clearFilter()
		return m, nil
	case "enter":
		if len(m.matches) > 0 {
			node := m.matches[m.matchCursor].Node
			m.clearFilter()
			return m.openNode(node)
		}
		m.clearFilter()
		return m, nil
	case "up", "ctrl+k":
		if m.matchCursor > 0 {
			m.matchCursor--
		}
		return m, nil
	case "down", "ctrl+j":
		if m.matchCursor < len(m.matches)-1 {
			m.matchCursor++
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if top := m.top(); top != nil {
		m.matches = search.Filter(m.filterInput.Value(), top.node.Children)
		m.matchCursor = 0
	}
	return m, cmd
}

func (m *Model) openSelected() (tea.Model, tea.Cmd) {
	top := m.top()
	children := m.visibleChildren()
	if top == nil || top.cursor >= len(children) {
		return m, nil
	}
	return m.openNode(children[top.cursor])
}

func (m *Model) openNode(node domain.NavigationNode) (tea.Model, tea.Cmd) {
	if node.IsDirectory() || node.Expandable {
		m.loading = true
		m.errText = ""
		return m, tea.Batch(m.resolveCmd(node.Address, true), tickCmd())
	}
	if node.Playable {
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.playCmd(node), tickCmd())
	}
	return m, nil
}

func (m *Model) top() *frame {
	if len(m.stack) == 0 {
		return nil
	}
	return &m.stack[len(m.stack)-1]
}

func (m *Model) visibleChildren() []domain.NavigationNode {
	top := m.top()
	if top == nil || top.node == nil {
		return nil
	}
	return top.node.Children
}

// rememberVisit keeps the in-memory recent list in sync with the store
func (m *Model) rememberVisit(address, title string) {
	pruned := make([]history.Entry, 0, len(m.recent)+1)
	pruned = append(pruned, history.Entry{Address: address, Title: title})
	for _, e := range m.recent {
		if e.Address != address {
			pruned = append(pruned, e)
		}
	}
	if len(pruned) > maxRecent {
		pruned = pruned[:maxRecent]
	}
	m.recent = pruned
}

// lastVisit returns the most recent visit that is not where the browser
// already is.
func (m *Model) lastVisit() (history.Entry, bool) {
	current := ""
	if top := m.top(); top != nil {
		current = top.address
	}
	for _, e := range m.recent {
		if e.Address != current {
			return e, true
		}
	}
	return history.Entry{}, false
}

func (m *Model) clearFilter() {
	m.filtering = false
	m.filterInput.Blur()
	m.matches = nil
	m.matchCursor = 0
}

func (m *Model) listHeight() int {
	// header + breadcrumb + footer + status
	h := m.height - 4
	if h < 1 {
		h = 10
	}
	return h
}

func (m *Model) scrollIntoView(f *frame) {
	h := m.listHeight()
	if f.cursor < f.offset {
		f.offset = f.cursor
	}
	if f.cursor >= f.offset+h {
		f.offset = f.cursor - h + 1
	}
}

func (m *Model) View() string {
	top := m.top()
	if top == nil {
		return styles.DimStyle.Render("loading library" + strings.Repeat(".", 3))
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(top.node.Title))
	if m.loading {
		b.WriteString(" " + styles.AccentStyle.Render(styles.SpinnerFrames[m.spinnerFrame]))
	}
	b.WriteString("\n")
	b.WriteString(styles.BreadcrumbStyle.Render(m.breadcrumbs()))
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.viewFilter())
	} else {
		b.WriteString(m.viewList(top))
		if len(m.stack) == 1 {
			b.WriteString(m.viewRecent())
		}
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())

	return b.String()
}

func (m *Model) viewList(top *frame) string {
	children := top.node.Children
	if len(children) == 0 {
		return styles.DimStyle.Render("  (empty)")
	}

	h := m.listHeight()
	end := top.offset + h
	if end > len(children) {
		end = len(children)
	}

	var b strings.Builder
	for i := top.offset; i < end; i++ {
		b.WriteString(m.renderRow(children[i], i == top.cursor, nil))
		b.WriteString("\n")
	}
	return b.String()
}

// viewRecent shows where the last session left off, on the root screen
// only
func (m *Model) viewRecent() string {
	entry, ok := m.lastVisit()
	if !ok {
		return ""
	}
	return "\n" + styles.DimStyle.Render("last visited: ") +
		styles.AccentStyle.Render(entry.Title) +
		styles.DimStyle.Render("  (' to jump back)") + "\n"
}

func (m *Model) viewFilter() string {
	var b strings.Builder
	b.WriteString(m.filterInput.View())
	b.WriteString("\n")

	for i, match := range m.matches {
		if i >= m.listHeight()-1 {
			break
		}
		b.WriteString(m.renderRow(match.Node, i == m.matchCursor, match.MatchedIndexes))
		b.WriteString("\n")
	}
	if len(m.matches) == 0 && m.filterInput.Value() != "" {
		b.WriteString(styles.DimStyle.Render("  no matches"))
	}
	return b.String()
}

func (m *Model) renderRow(node domain.NavigationNode, selected bool, matched []int) string {
	marker := "  "
	if node.Playable {
		marker = styles.PlayableDot + " "
	} else if node.IsDirectory() || node.Expandable {
		marker = styles.DirectoryDot + " "
	}

	title := node.Title
	if len(matched) > 0 && !selected {
		title = highlight(title, matched)
	}
	if selected {
		return "  " + marker + styles.SelectedStyle.Render(node.Title)
	}
	return "  " + marker + title
}

// highlight underlines the matched rune positions
func highlight(title string, matched []int) string {
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	var b strings.Builder
	for i, r := range []rune(title) {
		if set[i] {
			b.WriteString(styles.MatchStyle.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *Model) breadcrumbs() string {
	parts := make([]string, 0, len(m.stack))
	for _, f := range m.stack {
		parts = append(parts, f.node.Title)
	}
	return strings.Join(parts, " › ")
}

func (m *Model) viewFooter() string {
	if m.errText != "" {
		return styles.ErrorStyle.Render(m.errText)
	}

	if m.showHelp {
		help := "j/k move · enter open/play · h back · / filter · r refresh · ' last visited · g/G top/bottom · q quit"
		return styles.FooterStyle.Render(help)
	}

	stats := m.library.GroupStats()
	line := fmt.Sprintf("%d items · %d requests · %d coalesced",
		len(m.visibleChildren()), stats.TotalRequests, stats.CoalescedRequests)
	if m.status != "" {
		line = m.status + " · " + line
	}
	return styles.FooterStyle.Render(line)
}
