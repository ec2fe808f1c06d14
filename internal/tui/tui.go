// Package tui is the interactive review surface. It renders one diff
// session at a time, moves a cursor between change blocks, and forwards
// toggle/apply/cancel intents to the session. All diff semantics live in
// the session; the TUI only displays entries and selection state.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sokinpui/sift/cli"
	"github.com/sokinpui/sift/diff"
	"github.com/sokinpui/sift/model"
	"github.com/sokinpui/sift/session"
	"github.com/sokinpui/sift/sift"
)

// --- Styles ---
var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	deletedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	commonStyle  = lipgloss.NewStyle().Faint(true)
	cursorStyle  = lipgloss.NewStyle().Reverse(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

// --- Key bindings ---
type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Toggle    key.Binding
	ToggleAll key.Binding
	Apply     key.Binding
	Skip      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Next:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "next block")),
	Prev:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "prev block")),
	Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	ToggleAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle all")),
	Apply:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
	Skip:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "skip file")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// --- Messages ---
type plannedMsg struct {
	reviews []*sift.Review
	skipped []string
}

type errorMsg struct{ err error }

func (e errorMsg) Error() string { return e.err.Error() }

// --- Model ---
type state int

const (
	statePlanning state = iota
	stateReview
	stateSummary
	stateError
)

type Model struct {
	app *sift.App
	cfg *cli.Config

	state    state
	spinner  spinner.Model
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	reviews []*sift.Review
	idx     int
	blocks  []int // block ids of the current review, in entry order
	cursor  int   // index into blocks

	applied []string
	skipped []string
	failed  []string
	notice  string

	summary model.Summary
	err     error
}

func New(app *sift.App, cfg *cli.Config) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return Model{
		app:     app,
		cfg:     cfg,
		spinner: s,
		state:   statePlanning,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.plan}
	if !m.cfg.NoAnimation {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m Model) plan() tea.Msg {
	reviews, skipped, err := m.app.Plan()
	if err != nil {
		return errorMsg{err}
	}
	return plannedMsg{reviews: reviews, skipped: skipped}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Header, notice and help lines frame the viewport.
		vpHeight := msg.Height - 4
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		if m.state == stateReview {
			m.refresh()
		}
		return m, nil

	case plannedMsg:
		m.skipped = msg.skipped
		m.reviews = msg.reviews
		if len(m.reviews) == 0 {
			return m.finish("No changes to review.")
		}
		m.state = stateReview
		m.idx = 0
		m.loadReview()
		return m, nil

	case errorMsg:
		m.state = stateError
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if m.state != stateReview {
			if key.Matches(msg, keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		return m.updateReview(msg)

	default:
		var cmd tea.Cmd
		if m.state == statePlanning && !m.cfg.NoAnimation {
			m.spinner, cmd = m.spinner.Update(msg)
		}
		return m, cmd
	}
}

func (m Model) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	r := m.reviews[m.idx]
	m.notice = ""

	switch {
	case key.Matches(msg, keys.Quit):
		// Cancel this and every remaining review before summarizing.
		for _, rest := range m.reviews[m.idx:] {
			rest.Session.Cancel()
			m.skipped = append(m.skipped, rest.Display)
		}
		return m.finish("")

	case key.Matches(msg, keys.Next):
		if m.cursor < len(m.blocks)-1 {
			m.cursor++
		}
		m.refresh()

	case key.Matches(msg, keys.Prev):
		if m.cursor > 0 {
			m.cursor--
		}
		m.refresh()

	case key.Matches(msg, keys.Toggle):
		if len(m.blocks) > 0 {
			r.Session.Toggle(m.blocks[m.cursor])
		}
		m.refresh()

	case key.Matches(msg, keys.ToggleAll):
		r.Session.ToggleAll()
		m.refresh()

	case key.Matches(msg, keys.Apply):
		if _, err := m.app.Commit(r); err != nil {
			if errors.Is(err, session.ErrEmptySelection) {
				m.notice = "No change blocks selected. Press s to skip this file instead."
				return m, nil
			}
			// The session stays open, so the reviewer can retry the apply.
			m.notice = fmt.Sprintf("Apply failed: %v (press enter to retry, s to skip)", err)
			return m, nil
		}
		m.applied = append(m.applied, r.Display)
		return m.advance()

	case key.Matches(msg, keys.Skip):
		r.Session.Cancel()
		m.skipped = append(m.skipped, r.Display)
		return m.advance()
	}

	return m, nil
}

func (m Model) advance() (tea.Model, tea.Cmd) {
	m.idx++
	if m.idx >= len(m.reviews) {
		return m.finish("")
	}
	m.loadReview()
	return m, nil
}

func (m Model) finish(message string) (tea.Model, tea.Cmd) {
	summary, err := m.app.Finish(m.applied, m.skipped, m.failed)
	if err != nil {
		m.state = stateError
		m.err = err
		return m, tea.Quit
	}
	if message != "" && summary.Message == "" {
		summary.Message = message
	}
	m.summary = summary
	m.state = stateSummary
	return m, tea.Quit
}

// loadReview resets cursor state for the review at m.idx.
func (m *Model) loadReview() {
	m.blocks = diff.Blocks(m.reviews[m.idx].Session.Entries())
	m.cursor = 0
	m.refresh()
}

// refresh re-renders the diff into the viewport and keeps the cursor block
// in view.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	content, cursorLine := m.renderDiff()
	m.viewport.SetContent(content)

	offset := cursorLine - m.viewport.Height/2
	if offset < 0 {
		offset = 0
	}
	m.viewport.SetYOffset(offset)
}

// renderDiff renders the current review and returns the rendered text plus
// the line index of the cursor block's first entry.
func (m *Model) renderDiff() (string, int) {
	r := m.reviews[m.idx]
	sess := r.Session

	var cursorBlock = diff.NoBlock
	if len(m.blocks) > 0 {
		cursorBlock = m.blocks[m.cursor]
	}

	var b strings.Builder
	cursorLine := 0
	seen := make(map[int]bool)

	for i, e := range sess.Entries() {
		prefix := "      "
		if e.Block != diff.NoBlock && !seen[e.Block] {
			seen[e.Block] = true
			if sess.Selected(e.Block) {
				prefix = "[x]   "
			} else {
				prefix = "[ ]   "
			}
			if e.Block == cursorBlock {
				cursorLine = i
			}
		}

		var line string
		switch e.Type {
		case diff.Added:
			line = addedStyle.Render(fmt.Sprintf("%s+ %s", prefix, e.Content))
		case diff.Deleted:
			line = deletedStyle.Render(fmt.Sprintf("%s- %s", prefix, e.Content))
		default:
			line = commonStyle.Render(fmt.Sprintf("%s  %s", prefix, e.Content))
		}
		if e.Block != diff.NoBlock && e.Block == cursorBlock {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String(), cursorLine
}

func (m Model) View() string {
	switch m.state {
	case statePlanning:
		if m.cfg.NoAnimation {
			return "Computing diffs..."
		}
		return fmt.Sprintf("%s Computing diffs...", m.spinner.View())
	case stateError:
		return errorStyle.Render("Error: " + m.err.Error())
	case stateSummary:
		return m.renderSummary()
	case stateReview:
		return m.renderReview()
	default:
		return ""
	}
}

func (m Model) renderReview() string {
	if !m.ready {
		return "Loading..."
	}
	r := m.reviews[m.idx]
	stats := r.Session.Stats()

	header := headerStyle.Render(fmt.Sprintf(
		"%s (%s)  +%d -%d  file %d/%d  block %d/%d  %d selected",
		r.Display, r.Action,
		stats.AddedLines, stats.DeletedLines,
		m.idx+1, len(m.reviews),
		m.cursor+1, len(m.blocks),
		r.Session.SelectedCount(),
	))

	notice := ""
	if m.notice != "" {
		notice = noticeStyle.Render(m.notice)
	}

	help := helpStyle.Render("j/k: blocks · space: toggle · a: toggle all · enter: apply · s: skip · q: quit")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, m.viewport.View(), notice, help)
}

func (m Model) renderSummary() string {
	var b strings.Builder

	if m.summary.Message != "" {
		b.WriteString(headerStyle.Render(m.summary.Message))
		b.WriteString("\n\n")
	}

	hasContent := false
	if len(m.summary.Applied) > 0 {
		hasContent = true
		b.WriteString(successStyle.Render("Applied:"))
		b.WriteString("\n")
		for _, f := range m.summary.Applied {
			b.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}
	if len(m.summary.Skipped) > 0 {
		hasContent = true
		b.WriteString(warnStyle.Render("Skipped:"))
		b.WriteString("\n")
		for _, f := range m.summary.Skipped {
			b.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}
	if len(m.summary.Failed) > 0 {
		hasContent = true
		b.WriteString(errorStyle.Render("Failed:"))
		b.WriteString("\n")
		for _, f := range m.summary.Failed {
			b.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}

	if !hasContent && m.summary.Message == "" {
		b.WriteString(helpStyle.Render("Nothing to do."))
	}

	return b.String()
}
