// Package tui provides the Bubble Tea post-editing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/acastaldi/pedit/internal/diff"
	"github.com/acastaldi/pedit/internal/model"
	"github.com/acastaldi/pedit/internal/session"
	"github.com/acastaldi/pedit/internal/stats"
	"github.com/acastaldi/pedit/internal/store"
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	progressDone  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	progressTodo  = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	panelStyle    = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.RoundedBorder(), true).BorderForeground(lipgloss.Color("#4A4A4A"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	metricStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	completeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
)

type tickMsg time.Time

// Model implements the Bubble Tea post-editing UI.
type Model struct {
	nav        *session.Navigator
	store      *store.Store
	user       model.User
	corpusPath string
	keys       keyMap

	editor textarea.Model
	jump   textinput.Model

	width  int
	height int

	sessionStart time.Time
	jumpMode     bool
	showDiff     bool
	errMsg       string

	saved   bool
	saveErr error
}

// NewModel constructs a post-editing TUI model. The navigator must already
// have segments loaded.
func NewModel(nav *session.Navigator, st *store.Store, user model.User, corpusPath string) *Model {
	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.SetHeight(4)
	editor.Focus()

	jump := textinput.New()
	jump.Prompt = "Jump to segment: "
	jump.CharLimit = 6

	m := &Model{
		nav:          nav,
		store:        st,
		user:         user,
		corpusPath:   corpusPath,
		keys:         defaultKeyMap(),
		editor:       editor,
		jump:         jump,
		sessionStart: time.Now(),
	}
	m.loadActiveSegment()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.editor.SetWidth(m.contentWidth())
		return m, nil
	case tickMsg:
		if m.nav.State() == session.StateActive {
			return m, tickCmd()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.nav.State() == session.StateComplete {
		if msg.String() == "q" || msg.Type == tea.KeyEnter {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.jumpMode {
		return m.handleJumpKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.transition(func() error { return m.nav.Advance(m.editor.Value()) })
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.transition(func() error { return m.nav.Retreat(m.editor.Value()) })
		return m, nil
	case key.Matches(msg, m.keys.Jump):
		m.jumpMode = true
		m.jump.SetValue("")
		m.jump.Focus()
		m.editor.Blur()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Diff):
		m.showDiff = !m.showDiff
		return m, nil
	case key.Matches(msg, m.keys.Restore):
		if seg, ok := m.nav.Current(); ok {
			m.editor.SetValue(seg.Text)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) handleJumpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.leaveJumpMode()
		return m, nil
	case tea.KeyEnter:
		target, err := strconv.Atoi(strings.TrimSpace(m.jump.Value()))
		if err != nil {
			m.errMsg = "segment number must be an integer"
			m.leaveJumpMode()
			return m, nil
		}
		// Operators count segments from 1.
		m.transition(func() error { return m.nav.Jump(target-1, m.editor.Value()) })
		m.leaveJumpMode()
		return m, nil
	}
	var cmd tea.Cmd
	m.jump, cmd = m.jump.Update(msg)
	return m, cmd
}

func (m *Model) leaveJumpMode() {
	m.jumpMode = false
	m.jump.Blur()
	m.editor.Focus()
}

// transition runs a navigator call, refreshes the editor on success, and
// persists the session once complete.
func (m *Model) transition(move func() error) {
	if err := move(); err != nil {
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	if m.nav.State() == session.StateComplete {
		m.finishSession()
		return
	}
	m.loadActiveSegment()
}

func (m *Model) loadActiveSegment() {
	if seg, ok := m.nav.Current(); ok {
		m.editor.SetValue(seg.Text)
		m.editor.CursorEnd()
	}
}

func (m *Model) finishSession() {
	bundle := model.SessionBundle{
		UserID:     m.user.ID,
		StartedAt:  m.sessionStart,
		EndedAt:    time.Now(),
		CorpusPath: m.corpusPath,
		Records:    m.nav.Records(),
	}
	if _, err := m.store.SaveSession(context.Background(), bundle); err != nil {
		m.saveErr = err
		logErrf("failed to save session: %v\n", err)
		return
	}
	m.saved = true
}

// Completed reports whether the session reached the end.
func (m *Model) Completed() bool {
	return m.nav.State() == session.StateComplete
}

// Records returns the session record history.
func (m *Model) Records() []model.EditRecord {
	return m.nav.Records()
}

func (m *Model) contentWidth() int {
	width := m.width - 6
	if width < 20 {
		width = 20
	}
	return width
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.nav.State() == session.StateComplete {
		return m.viewSummary()
	}
	return m.viewEditor()
}

func (m *Model) viewEditor() string {
	seg, ok := m.nav.Current()
	if !ok {
		return ""
	}
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Segment %d/%d", seg.Index+1, m.nav.Len())))
	b.WriteString("\n")
	b.WriteString(m.renderProgress(width))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Original:"))
	b.WriteString("\n")
	b.WriteString(panelStyle.Width(width).Render(sourceStyle.Render(seg.Text)))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Edit translation:"))
	b.WriteString("\n")
	b.WriteString(m.editor.View())
	b.WriteString("\n")

	if m.showDiff {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Changes:"))
		b.WriteString("\n")
		b.WriteString(panelStyle.Width(width).Render(diff.Render(seg.Text, m.editor.Value())))
		b.WriteString("\n")
	}

	if m.jumpMode {
		b.WriteString("\n")
		b.WriteString(m.jump.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m *Model) renderProgress(width int) string {
	if width < 10 {
		width = 10
	}
	done := m.nav.Index() * width / m.nav.Len()
	bar := progressDone.Render(strings.Repeat("█", done)) +
		progressTodo.Render(strings.Repeat("░", width-done))
	return bar
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return errorStyle.Render(m.errMsg)
	}
	seg, ok := m.nav.Current()
	if !ok {
		return ""
	}
	parts := []string{
		fmt.Sprintf("Elapsed %s", stats.FormatSeconds(m.nav.Elapsed().Seconds())),
	}
	if edited := m.editor.Value(); edited != seg.Text {
		insertions, deletions := diff.CountEdits(seg.Text, edited)
		parts = append(parts, fmt.Sprintf("+%d -%d words", insertions, deletions))
	}
	parts = append(parts, m.renderKeysHelp())
	return footerStyle.Render(strings.Join(parts, "  ·  "))
}

func (m *Model) renderKeysHelp() string {
	bindings := []key.Binding{m.keys.Next, m.keys.Prev, m.keys.Jump, m.keys.Diff, m.keys.Restore}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, fmt.Sprintf("%s %s", b.Help().Key, b.Help().Desc))
	}
	return strings.Join(parts, " | ")
}

func (m *Model) viewSummary() string {
	records := m.nav.Records()
	summary := session.Summarize(records)

	var b strings.Builder
	b.WriteString(completeStyle.Render("Post-editing completed!"))
	b.WriteString("\n\n")

	lines := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("Total Segments:"), metricStyle.Render(fmt.Sprintf("%d", summary.TotalSegments))),
		fmt.Sprintf("%s %s", labelStyle.Render("Total Time:"), metricStyle.Render(fmt.Sprintf("%.1fs", summary.TotalTime))),
		fmt.Sprintf("%s %s", labelStyle.Render("Avg Time/Segment:"), metricStyle.Render(fmt.Sprintf("%.1fs", summary.AverageTime))),
		fmt.Sprintf("%s %s", labelStyle.Render("Total Insertions:"), metricStyle.Render(fmt.Sprintf("%d", summary.TotalInsertions))),
		fmt.Sprintf("%s %s", labelStyle.Render("Total Deletions:"), metricStyle.Render(fmt.Sprintf("%d", summary.TotalDeletions))),
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Detailed Metrics:"))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(renderRecordTable(records)))
	b.WriteString("\n\n")

	switch {
	case m.saveErr != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Session not saved: %v", m.saveErr)))
	case m.saved:
		b.WriteString(footerStyle.Render(fmt.Sprintf("Session saved for %s %s.", m.user.Name, m.user.Surname)))
	}
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("Press q to exit."))
	return b.String()
}

func renderRecordTable(records []model.EditRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%-10s %10s %10s %10s\n", "segment", "time (s)", "ins", "del"))
	for _, r := range records {
		b.WriteString(fmt.Sprintf("%-10d %10.2f %10d %10d\n", r.SegmentID, r.EditTime, r.Insertions, r.Deletions))
	}
	return b.String()
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
