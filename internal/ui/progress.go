// Package ui renders the progress of a multi-file vlalign run in the terminal.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"vlalign/internal/driver"
)

// maxRows limits the file list; older rows scroll away.
const maxRows = 15

const statusWidth = 10

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	queuedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// stageInfo: подпись активной стадии и доля файла, пройденная к её началу.
var stageInfo = map[driver.Stage]struct {
	label string
	share float64
}{
	driver.StageLoad:   {"loading", 0.1},
	driver.StageAlign:  {"aligning", 0.4},
	driver.StageVerify: {"verifying", 0.7},
	driver.StageWrite:  {"writing", 0.9},
}

type row struct {
	path   string
	stage  driver.Stage
	status driver.Status
}

func (r row) label() string {
	switch r.status {
	case driver.StatusWorking:
		return stageInfo[r.stage].label
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	}
	return "queued"
}

func (r row) style() lipgloss.Style {
	switch r.status {
	case driver.StatusWorking:
		return workingStyle
	case driver.StatusDone:
		return doneStyle
	case driver.StatusError:
		return failedStyle
	}
	return queuedStyle
}

// share is how much of this file's work is finished, in [0, 1].
func (r row) share() float64 {
	switch r.status {
	case driver.StatusDone, driver.StatusError:
		return 1
	case driver.StatusWorking:
		return stageInfo[r.stage].share
	}
	return 0
}

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model
	rows    []row
	byPath  map[string]int
	width   int
	failed  int
	done    bool
}

type eventMsg driver.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model fed by the driver's progress
// events. files may be empty: rows are added as files show up in events.
// The model quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	for _, f := range files {
		m.row(f)
	}
	return m
}

// row returns the index of path's row, adding a queued one if needed.
func (m *progressModel) row(path string) int {
	if i, ok := m.byPath[path]; ok {
		return i
	}
	m.rows = append(m.rows, row{path: path, stage: driver.StageLoad, status: driver.StatusQueued})
	m.byPath[path] = len(m.rows) - 1
	return len(m.rows) - 1
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case closedMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = max(msg.Width-4, 10)
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	r := &m.rows[m.row(ev.File)]
	r.stage, r.status = ev.Stage, ev.Status
	if ev.Status == driver.StatusError {
		m.failed++
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range m.rows {
		sum += r.share()
	}
	return sum / float64(len(m.rows))
}

func (m *progressModel) View() string {
	if len(m.rows) == 0 {
		return ""
	}
	header := m.title
	if m.failed > 0 {
		header += fmt.Sprintf(", %d failed", m.failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-statusWidth-4, 20)
	shown := m.rows
	if hidden := len(shown) - maxRows; hidden > 0 {
		shown = shown[hidden:]
		fmt.Fprintf(&b, "  %*s ... %d more\n", statusWidth, "", hidden)
	}
	for _, r := range shown {
		status := r.style().Render(fmt.Sprintf("%*s", statusWidth, r.label()))
		fmt.Fprintf(&b, "  %s %s\n", status, truncate(r.path, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// truncate shortens value to width display cells, ending in "..." when
// there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
