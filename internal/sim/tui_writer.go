package sim

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"subsim/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// sonarMsg carries one tick's beam samples.
type sonarMsg struct{ rows []telemetry.SonarRow }

// trackMsg carries a contact track update.
type trackMsg struct{ row telemetry.TrackRow }

// eventMsg carries a combat event log line.
type eventMsg struct{ line string }

const eventLogLimit = 200

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("17")).Padding(0, 1)
	sonarStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))
	eventStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	modeColors = map[string]string{
		"PATROL":    "8",
		"APPROACH":  "11",
		"PROSECUTE": "208",
		"ATTACK":    "196",
		"EVADE":     "13",
	}
)

// TUIWriter renders the sonar picture using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(scenarioID string) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(scenarioID), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements SonarWriter for single rows.
func (w *TUIWriter) Write(row telemetry.SonarRow) error {
	return w.WriteBatch([]telemetry.SonarRow{row})
}

// WriteBatch forwards one tick's beam samples to the model.
func (w *TUIWriter) WriteBatch(rows []telemetry.SonarRow) error {
	if w.program != nil {
		w.program.Send(sonarMsg{rows: rows})
	}
	return nil
}

// WriteTrack forwards a contact update to the model.
func (w *TUIWriter) WriteTrack(row telemetry.TrackRow) error {
	if w.program != nil {
		w.program.Send(trackMsg{row: row})
	}
	return nil
}

// WriteTracks forwards multiple contact updates.
func (w *TUIWriter) WriteTracks(rows []telemetry.TrackRow) error {
	for _, r := range rows {
		_ = w.WriteTrack(r)
	}
	return nil
}

// WriteEvent forwards a combat event to the model.
func (w *TUIWriter) WriteEvent(ev telemetry.EventRow) error {
	if w.program != nil {
		line := fmt.Sprintf("%s  %-12s %s -> %s %s", ev.Timestamp.Format("15:04:05"), ev.EventType, ev.SourceID, ev.TargetID, ev.Detail)
		w.program.Send(eventMsg{line: line})
	}
	return nil
}

// WriteEvents forwards multiple combat events.
func (w *TUIWriter) WriteEvents(rows []telemetry.EventRow) error {
	for _, ev := range rows {
		_ = w.WriteEvent(ev)
	}
	return nil
}

// Close stops the underlying program without signaling the process.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if p, ok := w.program.(*tea.Program); ok {
		p.Quit()
		<-w.done
	}
	return nil
}

type tuiModel struct {
	scenarioID string
	table      table.Model
	vp         viewport.Model
	sonar      []telemetry.SonarRow
	tracks     map[string]telemetry.TrackRow
	events     []string
	wrap       bool
	autoscroll bool
	width      int
	height     int
}

func newTUIModel(scenarioID string) tuiModel {
	cols := []table.Column{
		{Title: "Contact", Width: 14},
		{Title: "Class", Width: 9},
		{Title: "Mode", Width: 10},
		{Title: "Brg", Width: 5},
		{Title: "Range", Width: 8},
		{Title: "SE", Width: 7},
		{Title: "Ping", Width: 4},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(8))
	return tuiModel{
		scenarioID: scenarioID,
		table:      t,
		vp:         viewport.New(0, 0),
		tracks:     make(map[string]telemetry.TrackRow),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.vp.Height = m.eventHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
		case "a":
			m.autoscroll = !m.autoscroll
		}
	case sonarMsg:
		m.sonar = msg.rows
	case trackMsg:
		m.tracks[msg.row.ContactID] = msg.row
		m.refreshTable()
	case eventMsg:
		m.events = append(m.events, msg.line)
		if len(m.events) > eventLogLimit {
			m.events = m.events[len(m.events)-eventLogLimit:]
		}
		m.refreshViewport()
	}
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *tuiModel) eventHeight() int {
	h := m.height - 16
	if h < 3 {
		h = 3
	}
	return h
}

func (m *tuiModel) refreshTable() {
	ids := make([]string, 0, len(m.tracks))
	for id := range m.tracks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rows := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		tr := m.tracks[id]
		ping := ""
		if tr.Pinging {
			ping = "*"
		}
		mode := tr.Mode
		if c, ok := modeColors[tr.Mode]; ok {
			mode = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(tr.Mode)
		}
		rows = append(rows, table.Row{
			tr.Name,
			tr.Classification,
			mode,
			fmt.Sprintf("%03.0f", tr.Bearing),
			fmt.Sprintf("%.0f", tr.RangeYds),
			fmt.Sprintf("%+.1f", tr.SignalExcess),
			ping,
		})
	}
	m.table.SetRows(rows)
}

func (m *tuiModel) refreshViewport() {
	lines := m.events
	if m.wrap && m.vp.Width > 0 {
		wrapped := make([]string, 0, len(lines))
		for _, l := range lines {
			wrapped = append(wrapped, wordwrap.String(l, m.vp.Width))
		}
		lines = wrapped
	}
	m.vp.SetContent(eventStyle.Render(strings.Join(lines, "\n")))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

// sparkLevels maps dB above ambient floor to block glyphs.
var sparkLevels = []rune(" ▁▂▃▄▅▆▇█")

// renderSonar draws the bearing-power buffer as a block-glyph strip.
func (m tuiModel) renderSonar() string {
	if len(m.sonar) == 0 {
		return ""
	}
	lo, hi := m.sonar[0].LevelDB, m.sonar[0].LevelDB
	for _, r := range m.sonar {
		if r.LevelDB < lo {
			lo = r.LevelDB
		}
		if r.LevelDB > hi {
			hi = r.LevelDB
		}
	}
	span := hi - lo
	if span <= 0 {
		span = 1
	}
	var b strings.Builder
	for _, r := range m.sonar {
		idx := int((r.LevelDB - lo) / span * float64(len(sparkLevels)-1))
		b.WriteRune(sparkLevels[idx])
	}
	scale := fmt.Sprintf("000%snorth up%s360", strings.Repeat(" ", 10), strings.Repeat(" ", 10))
	return sonarStyle.Render(b.String()) + "\n" + scale
}

func (m tuiModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("SUBSIM  scenario: %s  contacts: %d  [q]uit [w]rap [a]utoscroll", m.scenarioID, len(m.tracks)))
	return strings.Join([]string{
		header,
		m.renderSonar(),
		m.table.View(),
		m.vp.View(),
	}, "\n")
}
