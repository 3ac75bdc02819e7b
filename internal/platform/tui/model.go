package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koyoi/falls/internal/core"
	"github.com/koyoi/falls/internal/system"
)

// statsInterval is how often process stats are resampled.
const statsInterval = time.Second

// MonitorOptions configures a monitor view.
type MonitorOptions struct {
	TickRate     int
	Drive        bool // Tick the director from this view
	AllowCapture bool
	Title        string
}

// MonitorModel is the Bubble Tea model showing live director state.
type MonitorModel struct {
	hub        *Hub
	opts       MonitorOptions
	sampler    *system.Sampler
	keys       MonitorKeyMap
	help       help.Model
	params     core.Params
	stats      system.Stats
	lastTick   time.Time
	lastSample time.Time
	status     string
	width      int
	height     int
	quitting   bool
}

// NewMonitorModel creates a monitor over hub. sampler may be nil.
func NewMonitorModel(hub *Hub, sampler *system.Sampler, opts MonitorOptions) MonitorModel {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.Title == "" {
		opts.Title = "falls"
	}
	return MonitorModel{
		hub:     hub,
		opts:    opts,
		sampler: sampler,
		keys:    DefaultMonitorKeyMap(),
		help:    help.New(),
		params:  hub.Snapshot(),
	}
}

// Init starts the refresh loop.
func (m MonitorModel) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles messages and updates the model state.
func (m MonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m MonitorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Capture):
		switch {
		case !m.opts.AllowCapture:
			m.status = "capture disabled for this session"
		case m.hub.TriggerCapture():
			m.status = "capture armed"
		default:
			m.status = "no capture request loaded yet"
		}
	}
	return m, nil
}

// handleTick advances the director (when driving) and refreshes the view.
func (m MonitorModel) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.opts.Drive {
		var dt float64
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
		}
		m.params = m.hub.Tick(dt)
	} else {
		m.params = m.hub.Snapshot()
	}
	m.lastTick = now

	if m.sampler != nil && now.Sub(m.lastSample) >= statsInterval {
		m.stats = m.sampler.Sample()
		m.lastSample = now
	}

	return m, tickCmd(m.opts.TickRate)
}

// Params returns the last observed snapshot.
func (m MonitorModel) Params() core.Params {
	return m.params
}

// Status returns the last status line.
func (m MonitorModel) Status() string {
	return m.status
}

// View renders the monitor.
func (m MonitorModel) View() string {
	if m.quitting {
		return ""
	}

	p := m.params
	var b strings.Builder

	title := fmt.Sprintf("%s  %s  tick %d", m.opts.Title, dimStyle.Render(m.hub.WatchDir()), p.Tick)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")

	left := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.presetView(p)),
		panelStyle.Render(m.appearanceView(p)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Render(m.forceView(p)),
		panelStyle.Render(m.sequenceView(p)),
		panelStyle.Render(m.captureView(p)),
	)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	b.WriteString("\n")

	if m.sampler != nil {
		b.WriteString(dimStyle.Render(fmt.Sprintf("rss %s  cpu %.1f%%  host mem %.0f%%  goroutines %d",
			system.FormatBytes(m.stats.RSS), m.stats.CPUPercent, m.stats.MemPercent, m.stats.Goroutines)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(alertStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m MonitorModel) presetView(p core.Params) string {
	name := p.PresetName
	if name == "" {
		name = dimStyle.Render("(default)")
	}
	return strings.Join([]string{
		titleStyle.Render("Preset"),
		field("name", name),
		field("emission", fmt.Sprintf("%d/s", p.EmissionRate)),
		field("seed", p.Seed),
		field("gravity", vec(p.Gravity)),
		field("drag", fmt.Sprintf("%.2f", p.Drag)),
		field("sway", fmt.Sprintf("%.1f @ %.2f Hz", p.SwayAmp, p.SwayFreq)),
		field("spin", fmt.Sprintf("%.0f°/s", p.Spin)),
	}, "\n")
}

func (m MonitorModel) appearanceView(p core.Params) string {
	mask := p.ObstacleMask
	if mask == "" {
		mask = dimStyle.Render("none")
	} else {
		mask = filepath.Base(mask)
	}
	return strings.Join([]string{
		titleStyle.Render("Appearance"),
		field("palette", swatches(p.Palette)),
		field("background", swatches(p.Background)),
		field("size", fmt.Sprintf("%.1f..%.1f px", p.SizeMin, p.SizeMax)),
		field("bloom", fmt.Sprintf("%.2f", p.Bloom)),
		field("mask", mask),
		field("stickiness", fmt.Sprintf("%.2f", p.ObstacleStickiness)),
	}, "\n")
}

func (m MonitorModel) forceView(p core.Params) string {
	event := dimStyle.Render("none")
	if p.ActiveEvent >= 0 {
		event = fmt.Sprintf("#%d", p.ActiveEvent)
		if p.ActiveType != "" {
			event += " " + p.ActiveType
		}
	}
	heading := "-"
	if !p.Force.IsZero() {
		heading = fmt.Sprintf("%.0f°", headingDeg(p.Force))
	}
	return strings.Join([]string{
		titleStyle.Render("Force"),
		field("vector", fmt.Sprintf("%s %s", arrow(p.Force), vec(p.Force))),
		field("magnitude", fmt.Sprintf("%.1f", p.ForceMagnitude)),
		field("heading", heading),
		field("event", event),
		field("time", fmt.Sprintf("%.2fs", p.ForceTime)),
	}, "\n")
}

func (m MonitorModel) sequenceView(p core.Params) string {
	return strings.Join([]string{
		titleStyle.Render("Sequence"),
		field("time", fmt.Sprintf("%.2fs", p.SequenceTime)),
		field("next track", p.SequenceIndex),
	}, "\n")
}

func (m MonitorModel) captureView(p core.Params) string {
	state := dimStyle.Render("idle")
	if p.CapturePending {
		state = alertStyle.Render(fmt.Sprintf("pending, %d ticks", p.CaptureRemaining))
	}
	last := dimStyle.Render("none")
	switch n := len(p.LastCapture); {
	case n == 1:
		last = filepath.Base(p.LastCapture[0])
	case n > 1:
		last = fmt.Sprintf("%s (+%d)", filepath.Base(p.LastCapture[0]), n-1)
	}
	return strings.Join([]string{
		titleStyle.Render("Capture"),
		field("state", state),
		field("last", last),
	}, "\n")
}

// RunMonitor runs the monitor in the local terminal until the user quits.
func RunMonitor(hub *Hub, sampler *system.Sampler, opts MonitorOptions) error {
	model := NewMonitorModel(hub, sampler, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
