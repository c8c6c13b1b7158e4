package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"padbridge/bridge"
	"padbridge/protocol"
	"padbridge/widgets"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// Model is a read-only mirror of one bridge instance: connection
// state, the pad grid as last reported by the sequencer, and queue
// counters.
type Model struct {
	Bridge   *bridge.Bridge
	quitting bool
}

type tickMsg time.Time

func NewModel(b *bridge.Bridge) Model {
	return Model{Bridge: b}
}

func tick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	case tickMsg:
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("padbridge"))
	b.WriteString("\n\n")

	if dev := m.Bridge.Active(); dev != nil {
		b.WriteString(activeStyle.Render(fmt.Sprintf("● %s", dev.Name())))
	} else {
		conn := m.Bridge.Connection()
		b.WriteString(dimStyle.Render(fmt.Sprintf("○ waiting for controller (in=%s out=%s)",
			sideName(m.Bridge, conn.Input), sideName(m.Bridge, conn.Output))))
	}
	b.WriteString("\n\n")

	b.WriteString(widgets.RenderPadGrid(m.padColors()))
	b.WriteString("\n\n")

	sample := protocol.ColorRGB(protocol.Palette[0])
	b.WriteString(widgets.RenderLegendItem(sample, "playing", "full colour"))
	b.WriteString("\n")
	b.WriteString(widgets.RenderLegendItem(dimmed(sample), "stopped", "dimmed"))
	b.WriteString("\n")
	b.WriteString(widgets.RenderLegendItem([3]uint8{20, 20, 20}, "disabled", "unused slot"))
	b.WriteString("\n\n")

	q := m.Bridge.Queue()
	b.WriteString(dimStyle.Render(fmt.Sprintf("queue: %d pending, %d dropped", q.Len(), q.Dropped())))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("q: quit"))
	b.WriteString("\n")
	return b.String()
}

// padColors maps the 64-slot grid into display colors, dimming
// everything except playing pads so status reads at a glance.
func (m Model) padColors() [8][8][3]uint8 {
	var grid [8][8][3]uint8
	pads := m.Bridge.Pads().Snapshot()
	for i, pad := range pads {
		rgb := protocol.ColorRGB(pad.Color)
		switch pad.Status {
		case bridge.Disabled:
			rgb = [3]uint8{20, 20, 20}
		case bridge.Stopped:
			rgb = dimmed(rgb)
		}
		grid[i/8][i%8] = rgb
	}
	return grid
}

func dimmed(c [3]uint8) [3]uint8 {
	return [3]uint8{c[0] / 3, c[1] / 3, c[2] / 3}
}

func sideName(b *bridge.Bridge, idx int) string {
	if idx == bridge.Unset {
		return "-"
	}
	return b.Supported()[idx]
}
