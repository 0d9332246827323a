// Package viz renders a live terminal view of the joint registry.
package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/robosim/internal/joint"
	"github.com/san-kum/robosim/internal/physics"
)

const (
	refreshInterval = 100 * time.Millisecond
	historyCapacity = 120
)

var (
	headerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	graphStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Source is the registry view the TUI polls.
type Source interface {
	List() []joint.Exchange
	Count() int
}

type TickMsg time.Time

type Model struct {
	source   Source
	rows     []joint.Exchange
	selected int
	history  []float64
	paused   bool
}

func NewModel(source Source) Model {
	return Model{source: source, history: make([]float64, 0, historyCapacity)}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
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
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.history = m.history[:0]
			}
		case "down", "j":
			if m.selected < len(m.rows)-1 {
				m.selected++
				m.history = m.history[:0]
			}
		case " ":
			m.paused = !m.paused
		}
	case TickMsg:
		if !m.paused {
			m.rows = m.source.List()
			if m.selected >= len(m.rows) {
				m.selected = 0
			}
			if m.selected < len(m.rows) {
				m.history = append(m.history, m.rows[m.selected].Velocity)
				if len(m.history) > historyCapacity {
					m.history = m.history[1:]
				}
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%s | joints: %d",
		physics.Active().Name(), m.source.Count())))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-4s %-14s %-10s %-11s %9s %9s %6s",
		"id", "name", "type", "bodies", "vel", "torque", "steps")))
	b.WriteString("\n")

	for i, row := range m.rows {
		line := fmt.Sprintf("%-4d %-14s %-10s %4d <> %-4d %9.3f %9.3f %6d",
			row.ID, row.Name, row.Type, row.BodyA, row.BodyB,
			row.Velocity, row.Torque, row.Steps)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString(valueStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if len(m.history) > 1 {
		graph := asciigraph.Plot(m.history,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("velocity setpoint"))
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("j/k: select  space: pause  q: quit"))
	return b.String()
}

// Run blocks inside the bubbletea program until the user quits.
func Run(source Source) error {
	_, err := tea.NewProgram(NewModel(source)).Run()
	return err
}
