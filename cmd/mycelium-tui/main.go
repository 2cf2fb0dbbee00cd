// Package main is an interactive dashboard over a simulated mycelium
// network: browse nodes, discover routes, inject damage, and watch the
// network repair itself.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-mycelium/pkg/analysis"
	"github.com/dd0wney/cluso-mycelium/pkg/config"
	"github.com/dd0wney/cluso-mycelium/pkg/engine"
	"github.com/dd0wney/cluso-mycelium/pkg/logging"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AFFFAF")).
			MarginLeft(2).
			MarginTop(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FFFF")).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#AFFFAF")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Padding(0, 2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginRight(2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type view int

const (
	dashboardView view = iota
	nodesView
	pathsView
	damageView
	numViews
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Quit     key.Binding
	Up       key.Binding
	Down     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("up/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("down/j", "down"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Up, k.Down},
		{k.Quit},
	}
}

type model struct {
	engine      *engine.Engine
	currentView view
	pathInput   textinput.Model
	damageInput textinput.Model
	nodeTable   table.Model
	help        help.Model
	keys        keyMap
	width       int
	height      int
	message     string
	messageErr  bool
	startTime   time.Time
	snap        analysis.Snapshot
	pathReport  string
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func initialModel(eng *engine.Engine) model {
	pi := textinput.New()
	pi.Placeholder = "node_0 node_17"
	pi.CharLimit = 80
	pi.Width = 40

	di := textinput.New()
	di.Placeholder = "node_4 node_9"
	di.CharLimit = 200
	di.Width = 60

	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Health", Width: 10},
		{Title: "Resource", Width: 12},
		{Title: "Capacity", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#000000")).
		Background(lipgloss.Color("#AFFFAF")).
		Bold(false)
	t.SetStyles(s)

	m := model{
		engine:      eng,
		currentView: dashboardView,
		pathInput:   pi,
		damageInput: di,
		nodeTable:   t,
		help:        help.New(),
		keys:        keys,
		startTime:   time.Now(),
		snap:        eng.MetricsSnapshot(),
	}
	m.refreshNodeTable()
	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.snap = m.engine.MetricsSnapshot()
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Tab):
			m.switchView((m.currentView + 1) % numViews)

		case key.Matches(msg, m.keys.ShiftTab):
			if m.currentView == 0 {
				m.switchView(numViews - 1)
			} else {
				m.switchView(m.currentView - 1)
			}

		case key.Matches(msg, m.keys.Enter):
			switch m.currentView {
			case pathsView:
				m.discoverPaths()
			case damageView:
				m.applyDamage()
			}
		}
	}

	switch m.currentView {
	case pathsView:
		m.pathInput, cmd = m.pathInput.Update(msg)
		cmds = append(cmds, cmd)
	case damageView:
		m.damageInput, cmd = m.damageInput.Update(msg)
		cmds = append(cmds, cmd)
	case nodesView:
		m.nodeTable, cmd = m.nodeTable.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *model) switchView(v view) {
	m.currentView = v
	m.pathInput.Blur()
	m.damageInput.Blur()
	switch v {
	case pathsView:
		m.pathInput.Focus()
	case damageView:
		m.damageInput.Focus()
	case nodesView:
		m.refreshNodeTable()
	}
}

func (m *model) discoverPaths() {
	parts := strings.Fields(m.pathInput.Value())
	if len(parts) != 2 {
		m.message = "Enter exactly two node IDs, e.g. node_0 node_17"
		m.messageErr = true
		return
	}

	start := time.Now()
	paths, err := m.engine.DiscoverPaths(parts[0], parts[1], 0)
	if err != nil {
		m.message = fmt.Sprintf("Discovery error: %v", err)
		m.messageErr = true
		return
	}
	elapsed := time.Since(start)

	var b strings.Builder
	for i, p := range paths {
		fmt.Fprintf(&b, "%d. cost %.2f  %s\n", i+1, p.Cost, strings.Join(p.Nodes, " -> "))
	}
	m.pathReport = b.String()
	m.message = fmt.Sprintf("Found %d route(s) in %s", len(paths), elapsed)
	m.messageErr = false
}

func (m *model) applyDamage() {
	victims := strings.Fields(m.damageInput.Value())
	if len(victims) == 0 {
		m.message = "Enter node IDs to damage, e.g. node_4 node_9"
		m.messageErr = true
		return
	}

	report, err := m.engine.ApplyDamage(victims)
	if err != nil {
		m.message = fmt.Sprintf("Damage error: %v", err)
		m.messageErr = true
		return
	}

	m.snap = m.engine.MetricsSnapshot()
	m.refreshNodeTable()
	m.message = fmt.Sprintf("Repaired in %s: %d edge(s) grown, %d pair(s) unreachable",
		report.Elapsed.Round(time.Microsecond), len(report.EdgesAdded), report.PairsUnreachable)
	m.messageErr = report.PairsUnreachable > 0
}

func (m *model) refreshNodeTable() {
	nodes := m.engine.Graph().Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	rows := make([]table.Row, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, table.Row{
			n.ID,
			n.Health.String(),
			fmt.Sprintf("%.1f", n.ResourceLevel),
			fmt.Sprintf("%.1f", n.Capacity),
		})
	}
	m.nodeTable.SetRows(rows)
}

func (m model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render("Mycelium Network Dashboard"))
	s.WriteString("\n\n")
	s.WriteString(m.renderTabs())
	s.WriteString("\n\n")

	switch m.currentView {
	case dashboardView:
		s.WriteString(m.renderDashboard())
	case nodesView:
		s.WriteString(m.renderNodes())
	case pathsView:
		s.WriteString(m.renderPaths())
	case damageView:
		s.WriteString(m.renderDamage())
	}

	if m.message != "" {
		s.WriteString("\n\n")
		if m.messageErr {
			s.WriteString(errorStyle.Render("x " + m.message))
		} else {
			s.WriteString(successStyle.Render("+ " + m.message))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))

	return s.String()
}

func (m model) renderTabs() string {
	tabs := []string{"Dashboard", "Nodes", "Paths", "Damage"}
	var renderedTabs []string

	for i, tab := range tabs {
		if view(i) == m.currentView {
			renderedTabs = append(renderedTabs, activeTabStyle.Render(tab))
		} else {
			renderedTabs = append(renderedTabs, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, renderedTabs...)
}

func (m model) renderDashboard() string {
	uptime := time.Since(m.startTime).Round(time.Second)

	statsContent := fmt.Sprintf(`Network
---------------
Nodes:      %d
Edges:      %d
Damaged:    %d nodes, %d edges
Grown:      %d edges
Uptime:     %s`,
		m.snap.Nodes,
		m.snap.Edges,
		m.snap.DamagedNodes,
		m.snap.DamagedEdges,
		m.snap.GrownEdges,
		uptime,
	)

	resilienceContent := fmt.Sprintf(`Resilience
---------------
Components:       %d
Largest ratio:    %.2f
Mean path hops:   %.2f
Resource stock:   %.0f / %.0f`,
		m.snap.Components,
		m.snap.LargestComponentRatio,
		m.snap.MeanPathHops,
		m.snap.TotalResource,
		m.snap.TotalCapacity,
	)

	statsBox := statsBoxStyle.Render(statsContent)
	resilienceBox := statsBoxStyle.Render(resilienceContent)

	return contentStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Top, statsBox, resilienceBox),
	)
}

func (m model) renderNodes() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Node Browser"))
	s.WriteString("\n\n")
	s.WriteString(m.nodeTable.View())

	return contentStyle.Render(s.String())
}

func (m model) renderPaths() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Route Discovery"))
	s.WriteString("\n\n")
	s.WriteString("Source and target node IDs:\n\n")
	s.WriteString(m.pathInput.View())

	if m.pathReport != "" {
		s.WriteString("\n\n")
		s.WriteString(m.pathReport)
	}

	return contentStyle.Render(s.String())
}

func (m model) renderDamage() string {
	var s strings.Builder

	s.WriteString(headerStyle.Render("Damage Injection"))
	s.WriteString("\n\n")
	s.WriteString("Node IDs to destroy (healing runs automatically):\n\n")
	s.WriteString(m.damageInput.View())

	return contentStyle.Render(s.String())
}

func main() {
	nodes := flag.Int("nodes", 20, "Network size")
	seed := flag.Int64("seed", 7, "Random seed")
	flag.Parse()

	logger := logging.NewJSONLogger(os.Stderr, logging.ErrorLevel)
	eng, err := engine.New(context.Background(), config.Default(), logger)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}
	defer eng.Close()

	if _, err := eng.BuildRandomNetwork(engine.BuildOptions{Nodes: *nodes, Seed: *seed}); err != nil {
		log.Fatalf("Failed to build network: %v", err)
	}

	p := tea.NewProgram(initialModel(eng), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
