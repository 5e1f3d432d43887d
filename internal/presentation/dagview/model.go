// Package dagview implements the bubbletea model behind `pipeforge dag
// --interactive`: a scrollable list of a pipeline's layers and the nodes in
// each, grounded on the teacher's internal/tui Model (same Init/Update/View
// shape, generalized from step execution state to static DAG structure).
package dagview

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"

	"github.com/pipeforge/pipeforge/internal/domain/pipeline"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Padding(1, 1, 0, 1)
)

// nodeItem adapts a pipeline.DagNode to bubbles/list's list.Item.
type nodeItem struct {
	node pipeline.DagNode
}

func (i nodeItem) Title() string { return i.node.Name }
func (i nodeItem) Description() string {
	return "in: " + joinOrDash(i.node.Inputs) + "  out: " + joinOrDash(i.node.Outputs)
}
func (i nodeItem) FilterValue() string { return i.node.Name }

func joinOrDash(ss []string) string {
	if len(ss) == 0 {
		return "-"
	}
	out := ss[0]
	for _, s := range ss[1:] {
		out += ", " + s
	}
	return out
}

// Model is the bubbletea program for browsing a built pipeline's DAG by
// layer. Each layer's nodes populate a bubbles/list.Model; left/right (or
// h/l) switch between layers.
type Model struct {
	pipelineName string
	layerLists   []list.Model
	layerIndex   int
	width        int
	height       int
}

// New builds a Model from export, one list per layer found in export.Nodes.
func New(pipelineName string, export pipeline.DagExport) Model {
	byLayer := map[int][]pipeline.DagNode{}
	maxLayer := 0
	for _, n := range export.Nodes {
		byLayer[n.Layer] = append(byLayer[n.Layer], n)
		if n.Layer > maxLayer {
			maxLayer = n.Layer
		}
	}

	lists := make([]list.Model, maxLayer+1)
	for layer := 0; layer <= maxLayer; layer++ {
		items := make([]list.Item, 0, len(byLayer[layer]))
		for _, n := range byLayer[layer] {
			items = append(items, nodeItem{node: n})
		}
		l := list.New(items, list.NewDefaultDelegate(), 0, 0)
		l.Title = titleFor(layer)
		l.SetShowHelp(false)
		lists[layer] = l
	}

	return Model{pipelineName: pipelineName, layerLists: lists}
}

func titleFor(layer int) string {
	return lipgloss.NewStyle().Bold(true).Render("layer ") + lipgloss.NewStyle().Render(itoa(layer))
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update handles window resize and layer navigation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		for i := range m.layerLists {
			m.layerLists[i].SetSize(msg.Width, msg.Height-6)
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "tab":
			if m.layerIndex < len(m.layerLists)-1 {
				m.layerIndex++
			}
			return m, nil
		case "left", "h", "shift+tab":
			if m.layerIndex > 0 {
				m.layerIndex--
			}
			return m, nil
		}
	}

	if len(m.layerLists) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	m.layerLists[m.layerIndex], cmd = m.layerLists[m.layerIndex].Update(msg)
	return m, cmd
}

// View renders the active layer's node list plus a footer naming the
// pipeline and the total layer count.
func (m Model) View() string {
	if len(m.layerLists) == 0 {
		return titleStyle.Render("empty pipeline") + "\n"
	}
	header := titleStyle.Render(m.pipelineName) + "\n"
	body := m.layerLists[m.layerIndex].View()
	footer := helpStyle.Render(itoa(m.layerIndex+1) + "/" + itoa(len(m.layerLists)) + "  ←/→ switch layer  q quit")
	return header + body + "\n" + footer
}
