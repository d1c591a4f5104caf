// Package tui is an interactive terminal viewer for learned layer noise.
package tui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"

	"qtermdebug/embedding"
	"qtermdebug/lindblad"
	"qtermdebug/viz"
	"qtermdebug/viz/term"
)

// focus represents which panel has keyboard input.
type focus int

const (
	focusPlot focus = iota
	focusMenu
)

// Model represents the viewer state.
type Model struct {
	layers []lindblad.LayerNoise
	src    embedding.Source
	layer  int
	plot   plotKind
	focus  focus

	// Menu state
	menuCat  int
	menuItem int

	width    int
	height   int
	ready    bool
	viewport viewport.Model
	help     help.Model
}

// New returns a viewer over the layers of result drawn on the layout src.
func New(result *lindblad.Result, src embedding.Source) (Model, error) {
	if result == nil || result.Len() == 0 {
		return Model{}, errors.New("no layers to show")
	}
	if _, err := embedding.Resolve(src); err != nil {
		return Model{}, err
	}
	return Model{
		layers: result.Layers(),
		src:    src,
		help:   help.New(),
	}, nil
}

// Run starts the viewer and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return errors.Wrap(err, "run viewer")
}

// figure draws the selected plot.
func (m Model) figure() (*viz.Figure, error) {
	layer := m.layers[m.layer]
	switch m.plot {
	case plotMap:
		return viz.DrawLayerErrorMap(layer, m.src, viz.MapOptions{})
	case plotBar1Q:
		return viz.DrawLayerError1QBarPlot(layer, viz.BarOptions{})
	case plotBar1QByGenerator:
		return viz.DrawLayerError1QBarPlot(layer, viz.BarOptions{Grouping: viz.GroupByGenerator})
	case plotBar2Q:
		return viz.DrawLayerError2QBarPlot(layer, viz.BarOptions{})
	case plotBar2QByGenerator:
		return viz.DrawLayerError2QBarPlot(layer, viz.BarOptions{Grouping: viz.GroupByGenerator})
	case plotSwarm:
		return viz.DrawLayerErrorsSwarm(m.layers, viz.SwarmOptions{})
	case plotSwarm1Body:
		return viz.DrawLayerErrorsSwarm(m.layers, viz.SwarmOptions{NumBodies: 1})
	case plotSwarm2Body:
		return viz.DrawLayerErrorsSwarm(m.layers, viz.SwarmOptions{NumBodies: 2})
	default:
		return nil, errors.Errorf("unknown plot %d", m.plot)
	}
}

// refresh redraws the plot into the viewport.
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	fig, err := m.figure()
	if err != nil {
		m.viewport.SetContent(errorStyle.Render(err.Error()))
		return
	}
	var buf bytes.Buffer
	r := term.Renderer{Width: max(m.viewport.Width-2, 10), Height: max(m.viewport.Height-3, 5)}
	if err := r.Render(&buf, fig); err != nil {
		m.viewport.SetContent(errorStyle.Render(err.Error()))
		return
	}
	m.viewport.SetContent(buf.String())
	m.viewport.GotoTop()
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		plotW := max(m.width*2/3-4, 20)
		plotH := max(m.height-4, 8)
		m.viewport = viewport.New(plotW, plotH)
		m.help.Width = m.width
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.focus == focusMenu {
			m.updateMenu(msg)
			return m, nil
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.PrevLayer):
			if m.layer > 0 {
				m.layer--
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, keys.NextLayer):
			if m.layer < len(m.layers)-1 {
				m.layer++
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, keys.NextPlot):
			m.plot = (m.plot + 1) % numPlots
			m.refresh()
			return m, nil
		case key.Matches(msg, keys.Menu):
			m.focus = focusMenu
			m.menuCat = 0
			m.menuItem = 0
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) updateMenu(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, keys.Back):
		m.focus = focusPlot
	case key.Matches(msg, keys.Up):
		if m.menuItem > 0 {
			m.menuItem--
		}
	case key.Matches(msg, keys.Down):
		if m.menuItem < len(plotMenu[m.menuCat].items)-1 {
			m.menuItem++
		}
	case key.Matches(msg, keys.PrevLayer):
		if m.menuCat > 0 {
			m.menuCat--
			m.menuItem = 0
		}
	case key.Matches(msg, keys.NextLayer):
		if m.menuCat < len(plotMenu)-1 {
			m.menuCat++
			m.menuItem = 0
		}
	case key.Matches(msg, keys.Select):
		m.plot = plotMenu[m.menuCat].items[m.menuItem].kind
		m.focus = focusPlot
		m.refresh()
	}
}

// ──────────────────────────── View ────────────────────────────

// View renders the UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.focus == focusMenu {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.renderMenu())
	}

	header := titleStyle.Render(fmt.Sprintf("Layer %d/%d", m.layer, len(m.layers)-1)) +
		dimStyle.Render(" · ") + activeStyle.Render(m.plot.String())
	plotPanel := plotStyle.Render(m.viewport.View())
	layerPanel := layerStyle.Render(m.renderLayerPanel())
	body := lipgloss.JoinHorizontal(lipgloss.Top, plotPanel, layerPanel)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.help.View(keys))
}

// renderLayerPanel summarises the current layer: its circuit on physical
// qubits and the size of its generator set.
func (m Model) renderLayerPanel() string {
	layer := m.layers[m.layer]
	errs := layer.Errors()

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Layer circuit"))
	sb.WriteString("\n")
	sb.WriteString(layer.Circuit().Diagram(layer.Qubits()))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "qubits      %v\n", layer.Qubits())
	fmt.Fprintf(&sb, "generators  %d\n", errs.Len())
	fmt.Fprintf(&sb, "1-body      %d\n", errs.RestrictNumBodies(1).Len())
	fmt.Fprintf(&sb, "2-body      %d\n", errs.RestrictNumBodies(2).Len())
	fmt.Fprintf(&sb, "max rate    %.4g\n", errs.MaxRate())
	if errs.HasStderr() {
		sb.WriteString(dimStyle.Render("rates carry standard errors"))
		sb.WriteString("\n")
	}
	return sb.String()
}
