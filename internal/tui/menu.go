package tui

import (
	"fmt"
	"strings"
)

// plotKind identifies one of the figures the viewer can draw.
type plotKind int

const (
	plotMap plotKind = iota
	plotBar1Q
	plotBar1QByGenerator
	plotBar2Q
	plotBar2QByGenerator
	plotSwarm
	plotSwarm1Body
	plotSwarm2Body
	numPlots
)

// menuItem represents a single plot choice in the menu.
type menuItem struct {
	name string
	kind plotKind
}

// menuCategory groups related plots under a tab.
type menuCategory struct {
	name  string
	items []menuItem
}

// plotMenu defines the plot picker categories and items.
var plotMenu = []menuCategory{
	{
		name: "Map",
		items: []menuItem{
			{name: "Layer error map", kind: plotMap},
		},
	},
	{
		name: "Bars",
		items: []menuItem{
			{name: "1-body by qubit", kind: plotBar1Q},
			{name: "1-body by generator", kind: plotBar1QByGenerator},
			{name: "2-body by edge", kind: plotBar2Q},
			{name: "2-body by generator", kind: plotBar2QByGenerator},
		},
	},
	{
		name: "Swarm",
		items: []menuItem{
			{name: "All generators", kind: plotSwarm},
			{name: "1-body generators", kind: plotSwarm1Body},
			{name: "2-body generators", kind: plotSwarm2Body},
		},
	},
}

func (k plotKind) String() string {
	for _, cat := range plotMenu {
		for _, item := range cat.items {
			if item.kind == k {
				return item.name
			}
		}
	}
	return fmt.Sprintf("plot %d", int(k))
}

// renderMenu renders the plot picker popup.
func (m Model) renderMenu() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Choose Plot"))
	sb.WriteString("\n")

	for i, cat := range plotMenu {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(plotMenu)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", 30)))
	sb.WriteString("\n")

	for i, item := range plotMenu[m.menuCat].items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ " + item.name))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(item.name))
		}
		sb.WriteString("\n")
	}
	sb.WriteString(dimStyle.Render(" ↑↓ Select  ←→ Cat  ⏎ Ok  Esc ✕"))

	return menuBorderStyle.Render(sb.String())
}
