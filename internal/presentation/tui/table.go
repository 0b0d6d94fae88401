package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
)

// ElementTable renders the elements of a snapshot as a markdown document:
// one row per element in id order, plus a selection summary.
func ElementTable(title string, state *domain.State) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if state == nil || state.Len() == 0 {
		sb.WriteString("_empty diagram_\n")
		return sb.String()
	}

	sb.WriteString("| ID | Kind | Name | Owner | Bounds | Flags |\n")
	sb.WriteString("|----|------|------|-------|--------|-------|\n")
	for _, el := range state.Elements() {
		fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s |\n",
			cell(el.ID), el.Kind, cell(el.Name), cell(el.Owner), bounds(el), flags(el))
	}

	if sel := state.Selection(); len(sel) > 0 {
		fmt.Fprintf(&sb, "\n**Selection:** %s\n", strings.Join(sel, ", "))
	}
	return sb.String()
}

func bounds(el *domain.Element) string {
	if el.IsRelationship() && el.Source != nil && el.Target != nil {
		return fmt.Sprintf("%s.%s → %s.%s", el.Source.Element, el.Source.Direction, el.Target.Element, el.Target.Direction)
	}
	b := el.Bounds
	return fmt.Sprintf("%g,%g %gx%g", b.X, b.Y, b.Width, b.Height)
}

func flags(el *domain.Element) string {
	var f []string
	if el.Selected {
		f = append(f, "selected")
	}
	if el.Hovered {
		f = append(f, "hovered")
	}
	if el.Interactive {
		f = append(f, "interactive")
	}
	return strings.Join(f, " ")
}

// cell keeps pipes from breaking the table.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
