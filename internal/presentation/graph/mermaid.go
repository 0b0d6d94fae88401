package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/canvas/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a diagram snapshot.
// Containers with children become subgraphs, relationships become edges and
// node shapes follow the element kind:
// - Initial: ((Circle))
// - Final: (((Double circle)))
// - Merge: {Diamond}
// - Action: (Rounded)
// - Default: [Rectangle]
// Selected and interactive elements are styled through overlay classes.
func GenerateMermaid(state *domain.State) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if state == nil {
		return sb.String()
	}

	seen := make(map[string]bool)
	var edges []*domain.Element
	var walk func(ids []string, depth int)
	walk = func(ids []string, depth int) {
		indent := strings.Repeat("    ", depth)
		for _, id := range ids {
			el, err := state.Lookup(id)
			if err != nil || seen[id] {
				continue
			}
			seen[id] = true

			switch {
			case el.IsRelationship():
				edges = append(edges, el)
			case el.IsContainer() && len(el.OwnedElements) > 0:
				fmt.Fprintf(&sb, "%ssubgraph %s[\"%s\"]\n", indent, sanitizeMermaidID(id), label(el))
				walk(el.OwnedElements, depth+1)
				fmt.Fprintf(&sb, "%send\n", indent)
			default:
				opener, closer := shape(el.Kind)
				fmt.Fprintf(&sb, "%s%s%s\"%s\"%s\n", indent, sanitizeMermaidID(id), opener, label(el), closer)
			}
		}
	}
	walk(state.Roots(), 1)

	for _, rel := range edges {
		if rel.Source == nil || rel.Target == nil {
			continue
		}
		arrow := arrowOf(rel.Kind)
		if rel.Name != "" {
			arrow = fmt.Sprintf("%s|\"%s\"|", arrow, escape(rel.Name))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(rel.Source.Element), arrow, sanitizeMermaidID(rel.Target.Element))
	}

	var selected, interactive []string
	for _, el := range state.Elements() {
		if el.Selected {
			selected = append(selected, sanitizeMermaidID(el.ID))
		}
		if el.Interactive {
			interactive = append(interactive, sanitizeMermaidID(el.ID))
		}
	}
	if len(selected) == 0 && len(interactive) == 0 {
		return sb.String()
	}

	sb.WriteString("\n    %% Overlay Styles\n")
	// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme
	sb.WriteString("    classDef selected fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
	sb.WriteString("    classDef interactive fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
	for _, id := range selected {
		fmt.Fprintf(&sb, "    class %s selected;\n", id)
	}
	for _, id := range interactive {
		fmt.Fprintf(&sb, "    class %s interactive;\n", id)
	}
	return sb.String()
}

func shape(k domain.Kind) (string, string) {
	switch k {
	case domain.KindActivityInitialNode:
		return "((", "))"
	case domain.KindActivityFinalNode:
		return "(((", ")))"
	case domain.KindActivityMergeNode:
		return "{", "}"
	case domain.KindActivityActionNode:
		return "(", ")"
	case domain.KindInterface, domain.KindAbstractClass:
		return "[/", "/]"
	}
	return "[", "]"
}

func arrowOf(k domain.Kind) string {
	switch k {
	case domain.KindClassAssociation:
		return "---"
	case domain.KindClassInheritance:
		return "==>"
	case domain.KindClassDependency:
		return "-.->"
	}
	return "-->"
}

func label(el *domain.Element) string {
	if el.Name == "" {
		return string(el.Kind)
	}
	return escape(el.Name)
}

// escape swaps double quotes, which would end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
