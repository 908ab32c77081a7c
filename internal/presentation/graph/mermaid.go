package graph

import (
	"fmt"
	"strings"

	"github.com/goldi-lab/gift/pkg/domain"
)

// Overlay selects which parts of the editor state are highlighted.
type Overlay struct {
	// CurrentStates marks the simulated state of every automaton.
	CurrentStates bool
	// HideZeroTransitions drops edges whose condition is the logic zero symbol.
	HideZeroTransitions bool
}

// GenerateMermaid produces a Mermaid flowchart of every automaton in the
// editor. Each automaton becomes a subgraph; states use these shapes:
// - Initial state: ((Circle))
// - Others: [Rectangle]
func GenerateMermaid(editor domain.EditorState, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var current []string
	for _, aid := range editor.AutomatonIDs() {
		a := editor.Automatons[aid]
		fmt.Fprintf(&sb, "    subgraph a%d[\"%s\"]\n", a.ID, escapeLabel(a.Name))

		for _, n := range editor.NodesOf(aid) {
			opener, closer := "[", "]"
			if n.Number == a.InitialState {
				opener, closer = "((", "))"
			}
			label := nodeLabel(n, editor.Outputs)
			fmt.Fprintf(&sb, "        %s%s\"%s\"%s\n", nodeID(n.ID), opener, label, closer)

			if overlay != nil && overlay.CurrentStates {
				if num, ok := editor.CurrentStates[aid]; ok && num == n.Number {
					current = append(current, nodeID(n.ID))
				}
			}
		}

		for _, t := range editor.TransitionsOf(aid) {
			cond := strings.TrimSpace(t.Condition)
			if overlay != nil && overlay.HideZeroTransitions && cond == editor.Operators.LogicZero {
				continue
			}
			arrow := "-->"
			if cond != "" {
				arrow = fmt.Sprintf("-- \"%s\" -->", escapeLabel(cond))
			}
			fmt.Fprintf(&sb, "        %s %s %s\n", nodeID(t.FromNodeID), arrow, nodeID(t.ToNodeID))
		}
		sb.WriteString("    end\n")
	}

	if len(current) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) so the highlight reads on light and dark themes.
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range current {
			fmt.Fprintf(&sb, "    class %s current;\n", id)
		}
	}

	return sb.String()
}

func nodeLabel(n domain.Node, outputs []string) string {
	name := n.Name
	if name == "" {
		name = fmt.Sprintf("S%d", n.Number)
	}
	var parts []string
	for _, out := range outputs {
		if eq := strings.TrimSpace(n.Outputs[out]); eq != "" {
			parts = append(parts, out+"="+eq)
		}
	}
	if len(parts) == 0 {
		return escapeLabel(name)
	}
	return escapeLabel(name) + " <br/> " + escapeLabel(strings.Join(parts, ", "))
}

func nodeID(id int) string {
	return fmt.Sprintf("n%d", id)
}

// escapeLabel replaces double quotes, which would end a Mermaid label.
func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
