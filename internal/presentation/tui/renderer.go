package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/goldi-lab/gift/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Summary describes a snapshot as markdown: signals, automatons with their
// states and transitions, and the history position.
func Summary(snap domain.Snapshot) string {
	ed := snap.Current.Editor
	var sb strings.Builder

	sb.WriteString("# Session\n\n")
	fmt.Fprintf(&sb, "Version **%d** · %d history entries · undo %s · redo %s\n\n",
		snap.CurrentVersion, len(snap.History), yesNo(snap.CanUndo), yesNo(snap.CanRedo))

	sb.WriteString("## Signals\n\n")
	fmt.Fprintf(&sb, "- Inputs: %s\n", listOrNone(ed.Inputs))
	fmt.Fprintf(&sb, "- Outputs: %s\n", listOrNone(ed.Outputs))
	fmt.Fprintf(&sb, "- Don't care (h*): `%s`\n\n", ed.GlobalInputDontCare)

	if len(ed.Automatons) == 0 {
		sb.WriteString("_No automatons._\n")
		return sb.String()
	}

	for _, aid := range ed.AutomatonIDs() {
		a := ed.Automatons[aid]
		active := ""
		if slices.Contains(ed.ActiveAutomatons, aid) {
			active = " (active)"
		}
		fmt.Fprintf(&sb, "## %s%s\n\n", a.Name, active)
		if a.Info != "" {
			fmt.Fprintf(&sb, "%s\n\n", a.Info)
		}
		if len(a.ControlSignals) > 0 {
			fmt.Fprintf(&sb, "Control signals: %s\n\n", listOrNone(a.ControlSignals))
		}

		nodes := ed.NodesOf(aid)
		if len(nodes) > 0 {
			sb.WriteString("| State | Name | Outputs |\n|---|---|---|\n")
			for _, n := range nodes {
				marker := ""
				if n.Number == a.InitialState {
					marker = " ▶"
				}
				fmt.Fprintf(&sb, "| %d%s | %s | %s |\n", n.Number, marker, n.Name, equations(n.Outputs))
			}
			sb.WriteString("\n")
		}

		for _, t := range ed.TransitionsOf(aid) {
			from, to := ed.Nodes[t.FromNodeID], ed.Nodes[t.ToNodeID]
			fmt.Fprintf(&sb, "- %d → %d when `%s`\n", from.Number, to.Number, t.Condition)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func equations(m map[string]string) string {
	var parts []string
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if v := strings.TrimSpace(m[k]); v != "" {
			parts = append(parts, fmt.Sprintf("`%s=%s`", k, v))
		}
	}
	return strings.Join(parts, " ")
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return "`" + strings.Join(items, "`, `") + "`"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
