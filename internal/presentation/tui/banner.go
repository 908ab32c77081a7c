package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the gift ASCII banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{"        _  __ _   ", "#34d399"},
		{"   __ _(_)/ _| |_ ", "#2dd4bf"},
		{"  / _` | | |_| __|", "#22d3ee"},
		{" | (_| | |  _| |_ ", "#38bdf8"},
		{"  \\__, |_|_|  \\__|", "#60a5fa"},
		{"  |___/           ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Status renders "v<version> undo:<yes|no> redo:<yes|no>" with green/red markers.
func Status(version int, canUndo, canRedo bool) string {
	p := termenv.ColorProfile()
	flag := func(name string, ok bool) string {
		if ok {
			return p.String(name + ":yes").Foreground(p.Color("#22c55e")).String()
		}
		return p.String(name + ":no").Foreground(p.Color("#ef4444")).Faint().String()
	}
	return fmt.Sprintf("v%d %s %s", version, flag("undo", canUndo), flag("redo", canRedo))
}
