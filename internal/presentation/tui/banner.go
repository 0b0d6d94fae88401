package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the canvas ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ___ __ _ _ ____   ____ _ ___", "#818cf8"},
		{"  / __/ _` | '_ \\ \\ / / _` / __|", "#a78bfa"},
		{" | (_| (_| | | | \\ V / (_| \\__ \\", "#c084fc"},
		{"  \\___\\__,_|_| |_|\\_/ \\__,_|___/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
