package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the deepset banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"     _                          _   ", "#818cf8"},
		{"  __| | ___  ___ _ __  ___  ___| |_ ", "#a78bfa"},
		{" / _` |/ _ \\/ _ \\ '_ \\/ __|/ _ \\ __|", "#c084fc"},
		{"| (_| |  __/  __/ |_) \\__ \\  __/ |_ ", "#e879f9"},
		{" \\__,_|\\___|\\___| .__/|___/\\___|\\__|", "#f472b6"},
		{"                |_|                 ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
