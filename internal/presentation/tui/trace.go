package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/deepset/pkg/domain"
	"github.com/muesli/termenv"
)

// TraceMarkdown renders the steps of a walk as a markdown table.
func TraceMarkdown(title string, steps []domain.Step) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", title)
	sb.WriteString("| # | Kind | Key | Depth | Status |\n")
	sb.WriteString("|---|------|-----|-------|--------|\n")
	for i, step := range steps {
		status := ""
		if step.Final() {
			status = "ok"
			if !step.OK {
				status = "failed"
				if step.Err != nil {
					status = "failed: " + step.Err.Error()
				}
			}
		}
		fmt.Fprintf(&sb, "| %d | %s | `%v` | %d | %s |\n",
			i+1, step.Kind, step.Key, step.Depth, strings.ReplaceAll(status, "|", "\\|"))
	}
	return sb.String()
}

// Status formats the outcome of a write for a terminal line.
func Status(ok bool, err error) string {
	p := termenv.ColorProfile()
	if ok {
		return termenv.String("✓ set").Foreground(p.Color("#22c55e")).String()
	}
	msg := "✗ not set"
	if err != nil {
		msg += ": " + err.Error()
	}
	return termenv.String(msg).Foreground(p.Color("#ef4444")).String()
}
