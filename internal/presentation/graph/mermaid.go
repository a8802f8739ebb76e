// Package graph draws walk traces as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/deepset/pkg/domain"
)

// RootID names the node standing for the host.
const RootID = "root"

// GenerateMermaid produces a Mermaid flowchart of a walk.
// Shapes follow the step kind:
// - Root: ((Circle))
// - Resolved: [Rectangle]
// - Constructed: [[Subroutine]]
// - Result: {{Hexagon}}, styled ok or failed.
func GenerateMermaid(steps []domain.Step) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")
	sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", RootID, RootID))

	prev := RootID
	var resultID string
	var ok bool
	for i, step := range steps {
		id := fmt.Sprintf("s%d", i)
		label := escapeLabel(fmt.Sprint(step.Key))

		opener, closer := "[", "]"
		switch step.Kind {
		case domain.StepConstructed:
			opener, closer = "[[", "]]"
		case domain.StepResult:
			opener, closer = "{{", "}}"
			if step.Err != nil {
				label = fmt.Sprintf("%s <br/> %s", label, escapeLabel(step.Err.Error()))
			}
			resultID, ok = id, step.OK
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, label, closer))

		arrow := "-->"
		if step.Kind == domain.StepConstructed {
			arrow = "-. new .->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", prev, arrow, id))
		prev = id
	}

	if resultID != "" {
		sb.WriteString("\n    %% Outcome Styles\n")
		sb.WriteString("    classDef ok fill:#e8f5e9,stroke:#2e7d32,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef failed fill:#ffebee,stroke:#c62828,stroke-width:4px,color:#000;\n")
		class := "failed"
		if ok {
			class = "ok"
		}
		sb.WriteString(fmt.Sprintf("    class %s %s;\n", resultID, class))
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
