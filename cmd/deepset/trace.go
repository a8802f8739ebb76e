package main

import (
	"fmt"
	"os"

	"github.com/aretw0/deepset/internal/cli"
	"github.com/aretw0/deepset/internal/presentation/graph"
	"github.com/aretw0/deepset/internal/presentation/tui"
	httpAdapter "github.com/aretw0/deepset/pkg/adapters/http"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
	"github.com/spf13/cobra"
)

func newTraceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace <id> <path> <value>",
		Short: "Write a value and show every step of the walk",
		Long: `Runs the same write as "set" and prints each level the walk resolved or
constructed. Output formats:
- table (default): markdown table, rendered when stdout is a terminal
- mermaid: flowchart of the walk
- json: one object per step`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("output")
			switch format {
			case "table", "mermaid", "json":
			default:
				return fmt.Errorf("unknown output format %q", format)
			}

			e, err := setup(cmd, domain.Hooks{})
			if err != nil {
				return err
			}
			defer e.Close()

			p, err := path.Sanitize(args[1])
			if err != nil {
				return err
			}
			value, err := cli.ParseValue(args[2], cmd.InOrStdin())
			if err != nil {
				return err
			}

			steps, walkErr := e.manager.Trace(cmd.Context(), args[0], p, value)
			out := cmd.OutOrStdout()

			switch format {
			case "mermaid":
				fmt.Fprint(out, graph.GenerateMermaid(steps))
			case "json":
				views := make([]httpAdapter.StepView, len(steps))
				for i, step := range steps {
					views[i] = httpAdapter.NewStepView(step)
				}
				if err := printJSON(out, views); err != nil {
					return err
				}
			default:
				pretty := out == os.Stdout && tui.IsTerminal(os.Stdout)
				md := tui.TraceMarkdown(fmt.Sprintf("%s %s", args[0], args[1]), steps)
				if err := tui.WriteMarkdown(out, md, pretty); err != nil {
					return err
				}
			}
			return walkErr
		},
	}
	cmd.Flags().StringP("output", "o", "table", "Output format: table, mermaid, json")
	return cmd
}
