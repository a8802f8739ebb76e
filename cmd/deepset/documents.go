package main

import (
	"fmt"

	"github.com/aretw0/deepset/internal/cli"
	"github.com/aretw0/deepset/internal/presentation/tui"
	"github.com/aretw0/deepset/pkg/domain"
	"github.com/aretw0/deepset/pkg/path"
	"github.com/spf13/cobra"
)

func newSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id> <path> <value>",
		Short: "Write a value at a path inside a document",
		Long: `Writes value at path inside the document, creating the document and every
missing level. The value is parsed as JSON and kept as text otherwise.
Use "-" to read the value from stdin.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			doc, err := e.manager.Set(cmd.Context(), args[0], p, value)
			if status, _ := cmd.Flags().GetBool("print-status"); status {
				fmt.Fprintln(cmd.OutOrStdout(), tui.Status(err == nil, err))
				return err
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().Bool("print-status", false, "Print a status line instead of the document")
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id> [path]",
		Short: "Print a document or the value at a path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, domain.Hooks{})
			if err != nil {
				return err
			}
			defer e.Close()

			if len(args) == 1 {
				doc, err := e.manager.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), doc)
			}

			p, err := path.Sanitize(args[1])
			if err != nil {
				return err
			}
			v, ok, err := e.manager.Get(cmd.Context(), args[0], p)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no value at %q in %s", args[1], args[0])
			}
			return printJSON(cmd.OutOrStdout(), v)
		},
	}
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, domain.Hooks{})
			if err != nil {
				return err
			}
			defer e.Close()

			ids, err := e.manager.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, domain.Hooks{})
			if err != nil {
				return err
			}
			defer e.Close()
			return e.manager.Delete(cmd.Context(), args[0])
		},
	}
}
