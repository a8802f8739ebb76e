package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/deepset"
	"github.com/aretw0/deepset/internal/presentation/tui"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of deepset",
		Run: func(cmd *cobra.Command, args []string) {
			if banner, _ := cmd.Flags().GetBool("banner"); banner {
				tui.PrintBanner(cmd.OutOrStdout())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deepset version %s\n", strings.TrimSpace(deepset.Version))
		},
	}
	cmd.Flags().Bool("banner", false, "Print the banner first")
	return cmd
}
