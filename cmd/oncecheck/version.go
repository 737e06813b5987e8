package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/staticonce/once"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			info := once.GetInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "oncecheck %s\nruntime guard: %s\n", info.Version, info.Guard)
		},
	}
}
