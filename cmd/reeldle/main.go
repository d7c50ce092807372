package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "reeldle",
		Short:         "A daily movie guessing game served over HTTP.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	bindFlags(cmd)

	cmd.AddCommand(newServeCmd(), newSeedCmd(), newCompareCmd())
	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	return cmd
}
