package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "bookmeta",
		Short:         "Look up book metadata across many catalogs and merge the answers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.bind(cmd)
	cmd.AddCommand(newISBNCmd(), newSearchCmd(), newProvidersCmd())
	return cmd
}

func execute() error {
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
