package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := newRootCommand()
	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "saucebox",
		Short:         "saucebox sauce rating api",
		SilenceErrors: true,
		SilenceUsage:  true,
		Version:       fmt.Sprintf("%s.%s", version, commit),
	}

	cmd.PersistentFlags().String("config", "", "config file (env only when empty)")

	return cmd
}
