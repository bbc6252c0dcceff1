// Package askimo wires the command-line surface: run, list, and show.
package askimo

import "github.com/spf13/cobra"

// Execute runs the root command tree.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           rootCommandUse,
		Short:         rootCommandShort,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCommand.AddCommand(newRunCommand(), newListCommand(), newShowCommand())
	return rootCommand
}
