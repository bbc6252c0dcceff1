package askimo

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/minhnguyen-ai/askimo-sub004/internal/config"
	"github.com/minhnguyen-ai/askimo-sub004/internal/recipes"
)

type listCommandOptions struct {
	configPath  string
	recipeDirs  []string
	showSources bool
}

func newListCommand() *cobra.Command {
	options := &listCommandOptions{}

	command := &cobra.Command{
		Use:   listCommandUse,
		Short: listCommandShort,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListCommand(cmd, *options)
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)
	command.Flags().StringArrayVar(&options.recipeDirs, recipesDirFlagName, nil, recipesDirFlagUsage)
	command.Flags().BoolVar(&options.showSources, allFlagName, false, allFlagUsage)

	return command
}

func runListCommand(command *cobra.Command, options listCommandOptions) error {
	rootConfiguration, configErr := config.Load(options.configPath)
	if configErr != nil {
		return configErr
	}

	loader := recipes.NewLoader(afero.NewOsFs(), append(options.recipeDirs, rootConfiguration.RecipeDirectories()...))
	names, namesErr := loader.Names()
	if namesErr != nil {
		return namesErr
	}

	var sources map[string]string
	if options.showSources {
		if sources, namesErr = loader.Sources(); namesErr != nil {
			return namesErr
		}
	}
	for _, name := range names {
		line := name
		if options.showSources {
			line = fmt.Sprintf("%s\t%s", name, sources[name])
		}
		if _, writeErr := fmt.Fprintln(command.OutOrStdout(), line); writeErr != nil {
			return fmt.Errorf("write recipe listing: %w", writeErr)
		}
	}
	return nil
}
