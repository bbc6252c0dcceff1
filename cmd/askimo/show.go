package askimo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/minhnguyen-ai/askimo-sub004/internal/config"
	"github.com/minhnguyen-ai/askimo-sub004/internal/recipes"
)

type showCommandOptions struct {
	configPath string
	recipeDirs []string
}

func newShowCommand() *cobra.Command {
	options := &showCommandOptions{}

	command := &cobra.Command{
		Use:   showCommandUse,
		Short: showCommandShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowCommand(cmd, *options, args[0])
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)
	command.Flags().StringArrayVar(&options.recipeDirs, recipesDirFlagName, nil, recipesDirFlagUsage)

	return command
}

func runShowCommand(command *cobra.Command, options showCommandOptions, recipeName string) error {
	rootConfiguration, configErr := config.Load(options.configPath)
	if configErr != nil {
		return configErr
	}

	loader := recipes.NewLoader(afero.NewOsFs(), append(options.recipeDirs, rootConfiguration.RecipeDirectories()...))
	recipe, loadErr := loader.Load(recipeName)
	if loadErr != nil {
		return loadErr
	}

	writer := command.OutOrStdout()
	fmt.Fprintf(writer, "name: %s\n", recipe.Name)
	if recipe.Version != "" {
		fmt.Fprintf(writer, "version: %s\n", recipe.Version)
	}
	if len(recipe.AllowedTools) > 0 {
		fmt.Fprintf(writer, "allowed tools: %s\n", strings.Join(recipe.AllowedTools, ", "))
	}
	for _, variable := range recipe.Vars {
		fmt.Fprintf(writer, "var %s <- %s(%s)\n", variable.Name, variable.Call.Tool, variable.Call.Args)
	}
	defaultNames := make([]string, 0, len(recipe.Defaults))
	for name := range recipe.Defaults {
		defaultNames = append(defaultNames, name)
	}
	sort.Strings(defaultNames)
	for _, name := range defaultNames {
		fmt.Fprintf(writer, "default %s = %s\n", name, recipe.Defaults[name])
	}
	if strings.TrimSpace(recipe.System) != "" {
		fmt.Fprintf(writer, "system:\n%s\n", indentBlock(strings.TrimSpace(recipe.System)))
	}
	if strings.TrimSpace(recipe.UserTemplate) != "" {
		fmt.Fprintf(writer, "user template:\n%s\n", indentBlock(strings.TrimSpace(recipe.UserTemplate)))
	}
	for index, action := range recipe.PostActions {
		when := action.When
		if strings.TrimSpace(when) == "" {
			when = "true"
		}
		fmt.Fprintf(writer, "post-action %d: when %s -> %s(%s)\n", index, when, action.Call.Tool, action.Call.Args)
	}
	return nil
}

func indentBlock(block string) string {
	lines := strings.Split(block, "\n")
	for index, line := range lines {
		lines[index] = "    " + line
	}
	return strings.Join(lines, "\n")
}
