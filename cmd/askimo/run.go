package askimo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/minhnguyen-ai/askimo-sub004/internal/config"
	"github.com/minhnguyen-ai/askimo-sub004/internal/engine"
	"github.com/minhnguyen-ai/askimo-sub004/internal/llm"
	"github.com/minhnguyen-ai/askimo-sub004/internal/recipes"
	"github.com/minhnguyen-ai/askimo-sub004/internal/tools"
)

type runCommandOptions struct {
	configPath    string
	overrides     []string
	format        string
	attempts      int
	timeout       time.Duration
	modelOverride string
	recipeDirs    []string
}

func newRunCommand() *cobra.Command {
	options := &runCommandOptions{}

	command := &cobra.Command{
		Use:   runCommandUse,
		Short: runCommandShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipeCommand(cmd, *options, args[0])
		},
	}

	command.Flags().StringVar(&options.configPath, configFlagName, "", configFlagUsage)
	command.Flags().StringArrayVar(&options.overrides, setFlagName, nil, setFlagUsage)
	command.Flags().StringVar(&options.format, formatFlagName, "", formatFlagUsage)
	command.Flags().IntVar(&options.attempts, attemptsFlagName, 0, attemptsFlagUsage)
	command.Flags().DurationVar(&options.timeout, timeoutFlagName, 0, timeoutFlagUsage)
	command.Flags().StringVar(&options.modelOverride, modelFlagName, "", modelFlagUsage)
	command.Flags().StringArrayVar(&options.recipeDirs, recipesDirFlagName, nil, recipesDirFlagUsage)

	return command
}

func runRecipeCommand(command *cobra.Command, options runCommandOptions, recipeName string) error {
	rootConfiguration, configErr := config.Load(options.configPath)
	if configErr != nil {
		return configErr
	}

	logger, loggerErr := rootConfiguration.BuildLogger()
	if loggerErr != nil {
		return loggerErr
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("running recipe",
		zap.String("recipe", recipeName),
		zap.Strings("flags", changedFlags(command.Flags())))

	fileSystem := afero.NewOsFs()
	loader := recipes.NewLoader(fileSystem, append(options.recipeDirs, rootConfiguration.RecipeDirectories()...))
	recipe, loadErr := loader.Load(recipeName)
	if loadErr != nil {
		return loadErr
	}

	overrides, overridesErr := parseOverrides(options.overrides)
	if overridesErr != nil {
		return overridesErr
	}
	if options.format != "" {
		overrides["format"] = options.format
	} else if _, declared := recipe.Defaults["format"]; !declared && rootConfiguration.Defaults.Format != "" {
		overrides["format"] = rootConfiguration.Defaults.Format
	}

	chatClient, clientErr := buildChatClient(rootConfiguration, options.modelOverride)
	if clientErr != nil {
		return clientErr
	}

	workingDirectory, workingDirErr := os.Getwd()
	if workingDirErr != nil {
		return fmt.Errorf("determine working directory: %w", workingDirErr)
	}
	registry := tools.NewDefaultRegistry(fileSystem, workingDirectory)
	recipeEngine := engine.New(registry, chatClient, logger)

	attempts := options.attempts
	if attempts <= 0 {
		attempts = rootConfiguration.Defaults.Attempts
	}
	timeout := options.timeout
	if timeout <= 0 {
		timeout = time.Duration(rootConfiguration.Defaults.TimeoutSeconds) * time.Second
	}

	runContext := command.Context()
	if runContext == nil {
		runContext = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		runContext, cancel = context.WithTimeout(runContext, timeout)
		defer cancel()
	}

	output, runErr := recipeEngine.Run(runContext, recipe, engine.Options{
		Overrides:   overrides,
		MaxAttempts: attempts,
	})
	if runErr != nil {
		return runErr
	}

	_, writeErr := fmt.Fprintln(command.OutOrStdout(), output)
	return writeErr
}

func buildChatClient(rootConfiguration config.Root, modelOverride string) (llm.Adapter, error) {
	apiKeyEnvironmentVariable := strings.TrimSpace(rootConfiguration.API.APIKeyEnv)
	apiKey := strings.TrimSpace(os.Getenv(apiKeyEnvironmentVariable))
	if apiKey == "" {
		return llm.Adapter{}, fmt.Errorf("missing API key: set %s", apiKeyEnvironmentVariable)
	}
	model := rootConfiguration.API.Model
	if strings.TrimSpace(modelOverride) != "" {
		model = modelOverride
	}
	return llm.Adapter{
		Client: llm.Client{
			BaseURL:             rootConfiguration.API.Endpoint,
			APIKey:              apiKey,
			ModelIdentifier:     model,
			MaxCompletionTokens: rootConfiguration.API.MaxCompletionTokens,
			Temperature:         rootConfiguration.API.Temperature,
			SupportsTemperature: rootConfiguration.API.SupportsTemperature,
		},
		Streaming: rootConfiguration.API.Streaming,
	}, nil
}

func changedFlags(flagSet *pflag.FlagSet) []string {
	var names []string
	flagSet.Visit(func(flag *pflag.Flag) {
		names = append(names, flag.Name)
	})
	return names
}

func parseOverrides(pairs []string) (map[string]string, error) {
	overrides := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		separatorIndex := strings.Index(pair, "=")
		if separatorIndex <= 0 {
			return nil, fmt.Errorf("invalid --%s value %q (expected name=value)", setFlagName, pair)
		}
		name := strings.TrimSpace(pair[:separatorIndex])
		overrides[name] = pair[separatorIndex+1:]
	}
	return overrides, nil
}
