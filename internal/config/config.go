// Package config loads the root configuration: API endpoint and model,
// logging, run defaults, and recipe directories.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	configurationName          = "config"
	configurationType          = "yaml"
	homeConfigurationDirectory = ".askimo"
	homeRecipesDirectory       = "recipes"

	emptyEndpointErrorMessage = "api.endpoint is empty"
	emptyModelErrorMessage    = "api.model is empty"
)

//go:embed default_config.yaml
var embeddedConfigurationBytes []byte

// Root is the resolved configuration tree.
type Root struct {
	API struct {
		Endpoint            string  `mapstructure:"endpoint"`
		APIKeyEnv           string  `mapstructure:"api_key_env"`
		Model               string  `mapstructure:"model"`
		MaxCompletionTokens int     `mapstructure:"max_completion_tokens"`
		Temperature         float64 `mapstructure:"temperature"`
		SupportsTemperature bool    `mapstructure:"supports_temperature"`
		Streaming           bool    `mapstructure:"streaming"`
	} `mapstructure:"api"`
	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"logging"`
	Defaults struct {
		Attempts       int    `mapstructure:"attempts"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
		Format         string `mapstructure:"format"`
	} `mapstructure:"defaults"`
	Recipes struct {
		Dirs []string `mapstructure:"dirs"`
	} `mapstructure:"recipes"`
}

// Load resolves configuration with the search order: explicit path, working
// directory, ~/.askimo, then the embedded default.
func Load(explicitPath string) (Root, error) {
	loader := viper.New()
	loader.SetConfigType(configurationType)
	if readErr := loader.ReadConfig(bytes.NewReader(embeddedConfigurationBytes)); readErr != nil {
		return Root{}, fmt.Errorf("read embedded configuration: %w", readErr)
	}

	if strings.TrimSpace(explicitPath) != "" {
		loader.SetConfigFile(explicitPath)
		if mergeErr := loader.MergeInConfig(); mergeErr != nil {
			return Root{}, fmt.Errorf("read explicit configuration %s: %w", explicitPath, mergeErr)
		}
	} else {
		loader.SetConfigName(configurationName)
		loader.AddConfigPath(".")
		if homeDirectory, homeErr := os.UserHomeDir(); homeErr == nil {
			loader.AddConfigPath(filepath.Join(homeDirectory, homeConfigurationDirectory))
		}
		if mergeErr := loader.MergeInConfig(); mergeErr != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(mergeErr, &notFound) {
				return Root{}, fmt.Errorf("read configuration: %w", mergeErr)
			}
		}
	}

	var rootConfiguration Root
	if unmarshalErr := loader.Unmarshal(&rootConfiguration); unmarshalErr != nil {
		return Root{}, fmt.Errorf("unmarshal configuration: %w", unmarshalErr)
	}
	if validateErr := rootConfiguration.validate(); validateErr != nil {
		return Root{}, validateErr
	}
	return rootConfiguration, nil
}

func (root Root) validate() error {
	if strings.TrimSpace(root.API.Endpoint) == "" {
		return errors.New(emptyEndpointErrorMessage)
	}
	if strings.TrimSpace(root.API.Model) == "" {
		return errors.New(emptyModelErrorMessage)
	}
	return nil
}

// RecipeDirectories returns the configured recipe directories with the
// per-user directory appended as a final fallback.
func (root Root) RecipeDirectories() []string {
	directories := make([]string, 0, len(root.Recipes.Dirs)+1)
	directories = append(directories, root.Recipes.Dirs...)
	if homeDirectory, homeErr := os.UserHomeDir(); homeErr == nil {
		directories = append(directories, filepath.Join(homeDirectory, homeConfigurationDirectory, homeRecipesDirectory))
	}
	return directories
}
