package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minhnguyen-ai/askimo-sub004/internal/config"
)

func writeConfigurationFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if writeErr := os.WriteFile(path, []byte(content), 0o644); writeErr != nil {
		t.Fatalf("write configuration: %v", writeErr)
	}
	return path
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	loaded, err := config.Load(writeConfigurationFile(t, "{}\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.Endpoint != "https://api.openai.com/v1" {
		t.Fatalf("unexpected default endpoint %q", loaded.API.Endpoint)
	}
	if loaded.API.APIKeyEnv != "OPENAI_API_KEY" {
		t.Fatalf("unexpected default api key env %q", loaded.API.APIKeyEnv)
	}
	if loaded.Defaults.Attempts != 3 {
		t.Fatalf("unexpected default attempts %d", loaded.Defaults.Attempts)
	}
	if loaded.Defaults.Format != "plain" {
		t.Fatalf("unexpected default format %q", loaded.Defaults.Format)
	}
}

func TestLoadExplicitFileOverridesDefaults(t *testing.T) {
	path := writeConfigurationFile(t, strings.Join([]string{
		"api:",
		"  model: custom-model",
		"  streaming: true",
		"defaults:",
		"  attempts: 5",
		"recipes:",
		"  dirs:",
		"    - /srv/recipes",
	}, "\n"))

	loaded, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.API.Model != "custom-model" {
		t.Fatalf("expected model override, got %q", loaded.API.Model)
	}
	if !loaded.API.Streaming {
		t.Fatalf("expected streaming override")
	}
	if loaded.Defaults.Attempts != 5 {
		t.Fatalf("expected attempts override, got %d", loaded.Defaults.Attempts)
	}
	if loaded.API.Endpoint == "" {
		t.Fatalf("expected embedded endpoint to survive the merge")
	}
	if len(loaded.Recipes.Dirs) != 1 || loaded.Recipes.Dirs[0] != "/srv/recipes" {
		t.Fatalf("unexpected recipe dirs %v", loaded.Recipes.Dirs)
	}
}

func TestLoadRejectsBlankModel(t *testing.T) {
	path := writeConfigurationFile(t, "api:\n  model: \"  \"\n")
	_, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "api.model is empty") {
		t.Fatalf("expected model validation error, got %v", err)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing explicit configuration file")
	}
}

func TestRecipeDirectoriesAppendsHomeFallback(t *testing.T) {
	loaded, err := config.Load(writeConfigurationFile(t, "recipes:\n  dirs:\n    - ./first\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	directories := loaded.RecipeDirectories()
	if len(directories) < 2 {
		t.Fatalf("expected configured and fallback directories, got %v", directories)
	}
	if directories[0] != "./first" {
		t.Fatalf("expected configured directory first, got %v", directories)
	}
	last := directories[len(directories)-1]
	if !strings.HasSuffix(last, filepath.Join(".askimo", "recipes")) {
		t.Fatalf("expected per-user fallback last, got %q", last)
	}
}
