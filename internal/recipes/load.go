package recipes

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

const (
	recipeFileExtension = ".yaml"
	// EmbeddedRecipeName identifies the recipe shipped inside the binary as
	// an out-of-the-box example and fallback.
	EmbeddedRecipeName = "summarize"
	// EmbeddedSourceLabel marks a recipe served from the embedded fallback
	// rather than a file.
	EmbeddedSourceLabel = "(embedded)"
)

//go:embed summarize.yaml
var embeddedRecipeBytes []byte

// NotFoundError reports a recipe name absent from every searched directory.
type NotFoundError struct {
	Name        string
	Directories []string
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("recipe %q not found (searched: %s)", err.Name, strings.Join(err.Directories, ", "))
}

// Loader reads recipe documents named <name>.yaml from an ordered list of
// directories. Earlier directories shadow later ones.
type Loader struct {
	fileSystem  afero.Fs
	directories []string
}

// NewLoader builds a loader over the given filesystem and directories.
func NewLoader(fileSystem afero.Fs, directories []string) Loader {
	return Loader{fileSystem: fileSystem, directories: directories}
}

// Load resolves a recipe by name. The embedded recipe serves as a fallback
// when no directory provides a file for its name.
func (loader Loader) Load(name string) (Recipe, error) {
	trimmedName := strings.TrimSpace(name)
	for _, directory := range loader.directories {
		if directory == "" {
			continue
		}
		candidatePath := filepath.Join(directory, trimmedName+recipeFileExtension)
		content, readErr := afero.ReadFile(loader.fileSystem, candidatePath)
		if readErr != nil {
			continue
		}
		return Parse(content, candidatePath)
	}
	if trimmedName == EmbeddedRecipeName {
		return Parse(embeddedRecipeBytes, "embedded recipe "+EmbeddedRecipeName)
	}
	return Recipe{}, NotFoundError{Name: trimmedName, Directories: loader.directories}
}

// Names lists every recipe name available across the directories plus the
// embedded fallback, sorted and deduplicated.
func (loader Loader) Names() ([]string, error) {
	seen := map[string]struct{}{EmbeddedRecipeName: {}}
	for _, directory := range loader.directories {
		if directory == "" {
			continue
		}
		entries, readErr := afero.ReadDir(loader.fileSystem, directory)
		if readErr != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), recipeFileExtension) {
				continue
			}
			seen[strings.TrimSuffix(entry.Name(), recipeFileExtension)] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Sources maps every available recipe name to the path Load would read it
// from, honoring directory shadowing. The embedded fallback is reported with
// EmbeddedSourceLabel unless a file shadows it.
func (loader Loader) Sources() (map[string]string, error) {
	sources := map[string]string{EmbeddedRecipeName: EmbeddedSourceLabel}
	for _, directory := range loader.directories {
		if directory == "" {
			continue
		}
		entries, readErr := afero.ReadDir(loader.fileSystem, directory)
		if readErr != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), recipeFileExtension) {
				continue
			}
			name := strings.TrimSuffix(entry.Name(), recipeFileExtension)
			if existing, claimed := sources[name]; claimed && existing != EmbeddedSourceLabel {
				continue
			}
			sources[name] = filepath.Join(directory, entry.Name())
		}
	}
	return sources, nil
}
