// Package recipes defines the declarative task model: a named prompt template
// with tool-resolved variables and conditional post-actions.
package recipes

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minhnguyen-ai/askimo-sub004/internal/tools"
)

// Recipe is the immutable definition of one templated prompt task.
type Recipe struct {
	Name         string            `yaml:"name"`
	Version      string            `yaml:"version"`
	AllowedTools []string          `yaml:"allowed_tools"`
	Vars         VarList           `yaml:"vars"`
	System       string            `yaml:"system"`
	UserTemplate string            `yaml:"user_template"`
	PostActions  []PostAction      `yaml:"post_actions"`
	Defaults     map[string]string `yaml:"defaults"`
}

// ToolCall names a tool together with its argument structure. Argument
// scalars may contain template placeholders rendered just before dispatch.
type ToolCall struct {
	Tool string         `yaml:"tool"`
	Args tools.ArgValue `yaml:"args"`
}

// VarSpec binds a variable name to the tool call that computes its value.
type VarSpec struct {
	Name string
	Call ToolCall
}

// VarList preserves the document order of the vars mapping, since variables
// resolve sequentially and later argument templates may reference earlier
// results.
type VarList []VarSpec

func (list *VarList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("vars must be a mapping, got yaml kind %d", node.Kind)
	}
	specs := make(VarList, 0, len(node.Content)/2)
	for index := 0; index+1 < len(node.Content); index += 2 {
		var call ToolCall
		if decodeErr := node.Content[index+1].Decode(&call); decodeErr != nil {
			return fmt.Errorf("var %s: %w", node.Content[index].Value, decodeErr)
		}
		specs = append(specs, VarSpec{Name: node.Content[index].Value, Call: call})
	}
	*list = specs
	return nil
}

// PostAction is a conditional tool invocation evaluated after the model's
// formatted output is captured. An absent when expression means always fire.
type PostAction struct {
	When string   `yaml:"when"`
	Call ToolCall `yaml:"call"`
}

// Parse decodes and validates a recipe document.
func Parse(content []byte, reference string) (Recipe, error) {
	var recipe Recipe
	if unmarshalErr := yaml.Unmarshal(content, &recipe); unmarshalErr != nil {
		return Recipe{}, fmt.Errorf("unmarshal recipe %s: %w", reference, unmarshalErr)
	}
	if validateErr := recipe.Validate(); validateErr != nil {
		return Recipe{}, fmt.Errorf("invalid recipe %s: %w", reference, validateErr)
	}
	return recipe, nil
}

// Validate checks the structural invariants a definition must hold before a
// run starts.
func (recipe Recipe) Validate() error {
	if strings.TrimSpace(recipe.Name) == "" {
		return fmt.Errorf("recipe name is required")
	}
	if strings.TrimSpace(recipe.System) == "" && strings.TrimSpace(recipe.UserTemplate) == "" {
		return fmt.Errorf("recipe %s declares neither system nor user_template", recipe.Name)
	}
	for _, variable := range recipe.Vars {
		if strings.TrimSpace(variable.Call.Tool) == "" {
			return fmt.Errorf("var %s has no tool", variable.Name)
		}
	}
	for index, action := range recipe.PostActions {
		if strings.TrimSpace(action.Call.Tool) == "" {
			return fmt.Errorf("post_actions[%d] has no tool", index)
		}
	}
	return nil
}
