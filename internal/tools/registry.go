// Package tools provides the named-tool registry consulted by recipe variable
// resolution and post-actions, together with the built-in tool set.
package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// Tool is a named external operation invocable with structured arguments.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args ArgValue) (string, error)
}

// Registry dispatches tool invocations by name. An optional whitelist scopes
// the registry to the tools a recipe declares; an empty whitelist leaves the
// registry unrestricted.
type Registry struct {
	tools   map[string]Tool
	allowed map[string]struct{}
}

// NewRegistry returns an empty, unrestricted registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Register adds a tool under its own name, replacing any previous entry.
func (registry *Registry) Register(tool Tool) {
	registry.tools[tool.Name()] = tool
}

// Scoped returns a view of the registry restricted to the named tools. An
// empty name list returns the registry unchanged.
func (registry *Registry) Scoped(names []string) *Registry {
	if len(names) == 0 {
		return registry
	}
	allowed := make(map[string]struct{}, len(names))
	for _, name := range names {
		allowed[strings.TrimSpace(name)] = struct{}{}
	}
	return &Registry{tools: registry.tools, allowed: allowed}
}

// Names lists the invocable tool names in sorted order, honoring the scope.
func (registry *Registry) Names() []string {
	names := make([]string, 0, len(registry.tools))
	for name := range registry.tools {
		if !registry.permitted(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke dispatches to the named tool. Unknown or out-of-scope names fail
// with an error enumerating the invocable tool names.
func (registry *Registry) Invoke(ctx context.Context, name string, args ArgValue) (string, error) {
	tool, found := registry.tools[name]
	if !found || !registry.permitted(name) {
		return "", fmt.Errorf("unknown tool %q (available: %s)", name, strings.Join(registry.Names(), ", "))
	}
	result, executeErr := tool.Execute(ctx, args)
	if executeErr != nil {
		return "", fmt.Errorf("tool %s: %w", name, executeErr)
	}
	return result, nil
}

func (registry *Registry) permitted(name string) bool {
	if registry.allowed == nil {
		return true
	}
	_, ok := registry.allowed[name]
	return ok
}
