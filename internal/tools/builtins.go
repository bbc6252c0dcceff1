package tools

import "github.com/spf13/afero"

// NewDefaultRegistry registers the built-in tool set against the provided
// filesystem and working directory.
func NewDefaultRegistry(fileSystem afero.Fs, workingDir string) *Registry {
	runner := NewExecRunner()
	registry := NewRegistry()
	registry.Register(NewFileReadTool(fileSystem))
	registry.Register(NewFileWriteTool(fileSystem))
	registry.Register(NewFileExistsTool(fileSystem))
	registry.Register(NewGitLogTool(runner, workingDir))
	registry.Register(NewGitStatusTool(runner, workingDir))
	registry.Register(NewGitDiffTool(runner, workingDir))
	registry.Register(NewShellTool(runner, workingDir))
	registry.Register(NewEnvTool())
	registry.Register(NewNowTool())
	return registry
}
