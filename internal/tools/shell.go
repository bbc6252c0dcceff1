package tools

import (
	"context"
	"errors"
	"strings"
)

const shellToolName = "shell"

var errMissingCommand = errors.New("missing required argument: command")

// ShellTool captures the standard output of a shell command.
type ShellTool struct {
	Runner     CommandRunner
	WorkingDir string
}

func NewShellTool(runner CommandRunner, workingDir string) ShellTool {
	return ShellTool{Runner: runner, WorkingDir: workingDir}
}

func (ShellTool) Name() string        { return shellToolName }
func (ShellTool) Description() string { return "Run a shell command and capture stdout" }

func (tool ShellTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	var command string
	switch args.Kind {
	case KindScalar:
		command = args.Scalar
	case KindMapping:
		command = args.FieldText("command")
	}
	if strings.TrimSpace(command) == "" {
		return "", errMissingCommand
	}
	output, runErr := tool.Runner.Run(ctx, tool.WorkingDir, "sh", "-c", command)
	if runErr != nil {
		return "", runErr
	}
	return strings.TrimRight(output, "\n"), nil
}
