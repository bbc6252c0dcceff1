package tools

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const (
	gitLogToolName    = "git_log"
	gitStatusToolName = "git_status"
	gitDiffToolName   = "git_diff"

	defaultGitLogEntries = 20
)

// CommandRunner executes a command within a working directory and returns its
// standard output.
type CommandRunner interface {
	Run(ctx context.Context, dir string, name string, args ...string) (string, error)
}

type execRunner struct{}

// NewExecRunner returns a CommandRunner that shells out.
func NewExecRunner() CommandRunner { return execRunner{} }

func (execRunner) Run(ctx context.Context, dir string, name string, args ...string) (string, error) {
	command := exec.CommandContext(ctx, name, args...)
	command.Dir = dir
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	command.Stdout = &stdout
	command.Stderr = &stderr
	if runErr := command.Run(); runErr != nil {
		return "", fmt.Errorf("run %s %s: %w: %s", name, strings.Join(args, " "), runErr, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// GitLogTool returns recent one-line commit summaries.
type GitLogTool struct {
	Runner     CommandRunner
	WorkingDir string
}

func NewGitLogTool(runner CommandRunner, workingDir string) GitLogTool {
	return GitLogTool{Runner: runner, WorkingDir: workingDir}
}

func (GitLogTool) Name() string        { return gitLogToolName }
func (GitLogTool) Description() string { return "Recent commit subjects (max entries via max)" }

func (tool GitLogTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	maxEntries := defaultGitLogEntries
	if rawMax := args.FieldText("max"); rawMax != "" {
		parsed, parseErr := strconv.Atoi(strings.TrimSpace(rawMax))
		if parseErr != nil || parsed < 1 {
			return "", fmt.Errorf("invalid max argument %q", rawMax)
		}
		maxEntries = parsed
	}
	output, runErr := tool.Runner.Run(ctx, tool.WorkingDir, "git", "log",
		fmt.Sprintf("--max-count=%d", maxEntries), "--pretty=format:%h %s", "--no-merges")
	if runErr != nil {
		return "", runErr
	}
	return strings.TrimSpace(output), nil
}

// GitStatusTool returns the porcelain working-tree status.
type GitStatusTool struct {
	Runner     CommandRunner
	WorkingDir string
}

func NewGitStatusTool(runner CommandRunner, workingDir string) GitStatusTool {
	return GitStatusTool{Runner: runner, WorkingDir: workingDir}
}

func (GitStatusTool) Name() string        { return gitStatusToolName }
func (GitStatusTool) Description() string { return "Working tree status (porcelain)" }

func (tool GitStatusTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	output, runErr := tool.Runner.Run(ctx, tool.WorkingDir, "git", "status", "--porcelain")
	if runErr != nil {
		return "", runErr
	}
	return strings.TrimSpace(output), nil
}

// GitDiffTool returns the diff against a reference, staged changes by default.
type GitDiffTool struct {
	Runner     CommandRunner
	WorkingDir string
}

func NewGitDiffTool(runner CommandRunner, workingDir string) GitDiffTool {
	return GitDiffTool{Runner: runner, WorkingDir: workingDir}
}

func (GitDiffTool) Name() string        { return gitDiffToolName }
func (GitDiffTool) Description() string { return "Diff of staged changes, or against ref" }

func (tool GitDiffTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	gitArgs := []string{"diff", "--cached"}
	if ref := strings.TrimSpace(args.FieldText("ref")); ref != "" {
		gitArgs = []string{"diff", ref}
	}
	output, runErr := tool.Runner.Run(ctx, tool.WorkingDir, "git", gitArgs...)
	if runErr != nil {
		return "", runErr
	}
	return strings.TrimSpace(output), nil
}
