package tools

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

const (
	fileReadToolName   = "file_read"
	fileWriteToolName  = "file_write"
	fileExistsToolName = "file_exists"

	writeFilePermissions = os.FileMode(0o644)
	writeDirPermissions  = os.FileMode(0o755)
)

var errMissingPath = errors.New("missing required argument: path")

// FileReadTool returns the contents of a file.
type FileReadTool struct {
	FileSystem afero.Fs
}

func NewFileReadTool(fileSystem afero.Fs) FileReadTool {
	return FileReadTool{FileSystem: fileSystem}
}

func (FileReadTool) Name() string        { return fileReadToolName }
func (FileReadTool) Description() string { return "Read a file and return its contents" }

func (tool FileReadTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	path, pathErr := pathArgument(args)
	if pathErr != nil {
		return "", pathErr
	}
	content, readErr := afero.ReadFile(tool.FileSystem, filepath.Clean(path))
	if readErr != nil {
		return "", readErr
	}
	return string(content), nil
}

// FileWriteTool writes content to a file, creating parent directories.
type FileWriteTool struct {
	FileSystem afero.Fs
}

func NewFileWriteTool(fileSystem afero.Fs) FileWriteTool {
	return FileWriteTool{FileSystem: fileSystem}
}

func (FileWriteTool) Name() string        { return fileWriteToolName }
func (FileWriteTool) Description() string { return "Write content to a file" }

func (tool FileWriteTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	path, pathErr := pathArgument(args)
	if pathErr != nil {
		return "", pathErr
	}
	content := args.FieldText("content")
	cleanPath := filepath.Clean(path)
	if mkdirErr := tool.FileSystem.MkdirAll(filepath.Dir(cleanPath), writeDirPermissions); mkdirErr != nil {
		return "", mkdirErr
	}
	if writeErr := afero.WriteFile(tool.FileSystem, cleanPath, []byte(content), writeFilePermissions); writeErr != nil {
		return "", writeErr
	}
	return cleanPath, nil
}

// FileExistsTool reports whether a path exists.
type FileExistsTool struct {
	FileSystem afero.Fs
}

func NewFileExistsTool(fileSystem afero.Fs) FileExistsTool {
	return FileExistsTool{FileSystem: fileSystem}
}

func (FileExistsTool) Name() string        { return fileExistsToolName }
func (FileExistsTool) Description() string { return "Report whether a path exists (true/false)" }

func (tool FileExistsTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	path, pathErr := pathArgument(args)
	if pathErr != nil {
		return "", pathErr
	}
	exists, statErr := afero.Exists(tool.FileSystem, filepath.Clean(path))
	if statErr != nil {
		return "", statErr
	}
	return strconv.FormatBool(exists), nil
}

// pathArgument accepts either a scalar path or a mapping with a path entry.
func pathArgument(args ArgValue) (string, error) {
	var path string
	switch args.Kind {
	case KindScalar:
		path = args.Scalar
	case KindMapping:
		path = args.FieldText("path")
	}
	if strings.TrimSpace(path) == "" {
		return "", errMissingPath
	}
	return path, nil
}
