package tools

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"
)

const (
	envToolName = "env"
	nowToolName = "now"

	defaultNowLayout = "2006-01-02"
)

var errMissingName = errors.New("missing required argument: name")

// EnvTool looks up an environment variable with an optional default.
type EnvTool struct {
	Lookup func(string) (string, bool)
}

func NewEnvTool() EnvTool { return EnvTool{Lookup: os.LookupEnv} }

func (EnvTool) Name() string        { return envToolName }
func (EnvTool) Description() string { return "Environment variable value (name, default)" }

func (tool EnvTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	var name string
	switch args.Kind {
	case KindScalar:
		name = args.Scalar
	case KindMapping:
		name = args.FieldText("name")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errMissingName
	}
	if value, found := tool.Lookup(name); found {
		return value, nil
	}
	return args.FieldText("default"), nil
}

// NowTool formats the current time with an optional layout argument.
type NowTool struct {
	Clock func() time.Time
}

func NewNowTool() NowTool { return NowTool{Clock: time.Now} }

func (NowTool) Name() string        { return nowToolName }
func (NowTool) Description() string { return "Current time (layout, Go reference format)" }

func (tool NowTool) Execute(ctx context.Context, args ArgValue) (string, error) {
	layout := defaultNowLayout
	switch args.Kind {
	case KindScalar:
		if trimmed := strings.TrimSpace(args.Scalar); trimmed != "" {
			layout = trimmed
		}
	case KindMapping:
		if trimmed := strings.TrimSpace(args.FieldText("layout")); trimmed != "" {
			layout = trimmed
		}
	}
	return tool.Clock().Format(layout), nil
}
