// Package engine sequences a recipe run: variable resolution through the tool
// registry, prompt assembly, the streaming model exchange, output formatting,
// and conditional post-actions.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhnguyen-ai/askimo-sub004/internal/recipes"
	"github.com/minhnguyen-ai/askimo-sub004/internal/render"
	"github.com/minhnguyen-ai/askimo-sub004/internal/retry"
	"github.com/minhnguyen-ai/askimo-sub004/internal/tools"
)

const (
	outputVariableName = "output"
	formatVariableName = "format"

	promptSystemHeader = "SYSTEM:"
	promptUserHeader   = "USER:"

	defaultWhenExpression = "true"

	// zeroWidthSpace is inserted between residual double braces so a
	// downstream prompt-templating layer cannot reinterpret them.
	zeroWidthSpace = "​"
)

// ErrEmptyOutput reports a blank reconciled model output. Classified
// transient by the streaming retry preset.
var ErrEmptyOutput = errors.New("model returned empty output")

// ChatClient is the streaming model collaborator. Every token is delivered
// through onToken; the returned string may legitimately be empty when the
// stream carried all content.
type ChatClient interface {
	Chat(ctx context.Context, prompt string, onToken func(string)) (string, error)
}

// Options tune one run without touching the recipe definition.
type Options struct {
	// Overrides are caller-supplied variable values applied over the recipe
	// defaults before resolution.
	Overrides map[string]string
	// MaxAttempts bounds the retry presets for both the tool-resolution and
	// streaming stages. Zero keeps the preset defaults.
	MaxAttempts int
}

// Engine executes recipes against a tool registry and a chat collaborator.
// It holds no per-run state; concurrent Run calls are independent.
type Engine struct {
	Tools  *tools.Registry
	Chat   ChatClient
	Logger *zap.Logger
}

// New builds an engine. A nil logger is replaced with a no-op logger.
func New(registry *tools.Registry, chat ChatClient, logger *zap.Logger) Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Engine{Tools: registry, Chat: chat, Logger: logger}
}

// Run executes the recipe and returns its formatted output.
func (engine Engine) Run(ctx context.Context, recipe recipes.Recipe, options Options) (string, error) {
	runLogger := engine.Logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("recipe", recipe.Name),
	)

	bag := newVariableBag(recipe.Defaults, options.Overrides)
	registry := engine.Tools.Scoped(recipe.AllowedTools)

	if resolveErr := engine.resolveVariables(ctx, registry, recipe, bag, options, runLogger); resolveErr != nil {
		return "", resolveErr
	}

	prompt := assemblePrompt(recipe, bag)
	runLogger.Debug("prompt assembled", zap.Int("prompt_length", len(prompt)))

	modelText, chatErr := engine.invokeChat(ctx, prompt, options, runLogger)
	if chatErr != nil {
		return "", chatErr
	}

	formatted := Format(modelText, bag[formatVariableName])
	bag[outputVariableName] = formatted

	if postErr := engine.runPostActions(ctx, registry, recipe, bag, runLogger); postErr != nil {
		return "", postErr
	}

	runLogger.Info("run complete", zap.Int("output_length", len(formatted)))
	return formatted, nil
}

// newVariableBag layers caller overrides over recipe defaults. Later stages
// add entries; nothing is ever removed within a run.
func newVariableBag(defaults map[string]string, overrides map[string]string) map[string]string {
	bag := make(map[string]string, len(defaults)+len(overrides)+2)
	for key, value := range defaults {
		bag[key] = value
	}
	for key, value := range overrides {
		bag[key] = value
	}
	return bag
}

func (engine Engine) resolveVariables(
	ctx context.Context,
	registry *tools.Registry,
	recipe recipes.Recipe,
	bag map[string]string,
	options Options,
	runLogger *zap.Logger,
) error {
	for _, variable := range recipe.Vars {
		renderedArgs := variable.Call.Args.Rendered(func(text string) string {
			return render.Render(text, bag)
		})
		toolRetry := retry.Tool(options.MaxAttempts, engine.retryObserver(runLogger, "resolve "+variable.Name))
		value, invokeErr := retry.Do(toolRetry, func() (string, error) {
			return registry.Invoke(ctx, variable.Call.Tool, renderedArgs)
		})
		if invokeErr != nil {
			return invokeErr
		}
		bag[variable.Name] = value
		runLogger.Debug("variable resolved",
			zap.String("variable", variable.Name),
			zap.String("tool", variable.Call.Tool),
		)
	}
	return nil
}

// assemblePrompt renders the system and user templates, composes the fixed
// prompt shape, and neutralizes residual double braces so a resolved value
// containing literal template syntax cannot leak into a downstream templating
// layer.
func assemblePrompt(recipe recipes.Recipe, bag map[string]string) string {
	systemText := strings.TrimSpace(render.Render(recipe.System, bag))
	userText := strings.TrimSpace(render.Render(recipe.UserTemplate, bag))
	prompt := strings.TrimSpace(promptSystemHeader + "\n" + systemText + "\n\n" + promptUserHeader + "\n" + userText)
	if render.ContainsPlaceholder(prompt) {
		prompt = neutralizeBraces(prompt)
	}
	return prompt
}

func neutralizeBraces(text string) string {
	text = strings.ReplaceAll(text, "{{", "{"+zeroWidthSpace+"{")
	return strings.ReplaceAll(text, "}}", "}"+zeroWidthSpace+"}")
}

// invokeChat drives the streaming exchange, reconciling the returned value
// with the accumulated token buffer: the return wins when non-blank, the
// buffer covers collaborators that signal end-of-stream through tokens only.
func (engine Engine) invokeChat(ctx context.Context, prompt string, options Options, runLogger *zap.Logger) (string, error) {
	streamingRetry := retry.Streaming(options.MaxAttempts, engine.retryObserver(runLogger, "chat"))
	return retry.Do(streamingRetry, func() (string, error) {
		var tokenBuffer strings.Builder
		returned, chatErr := engine.Chat.Chat(ctx, prompt, func(token string) {
			tokenBuffer.WriteString(token)
		})
		if chatErr != nil {
			return "", chatErr
		}
		finalText := strings.TrimSpace(returned)
		if finalText == "" {
			finalText = strings.TrimSpace(tokenBuffer.String())
		}
		if finalText == "" {
			return "", ErrEmptyOutput
		}
		return finalText, nil
	})
}

func (engine Engine) runPostActions(
	ctx context.Context,
	registry *tools.Registry,
	recipe recipes.Recipe,
	bag map[string]string,
	runLogger *zap.Logger,
) error {
	for index, action := range recipe.PostActions {
		whenExpression := action.When
		if strings.TrimSpace(whenExpression) == "" {
			whenExpression = defaultWhenExpression
		}
		renderedWhen := render.Render(whenExpression, bag)
		if !evaluateCondition(renderedWhen) {
			runLogger.Debug("post-action skipped",
				zap.Int("index", index),
				zap.String("when", renderedWhen),
			)
			continue
		}
		renderedArgs := action.Call.Args.Rendered(func(text string) string {
			return render.Render(text, bag)
		})
		if _, invokeErr := registry.Invoke(ctx, action.Call.Tool, renderedArgs); invokeErr != nil {
			return invokeErr
		}
		runLogger.Debug("post-action fired",
			zap.Int("index", index),
			zap.String("tool", action.Call.Tool),
		)
	}
	return nil
}

// evaluateCondition resolves a rendered when expression: the literal tokens
// true/false, or a single == comparison with trimmed, unquoted, case-folded
// sides. Any other shape evaluates to false.
func evaluateCondition(expression string) bool {
	trimmed := strings.TrimSpace(expression)
	if strings.EqualFold(trimmed, "true") {
		return true
	}
	if strings.EqualFold(trimmed, "false") {
		return false
	}
	separatorIndex := strings.Index(trimmed, "==")
	if separatorIndex < 0 {
		return false
	}
	left := stripQuotes(strings.TrimSpace(trimmed[:separatorIndex]))
	right := stripQuotes(strings.TrimSpace(trimmed[separatorIndex+2:]))
	return strings.EqualFold(left, right)
}

func stripQuotes(value string) string {
	if len(value) >= 2 {
		first := value[0]
		last := value[len(value)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func (engine Engine) retryObserver(runLogger *zap.Logger, stage string) func(int, int, error, time.Duration) {
	return func(attempt int, maxAttempts int, err error, nextDelay time.Duration) {
		runLogger.Warn("retrying stage",
			zap.String("stage", stage),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxAttempts),
			zap.Duration("delay", nextDelay),
			zap.Error(err),
		)
	}
}
