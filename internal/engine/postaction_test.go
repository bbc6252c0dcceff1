package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/minhnguyen-ai/askimo-sub004/internal/engine"
	"github.com/minhnguyen-ai/askimo-sub004/internal/recipes"
	"github.com/minhnguyen-ai/askimo-sub004/internal/tools"
)

func TestPostActionFiringRules(t *testing.T) {
	testCases := []struct {
		name       string
		when       string
		defaults   map[string]string
		shouldFire bool
	}{
		{name: "absent when always fires", when: "", shouldFire: true},
		{name: "literal true", when: "true", shouldFire: true},
		{name: "literal true case insensitive", when: "TRUE", shouldFire: true},
		{name: "literal false", when: "false", shouldFire: false},
		{
			name:       "equality fires on match",
			when:       "{{format}}==markdown",
			defaults:   map[string]string{"format": "markdown"},
			shouldFire: true,
		},
		{
			name:       "equality skips on mismatch",
			when:       "{{format}}==markdown",
			defaults:   map[string]string{"format": "plain"},
			shouldFire: false,
		},
		{
			name:       "equality is case insensitive",
			when:       "{{format}}==MARKDOWN",
			defaults:   map[string]string{"format": "markdown"},
			shouldFire: true,
		},
		{
			name:       "quoted sides stripped",
			when:       `"{{format}}"=='markdown'`,
			defaults:   map[string]string{"format": "markdown"},
			shouldFire: true,
		},
		{name: "malformed expression treated as false", when: "whatever shape", shouldFire: false},
		{name: "bare variable that is not boolean", when: "{{format}}", defaults: map[string]string{"format": "plain"}, shouldFire: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			action := &stubTool{name: "notify", results: []string{"ok"}}
			chat := &stubChat{returns: []string{"model output"}}
			defaults := testCase.defaults
			if defaults == nil {
				defaults = map[string]string{}
			}
			recipe := recipes.Recipe{
				Name:         "post",
				UserTemplate: "question",
				Defaults:     defaults,
				PostActions: []recipes.PostAction{
					{When: testCase.when, Call: recipes.ToolCall{Tool: "notify", Args: tools.NullArg()}},
				},
			}

			if _, err := engine.New(registryWith(action), chat, nil).Run(context.Background(), recipe, engine.Options{}); err != nil {
				t.Fatalf("run: %v", err)
			}
			fired := len(action.argsSeen) > 0
			if fired != testCase.shouldFire {
				t.Fatalf("expected fired=%v, got %v", testCase.shouldFire, fired)
			}
		})
	}
}

func TestPostActionSeesFormattedOutput(t *testing.T) {
	sink := &stubTool{name: "sink", results: []string{"ok"}}
	chat := &stubChat{returns: []string{"model output"}}
	recipe := recipes.Recipe{
		Name:         "capture",
		UserTemplate: "question",
		Defaults:     map[string]string{"format": "markdown"},
		PostActions: []recipes.PostAction{
			{Call: recipes.ToolCall{Tool: "sink", Args: tools.MappingArg(map[string]tools.ArgValue{
				"content": tools.ScalarArg("{{output}}"),
			})}},
		},
	}

	if _, err := engine.New(registryWith(sink), chat, nil).Run(context.Background(), recipe, engine.Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sink.argsSeen) != 1 {
		t.Fatalf("expected post-action dispatch, got %d", len(sink.argsSeen))
	}
	if sink.argsSeen[0].FieldText("content") != "```markdown\nmodel output\n```" {
		t.Fatalf("expected formatted output bound to output variable, got %q", sink.argsSeen[0].FieldText("content"))
	}
}

func TestPostActionFailureAbortsRemaining(t *testing.T) {
	failing := &stubTool{name: "failing", err: errors.New("unreachable sink")}
	later := &stubTool{name: "later", results: []string{"ok"}}
	chat := &stubChat{returns: []string{"model output"}}
	recipe := recipes.Recipe{
		Name:         "cascade",
		UserTemplate: "question",
		PostActions: []recipes.PostAction{
			{Call: recipes.ToolCall{Tool: "failing", Args: tools.NullArg()}},
			{Call: recipes.ToolCall{Tool: "later", Args: tools.NullArg()}},
		},
	}

	_, err := engine.New(registryWith(failing, later), chat, nil).Run(context.Background(), recipe, engine.Options{})
	if err == nil {
		t.Fatalf("expected post-action failure to propagate")
	}
	if len(later.argsSeen) != 0 {
		t.Fatalf("expected remaining post-actions skipped after failure")
	}
}

func TestPostActionsRunInOrder(t *testing.T) {
	var order []string
	makeRecorder := func(name string) *recordingTool {
		return &recordingTool{name: name, order: &order}
	}
	first := makeRecorder("first")
	second := makeRecorder("second")
	chat := &stubChat{returns: []string{"model output"}}
	recipe := recipes.Recipe{
		Name:         "ordered-actions",
		UserTemplate: "question",
		PostActions: []recipes.PostAction{
			{Call: recipes.ToolCall{Tool: "first", Args: tools.NullArg()}},
			{Call: recipes.ToolCall{Tool: "second", Args: tools.NullArg()}},
		},
	}

	if _, err := engine.New(registryWith(first, second), chat, nil).Run(context.Background(), recipe, engine.Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("expected definition order, got %v", order)
	}
}

type recordingTool struct {
	name  string
	order *[]string
}

func (tool *recordingTool) Name() string        { return tool.name }
func (tool *recordingTool) Description() string { return "recorder" }
func (tool *recordingTool) Execute(ctx context.Context, args tools.ArgValue) (string, error) {
	*tool.order = append(*tool.order, tool.name)
	return "", nil
}
