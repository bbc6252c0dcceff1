package llm_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minhnguyen-ai/askimo-sub004/internal/llm"
)

func streamingServer(t *testing.T, deltas []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if payload["stream"] != true {
			t.Errorf("expected stream flag in request, got %v", payload["stream"])
		}
		writer.Header().Set("Content-Type", "text/event-stream")
		for _, delta := range deltas {
			chunk := map[string]any{
				"choices": []any{
					map[string]any{"delta": map[string]any{"content": delta}},
				},
			}
			encoded, _ := json.Marshal(chunk)
			fmt.Fprintf(writer, "data: %s\n\n", encoded)
		}
		fmt.Fprint(writer, "data: [DONE]\n\n")
	}))
}

func TestStreamChatCompletionDeliversTokens(t *testing.T) {
	server := streamingServer(t, []string{"Hel", "lo ", "world"})
	defer server.Close()

	client := llm.Client{BaseURL: server.URL, APIKey: "test", ModelIdentifier: "m"}
	var tokens []string
	result, err := client.StreamChatCompletion(context.Background(), []llm.ChatMessage{{Role: "user", Content: "hi"}}, func(token string) {
		tokens = append(tokens, token)
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if result != "Hello world" {
		t.Fatalf("expected accumulated text, got %q", result)
	}
	if len(tokens) != 3 || tokens[0] != "Hel" {
		t.Fatalf("expected each delta delivered, got %v", tokens)
	}
}

func TestStreamChatCompletionEmptyStream(t *testing.T) {
	server := streamingServer(t, nil)
	defer server.Close()

	client := llm.Client{BaseURL: server.URL, APIKey: "test", ModelIdentifier: "m"}
	_, err := client.StreamChatCompletion(context.Background(), []llm.ChatMessage{{Role: "user", Content: "hi"}}, nil)
	if err == nil {
		t.Fatalf("expected empty response error")
	}
	if !strings.Contains(err.Error(), "received empty response") {
		t.Fatalf("expected empty response classification, got %v", err)
	}
}

func TestStreamChatCompletionHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(writer, "rate limited")
	}))
	defer server.Close()

	client := llm.Client{BaseURL: server.URL, APIKey: "test", ModelIdentifier: "m"}
	_, err := client.StreamChatCompletion(context.Background(), nil, nil)
	if err == nil {
		t.Fatalf("expected http error")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected status and body preview, got %v", err)
	}
}

func TestCreateChatCompletionSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		payload := map[string]any{
			"choices": []any{
				map[string]any{
					"message":       map[string]any{"role": "assistant", "content": "  result  "},
					"finish_reason": "stop",
				},
			},
		}
		if err := json.NewEncoder(writer).Encode(payload); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer server.Close()

	client := llm.Client{BaseURL: server.URL, APIKey: "test", ModelIdentifier: "m"}
	result, err := client.CreateChatCompletion(context.Background(), []llm.ChatMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "result" {
		t.Fatalf("expected trimmed content, got %q", result)
	}
}

func TestCreateChatCompletionNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"choices":[]}`)
	}))
	defer server.Close()

	client := llm.Client{BaseURL: server.URL, APIKey: "test", ModelIdentifier: "m"}
	_, err := client.CreateChatCompletion(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "received empty response") {
		t.Fatalf("expected empty response error, got %v", err)
	}
}

func TestCreateChatCompletionRefusal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(writer, `{"choices":[{"message":{"role":"assistant","content":"","refusal":"cannot comply"}}]}`)
	}))
	defer server.Close()

	client := llm.Client{BaseURL: server.URL, APIKey: "test", ModelIdentifier: "m"}
	_, err := client.CreateChatCompletion(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "cannot comply") {
		t.Fatalf("expected refusal error, got %v", err)
	}
}

func TestAdapterSelectsTransport(t *testing.T) {
	server := streamingServer(t, []string{"streamed"})
	defer server.Close()

	adapter := llm.Adapter{
		Client:    llm.Client{BaseURL: server.URL, APIKey: "test", ModelIdentifier: "m"},
		Streaming: true,
	}
	var tokens []string
	result, err := adapter.Chat(context.Background(), "prompt", func(token string) { tokens = append(tokens, token) })
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if result != "streamed" || len(tokens) != 1 {
		t.Fatalf("expected streaming transport, got %q with %v", result, tokens)
	}
}
