// Package llm implements the chat collaborator over an OpenAI-compatible
// chat completions endpoint, with and without server-sent-event streaming.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	chatCompletionsPath   = "/chat/completions"
	streamDataPrefix      = "data: "
	streamDoneSentinel    = "[DONE]"
	responseBodyLogLimit  = 512
	emptyResponseErrorFmt = "received empty response (status=%d)"
)

// Client talks to one OpenAI-compatible endpoint.
type Client struct {
	BaseURL             string
	APIKey              string
	ModelIdentifier     string
	MaxCompletionTokens int
	Temperature         float64
	SupportsTemperature bool
	HTTPClient          *http.Client
}

// ChatMessage is one entry of the conversation payload.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model               string        `json:"model"`
	Messages            []ChatMessage `json:"messages"`
	MaxCompletionTokens int           `json:"max_completion_tokens,omitempty"`
	Temperature         *float64      `json:"temperature,omitempty"`
	Stream              bool          `json:"stream,omitempty"`
}

type chatCompletionChoice struct {
	Message struct {
		Content string `json:"content"`
		Refusal string `json:"refusal,omitempty"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type chatCompletionResponse struct {
	Choices []chatCompletionChoice `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// CreateChatCompletion performs a non-streaming exchange and returns the
// trimmed assistant message.
func (client Client) CreateChatCompletion(ctx context.Context, messages []ChatMessage) (string, error) {
	httpResponse, requestErr := client.postChatCompletion(ctx, messages, false)
	if requestErr != nil {
		return "", requestErr
	}
	defer func(closer io.ReadCloser) { _ = closer.Close() }(httpResponse.Body)

	bodyBytes, readErr := io.ReadAll(httpResponse.Body)
	if readErr != nil {
		return "", readErr
	}
	bodyPreview := truncateForLog(string(bodyBytes), responseBodyLogLimit)
	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return "", fmt.Errorf("llm http error %d: %s", httpResponse.StatusCode, bodyPreview)
	}

	var completion chatCompletionResponse
	if decodeErr := json.Unmarshal(bodyBytes, &completion); decodeErr != nil {
		return "", fmt.Errorf("decode chat completion: %w (body=%s)", decodeErr, bodyPreview)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf(emptyResponseErrorFmt, httpResponse.StatusCode)
	}
	choice := completion.Choices[0]
	if refusal := strings.TrimSpace(choice.Message.Refusal); refusal != "" {
		return "", fmt.Errorf("chat completion refusal: %s", refusal)
	}
	return strings.TrimSpace(choice.Message.Content), nil
}

// StreamChatCompletion performs a streaming exchange, delivering every delta
// through onToken and returning the accumulated text.
func (client Client) StreamChatCompletion(ctx context.Context, messages []ChatMessage, onToken func(string)) (string, error) {
	httpResponse, requestErr := client.postChatCompletion(ctx, messages, true)
	if requestErr != nil {
		return "", requestErr
	}
	defer func(closer io.ReadCloser) { _ = closer.Close() }(httpResponse.Body)

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(httpResponse.Body)
		return "", fmt.Errorf("llm http error %d: %s", httpResponse.StatusCode, truncateForLog(string(bodyBytes), responseBodyLogLimit))
	}

	var accumulated strings.Builder
	scanner := bufio.NewScanner(httpResponse.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, streamDataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, streamDataPrefix)
		if payload == streamDoneSentinel {
			break
		}
		var chunk streamChunk
		if decodeErr := json.Unmarshal([]byte(payload), &chunk); decodeErr != nil {
			return "", fmt.Errorf("decode stream chunk: %w (chunk=%s)", decodeErr, truncateForLog(payload, responseBodyLogLimit))
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			accumulated.WriteString(choice.Delta.Content)
			if onToken != nil {
				onToken(choice.Delta.Content)
			}
		}
	}
	if scanErr := scanner.Err(); scanErr != nil {
		return "", fmt.Errorf("read stream: %w", scanErr)
	}
	if strings.TrimSpace(accumulated.String()) == "" {
		return "", fmt.Errorf(emptyResponseErrorFmt, httpResponse.StatusCode)
	}
	return accumulated.String(), nil
}

func (client Client) postChatCompletion(ctx context.Context, messages []ChatMessage, stream bool) (*http.Response, error) {
	requestPayload := chatCompletionRequest{
		Model:               client.ModelIdentifier,
		Messages:            messages,
		MaxCompletionTokens: client.MaxCompletionTokens,
		Stream:              stream,
	}
	// Many current models only accept their default temperature; send it only
	// when the model supports an explicit value.
	if client.SupportsTemperature && client.Temperature > 0 {
		temperature := client.Temperature
		requestPayload.Temperature = &temperature
	}
	requestBytes, marshalErr := json.Marshal(requestPayload)
	if marshalErr != nil {
		return nil, marshalErr
	}
	httpRequest, buildErr := http.NewRequestWithContext(ctx, http.MethodPost, client.BaseURL+chatCompletionsPath, bytes.NewReader(requestBytes))
	if buildErr != nil {
		return nil, buildErr
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Authorization", "Bearer "+client.APIKey)
	httpClient := client.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return httpClient.Do(httpRequest)
}

func truncateForLog(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
