package llm

import "context"

// Adapter exposes the engine's chat contract over the HTTP client. With
// streaming disabled the token callback stays silent and the full text
// arrives through the return value; the engine reconciles both paths.
type Adapter struct {
	Client    Client
	Streaming bool
}

func (adapter Adapter) Chat(ctx context.Context, prompt string, onToken func(string)) (string, error) {
	messages := []ChatMessage{{Role: "user", Content: prompt}}
	if adapter.Streaming {
		return adapter.Client.StreamChatCompletion(ctx, messages, onToken)
	}
	return adapter.Client.CreateChatCompletion(ctx, messages)
}
