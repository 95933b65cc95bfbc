package handlers

import (
	"context"

	"juliejulie/internal/command"
	"juliejulie/internal/ollama"
)

// Chat is the catch-all at the end of the chain. Anything no other handler
// claimed goes to the language model, streamed and spoken sentence by
// sentence.
type Chat struct {
	client *ollama.Client
}

func NewChat(client *ollama.Client) *Chat {
	return &Chat{client: client}
}

func (c *Chat) Name() string { return "ollama_chat" }

func (c *Chat) TryHandle(ctx context.Context, text string) (*command.Result, error) {
	return c.client.QueryAndSpeak(ctx, text), nil
}
