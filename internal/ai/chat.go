package ai

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

// Message is one turn handed to the completion API.
type Message struct {
	Role    string
	Content string
}

// Message roles, matching the OpenAI wire values.
const (
	RoleSystem    = openai.ChatMessageRoleSystem
	RoleUser      = openai.ChatMessageRoleUser
	RoleAssistant = openai.ChatMessageRoleAssistant
)

// StreamChat runs one streaming chat completion over the ordered message
// sequence. Each delta is forwarded to onDelta as soon as the provider
// yields it; the assembled full text is returned for memory capture.
// A non-nil error from onDelta aborts the stream.
func (c *Client) StreamChat(ctx context.Context, msgs []Message, onDelta func(delta string) error) (string, error) {
	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.cfg.ChatModel,
		Messages: toChatMessages(msgs),
		Stream:   true,
	})
	if err != nil {
		return "", upstream("chat stream", err)
	}
	defer stream.Close()

	var full []byte
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return string(full), nil
		}
		if err != nil {
			return string(full), upstream("chat stream", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full = append(full, delta...)
		if err := onDelta(delta); err != nil {
			return string(full), err
		}
	}
}

// Complete runs one non-streaming completion and returns the assistant text.
// Used by the query rewriter, which needs a single short constrained answer.
func (c *Client) Complete(ctx context.Context, msgs []Message) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.cfg.RewriteModel,
		Messages: toChatMessages(msgs),
	})
	if err != nil {
		return "", upstream("chat completion", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", upstream("chat completion", fmt.Errorf("empty completion response"))
	}
	return resp.Choices[0].Message.Content, nil
}

func toChatMessages(msgs []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, len(msgs))
	for i, m := range msgs {
		out[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}
	return out
}
