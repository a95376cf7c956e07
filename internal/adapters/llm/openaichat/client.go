package openaichat

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gadgetwall/backoffice/internal/domain"
)

// Client adapts the OpenAI chat-completion API as an alternate assistant
// backend. It does not implement grounded search; lead discovery stays on the
// Gemini adapter.
type Client struct {
	api   *openai.Client
	model string
}

func New(apiKey, model string) *Client {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{api: openai.NewClient(apiKey), model: model}
}

func (c *Client) Start(ctx context.Context, systemPrompt string) (domain.Conversation, error) {
	return &conversation{
		client: c,
		history: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		},
	}, nil
}

type conversation struct {
	client *Client

	mu      sync.Mutex
	history []openai.ChatCompletionMessage
}

func (cv *conversation) Send(ctx context.Context, message string) (string, error) {
	cv.mu.Lock()
	msgs := make([]openai.ChatCompletionMessage, len(cv.history), len(cv.history)+1)
	copy(msgs, cv.history)
	cv.mu.Unlock()
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	res, err := cv.client.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       cv.client.model,
		Messages:    msgs,
		Temperature: 0.6,
	})
	if err != nil {
		return "", classify(err)
	}
	if len(res.Choices) == 0 {
		return "", &domain.APIError{Kind: domain.ErrKindGeneric, Err: fmt.Errorf("openai: empty response")}
	}
	reply := res.Choices[0].Message.Content

	cv.mu.Lock()
	cv.history = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply})
	cv.mu.Unlock()
	return reply, nil
}

func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		wrapped := fmt.Errorf("openai: %w", err)
		switch apiErr.HTTPStatusCode {
		case 401, 403:
			return &domain.APIError{Kind: domain.ErrKindBadCredential, Err: wrapped}
		case 404:
			return &domain.APIError{Kind: domain.ErrKindModelUnavailable, Err: wrapped}
		default:
			return &domain.APIError{Kind: domain.ErrKindGeneric, Err: wrapped}
		}
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &domain.APIError{Kind: domain.ErrKindNetwork, Err: fmt.Errorf("openai: %w", err)}
	}
	if strings.Contains(err.Error(), "authentication") {
		return &domain.APIError{Kind: domain.ErrKindBadCredential, Err: fmt.Errorf("openai: %w", err)}
	}
	return &domain.APIError{Kind: domain.ErrKindGeneric, Err: fmt.Errorf("openai: %w", err)}
}
