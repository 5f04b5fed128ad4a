package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/tahcohcat/studyquest/config"
	"github.com/tahcohcat/studyquest/internal/llm"
	"github.com/tahcohcat/studyquest/internal/logger"
)

// Client talks to the OpenAI API or any gateway that speaks its chat
// completions protocol.
type Client struct {
	client *openai.Client
	config *config.OpenAIConfig
	logger *logger.Log
}

func NewClient(cfg *config.OpenAIConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		clientCfg.HTTPClient = &http.Client{Timeout: time.Duration(cfg.Timeout) * time.Second}
	}

	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		config: cfg,
		logger: logger.New().With("provider", "openai"),
	}, nil
}

func (c *Client) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: 0.7,
	}
	if c.config.MaxTokens > 0 {
		req.MaxTokens = c.config.MaxTokens
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	c.logger.With("model", c.config.Model).Debug("Generating chat response")

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.WithError(err).Error("Failed to make OpenAI request")
		return "", mapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}

	c.logger.With("total_tokens", resp.Usage.TotalTokens).Debug("Generated response")
	return resp.Choices[0].Message.Content, nil
}

func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &llm.StatusError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &llm.StatusError{StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	return fmt.Errorf("openai request failed: %w", err)
}

func (c *Client) IsModelAvailable(ctx context.Context) error {
	list, err := c.client.ListModels(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", mapError(err))
	}

	availableModels := make([]string, 0, len(list.Models))
	for _, model := range list.Models {
		if model.ID == c.config.Model {
			return nil
		}
		availableModels = append(availableModels, model.ID)
	}

	return fmt.Errorf("model %s not found. Available models: %v", c.config.Model, availableModels)
}
