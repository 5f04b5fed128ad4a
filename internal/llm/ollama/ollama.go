package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/tahcohcat/studyquest/config"
	"github.com/tahcohcat/studyquest/internal/llm"
	"github.com/tahcohcat/studyquest/internal/logger"
)

type Client struct {
	client *api.Client
	config *config.OllamaConfig
	logger *logger.Log
}

func NewClient(cfg *config.OllamaConfig) (*Client, error) {
	var (
		client *api.Client
		err    error
	)
	if cfg.Host != "" {
		base, perr := url.Parse(cfg.Host)
		if perr != nil {
			return nil, fmt.Errorf("invalid ollama host %q: %w", cfg.Host, perr)
		}
		client = api.NewClient(base, http.DefaultClient)
	} else {
		client, err = api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama client: %w", err)
		}
	}

	return &Client{
		client: client,
		config: cfg,
		logger: logger.New().With("provider", "ollama"),
	}, nil
}

func (c *Client) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	shouldStream := false

	req := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: make([]api.Message, 0, len(messages)),
		Stream:   &shouldStream,
		Options: map[string]interface{}{
			"temperature": 0.7,
			"top_p":       0.9,
		},
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, api.Message{Role: m.Role, Content: m.Content})
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.config.Timeout)*time.Second)
		defer cancel()
	}

	c.logger.With("model", c.config.Model).Debug("Generating chat response")

	var response string
	f := func(r api.ChatResponse) error {
		response += r.Message.Content
		return nil
	}

	if err := c.client.Chat(ctx, req, f); err != nil {
		c.logger.WithError(err).Error("Failed to generate response")
		return "", mapError(err)
	}
	return response, nil
}

// mapError keeps the upstream status so callers can tell rate limits apart.
func mapError(err error) error {
	var se api.StatusError
	if errors.As(err, &se) {
		return &llm.StatusError{StatusCode: se.StatusCode, Message: se.ErrorMessage, Err: err}
	}
	return fmt.Errorf("ollama generation failed: %w", err)
}

func (c *Client) IsModelAvailable(ctx context.Context) error {
	models, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list models: %w", err)
	}

	for _, model := range models.Models {
		if model.Name == c.config.Model || model.Model == c.config.Model {
			return nil
		}
	}

	return fmt.Errorf("model %s not found. Available models: %v", c.config.Model, getModelNames(models.Models))
}

func getModelNames(models []api.ListModelResponse) []string {
	names := make([]string, len(models))
	for i, model := range models {
		names[i] = model.Name
	}
	return names
}
