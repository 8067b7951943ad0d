package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Prashantramappa/qwen-chat-personal/internal/logger"
)

// Backend is the black-box text-generation capability the gateway falls
// back to when no rule matches.
type Backend interface {
	Generate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error)
	CheckRunning(ctx context.Context) error
}

// GenerateOptions carries per-request generation knobs.
type GenerateOptions struct {
	MaxNewTokens int
}

// OllamaClient talks to a local Ollama server hosting the configured model.
type OllamaClient struct {
	Client
	model string
}

var _ Backend = (*OllamaClient)(nil)

// NewOllamaClient creates a client for the runtime at baseURL serving model.
func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	base, err := NewClient(ClientConfig{
		BaseURL:    baseURL,
		ChatPath:   "/api/chat",
		HealthPath: "/",
	})
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}
	return &OllamaClient{Client: *base, model: model}, nil
}

type ollamaChatRequest struct {
	Model    string        `json:"model"`
	Messages []Message     `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	NumPredict int `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model     string  `json:"model"`
	CreatedAt string  `json:"created_at"`
	Message   Message `json:"message"`
	Done      bool    `json:"done"`
}

// Generate runs one non-streaming chat completion. Deadlines come from ctx;
// a deadline hit is reported as ErrTimeout, an unreachable runtime as
// ErrUnavailable, everything else as ErrGeneration.
func (c *OllamaClient) Generate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error) {
	localLogger := logger.NewLogger("ollama client")

	reqBody := ollamaChatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options:  ollamaOptions{NumPredict: opts.MaxNewTokens},
	}
	bts, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.ChatURL(), bytes.NewBuffer(bts))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.http.Do(request)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			localLogger.Error("Generation timed out: ", err)
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		localLogger.Error("Backend unreachable: ", err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if response.StatusCode != http.StatusOK {
		localLogger.Error("Backend returned ", response.Status, ": ", string(body))
		return "", fmt.Errorf("%w: status %s", ErrGeneration, response.Status)
	}

	var apiResp ollamaChatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		localLogger.Error("Failed to unmarshal response: ", err)
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	if apiResp.Message.Content == "" {
		return "", fmt.Errorf("%w: empty completion", ErrGeneration)
	}
	return apiResp.Message.Content, nil
}

// CheckRunning probes the runtime root endpoint.
func (c *OllamaClient) CheckRunning(ctx context.Context) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.HealthURL(), nil)
	if err != nil {
		return err
	}
	response, err := c.http.Do(request)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %s", ErrUnavailable, response.Status)
	}
	return nil
}
