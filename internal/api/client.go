package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/handlers"
	"github.com/Prashantramappa/qwen-chat-personal/internal/logger"
)

var localLogger *logger.Logger

func Init() {
	localLogger = logger.NewLogger("api client")
}

// Client talks to the local chat gateway over HTTP.
type Client struct {
	chatURL   string
	healthURL string
	http      *http.Client
}

func NewClient(addr string) *Client {
	base := addr
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	base = strings.TrimRight(base, "/")
	return &Client{
		chatURL:   base + "/chat",
		healthURL: base + "/",
		http:      &http.Client{Timeout: 120 * time.Second},
	}
}

// SendChat posts the full conversation and returns the assistant reply.
// Error responses from the gateway come back as plain errors carrying the
// gateway's user-facing message, never the raw status line alone.
func (c *Client) SendChat(messages []handlers.ChatMessage) (string, error) {
	body, err := json.Marshal(handlers.ChatRequest{Messages: messages})
	if err != nil {
		localLogger.Error("Failed to serialize request: ", err)
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.chatURL, bytes.NewReader(body))
	if err != nil {
		localLogger.Error("Failed to create request: ", err)
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		localLogger.Error("Chat request failed: ", err)
		return "", fmt.Errorf("gateway unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if decErr := json.NewDecoder(resp.Body).Decode(&errResp); decErr == nil && errResp.Error != "" {
			localLogger.Warn("Gateway returned ", resp.StatusCode, ": ", errResp.Error)
			return "", fmt.Errorf("%s", errResp.Error)
		}
		localLogger.Warn("Gateway returned ", resp.Status)
		return "", fmt.Errorf("gateway error: %s", resp.Status)
	}

	var chatResp handlers.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		localLogger.Error("Failed to decode response: ", err)
		return "", err
	}
	return chatResp.Response, nil
}

// Health probes the gateway root endpoint.
func (c *Client) Health() error {
	resp, err := c.http.Get(c.healthURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway health check: %s", resp.Status)
	}
	return nil
}
