package client

import (
	"net/http"
	"net/url"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is the wire shape shared with the model runtime.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client holds the resolved endpoints of a model runtime.
type Client struct {
	base      *url.URL
	http      *http.Client
	chatURL   *url.URL
	healthURL *url.URL
}

// ClientConfig holds the configuration for the client.
type ClientConfig struct {
	BaseURL    string
	ChatPath   string
	HealthPath string
}

// NewClient creates a new runtime client with a configurable base URL and
// endpoints. The HTTP client carries no timeout of its own; callers bound
// each request through its context.
func NewClient(config ClientConfig) (*Client, error) {
	baseURL, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		base:      baseURL,
		http:      &http.Client{},
		chatURL:   baseURL.ResolveReference(&url.URL{Path: config.ChatPath}),
		healthURL: baseURL.ResolveReference(&url.URL{Path: config.HealthPath}),
	}, nil
}

func (c *Client) ChatURL() string {
	return c.chatURL.String()
}

func (c *Client) HealthURL() string {
	return c.healthURL.String()
}
