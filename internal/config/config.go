package config

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Defaults match the original local deployment: the gateway listens on 8001
// and the UI talks to it over loopback.
const (
	DefaultAddr         = "127.0.0.1:8001"
	DefaultBackendURL   = "http://localhost:11434"
	DefaultModel        = "qwen3:4b"
	DefaultTimeout      = 60 * time.Second
	DefaultMaxNewTokens = 200
)

var (
	Dev          bool
	LogPath      string
	Addr         string
	BackendURL   string
	Model        string
	RulesPath    string
	SystemPrompt string
	Timeout      time.Duration
	MaxNewTokens int
)

func Init() {
	godotenv.Load()

	flag.BoolVar(&Dev, "dev", false, "Development mode")
	flag.StringVar(&LogPath, "logPath", "", "Path to save the log file")
	flag.StringVar(&Addr, "addr", envOr("CHAT_ADDR", DefaultAddr), "Gateway listen address")
	flag.StringVar(&BackendURL, "backend", envOr("CHAT_BACKEND_URL", DefaultBackendURL), "Model backend base URL")
	flag.StringVar(&Model, "model", envOr("CHAT_MODEL", DefaultModel), "Model name to generate with")
	flag.StringVar(&RulesPath, "rules", envOr("CHAT_RULES", ""), "Path to a TOML rule table, empty for built-in rules")
	flag.StringVar(&SystemPrompt, "systemPrompt", envOr("CHAT_SYSTEM_PROMPT", ""), "System prompt prepended when the client sends none")
	flag.DurationVar(&Timeout, "timeout", envDurationOr("CHAT_TIMEOUT", DefaultTimeout), "Model backend call timeout")
	flag.IntVar(&MaxNewTokens, "maxNewTokens", envIntOr("CHAT_MAX_NEW_TOKENS", DefaultMaxNewTokens), "Default generation token budget")
	flag.Parse()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
