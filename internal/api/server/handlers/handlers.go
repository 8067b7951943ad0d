package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/client"
	"github.com/Prashantramappa/qwen-chat-personal/internal/logger"
	"github.com/Prashantramappa/qwen-chat-personal/internal/rules"
)

const (
	maxRequestBodySize = 1 << 20
	maxNewTokensLimit  = 4096
)

// Generic client-facing failure messages. Internal error detail is logged,
// never returned.
const (
	msgBackendUnavailable = "The model backend is unavailable. Please try again later."
	msgBackendTimeout     = "The model took too long to respond. Please try again."
	msgBackendFailed      = "Text generation failed. Please try again."
)

// Handler owns the chat exchange: rule table first, model backend as
// fallback. Both collaborators are built once at startup and injected.
type Handler struct {
	table           *rules.Table
	backend         client.Backend
	timeout         time.Duration
	systemPrompt    string
	defaultMaxToken int
}

func NewHandler(table *rules.Table, backend client.Backend, timeout time.Duration, systemPrompt string, defaultMaxTokens int) *Handler {
	return &Handler{
		table:           table,
		backend:         backend,
		timeout:         timeout,
		systemPrompt:    systemPrompt,
		defaultMaxToken: defaultMaxTokens,
	}
}

// ChatHandler handles POST /chat.
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	localLogger := logger.NewLogger("ChatHandler")

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer r.Body.Close()

	var clientReq ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&clientReq); err != nil {
		localLogger.Error("Failed to decode request body: ", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	messages, err := clientReq.Canonicalize()
	if err != nil {
		localLogger.Error("Rejected request: ", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Rule evaluation sees a normalized copy; the backend gets the
	// original casing. Empty input resolves to the clarification reply
	// inside the table, so it never reaches the model.
	if reply, ok := h.table.Match(lastUserContent(messages)); ok {
		localLogger.Info("Rule match, backend skipped")
		writeJSON(w, http.StatusOK, ChatResponse{Response: reply})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	output, err := h.backend.Generate(ctx, h.backendMessages(messages), client.GenerateOptions{
		MaxNewTokens: clampTokens(clientReq.MaxNewTokens, h.defaultMaxToken),
	})
	if err != nil {
		status, message := classifyBackendError(err)
		localLogger.Error("Backend call failed: ", err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Response: output})
}

// HealthHandler handles GET /. The response carries the backend probe
// result so clients can tell the gateway being up from the model runtime
// being up.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	backendStatus := "ok"
	if err := h.backend.CheckRunning(r.Context()); err != nil {
		localLogger := logger.NewLogger("HealthHandler")
		localLogger.Warn("Backend probe failed: ", err)
		backendStatus = "unavailable"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Qwen chat gateway is running. Use POST /chat to interact.",
		"backend": backendStatus,
	})
}

// backendMessages converts to the runtime wire shape, prepending the
// configured system prompt when the client did not supply one.
func (h *Handler) backendMessages(messages []ChatMessage) []client.Message {
	out := make([]client.Message, 0, len(messages)+1)
	if h.systemPrompt != "" && messages[0].Role != client.RoleSystem {
		out = append(out, client.Message{Role: client.RoleSystem, Content: h.systemPrompt})
	}
	for _, msg := range messages {
		out = append(out, client.Message{Role: msg.Role, Content: msg.Content})
	}
	return out
}

func clampTokens(requested, fallback int) int {
	if requested <= 0 {
		return fallback
	}
	if requested > maxNewTokensLimit {
		return maxNewTokensLimit
	}
	return requested
}

func classifyBackendError(err error) (int, string) {
	switch {
	case errors.Is(err, client.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, msgBackendTimeout
	case errors.Is(err, client.ErrUnavailable):
		return http.StatusBadGateway, msgBackendUnavailable
	default:
		return http.StatusBadGateway, msgBackendFailed
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
