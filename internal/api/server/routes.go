package server

import (
	"net/http"

	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/handlers"
)

func registerRoutes(mux *http.ServeMux, handler *handlers.Handler) {
	mux.HandleFunc("POST /chat", handler.ChatHandler)
	mux.HandleFunc("GET /", handler.HealthHandler)
}
