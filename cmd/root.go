package cmd

import (
	"log"

	"github.com/Prashantramappa/qwen-chat-personal/internal/api"
	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server"
	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/client"
	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/handlers"
	"github.com/Prashantramappa/qwen-chat-personal/internal/config"
	"github.com/Prashantramappa/qwen-chat-personal/internal/logger"
	"github.com/Prashantramappa/qwen-chat-personal/internal/rules"
	"github.com/Prashantramappa/qwen-chat-personal/internal/ui"
)

func init() {
	config.Init()
}

func Execute() {
	ui.Init()
	debugConsole, err := ui.GetDebugConsole()
	if err != nil {
		log.Fatal(err)
	}

	logger.InitLogger(config.Dev, config.LogPath, debugConsole)

	table := rules.Default()
	if config.RulesPath != "" {
		table, err = rules.LoadFile(config.RulesPath)
		if err != nil {
			log.Fatalf("load rules %s: %v", config.RulesPath, err)
		}
	}

	backend, err := client.NewOllamaClient(config.BackendURL, config.Model)
	if err != nil {
		log.Fatalf("backend client: %v", err)
	}

	handler := handlers.NewHandler(table, backend, config.Timeout, config.SystemPrompt, config.MaxNewTokens)
	srv := server.New(config.Addr, handler, nil)

	api.Init()

	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalf("gateway: %v", err)
		}
	}()

	ui.Run(api.NewClient(config.Addr))
}
