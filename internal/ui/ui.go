package ui

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/Prashantramappa/qwen-chat-personal/internal/api"
	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/client"
	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/handlers"
	"github.com/Prashantramappa/qwen-chat-personal/internal/config"
	"github.com/Prashantramappa/qwen-chat-personal/internal/logger"
)

var app *tview.Application
var wg sync.WaitGroup

var (
	debugConsole *tview.TextView
	textView     *tview.TextView
	textArea     *tview.TextArea
	localLogger  *logger.Logger

	gateway *api.Client

	// Whether the debug console is currently part of the layout. Read and
	// written only on the UI goroutine.
	debugVisible bool

	// Full conversation so far, resent verbatim on every turn.
	history []handlers.ChatMessage
)

func Init() {
	app = tview.NewApplication()
	app.EnablePaste(true)
	app.EnableMouse(true)

	debugConsole = initDebugConsole()

	textView = initChatViewer()
	textArea = initChatInput()
}

func initChatViewer() *tview.TextView {
	textView := tview.NewTextView().
		SetChangedFunc(func() {
			app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	textView.SetTitle("Conversation").SetBorder(true)
	textView.SetScrollable(true)
	textView.ScrollToEnd()
	return textView
}

func initChatInput() *tview.TextArea {
	textArea := tview.NewTextArea()
	textArea.SetTitle("Question").SetBorder(true)
	return textArea
}

func initDebugConsole() *tview.TextView {
	console := tview.NewTextView().
		SetChangedFunc(func() {
			app.Draw()
		}).
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	console.SetTitle("Debugger").SetBorder(true)
	console.ScrollToEnd()
	return console
}

func Run(gatewayClient *api.Client) {
	gateway = gatewayClient
	localLogger = logger.NewLogger("views")

	textView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			app.SetFocus(textArea)
		}
		return event
	})

	subFlex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(textView, 0, 1, false).
		AddItem(textArea, 8, 2, true)
	mainFlex := tview.NewFlex().
		AddItem(subFlex, 0, 2, false)

	if config.Dev {
		mainFlex.AddItem(debugConsole, 0, 1, true)
		debugVisible = true
	}

	setInputCapture(mainFlex)

	go probeGateway()

	if err := app.SetRoot(mainFlex, true).SetFocus(textArea).Run(); err != nil {
		panic(err)
	}
}

// probeGateway checks the gateway root route once the server goroutine has
// had a moment to bind, and reports an unreachable gateway in the transcript
// instead of leaving the first turn to discover it.
func probeGateway() {
	var err error
	for attempt := 0; attempt < 5; attempt++ {
		if err = gateway.Health(); err == nil {
			localLogger.Info("Gateway probe ok")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	localLogger.Warn("Gateway probe failed: ", err)
	app.QueueUpdateDraw(func() {
		fmt.Fprintf(textView, "\n[yellow::]Error:[-]\nThe chat gateway is not reachable: %s\n", err)
	})
}

func setInputCapture(mainFlex *tview.Flex) {
	textArea.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {

		switch event.Key() {
		case tcell.KeyESC:
			if textView.GetText(false) != "" {
				app.SetFocus(textView)
			}
		case tcell.KeyEnter:
			content := textArea.GetText()
			// Blank input never leaves the client.
			if strings.TrimSpace(content) == "" {
				return nil
			}
			textArea.SetText("", true)

			// Input stays disabled until the in-flight turn resolves,
			// so at most one request is outstanding.
			textArea.SetDisabled(true)

			switch strings.TrimSpace(content) {
			case "/help":
				listHelp(content)
				textArea.SetDisabled(false)
				return event
			case "/bye":
				quitApp()
				return event
			case "/debug":
				toggleDebugConsole(mainFlex)
				textArea.SetDisabled(false)
				return event
			}

			sendTurn(content)
		}
		return event
	})
}

// sendTurn appends the user entry optimistically, posts the whole history to
// the gateway and renders either the assistant reply or an inline error entry.
// The user entry stays in the transcript even when the turn fails.
func sendTurn(content string) {
	history = append(history, handlers.ChatMessage{Role: client.RoleUser, Content: content})

	fmt.Fprintln(textView, "\n[red::]You:[-]")
	fmt.Fprintf(textView, "%s\n", content)

	localLogger.Info("Sending turn, history length ", len(history))

	go func() {
		reply, err := gateway.SendChat(history)

		app.QueueUpdateDraw(func() {
			if err != nil {
				localLogger.Warn("Turn failed: ", err)
				fmt.Fprintf(textView, "\n[yellow::]Error:[-]\n%s\n", err)
			} else {
				history = append(history, handlers.ChatMessage{Role: client.RoleAssistant, Content: reply})
				fmt.Fprintf(textView, "\n[green::]Bot:[-]\n%s\n", reply)
			}
			textArea.SetDisabled(false)
			app.SetFocus(textArea)
		})
	}()
}

func toggleDebugConsole(mainFlex *tview.Flex) {
	go func() {
		app.QueueUpdateDraw(func() {
			if !debugVisible {
				mainFlex.AddItem(debugConsole, 0, 1, true)
				fmt.Fprintf(textView, "\nDebug console enabled\n")
			} else {
				mainFlex.RemoveItem(debugConsole)
				fmt.Fprintf(textView, "\nDebug console disabled\n")
			}
			debugVisible = !debugVisible
		})
	}()
}

func quitApp() {
	fmt.Fprintf(textView, "Bye bye\n")

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Close()
		app.Stop()
		log.Println("Shutting down gracefully.")
	}()

	wg.Wait()
	os.Exit(0)
}

func listHelp(content string) {
	fmt.Fprintln(textView, "[red::]You:[-]")
	fmt.Fprintf(textView, "%s\n\n", content)

	fmt.Fprintf(textView, "[green::]Bot:[-]\n")
	fmt.Fprintf(textView, "Here are some commands you can use:\n")
	fmt.Fprintf(textView, "- /help: Display this help message\n")
	fmt.Fprintf(textView, "- /bye: Exit the application\n")
	fmt.Fprintf(textView, "- /debug: Toggle the debug console\n\n")
}

func GetDebugConsole() (*tview.TextView, error) {
	if debugConsole == nil {
		return nil, errors.New("debug console not initialized")
	}
	return debugConsole, nil
}
