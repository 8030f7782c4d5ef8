// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL for the prism CLI.
//
// Handles the "prism chat" command: a readline-style loop with input
// history, live streamed replies and slash commands for session
// management.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/prismchat/prism/internal/config"
	"github.com/prismchat/prism/internal/export"
	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	commandStyle = lipgloss.NewStyle().
			Foreground(styles.Emerald)

	warnStyle = lipgloss.NewStyle().
			Foreground(styles.Amber)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader wraps liner with persistent input history.
type lineReader struct {
	line        *liner.State
	historyFile string
}

func newLineReader() *lineReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.Dir()
	if err != nil {
		dir = os.TempDir()
	}

	r := &lineReader{
		line:        line,
		historyFile: filepath.Join(dir, "chat_history"),
	}
	r.loadHistory()
	return r
}

func (r *lineReader) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *lineReader) saveHistory() {
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

// readInput reads one line, recording non-empty input in history.
func (r *lineReader) readInput(prompt string) (string, error) {
	input, err := r.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.line.AppendHistory(input)
	}
	return input, nil
}

func (r *lineReader) close() {
	r.saveHistory()
	r.line.Close()
}

// =============================================================================
// STREAM PRINTER
// =============================================================================

// streamPrinter echoes model output as it arrives. Partials are
// cumulative, so only the unseen suffix of the newest model message is
// written.
type streamPrinter struct {
	mu      sync.Mutex
	lastID  string
	printed int
}

func (p *streamPrinter) observe(snapshot []*model.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(snapshot) == 0 {
		return
	}
	last := snapshot[len(snapshot)-1]
	if last.Role != model.RoleModel || last.IsThinking {
		return
	}
	if last.ID != p.lastID {
		p.lastID = last.ID
		p.printed = 0
	}
	if len(last.Text) > p.printed {
		fmt.Print(last.Text[p.printed:])
		p.printed = len(last.Text)
	}
}

// reset forgets print state between sessions so switching chats does
// not replay old text.
func (p *streamPrinter) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastID = ""
	p.printed = 0
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChat runs the interactive REPL until /quit or EOF.
func HandleChat(app *App) error {
	reader := newLineReader()
	defer reader.close()

	printer := &streamPrinter{}
	app.Conv.AddListener(printer.observe)

	if !app.Quiet {
		printChatWelcome(app)
	}

	for {
		input, err := reader.readInput(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return err
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") && !strings.HasPrefix(input, "/imagine") {
			quit, err := handleSlashCommand(app, printer, input)
			if err != nil {
				fmt.Println(warnStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		app.Ctrl.Send(context.Background(), input)
		fmt.Println()
		fmt.Println()
	}
}

func printChatWelcome(app *App) {
	fmt.Println(welcomeStyle.Render("prism chat"))
	fmt.Println(infoStyle.Render("Model: " + app.Settings.CurrentModel +
		"  Tier: " + string(app.Settings.Tier)))
	fmt.Println(infoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// handleSlashCommand executes a /command. The bool result reports
// whether the REPL should exit.
func handleSlashCommand(app *App, printer *streamPrinter, input string) (bool, error) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	args := fields[1:]

	switch cmd {
	case "/help", "/h", "/?":
		printSlashHelp()
		return false, nil

	case "/quit", "/q", "/exit":
		return true, nil

	case "/new", "/n":
		app.Sessions.Create()
		printer.reset()
		fmt.Println(infoStyle.Render("Started a new chat."))
		return false, nil

	case "/sessions", "/list":
		return false, HandleSessions(app)

	case "/select", "/s":
		if len(args) == 0 {
			return false, fmt.Errorf("usage: /select N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("usage: /select N")
		}
		sessions := app.Sessions.Sessions()
		if n < 1 || n > len(sessions) {
			return false, fmt.Errorf("no chat %d (have %d)", n, len(sessions))
		}
		app.Sessions.Select(sessions[n-1].ID)
		printer.reset()
		fmt.Println(infoStyle.Render("Switched to: " + sessions[n-1].Title))
		return false, nil

	case "/rename":
		cur := app.Sessions.Current()
		if cur == nil {
			return false, fmt.Errorf("no active chat to rename")
		}
		if len(args) == 0 {
			return false, fmt.Errorf("usage: /rename NEW TITLE")
		}
		app.Sessions.Rename(cur.ID, strings.Join(args, " "))
		return false, nil

	case "/delete":
		cur := app.Sessions.Current()
		if cur == nil {
			return false, fmt.Errorf("no active chat to delete")
		}
		app.Sessions.Delete(cur.ID)
		printer.reset()
		fmt.Println(infoStyle.Render("Chat deleted."))
		return false, nil

	case "/model", "/m":
		if len(args) == 0 {
			fmt.Println(infoStyle.Render("Model: " + app.Settings.CurrentModel))
			return false, nil
		}
		app.Settings.CurrentModel = args[0]
		app.Sessions.SyncSettings(app.Settings)
		fmt.Println(infoStyle.Render("Switched model to " + args[0]))
		return false, nil

	case "/export":
		cur := app.Sessions.Current()
		if cur == nil {
			return false, fmt.Errorf("no active chat to export")
		}
		format := ""
		if len(args) > 0 {
			format = args[0]
		}
		exporter, err := export.ByFormat(format, nil)
		if err != nil {
			return false, err
		}
		path, err := export.ExportToFile(cur, exporter, nil)
		if err != nil {
			return false, err
		}
		fmt.Println(infoStyle.Render("Exported to " + path))
		return false, nil

	case "/usage":
		return false, HandleUsage(app)

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

func printSlashHelp() {
	rows := [][2]string{
		{"/help", "show this help"},
		{"/new", "start a new chat"},
		{"/sessions", "list saved chats"},
		{"/select N", "switch to chat N"},
		{"/rename TITLE", "rename the current chat"},
		{"/delete", "delete the current chat"},
		{"/model [NAME]", "show or switch the model"},
		{"/export [md|json|txt]", "save a transcript of this chat"},
		{"/usage", "show today's quota usage"},
		{"/imagine PROMPT", "generate an image"},
		{"/quit", "exit chat"},
	}
	for _, row := range rows {
		fmt.Printf("  %s %s\n",
			commandStyle.Render(fmt.Sprintf("%-16s", row[0])),
			infoStyle.Render(row[1]))
	}
}
