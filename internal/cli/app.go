// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/prismchat/prism/internal/config"
	"github.com/prismchat/prism/internal/controller"
	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/quota"
	"github.com/prismchat/prism/internal/session"
	"github.com/prismchat/prism/internal/util"
)

// App bundles the wired chat stack for the plain-terminal commands.
// main constructs one App and routes commands to the handlers below.
type App struct {
	Config   *config.Config
	Settings *model.UserSettings
	Conv     *model.Conversation
	Sessions *session.Manager
	Ledger   *quota.Ledger
	Ctrl     *controller.Controller
	Quiet    bool
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// ASK
// =============================================================================

// HandleAsk sends a single prompt and prints the reply.
func HandleAsk(app *App, args Args) error {
	if args.Query == "" {
		return fmt.Errorf("usage: prism ask \"question\"")
	}

	app.Ctrl.Send(context.Background(), args.Query)

	last := app.Conv.Last()
	if last == nil || last.Role != model.RoleModel {
		return fmt.Errorf("no reply received")
	}

	fmt.Println(renderReply(last.Text))
	return nil
}

// renderReply renders markdown for terminals and passes plain text
// through for pipes.
func renderReply(text string) string {
	if !isTerminal() {
		return text
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

// =============================================================================
// SESSIONS
// =============================================================================

// HandleSessions lists saved chats, most recent first.
func HandleSessions(app *App) error {
	sessions := app.Sessions.Sessions()
	if len(sessions) == 0 {
		fmt.Println("No saved chats.")
		return nil
	}

	for i, sess := range sessions {
		fmt.Printf("%2d. %-43s %s  (%d messages)\n",
			i+1,
			util.Truncate(sess.Title, model.TitleMaxLen),
			sess.UpdatedAt.Local().Format("2006-01-02 15:04"),
			sess.MessageCount())
	}
	return nil
}

// =============================================================================
// USAGE
// =============================================================================

// HandleUsage prints today's quota counters.
func HandleUsage(app *App) error {
	usage := app.Ledger.Snapshot()

	fmt.Printf("Tier:   %s\n", usage.Tier)
	if !usage.Tier.IsLimited() {
		fmt.Println("Usage:  unlimited")
		return nil
	}
	fmt.Printf("Day:    %s (resets at midnight UTC)\n", usage.Day)
	fmt.Printf("Tokens: %d / %d\n", usage.TokensUsed, usage.TokenLimit)
	fmt.Printf("Images: %d / %d\n", usage.ImagesUsed, usage.ImageLimit)
	return nil
}

// =============================================================================
// CONFIG
// =============================================================================

// HandleConfig implements "prism config [show|path]".
func HandleConfig(cfg *config.Config, args Args) error {
	switch args.Subcommand {
	case "", "show":
		fmt.Printf("default_model = %q\n", cfg.DefaultModel)
		fmt.Printf("user_id       = %q\n", cfg.UserID)
		fmt.Printf("tier          = %q\n", cfg.Tier)
		fmt.Printf("accent_color  = %q\n", cfg.AccentColor)
		if cfg.APIKey != "" {
			fmt.Println("api_key       = (set)")
		} else {
			fmt.Println("api_key       = (not set)")
		}
		return nil

	case "path":
		path, err := config.Path()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil

	default:
		return fmt.Errorf("unknown config subcommand %q (want show or path)", args.Subcommand)
	}
}
