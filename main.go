// prism - streaming AI chat for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/prismchat/prism/internal/cli"
	"github.com/prismchat/prism/internal/config"
	"github.com/prismchat/prism/internal/controller"
	"github.com/prismchat/prism/internal/genai"
	"github.com/prismchat/prism/internal/model"
	"github.com/prismchat/prism/internal/quota"
	"github.com/prismchat/prism/internal/session"
	"github.com/prismchat/prism/internal/storage"
	"github.com/prismchat/prism/internal/ui/chat"
)

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	}

	cfg, cfgPath, err := loadConfig(args)
	if err != nil {
		fatal(err)
	}

	app, store, err := buildApp(cfg, args)
	if err != nil {
		fatal(err)
	}
	if store != nil {
		defer store.Close()
	}

	switch cmd {
	case cli.CmdTUI:
		err = runTUI(app, cfgPath)
	case cli.CmdChat:
		err = cli.HandleChat(app)
	case cli.CmdAsk:
		err = cli.HandleAsk(app, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(cfg, args)
	case cli.CmdSessions:
		err = cli.HandleSessions(app)
	case cli.CmdUsage:
		err = cli.HandleUsage(app)
	}
	if err != nil {
		fatal(err)
	}

	// Let fire-and-forget persistence writes land before exit.
	app.Sessions.Wait()
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "prism: %v\n", err)
	os.Exit(1)
}

// loadConfig resolves the config path and applies CLI overrides.
func loadConfig(args cli.Args) (*config.Config, string, error) {
	path := args.Config
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			return nil, "", err
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}

	if args.Model != "" {
		cfg.DefaultModel = args.Model
	}
	if args.Guest {
		cfg.Guest = true
		cfg.UserID = model.GuestUserID
	}
	return cfg, path, nil
}

// buildApp wires the full chat stack: storage, settings, quota ledger,
// generation client, session manager and controller.
func buildApp(cfg *config.Config, args cli.Args) (*cli.App, *storage.Store, error) {
	var store *storage.Store
	if cfg.UserID != model.GuestUserID {
		dbPath, err := cfg.DatabasePath()
		if err != nil {
			return nil, nil, err
		}
		store, err = storage.Open(dbPath)
		if err != nil {
			// Persistence is best-effort: fall back to an in-memory
			// session list rather than refusing to chat.
			log.Printf("main: opening database failed, continuing without persistence: %v", err)
			store = nil
		}
	}

	settings := cfg.ToSettings()
	if store != nil {
		stored, ok, err := store.LoadSettings(cfg.UserID)
		if err != nil {
			log.Printf("main: loading settings: %v", err)
		} else if ok {
			settings = stored
		}
	}
	if args.Model != "" {
		settings.CurrentModel = args.Model
	}

	conv := model.NewConversation()

	var mgrStore session.Store
	if store != nil {
		mgrStore = store
	}
	mgr := session.NewManager(cfg.UserID, mgrStore, conv)
	if err := mgr.Load(); err != nil {
		log.Printf("main: loading sessions: %v", err)
	}

	ledger := quota.NewLedger(settings)

	client := genai.NewClient(cfg.APIKey).
		WithSystemInstruction(settings.SystemInstruction)
	if cfg.BaseURL != "" {
		client = client.WithBaseURL(cfg.BaseURL)
	}

	ctrl := controller.New(conv, mgr, ledger, client, settings)

	return &cli.App{
		Config:   cfg,
		Settings: settings,
		Conv:     conv,
		Sessions: mgr,
		Ledger:   ledger,
		Ctrl:     ctrl,
		Quiet:    args.Quiet,
	}, store, nil
}

// runTUI starts the full-screen interface with config hot reload.
func runTUI(app *cli.App, cfgPath string) error {
	m := chat.New(app.Ctrl, app.Sessions, app.Conv, app.Settings, app.Ledger)
	p := tea.NewProgram(m, tea.WithAltScreen())

	watcher, err := config.Watch(cfgPath, func(cfg *config.Config) {
		p.Send(chat.AccentChangedMsg{Name: cfg.AccentColor})
	})
	if err != nil {
		log.Printf("main: config watch unavailable: %v", err)
	} else {
		defer watcher.Close()
	}

	_, err = p.Run()
	return err
}
