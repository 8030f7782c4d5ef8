// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdConfig
	CmdSessions
	CmdUsage
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Model  string
	Guest  bool
	Quiet  bool
	Config string

	// Command-specific
	Query      string
	Subcommand string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `prism - AI chat for your terminal

Prism is a streaming chat client for the Gemini generative language
API, with local chat history and daily Free-tier quotas.

Usage:
  prism                      Start the full-screen TUI (default)
  prism chat                 Interactive chat REPL
  prism ask "question"       Ask a single question and exit
  prism config [show|path]   Configuration
  prism sessions             List saved chat sessions
  prism usage                Show today's quota usage
  prism version              Show version information
  prism help                 Show this help

Flags:
  -m, --model NAME   Use a specific generation model
  --guest            Run without persistence (no history, no settings)
  --config PATH      Use an alternate config file
  -q, --quiet        Minimal output

Interactive commands (during chat):
  /help              Show available commands
  /new               Start a new chat
  /sessions          List saved chats
  /select N          Switch to chat N from the list
  /rename TITLE      Rename the current chat
  /delete            Delete the current chat
  /model [NAME]      Show or switch the generation model
  /export [FORMAT]   Save a transcript (md, json or txt)
  /usage             Show today's quota usage
  /quit              Exit chat

Environment:
  PRISM_API_KEY      API key for the generation service
  GEMINI_API_KEY     Fallback API key
  PRISM_GUEST=1      Force guest mode
`

// Parse parses os.Args into a command and its arguments.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses an argument list. Split out from Parse for tests.
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "chat":
		return CmdChat, args

	case "ask":
		args.Query = strings.Join(remaining, " ")
		return CmdAsk, args

	case "config":
		if len(remaining) > 0 {
			args.Subcommand = strings.ToLower(remaining[0])
		}
		return CmdConfig, args

	case "sessions", "session", "history":
		return CmdSessions, args

	case "usage", "quota":
		return CmdUsage, args

	case "version", "-v", "--version":
		return CmdVersion, args

	case "help", "-h", "--help":
		return CmdHelp, args

	default:
		// Unknown word: treat it as an ask query for convenience.
		args.Query = strings.Join(append([]string{cmd}, remaining...), " ")
		return CmdAsk, args
	}
}

// parseGlobalFlags strips global flags from the argument list.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "-m", "--model":
			if i+1 < len(argv) {
				i++
				args.Model = argv[i]
			}
		case "--guest":
			args.Guest = true
		case "--config":
			if i+1 < len(argv) {
				i++
				args.Config = argv[i]
			}
		case "-q", "--quiet":
			args.Quiet = true
		default:
			remaining = append(remaining, argv[i])
		}
	}

	return remaining, args
}

// PrintUsage writes the top-level help text.
func PrintUsage() {
	fmt.Print(usageText)
}

// PrintVersion writes version information.
func PrintVersion() {
	fmt.Printf("prism %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
}
