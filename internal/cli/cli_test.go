// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import "testing"

func TestParseDefaultsToTUI(t *testing.T) {
	cmd, _ := ParseArgs(nil)
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
}

func TestParseCommands(t *testing.T) {
	tests := []struct {
		argv []string
		want Command
	}{
		{[]string{"chat"}, CmdChat},
		{[]string{"ask", "hello"}, CmdAsk},
		{[]string{"config", "show"}, CmdConfig},
		{[]string{"sessions"}, CmdSessions},
		{[]string{"history"}, CmdSessions},
		{[]string{"usage"}, CmdUsage},
		{[]string{"quota"}, CmdUsage},
		{[]string{"version"}, CmdVersion},
		{[]string{"help"}, CmdHelp},
	}
	for _, tt := range tests {
		cmd, _ := ParseArgs(tt.argv)
		if cmd != tt.want {
			t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
		}
	}
}

func TestParseAskJoinsQuery(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "what", "is", "go"})
	if cmd != CmdAsk || args.Query != "what is go" {
		t.Errorf("cmd = %v, query = %q", cmd, args.Query)
	}
}

func TestUnknownWordBecomesAsk(t *testing.T) {
	cmd, args := ParseArgs([]string{"why", "is", "the", "sky", "blue"})
	if cmd != CmdAsk {
		t.Fatalf("cmd = %v, want CmdAsk", cmd)
	}
	if args.Query != "why is the sky blue" {
		t.Errorf("query = %q", args.Query)
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--model", "gemini-2.0-pro", "--guest", "-q", "chat"})
	if cmd != CmdChat {
		t.Fatalf("cmd = %v, want CmdChat", cmd)
	}
	if args.Model != "gemini-2.0-pro" {
		t.Errorf("Model = %q", args.Model)
	}
	if !args.Guest || !args.Quiet {
		t.Error("flags not parsed")
	}
}

func TestConfigSubcommand(t *testing.T) {
	_, args := ParseArgs([]string{"config", "PATH"})
	if args.Subcommand != "path" {
		t.Errorf("Subcommand = %q, want lowercased path", args.Subcommand)
	}
}
