// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prismchat/prism/internal/model"
)

func testSession() *model.ChatSession {
	sess := model.NewChatSession()
	sess.Title = "Airspeed of swallows"
	sess.UpdatedAt = time.Now()
	sess.Messages = []*model.Message{
		model.NewUserMessage("what is the airspeed of an unladen swallow?"),
		model.NewModelMessage("African or European?"),
	}
	return sess
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(testSession())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	text := string(out)

	if !strings.Contains(text, "# Airspeed of swallows") {
		t.Error("markdown should contain the title heading")
	}
	if !strings.Contains(text, "## You") || !strings.Contains(text, "## Prism") {
		t.Error("markdown should label both speakers")
	}
	if !strings.Contains(text, "African or European?") {
		t.Error("markdown should contain message text")
	}
	if !strings.HasPrefix(text, "---\n") {
		t.Error("metadata option should add frontmatter")
	}
}

func TestMarkdownExportNoMetadata(t *testing.T) {
	opts := &Options{IncludeMetadata: false}
	out, err := NewMarkdownExporter(opts).Export(testSession())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if strings.HasPrefix(string(out), "---") {
		t.Error("frontmatter should be omitted without metadata")
	}
}

func TestMarkdownExportEmptySession(t *testing.T) {
	sess := model.NewChatSession()
	if _, err := NewMarkdownExporter(nil).Export(sess); err == nil {
		t.Error("empty session should fail to export")
	}
}

func TestJSONExportRoundTrips(t *testing.T) {
	sess := testSession()
	out, err := NewJSONExporter().Export(sess)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded model.ChatSession
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("exported JSON should parse: %v", err)
	}
	if decoded.Title != sess.Title || len(decoded.Messages) != 2 {
		t.Error("decoded session should match the original")
	}
}

func TestTextExport(t *testing.T) {
	out, err := NewTextExporter(nil).Export(testSession())
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	text := string(out)
	if !strings.Contains(text, "You") || !strings.Contains(text, "Prism:") {
		t.Errorf("text transcript should label speakers, got %q", text)
	}
}

func TestByFormat(t *testing.T) {
	for _, format := range []string{"", "md", "markdown", "json", "txt", "text"} {
		if _, err := ByFormat(format, nil); err != nil {
			t.Errorf("ByFormat(%q) failed: %v", format, err)
		}
	}
	if _, err := ByFormat("pdf", nil); err == nil {
		t.Error("unknown format should error")
	}
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	path, err := ExportToFile(testSession(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile failed: %v", err)
	}
	if !strings.HasSuffix(path, ".md") {
		t.Errorf("path = %q, want .md suffix", path)
	}
	if !strings.Contains(path, "airspeed_of_swallows") {
		t.Errorf("path = %q, want sanitized title stem", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("exported file missing: %v", err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Hello World", "hello_world"},
		{"what?!", "what"},
		{"", "untitled"},
		{"///", "untitled"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
