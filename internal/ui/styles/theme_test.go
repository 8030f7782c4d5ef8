// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestAccentByNameKnown(t *testing.T) {
	for _, name := range AccentNames() {
		a := AccentByName(name)
		if a.Name != name {
			t.Errorf("AccentByName(%q).Name = %q", name, a.Name)
		}
		if a.Primary.Dark == "" || a.Primary.Light == "" {
			t.Errorf("accent %q has incomplete primary color", name)
		}
	}
}

func TestAccentByNameUnknownFallsBack(t *testing.T) {
	a := AccentByName("chartreuse")
	if a.Name != DefaultAccentName {
		t.Errorf("unknown accent should fall back to %q, got %q", DefaultAccentName, a.Name)
	}
}

func TestNewThemeUsesAccent(t *testing.T) {
	theme := NewTheme("rose")
	if theme.Accent.Name != "rose" {
		t.Errorf("Accent.Name = %q, want rose", theme.Accent.Name)
	}
}

func TestSetAccentRebuildsStyles(t *testing.T) {
	theme := NewTheme("blue")
	before := theme.HeaderBrand.GetForeground()

	theme.SetAccent("emerald")
	if theme.Accent.Name != "emerald" {
		t.Fatalf("Accent.Name = %q, want emerald", theme.Accent.Name)
	}
	if theme.HeaderBrand.GetForeground() == before {
		t.Error("SetAccent should re-derive accent-colored styles")
	}
}
