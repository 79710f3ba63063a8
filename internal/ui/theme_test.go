package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/downlink/internal/daemon"
)

func TestStatusStyleLookups(t *testing.T) {
	th := GetTheme("Dracula")
	styles := th.Styles()

	if got := styles.StatusStyle(daemon.StateFailed).GetForeground(); got != lipgloss.Color(th.StatusColors["failed"]) {
		t.Fatalf("StatusStyle(Failed) = %v, want %q", got, th.StatusColors["failed"])
	}
	if got := styles.StatusStyle(daemon.StateDownloading).GetForeground(); got != lipgloss.Color(th.StatusColors["downloading"]) {
		t.Fatalf("StatusStyle(Downloading) = %v, want %q", got, th.StatusColors["downloading"])
	}
	if got := styles.StatusStyle("Exploded").GetForeground(); got != lipgloss.Color(th.Muted) {
		t.Fatalf("StatusStyle(unknown) = %v, want muted %q", got, th.Muted)
	}
}

func TestThemesCoverEveryState(t *testing.T) {
	states := []daemon.State{
		daemon.StatePending,
		daemon.StateDownloading,
		daemon.StatePaused,
		daemon.StateCompleted,
		daemon.StateFailed,
	}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, st := range states {
			if _, ok := th.StatusColors[strings.ToLower(string(st))]; !ok {
				t.Errorf("theme %s has no color for %s", name, st)
			}
		}
	}
}

func TestWithBackgroundPaintsText(t *testing.T) {
	th := GetTheme("Slate")
	styles := th.Styles().WithBackground(th.Surface)
	if got := styles.MutedText.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("MutedText background = %v, want %q", got, th.Surface)
	}
	if got := styles.Logo.GetBackground(); got != lipgloss.Color(th.Surface) {
		t.Fatalf("Logo background = %v, want %q", got, th.Surface)
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("Unknown"); got != "Dracula" {
		t.Fatalf("NextTheme(Unknown) = %q, want Dracula", got)
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Dracula" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Dracula (fallback)", got)
	}
}
