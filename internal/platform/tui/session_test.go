package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/lifecycle"
)

func update(t *testing.T, m SessionModel, msg tea.Msg) SessionModel {
	t.Helper()
	next, _ := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update() returned %T, expected SessionModel", next)
	}
	return sm
}

func TestMenuListsScenes(t *testing.T) {
	m := NewMenuModel(nil, nil, 80, 24)
	view := m.View()

	for _, title := range []string{"Bouncing Balls", "Orbits"} {
		if !strings.Contains(view, title) {
			t.Errorf("menu view missing %q", title)
		}
	}
}

func TestMenuNavigation(t *testing.T) {
	var m tea.Model = NewMenuModel(nil, nil, 80, 24)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown}) // clamped at the last item
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	menu := m.(MenuModel)
	if menu.Selected() == nil {
		t.Fatal("enter should select an item")
	}
	if got := menu.Selected().SceneID; got != "orbit" {
		t.Errorf("selected %q, expected orbit", got)
	}
}

func TestSessionMenuToPlayerAndBack(t *testing.T) {
	rc := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 1}
	m := NewSessionModel(config.Default(), rc, nil, nil, log.New(io.Discard))

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	player := m.Playing()
	if player == nil {
		t.Fatal("selecting a scene should start the player")
	}
	if player.Loop().State() != lifecycle.Running {
		t.Error("player loop should be running")
	}
	if !strings.Contains(m.View(), "fps") {
		t.Error("session view should show the player HUD")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Playing() != nil {
		t.Fatal("esc should return to the menu")
	}
	if player.Loop().State() != lifecycle.Stopped {
		t.Error("leaving the player should stop its loop")
	}

	// Frames for the discarded player are ignored by the menu
	m = update(t, m, FrameMsg{Handle: 1})
	if m.Playing() != nil {
		t.Error("a stray frame must not leave the menu")
	}
}

func TestSessionQuitFromMenu(t *testing.T) {
	m := NewSessionModel(config.Default(), core.DefaultConfig(), nil, nil, log.New(io.Discard))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	if m.View() != "" {
		t.Error("View() should be empty after quit")
	}
}
