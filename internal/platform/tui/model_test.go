package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/lifecycle"
	"github.com/vovakirdan/frameloop/internal/refresh"
	"github.com/vovakirdan/frameloop/internal/registry"
	_ "github.com/vovakirdan/frameloop/internal/scenes/bounce"
	_ "github.com/vovakirdan/frameloop/internal/scenes/orbit"
)

var epoch = time.Unix(0, 0)

func keyMsg(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestPlayer(t *testing.T, sceneID string) (*Model, registry.Scene) {
	t.Helper()
	scene, err := registry.Create(sceneID, config.Default().Scenes)
	if err != nil {
		t.Fatal(err)
	}
	m, err := NewModel(scene, PlayerConfig{
		Loop:    config.LoopConfig{FixedDeltaMS: 10, MaximumDeltaMS: 50, RefreshRate: 100},
		Runtime: core.RuntimeConfig{ScreenW: 40, ScreenH: 20, Seed: 1},
		Clock:   core.NewFakeClock(epoch),
		Logger:  log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m, scene
}

// pendingHandle returns the single outstanding registration.
func pendingHandle(t *testing.T, r *TeaRefresher) refresh.Handle {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) != 1 {
		t.Fatalf("refresher has %d pending registrations, expected 1", len(r.pending))
	}
	for h := range r.pending {
		return h
	}
	return 0
}

func TestModelInitStartsLoop(t *testing.T) {
	m, scene := newTestPlayer(t, "bounce")

	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init() should arm the first tick")
	}
	if m.Loop().State() != lifecycle.Running {
		t.Errorf("State() = %s after Init, expected running", m.Loop().State())
	}
	if scene.State().Steps != 0 {
		t.Errorf("start frame ran %d fixed steps, expected 0", scene.State().Steps)
	}
	pendingHandle(t, m.refresher)
}

func TestModelFrameMsgAdvancesScene(t *testing.T) {
	m, scene := newTestPlayer(t, "bounce")
	m.Init()

	h := pendingHandle(t, m.refresher)
	_, cmd := m.Update(FrameMsg{Handle: h, Time: epoch.Add(25 * time.Millisecond)})

	if got := scene.State().Steps; got != 2 {
		t.Errorf("Steps = %d, expected 2", got)
	}
	if m.alpha != 0.5 {
		t.Errorf("alpha = %v, expected 0.5", m.alpha)
	}
	if cmd == nil {
		t.Error("Update(FrameMsg) should arm the next tick")
	}
	if m.Loop().FramesPerSecond() != 40 {
		t.Errorf("FramesPerSecond() = %v, expected 40", m.Loop().FramesPerSecond())
	}
}

func TestModelPauseStopsAndResumes(t *testing.T) {
	m, scene := newTestPlayer(t, "orbit")
	m.Init()
	stale := pendingHandle(t, m.refresher)

	m.Update(keyMsg("p"))
	if !m.Paused() {
		t.Fatal("p should pause")
	}
	if m.refresher.Pending() != 0 {
		t.Errorf("Pending() = %d while paused, expected 0", m.refresher.Pending())
	}
	if !strings.Contains(m.View(), "PAUSED") {
		t.Error("View() should show PAUSED")
	}

	// The tick armed before the pause is dropped
	m.Update(FrameMsg{Handle: stale, Time: epoch.Add(time.Second)})
	if scene.State().Steps != 0 {
		t.Errorf("stale frame advanced the scene to %d steps", scene.State().Steps)
	}

	_, cmd := m.Update(keyMsg("p"))
	if m.Paused() {
		t.Fatal("second p should resume")
	}
	if cmd == nil {
		t.Error("resume should arm a tick")
	}
	pendingHandle(t, m.refresher)
}

func TestModelInputReachesSceneOncePerFrame(t *testing.T) {
	m, _ := newTestPlayer(t, "bounce")
	m.Init()

	m.Update(keyMsg(" "))
	if !m.input.Has(core.ActionKick) {
		t.Fatal("space should queue a kick")
	}

	h := pendingHandle(t, m.refresher)
	m.Update(FrameMsg{Handle: h, Time: epoch.Add(10 * time.Millisecond)})
	if !m.input.Empty() {
		t.Errorf("input not drained by the frame: %v", m.input)
	}
}

func TestModelQuitStopsLoop(t *testing.T) {
	m, _ := newTestPlayer(t, "bounce")
	m.Init()

	m.Update(keyMsg("q"))
	if !m.IsQuitting() {
		t.Error("q should quit")
	}
	if m.Loop().State() != lifecycle.Stopped {
		t.Error("quit should stop the loop")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quit")
	}
}

func TestModelResize(t *testing.T) {
	m, _ := newTestPlayer(t, "bounce")
	m.Init()

	m.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	if m.screen.Width() != 60 || m.screen.Height() != 30-hudHeight {
		t.Errorf("screen = %dx%d, expected 60x%d", m.screen.Width(), m.screen.Height(), 30-hudHeight)
	}
}

func TestModelBackOnlyInMenu(t *testing.T) {
	m, _ := newTestPlayer(t, "bounce")
	m.Init()

	m.Update(keyMsg("b"))
	if m.BackToMenu() {
		t.Error("b should do nothing outside the menu")
	}

	m.cfg.InMenu = true
	m.Update(keyMsg("b"))
	if !m.BackToMenu() {
		t.Error("b should return to the menu")
	}
	if m.Loop().State() != lifecycle.Stopped {
		t.Error("leaving the player should stop the loop")
	}
}

func TestNewModelRejectsInvalidLoop(t *testing.T) {
	scene, _ := registry.Create("bounce", config.Default().Scenes)
	_, err := NewModel(scene, PlayerConfig{
		Loop:   config.LoopConfig{FixedDeltaMS: 10, MaximumDeltaMS: 5, RefreshRate: 60},
		Logger: log.New(io.Discard),
	})
	if err == nil {
		t.Error("maximum below fixed should fail")
	}
}

func TestStylesRenderScreen(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.SetCell(1, 0, '●', core.ColorCyan)

	out := NewStyles(nil).RenderScreen(s)
	if !strings.Contains(out, "●") {
		t.Errorf("RenderScreen() = %q, missing the cell", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("RenderScreen() should have 2 rows, got %q", out)
	}
}
