package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/registry"
	"github.com/vovakirdan/frameloop/internal/storage"
)

// SessionModel manages the full session flow: menu -> player -> menu.
// It is the top-level model of SSH sessions and of `play` without a scene.
type SessionModel struct {
	cfg      config.Config
	runtime  core.RuntimeConfig
	store    *storage.Store
	logger   *log.Logger
	styles   *Styles
	menu     MenuModel
	player   *Model
	quitting bool
}

// NewSessionModel creates a session starting at the menu. store and styles
// may be nil.
func NewSessionModel(cfg config.Config, rc core.RuntimeConfig, store *storage.Store, styles *Styles, logger *log.Logger) SessionModel {
	if styles == nil {
		styles = NewStyles(nil)
	}
	return SessionModel{
		cfg:     cfg,
		runtime: rc,
		store:   store,
		logger:  logger,
		styles:  styles,
		menu:    NewMenuModel(store, styles, rc.ScreenW, rc.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW = wsm.Width
		m.runtime.ScreenH = wsm.Height
	}

	if m.player != nil {
		return m.updatePlayer(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Frames of a player that already went back to the menu
	if _, ok := msg.(FrameMsg); ok {
		return m, nil
	}

	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	selected := m.menu.Selected()
	if selected == nil {
		return m, cmd
	}

	scene, err := registry.Create(selected.SceneID, m.cfg.Scenes)
	if err != nil {
		// Shouldn't happen since menu only shows registered scenes
		m.logger.Error("cannot create scene", "scene", selected.SceneID, "error", err)
		m.menu = NewMenuModel(m.store, m.styles, m.runtime.ScreenW, m.runtime.ScreenH)
		return m, nil
	}

	player, err := NewModel(scene, PlayerConfig{
		Loop:    m.cfg.Loop,
		Runtime: m.runtime,
		Logger:  m.logger,
		Styles:  m.styles,
		InMenu:  true,
	})
	if err != nil {
		m.logger.Error("cannot create player", "scene", selected.SceneID, "error", err)
		m.menu = NewMenuModel(m.store, m.styles, m.runtime.ScreenW, m.runtime.ScreenH)
		return m, nil
	}

	m.player = player
	return m, m.player.Init()
}

// updatePlayer handles updates when a scene is playing.
func (m SessionModel) updatePlayer(msg tea.Msg) (tea.Model, tea.Cmd) {
	_, cmd := m.player.Update(msg)

	if m.player.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.player.BackToMenu() {
		m.player = nil
		m.menu = NewMenuModel(m.store, m.styles, m.runtime.ScreenW, m.runtime.ScreenH)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.player != nil {
		return m.player.View()
	}
	return m.menu.View()
}

// Playing returns the active player, or nil while in the menu.
func (m SessionModel) Playing() *Model {
	return m.player
}

// RunSession runs the menu and player in the local terminal.
func RunSession(cfg config.Config, rc core.RuntimeConfig, store *storage.Store, logger *log.Logger) error {
	p := tea.NewProgram(
		NewSessionModel(cfg, rc, store, nil, logger),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
