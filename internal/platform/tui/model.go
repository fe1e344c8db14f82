package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/frameloop/internal/config"
	"github.com/vovakirdan/frameloop/internal/core"
	"github.com/vovakirdan/frameloop/internal/lifecycle"
	"github.com/vovakirdan/frameloop/internal/loop"
	"github.com/vovakirdan/frameloop/internal/registry"
)

// hudHeight is the number of rows below the scene: status and help.
const hudHeight = 2

// PlayerConfig configures a scene player.
type PlayerConfig struct {
	Loop    config.LoopConfig
	Runtime core.RuntimeConfig

	// Clock defaults to core.SystemClock. FrameMsg timestamps must come from
	// the same time base.
	Clock  core.Clock
	Logger *log.Logger

	// Styles defaults to NewStyles(nil).
	Styles *Styles

	// InMenu enables the Back binding, returning control to the menu.
	InMenu bool
}

// Model plays one scene on a fixed-step loop. Pause stops the loop, which
// cancels its pending refresh; resume starts it again from a fresh baseline.
type Model struct {
	scene     registry.Scene
	loop      *loop.Loop
	refresher *TeaRefresher
	screen    *core.Screen
	input     core.InputFrame
	cfg       PlayerConfig
	keys      PlayerKeyMap
	help      help.Model
	logger    *log.Logger

	alpha      float64
	err        error
	quitting   bool
	backToMenu bool
}

// NewModel creates a player for scene. The loop is built but not started.
func NewModel(scene registry.Scene, cfg PlayerConfig) (*Model, error) {
	if cfg.Runtime.Seed == 0 {
		cfg.Runtime.Seed = time.Now().UnixNano()
	}
	cfg.Runtime.FixedDelta = cfg.Loop.FixedDelta()
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Styles == nil {
		cfg.Styles = NewStyles(nil)
	}

	m := &Model{
		scene:     scene,
		refresher: NewTeaRefresher(cfg.Loop.RefreshRate),
		screen:    core.NewScreen(cfg.Runtime.ScreenW, max(cfg.Runtime.ScreenH-hudHeight, 0)),
		input:     core.NewInputFrame(),
		cfg:       cfg,
		keys:      DefaultPlayerKeyMap(),
		help:      help.New(),
		logger:    cfg.Logger,
	}
	m.help.Width = cfg.Runtime.ScreenW

	binding := registry.Binding{
		Scene:       scene,
		Screen:      m.screen,
		Input:       m.drainInput,
		AfterRender: func(alpha float64) { m.alpha = alpha },
	}
	l, err := loop.New(binding.Options(loop.Options{
		FixedDeltaTime:   cfg.Loop.FixedDelta(),
		MaximumDeltaTime: cfg.Loop.MaximumDelta(),
		Refresher:        m.refresher,
		Clock:            cfg.Clock,
		Logger:           cfg.Logger,
	}))
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	m.loop = l
	return m, nil
}

func (m *Model) drainInput() core.InputFrame {
	in := m.input
	m.input.Clear()
	return in
}

// Init resets the scene and starts the loop.
func (m *Model) Init() tea.Cmd {
	m.scene.Reset(m.runtime())
	if err := m.loop.Start(); err != nil {
		m.err = err
		return tea.Quit
	}
	return m.refresher.Cmd()
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		m.refresher.Dispatch(msg)
		return m, m.refresher.Cmd()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.cfg.InMenu && key.Matches(msg, m.keys.Back) {
		m.stopLoop()
		m.backToMenu = true
		return m, nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionQuit:
		m.stopLoop()
		m.quitting = true
		return m, tea.Quit

	case core.ActionPause:
		return m, m.TogglePause()

	case core.ActionNone:
		return m, nil

	case core.ActionRestart:
		// A stopped loop runs no Update; apply restarts right away
		if m.Paused() {
			m.scene.Reset(m.runtime())
			m.redraw()
			return m, nil
		}
	}

	m.input.Set(action)
	return m, nil
}

// TogglePause stops a running loop or starts a stopped one. Returns the
// command arming the first tick after a resume.
func (m *Model) TogglePause() tea.Cmd {
	if m.loop.State() == lifecycle.Running {
		if err := m.loop.Stop(); err != nil {
			m.logger.Warn("pause failed", "error", err)
		}
		return nil
	}
	if err := m.loop.Start(); err != nil {
		m.logger.Warn("resume failed", "error", err)
		return nil
	}
	return m.refresher.Cmd()
}

func (m *Model) stopLoop() {
	if m.loop.State() == lifecycle.Running {
		//nolint:errcheck // Running was just checked
		m.loop.Stop()
	}
}

// handleResize resizes the screen and resets the scene for the new arena.
func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.cfg.Runtime.ScreenW = msg.Width
	m.cfg.Runtime.ScreenH = msg.Height
	m.screen.Resize(msg.Width, max(msg.Height-hudHeight, 0))
	m.help.Width = msg.Width

	m.scene.Reset(m.runtime())
	if m.Paused() {
		m.redraw()
	}
	return m, nil
}

// redraw renders the scene outside the loop, used while paused.
func (m *Model) redraw() {
	m.screen.Clear()
	m.scene.Render(m.screen, m.alpha)
}

func (m *Model) runtime() core.RuntimeConfig {
	rc := m.cfg.Runtime
	rc.ScreenH = max(rc.ScreenH-hudHeight, 0)
	return rc
}

// View renders the scene and the HUD.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.cfg.Styles.RenderScreen(m.screen))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) statusLine() string {
	st := m.scene.State()
	status := m.cfg.Styles.HUD.Render(fmt.Sprintf(
		"  %5.1f fps  α %.3f  steps %d  sim %s",
		m.loop.FramesPerSecond(), m.alpha, st.Steps, st.SimTime.Truncate(time.Millisecond),
	))
	line := m.cfg.Styles.Title.Render(m.scene.Title()) + status
	if m.Paused() {
		line += "  " + m.cfg.Styles.Paused.Render("PAUSED")
	}
	return line
}

// Paused reports whether the loop is stopped.
func (m *Model) Paused() bool {
	return m.loop.State() == lifecycle.Stopped
}

// Loop returns the underlying scheduler.
func (m *Model) Loop() *loop.Loop {
	return m.loop
}

// Err returns the error that ended the player, if any.
func (m *Model) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit entirely.
func (m *Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m *Model) BackToMenu() bool {
	return m.backToMenu
}

// Run plays scene in the terminal until the user quits.
func Run(scene registry.Scene, cfg PlayerConfig) error {
	model, err := NewModel(scene, cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		return err
	}
	return model.Err()
}
