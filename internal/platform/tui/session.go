package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/firedays/internal/audio"
	"github.com/vovakirdan/firedays/internal/config"
	"github.com/vovakirdan/firedays/internal/engine"
)

// SessionConfig describes a picker session: menu, history and scenes in
// one program.
type SessionConfig struct {
	SceneID  string // Run this scene directly and end with it
	Engine   config.Config
	Logger   *log.Logger
	Backend  string
	Width    int
	Height   int
	Store    engine.VolumeStore
	Sessions SessionSource

	// Device opens the audio device for each scene. Nil runs silently.
	Device func(spec audio.Spec) (audio.Device, error)

	// OnFinish is called with the engine of every scene that ran.
	OnFinish func(eng *engine.Engine)
}

type sessionMode int

const (
	modeMenu sessionMode = iota
	modeSessions
	modeScene
)

// SessionModel manages the flow menu -> scene -> menu. It is the
// top-level model for SSH connections.
type SessionModel struct {
	cfg      SessionConfig
	mode     sessionMode
	menu     MenuModel
	history  SessionsModel
	scene    Model
	quitKey  key.Binding
	quitting bool
	err      error
}

// NewSessionModel creates a new session model.
func NewSessionModel(cfg SessionConfig) SessionModel {
	return SessionModel{
		cfg:     cfg,
		menu:    NewMenuModel(cfg.Width, cfg.Height),
		quitKey: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// Init starts the menu, or the configured scene.
func (m SessionModel) Init() tea.Cmd {
	if m.cfg.SceneID != "" {
		return func() tea.Msg { return startSceneMsg(m.cfg.SceneID) }
	}
	return m.menu.Init()
}

type startSceneMsg string

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cfg.Width, m.cfg.Height = msg.Width, msg.Height
	case tea.KeyMsg:
		if key.Matches(msg, m.quitKey) {
			m.endScene()
			m.quitting = true
			return m, tea.Quit
		}
	case startSceneMsg:
		return m.startScene(string(msg))
	}

	switch m.mode {
	case modeScene:
		return m.updateScene(msg)
	case modeSessions:
		return m.updateSessions(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if menu, ok := next.(MenuModel); ok {
		m.menu = menu
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.menu.WantsStats():
		m.mode = modeSessions
		m.history = NewSessionsModel(m.cfg.Sessions, m.cfg.Width, m.cfg.Height)
		m.menu = NewMenuModel(m.cfg.Width, m.cfg.Height)
		return m, m.history.Init()
	case m.menu.Selected() != "":
		id := m.menu.Selected()
		m.menu = NewMenuModel(m.cfg.Width, m.cfg.Height)
		return m.startScene(id)
	}

	// The menu quits its own program; inside a session that is a no-op
	return m, dropQuit(cmd)
}

func (m SessionModel) updateSessions(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.history.Update(msg)
	if h, ok := next.(SessionsModel); ok {
		m.history = h
	}
	switch {
	case m.history.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.history.IsGoingBack():
		m.mode = modeMenu
		return m, nil
	}
	return m, dropQuit(cmd)
}

func (m SessionModel) startScene(id string) (tea.Model, tea.Cmd) {
	var dev audio.Device
	if m.cfg.Device != nil && m.cfg.Engine.Audio.Enabled {
		spec, err := m.cfg.Engine.Audio.Spec()
		if err == nil {
			dev, err = m.cfg.Device(spec)
		}
		if err != nil {
			m.logger().Warn("audio disabled", "scene", id, "error", err)
			dev = nil
		}
	}

	scene, err := NewSceneModel(SceneOptions{
		SceneID: id,
		Config:  m.cfg.Engine,
		Device:  dev,
		Store:   m.cfg.Store,
		Logger:  m.logger(),
		Width:   m.cfg.Width,
		Height:  m.cfg.Height,
	})
	if err != nil {
		if dev != nil {
			dev.Close()
		}
		m.err = err
		m.logger().Error("cannot start scene", "scene", id, "error", err)
		if m.cfg.SceneID != "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.mode = modeMenu
		return m, nil
	}

	m.scene = scene
	m.mode = modeScene
	return m, m.scene.Init()
}

func (m SessionModel) updateScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scene.Update(msg)
	if s, ok := next.(Model); ok {
		m.scene = s
	}
	if !m.scene.Finished() {
		return m, cmd
	}

	m.err = m.scene.Err()
	m.endScene()
	if m.cfg.SceneID != "" {
		m.quitting = true
		return m, tea.Quit
	}
	m.mode = modeMenu
	return m, nil
}

// endScene persists channel volumes, reports the running scene and
// releases its audio device.
func (m *SessionModel) endScene() {
	if m.mode != modeScene {
		return
	}
	eng := m.scene.Engine()
	if err := eng.Core().SaveVolumes(); err != nil {
		m.logger().Warn("could not save volumes", "error", err)
	}
	if m.cfg.OnFinish != nil {
		m.cfg.OnFinish(eng)
	}
	if mixer := eng.Core().Mixer; mixer != nil {
		//nolint:errcheck // Best-effort close, the scene is over
		mixer.Close()
	}
	m.mode = modeMenu
}

func (m SessionModel) logger() *log.Logger {
	if m.cfg.Logger == nil {
		return log.Default()
	}
	return m.cfg.Logger
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.mode {
	case modeScene:
		return m.scene.View()
	case modeSessions:
		return m.history.View()
	default:
		return m.menu.View()
	}
}

// Err returns the error of the last scene, if any.
func (m SessionModel) Err() error {
	return m.err
}

// dropQuit runs cmd but swallows a tea.Quit it produces.
func dropQuit(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() tea.Msg {
		msg := cmd()
		if _, ok := msg.(tea.QuitMsg); ok {
			return nil
		}
		return msg
	}
}

// RunSession runs a full picker session in the local terminal.
func RunSession(cfg SessionConfig) (SessionModel, error) {
	model := NewSessionModel(cfg)
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return model, err
	}
	if m, ok := finalModel.(SessionModel); ok {
		return m, m.Err()
	}
	return model, nil
}
