package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/firedays/internal/audio"
	"github.com/vovakirdan/firedays/internal/config"
	"github.com/vovakirdan/firedays/internal/engine"
	"github.com/vovakirdan/firedays/internal/registry"
)

// statusHeight is the number of rows below the scene for the status line.
const statusHeight = 1

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// SceneOptions describe one terminal run of a scene.
type SceneOptions struct {
	SceneID string
	Config  config.Config
	Device  audio.Device // Nil runs without audio
	Store   engine.VolumeStore
	Logger  *log.Logger
	Width   int // Terminal size including the status line
	Height  int
}

// NewSceneModel builds the graphics device, mixer, core and engine for a
// scene and wraps them in a Model.
func NewSceneModel(opts SceneOptions) (Model, error) {
	gfx := NewCellGraphics(opts.Width, opts.Height-statusHeight)

	var mixer *audio.Mixer
	if opts.Device != nil {
		m, err := audio.NewMixer(opts.Device, opts.Config.Audio.MasterVolume)
		if err != nil {
			return Model{}, err
		}
		mixer = m
	}

	core, err := engine.NewCore(gfx, mixer, opts.Config, opts.Logger)
	if err != nil {
		return Model{}, err
	}
	core.Store = opts.Store

	scene, err := registry.Create(opts.SceneID)
	if err != nil {
		return Model{}, err
	}

	loop := opts.Config.Loop
	eng, err := engine.New(core, scene, nil, engine.Options{
		TickRate:   loop.TickRate,
		FrameRate:  loop.FrameRate,
		MaxCatchUp: loop.MaxCatchUp,
		LatencyMS:  opts.Config.Audio.LatencyMS,
	})
	if err != nil {
		return Model{}, err
	}

	m := NewModel(eng, gfx, loop.FrameRate)
	m.width, m.height = opts.Width, opts.Height
	return m, nil
}

// Model is the Bubble Tea model running one engine inside a SessionModel.
// Each tick runs a full engine frame with the events queued since the last one.
type Model struct {
	eng   *engine.Engine
	gfx   *CellGraphics
	queue *engine.Queue
	keys  KeyMap
	help  help.Model
	rate  int

	width    int
	height   int
	finished bool
	err      error
}

// NewModel creates a model driving eng at rate frames per second.
func NewModel(eng *engine.Engine, gfx *CellGraphics, rate int) Model {
	return Model{
		eng:   eng,
		gfx:   gfx,
		queue: &engine.Queue{},
		keys:  DefaultKeyMap(),
		help:  help.New(),
		rate:  rate,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.rate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.finished {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.queue.Push(engine.Event{Kind: engine.KindQuit})
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Screenshot):
			m.saveScreenshot()
		default:
			m.queue.Push(KeyEvents(msg)...)
		}

	case tea.MouseMsg:
		m.queue.Push(MouseEvents(msg)...)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.gfx.Resize(msg.Width, msg.Height-statusHeight)
		m.queue.Push(engine.Event{Kind: engine.KindResize, Width: msg.Width, Height: msg.Height - statusHeight})

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	running, err := m.eng.Frame(m.queue.Poll())
	if err != nil {
		m.err = err
		m.eng.Core().Log.Error("frame failed", "scene", m.eng.Scene().ID(), "error", err)
	}
	if err != nil || !running {
		// The tick chain stops here; the owner checks Finished
		m.finished = true
		return m, nil
	}
	return m, tickCmd(m.rate)
}

// saveScreenshot writes the current frame as plain text.
func (m Model) saveScreenshot() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".firedays", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.eng.Scene().ID(), timestamp))

	if err := os.WriteFile(path, []byte(m.gfx.Screen().String()), 0o600); err != nil {
		m.eng.Core().Log.Warn("screenshot failed", "error", err)
		return
	}
	m.eng.Core().Log.Info("screenshot saved", "path", path)
}

// View renders the last presented frame and the status line.
func (m Model) View() string {
	if m.finished {
		return ""
	}
	return m.gfx.Frame() + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	st := m.eng.Stats()
	info := fmt.Sprintf(" %s  frames %d", m.eng.Scene().Title(), st.Frames)
	if mixer := m.eng.Core().Mixer; mixer != nil {
		info += fmt.Sprintf("  master %.0f%%", mixer.MasterVolume()*100)
	}
	if st.AudioSkips > 0 {
		info += fmt.Sprintf("  audio skips %d", st.AudioSkips)
	}
	return statusStyle.Render(info + "  " + m.help.View(m.keys))
}

// Engine returns the engine driven by the model.
func (m Model) Engine() *engine.Engine {
	return m.eng
}

// Finished reports whether the scene has ended.
func (m Model) Finished() bool {
	return m.finished
}

// Err returns the error that ended the scene, if any.
func (m Model) Err() error {
	return m.err
}
