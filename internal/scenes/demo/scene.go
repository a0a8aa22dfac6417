// Package demo is a scene that exercises the engine: nested canvases in
// both coordinate modes, pointer hit-testing, and synthesized sound on a
// music and an effects channel.
package demo

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/vovakirdan/firedays/internal/audio"
	"github.com/vovakirdan/firedays/internal/canvas"
	"github.com/vovakirdan/firedays/internal/engine"
	"github.com/vovakirdan/firedays/internal/geom"
	"github.com/vovakirdan/firedays/internal/registry"
)

// ID is the registry name of the scene.
const ID = "demo"

const (
	padColumns = 4
	padRows    = 2
	padCount   = padColumns * padRows

	fieldSize  = 100.0 // Field canvas units per side
	spriteSize = 16.0
	flashTime  = 150 * time.Millisecond
	volumeStep = 0.1
)

// Channel names.
const (
	ChannelMusic = "music"
	ChannelSFX   = "sfx"
)

var (
	colorBackground = color.RGBA{R: 0x1a, G: 0x12, B: 0x10, A: 0xff}
	colorPanel      = color.RGBA{R: 0x3b, G: 0x1d, B: 0x14, A: 0xff}
	colorPad        = color.RGBA{R: 0x8c, G: 0x2f, B: 0x10, A: 0xff}
	colorPadHover   = color.RGBA{R: 0xc8, G: 0x55, B: 0x16, A: 0xff}
	colorPadFlash   = color.RGBA{R: 0xff, G: 0xc8, B: 0x3c, A: 0xff}
	colorText       = color.RGBA{R: 0xf5, G: 0xe6, B: 0xd0, A: 0xff}
	colorDim        = color.RGBA{R: 0x80, G: 0x70, B: 0x60, A: 0xff}
	colorBar        = color.RGBA{R: 0xe0, G: 0x7a, B: 0x1f, A: 0xff}
)

func init() {
	registry.Register(ID, func() engine.Scene { return New() })
}

// Scene is the demo scene.
type Scene struct {
	core *engine.Core

	root  canvas.Canvas
	pad   canvas.Canvas // Relative, one grid cell per button
	frame canvas.Canvas // Relative box holding the field
	field canvas.Canvas // Absolute, fieldSize units square
	meter canvas.Canvas // Relative, one row per volume bar

	music *audio.Channel
	sfx   *audio.Channel
	notes [padCount]*audio.Clip
	chime *audio.Clip
	drone *audio.Clip

	droneID audio.SoundID
	hover   int
	flash   [padCount]time.Duration

	sprite canvas.Image
	pos    geom.Point
	vel    geom.Point
	spin   float64
	mouse  geom.Point
}

// New creates the scene. Nothing is built until Setup.
func New() *Scene {
	return &Scene{hover: -1}
}

// ID returns the scene identifier.
func (s *Scene) ID() string { return ID }

// Title returns the scene name.
func (s *Scene) Title() string { return "Fire Days engine demo" }

// Setup builds the canvas tree and the clips.
func (s *Scene) Setup(core *engine.Core) error {
	s.core = core
	s.root = core.Root()
	s.root.SetBackground(colorBackground)

	var err error
	if s.pad, err = s.root.Add(geom.NewRect(2, 4, 24, 12), true); err != nil {
		return err
	}
	if err := s.pad.SetGrid(padColumns, padRows); err != nil {
		return err
	}
	s.pad.SetBackground(colorPanel)

	if s.frame, err = s.root.Add(geom.NewRect(27, 4, 11, 12), true); err != nil {
		return err
	}
	s.frame.SetBackground(colorPanel)
	if s.field, err = s.frame.Add(geom.NewRect(0, 0, fieldSize, fieldSize), false); err != nil {
		return err
	}

	if s.meter, err = s.root.Add(geom.NewRect(8, 18, 30, 6), true); err != nil {
		return err
	}
	if err := s.meter.SetGrid(1, 3); err != nil {
		return err
	}
	s.meter.SetBackground(colorPanel)

	if err := s.loadSounds(); err != nil {
		return err
	}
	if err := s.loadSprite(); err != nil {
		return err
	}

	s.pos = geom.Pt(10, 20)
	s.vel = geom.Pt(37, 23)
	return nil
}

func (s *Scene) loadSounds() error {
	spec := s.core.AudioSpec()
	s.music = s.core.Channel(ChannelMusic)
	s.sfx = s.core.Channel(ChannelSFX)

	for i, freq := range padNotes {
		name := fmt.Sprintf("pad%d", i+1)
		clip, err := s.clip(name, func() (*audio.Clip, error) { return noteClip(spec, freq) })
		if err != nil {
			return err
		}
		s.notes[i] = clip
	}

	var err error
	if s.chime, err = s.clip("chime", func() (*audio.Clip, error) { return chimeClip(spec) }); err != nil {
		return err
	}
	if s.drone, err = s.clip("drone", func() (*audio.Clip, error) { return droneClip(spec) }); err != nil {
		return err
	}
	return nil
}

// clip loads name from the configured asset files when one is listed,
// otherwise synthesizes it.
func (s *Scene) clip(name string, synth func() (*audio.Clip, error)) (*audio.Clip, error) {
	assets := s.core.Config.Assets
	if file, ok := assets.Clips[name]; ok {
		return s.core.LoadClip(name, assets.Path(file))
	}
	clip, err := synth()
	if err != nil {
		return nil, fmt.Errorf("demo: synthesize %s: %w", name, err)
	}
	s.core.AddClip(name, clip)
	return clip, nil
}

func (s *Scene) loadSprite() error {
	assets := s.core.Config.Assets
	if assets.Sprite == "" {
		s.sprite = flameImage(int(spriteSize))
		return nil
	}
	img, err := s.core.LoadImage("sprite", assets.Path(assets.Sprite))
	if err != nil {
		return err
	}
	s.sprite = img
	return nil
}

// HandleEvent reacts to pointer and keyboard input.
func (s *Scene) HandleEvent(e engine.Event) bool {
	switch e.Kind {
	case engine.KindMouseMove:
		s.mouse = e.Pos()
		s.hover = s.padAt(e.Pos())
	case engine.KindMouseDown:
		s.mouse = e.Pos()
		if e.Button == engine.ButtonLeft {
			if i := s.padAt(e.Pos()); i >= 0 {
				s.trigger(i)
			}
		}
	case engine.KindMouseWheel:
		s.adjustMaster(e.WheelY * volumeStep / 2)
	case engine.KindKeyDown:
		return s.handleKey(e)
	case engine.KindResize:
		s.core.Log.Debug("resized", "width", e.Width, "height", e.Height)
	}
	return true
}

func (s *Scene) handleKey(e engine.Event) bool {
	switch e.Key {
	case "escape", "q":
		return false
	case "m":
		s.toggleDrone()
	case "up":
		s.sfx.SetVolume(s.sfx.Volume() + volumeStep)
	case "down":
		s.sfx.SetVolume(s.sfx.Volume() - volumeStep)
	case "right":
		s.music.SetVolume(s.music.Volume() + volumeStep)
	case "left":
		s.music.SetVolume(s.music.Volume() - volumeStep)
	case "+", "=":
		s.adjustMaster(volumeStep)
	case "-":
		s.adjustMaster(-volumeStep)
	default:
		if len(e.Key) == 1 && e.Key[0] >= '1' && e.Key[0] < '1'+padCount {
			s.trigger(int(e.Key[0] - '1'))
		}
	}
	return true
}

// padAt returns the pad button under a device point, or -1.
func (s *Scene) padAt(p geom.Point) int {
	if !s.pad.Hit(p) {
		return -1
	}
	col, row, _ := s.pad.Grid().CellAt(s.root.GetMouse(p))
	return row*padColumns + col
}

func (s *Scene) trigger(i int) {
	s.sfx.Play(s.notes[i], audio.PlayOnce)
	s.flash[i] = flashTime
}

func (s *Scene) toggleDrone() {
	s.sfx.Play(s.chime, audio.PlayOnce)
	if s.droneID != 0 && s.music.Stop(s.droneID) {
		s.droneID = 0
		return
	}
	s.droneID = s.music.Play(s.drone, audio.Loop)
}

func (s *Scene) adjustMaster(d float64) {
	if m := s.core.Mixer; m != nil {
		m.SetMasterVolume(m.MasterVolume() + d)
	}
}

// DroneOn reports whether the music loop is playing.
func (s *Scene) DroneOn() bool {
	return s.droneID != 0
}

// Update moves the sprite and fades button flashes.
func (s *Scene) Update(dt time.Duration) {
	sec := dt.Seconds()
	s.pos = s.pos.Add(s.vel.Scale(sec, sec))
	limit := fieldSize - spriteSize
	if s.pos.X < 0 || s.pos.X > limit {
		s.vel.X = -s.vel.X
		s.pos.X = geom.ClampF(s.pos.X, 0, limit)
	}
	if s.pos.Y < 0 || s.pos.Y > limit {
		s.vel.Y = -s.vel.Y
		s.pos.Y = geom.ClampF(s.pos.Y, 0, limit)
	}
	s.spin = math.Mod(s.spin+90*sec, 360)

	for i := range s.flash {
		s.flash[i] = max(0, s.flash[i]-dt)
	}
}

// Draw renders every panel.
func (s *Scene) Draw() {
	s.root.DrawText("FIRE DAYS", geom.Pt(2, 1), 2, colorText)

	s.drawPad()
	s.drawField()
	s.drawMeter()

	s.root.DrawText("1-8/click: play  m: drone  arrows: volume  +/-: master  q: quit", geom.Pt(2, 26), 1, colorDim)
	s.root.DrawPoint(s.root.GetMouse(s.mouse), colorText)
}

func (s *Scene) drawPad() {
	s.pad.Clear()
	for i := 0; i < padCount; i++ {
		col, row := float64(i%padColumns), float64(i/padColumns)
		fill := colorPad
		switch {
		case s.flash[i] > 0:
			fill = colorPadFlash
		case i == s.hover:
			fill = colorPadHover
		}
		button := geom.NewRect(col, row, 1, 1).Inset(0.08)
		s.pad.DrawRect(button, fill, true)
		s.pad.DrawRect(button, colorText, false)
		s.pad.DrawText(fmt.Sprint(i+1), geom.Pt(col+0.1, row+0.1), 0.25, colorText)
	}
}

func (s *Scene) drawField() {
	s.frame.Clear()
	for x := 20.0; x < fieldSize; x += 20 {
		s.field.DrawLine(geom.Pt(x, 0), geom.Pt(x, fieldSize), colorBackground)
		s.field.DrawLine(geom.Pt(0, x), geom.Pt(fieldSize, x), colorBackground)
	}
	flip := canvas.FlipNone
	if s.vel.X < 0 {
		flip = canvas.FlipHorizontal
	}
	s.field.DrawImage(s.sprite, geom.NewRect(0, 0, spriteSize, spriteSize).Offset(s.pos), s.spin, flip)
	s.field.DrawRect(geom.NewRect(0, 0, fieldSize, fieldSize), colorDim, false)
}

func (s *Scene) drawMeter() {
	s.meter.Clear()
	master := 0.0
	if m := s.core.Mixer; m != nil {
		master = m.MasterVolume()
	}
	levels := []struct {
		label string
		value float64
	}{
		{"master", master},
		{"music", s.music.Volume()},
		{"sfx", s.sfx.Volume()},
	}
	for row, l := range levels {
		y := float64(row)
		s.meter.DrawRect(geom.NewRect(0, y+0.2, l.value, 0.6), colorBar, true)
		s.meter.DrawRect(geom.NewRect(0, y+0.2, 1, 0.6), colorDim, false)
		s.root.DrawText(l.label, geom.Pt(2, 18.5+2*y), 1, colorText)
	}
}

// flameImage draws a small flame used when no sprite file is configured.
func flameImage(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - c) / c
			dy := (float64(y) + 0.5 - c) / c
			// Teardrop: narrower toward the top.
			width := 0.35 + 0.5*(dy+1)/2
			d := math.Hypot(dx/width, dy)
			if d > 1 {
				continue
			}
			heat := 1 - d
			img.SetNRGBA(x, y, color.NRGBA{
				R: 0xff,
				G: uint8(80 + 175*heat),
				B: uint8(40 * heat),
				A: 0xff,
			})
		}
	}
	return img
}
