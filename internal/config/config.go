// Package config provides YAML-based engine configuration: window and
// virtual space, audio device format, loop rates, logging and asset paths.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/firedays/internal/audio"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Config contains all engine configuration.
type Config struct {
	Window WindowConfig `yaml:"window"`
	Audio  AudioConfig  `yaml:"audio"`
	Loop   LoopConfig   `yaml:"loop"`
	Log    LogConfig    `yaml:"log"`
	Assets AssetsConfig `yaml:"assets"`
}

// WindowConfig defines the device surface and the root canvas space.
type WindowConfig struct {
	Title         string  `yaml:"title"`
	Width         int     `yaml:"width"`          // Device pixels
	Height        int     `yaml:"height"`         // Device pixels
	VirtualWidth  float64 `yaml:"virtual_width"`  // Root canvas units
	VirtualHeight float64 `yaml:"virtual_height"` // Root canvas units
	Resizable     bool    `yaml:"resizable"`
}

// AudioConfig defines the requested device format and mixer behavior.
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	SampleRate   int     `yaml:"sample_rate"`
	Channels     int     `yaml:"channels"`
	ChunkFrames  int     `yaml:"chunk_frames"` // Frames per device chunk
	Format       string  `yaml:"format"`       // s16 or f32
	LatencyMS    int     `yaml:"latency_ms"`   // Target queued audio per frame
	MasterVolume float64 `yaml:"master_volume"`
}

// LoopConfig defines the fixed update rate and the presentation rate.
type LoopConfig struct {
	TickRate   int `yaml:"tick_rate"`    // Fixed updates per second
	FrameRate  int `yaml:"frame_rate"`   // Frames per second when the engine drives timing
	MaxCatchUp int `yaml:"max_catch_up"` // Max updates run in a single frame
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn or error
}

// AssetsConfig locates optional files scenes load at setup.
type AssetsConfig struct {
	Dir      string            `yaml:"dir"`
	Sprite   string            `yaml:"sprite"`    // Image file for the demo sprite
	ColorKey string            `yaml:"color_key"` // #rrggbb made transparent in images
	Clips    map[string]string `yaml:"clips"`     // Clip name to WAV file
}

// Path resolves an asset file against Dir.
func (a AssetsConfig) Path(file string) string {
	if file == "" || filepath.IsAbs(file) || a.Dir == "" {
		return file
	}
	return filepath.Join(a.Dir, file)
}

// Key parses ColorKey. ok is false when no key is configured.
func (a AssetsConfig) Key() (key color.RGBA, ok bool, err error) {
	if a.ColorKey == "" {
		return key, false, nil
	}
	var r, g, b uint8
	if n, err := fmt.Sscanf(a.ColorKey, "#%02x%02x%02x", &r, &g, &b); err != nil || n != 3 || len(a.ColorKey) != 7 {
		return key, false, fmt.Errorf("%w: color key %q", ErrInvalid, a.ColorKey)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true, nil
}

// Spec returns the audio device spec to request.
func (a AudioConfig) Spec() (audio.Spec, error) {
	format, err := audio.ParseSampleFormat(a.Format)
	if err != nil {
		return audio.Spec{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return audio.Spec{
		SampleRate: a.SampleRate,
		Channels:   a.Channels,
		Samples:    a.ChunkFrames,
		Format:     format,
	}, nil
}

// ParseLevel returns the parsed log level.
func (l LogConfig) ParseLevel() (log.Level, error) {
	if l.Level == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(strings.ToLower(l.Level))
	if err != nil {
		return log.InfoLevel, fmt.Errorf("%w: log level %q", ErrInvalid, l.Level)
	}
	return lvl, nil
}

// Validate checks every section and returns the first problem found.
func (c Config) Validate() error {
	w := c.Window
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, w.Width, w.Height)
	}
	if w.VirtualWidth <= 0 || w.VirtualHeight <= 0 {
		return fmt.Errorf("%w: virtual space %gx%g", ErrInvalid, w.VirtualWidth, w.VirtualHeight)
	}

	a := c.Audio
	if a.SampleRate <= 0 || a.Channels <= 0 || a.ChunkFrames <= 0 {
		return fmt.Errorf("%w: audio %d Hz, %d channels, %d-frame chunks", ErrInvalid, a.SampleRate, a.Channels, a.ChunkFrames)
	}
	if _, err := a.Spec(); err != nil {
		return err
	}
	if a.LatencyMS < 0 {
		return fmt.Errorf("%w: audio latency %d ms", ErrInvalid, a.LatencyMS)
	}
	if a.MasterVolume < 0 || a.MasterVolume > 1 {
		return fmt.Errorf("%w: master volume %g outside [0, 1]", ErrInvalid, a.MasterVolume)
	}

	l := c.Loop
	if l.TickRate <= 0 || l.FrameRate <= 0 || l.MaxCatchUp <= 0 {
		return fmt.Errorf("%w: loop tick %d, frame %d, catch-up %d", ErrInvalid, l.TickRate, l.FrameRate, l.MaxCatchUp)
	}

	if _, err := c.Log.ParseLevel(); err != nil {
		return err
	}
	if _, _, err := c.Assets.Key(); err != nil {
		return err
	}
	return nil
}
