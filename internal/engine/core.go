// Package engine drives a scene: it polls input, runs fixed-timestep
// updates, draws the canvas tree and feeds the audio mixer once per frame.
package engine

import (
	"fmt"
	"image"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/firedays/internal/assets"
	"github.com/vovakirdan/firedays/internal/audio"
	"github.com/vovakirdan/firedays/internal/canvas"
	"github.com/vovakirdan/firedays/internal/config"
	"github.com/vovakirdan/firedays/internal/geom"
)

// VolumeStore persists channel volumes between sessions.
type VolumeStore interface {
	ChannelVolume(name string) (float64, bool, error)
	SetChannelVolume(name string, v float64) error
}

// Core is the context handed to scenes. It owns the graphics device, the
// canvas tree rooted in the configured virtual space, the audio mixer and
// the named channels mixed each frame.
type Core struct {
	Graphics canvas.Graphics
	Tree     *canvas.Tree
	Mixer    *audio.Mixer // Nil when audio is disabled
	Log      *log.Logger
	Config   config.Config
	Store    VolumeStore // Optional

	spec     audio.Spec
	channels []*audio.Channel
	byName   map[string]*audio.Channel
	clips    map[string]*audio.Clip
	images   map[string]*image.NRGBA
}

// NewCore builds the root canvas over gfx using the configured virtual
// space. mixer may be nil to run silently.
func NewCore(gfx canvas.Graphics, mixer *audio.Mixer, cfg config.Config, logger *log.Logger) (*Core, error) {
	space := geom.NewRect(0, 0, cfg.Window.VirtualWidth, cfg.Window.VirtualHeight)
	tree, err := canvas.NewTree(gfx, space, false)
	if err != nil {
		return nil, fmt.Errorf("engine: cannot create root canvas: %w", err)
	}

	spec, err := cfg.Audio.Spec()
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	if mixer != nil {
		spec = mixer.Spec()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Core{
		Graphics: gfx,
		Tree:     tree,
		Mixer:    mixer,
		Log:      logger,
		Config:   cfg,
		spec:     spec,
		byName:   make(map[string]*audio.Channel),
		clips:    make(map[string]*audio.Clip),
		images:   make(map[string]*image.NRGBA),
	}, nil
}

// Root returns the root canvas.
func (c *Core) Root() canvas.Canvas {
	return c.Tree.Root()
}

// AudioSpec returns the format clips must be converted to: the negotiated
// device spec, or the configured one when audio is disabled.
func (c *Core) AudioSpec() audio.Spec {
	return c.spec
}

// Channel returns the named channel, creating it on first use. A new
// channel picks up its stored volume.
func (c *Core) Channel(name string) *audio.Channel {
	if ch, ok := c.byName[name]; ok {
		return ch
	}
	ch := audio.NewChannel(name)
	if c.Store != nil {
		v, ok, err := c.Store.ChannelVolume(name)
		switch {
		case err != nil:
			c.Log.Warn("cannot load channel volume", "channel", name, "err", err)
		case ok:
			ch.SetVolume(v)
		}
	}
	c.byName[name] = ch
	c.channels = append(c.channels, ch)
	return ch
}

// Channels returns the channels in creation order, which is mix order.
func (c *Core) Channels() []*audio.Channel {
	return c.channels
}

// LoadClip loads a WAV file once and caches it under name.
func (c *Core) LoadClip(name, path string) (*audio.Clip, error) {
	if clip, ok := c.clips[name]; ok {
		return clip, nil
	}
	clip, err := audio.LoadClip(path, c.spec)
	if err != nil {
		return nil, err
	}
	c.clips[name] = clip
	c.Log.Debug("clip loaded", "name", name, "path", path, "duration", clip.Duration())
	return clip, nil
}

// AddClip caches a clip built elsewhere, such as a synthesized tone.
func (c *Core) AddClip(name string, clip *audio.Clip) {
	c.clips[name] = clip
}

// Clip returns a cached clip.
func (c *Core) Clip(name string) (*audio.Clip, bool) {
	clip, ok := c.clips[name]
	return clip, ok
}

// LoadImage loads an image file once and caches it under name, applying
// the configured color key.
func (c *Core) LoadImage(name, path string) (*image.NRGBA, error) {
	if img, ok := c.images[name]; ok {
		return img, nil
	}
	key, ok, err := c.Config.Assets.Key()
	if err != nil {
		return nil, err
	}
	var img *image.NRGBA
	if ok {
		img, err = assets.LoadImage(path, key)
	} else {
		img, err = assets.LoadImage(path, nil)
	}
	if err != nil {
		return nil, err
	}
	c.images[name] = img
	return img, nil
}

// SaveVolumes writes every channel volume to the store.
func (c *Core) SaveVolumes() error {
	if c.Store == nil {
		return nil
	}
	for _, ch := range c.channels {
		if err := c.Store.SetChannelVolume(ch.Name(), ch.Volume()); err != nil {
			return err
		}
	}
	return nil
}
