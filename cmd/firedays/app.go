package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/firedays/internal/audio"
	"github.com/vovakirdan/firedays/internal/audio/otodev"
	"github.com/vovakirdan/firedays/internal/config"
	"github.com/vovakirdan/firedays/internal/engine"
	"github.com/vovakirdan/firedays/internal/registry"
	"github.com/vovakirdan/firedays/internal/storage"
)

// app holds what every subcommand needs: the effective config, a logger
// and the optional store.
type app struct {
	cfg   config.Config
	log   *log.Logger
	store *storage.Store // Nil when the database cannot be opened
}

// newApp loads the config, applies stored settings on top of it and opens
// the database. Log output goes to w.
func newApp(w io.Writer) (*app, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	level, err := cfg.Log.ParseLevel()
	if err != nil {
		return nil, err
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "firedays",
		Level:           level,
	})

	a := &app{cfg: cfg, log: logger}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database", "error", err)
		// Continue without storage
		return a, nil
	}
	a.store = store

	settings, err := store.LoadSettings(a.settings())
	if err != nil {
		logger.Warn("could not load settings", "error", err)
		return a, nil
	}
	a.cfg.Audio.MasterVolume = settings.MasterVolume
	a.cfg.Window.Width = settings.WindowWidth
	a.cfg.Window.Height = settings.WindowHeight
	if err := a.cfg.Validate(); err != nil {
		logger.Warn("ignoring stored settings", "error", err)
		a.cfg = cfg
	}
	return a, nil
}

// settings returns the storable part of the current config.
func (a *app) settings() storage.Settings {
	return storage.Settings{
		MasterVolume: a.cfg.Audio.MasterVolume,
		WindowWidth:  a.cfg.Window.Width,
		WindowHeight: a.cfg.Window.Height,
	}
}

// volumeStore returns the store as an engine.VolumeStore, or nil.
func (a *app) volumeStore() engine.VolumeStore {
	if a.store == nil {
		return nil
	}
	return a.store
}

// openDevice opens the speaker. It is passed to backends that open a
// device per scene.
func (a *app) openDevice(spec audio.Spec) (audio.Device, error) {
	return otodev.Open(spec)
}

// newMixer opens the speaker and wraps it in a mixer. Audio problems
// only cost the sound: the result is nil and the scene runs silently.
func (a *app) newMixer() *audio.Mixer {
	if !a.cfg.Audio.Enabled {
		return nil
	}
	spec, err := a.cfg.Audio.Spec()
	if err != nil {
		a.log.Warn("audio disabled", "error", err)
		return nil
	}
	dev, err := a.openDevice(spec)
	if err != nil {
		a.log.Warn("audio disabled", "error", err)
		return nil
	}
	mixer, err := audio.NewMixer(dev, a.cfg.Audio.MasterVolume)
	if err != nil {
		dev.Close()
		a.log.Warn("audio disabled", "error", err)
		return nil
	}
	return mixer
}

// record stores the finished run and the master volume it ended with.
func (a *app) record(eng *engine.Engine, backend string) {
	st := eng.Stats()
	a.log.Info("session finished",
		"scene", eng.Scene().ID(),
		"backend", backend,
		"frames", st.Frames,
		"audio_skips", st.AudioSkips,
		"elapsed", st.Elapsed,
	)
	if a.store == nil {
		return
	}

	if _, err := a.store.SaveSession(storage.SessionRecord{
		SceneID:    eng.Scene().ID(),
		Backend:    backend,
		Frames:     st.Frames,
		AudioSkips: st.AudioSkips,
		Duration:   st.Elapsed,
	}); err != nil {
		a.log.Warn("could not save session", "error", err)
	}

	if mixer := eng.Core().Mixer; mixer != nil {
		a.cfg.Audio.MasterVolume = mixer.MasterVolume()
	}
	if err := a.store.SaveSettings(a.settings()); err != nil {
		a.log.Warn("could not save settings", "error", err)
	}
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
}

// checkScene exits with a hint when id is not registered.
func checkScene(id string) {
	if !registry.Exists(id) {
		fmt.Fprintf(os.Stderr, "Error: unknown scene %q\n", id)
		fmt.Fprintln(os.Stderr, "Run 'firedays list' to see available scenes.")
		os.Exit(1)
	}
}
