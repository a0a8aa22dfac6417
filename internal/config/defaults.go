package config

import (
	_ "embed"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

// Default returns the built-in configuration. It matches defaults/engine.yaml.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:         "Fire Days",
			Width:         960,
			Height:        720,
			VirtualWidth:  40,
			VirtualHeight: 30,
			Resizable:     true,
		},
		Audio: AudioConfig{
			Enabled:      true,
			SampleRate:   44100,
			Channels:     2,
			ChunkFrames:  1024,
			Format:       "s16",
			LatencyMS:    60,
			MasterVolume: 0.8,
		},
		Loop: LoopConfig{
			TickRate:   60,
			FrameRate:  60,
			MaxCatchUp: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
		Assets: AssetsConfig{
			Dir:      "assets",
			ColorKey: "#ff00ff",
		},
	}
}
