package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/firedays/internal/engine"
	"github.com/vovakirdan/firedays/internal/platform/window"
	"github.com/vovakirdan/firedays/internal/registry"
)

var runCmd = &cobra.Command{
	Use:   "run [scene]",
	Short: "Run a scene in a desktop window",
	Long: `Open a window and run the given scene (default: demo).

The window size and master volume are restored from the database and
saved again when the scene ends. Audio plays through the system output;
if no device is available the scene runs silently.

Examples:
  firedays run
  firedays run demo --config ./my-engine.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runWindow,
}

func runWindow(_ *cobra.Command, args []string) {
	sceneID := "demo"
	if len(args) == 1 {
		sceneID = args[0]
	}
	checkScene(sceneID)

	a, err := newApp(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	if err := playWindow(a, sceneID); err != nil {
		a.log.Error("run failed", "scene", sceneID, "error", err)
		a.close()
		os.Exit(1)
	}
}

func playWindow(a *app, sceneID string) error {
	gfx := window.NewGraphics(a.cfg.Window.Width, a.cfg.Window.Height)
	mixer := a.newMixer()
	if mixer != nil {
		//nolint:errcheck // Best-effort close on exit
		defer mixer.Close()
	}

	core, err := engine.NewCore(gfx, mixer, a.cfg, a.log)
	if err != nil {
		return err
	}
	core.Store = a.volumeStore()

	scene, err := registry.Create(sceneID)
	if err != nil {
		return err
	}

	loop := a.cfg.Loop
	eng, err := engine.New(core, scene, nil, engine.Options{
		TickRate:   loop.TickRate,
		FrameRate:  loop.FrameRate,
		MaxCatchUp: loop.MaxCatchUp,
		LatencyMS:  a.cfg.Audio.LatencyMS,
	})
	if err != nil {
		return err
	}

	runErr := window.Run(window.NewGame(eng, gfx), a.cfg)

	if err := core.SaveVolumes(); err != nil {
		a.log.Warn("could not save volumes", "error", err)
	}
	a.record(eng, "window")
	return runErr
}
