package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/firedays/internal/engine"
	"github.com/vovakirdan/firedays/internal/platform/tui"
)

var flagTermLog string

var termCmd = &cobra.Command{
	Use:   "term [scene]",
	Short: "Run scenes in the terminal",
	Long: `Run scenes in the terminal, one character cell per device unit.

Without a scene argument a picker lists every registered scene; ending a
scene returns to the picker. Audio still plays through the system output.
Logs go to a file since the terminal is in use.

Controls:
  Up/Down/j/k  - Navigate picker
  Enter        - Run scene
  Tab          - Session history
  Ctrl+S       - Save a text screenshot
  Ctrl+C       - Quit

Examples:
  firedays term
  firedays term demo`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTerm,
}

func init() {
	termCmd.Flags().StringVar(&flagTermLog, "log-file", "", "Log file (default: ~/.firedays/term.log)")
}

func runTerm(_ *cobra.Command, args []string) {
	sceneID := ""
	if len(args) == 1 {
		sceneID = args[0]
		checkScene(sceneID)
	}

	logFile, err := openTermLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	a, err := newApp(logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer a.close()

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	cfg := tui.SessionConfig{
		SceneID: sceneID,
		Engine:  a.cfg,
		Logger:  a.log,
		Backend: "term",
		Width:   width,
		Height:  height,
		Store:   a.volumeStore(),
		OnFinish: func(eng *engine.Engine) {
			a.record(eng, "term")
		},
	}
	if a.cfg.Audio.Enabled {
		cfg.Device = a.openDevice
	}
	if a.store != nil {
		cfg.Sessions = a.store
	}

	if _, err := tui.RunSession(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		a.close()
		os.Exit(1)
	}
}

func openTermLog() (*os.File, error) {
	path := flagTermLog
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".firedays", "term.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}
