// firedays runs engine scenes in a desktop window, a terminal or over SSH.
//
// Usage:
//
//	firedays list               - List available scenes
//	firedays run [scene]        - Run a scene in a window
//	firedays term [scene]       - Run scenes in the terminal
//	firedays serve              - Start SSH server for remote sessions
//	firedays sessions           - Show recorded sessions
//	firedays settings           - Show or reset stored settings
//
// Global flags:
//
//	--config <path>     - Engine config YAML (default: search path)
//	--db <path>         - Database path (default: ~/.firedays/firedays.db)
//	--log-level <lvl>   - Override the configured log level
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/firedays/internal/storage"

	// Import scenes to register them
	_ "github.com/vovakirdan/firedays/internal/scenes/demo"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "firedays",
	Short: "Fire Days - a small 2D engine with a dB-domain audio mixer",
	Long: `Fire Days runs scenes drawn through a tree of nested canvases and
mixes their audio in the decibel domain.

Available commands:
  list      - Show all registered scenes
  run       - Run a scene in a desktop window
  term      - Run scenes in the terminal
  serve     - Start SSH server for remote sessions
  sessions  - Show recorded sessions
  settings  - Show or reset stored settings

Examples:
  firedays list
  firedays run demo
  firedays term
  firedays serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to settings and sessions database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(termCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(settingsCmd)
}
