package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/firedays/internal/config"
	"github.com/vovakirdan/firedays/internal/storage"
)

var (
	flagReset bool
	flagWrite string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or reset stored settings",
	Long: `Show the settings and channel volumes remembered between runs.

--reset forgets them; session history is kept.
--write saves the effective engine config as YAML, a starting point for
a custom --config file.

Examples:
  firedays settings
  firedays settings --reset
  firedays settings --write ~/.firedays/config.yaml`,
	Args: cobra.NoArgs,
	Run:  runSettings,
}

func init() {
	settingsCmd.Flags().BoolVar(&flagReset, "reset", false, "Forget stored settings and volumes")
	settingsCmd.Flags().StringVar(&flagWrite, "write", "", "Write the effective config to this path")
}

func runSettings(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagReset {
		if err := store.ResetSettings(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		fmt.Println("Stored settings cleared.")
		return
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}
	settings, err := store.LoadSettings(storage.Settings{
		MasterVolume: cfg.Audio.MasterVolume,
		WindowWidth:  cfg.Window.Width,
		WindowHeight: cfg.Window.Height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	if flagWrite != "" {
		cfg.Audio.MasterVolume = settings.MasterVolume
		cfg.Window.Width = settings.WindowWidth
		cfg.Window.Height = settings.WindowHeight
		if err := config.Write(flagWrite, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", flagWrite)
		return
	}

	fmt.Printf("Master volume:  %.0f%%\n", settings.MasterVolume*100)
	fmt.Printf("Window size:    %dx%d\n", settings.WindowWidth, settings.WindowHeight)

	volumes, err := store.ChannelVolumes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	if len(volumes) == 0 {
		return
	}

	names := make([]string, 0, len(volumes))
	for name := range volumes {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	fmt.Println("Channel volumes:")
	for _, name := range names {
		fmt.Printf("  %-10s  %.0f%%\n", name, volumes[name]*100)
	}
}
