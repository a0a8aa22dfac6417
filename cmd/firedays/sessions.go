package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/firedays/internal/platform/tui"
	"github.com/vovakirdan/firedays/internal/storage"
)

var (
	flagBrowse bool
	flagLimit  int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recorded sessions",
	Long: `Print per-scene totals and the most recent runs.

With --browse, opens an interactive table instead.

Examples:
  firedays sessions
  firedays sessions --limit 20
  firedays sessions --browse`,
	Args: cobra.NoArgs,
	Run:  runSessions,
}

func init() {
	sessionsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse sessions interactively")
	sessionsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of recent sessions to print")
}

func runSessions(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagBrowse {
		width, height := 80, 24
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width, height = w, h
		}
		if _, err := tui.RunSessions(store, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			store.Close()
			os.Exit(1)
		}
		return
	}

	stats, err := store.AllSceneStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		store.Close()
		os.Exit(1)
	}

	if len(stats) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'firedays run' to record the first one!")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println("Scenes")
	fmt.Println()
	fmt.Printf("  %-12s  %-8s  %-10s  %-10s  %-6s  %s\n", "Scene", "Runs", "Time", "Frames", "Skips", "Last")
	fmt.Printf("  %-12s  %-8s  %-10s  %-10s  %-6s  %s\n", "-----", "----", "----", "------", "-----", "----")
	for _, id := range ids {
		st := stats[id]
		fmt.Printf("  %-12s  %-8d  %-10s  %-10d  %-6d  %s\n",
			st.SceneID, st.Sessions, st.TotalTime.String(), st.Frames, st.AudioSkips,
			st.LastPlayed.Format("2006-01-02 15:04"))
	}

	recent, err := store.RecentSessions(flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("Recent")
	fmt.Println()
	for _, r := range recent {
		fmt.Printf("  %s  %-12s  %-7s  %s  %d frames\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.SceneID, r.Backend, r.Duration, r.Frames)
	}
}
