package cmd

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	tinyerror "github.com/msto63/tiny/foundation/core/error"
	"github.com/msto63/tiny/foundation/tiny"
	"github.com/msto63/tiny/internal/history"
)

var (
	historyStatus    string
	historySource    string
	historyLimit     int
	historySince     time.Duration
	historyOlderThan time.Duration
	historyVacuum    bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Zeigt die gespeicherten Parse-Läufe",
	Long: `Zeigt die in der History-Datenbank gespeicherten Parse-Läufe, neueste zuerst.

Beispiele:
  tiny history --status rejected
  tiny history --source factorial --limit 5
  tiny history show <run-id>
  tiny history stats
  tiny history prune --older-than 168h`,
	Args: cobra.NoArgs,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Zeigt einen einzelnen Lauf",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Zeigt eine Zusammenfassung aller Läufe",
	Args:  cobra.NoArgs,
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Löscht alte Läufe",
	Args:  cobra.NoArgs,
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyShowCmd, historyStatsCmd, historyPruneCmd)

	historyCmd.Flags().StringVar(&historyStatus, "status", "", "Nur Läufe mit diesem Status (accepted, rejected, terminated, failed)")
	historyCmd.Flags().StringVar(&historySource, "source", "", "Nur Quellen, die diesen Text enthalten")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximale Anzahl Läufe")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "Nur Läufe der letzten Zeitspanne (z.B. 24h)")

	historyPruneCmd.Flags().DurationVar(&historyOlderThan, "older-than", 0, "Läufe älter als diese Zeitspanne löschen (default: history.retention_days)")
	historyPruneCmd.Flags().BoolVar(&historyVacuum, "vacuum", false, "Datenbank danach verkleinern")
}

// requireHistory opens the store or fails when the history is disabled
func requireHistory() (*history.Store, error) {
	if !appConfig.History.Enabled {
		return nil, tinyerror.New("history is disabled (history.enabled = false)").
			WithCode(tinyerror.CodeConfigError)
	}
	return history.Open(history.Config{Path: appConfig.History.Path, Logger: logger})
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	filter := history.Filter{
		Status: tiny.Status(historyStatus),
		Source: historySource,
		Limit:  historyLimit,
	}
	if historySince > 0 {
		filter.Since = time.Now().Add(-historySince)
	}

	runs, err := store.Query(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "Keine Läufe gefunden.")
		return nil
	}
	fmt.Fprintf(out, "%-36s  %-19s  %-10s  %3s  %s\n", "ID", "GESTARTET", "STATUS", "VER", "QUELLE")
	for _, r := range runs {
		fmt.Fprintf(out, "%-36s  %-19s  %-10s  %3d  %s\n",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), r.Status, r.Attempts, r.Source)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	printRun(cmd.OutOrStdout(), run)
	return nil
}

func printRun(out io.Writer, r *tiny.RunRecord) {
	fmt.Fprintf(out, "Lauf:      %s\n", r.ID)
	fmt.Fprintf(out, "Quelle:    %s\n", r.Source)
	fmt.Fprintf(out, "Gestartet: %s\n", r.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(out, "Dauer:     %s\n", r.Duration)
	fmt.Fprintf(out, "Versuche:  %d\n", r.Attempts)
	fmt.Fprintf(out, "Status:    %s\n", r.Status)
	fmt.Fprintf(out, "Tokens:    %d\n", r.Tokens)
	if r.Nodes > 0 {
		fmt.Fprintf(out, "Knoten:    %d\n", r.Nodes)
	}
	if r.Message != "" {
		fmt.Fprintf(out, "Fehler:    %s bei Token %d (Zeile %d): %s\n", r.Stage, r.Position, r.Line, r.Message)
	}
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Läufe gesamt:     %d\n", stats.Total)
	if stats.Total == 0 {
		return nil
	}
	fmt.Fprintf(out, "Mittlere Dauer:   %s\n", stats.AvgDuration)
	fmt.Fprintf(out, "Zeitraum:         %s bis %s\n",
		stats.Oldest.Local().Format("2006-01-02 15:04"), stats.Newest.Local().Format("2006-01-02 15:04"))

	fmt.Fprintln(out, "\nNach Status:")
	statuses := make([]string, 0, len(stats.ByStatus))
	for s := range stats.ByStatus {
		statuses = append(statuses, string(s))
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		fmt.Fprintf(out, "  %-12s %d\n", s, stats.ByStatus[tiny.Status(s)])
	}

	if len(stats.ByStage) > 0 {
		fmt.Fprintln(out, "\nFehler nach Phase:")
		for _, stage := range []string{"scan", "parse"} {
			if n, ok := stats.ByStage[stage]; ok {
				fmt.Fprintf(out, "  %-12s %d\n", stage, n)
			}
		}
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	store, err := requireHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	olderThan := historyOlderThan
	if olderThan <= 0 {
		olderThan = appConfig.Retention()
	}

	n, err := store.Prune(cmd.Context(), olderThan)
	if err != nil {
		return err
	}
	if historyVacuum {
		if err := store.Vacuum(cmd.Context()); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d Läufe gelöscht (älter als %s)\n", n, olderThan)
	return nil
}
