package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/teambalance/app"
	"github.com/kilianp07/teambalance/core/history"
	"github.com/kilianp07/teambalance/pkg/export"
)

var historyFlags struct {
	player   string
	strategy string
	since    time.Duration
	limit    int
	format   string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded games",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlags.player, "player", "", "only games including this player")
	historyCmd.Flags().StringVar(&historyFlags.strategy, "strategy", "", "only games produced by this strategy")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only games newer than this duration, e.g. 720h")
	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 0, "keep the most recent games only")
	historyCmd.Flags().StringVar(&historyFlags.format, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	q := history.Query{
		Player:   historyFlags.player,
		Strategy: historyFlags.strategy,
		Limit:    historyFlags.limit,
	}
	if historyFlags.since > 0 {
		q.Start = time.Now().Add(-historyFlags.since)
	}
	write := export.WriteJSON
	switch historyFlags.format {
	case "json":
	case "csv":
		write = export.WriteCSV
	default:
		return fmt.Errorf("unknown format %s", historyFlags.format)
	}
	return withService(func(svc *app.Service) error {
		recs, err := svc.History(cmd.Context(), q)
		if err != nil {
			return err
		}
		if len(recs) == 0 {
			_, err := fmt.Fprintln(cmd.ErrOrStderr(), "no games recorded")
			return err
		}
		return write(cmd.OutOrStdout(), recs)
	})
}
