package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kilianp07/teambalance/app"
	"github.com/kilianp07/teambalance/config"
	"github.com/kilianp07/teambalance/core/balance"
	"github.com/kilianp07/teambalance/infra/chart"
)

var balanceFlags struct {
	teams     int
	strategy  string
	chartPath string
	noHistory bool
}

var balanceCmd = &cobra.Command{
	Use:   "balance ROSTER",
	Short: "Generate balanced teams from a roster file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

func init() {
	balanceCmd.Flags().IntVarP(&balanceFlags.teams, "teams", "t", 2, "number of teams")
	balanceCmd.Flags().StringVar(&balanceFlags.strategy, "strategy", "", "exact or greedy, overrides the configuration")
	balanceCmd.Flags().StringVar(&balanceFlags.chartPath, "chart", "", "write an HTML chart of the teams to this file")
	balanceCmd.Flags().BoolVar(&balanceFlags.noHistory, "no-history", false, "do not record the lineup")
	rootCmd.AddCommand(balanceCmd)
}

// lineupOutput is the JSON printed by balance and swap.
type lineupOutput struct {
	RunID        string         `json:"run_id"`
	Strategy     string         `json:"strategy,omitempty"`
	Status       string         `json:"status"`
	Objective    float64        `json:"objective"`
	Fallback     string         `json:"fallback,omitempty"`
	IgnoredLocks []string       `json:"ignored_locks,omitempty"`
	Teams        [][]string     `json:"teams"`
	Report       balance.Report `json:"report"`
}

func runBalance(cmd *cobra.Command, args []string) error {
	roster, err := app.LoadRoster(args[0])
	if err != nil {
		return err
	}
	if balanceFlags.strategy != "" {
		cfg.Balance.Strategy = balance.Strategy(balanceFlags.strategy)
	}
	if balanceFlags.noHistory {
		cfg.History.Backend = config.HistoryDisabled
	}
	return withService(func(svc *app.Service) error {
		out, err := svc.Generate(cmd.Context(), roster, balanceFlags.teams)
		if err != nil {
			return err
		}
		if balanceFlags.chartPath != "" {
			if err := writeChart(balanceFlags.chartPath, out.Report); err != nil {
				return err
			}
		}
		return printOutcome(cmd.OutOrStdout(), out)
	})
}

func writeChart(path string, r balance.Report) error {
	html, err := chart.TeamsHTML(r)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

func printOutcome(w io.Writer, out *app.Outcome) error {
	res := out.Result
	o := lineupOutput{
		RunID:        out.RunID,
		Strategy:     string(res.Strategy),
		Status:       res.Status,
		Objective:    res.Objective,
		IgnoredLocks: res.IgnoredLocks,
		Report:       out.Report,
	}
	if res.Fallback != nil {
		o.Fallback = res.Fallback.Error()
	}
	for _, t := range res.Teams {
		o.Teams = append(o.Teams, t.Names())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}
