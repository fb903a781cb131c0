package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/teambalance/app"
)

var swapCmd = &cobra.Command{
	Use:   "swap ROSTER GAME_ID PLAYER PLAYER",
	Short: "Swap two players of a recorded game",
	Long: "Swap two players between their teams in a recorded game. The new " +
		"lineup is recorded as a manual game. Locked players cannot be moved.",
	Args: cobra.ExactArgs(4),
	RunE: runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)
}

func runSwap(cmd *cobra.Command, args []string) error {
	roster, err := app.LoadRoster(args[0])
	if err != nil {
		return err
	}
	return withService(func(svc *app.Service) error {
		out, err := svc.Swap(cmd.Context(), roster, args[1], args[2], args[3])
		if err != nil {
			return err
		}
		return printOutcome(cmd.OutOrStdout(), out)
	})
}
