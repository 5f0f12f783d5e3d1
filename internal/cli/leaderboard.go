package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var limit, minGames int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the rating leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			path := "/api/v1/leaderboard"
			sep := "?"
			if limit > 0 {
				path += sep + "limit=" + strconv.Itoa(limit)
				sep = "&"
			}
			if minGames > 0 {
				path += sep + "min_games=" + strconv.Itoa(minGames)
			}

			var result []LeaderboardEntry
			if err := client.Get(path, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to return")
	cmd.Flags().IntVar(&minGames, "min-games", 0, "Only include players with at least this many games")

	return cmd
}
