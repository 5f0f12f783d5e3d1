package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match scoring and history commands",
	}

	cmd.AddCommand(newMatchScoreCmd())
	cmd.AddCommand(newMatchWinnerCmd())
	cmd.AddCommand(newMatchDrawCmd())
	cmd.AddCommand(newMatchRecentCmd())
	cmd.AddCommand(newMatchHistoryCmd())

	return cmd
}

func newMatchScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score <code> <team>",
		Short: "Record a round win for a team (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			body := map[string]string{"team": args[1]}
			var result Lobby
			if err := client.Post(lobbyPath(args[0], "score"), body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newMatchWinnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "winner <code> <team>",
		Short: "Declare the match winner outright (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			body := map[string]string{"team": args[1]}
			var result Lobby
			if err := client.Post(lobbyPath(args[0], "winner"), body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newMatchDrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draw <code>",
		Short: "Declare the match a draw (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Lobby
			if err := client.Post(lobbyPath(args[0], "draw"), nil, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newMatchRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recently finished matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			path := "/api/v1/matches"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result []Match
			if err := client.Get(path, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum matches to return")

	return cmd
}

func newMatchHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <player-id>",
		Short: "Show a player's match history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			path := "/api/v1/players/" + args[0] + "/matches"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result []Match
			if err := client.Get(path, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum matches to return")

	return cmd
}
