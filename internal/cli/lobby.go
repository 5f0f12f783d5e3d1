package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Lobby commands",
	}

	cmd.AddCommand(newLobbyCreateCmd())
	cmd.AddCommand(newLobbyListCmd())
	cmd.AddCommand(newLobbyCurrentCmd())
	cmd.AddCommand(newLobbyGetCmd())
	cmd.AddCommand(newLobbyJoinCmd())
	cmd.AddCommand(newLobbyLeaveCmd())
	cmd.AddCommand(newLobbyKickCmd())
	cmd.AddCommand(newLobbyCloseCmd())
	cmd.AddCommand(newLobbyStartCmd())
	cmd.AddCommand(newLobbyCaptainCmd())
	cmd.AddCommand(newLobbyPickCmd())
	cmd.AddCommand(newLobbyResetCmd())

	return cmd
}

func lobbyPath(code string, parts ...string) string {
	path := "/api/v1/lobbies/" + strings.ToUpper(code)
	if len(parts) > 0 {
		path += "/" + strings.Join(parts, "/")
	}
	return path
}

func newLobbyCreateCmd() *cobra.Command {
	var public bool
	var capacity int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new lobby",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			body := map[string]any{"public": public}
			if capacity > 0 {
				body["capacity"] = capacity
			}

			var result Lobby
			if err := client.Post("/api/v1/lobbies", body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&public, "public", false, "List the lobby in the public browser")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "Match capacity (even, at least 4; server default if omitted)")

	return cmd
}

func newLobbyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open public lobbies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result []LobbySummary
			if err := client.Get("/api/v1/lobbies", &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newLobbyCurrentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Show which lobby you are currently in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result SessionInfo
			if err := client.Get("/api/v1/session", &result); err != nil {
				out.PrintError(err)
				return err
			}

			if result.LobbyCode == "" {
				out.PrintMessage("Not in a lobby")
				return nil
			}

			var lobby Lobby
			if err := client.Get(lobbyPath(result.LobbyCode), &lobby); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(lobby)
			return nil
		},
	}
}

func newLobbyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Show a lobby's current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Lobby
			if err := client.Get(lobbyPath(args[0]), &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newLobbyJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Lobby
			if err := client.Post(lobbyPath(args[0], "join"), nil, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newLobbyLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <code>",
		Short: "Leave a lobby",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if err := client.Post(lobbyPath(args[0], "leave"), nil, nil); err != nil {
				out.PrintError(err)
				return err
			}

			out.PrintMessage("Left lobby " + strings.ToUpper(args[0]))
			return nil
		},
	}
}

func newLobbyKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <code> <player-id>",
		Short: "Kick a player from the lobby (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			body := map[string]string{"player_id": args[1]}
			if err := client.Post(lobbyPath(args[0], "kick"), body, nil); err != nil {
				out.PrintError(err)
				return err
			}

			out.PrintMessage("Kicked " + args[1])
			return nil
		},
	}
}

func newLobbyCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close <code>",
		Short: "Close the lobby (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if err := client.Delete(lobbyPath(args[0]), nil); err != nil {
				out.PrintError(err)
				return err
			}

			out.PrintMessage("Closed lobby " + strings.ToUpper(args[0]))
			return nil
		},
	}
}

func newLobbyStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start captain selection (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Lobby
			if err := client.Post(lobbyPath(args[0], "start"), nil, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newLobbyCaptainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "captain",
		Short: "Captain selection commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <code> <player-id>",
		Short: "Appoint a captain (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			body := map[string]string{"player_id": args[1]}
			var result Lobby
			if err := client.Post(lobbyPath(args[0], "captains"), body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <code> <player-id>",
		Short: "Demote a captain before the draft starts (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Lobby
			if err := client.Delete(lobbyPath(args[0], "captains", args[1]), &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	})

	return cmd
}

func newLobbyPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick <code> <player-id>",
		Short: "Draft a player onto your team (captains only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			body := map[string]string{"player_id": args[1]}
			var result Lobby
			if err := client.Post(lobbyPath(args[0], "picks"), body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newLobbyResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <code>",
		Short: "Reset the lobby back to waiting (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Lobby
			if err := client.Post(lobbyPath(args[0], "reset"), nil, &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
