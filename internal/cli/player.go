package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player account commands",
	}

	cmd.AddCommand(newPlayerGuestCmd())
	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerLoginCmd())
	cmd.AddCommand(newPlayerLogoutCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerStatsCmd())
	cmd.AddCommand(newPlayerShowCmd())

	return cmd
}

func newPlayerGuestCmd() *cobra.Command {
	var avatarURL string

	cmd := &cobra.Command{
		Use:   "guest <display-name>",
		Short: "Create a guest player and save the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			body := map[string]string{"display_name": args[0]}
			if avatarURL != "" {
				body["avatar_url"] = avatarURL
			}

			var result AuthResult
			if err := client.Post("/api/v1/players/guest", body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				out.PrintError(fmt.Errorf("failed to save token: %w", err))
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&avatarURL, "avatar", "", "Avatar URL")

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var password, displayName string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a new account and save the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if password == "" {
				err := fmt.Errorf("password is required (use --password)")
				out.PrintError(err)
				return err
			}
			if displayName == "" {
				displayName = args[0]
			}

			body := map[string]string{
				"username":     args[0],
				"password":     password,
				"display_name": displayName,
			}

			var result AuthResult
			if err := client.Post("/api/v1/players/register", body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				out.PrintError(fmt.Errorf("failed to save token: %w", err))
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.Flags().StringVar(&displayName, "display-name", "", "Display name (defaults to username)")

	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in and save the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if password == "" {
				err := fmt.Errorf("password is required (use --password)")
				out.PrintError(err)
				return err
			}

			body := map[string]string{
				"username": args[0],
				"password": password,
			}

			var result AuthResult
			if err := client.Post("/api/v1/players/login", body, &result); err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(result.SessionToken); err != nil {
				out.PrintError(fmt.Errorf("failed to save token: %w", err))
				return err
			}

			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")

	return cmd
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Invalidate the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			if err := client.Post("/api/v1/players/logout", nil, nil); err != nil {
				out.PrintError(err)
				return err
			}

			if err := cfg.SaveToken(""); err != nil {
				out.PrintError(fmt.Errorf("failed to clear token: %w", err))
				return err
			}

			out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the authenticated player",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Player
			if err := client.Get("/api/v1/players/me", &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newPlayerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the authenticated player's career stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result PlayerStats
			if err := client.Get("/api/v1/players/me/stats", &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}

func newPlayerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <player-id>",
		Short: "Show a player's public profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := NewOutput(cfg.Output)

			var result Player
			if err := client.Get("/api/v1/players/"+args[0], &result); err != nil {
				out.PrintError(err)
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
