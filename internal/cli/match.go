package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Match and scoring commands",
	}

	cmd.AddCommand(newMatchListCmd())
	cmd.AddCommand(newMatchGetCmd())
	cmd.AddCommand(newMatchPointCmd())
	cmd.AddCommand(newMatchRevokeCmd())

	return cmd
}

func newMatchListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list <session-id>",
		Short: "List session matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/sessions/%s/matches", args[0])
			if status != "" {
				path += "?status=" + status
			}

			var result []Match

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status: scheduled, playing, completed")

	return cmd
}

func newMatchGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id> <match-id>",
		Short: "Get match details",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match

			path := fmt.Sprintf("/api/v1/sessions/%s/matches/%s", args[0], args[1])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchPointCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "point <session-id> <match-id> <team>",
		Short: "Record a point for a team (team_a or team_b)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"team": args[2]}

			var result Match

			path := fmt.Sprintf("/api/v1/sessions/%s/matches/%s/points", args[0], args[1])
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newMatchRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <session-id> <match-id>",
		Short: "Revoke the most recent point while its correction window is open",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Match

			path := fmt.Sprintf("/api/v1/sessions/%s/matches/%s/points", args[0], args[1])
			if err := client.Delete(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
