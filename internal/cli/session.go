package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionResetCmd())
	cmd.AddCommand(newSessionPhaseCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var name string
	var courts int
	var courtNames []string
	var targetMatches int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{}
			if name != "" {
				req["name"] = name
			}
			if courts > 0 {
				req["courts"] = courts
			}
			if len(courtNames) > 0 {
				req["court_names"] = courtNames
			}
			if targetMatches > 0 {
				req["target_matches"] = targetMatches
			}

			var result Session

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Session name")
	cmd.Flags().IntVar(&courts, "courts", 2, "Number of courts")
	cmd.Flags().StringSliceVar(&courtNames, "court-names", nil, "Court names (overrides --courts)")
	cmd.Flags().IntVar(&targetMatches, "target", 0, "Target match count (default: server default)")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <session-id>",
		Short: "Get the session summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionSummary

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <session-id>",
		Short: "Reset a session, clearing matches and check-ins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Session

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/reset", args[0]), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionPhaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phase <session-id> <phase>",
		Short: "Force the session phase (before_game, game_day, during_game, after_game)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"phase": args[1]}

			var result Session

			if err := client.Put(fmt.Sprintf("/api/v1/sessions/%s/phase", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
