package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Participant management commands",
	}

	cmd.AddCommand(newRosterAddCmd())
	cmd.AddCommand(newRosterListCmd())
	cmd.AddCommand(newRosterCheckInCmd())
	cmd.AddCommand(newRosterWaitCmd())

	return cmd
}

func newRosterAddCmd() *cobra.Command {
	var id string
	var skill string

	cmd := &cobra.Command{
		Use:   "add <session-id> <display-name>",
		Short: "Register a participant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"display_name": args[1],
				"skill":        skill,
			}
			if id != "" {
				req["id"] = id
			}

			var result Participant

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/participants", args[0]), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Participant id (default: generated)")
	cmd.Flags().StringVar(&skill, "skill", "intermediate", "Skill level: beginner, intermediate, advanced")

	return cmd
}

func newRosterListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <session-id>",
		Short: "List session participants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Participant

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s/participants", args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRosterCheckInCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-in <session-id> <participant-id>",
		Short: "Check a participant in for play",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Participant

			path := fmt.Sprintf("/api/v1/sessions/%s/participants/%s/check-in", args[0], args[1])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRosterWaitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wait <session-id> <participant-id>",
		Short: "Estimate a participant's wait for their next match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result EstimatedWait

			path := fmt.Sprintf("/api/v1/sessions/%s/participants/%s/wait", args[0], args[1])
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
