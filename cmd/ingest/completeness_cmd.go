package main

import (
	"errors"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

func newCompletenessCmd(rt *session) *cobra.Command {
	var seasonID string

	cmd := &cobra.Command{
		Use:   "completeness --season <id>",
		Short: "Recompute and print the completion record of a season",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(seasonID) == "" {
				return errors.New("--season is required")
			}
			report, err := rt.app.Completeness.Recompute(cmd.Context(), seasonID)
			if err != nil {
				return err
			}
			enc := sonic.ConfigStd.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVar(&seasonID, "season", "", "season id, e.g. nwsl-2016")
	return cmd
}
