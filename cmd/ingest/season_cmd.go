package main

import (
	"fmt"

	"github.com/riskibarqy/nwsl-stats/internal/usecase"
	"github.com/spf13/cobra"
)

func newSeasonCmd(rt *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "Manage seasons",
	}
	cmd.AddCommand(newSeasonSeedCmd(rt))
	cmd.AddCommand(newSeasonSeedKnownCmd(rt))
	return cmd
}

func newSeasonSeedCmd(rt *session) *cobra.Command {
	var (
		input    usecase.SeasonSeedInput
		expected int
	)

	cmd := &cobra.Command{
		Use:   "seed --year <year> [--expected-matches <n>]",
		Short: "Create one season",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if input.League == "" {
				input.League = rt.cfg.League
			}
			if cmd.Flags().Changed("expected-matches") {
				input.ExpectedMatchCount = &expected
			}

			item, created, err := rt.app.Seasons.Seed(cmd.Context(), input)
			if err != nil {
				return err
			}
			status := "exists"
			if created {
				status = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s expected_matches=%d\n", status, item.ID, item.ExpectedMatchCount)
			return nil
		},
	}

	cmd.Flags().IntVar(&input.Year, "year", 0, "season year")
	cmd.Flags().StringVar(&input.League, "league", "", "league code; defaults to INGEST_LEAGUE")
	cmd.Flags().IntVar(&expected, "expected-matches", 0, "scheduled match count; required for years without a known schedule")
	return cmd
}

func newSeasonSeedKnownCmd(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-known",
		Short: "Create every season with a known schedule",
		RunE: func(cmd *cobra.Command, _ []string) error {
			created, err := rt.app.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d season(s)\n", created)
			return nil
		},
	}
}
