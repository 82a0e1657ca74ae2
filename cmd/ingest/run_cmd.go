package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/riskibarqy/nwsl-stats/internal/usecase"
	"github.com/spf13/cobra"
)

type runOptions struct {
	ManifestPath string
	ReportPath   string
	Workers      int
	OnlyPending  bool
}

func newRunCmd(rt *session) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run --manifest <path> [--report <path>]",
		Short: "Ingest every match of a season manifest and print the run report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(opts.ManifestPath) == "" {
				return errors.New("--manifest is required")
			}
			m, err := loadManifest(opts.ManifestPath)
			if err != nil {
				return err
			}
			refs, err := m.refs()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := rt.app.Bootstrap(ctx); err != nil {
				return fmt.Errorf("bootstrap seasons: %w", err)
			}

			report, runErr := rt.app.Pipeline.Run(ctx, usecase.SeasonRunInput{
				SeasonID:    m.Season,
				Matches:     refs,
				Workers:     opts.Workers,
				OnlyPending: opts.OnlyPending,
			})
			if report.SeasonID != "" {
				if err := writeReport(cmd.OutOrStdout(), opts.ReportPath, report); err != nil {
					return errors.Join(runErr, err)
				}
			}
			return runErr
		},
	}

	cmd.Flags().StringVar(&opts.ManifestPath, "manifest", "", "YAML manifest with the season id and its match ids")
	cmd.Flags().StringVar(&opts.ReportPath, "report", "", "write the JSON run report here instead of stdout")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "worker count; 0 uses INGEST_WORKER_COUNT")
	cmd.Flags().BoolVar(&opts.OnlyPending, "only-pending", false, "skip matches already ingested successfully")
	return cmd
}

func writeReport(stdout io.Writer, path string, report usecase.RunReport) error {
	if strings.TrimSpace(path) == "" {
		return report.WriteJSON(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	if err := report.WriteJSON(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}
