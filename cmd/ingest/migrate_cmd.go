package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/riskibarqy/nwsl-stats/internal/app"
	"github.com/spf13/cobra"
)

func newMigrateCmd(rt *session, root *rootOptions) *cobra.Command {
	var dir string
	var m *migrate.Migrate

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or inspect database schema migrations",
		// Migrations only need the database url, not the ingest services.
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.loadConfig(*root); err != nil {
				return err
			}
			if strings.TrimSpace(rt.cfg.DBURL) == "" {
				return errors.New("DB_URL is required")
			}
			migrationsDir, err := resolveMigrationsDir(dir)
			if err != nil {
				return err
			}
			m, err = migrate.New("file://"+filepath.ToSlash(migrationsDir), app.MigrationURL(rt.cfg))
			if err != nil {
				return fmt.Errorf("create migrator: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if m == nil {
				return
			}
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				rt.logger.Warn("close migration source", "error", srcErr)
			}
			if dbErr != nil {
				rt.logger.Warn("close migration db", "error", dbErr)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory; defaults to MIGRATIONS_DIR or ./db/migrations")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return reportMigration(cmd, m.Up(), "migrations applied")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			return reportMigration(cmd, m.Steps(-steps), fmt.Sprintf("rolled back %d migration(s)", steps))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				fmt.Fprintln(cmd.OutOrStdout(), "version: none")
				return nil
			}
			if err != nil {
				return fmt.Errorf("read version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version: %d\ndirty: %t\n", version, dirty)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			if err := m.Force(version); err != nil {
				return fmt.Errorf("force version %d: %w", version, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "forced version to %d\n", version)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := strconv.ParseUint(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid target version %q: %w", args[0], err)
			}
			return reportMigration(cmd, m.Migrate(uint(target)), fmt.Sprintf("migrated to version %d", target))
		},
	})
	return cmd
}

func reportMigration(cmd *cobra.Command, err error, done string) error {
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(cmd.OutOrStdout(), "no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, errors.New("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, errors.New("version must be >= 0")
	}
	return value, nil
}

// resolveMigrationsDir returns the first existing directory among the flag,
// MIGRATIONS_DIR and the usual checkout and container paths.
func resolveMigrationsDir(flag string) (string, error) {
	candidates := []string{
		strings.TrimSpace(flag),
		strings.TrimSpace(os.Getenv("MIGRATIONS_DIR")),
		"./db/migrations",
		"/app/db/migrations",
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.New("migration directory not found (checked --dir, MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}
