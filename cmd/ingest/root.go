package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/nwsl-stats/internal/app"
	"github.com/riskibarqy/nwsl-stats/internal/config"
	"github.com/riskibarqy/nwsl-stats/internal/observability"
	"github.com/riskibarqy/nwsl-stats/internal/platform/logging"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	EnvFile string
}

// session is built once per invocation by the root pre-run hook.
type session struct {
	cfg      config.Config
	logger   *logging.Logger
	app      *app.App
	shutdown []func(context.Context) error
}

func newRootCmd(rt *session) *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:           "nwsl-ingest",
		Short:         "Extract and normalize NWSL match reports into the participation store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.loadConfig(opts); err != nil {
				return err
			}
			return rt.start()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newRunCmd(rt))
	cmd.AddCommand(newSeasonCmd(rt))
	cmd.AddCommand(newCompletenessCmd(rt))
	cmd.AddCommand(newMigrateCmd(rt, &opts))
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt := &session{}
	err := newRootCmd(rt).ExecuteContext(ctx)
	if stopErr := rt.stop(); stopErr != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", stopErr.Error())
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		stop()
		os.Exit(1)
	}
}

func (rt *session) loadConfig(opts rootOptions) error {
	if err := loadEnvFile(opts.EnvFile); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	rt.cfg = cfg
	rt.logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	logging.SetDefault(rt.logger)
	return nil
}

func (rt *session) start() error {
	cfg := rt.cfg
	shutdownTracing, err := observability.InitUptrace(cfg, rt.logger)
	if err != nil {
		return fmt.Errorf("init uptrace: %w", err)
	}
	rt.shutdown = append(rt.shutdown, shutdownTracing)

	stopProfiler, err := observability.InitPyroscope(cfg, rt.logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	rt.shutdown = append(rt.shutdown, func(context.Context) error { return stopProfiler() })

	pprofSrv, err := observability.StartPprofServer(cfg, rt.logger)
	if err != nil {
		return fmt.Errorf("start pprof: %w", err)
	}
	rt.shutdown = append(rt.shutdown, func(context.Context) error {
		return observability.StopPprofServer(pprofSrv, rt.logger, 5*time.Second)
	})

	a, err := app.New(cfg, rt.logger)
	if err != nil {
		return fmt.Errorf("build app: %w", err)
	}
	rt.app = a
	return nil
}

func (rt *session) stop() error {
	var errs []error
	if rt.app != nil {
		errs = append(errs, rt.app.Close())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for i := len(rt.shutdown) - 1; i >= 0; i-- {
		errs = append(errs, rt.shutdown[i](ctx))
	}
	if rt.logger != nil {
		_ = rt.logger.Sync()
	}
	return errors.Join(errs...)
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
