package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"empi/cmd"
	httpin "empi/internal/adapters/in/http"
	"empi/internal/adapters/out/postgres"
	"empi/internal/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfg       cmd.Config
	logger    zerolog.Logger
	logCloser io.Closer
}

func main() {
	a := &app{}
	if err := a.rootCommand().Execute(); err != nil {
		a.logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "empi",
		Short:         "Costume order lifecycle and VAT accounting service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			cfg, err := cmd.LoadConfig()
			if err != nil {
				return err
			}
			closer, err := logger.Setup(cfg.LoggerConfig())
			if err != nil {
				return err
			}
			a.cfg, a.logCloser, a.logger = cfg, closer, logger.Get()
			return nil
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			if a.logCloser != nil {
				return a.logCloser.Close()
			}
			return nil
		},
	}
	a.logger = logger.New(os.Stderr)

	root.AddCommand(
		a.serveCommand(),
		a.migrateCommand(),
		a.vatCommand(),
		a.legacyCommand(),
		a.tokenCommand(),
		a.expenseCommand(),
	)
	return root
}

// withRoot opens the database and builds the composition root for one
// subcommand.
func (a *app) withRoot(ctx context.Context, fn func(ctx context.Context, root *cmd.CompositionRoot, db *gorm.DB) error) error {
	db, err := cmd.OpenDB(a.cfg, a.logger)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	root, err := cmd.NewCompositionRoot(a.cfg, db, a.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := root.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("close notifier")
		}
	}()

	return fn(ctx, root, db)
}

func (a *app) serveCommand() *cobra.Command {
	var migrate bool

	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the scheduled jobs",
		RunE: func(c *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.withRoot(ctx, func(ctx context.Context, root *cmd.CompositionRoot, db *gorm.DB) error {
				if migrate {
					if err := postgres.Migrate(db); err != nil {
						return fmt.Errorf("migrate: %w", err)
					}
				}
				return a.serve(ctx, root)
			})
		},
	}
	c.Flags().BoolVar(&migrate, "migrate", true, "apply schema migrations before serving")
	return c
}

func (a *app) serve(ctx context.Context, root *cmd.CompositionRoot) error {
	revoked := root.CreateRevocationStore()
	server := httpin.NewServer(root.CreateHTTPHandlers(), revoked)
	e, err := httpin.NewRouter(ctx, server, httpin.RouterConfig{
		Tokens:   root.CreateTokens(),
		Revoked:  revoked,
		Logger:   a.logger.With().Str("component", "http").Logger(),
		LogLevel: a.cfg.LogLevel,
	})
	if err != nil {
		return err
	}
	jobManager := root.CreateJobManager()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Str("port", a.cfg.HTTPPort).Msg("http server listening")
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", a.cfg.HTTPPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := jobManager.StartAll(gctx); err != nil {
			return err
		}
		<-gctx.Done()
		jobManager.StopAll()
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				revoked.Sweep()
			}
		}
	})

	err = g.Wait()
	a.logger.Info().Msg("server stopped")
	return err
}

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(c *cobra.Command, _ []string) error {
			db, err := cmd.OpenDB(a.cfg, a.logger)
			if err != nil {
				return err
			}
			if err = postgres.Migrate(db); err != nil {
				return err
			}
			a.logger.Info().Msg("schema migrated")
			return nil
		},
	}
}
