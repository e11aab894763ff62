package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbind/internal/config"
	"github.com/goliatone/go-formbind/internal/pages"
	"github.com/goliatone/go-formbind/internal/people"
	"github.com/goliatone/go-formbind/internal/server"
	"github.com/goliatone/go-formbind/internal/store"
)

const appName = "formbind"

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the registration forms over HTTP",
		Long: `Serve the people registration forms.

Examples:
  formbind serve
  formbind serve --store sqlite --dsn formbind.db --seed people.yaml
  formbind serve --templates-dir internal/pages/templates --reload`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.String("store", "memory", "repository driver (memory, sqlite)")
	flags.String("dsn", "", "sqlite data source name (in-memory when empty)")
	flags.String("seed", "", "YAML file of people loaded at startup")
	flags.String("templates-dir", "", "load page templates from this directory instead of the embedded ones")
	flags.Bool("reload", false, "reload templates when files in --templates-dir change")
	flags.String("theme", "light", "theme and optional variant, e.g. light/dark")
	flags.Int("max-index", 1000, "largest list index accepted from a form")
	return cmd
}

// serve wires the repository, page engine and HTTP server described by cfg
// and runs until ctx is cancelled.
func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	repo, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer repo.Close()

	if cfg.Store.Seed != "" {
		n, err := store.SeedFile(ctx, repo, cfg.Store.Seed)
		if err != nil {
			return err
		}
		logger.Info("repository seeded", slog.String("file", cfg.Store.Seed), slog.Int("people", n))
	}

	engine, err := newPages(cfg.Pages, logger)
	if err != nil {
		return err
	}
	if cfg.Pages.Reload {
		if err := engine.Watch(ctx); err != nil {
			return err
		}
		logger.Info("watching templates", slog.String("dir", cfg.Pages.TemplatesDir))
	}

	srv, err := server.New(server.Config{
		Repository:      repo,
		Binder:          people.NewBinder(people.WithLogger(logger), people.WithMaxIndex(cfg.Binding.MaxIndex)),
		Pages:           engine,
		Logger:          logger,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, cfg.Server.Addr)
}

func newPages(cfg config.Pages, logger *slog.Logger) (*pages.Engine, error) {
	themes, err := pages.NewThemes()
	if err != nil {
		return nil, err
	}
	selection, err := themes.Select(cfg.Theme)
	if err != nil {
		return nil, err
	}

	options := []pages.Option{
		pages.WithLogger(logger),
		pages.WithGlobalData(map[string]any{
			"app_name":  appName,
			"theme_css": pages.Markup(pages.Stylesheet(pages.CSSVars(selection))),
		}),
	}
	if cfg.TemplatesDir != "" {
		options = append(options, pages.WithDir(cfg.TemplatesDir))
	}
	return pages.New(options...)
}
