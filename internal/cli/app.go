package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/catalog"
	"github.com/rshade/ecoshopper/internal/config"
	"github.com/rshade/ecoshopper/internal/logging"
	"github.com/rshade/ecoshopper/internal/session"
	"github.com/rshade/ecoshopper/internal/session/persist"
	"github.com/rshade/ecoshopper/internal/shop"
)

// app bundles what session-aware commands need.
type app struct {
	cfg     *config.Config
	backend persist.Backend
	store   *session.Store
	shop    *shop.Shop
}

type appHolderKey struct{}

// appHolder carries the configuration and the lazily opened app through the
// command context so PersistentPostRunE can close what RunE opened.
type appHolder struct {
	cfg *config.Config
	app *app
}

func withAppHolder(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, appHolderKey{}, &appHolder{cfg: cfg})
}

func holderFrom(cmd *cobra.Command) *appHolder {
	if ctx := cmd.Context(); ctx != nil {
		if h, ok := ctx.Value(appHolderKey{}).(*appHolder); ok {
			return h
		}
	}
	return nil
}

// loadConfig reads the configuration selected by --config and applies the
// --storage and --catalog overrides. The result becomes the global config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString(flagConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	if storage, _ := cmd.Flags().GetString(flagStorage); storage != "" {
		cfg.Storage.Backend = storage
	}
	if cat, _ := cmd.Flags().GetString(flagCatalog); cat != "" {
		cfg.Catalog.Path = cat
	}

	config.SetGlobalConfig(cfg)
	return cfg, nil
}

// configFrom returns the configuration for cmd, falling back to the global one
// when the root pre-run did not execute.
func configFrom(cmd *cobra.Command) *config.Config {
	if h := holderFrom(cmd); h != nil {
		return h.cfg
	}
	return config.GetGlobalConfig()
}

// loadApp opens the catalog, session storage and shop on first use.
func loadApp(cmd *cobra.Command) (*app, error) {
	h := holderFrom(cmd)
	if h == nil {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx = withAppHolder(ctx, config.GetGlobalConfig())
		cmd.SetContext(ctx)
		h = holderFrom(cmd)
	}
	if h.app != nil {
		return h.app, nil
	}

	a, err := openApp(cmd.Context(), h.cfg)
	if err != nil {
		return nil, err
	}
	h.app = a
	return a, nil
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logging.FromContext(ctx)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := persist.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening session storage: %w", err)
	}

	store := session.New(ctx, backend)
	sh := shop.New(ctx, cat, store, shop.WithPolicy(shop.PolicyFromConfig(cfg)))

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "open_app").
		Str("backend", cfg.Storage.Backend).
		Int("products", cat.Len()).
		Msg("session opened")

	return &app{cfg: cfg, backend: backend, store: store, shop: sh}, nil
}

// loadCatalog returns the configured catalog file or the built-in one.
func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog.Path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", cfg.Catalog.Path, err)
	}
	return cat, nil
}

// closeApp flushes pending session saves and releases the backend if a
// command opened it.
func closeApp(cmd *cobra.Command) error {
	h := holderFrom(cmd)
	if h == nil || h.app == nil {
		return nil
	}
	h.app.store.Close()
	err := h.app.backend.Close()
	h.app = nil
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing session storage: %w", err)
	}
	return nil
}
