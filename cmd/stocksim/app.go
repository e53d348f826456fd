package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"stocksim/internal/config"
	"stocksim/internal/engine"
	"stocksim/internal/listing"
	"stocksim/internal/logger"
	"stocksim/internal/repository"
	"stocksim/internal/server"
	"stocksim/internal/sqlitestore"
	"stocksim/internal/store"
	"stocksim/internal/wizard"
	"stocksim/types"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// backend is a store able to serve simulations and list its assets.
type backend interface {
	engine.PriceStore
	engine.DividendStore
	ListAssets(ctx context.Context) ([]types.Asset, error)
}

type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	backend backend
	close   func()
}

// openApp loads the configuration and opens the configured store.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	a := &app{cfg: cfg, log: log}
	switch cfg.Store {
	case config.StorePostgres:
		db, err := repository.NewDatabase(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		a.backend, a.close = db, db.Close
	default:
		s, err := sqlitestore.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, err
		}
		a.backend, a.close = s, func() { _ = s.Close() }
	}
	log.Debug().Str("store", cfg.Store).Bool("cache", cfg.Cache).Msg("store opened")
	return a, nil
}

func (a *app) Close() {
	if a.close != nil {
		a.close()
	}
}

// newEngine wires the store into an engine, behind the read-through cache
// when enabled. progress receives the load progress bar; nil disables it.
func (a *app) newEngine(progress io.Writer) *engine.Engine {
	var prices engine.PriceStore = a.backend
	var dividends engine.DividendStore = a.backend
	if a.cfg.Cache {
		cached := store.NewCached(a.backend, a.backend, a.cfg.Retries, a.cfg.CacheTTL, a.log)
		prices, dividends = cached, cached
	}
	var engineConfig *engine.EngineConfig
	if progress != nil {
		engineConfig = engine.NewEngineConfig(progress)
	}
	return engine.NewEngine(prices, dividends, engineConfig, a.log)
}

// catalog reads the listing CSV, falling back to the assets known to the store.
func (a *app) catalog(ctx context.Context) (*listing.Catalog, error) {
	assets, err := listing.LoadFile(a.cfg.AssetsCSV)
	if errors.Is(err, fs.ErrNotExist) {
		a.log.Debug().Str("path", a.cfg.AssetsCSV).Msg("listing not found, using store assets")
		assets, err = a.backend.ListAssets(ctx)
	}
	if err != nil {
		return nil, err
	}
	return listing.NewCatalog(assets), nil
}

func (a *app) newServer(port int, eng *engine.Engine, catalog *listing.Catalog) *server.Server {
	return server.New(server.Config{
		Port:           port,
		Log:            a.log,
		Simulator:      eng,
		Catalog:        catalog,
		CurrencySymbol: a.cfg.CurrencySymbol,
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, engine.ErrInvalidSelection) ||
		errors.Is(err, engine.ErrInvalidRange) ||
		errors.Is(err, engine.ErrInvalidInvestment) ||
		errors.Is(err, wizard.ErrStepNotReached)
}

// exitStatus reports err on stderr and maps it to an exit status.
func exitStatus(err error) subcommands.ExitStatus {
	if err == nil {
		return subcommands.ExitSuccess
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	if isValidationError(err) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}
