package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/dgraph-io/badger/v3"
	"github.com/rs/zerolog"

	"github.com/financaspro/finance-core/internal/application/service"
	"github.com/financaspro/finance-core/internal/domain/repository"
	"github.com/financaspro/finance-core/internal/infrastructure/api"
	"github.com/financaspro/finance-core/internal/infrastructure/config"
	"github.com/financaspro/finance-core/internal/infrastructure/db"
	"github.com/financaspro/finance-core/internal/infrastructure/format"
)

// app wires the core components for one CLI invocation.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	badgerDB *badger.DB
	prefs    repository.PreferenceStore
	sessions *service.SessionService
	store    *service.StoreService
	view     *service.ViewStateService
	money    format.MoneyFormatter
}

func newApp(configPath string, ephemeral bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	a := &app{cfg: cfg, log: log}

	if ephemeral {
		a.prefs = db.NewMemoryPreferenceStore()
	} else {
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		a.badgerDB, err = db.Open(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		a.prefs = db.NewBadgerPreferenceStore(a.badgerDB)
	}

	client := api.NewFinanceAPIClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, log)
	a.sessions = service.NewSessionService(client, a.prefs, log)
	a.store = service.NewStoreService(client, a.sessions, log)
	a.view = service.NewViewStateService(a.sessions, a.prefs, log)
	a.money = format.NewMoneyFormatter(cfg.CurrencySymbol, cfg.DecimalSep)
	return a, nil
}

func (a *app) close() {
	if a.badgerDB != nil {
		if err := a.badgerDB.Close(); err != nil {
			a.log.Warn().Err(err).Msg("error closing preference database")
		}
	}
}
