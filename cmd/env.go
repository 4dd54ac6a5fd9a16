package main

import (
	"context"
	"os"

	"github.com/k-capehart/go-salesforce/v3"
	"github.com/rotisserie/eris"

	"github.com/sells-group/lead-sync/internal/ledger"
	"github.com/sells-group/lead-sync/internal/sync"
	"github.com/sells-group/lead-sync/pkg/debounce"
	"github.com/sells-group/lead-sync/pkg/instantly"
	sfpkg "github.com/sells-group/lead-sync/pkg/salesforce"
)

// env bundles the collaborators a command needs for a sync run.
type env struct {
	store    ledger.Store
	ledger   *ledger.Ledger
	pipeline *sync.Pipeline
}

func (e *env) Close() {
	_ = e.store.Close()
}

// initEnv connects the ledger store and CRM and wires the pipeline.
// Any connection failure here aborts before the run has side effects.
func initEnv(ctx context.Context) (*env, error) {
	store, err := initLedgerStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, eris.Wrap(err, "migrate ledger store")
	}

	sf, err := initSalesforce()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	led := ledger.New(store)
	validator := debounce.NewClient(cfg.Debounce.Key, debounce.WithBaseURL(cfg.Debounce.BaseURL))
	outreach := instantly.NewClient(cfg.Instantly.Key, instantly.WithBaseURL(cfg.Instantly.BaseURL))

	return &env{
		store:    store,
		ledger:   led,
		pipeline: sync.New(cfg, sync.NewSalesforceCRM(sf), validator, outreach, led),
	}, nil
}

func initLedgerStore(ctx context.Context) (ledger.Store, error) {
	switch cfg.Ledger.Driver {
	case "sqlite":
		dsn := cfg.Ledger.DatabaseURL
		if dsn == "" {
			dsn = "leadsync.db"
		}
		return ledger.NewSQLite(dsn)
	case "postgres":
		return ledger.NewPostgres(ctx, cfg.Ledger.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported ledger driver: %s", cfg.Ledger.Driver)
	}
}

func initSalesforce() (sfpkg.Client, error) {
	if cfg.Salesforce.ClientID == "" {
		return nil, eris.New("salesforce client ID is required (LEADSYNC_SALESFORCE_CLIENT_ID)")
	}

	pemData, err := os.ReadFile(cfg.Salesforce.KeyPath)
	if err != nil {
		return nil, eris.Wrap(err, "read salesforce JWT private key")
	}

	sf, err := salesforce.Init(salesforce.Creds{
		Domain:         cfg.Salesforce.LoginURL,
		Username:       cfg.Salesforce.Username,
		ConsumerKey:    cfg.Salesforce.ClientID,
		ConsumerRSAPem: string(pemData),
	})
	if err != nil {
		return nil, eris.Wrap(err, "init salesforce")
	}

	return sfpkg.NewClient(sf, sfpkg.WithRateLimit(cfg.Salesforce.RateRPS)), nil
}
