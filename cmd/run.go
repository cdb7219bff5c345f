package cmd

import (
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sheetcoach/internal/app"
	"github.com/abhisek/sheetcoach/internal/config"
	"github.com/abhisek/sheetcoach/internal/logging"
	"github.com/abhisek/sheetcoach/internal/service"
	"github.com/abhisek/sheetcoach/internal/store"
)

// deps holds what every command that talks to the service needs.
type deps struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *store.Store
	repo   store.EventRepo // nil when the store is unavailable
	client *service.LoggingClient
}

func (d *deps) Close() {
	if d.store != nil {
		_ = d.store.Close()
	}
	_ = d.log.Sync()
}

// setup loads config, then builds the logger, the audit store and the
// decorated service client. The store is optional: if it cannot be opened
// a warning is printed and the app runs without an audit log.
func setup(cmd *cobra.Command) (*deps, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg}

	d.log, err = logging.New(cfg.Logging())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		d.log = logging.Nop()
	}

	dbPath, err := resolveDBPath(cfg)
	if err == nil {
		d.store, err = store.Open(dbPath)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Audit log unavailable:", err)
		d.log.Warn("audit store unavailable", zap.Error(err))
	} else {
		d.repo = d.store.EventRepo()
	}

	httpClient, err := service.NewHTTPClient(cfg.Service())
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("create service client: %w", err)
	}
	d.client = service.WithLogging(
		service.WithRetry(httpClient, cfg.Service().Retry),
		d.repo,
		d.log,
	)
	return d, nil
}

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	d, err := setup(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	opts := app.Options{
		Client:    d.client,
		EventRepo: d.repo,
		Logger:    d.log,
		Email:     d.cfg.Interview.CandidateEmail,
		Greeting:  d.cfg.Interview.Greeting,
		ReportDir: d.cfg.ReportDir,
		Status:    hostOf(d.cfg.API.BaseURL),
	}
	if d.store != nil {
		opts.History = d.store.HistoryRepo()
	}

	d.log.Info("starting tui", zap.String("api_base", d.cfg.API.BaseURL))
	return app.Run(opts)
}

func hostOf(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL
	}
	return u.Host
}
