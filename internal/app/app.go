package app

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	"oilwatcher/internal/alerting"
	"oilwatcher/internal/config"
	"oilwatcher/internal/fetcher"
	"oilwatcher/internal/storage"
)

// ErrAlertsRaised marks a completed run that produced at least one alert. The
// CLI maps it onto a nonzero exit status; downstream notification
// integrations consume the returned alert slice instead.
var ErrAlertsRaised = errors.New("price alerts raised")

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newFetcher() fetcher.PriceFetcher {
	return fetcher.NewOilPriceAPI(fetcher.Options{
		URL:       a.Config.API.URL,
		Timeout:   a.Config.API.RequestTimeout,
		UserAgent: a.Config.API.UserAgent,
	}, a.Logger)
}

func (a *App) newStore() *storage.FileStore {
	return storage.NewFileStore(a.Config.Storage.Path, a.Logger)
}

func (a *App) newDetector() *alerting.Detector {
	return alerting.NewDetector(a.Config.Alerting.ThresholdPct, a.relevantSet(), a.Logger)
}

func (a *App) relevantSet() storage.CodeSet {
	return storage.NewCodeSet(a.Config.Commodities.Relevant)
}

// ExportOptions hold parameters for exporting historical snapshots.
type ExportOptions struct {
	From      *time.Time
	To        *time.Time
	PNGPath   string
	CSVPath   string
	MaxPoints int
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}

// SimulateOptions feed a synthetic price move through the detector.
type SimulateOptions struct {
	Code     string
	Name     string
	Previous float64
	Current  float64
}
