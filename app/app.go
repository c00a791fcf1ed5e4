// Package app assembles the session registry and its collaborators from the
// environment. Both binaries start here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"nutribot"
	"nutribot/catalog"
	"nutribot/openfoodfacts"
	"nutribot/resolver"
	"nutribot/session"
	"nutribot/slack"
	"nutribot/storage"
	"nutribot/weather"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"
)

// Config is the environment configuration shared by every run mode.
type Config struct {
	Weather nutribot.WeatherConfig
	Food    nutribot.FoodConfig
	Log     nutribot.LogConfig
	Slack   nutribot.SlackConfig
}

// LoadConfig decodes Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg.Weather); err != nil {
		return Config{}, fmt.Errorf("failed to decode weather config: %w", err)
	}
	if err := envdecode.Decode(&cfg.Food); err != nil {
		return Config{}, fmt.Errorf("failed to decode food config: %w", err)
	}
	if err := envdecode.Decode(&cfg.Log); err != nil {
		return Config{}, fmt.Errorf("failed to decode log config: %w", err)
	}
	if err := envdecode.Decode(&cfg.Slack); err != nil {
		return Config{}, fmt.Errorf("failed to decode slack config: %w", err)
	}
	return cfg, nil
}

// App is a ready registry plus the telemetry it reports to.
type App struct {
	Registry  *session.Registry
	Telemetry nutribot.Telemetry

	shutdown func(ctx context.Context) error
}

// New wires the registry for mode. The caller must call Shutdown.
func New(ctx context.Context, cfg Config, mode string) (*App, error) {
	telemetry, otelShutdown, err := nutribot.InitOtel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	cat, err := LoadCatalog(ctx, cfg.Food)
	if err != nil {
		return nil, errors.Join(err, otelShutdown(ctx))
	}
	slog.Info("SETUP: Food catalog loaded", "entries", cat.Len())

	exchangeLogger, closeLog, err := nutribot.NewExchangeLogger(cfg.Log, mode)
	if err != nil {
		return nil, errors.Join(err, otelShutdown(ctx))
	}
	if cfg.Slack.WebhookURL != "" {
		mirror := slack.NewMirror(slack.NewClient(cfg.Slack.WebhookURL, http.DefaultClient), cfg.Slack.Channel)
		exchangeLogger = nutribot.MultiExchangeLogger{exchangeLogger, mirror}
		slog.Info("SETUP: Mirroring exchanges to Slack", "channel", cfg.Slack.Channel)
	}

	fr := resolver.New(cat,
		resolver.WithRemote(openfoodfacts.NewClient(openfoodfacts.ClientOpts{
			BaseURL:    cfg.Food.OpenFoodFactsBaseURL,
			HTTPClient: http.DefaultClient,
		})),
		resolver.WithTimeout(cfg.Food.LookupTimeout),
		resolver.WithTelemetry(telemetry),
	)

	opts := []session.Option{
		session.WithResolver(fr),
		session.WithWeatherTimeout(cfg.Weather.Timeout),
		session.WithExchangeLogger(exchangeLogger),
		session.WithTelemetry(telemetry),
	}

	if cfg.Weather.APIKey != "" {
		wc, err := weather.NewClient(weather.ClientOpts{
			BaseURL:    cfg.Weather.BaseURL,
			APIKey:     cfg.Weather.APIKey,
			HTTPClient: http.DefaultClient,
		})
		if err != nil {
			return nil, errors.Join(err, closeLog(), otelShutdown(ctx))
		}
		opts = append(opts, session.WithWeather(wc))
	} else {
		slog.Warn("SETUP: WEATHER_API_KEY not set, profiles will be saved without temperature")
	}

	return &App{
		Registry:  session.NewRegistry(opts...),
		Telemetry: telemetry,
		shutdown: func(ctx context.Context) error {
			return errors.Join(closeLog(), otelShutdown(ctx))
		},
	}, nil
}

// Shutdown closes the exchange log and flushes telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	return a.shutdown(ctx)
}

// LoadCatalog reads the food catalog from a local file, an S3 object or the
// bundled dataset, in that order of preference.
func LoadCatalog(ctx context.Context, cfg nutribot.FoodConfig) (*catalog.Catalog, error) {
	var src storage.CatalogSource

	switch {
	case cfg.CatalogPath != "":
		src = storage.NewFileCatalogSource(cfg.CatalogPath)
		slog.Info("SETUP: Using catalog file", "path", cfg.CatalogPath)
	case cfg.CatalogS3Bucket != "":
		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		src = storage.NewS3CatalogSource(s3.NewFromConfig(awsCfg), cfg.CatalogS3Bucket, cfg.CatalogS3Key)
		slog.Info("SETUP: Using catalog object", "bucket", cfg.CatalogS3Bucket, "key", cfg.CatalogS3Key)
	default:
		return catalog.Default(), nil
	}

	return storage.LoadCatalog(ctx, src)
}
