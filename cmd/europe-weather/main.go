package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ngmaloney/europe-weather/internal/config"
	"github.com/ngmaloney/europe-weather/internal/forecast"
	"github.com/ngmaloney/europe-weather/internal/geocoding"
	"github.com/ngmaloney/europe-weather/internal/netstatus"
	"github.com/ngmaloney/europe-weather/internal/resolver"
	"github.com/ngmaloney/europe-weather/internal/ui"
)

func main() {
	cfg, err := config.Load(os.Args[1:], ".env")
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Printf("Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	monitor := netstatus.NewMonitor(
		netstatus.DialProbe(cfg.ProbeAddr, cfg.HTTPTimeout),
		cfg.ProbeInterval,
		logger.With("component", "netstatus"),
	)
	go func() {
		monitor.Check(ctx)
		monitor.Run(ctx)
	}()

	searcher := geocoding.NewRateLimitedSearcher(
		geocoding.NewClient(cfg.GeocodingURL, cfg.HTTPTimeout, monitor, logger.With("component", "geocoding")),
		cfg.RateLimit, cfg.RateBurst,
	)
	fetcher := forecast.NewRateLimitedFetcher(
		forecast.NewClient(cfg.ForecastURL, cfg.HTTPTimeout, monitor, logger.With("component", "forecast")),
		cfg.RateLimit, cfg.RateBurst,
	)
	ctrl := resolver.NewController(searcher, fetcher, logger.With("component", "resolver"))

	logger.Info("starting", "geocoding_url", cfg.GeocodingURL, "forecast_url", cfg.ForecastURL, "city", cfg.City)

	m := ui.NewModel(ctrl, ui.Options{
		Debounce:    cfg.Debounce,
		InitialCity: cfg.City,
		NetChanges:  monitor.Changes(),
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes to the configured log file; the terminal belongs to the UI
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}, nil
	}

	f, err := tea.LogToFile(cfg.LogFile, "europe-weather")
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { f.Close() }, nil
}
