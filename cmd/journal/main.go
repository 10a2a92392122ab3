package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/tradejournal/config"
	"github.com/alejandrodnm/tradejournal/internal/adapters/httpapi"
	"github.com/alejandrodnm/tradejournal/internal/adapters/notify"
	"github.com/alejandrodnm/tradejournal/internal/adapters/storage"
	"github.com/alejandrodnm/tradejournal/internal/application/analytics"
	"github.com/alejandrodnm/tradejournal/internal/application/journal"
	"github.com/alejandrodnm/tradejournal/internal/domain"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	report := flag.Bool("report", false, "print the analytics report and exit instead of serving")
	from := flag.String("from", "", "report: first session day, YYYY-MM-DD")
	to := flag.String("to", "", "report: last session day, YYYY-MM-DD")
	weeks := flag.Int("weeks", -1, "report: last N weeks in the weekly table (default from config, 0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	svc := journal.New(store, domain.NormalizeOptions{
		StrictNumbers: cfg.Normalizer.StrictNumbers,
		StrictEnums:   cfg.Normalizer.StrictEnums,
	})
	stats := analytics.New(svc)
	svc.OnChange(stats.Invalidate)
	svc.OnChange(func(ev domain.ChangeEvent) {
		slog.Debug("journal changed", "kind", ev.Kind, "daily_log_id", ev.DailyLogID, "trade_id", ev.TradeID)
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *report {
		n := cfg.Analytics.DefaultWeeks
		if *weeks >= 0 {
			n = *weeks
		}
		if err := runReport(ctx, stats, *from, *to, n); err != nil {
			slog.Error("report failed", "err", err)
			os.Exit(1)
		}
		return
	}

	slog.Info("journal starting",
		"config", *configPath,
		"addr", cfg.Server.Addr,
		"dsn", cfg.Storage.DSN,
		"strict_numbers", cfg.Normalizer.StrictNumbers,
		"strict_enums", cfg.Normalizer.StrictEnums,
	)

	srv := httpapi.NewServer(httpapi.Config{
		Addr:              cfg.Server.Addr,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
		ReadTimeout:       cfg.ReadTimeout(),
		DefaultWeeks:      cfg.Analytics.DefaultWeeks,
	}, svc, stats)

	if err := srv.Run(ctx); err != nil {
		slog.Error("server exited with error", "err", err)
		os.Exit(1)
	}

	slog.Info("journal stopped cleanly")
}

func runReport(ctx context.Context, stats *analytics.Service, from, to string, weeks int) error {
	rng, err := domain.ParseDateRange(from, to)
	if err != nil {
		return err
	}
	a, err := stats.Compute(ctx, rng)
	if err != nil {
		return err
	}
	return notify.NewConsole(weeks).Report(ctx, rng, a)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
