package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/suwandre/fundingarb/api"
	"github.com/suwandre/fundingarb/config"
	"github.com/suwandre/fundingarb/internal/exchange"
	"github.com/suwandre/fundingarb/internal/logging"
	"github.com/suwandre/fundingarb/internal/metrics"
	"github.com/suwandre/fundingarb/internal/scheduler"
)

func main() {
	// ── 1. Bootstrap logger until config is read
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// ── 2. Root context setup
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 3. Config + logger
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logFile := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	defer logFile.Close()
	log.Info().Msg("config loaded")

	// ── 4. Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// ── 5. Lighter stream
	lighterMarkets, err := exchange.LoadLighterMarkets(cfg.LighterMarketsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load lighter markets")
	}
	stream := exchange.NewLighterStream(cfg.LighterWSURL, m)
	go stream.Run(ctx)

	// ── 6. Exchange adapters
	rest := func(url string) exchange.RESTConfig {
		return exchange.RESTConfig{BaseURL: url, Timeout: cfg.HTTPTimeout, RPS: cfg.VenueRPS}
	}
	exchanges := []exchange.Exchange{
		exchange.NewDriftAdapter(rest(cfg.DriftURL)),
		exchange.NewHyperliquidAdapter(rest(cfg.HyperliquidURL)),
		exchange.NewGMXAdapter(rest(cfg.GMXURL), cfg.GMXCacheTTL, time.Now),
		exchange.NewLighterAdapter(stream),
		exchange.NewParadexAdapter(rest(cfg.ParadexURL)),
	}
	log.Info().
		Int("count", len(exchanges)).
		Int("lighter_markets", len(lighterMarkets)).
		Msg("exchange adapters initialized")

	// ── 7. Scheduler
	sched := scheduler.NewScheduler(exchanges, lighterMarkets, scheduler.Config{
		Interval:     cfg.RefreshInterval,
		FetchTimeout: cfg.HTTPTimeout + 5*time.Second,
	}, m)

	sched.Start(ctx)
	defer sched.Stop()

	// ── 8. Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Funding Arb",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	// ── 9. Routes
	api.SetupRoutes(app, sched, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	// ── 10. Graceful shutdown listener
	go func() {
		<-ctx.Done()
		log.Info().Msg("shutdown signal received")
		if err := app.Shutdown(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
	}()

	// ── 11. Start server (blocking)
	log.Info().Str("port", cfg.AppPort).Msg("starting server")
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
