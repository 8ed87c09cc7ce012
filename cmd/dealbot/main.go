package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"dealbot/internal/config"
	"dealbot/internal/deals/itad"
	"dealbot/internal/format"
	"dealbot/internal/irc"
	"dealbot/internal/metrics"
	"dealbot/internal/ratelimit"
	"dealbot/internal/sale"
	"dealbot/internal/service"
	"dealbot/internal/shorten"
	"dealbot/internal/steam"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			logger.Info("serving metrics", zap.String("addr", cfg.Metrics.Addr))
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// one pooled client shared by every outbound integration
	httpClient := &http.Client{Timeout: cfg.Timeouts.HTTP}

	dealsClient := itad.New(itad.Config{
		APIKey:  cfg.Deals.APIKey,
		BaseURL: cfg.Deals.BaseURL,
		Region:  cfg.Deals.Region,
		Country: cfg.Deals.Country,
		Shops:   cfg.Deals.Shops,
		Since:   cfg.Deals.SinceCutoff,
	}, httpClient, logger)

	storeClient := steam.New(steam.Config{
		CountryCode: cfg.Steam.CountryCode,
		StoreURL:    cfg.Steam.StoreURL,
		APIURL:      cfg.Steam.APIURL,
		MaxResults:  cfg.Steam.MaxResults,
	}, httpClient, logger)

	saleScraper := sale.New(cfg.Sale.URL, httpClient, logger)

	shortener := shorten.New(shorten.Config{
		BaseURL: cfg.Shorten.BaseURL,
		TTL:     cfg.Shorten.TTL,
	}, httpClient, logger)
	defer shortener.Stop()

	games := service.NewGameService(service.GameServiceDeps{
		Deals:       dealsClient,
		Store:       storeClient,
		Logger:      logger,
		Metrics:     m,
		SinceCutoff: cfg.Deals.SinceCutoff,
	})

	handler := irc.NewHandler(irc.HandlerDeps{
		Games: games,
		Sale:  saleScraper,
		Renderer: &format.Renderer{
			Shorten:     shortener.Shorten,
			SinceMonths: cfg.Deals.SinceMonths,
		},
		Trigger: steam.AppIDFromText,
		Limiter: ratelimit.New(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		}),
		Logger:  logger,
		Metrics: m,
	})

	bot := irc.NewBot(irc.BotConfig{
		Server:   cfg.IRC.Server,
		Nick:     cfg.IRC.Nick,
		User:     cfg.IRC.User,
		Channels: cfg.IRC.Channels,
		UseTLS:   cfg.IRC.UseTLS,
	}, handler, logger)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		logger.Info("shutting down")
		bot.Quit()
	}()

	if err := bot.Run(); err != nil {
		logger.Fatal("bot stopped", zap.Error(err))
	}
}
