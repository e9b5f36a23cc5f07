package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SignalSentinel/internal/api"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/config"
	"SignalSentinel/internal/fund"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/publisher"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/scheduler"
	"SignalSentinel/internal/trader"

	"github.com/rs/zerolog/log"
)

const mockBasePrice = 50000

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	analysisCfg, err := cfg.AnalysisConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	scoringCfg, err := cfg.ScoringConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("symbol", cfg.Symbol).Dur("interval", cfg.Trading.CheckInterval).Msg("SignalSentinel starting")

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.Exchange.UseMock {
		fetcher = &collector.MockFetcher{Price: mockBasePrice}
	} else {
		fetcher = collector.NewBinanceFetcher(cfg.Exchange.BaseURL, cfg.Proxy, cfg.Exchange.RateLimit)
	}
	log.Info().Str("source", fetcher.Name()).Msg("data source ready")

	col := collector.NewCollector(fetcher, cfg.Symbol, cfg.Exchange.Interval, cfg.Exchange.Limit)

	wallet, err := fund.NewManager(cfg.Trading.StateFile, cfg.QuoteAsset, cfg.BaseAsset, cfg.Trading.InitialQuoteBalance)
	if err != nil {
		log.Fatal().Err(err).Msg("init paper wallet")
	}

	tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if err != nil {
		log.Fatal().Err(err).Msg("init telegram notifier")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	var pub publisher.Publisher = publisher.NoopPublisher{}
	if cfg.Redis.Addr != "" {
		rp, err := publisher.NewRedisPublisher(publisher.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, signals will not be published")
		} else {
			pub = rp
		}
	}
	defer pub.Close()

	m := metrics.NewMetrics()

	tr := trader.New(trader.Settings{
		Symbol:          cfg.Symbol,
		TradeAmount:     cfg.Trading.TradeAmount,
		MinScore:        cfg.Trading.MinScore,
		AllowBuyOrders:  cfg.Trading.AllowBuyOrders,
		AllowSellOrders: cfg.Trading.AllowSellOrders,
	}, wallet, rec)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bot := scheduler.NewBot(ctx, scheduler.Settings{
		Symbol:         cfg.Symbol,
		TradeAmount:    cfg.Trading.TradeAmount,
		MaxDailyTrades: cfg.Trading.MaxDailyTrades,
		CheckInterval:  cfg.Trading.CheckInterval,
	}, analysisCfg, scoringCfg, scheduler.Deps{
		Collector: col,
		Trader:    tr,
		Wallet:    wallet,
		Recorder:  rec,
		Notifier:  tn,
		Publisher: pub,
		Metrics:   m,
	})

	hub := api.NewHub()
	bot.Subscribe(hub.Broadcast)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(bot, hub, m.Handler()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	go tn.StartPolling(ctx, bot.HandleCommand)

	if cfg.Trading.AutoStart {
		if err := bot.Start(); err != nil {
			log.Error().Err(err).Msg("auto start failed")
		}
	}

	log.Info().Msg("SignalSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	if bot.IsRunning() {
		if err := bot.Stop(); err != nil {
			log.Warn().Err(err).Msg("stop bot")
		}
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("SignalSentinel stopped")
}
