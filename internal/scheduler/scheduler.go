package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SignalSentinel/internal/analyzer"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/fund"
	"SignalSentinel/internal/logger"
	"SignalSentinel/internal/metrics"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/notifier"
	"SignalSentinel/internal/publisher"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
	"SignalSentinel/internal/trader"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyRunning = errors.New("bot already running")
	ErrNotRunning     = errors.New("bot not running")
	ErrRiskLimit      = errors.New("daily trade limit reached")
)

const dailyReportCron = "0 0 23 * * *"

// Notifier delivers alert text.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Settings are the loop parameters.
type Settings struct {
	Symbol         string
	TradeAmount    float64
	MaxDailyTrades int
	CheckInterval  time.Duration
}

// Deps are the collaborators of a Bot.
type Deps struct {
	Collector *collector.Collector
	Trader    *trader.Trader
	Wallet    *fund.Manager
	Recorder  recorder.Recorder
	Notifier  Notifier
	Publisher publisher.Publisher
	Metrics   *metrics.Metrics
}

// Bot runs the analysis cycle on a cron schedule.
type Bot struct {
	ctx      context.Context
	settings Settings
	analysis analyzer.Config
	scoring  strategy.Config
	deps     Deps
	now      func() time.Time

	cycleMu sync.Mutex

	mu           sync.RWMutex
	cron         *cron.Cron
	running      bool
	startedAt    time.Time
	lastUpdate   time.Time
	currentPrice float64
	lastSnapshot *model.AnalysisSnapshot
	lastReport   *model.ScoreReport
	listeners    []func(model.CycleEvent)
}

// NewBot creates a stopped Bot. ctx bounds every cycle and notification.
func NewBot(ctx context.Context, settings Settings, analysis analyzer.Config, scoring strategy.Config, deps Deps) *Bot {
	if deps.Publisher == nil {
		deps.Publisher = publisher.NoopPublisher{}
	}
	if deps.Recorder == nil {
		deps.Recorder = recorder.NewNoopRecorder()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewMetrics()
	}
	return &Bot{
		ctx:      ctx,
		settings: settings,
		analysis: analysis,
		scoring:  scoring,
		deps:     deps,
		now:      time.Now,
	}
}

// Subscribe registers fn to receive every cycle event. fn must not block.
func (b *Bot) Subscribe(fn func(model.CycleEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Start checks connectivity, schedules the cycle every CheckInterval, runs
// the first cycle immediately and sends the start alert.
func (b *Bot) Start() error {
	if b.IsRunning() {
		return ErrAlreadyRunning
	}

	price, err := b.deps.Collector.CurrentPrice(b.ctx)
	if err != nil {
		b.trySend(notifier.FormatError("start", err))
		return fmt.Errorf("connection test: %w", err)
	}

	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return ErrAlreadyRunning
	}
	b.currentPrice = price

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	if _, err := c.AddFunc("@every "+b.settings.CheckInterval.String(), b.scheduledCycle); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("register cycle task: %w", err)
	}
	if _, err := c.AddFunc(dailyReportCron, b.dailyReport); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("register daily report: %w", err)
	}
	c.Start()

	b.cron = c
	b.running = true
	b.startedAt = b.now()
	b.mu.Unlock()

	log.Info().Str("symbol", b.settings.Symbol).Dur("interval", b.settings.CheckInterval).Float64("price", price).Msg("bot started")
	b.scheduledCycle()
	b.trySend(notifier.FormatStart(b.settings.Symbol, b.settings.TradeAmount, b.settings.CheckInterval))
	return nil
}

// Stop stops the schedule, waits for a running cycle and sends the stop alert.
func (b *Bot) Stop() error {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return ErrNotRunning
	}
	c := b.cron
	b.cron = nil
	b.running = false
	b.mu.Unlock()

	<-c.Stop().Done()
	log.Info().Msg("bot stopped")
	b.trySend(notifier.FormatStop())
	return nil
}

func (b *Bot) IsRunning() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.running
}

func (b *Bot) scheduledCycle() {
	if _, err := b.RunCycle(b.ctx); err != nil {
		if errors.Is(err, ErrRiskLimit) {
			log.Warn().Err(err).Msg("cycle skipped")
			return
		}
		log.Error().Err(err).Msg("cycle failed")
		b.trySend(notifier.FormatError("main loop", err))
	}
}

// RunCycle performs one full cycle: risk check, collect, analyze, score,
// record, publish and trade decision.
func (b *Bot) RunCycle(ctx context.Context) (*model.CycleEvent, error) {
	b.cycleMu.Lock()
	defer b.cycleMu.Unlock()

	risk, err := b.riskCheck()
	if err != nil {
		return nil, err
	}
	if !risk.CanTrade {
		b.deps.Metrics.CycleFailed(metrics.OutcomeRiskLimited)
		return nil, fmt.Errorf("%d/%d trades today: %w", risk.TodayCount, b.settings.MaxDailyTrades, ErrRiskLimit)
	}

	snap, report, took, err := b.analyze(ctx)
	if err != nil {
		return nil, err
	}
	b.deps.Metrics.ObserveCycle(snap, report, took)

	if err := b.deps.Recorder.RecordCycle(&recorder.CycleRecord{Symbol: b.settings.Symbol, Snapshot: snap, Report: report}); err != nil {
		log.Error().Err(err).Msg("record cycle")
	}

	log.Info().
		Float64("k", snap.Oscillator.K).
		Float64("fisher", snap.Transform).
		Float64("volume", snap.VolumeScore).
		Float64("buy", report.Buy.Total).
		Float64("sell", report.Sell.Total).
		Str("action", string(report.Recommendation.Action)).
		Msg("analysis complete")

	evt := model.CycleEvent{Symbol: b.settings.Symbol, Snapshot: snap, Report: report, At: snap.ComputedAt}

	trade, err := b.deps.Trader.Decide(report, snap.LastPrice)
	switch {
	case errors.Is(err, fund.ErrInsufficientBalance):
		log.Warn().Err(err).Msg("order skipped")
	case err != nil:
		log.Error().Err(err).Msg("trade decision")
		b.trySend(notifier.FormatError("trade", err))
	}
	if trade != nil {
		evt.Trade = trade
		b.deps.Metrics.TradeFilled(trade.Action)
		b.trySend(notifier.FormatTrade(trade))
	}

	if err := b.deps.Publisher.Publish(ctx, &evt); err != nil {
		log.Warn().Err(err).Msg("publish cycle event")
	}
	b.notify(evt)
	return &evt, nil
}

// Analyze collects and scores the current window without trading.
func (b *Bot) Analyze(ctx context.Context) (*model.AnalysisSnapshot, model.ScoreReport, error) {
	snap, report, _, err := b.analyze(ctx)
	return snap, report, err
}

func (b *Bot) analyze(ctx context.Context) (*model.AnalysisSnapshot, model.ScoreReport, time.Duration, error) {
	candles, err := b.deps.Collector.Collect(ctx)
	if err != nil {
		b.deps.Metrics.CycleFailed(metrics.OutcomeCollectError)
		return nil, model.ScoreReport{}, 0, err
	}

	start := time.Now()
	snap, err := analyzer.Analyze(candles, b.analysis, analyzer.WithTracer(logger.Tracer("analyzer")))
	if err != nil {
		b.deps.Metrics.CycleFailed(metrics.OutcomeAnalysisError)
		return nil, model.ScoreReport{}, 0, fmt.Errorf("analyze %d candles: %w", len(candles), err)
	}
	report := strategy.Evaluate(snap, b.scoring)
	took := time.Since(start)

	b.mu.Lock()
	b.currentPrice = snap.LastPrice
	b.lastSnapshot = snap
	b.lastReport = &report
	b.lastUpdate = b.now()
	b.mu.Unlock()

	return snap, report, took, nil
}

func (b *Bot) notify(evt model.CycleEvent) {
	b.mu.RLock()
	listeners := append([]func(model.CycleEvent){}, b.listeners...)
	b.mu.RUnlock()
	for _, fn := range listeners {
		fn(evt)
	}
}

func (b *Bot) todayTrades() ([]model.Trade, error) {
	now := b.now()
	y, m, d := now.Date()
	trades, err := b.deps.Recorder.TradesSince(time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
	if err != nil {
		return nil, fmt.Errorf("load today's trades: %w", err)
	}
	return trades, nil
}

func (b *Bot) riskCheck() (model.RiskCheck, error) {
	trades, err := b.todayTrades()
	if err != nil {
		return model.RiskCheck{}, err
	}
	return trader.CheckRiskLimits(trades, b.settings.MaxDailyTrades, b.now()), nil
}

// DailyStats summarises today's trades from the ledger.
func (b *Bot) DailyStats() (model.DailyStats, error) {
	trades, err := b.todayTrades()
	if err != nil {
		return model.DailyStats{}, err
	}
	return trader.DailyStats(trades, b.now()), nil
}

// Trades returns up to limit trades, newest first.
func (b *Bot) Trades(limit int) ([]model.Trade, error) {
	return b.deps.Recorder.LoadTrades(limit)
}

// Wallet returns the paper wallet balances.
func (b *Bot) Wallet() model.FundState {
	return b.deps.Wallet.GetState()
}

// Status returns a snapshot of the bot state.
func (b *Bot) Status() model.BotStatus {
	risk, err := b.riskCheck()
	if err != nil {
		log.Warn().Err(err).Msg("status risk check")
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	st := model.BotStatus{
		Running:       b.running,
		Symbol:        b.settings.Symbol,
		CurrentPrice:  b.currentPrice,
		CheckInterval: b.settings.CheckInterval,
		LastSnapshot:  b.lastSnapshot,
		LastReport:    b.lastReport,
		Wallet:        b.deps.Wallet.GetState(),
		Risk:          risk,
	}
	if b.running {
		started := b.startedAt
		st.StartedAt = &started
		st.Uptime = b.now().Sub(started)
	}
	if !b.lastUpdate.IsZero() {
		last := b.lastUpdate
		st.LastUpdate = &last
	}
	return st
}

// TestNotification sends a test message through the notifier.
func (b *Bot) TestNotification() error {
	return b.deps.Notifier.SendWithRetry(b.ctx, "🧪 Test notification, bot is alive", 0)
}

func (b *Bot) dailyReport() {
	stats, err := b.DailyStats()
	if err != nil {
		log.Error().Err(err).Msg("daily report")
		return
	}
	b.trySend(notifier.FormatDailyReport(stats))
}

// HandleCommand processes a Telegram command and returns a reply.
func (b *Bot) HandleCommand(command string) string {
	switch command {
	case "/status":
		st := b.Status()
		return notifier.FormatStatus(&st)
	case "/analyze":
		snap, report, err := b.Analyze(b.ctx)
		if err != nil {
			return notifier.FormatError("analyze", err)
		}
		return notifier.FormatAnalysis(b.settings.Symbol, snap, report)
	case "/stats":
		stats, err := b.DailyStats()
		if err != nil {
			return notifier.FormatError("stats", err)
		}
		return notifier.FormatDailyReport(stats)
	case "/start":
		if err := b.Start(); err != nil {
			return notifier.FormatError("start", err)
		}
		return ""
	case "/stop":
		if err := b.Stop(); err != nil {
			return notifier.FormatError("stop", err)
		}
		return ""
	default:
		return notifier.FormatHelp()
	}
}

func (b *Bot) trySend(text string) {
	if err := b.deps.Notifier.SendWithRetry(b.ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
