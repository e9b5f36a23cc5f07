package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"SignalSentinel/internal/analyzer"
	"SignalSentinel/internal/collector"
	"SignalSentinel/internal/fund"
	"SignalSentinel/internal/model"
	"SignalSentinel/internal/recorder"
	"SignalSentinel/internal/strategy"
	"SignalSentinel/internal/trader"
)

type stubNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *stubNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, text)
	return nil
}

func (n *stubNotifier) contains(sub string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, m := range n.msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

// decliningCandles falls one unit per candle with no wicks, which drives
// %K to 0 and the transform to its lower clamp.
func decliningCandles(n int) []model.Candle {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.Candle, n)
	for i := range out {
		p := float64(300 - i)
		open := start.Add(time.Duration(i) * time.Hour)
		out[i] = model.Candle{
			OpenTime: open, CloseTime: open.Add(time.Hour - time.Millisecond),
			Open: p, High: p, Low: p, Close: p, Volume: 1000,
		}
	}
	return out
}

type fixture struct {
	bot      *Bot
	notifier *stubNotifier
	recorder *recorder.SQLiteRecorder
	fetcher  *collector.MockFetcher
}

func newFixture(t *testing.T, maxDaily int) *fixture {
	t.Helper()
	dir := t.TempDir()

	rec, err := recorder.NewSQLiteRecorder(filepath.Join(dir, "bot.db"))
	if err != nil {
		t.Fatalf("recorder: %v", err)
	}
	t.Cleanup(func() { rec.Close() })

	wallet, err := fund.NewManager(filepath.Join(dir, "fund.json"), "USDT", "BTC", 1000)
	if err != nil {
		t.Fatalf("wallet: %v", err)
	}

	fetcher := &collector.MockFetcher{Price: 101, Candles: decliningCandles(200)}
	n := &stubNotifier{}
	tr := trader.New(trader.Settings{Symbol: "BTCUSDT", TradeAmount: 10, MinScore: 7, AllowBuyOrders: true}, wallet, rec)

	bot := NewBot(context.Background(),
		Settings{Symbol: "BTCUSDT", TradeAmount: 10, MaxDailyTrades: maxDaily, CheckInterval: time.Hour},
		analyzer.DefaultConfig(), strategy.DefaultConfig(),
		Deps{
			Collector: collector.NewCollector(fetcher, "BTCUSDT", "1h", 200),
			Trader:    tr,
			Wallet:    wallet,
			Recorder:  rec,
			Notifier:  n,
		})
	return &fixture{bot: bot, notifier: n, recorder: rec, fetcher: fetcher}
}

func TestRunCycle_BuysOnOversold(t *testing.T) {
	f := newFixture(t, 10)

	var got []model.CycleEvent
	f.bot.Subscribe(func(evt model.CycleEvent) { got = append(got, evt) })

	evt, err := f.bot.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := evt.Report.Recommendation
	if rec.Action != model.ActionBuy {
		t.Fatalf("expected BUY, got %+v", evt.Report)
	}
	if evt.Snapshot.Oscillator.K != 0 || evt.Snapshot.LastPrice != 101 {
		t.Errorf("unexpected snapshot: %+v", evt.Snapshot)
	}
	if evt.Trade == nil || evt.Trade.Action != model.ActionBuy || evt.Trade.Price != 101 {
		t.Fatalf("expected a BUY fill at 101, got %+v", evt.Trade)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 subscriber event, got %d", len(got))
	}
	if !f.notifier.contains("BUY order filled") {
		t.Error("expected trade alert")
	}

	trades, err := f.bot.Trades(10)
	if err != nil || len(trades) != 1 {
		t.Fatalf("expected 1 recorded trade, got %v %v", trades, err)
	}
	if w := f.bot.Wallet(); w.QuoteBalance != 990 {
		t.Errorf("expected 990 USDT left, got %v", w.QuoteBalance)
	}

	st := f.bot.Status()
	if st.LastReport == nil || st.LastUpdate == nil || st.CurrentPrice != 101 {
		t.Errorf("status not updated: %+v", st)
	}
	if st.Risk.TodayCount != 1 {
		t.Errorf("expected 1 trade today, got %d", st.Risk.TodayCount)
	}
}

func TestRunCycle_RiskLimit(t *testing.T) {
	f := newFixture(t, 1)
	if _, err := f.bot.RunCycle(context.Background()); err != nil {
		t.Fatalf("first cycle: %v", err)
	}
	_, err := f.bot.RunCycle(context.Background())
	if !errors.Is(err, ErrRiskLimit) {
		t.Fatalf("expected ErrRiskLimit, got %v", err)
	}
}

func TestRunCycle_CollectError(t *testing.T) {
	f := newFixture(t, 10)
	f.fetcher.Err = errors.New("exchange down")
	if _, err := f.bot.RunCycle(context.Background()); err == nil || !strings.Contains(err.Error(), "exchange down") {
		t.Fatalf("expected collect error, got %v", err)
	}
}

func TestRunCycle_InsufficientCandles(t *testing.T) {
	f := newFixture(t, 10)
	f.fetcher.Candles = decliningCandles(20)
	_, err := f.bot.RunCycle(context.Background())
	if !errors.Is(err, model.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if f.bot.Status().LastReport != nil {
		t.Error("failed cycle must not publish a report")
	}
}

func TestStartStop(t *testing.T) {
	f := newFixture(t, 10)

	if err := f.bot.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}
	if err := f.bot.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !f.bot.IsRunning() {
		t.Fatal("expected running")
	}
	if err := f.bot.Start(); !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	if f.bot.Status().StartedAt == nil {
		t.Error("expected start time in status")
	}
	if err := f.bot.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if f.bot.IsRunning() {
		t.Fatal("expected stopped")
	}
	if !f.notifier.contains("started") || !f.notifier.contains("stopped") {
		t.Errorf("expected start and stop alerts, got %v", f.notifier.msgs)
	}
}

// gatedFetcher blocks FetchPrice until release is closed.
type gatedFetcher struct {
	*collector.MockFetcher
	entered chan struct{}
	release chan struct{}
}

func (g *gatedFetcher) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	close(g.entered)
	<-g.release
	return g.MockFetcher.FetchPrice(ctx, symbol)
}

func TestStart_StatusNotBlockedByConnectionCheck(t *testing.T) {
	f := newFixture(t, 10)
	gate := &gatedFetcher{MockFetcher: f.fetcher, entered: make(chan struct{}), release: make(chan struct{})}
	f.bot.deps.Collector = collector.NewCollector(gate, "BTCUSDT", "1h", 200)

	started := make(chan error, 1)
	go func() { started <- f.bot.Start() }()
	<-gate.entered

	statusDone := make(chan model.BotStatus, 1)
	go func() { statusDone <- f.bot.Status() }()
	select {
	case st := <-statusDone:
		if st.Running {
			t.Error("bot must not report running before the connection check passes")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Status blocked while Start was checking connectivity")
	}

	close(gate.release)
	if err := <-started; err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := f.bot.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestStart_ConnectionFailure(t *testing.T) {
	f := newFixture(t, 10)
	f.fetcher.Err = errors.New("dns failure")
	if err := f.bot.Start(); err == nil {
		t.Fatal("expected connection error")
	}
	if f.bot.IsRunning() {
		t.Error("bot must stay stopped")
	}
	if !f.notifier.contains("dns failure") {
		t.Error("expected error alert")
	}
}

func TestHandleCommand(t *testing.T) {
	f := newFixture(t, 10)

	if reply := f.bot.HandleCommand("/status"); !strings.Contains(reply, "Status") {
		t.Errorf("unexpected /status reply: %s", reply)
	}
	if reply := f.bot.HandleCommand("/analyze"); !strings.Contains(reply, "BTCUSDT analysis") {
		t.Errorf("unexpected /analyze reply: %s", reply)
	}
	if reply := f.bot.HandleCommand("/stats"); !strings.Contains(reply, "Trades: 0") {
		t.Errorf("unexpected /stats reply: %s", reply)
	}
	if reply := f.bot.HandleCommand("/stop"); !strings.Contains(reply, ErrNotRunning.Error()) {
		t.Errorf("unexpected /stop reply: %s", reply)
	}
	if reply := f.bot.HandleCommand("hello"); !strings.Contains(reply, "/analyze") {
		t.Errorf("expected help, got %s", reply)
	}
}
