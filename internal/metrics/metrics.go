package metrics

import (
	"net/http"
	"time"

	"SignalSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cycle outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeRiskLimited   = "risk_limited"
	OutcomeCollectError  = "collect_error"
	OutcomeAnalysisError = "analysis_error"
)

// Metrics holds all Prometheus metrics for the bot.
type Metrics struct {
	CyclesTotal      *prometheus.CounterVec // labels: outcome
	TradesTotal      *prometheus.CounterVec // labels: action
	BuyScore         prometheus.Gauge
	SellScore        prometheus.Gauge
	OscillatorK      prometheus.Gauge
	Transform        prometheus.Gauge
	VolumeScore      prometheus.Gauge
	AnalysisDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates the metrics on a dedicated registry that also carries
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_cycles_total",
			Help: "Analysis cycles by outcome",
		}, []string{"outcome"}),
		TradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_trades_total",
			Help: "Paper orders filled by action",
		}, []string{"action"}),
		BuyScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_buy_score",
			Help: "Latest BUY total score (0-10)",
		}),
		SellScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_sell_score",
			Help: "Latest SELL total score (0-10)",
		}),
		OscillatorK: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_stochrsi_k",
			Help: "Latest smoothed stochastic RSI %K",
		}),
		Transform: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_fisher_transform",
			Help: "Latest Fisher transform value",
		}),
		VolumeScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_volume_score",
			Help: "Latest volume score (0-1)",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signal_analysis_duration_seconds",
			Help:    "Time spent computing indicators and scores",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.CyclesTotal,
		m.TradesTotal,
		m.BuyScore,
		m.SellScore,
		m.OscillatorK,
		m.Transform,
		m.VolumeScore,
		m.AnalysisDuration,
	)
	return m
}

// ObserveCycle records the indicator values and scores of a successful cycle.
func (m *Metrics) ObserveCycle(snap *model.AnalysisSnapshot, report model.ScoreReport, took time.Duration) {
	m.CyclesTotal.WithLabelValues(OutcomeOK).Inc()
	m.BuyScore.Set(report.Buy.Total)
	m.SellScore.Set(report.Sell.Total)
	m.OscillatorK.Set(snap.Oscillator.K)
	m.Transform.Set(snap.Transform)
	m.VolumeScore.Set(snap.VolumeScore)
	m.AnalysisDuration.Observe(took.Seconds())
}

// CycleFailed counts a cycle that ended early.
func (m *Metrics) CycleFailed(outcome string) {
	m.CyclesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TradeFilled(action model.Action) {
	m.TradesTotal.WithLabelValues(string(action)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
