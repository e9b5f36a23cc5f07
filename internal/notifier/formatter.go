package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/strategy"
)

const timeLayout = "2006-01-02 15:04:05"

// FormatStart formats the bot start alert.
func FormatStart(symbol string, tradeAmount float64, interval time.Duration) string {
	var b strings.Builder
	b.WriteString("🚀 <b>SignalSentinel started</b>\n\n")
	b.WriteString(fmt.Sprintf("Symbol: %s\n", symbol))
	b.WriteString(fmt.Sprintf("Trade amount: $%.2f\n", tradeAmount))
	b.WriteString(fmt.Sprintf("Check interval: %s\n\n", interval))
	b.WriteString(fmt.Sprintf("⏰ %s", time.Now().Format(timeLayout)))
	return b.String()
}

// FormatStop formats the bot stop alert.
func FormatStop() string {
	return fmt.Sprintf("🛑 <b>SignalSentinel stopped</b>\n\n⏰ %s", time.Now().Format(timeLayout))
}

// FormatTrade formats a filled BUY or SELL order.
func FormatTrade(t *model.Trade) string {
	var b strings.Builder
	switch t.Action {
	case model.ActionBuy:
		b.WriteString("🟢 <b>BUY order filled</b>\n\n")
	case model.ActionSell:
		b.WriteString("🔴 <b>SELL order filled</b>\n\n")
	default:
		b.WriteString(fmt.Sprintf("<b>%s order filled</b>\n\n", t.Action))
	}
	b.WriteString(fmt.Sprintf("Symbol: %s\n", t.Symbol))
	b.WriteString(fmt.Sprintf("Price: $%s\n", formatPrice(t.Price)))
	b.WriteString(fmt.Sprintf("Quantity: %.6f\n", t.Quantity))
	fs := strategy.FormatScore(t.Score)
	b.WriteString(fmt.Sprintf("Score: %.2f/10 %s\n", fs.Value, fs.Stars))
	if t.Profit != nil {
		b.WriteString(fmt.Sprintf("P/L: %+.2f%%\n", *t.Profit))
	}
	b.WriteString(fmt.Sprintf("\n⏰ %s", t.Timestamp.Format(timeLayout)))
	return b.String()
}

// FormatError formats an error alert. The error text is HTML escaped.
func FormatError(context string, err error) string {
	return fmt.Sprintf("⚠️ <b>Error</b>\n\nContext: %s\nError: %s\n\n⏰ %s",
		html.EscapeString(context), html.EscapeString(err.Error()), time.Now().Format(timeLayout))
}

// FormatAnalysis formats one cycle's indicators and scores.
func FormatAnalysis(symbol string, snap *model.AnalysisSnapshot, report model.ScoreReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>%s analysis</b>\n\n", symbol))
	b.WriteString(fmt.Sprintf("Price: $%s\n", formatPrice(snap.LastPrice)))
	b.WriteString(fmt.Sprintf("StochRSI K/D: %.2f / %.2f (%s, %s)\n",
		snap.Oscillator.K, snap.Oscillator.D, snap.Oscillator.Trend, strategy.OscillatorSignal(snap.Oscillator.K)))
	b.WriteString(fmt.Sprintf("Fisher: %.3f (%s)\n", snap.Transform, strategy.TransformSignal(snap.Transform)))
	b.WriteString(fmt.Sprintf("Volume: %.2f (%s)\n\n", snap.VolumeScore, strategy.VolumeSignal(snap.VolumeScore)))

	buy, sell := strategy.FormatScore(report.Buy.Total), strategy.FormatScore(report.Sell.Total)
	b.WriteString(fmt.Sprintf("Buy score: %.2f/10 %s\n", buy.Value, buy.Stars))
	b.WriteString(fmt.Sprintf("Sell score: %.2f/10 %s\n", sell.Value, sell.Stars))

	rec := report.Recommendation
	b.WriteString(fmt.Sprintf("\n<b>Recommendation:</b> %s (confidence %.0f%%)\n", rec.Action, rec.Confidence*100))
	b.WriteString(fmt.Sprintf("Signal: %s", strategy.OverallSignal(snap)))
	return b.String()
}

// FormatStatus formats the bot status for the /status command.
func FormatStatus(st *model.BotStatus) string {
	var b strings.Builder
	state := "⏸ stopped"
	if st.Running {
		state = "▶️ running"
	}
	b.WriteString(fmt.Sprintf("🤖 <b>Status</b>: %s\n\n", state))
	b.WriteString(fmt.Sprintf("Symbol: %s\n", st.Symbol))
	if st.Running {
		b.WriteString(fmt.Sprintf("Uptime: %s\n", st.Uptime.Truncate(time.Second)))
	}
	if st.CurrentPrice > 0 {
		b.WriteString(fmt.Sprintf("Price: $%s\n", formatPrice(st.CurrentPrice)))
	}
	if st.LastReport != nil {
		rec := st.LastReport.Recommendation
		b.WriteString(fmt.Sprintf("Last recommendation: %s (%.2f)\n", rec.Action, rec.Score))
	}
	if st.LastUpdate != nil {
		b.WriteString(fmt.Sprintf("Last update: %s\n", st.LastUpdate.Format(timeLayout)))
	}
	w := st.Wallet
	b.WriteString(fmt.Sprintf("\nWallet: %.2f %s | %.6f %s\n", w.QuoteBalance, w.QuoteAsset, w.BaseBalance, w.BaseAsset))
	b.WriteString(fmt.Sprintf("Trades today: %d (left %d)", st.Risk.TodayCount, st.Risk.TradesLeft))
	return b.String()
}

// FormatDailyReport formats today's trade statistics.
func FormatDailyReport(stats model.DailyStats) string {
	var b strings.Builder
	b.WriteString("📈 <b>Daily report</b>\n\n")
	b.WriteString(fmt.Sprintf("Trades: %d\n", stats.TotalTrades))
	b.WriteString(fmt.Sprintf("🟢 Buys: %d\n", stats.BuyTrades))
	b.WriteString(fmt.Sprintf("🔴 Sells: %d\n", stats.SellTrades))
	b.WriteString(fmt.Sprintf("💰 Total P/L: %+.2f%%", stats.TotalProfit))
	return b.String()
}

// FormatHelp lists the available commands.
func FormatHelp() string {
	return "Available commands:\n/status - bot status\n/analyze - run an analysis now\n/stats - today's trades\n/start - start trading loop\n/stop - stop trading loop"
}

// formatPrice picks decimals by magnitude: 2 above 1, 4 above 0.01, else 8.
func formatPrice(p float64) string {
	switch {
	case p >= 1:
		return fmt.Sprintf("%.2f", p)
	case p >= 0.01:
		return fmt.Sprintf("%.4f", p)
	default:
		return fmt.Sprintf("%.8f", p)
	}
}
