package trader

import (
	"math"
	"sort"
	"time"

	"SignalSentinel/internal/fund"
	"SignalSentinel/internal/model"
)

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	return ay == by && am == bm && ad == bd
}

func todayTrades(trades []model.Trade, now time.Time) []model.Trade {
	var out []model.Trade
	for _, tr := range trades {
		if sameDay(now, tr.Timestamp) {
			out = append(out, tr)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out
}

// CheckRiskLimits counts today's trades against the daily limit.
func CheckRiskLimits(trades []model.Trade, maxDaily int, now time.Time) model.RiskCheck {
	n := len(todayTrades(trades, now))
	left := maxDaily - n
	if left < 0 {
		left = 0
	}
	return model.RiskCheck{
		CanTrade:   n < maxDaily,
		TradesLeft: left,
		TodayCount: n,
	}
}

// DailyStats summarises today's trades. Profit sums consecutive BUY→SELL
// pairs in chronological order and is rounded to two decimals.
func DailyStats(trades []model.Trade, now time.Time) model.DailyStats {
	today := todayTrades(trades, now)

	stats := model.DailyStats{TotalTrades: len(today)}
	for _, tr := range today {
		switch tr.Action {
		case model.ActionBuy:
			stats.BuyTrades++
		case model.ActionSell:
			stats.SellTrades++
		}
	}

	var profit float64
	for i := 0; i+1 < len(today); i += 2 {
		buy, sell := today[i], today[i+1]
		if buy.Action == model.ActionBuy && sell.Action == model.ActionSell {
			profit += fund.PercentChange(sell.Price, buy.Price)
		}
	}
	stats.TotalProfit = math.Round(profit*100) / 100
	return stats
}
