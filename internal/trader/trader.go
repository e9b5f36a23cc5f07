// Package trader turns a score report into a paper order.
package trader

import (
	"fmt"
	"time"

	"SignalSentinel/internal/fund"
	"SignalSentinel/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Wallet executes paper fills.
type Wallet interface {
	Buy(price, quoteAmount float64) (fund.Fill, error)
	Sell(price float64) (fund.Fill, error)
}

// Ledger persists executed trades.
type Ledger interface {
	RecordTrade(t *model.Trade) error
}

// Settings controls which recommendations become orders.
type Settings struct {
	Symbol          string
	TradeAmount     float64 // quote amount per BUY
	MinScore        float64
	AllowBuyOrders  bool
	AllowSellOrders bool
}

type Trader struct {
	settings Settings
	wallet   Wallet
	ledger   Ledger
	now      func() time.Time
}

func New(settings Settings, wallet Wallet, ledger Ledger) *Trader {
	return &Trader{settings: settings, wallet: wallet, ledger: ledger, now: time.Now}
}

// Decide executes the recommendation when its score reaches the minimum
// trade score and the action is allowed. It returns nil without error when no
// order is placed.
func (t *Trader) Decide(report model.ScoreReport, price float64) (*model.Trade, error) {
	rec := report.Recommendation
	if rec.Score < t.settings.MinScore {
		log.Debug().Float64("score", rec.Score).Float64("min", t.settings.MinScore).Msg("score below trade minimum")
		return nil, nil
	}

	switch rec.Action {
	case model.ActionBuy:
		if !t.settings.AllowBuyOrders {
			log.Info().Float64("score", report.Buy.Total).Msg("buy signal ignored, buy orders disabled")
			return nil, nil
		}
		fill, err := t.wallet.Buy(price, t.settings.TradeAmount)
		if err != nil {
			return nil, fmt.Errorf("buy order: %w", err)
		}
		return t.record(model.ActionBuy, fill, report.Buy.Total)
	case model.ActionSell:
		if !t.settings.AllowSellOrders {
			log.Info().Float64("score", report.Sell.Total).Msg("sell signal ignored, sell orders disabled")
			return nil, nil
		}
		fill, err := t.wallet.Sell(price)
		if err != nil {
			return nil, fmt.Errorf("sell order: %w", err)
		}
		return t.record(model.ActionSell, fill, report.Sell.Total)
	default:
		return nil, nil
	}
}

func (t *Trader) record(action model.Action, fill fund.Fill, score float64) (*model.Trade, error) {
	trade := &model.Trade{
		ID:        uuid.NewString(),
		Action:    action,
		Symbol:    t.settings.Symbol,
		Price:     fill.Price,
		Quantity:  fill.Quantity,
		Score:     score,
		Profit:    fill.Profit,
		OrderID:   "paper",
		Timestamp: t.now(),
	}
	if err := t.ledger.RecordTrade(trade); err != nil {
		return trade, fmt.Errorf("record trade: %w", err)
	}
	log.Info().
		Str("action", string(action)).
		Str("symbol", trade.Symbol).
		Float64("price", trade.Price).
		Float64("quantity", trade.Quantity).
		Float64("score", score).
		Msg("paper order filled")
	return trade, nil
}
