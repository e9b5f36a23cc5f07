package model

import "time"

// FundState tracks the paper wallet balances.
type FundState struct {
	QuoteAsset   string    `json:"quote_asset"`
	BaseAsset    string    `json:"base_asset"`
	QuoteBalance float64   `json:"quote_balance"`
	BaseBalance  float64   `json:"base_balance"`
	LastBuyPrice float64   `json:"last_buy_price"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Trade is one executed (paper) order appended to the ledger.
type Trade struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Quantity  float64   `json:"quantity"`
	Score     float64   `json:"score"`
	Profit    *float64  `json:"profit,omitempty"` // percent vs last buy, SELL only
	OrderID   string    `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
}

// DailyStats summarises the trades executed today.
type DailyStats struct {
	TotalTrades int     `json:"total_trades"`
	BuyTrades   int     `json:"buy_trades"`
	SellTrades  int     `json:"sell_trades"`
	TotalProfit float64 `json:"total_profit"`
}

// RiskCheck is the result of the daily trade limit check.
type RiskCheck struct {
	CanTrade   bool `json:"can_trade"`
	TradesLeft int  `json:"trades_left"`
	TodayCount int  `json:"today_count"`
}
