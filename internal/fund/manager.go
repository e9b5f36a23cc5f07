package fund

import (
	"errors"
	"fmt"
	"sync"

	"SignalSentinel/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	quantityDecimals = 6
	// MinSellQuantity is the smallest base balance worth selling.
	MinSellQuantity = 0.001
	// sellFraction leaves room for exchange commission.
	sellFraction = 0.95
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidPrice        = errors.New("invalid price")
)

// Fill is the result of a paper order.
type Fill struct {
	Quantity float64
	Price    float64
	Profit   *float64 // percent vs last buy price, SELL only
}

// Manager holds the paper wallet with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *model.FundState
	filePath string
}

// NewManager creates a Manager, loading or initializing state from disk.
// A fresh wallet starts with initialQuote in the quote asset.
func NewManager(filePath, quoteAsset, baseAsset string, initialQuote float64) (*Manager, error) {
	state, found, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	if !found {
		state.QuoteAsset = quoteAsset
		state.BaseAsset = baseAsset
		state.QuoteBalance = initialQuote
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// GetState returns a copy of the current wallet state.
func (m *Manager) GetState() model.FundState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.state
}

// Balance returns the free balance of the given asset, 0 for unknown assets.
func (m *Manager) Balance(asset string) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch asset {
	case m.state.QuoteAsset:
		return m.state.QuoteBalance
	case m.state.BaseAsset:
		return m.state.BaseBalance
	default:
		return 0
	}
}

// Buy spends quoteAmount at price. Quantity is rounded to 6 decimals.
func (m *Manager) Buy(price, quoteAmount float64) (Fill, error) {
	if price <= 0 {
		return Fill{}, fmt.Errorf("buy at %v: %w", price, ErrInvalidPrice)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.QuoteBalance < quoteAmount {
		return Fill{}, fmt.Errorf("%s %.2f < %.2f: %w", m.state.QuoteAsset, m.state.QuoteBalance, quoteAmount, ErrInsufficientBalance)
	}

	qty := Quantity(quoteAmount, price)
	m.state.QuoteBalance, _ = decimal.NewFromFloat(m.state.QuoteBalance).
		Sub(decimal.NewFromFloat(quoteAmount)).Float64()
	m.state.BaseBalance, _ = decimal.NewFromFloat(m.state.BaseBalance).
		Add(decimal.NewFromFloat(qty)).Float64()
	m.state.LastBuyPrice = price

	if err := m.save(); err != nil {
		log.Error().Err(err).Msg("failed to save fund state after buy")
	}
	return Fill{Quantity: qty, Price: price}, nil
}

// Sell sells 95% of the base balance at price.
func (m *Manager) Sell(price float64) (Fill, error) {
	if price <= 0 {
		return Fill{}, fmt.Errorf("sell at %v: %w", price, ErrInvalidPrice)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.BaseBalance < MinSellQuantity {
		return Fill{}, fmt.Errorf("%s %.6f < %.3f: %w", m.state.BaseAsset, m.state.BaseBalance, MinSellQuantity, ErrInsufficientBalance)
	}

	qty, _ := decimal.NewFromFloat(m.state.BaseBalance).
		Mul(decimal.NewFromFloat(sellFraction)).
		Round(quantityDecimals).Float64()
	proceeds := decimal.NewFromFloat(qty).Mul(decimal.NewFromFloat(price))

	m.state.BaseBalance, _ = decimal.NewFromFloat(m.state.BaseBalance).
		Sub(decimal.NewFromFloat(qty)).Float64()
	m.state.QuoteBalance, _ = decimal.NewFromFloat(m.state.QuoteBalance).
		Add(proceeds).Round(8).Float64()

	fill := Fill{Quantity: qty, Price: price}
	if m.state.LastBuyPrice > 0 {
		p := PercentChange(price, m.state.LastBuyPrice)
		fill.Profit = &p
	}

	if err := m.save(); err != nil {
		log.Error().Err(err).Msg("failed to save fund state after sell")
	}
	return fill, nil
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}

// Quantity converts a quote amount to base units at price, rounded to 6 decimals.
func Quantity(quoteAmount, price float64) float64 {
	q, _ := decimal.NewFromFloat(quoteAmount).
		DivRound(decimal.NewFromFloat(price), quantityDecimals).Float64()
	return q
}

// PercentChange returns (current-previous)/previous*100, 0 when previous is 0.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
