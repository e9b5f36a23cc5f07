package fund

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func newTestManager(t *testing.T, quote float64) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "fund.json")
	m, err := NewManager(path, "USDT", "BTC", quote)
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	return m, path
}

func TestQuantity(t *testing.T) {
	tests := []struct {
		amount, price, want float64
	}{
		{10, 50000, 0.0002},
		{10, 3, 3.333333},
		{100, 0.7, 142.857143},
	}
	for _, tt := range tests {
		if got := Quantity(tt.amount, tt.price); got != tt.want {
			t.Errorf("Quantity(%v, %v): expected %v, got %v", tt.amount, tt.price, tt.want, got)
		}
	}
}

func TestBuyThenSell(t *testing.T) {
	m, _ := newTestManager(t, 100)

	fill, err := m.Buy(2, 50)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if fill.Quantity != 25 {
		t.Errorf("expected 25 units, got %v", fill.Quantity)
	}
	if got := m.Balance("USDT"); got != 50 {
		t.Errorf("expected 50 USDT left, got %v", got)
	}

	fill, err = m.Sell(2.5)
	if err != nil {
		t.Fatalf("sell: %v", err)
	}
	if fill.Quantity != 23.75 {
		t.Errorf("expected 95%% of 25 = 23.75, got %v", fill.Quantity)
	}
	if fill.Profit == nil || math.Abs(*fill.Profit-25) > 1e-9 {
		t.Errorf("expected +25%% profit, got %v", fill.Profit)
	}
	if got := m.Balance("BTC"); math.Abs(got-1.25) > 1e-9 {
		t.Errorf("expected 1.25 BTC left, got %v", got)
	}
	// 50 + 23.75*2.5
	if got := m.Balance("USDT"); math.Abs(got-109.375) > 1e-9 {
		t.Errorf("expected 109.375 USDT, got %v", got)
	}
}

func TestBuy_InsufficientQuote(t *testing.T) {
	m, _ := newTestManager(t, 5)
	_, err := m.Buy(100, 10)
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	if m.GetState().QuoteBalance != 5 {
		t.Error("failed buy must not change balances")
	}
}

func TestSell_BelowMinimum(t *testing.T) {
	m, _ := newTestManager(t, 100)
	if _, err := m.Sell(100); !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
}

func TestInvalidPrice(t *testing.T) {
	m, _ := newTestManager(t, 100)
	if _, err := m.Buy(0, 10); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice for buy, got %v", err)
	}
	if _, err := m.Sell(-1); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice for sell, got %v", err)
	}
}

func TestStatePersists(t *testing.T) {
	m, path := newTestManager(t, 100)
	if _, err := m.Buy(4, 20); err != nil {
		t.Fatalf("buy: %v", err)
	}

	reloaded, err := NewManager(path, "USDT", "BTC", 999)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	st := reloaded.GetState()
	if st.QuoteBalance != 80 || st.BaseBalance != 5 || st.LastBuyPrice != 4 {
		t.Errorf("unexpected reloaded state: %+v", st)
	}
}

func TestLoadState(t *testing.T) {
	dir := t.TempDir()

	st, found, err := LoadState(filepath.Join(dir, "missing.json"))
	if err != nil || found || st == nil {
		t.Fatalf("missing file: state=%v found=%v err=%v", st, found, err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := LoadState(bad); err == nil {
		t.Error("expected parse error for corrupt wallet")
	}
	if _, err := NewManager(bad, "USDT", "BTC", 100); err == nil {
		t.Error("expected NewManager to refuse a corrupt wallet")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the corrupt file, got %d entries", len(entries))
	}
}

func TestPercentChange(t *testing.T) {
	if got := PercentChange(110, 100); math.Abs(got-10) > 1e-9 {
		t.Errorf("expected 10, got %v", got)
	}
	if got := PercentChange(5, 0); got != 0 {
		t.Errorf("expected 0 for zero base, got %v", got)
	}
}
