package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"SignalSentinel/internal/model"
)

const klinesBody = `[
	[1700003600000,"101.0","103.5","100.5","102.0","12.5",1700007199999,"0",10,"0","0","0"],
	[1700000000000,"100.0","102.0","99.0","101.0","10.0",1700003599999,"0",8,"0","0","0"]
]`

func newTestFetcher(url string) *BinanceFetcher {
	f := NewBinanceFetcher(url, "", 100)
	f.MaxElapsed = 3 * time.Second
	return f
}

func TestBinanceFetcher_FetchKlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "BTCUSDT" || q.Get("interval") != "1h" || q.Get("limit") != "2" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(klinesBody))
	}))
	defer srv.Close()

	candles, err := newTestFetcher(srv.URL).FetchKlines(context.Background(), "BTCUSDT", "1h", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	first := candles[0]
	if first.Open != 100 || first.High != 102 || first.Low != 99 || first.Close != 101 || first.Volume != 10 {
		t.Errorf("unexpected first candle: %+v", first)
	}
	if !first.OpenTime.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("candles not sorted chronologically: %v", first.OpenTime)
	}
	if !candles[1].CloseTime.Equal(time.UnixMilli(1700007199999)) {
		t.Errorf("unexpected close time %v", candles[1].CloseTime)
	}
}

func TestBinanceFetcher_FetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"symbol":"BTCUSDT","price":"64250.12000000"}`))
	}))
	defer srv.Close()

	price, err := newTestFetcher(srv.URL).FetchPrice(context.Background(), "BTCUSDT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 64250.12 {
		t.Errorf("expected 64250.12, got %v", price)
	}
}

func TestBinanceFetcher_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"price":"1.5"}`))
	}))
	defer srv.Close()

	price, err := newTestFetcher(srv.URL).FetchPrice(context.Background(), "X")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 1.5 || atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected retry then 1.5, got %v after %d calls", price, calls)
	}
}

func TestBinanceFetcher_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	_, err := newTestFetcher(srv.URL).FetchKlines(context.Background(), "NOPE", "1h", 10)
	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if serr.StatusCode != http.StatusBadRequest || serr.Retryable() {
		t.Errorf("unexpected status error: %+v", serr)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("4xx must not be retried, got %d calls", calls)
	}
}

func TestParseKline_Malformed(t *testing.T) {
	tests := []struct {
		name string
		row  []any
	}{
		{"short", []any{1.0, "1"}},
		{"string timestamp", []any{"x", "1", "1", "1", "1", "1", 2.0}},
		{"numeric price", []any{1.0, 1.0, "1", "1", "1", "1", 2.0}},
		{"bad float", []any{1.0, "abc", "1", "1", "1", "1", 2.0}},
	}
	for _, tt := range tests {
		if _, err := parseKline(tt.row); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestCollector_Collect(t *testing.T) {
	col := NewCollector(&MockFetcher{Price: 100}, "BTCUSDT", "", 0)
	if col.Interval != DefaultInterval || col.Limit != DefaultLimit {
		t.Fatalf("expected defaults, got %s/%d", col.Interval, col.Limit)
	}
	candles, err := col.Collect(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(candles) != DefaultLimit {
		t.Fatalf("expected %d candles, got %d", DefaultLimit, len(candles))
	}
	for i := 1; i < len(candles); i++ {
		if !candles[i].OpenTime.After(candles[i-1].OpenTime) {
			t.Fatalf("candle %d out of order", i)
		}
	}
}

func TestCollector_Errors(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewCollector(&MockFetcher{Err: boom}, "X", "1h", 10).Collect(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped fetch error, got %v", err)
	}
	empty := &MockFetcher{Candles: []model.Candle{}}
	if _, err := NewCollector(empty, "X", "1h", 10).Collect(context.Background()); !errors.Is(err, model.ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
