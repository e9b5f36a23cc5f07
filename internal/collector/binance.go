package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"SignalSentinel/internal/model"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	BinanceBaseURL        = "https://api.binance.com"
	BinanceTestnetBaseURL = "https://testnet.binance.vision"
)

// StatusError is a non-200 response from the exchange.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the request may succeed on a later attempt.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// BinanceFetcher implements Fetcher using the Binance public REST API.
type BinanceFetcher struct {
	BaseURL    string
	Client     *http.Client
	Limiter    *rate.Limiter
	MaxElapsed time.Duration // retry budget per request
}

// NewBinanceFetcher creates a rate limited fetcher with optional proxy support.
func NewBinanceFetcher(baseURL, proxyURL string, requestsPerSec float64) *BinanceFetcher {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	burst := int(requestsPerSec)
	if burst < 1 {
		burst = 1
	}
	return &BinanceFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter:    rate.NewLimiter(rate.Limit(requestsPerSec), burst),
		MaxElapsed: 30 * time.Second,
	}
}

func (f *BinanceFetcher) Name() string { return "binance" }

func (f *BinanceFetcher) FetchKlines(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))

	body, err := f.get(ctx, "/api/v3/klines", q)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}

	var rows [][]any
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode klines: %w", err)
	}
	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		c, err := parseKline(row)
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		candles = append(candles, c)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime.Before(candles[j].OpenTime) })
	return candles, nil
}

func (f *BinanceFetcher) FetchPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", symbol)

	body, err := f.get(ctx, "/api/v3/ticker/price", q)
	if err != nil {
		return 0, fmt.Errorf("fetch price: %w", err)
	}
	var result struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return 0, fmt.Errorf("decode price: %w", err)
	}
	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", result.Price, err)
	}
	return price, nil
}

// get performs a rate limited GET, retrying transport errors, 429 and 5xx
// with exponential backoff.
func (f *BinanceFetcher) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	if err := f.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := f.BaseURL + path + "?" + q.Encode()
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.Client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			serr := &StatusError{StatusCode: resp.StatusCode, Body: string(data)}
			if serr.Retryable() {
				return serr
			}
			return backoff.Permanent(serr)
		}
		body = data
		return nil
	}

	strategy := backoff.NewExponentialBackOff()
	strategy.MaxElapsedTime = f.MaxElapsed
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("path", path).Dur("retry_in", wait).Msg("exchange request failed")
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(strategy, ctx), notify); err != nil {
		return nil, err
	}
	return body, nil
}

// parseKline decodes [openTime, open, high, low, close, volume, closeTime, ...].
func parseKline(row []any) (model.Candle, error) {
	if len(row) < 7 {
		return model.Candle{}, fmt.Errorf("expected at least 7 fields, got %d", len(row))
	}
	openMs, ok1 := row[0].(float64)
	closeMs, ok2 := row[6].(float64)
	if !ok1 || !ok2 {
		return model.Candle{}, errors.New("non-numeric timestamp")
	}

	var vals [5]float64
	for i := range vals {
		s, ok := row[i+1].(string)
		if !ok {
			return model.Candle{}, fmt.Errorf("field %d is not a string", i+1)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Candle{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		vals[i] = v
	}

	return model.Candle{
		OpenTime:  time.UnixMilli(int64(openMs)),
		CloseTime: time.UnixMilli(int64(closeMs)),
		Open:      vals[0],
		High:      vals[1],
		Low:       vals[2],
		Close:     vals[3],
		Volume:    vals[4],
	}, nil
}
