// Package api exposes the bot over HTTP and WebSocket.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"SignalSentinel/internal/model"
	"SignalSentinel/internal/scheduler"

	"github.com/rs/zerolog/log"
)

const (
	defaultTradeLimit = 50
	maxTradeLimit     = 500
)

// Controller is the bot surface the API drives.
type Controller interface {
	Start() error
	Stop() error
	Status() model.BotStatus
	Analyze(ctx context.Context) (*model.AnalysisSnapshot, model.ScoreReport, error)
	DailyStats() (model.DailyStats, error)
	Trades(limit int) ([]model.Trade, error)
	Wallet() model.FundState
	TestNotification() error
}

type controlRequest struct {
	Action string `json:"action"`
}

type controlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type analyzeResponse struct {
	Snapshot *model.AnalysisSnapshot `json:"snapshot"`
	Report   model.ScoreReport       `json:"report"`
}

// NewRouter registers all routes. metrics may be nil.
func NewRouter(ctrl Controller, hub *Hub, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ctrl.Status())
	})

	mux.HandleFunc("GET /api/trades", func(w http.ResponseWriter, r *http.Request) {
		trades, err := ctrl.Trades(parseLimit(r.URL.Query().Get("limit")))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if trades == nil {
			trades = []model.Trade{}
		}
		writeJSON(w, http.StatusOK, trades)
	})

	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		stats, err := ctrl.DailyStats()
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	mux.HandleFunc("GET /api/account", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, ctrl.Wallet())
	})

	mux.HandleFunc("POST /api/control", func(w http.ResponseWriter, r *http.Request) {
		var req controlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		var err error
		var msg string
		switch req.Action {
		case "start":
			err = ctrl.Start()
			msg = "bot started"
		case "stop":
			err = ctrl.Stop()
			msg = "bot stopped"
		default:
			writeJSON(w, http.StatusBadRequest, controlResponse{Message: "unknown action: " + req.Action})
			return
		}

		switch {
		case errors.Is(err, scheduler.ErrAlreadyRunning), errors.Is(err, scheduler.ErrNotRunning):
			writeJSON(w, http.StatusOK, controlResponse{Success: false, Message: err.Error()})
		case err != nil:
			writeError(w, http.StatusInternalServerError, err)
		default:
			writeJSON(w, http.StatusOK, controlResponse{Success: true, Message: msg})
		}
	})

	mux.HandleFunc("POST /api/analyze", func(w http.ResponseWriter, r *http.Request) {
		snap, report, err := ctrl.Analyze(r.Context())
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, model.ErrInsufficientData) || errors.Is(err, model.ErrNonFinite) {
				status = http.StatusUnprocessableEntity
			}
			writeError(w, status, err)
			return
		}
		writeJSON(w, http.StatusOK, analyzeResponse{Snapshot: snap, Report: report})
	})

	mux.HandleFunc("POST /api/test-notification", func(w http.ResponseWriter, r *http.Request) {
		if err := ctrl.TestNotification(); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, controlResponse{Success: true, Message: "test notification sent"})
	})

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	mux.HandleFunc("GET /ws", hub.ServeWS)

	return mux
}

// parseLimit falls back to 50 for missing or invalid values and caps at 500.
func parseLimit(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return defaultTradeLimit
	}
	if n > maxTradeLimit {
		return maxTradeLimit
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
