// Package api provides the HTTP API for observing exchange state.
// All endpoints are GET and read-only.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/talgya/mini-bourse/internal/engine"
	"github.com/talgya/mini-bourse/internal/exchange"
)

// Server serves the exchange state over HTTP.
type Server struct {
	Sim   *engine.Simulation
	Eng   *engine.Engine
	Port  int
	RunID string
}

// Start begins serving the HTTP API in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/markets", s.handleMarkets)
	mux.HandleFunc("/api/v1/market/", s.handleMarketDetail)
	mux.HandleFunc("/api/v1/price", s.handlePrice)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		handler := corsMiddleware(mux)
		if err := http.ListenAndServe(addr, handler); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set CORS_ORIGINS to a comma-separated list; localhost dev servers are
// always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"run_id":  s.RunID,
		"turn":    s.Sim.CurrentTurn(),
		"markets": s.Sim.Exchange.Len(),
		"running": s.Eng != nil && s.Eng.Running,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.Stats)
}

func (s *Server) handleMarkets(w http.ResponseWriter, r *http.Request) {
	type marketEntry struct {
		Pair      string  `json:"pair"`
		Base      int64   `json:"base"`
		Quote     int64   `json:"quote"`
		Close     float64 `json:"close"`
		Liquidity float64 `json:"liquidity"`
		Intervals int     `json:"intervals"`
	}

	result := make([]marketEntry, 0, s.Sim.Exchange.Len())
	s.Sim.Exchange.Each(func(m *exchange.Market) {
		entry := marketEntry{
			Pair:      m.ID.Code(),
			Base:      m.Pool.Res.Base,
			Quote:     m.Pool.Res.Quote,
			Liquidity: m.Liquidity(),
			Intervals: len(m.History),
		}
		if c, ok := m.LastClose(); ok {
			entry.Close = c
		}
		result = append(result, entry)
	})
	writeJSON(w, result)
}

// handleMarketDetail serves GET /api/v1/market/:pair with the full candle
// history, e.g. /api/v1/market/3%2FF7 for the pair "3/F7".
func (s *Server) handleMarketDetail(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimPrefix(r.URL.Path, "/api/v1/market/")
	pair, err := exchange.ParsePair(code)
	if err != nil {
		http.Error(w, "bad pair code", http.StatusBadRequest)
		return
	}

	m, _, ok := s.Sim.Exchange.Lookup(pair)
	if !ok {
		http.Error(w, "no such market", http.StatusNotFound)
		return
	}

	writeJSON(w, map[string]any{
		"pair":     m.ID.Code(),
		"reserves": m.Pool.Res,
		"volume":   m.Pool.Vol,
		"dividend": m.Dividend.String(),
		"current":  m.Current,
		"history":  m.History,
	})
}

// handlePrice serves GET /api/v1/price?of=3&in=F7.
func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	of, err := exchange.ParseAsset(r.URL.Query().Get("of"))
	if err != nil {
		http.Error(w, "bad 'of' asset code", http.StatusBadRequest)
		return
	}
	in, err := exchange.ParseAsset(r.URL.Query().Get("in"))
	if err != nil {
		http.Error(w, "bad 'in' asset code", http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"of":    of.Code(),
		"in":    in.Code(),
		"price": s.Sim.Exchange.Price(of, in),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
