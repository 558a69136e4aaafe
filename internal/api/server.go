package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
	"bazaar-flipper/internal/config"
	"bazaar-flipper/internal/db"
	"bazaar-flipper/internal/engine"
)

// Server is the HTTP API server that connects the bazaar client, query
// engine, and database.
type Server struct {
	cfg    *config.Config
	svc    *engine.Service
	client *bazaar.Client
	db     *db.DB

	started time.Time
}

// NewServer creates a Server with the given config, query service, bazaar
// client, and database.
func NewServer(cfg *config.Config, svc *engine.Service, client *bazaar.Client, database *db.DB) *Server {
	return &Server{
		cfg:     cfg,
		svc:     svc,
		client:  client,
		db:      database,
		started: time.Now(),
	}
}

// Handler returns the HTTP handler with all API routes and CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/flips", s.handleFlips)
	mux.HandleFunc("GET /api/scans", s.handleGetScans)
	mux.HandleFunc("GET /api/scans/{id}", s.handleGetScanByID)
	mux.HandleFunc("GET /api/scans/{id}/results", s.handleGetScanResults)
	mux.HandleFunc("DELETE /api/scans/{id}", s.handleDeleteScan)
	mux.HandleFunc("POST /api/scans/clear", s.handleClearScans)
	mux.HandleFunc("GET /api/watchlist", s.handleGetWatchlist)
	mux.HandleFunc("POST /api/watchlist", s.handleAddWatchlist)
	mux.HandleFunc("DELETE /api/watchlist/{productID}", s.handleDeleteWatchlist)
	mux.HandleFunc("PUT /api/watchlist/{productID}", s.handleUpdateWatchlist)
	return corsMiddleware(mux)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(204)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"bazaar_ok":      s.client.HealthCheck(r.Context()),
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

// handleFlips runs one paginated market query. Budget is required; strategy,
// sort, page, page_size, and refresh are optional.
func (s *Server) handleFlips(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	budgetStr := q.Get("budget")
	if budgetStr == "" {
		writeError(w, 400, "budget is required")
		return
	}
	budget, err := decimal.NewFromString(budgetStr)
	if err != nil {
		writeError(w, 400, "invalid budget")
		return
	}

	strategy := engine.StrategyArbInstaBuy
	if name := q.Get("strategy"); name != "" {
		strategy, err = engine.ParseStrategy(name)
		if err != nil {
			writeError(w, 400, err.Error())
			return
		}
	}

	sortKey, err := engine.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeError(w, 400, err.Error())
		return
	}

	page := 1
	if pStr := q.Get("page"); pStr != "" {
		if p, perr := strconv.Atoi(pStr); perr == nil {
			page = p
		} else {
			writeError(w, 400, "invalid page")
			return
		}
	}
	pageSize := 0
	if psStr := q.Get("page_size"); psStr != "" {
		if ps, perr := strconv.Atoi(psStr); perr == nil {
			pageSize = ps
		} else {
			writeError(w, 400, "invalid page_size")
			return
		}
	}

	result, err := s.svc.Query(r.Context(), engine.QueryParams{
		Budget:       budget,
		Page:         page,
		PageSize:     pageSize,
		Strategy:     strategy,
		Sort:         sortKey,
		ForceRefresh: q.Get("refresh") == "true" || q.Get("refresh") == "1",
	})
	if err != nil {
		switch {
		case errors.Is(err, engine.ErrCatalogUnavailable):
			writeError(w, 503, err.Error())
		case errors.Is(err, engine.ErrInvalidBudget),
			errors.Is(err, engine.ErrInvalidPage),
			errors.Is(err, engine.ErrUnknownStrategy),
			errors.Is(err, engine.ErrUnknownSortKey):
			writeError(w, 400, err.Error())
		default:
			writeError(w, 500, err.Error())
		}
		return
	}

	writeJSON(w, result)
}

func (s *Server) handleGetScans(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	limit := 50
	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}
	writeJSON(w, s.db.GetScanHistory(limit))
}

func (s *Server) handleGetScanByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}
	record := s.db.GetScanByID(id)
	if record == nil {
		writeError(w, 404, "not found")
		return
	}
	writeJSON(w, record)
}

func (s *Server) handleGetScanResults(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}
	record := s.db.GetScanByID(id)
	if record == nil {
		writeError(w, 404, "not found")
		return
	}
	writeJSON(w, map[string]interface{}{
		"scan":    record,
		"results": s.db.GetScanResults(id),
	})
}

func (s *Server) handleDeleteScan(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, 400, "invalid id")
		return
	}
	if err := s.db.DeleteScan(id); err != nil {
		writeError(w, 500, "delete failed: "+err.Error())
		return
	}
	writeJSON(w, map[string]string{"status": "deleted"})
}

func (s *Server) handleClearScans(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OlderThanDays int `json:"older_than_days"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if req.OlderThanDays <= 0 {
		writeError(w, 400, "older_than_days must be positive")
		return
	}
	count, err := s.db.ClearScans(req.OlderThanDays)
	if err != nil {
		writeError(w, 500, "clear failed: "+err.Error())
		return
	}
	writeJSON(w, map[string]int64{"deleted": count})
}

func (s *Server) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.db.GetWatchlist())
}

func (s *Server) handleAddWatchlist(w http.ResponseWriter, r *http.Request) {
	var item config.WatchlistItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if item.ProductID == "" {
		writeError(w, 400, "product_id is required")
		return
	}
	if item.ItemName == "" {
		item.ItemName = item.ProductID
	}

	item.AddedAt = time.Now().Format(time.RFC3339)
	inserted := s.db.AddWatchlistItem(item)

	type addResponse struct {
		Items    []config.WatchlistItem `json:"items"`
		Inserted bool                   `json:"inserted"`
	}
	writeJSON(w, addResponse{
		Items:    s.db.GetWatchlist(),
		Inserted: inserted,
	})
}

func (s *Server) handleDeleteWatchlist(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productID")
	if productID == "" {
		writeError(w, 400, "invalid product_id")
		return
	}
	s.db.DeleteWatchlistItem(productID)
	writeJSON(w, s.db.GetWatchlist())
}

func (s *Server) handleUpdateWatchlist(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("productID")
	if productID == "" {
		writeError(w, 400, "invalid product_id")
		return
	}
	var body struct {
		AlertEnabled   bool    `json:"alert_enabled"`
		AlertMetric    string  `json:"alert_metric"`
		AlertThreshold float64 `json:"alert_threshold"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	s.db.UpdateWatchlistItem(productID, body.AlertEnabled, body.AlertMetric, body.AlertThreshold)
	writeJSON(w, s.db.GetWatchlist())
}
