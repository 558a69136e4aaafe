package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
	"bazaar-flipper/internal/config"
	"bazaar-flipper/internal/db"
	"bazaar-flipper/internal/engine"
)

// GET /api/status is not tested here because it calls bazaar.Client.HealthCheck which performs a real HTTP request.

type stubSource struct {
	books map[string]bazaar.ProductBook
	err   error
}

func (s *stubSource) Books(ctx context.Context) (map[string]bazaar.ProductBook, error) {
	return s.books, s.err
}

func stubCatalog() map[string]bazaar.ProductBook {
	return map[string]bazaar.ProductBook{
		"ENCHANTED_COAL": {
			ProductID:        "ENCHANTED_COAL",
			ItemName:         "Enchanted Coal",
			SellOffers:       []bazaar.OrderLevel{{PricePerUnit: decimal.NewFromInt(10), Amount: 1000, Orders: 3}},
			BuyOrders:        []bazaar.OrderLevel{{PricePerUnit: decimal.NewFromInt(9), Amount: 1000, Orders: 2}},
			NPCSellPrice:     decimal.NewFromInt(12),
			WeeklyBuyVolume:  50000,
			WeeklySellVolume: 40000,
			ActiveBuyOrders:  100,
			ActiveSellOrders: 100,
		},
	}
}

func newTestServer(t *testing.T, src engine.BookSource) *Server {
	t.Helper()
	cfg := config.Default()
	database, err := db.OpenAt(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	svc := engine.NewService(cfg, src)
	svc.Recorder = database
	return NewServer(cfg, svc, nil, database)
}

func doRequest(t *testing.T, srv *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleFlips_ReturnsRankedPage(t *testing.T) {
	srv := newTestServer(t, &stubSource{books: stubCatalog()})

	rec := doRequest(t, srv, http.MethodGet, "/api/flips?budget=1000&strategy=arb_instabuy", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var out engine.QueryResult
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if out.TotalCount != 1 || len(out.Items) != 1 {
		t.Fatalf("TotalCount=%d len(Items)=%d, want 1/1", out.TotalCount, len(out.Items))
	}
	if out.Items[0].ProductID != "ENCHANTED_COAL" {
		t.Errorf("ProductID = %s, want ENCHANTED_COAL", out.Items[0].ProductID)
	}
	if out.CurrentPage != 1 || out.PageSize != config.Default().DefaultPageSize {
		t.Errorf("page=%d size=%d", out.CurrentPage, out.PageSize)
	}
}

func TestHandleFlips_ValidatesInput(t *testing.T) {
	srv := newTestServer(t, &stubSource{books: stubCatalog()})

	cases := []struct {
		name string
		path string
	}{
		{"missing budget", "/api/flips"},
		{"bad budget", "/api/flips?budget=abc"},
		{"negative budget", "/api/flips?budget=-5"},
		{"bad strategy", "/api/flips?budget=100&strategy=nope"},
		{"bad sort", "/api/flips?budget=100&sort=nope"},
		{"bad page", "/api/flips?budget=100&page=zero"},
		{"page zero", "/api/flips?budget=100&page=0"},
	}
	for _, tc := range cases {
		rec := doRequest(t, srv, http.MethodGet, tc.path, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestHandleFlips_UpstreamDownIs503(t *testing.T) {
	srv := newTestServer(t, &stubSource{err: errors.New("bazaar down")})

	rec := doRequest(t, srv, http.MethodGet, "/api/flips?budget=1000", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestHandleScans_RecordedByQuery(t *testing.T) {
	srv := newTestServer(t, &stubSource{books: stubCatalog()})

	doRequest(t, srv, http.MethodGet, "/api/flips?budget=1000", nil)

	rec := doRequest(t, srv, http.MethodGet, "/api/scans", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/scans status = %d", rec.Code)
	}
	var scans []db.ScanRecord
	if err := json.NewDecoder(rec.Body).Decode(&scans); err != nil {
		t.Fatalf("decode scans: %v", err)
	}
	if len(scans) != 1 {
		t.Fatalf("len(scans) = %d, want 1", len(scans))
	}
	if scans[0].Strategy != "arb_instabuy" || scans[0].Count != 1 {
		t.Errorf("scan = %+v", scans[0])
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/scans/1/results", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/scans/1/results status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/scans/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing scan status = %d, want 404", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/scans/abc", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad scan id status = %d, want 400", rec.Code)
	}
}

func TestHandleWatchlist_CRUD(t *testing.T) {
	srv := newTestServer(t, &stubSource{books: stubCatalog()})

	body, _ := json.Marshal(config.WatchlistItem{
		ProductID:      "ENCHANTED_COAL",
		AlertMetric:    "margin_percent",
		AlertThreshold: 10,
	})
	rec := doRequest(t, srv, http.MethodPost, "/api/watchlist", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/watchlist status = %d: %s", rec.Code, rec.Body.String())
	}
	var added struct {
		Items    []config.WatchlistItem `json:"items"`
		Inserted bool                   `json:"inserted"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&added); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	if !added.Inserted || len(added.Items) != 1 {
		t.Fatalf("inserted=%v items=%d, want true/1", added.Inserted, len(added.Items))
	}
	// Missing item name falls back to the product ID.
	if added.Items[0].ItemName != "ENCHANTED_COAL" {
		t.Errorf("ItemName = %q", added.Items[0].ItemName)
	}

	rec = doRequest(t, srv, http.MethodPost, "/api/watchlist", []byte(`{"item_name":"no id"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST without product_id status = %d, want 400", rec.Code)
	}

	body, _ = json.Marshal(map[string]interface{}{
		"alert_enabled": true, "alert_metric": "total_profit", "alert_threshold": 500,
	})
	rec = doRequest(t, srv, http.MethodPut, "/api/watchlist/ENCHANTED_COAL", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT /api/watchlist status = %d", rec.Code)
	}

	rec = doRequest(t, srv, http.MethodGet, "/api/watchlist", nil)
	var items []config.WatchlistItem
	json.NewDecoder(rec.Body).Decode(&items)
	if len(items) != 1 || items[0].AlertMetric != "total_profit" {
		t.Fatalf("after update: %+v", items)
	}

	rec = doRequest(t, srv, http.MethodDelete, "/api/watchlist/ENCHANTED_COAL", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("DELETE /api/watchlist status = %d", rec.Code)
	}
	rec = doRequest(t, srv, http.MethodGet, "/api/watchlist", nil)
	items = nil
	json.NewDecoder(rec.Body).Decode(&items)
	if len(items) != 0 {
		t.Errorf("watchlist not empty after delete: %+v", items)
	}
}

func TestCORSMiddleware(t *testing.T) {
	srv := newTestServer(t, &stubSource{books: stubCatalog()})

	req := httptest.NewRequest(http.MethodOptions, "/api/flips", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 204 {
		t.Errorf("OPTIONS status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
}
