package bazaar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"bazaar-flipper/internal/logger"
)

const defaultItemsURL = "https://api.hypixel.net/v2/resources/skyblock/items"

// npcItemTTL is how long the item catalog (names + NPC prices) is reused.
// It changes on game patches, not on market ticks.
const npcItemTTL = 6 * time.Hour

// Client fetches tiered order books and NPC reference prices from the
// exchange API. Parsed snapshots are cached with a short TTL and concurrent
// refreshes for an expired snapshot coalesce into a single fetch.
type Client struct {
	http     *http.Client
	sem      chan struct{}
	apiURL   string
	itemsURL string
	apiKey   string
	ttl      time.Duration
	now      func() time.Time

	mu    sync.RWMutex
	snap  *Snapshot
	group singleflight.Group

	npcMu      sync.RWMutex
	npcItems   map[string]npcItem
	npcFetched time.Time
}

type npcItem struct {
	name  string
	price decimal.Decimal
}

// NewClient creates a bazaar client with the given API endpoint, optional API
// key, and snapshot TTL.
func NewClient(apiURL, apiKey string, ttl time.Duration) *Client {
	return &Client{
		http:     &http.Client{Timeout: 30 * time.Second},
		sem:      make(chan struct{}, 10),
		apiURL:   apiURL,
		itemsURL: defaultItemsURL,
		apiKey:   apiKey,
		ttl:      ttl,
		now:      time.Now,
	}
}

// HealthCheck pings the exchange API to verify connectivity.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, "GET", c.apiURL, nil)
	if err != nil {
		return false
	}
	c.setHeaders(req)
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == 200
}

// Books returns the current product catalog, fetching a fresh snapshot when
// the cached one has expired. Concurrent callers behind an expired snapshot
// share one in-flight fetch.
func (c *Client) Books(ctx context.Context) (map[string]ProductBook, error) {
	snap, err := c.CurrentSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Products, nil
}

// CurrentSnapshot returns the cached snapshot, refreshing it when expired.
func (c *Client) CurrentSnapshot(ctx context.Context) (*Snapshot, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()
	if snap != nil && c.now().Sub(snap.FetchedAt) < c.ttl {
		return snap, nil
	}

	result, err, _ := c.group.Do("snapshot", func() (interface{}, error) {
		// Re-check under singleflight: a waiter may arrive after the
		// leader already stored a fresh snapshot.
		c.mu.RLock()
		cur := c.snap
		c.mu.RUnlock()
		if cur != nil && c.now().Sub(cur.FetchedAt) < c.ttl {
			return cur, nil
		}
		return c.fetchSnapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.(*Snapshot), nil
}

// ---- upstream wire format ----

type apiOrderSummary struct {
	Amount       int64   `json:"amount"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Orders       int     `json:"orders"`
}

type apiQuickStatus struct {
	BuyMovingWeek  int64 `json:"buyMovingWeek"`
	SellMovingWeek int64 `json:"sellMovingWeek"`
	BuyOrders      int   `json:"buyOrders"`
	SellOrders     int   `json:"sellOrders"`
}

type apiProduct struct {
	ProductID   string            `json:"product_id"`
	SellSummary []apiOrderSummary `json:"sell_summary"`
	BuySummary  []apiOrderSummary `json:"buy_summary"`
	QuickStatus apiQuickStatus    `json:"quick_status"`
}

type apiBazaarResponse struct {
	Success  bool                  `json:"success"`
	Cause    string                `json:"cause"`
	Products map[string]apiProduct `json:"products"`
}

type apiItemsResponse struct {
	Success bool `json:"success"`
	Items   []struct {
		ID           string  `json:"id"`
		Name         string  `json:"name"`
		NPCSellPrice float64 `json:"npc_sell_price"`
	} `json:"items"`
}

func (c *Client) fetchSnapshot(ctx context.Context) (*Snapshot, error) {
	npc, err := c.npcCatalog(ctx)
	if err != nil {
		// Books are still useful without NPC prices; arbitrage evaluation
		// will simply skip every product.
		logger.Warn("BAZAAR", fmt.Sprintf("Item catalog unavailable: %v", err))
		npc = map[string]npcItem{}
	}

	var raw apiBazaarResponse
	if err := c.getJSON(ctx, c.apiURL, &raw); err != nil {
		return nil, fmt.Errorf("fetch bazaar: %w", err)
	}
	if !raw.Success {
		return nil, fmt.Errorf("fetch bazaar: upstream rejected request: %s", raw.Cause)
	}

	snap := &Snapshot{
		Products:  make(map[string]ProductBook, len(raw.Products)),
		FetchedAt: c.now(),
	}
	for id, p := range raw.Products {
		if p.ProductID != "" {
			id = p.ProductID
		}
		book := ProductBook{
			ProductID:        id,
			ItemName:         displayName(id),
			SellOffers:       toLevels(p.SellSummary),
			BuyOrders:        toLevels(p.BuySummary),
			WeeklyBuyVolume:  p.QuickStatus.BuyMovingWeek,
			WeeklySellVolume: p.QuickStatus.SellMovingWeek,
			ActiveBuyOrders:  p.QuickStatus.BuyOrders,
			ActiveSellOrders: p.QuickStatus.SellOrders,
		}
		if item, ok := npc[id]; ok {
			if item.name != "" {
				book.ItemName = item.name
			}
			book.NPCSellPrice = item.price
		}
		snap.Products[id] = book
	}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	logger.Info("BAZAAR", fmt.Sprintf("Snapshot: %d products", len(snap.Products)))
	return snap, nil
}

// npcCatalog returns the item id → (name, NPC price) map, refreshed at most
// every npcItemTTL.
func (c *Client) npcCatalog(ctx context.Context) (map[string]npcItem, error) {
	c.npcMu.RLock()
	items, fetched := c.npcItems, c.npcFetched
	c.npcMu.RUnlock()
	if items != nil && c.now().Sub(fetched) < npcItemTTL {
		return items, nil
	}

	var raw apiItemsResponse
	if err := c.getJSON(ctx, c.itemsURL, &raw); err != nil {
		return nil, err
	}
	if !raw.Success {
		return nil, fmt.Errorf("items endpoint rejected request")
	}

	items = make(map[string]npcItem, len(raw.Items))
	for _, it := range raw.Items {
		items[it.ID] = npcItem{
			name:  it.Name,
			price: decimal.NewFromFloat(it.NPCSellPrice),
		}
	}

	c.npcMu.Lock()
	c.npcItems = items
	c.npcFetched = c.now()
	c.npcMu.Unlock()

	logger.Info("BAZAAR", fmt.Sprintf("Item catalog: %d items", len(items)))
	return items, nil
}

// getJSON fetches a URL and decodes JSON into dst.
func (c *Client) getJSON(ctx context.Context, url string, dst interface{}) error {
	c.sem <- struct{}{}
	defer func() { <-c.sem }()

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bazaar API %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(dst)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "bazaar-flipper/1.0 (github.com)")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("API-Key", c.apiKey)
	}
}

func toLevels(summaries []apiOrderSummary) []OrderLevel {
	if len(summaries) == 0 {
		return nil
	}
	levels := make([]OrderLevel, 0, len(summaries))
	for _, s := range summaries {
		if s.Amount <= 0 || s.PricePerUnit <= 0 {
			continue
		}
		levels = append(levels, OrderLevel{
			PricePerUnit: decimal.NewFromFloat(s.PricePerUnit),
			Amount:       s.Amount,
			Orders:       s.Orders,
		})
	}
	return levels
}

// displayName derives a readable fallback name from a product id like
// "ENCHANTED_LAPIS_LAZULI".
func displayName(productID string) string {
	words := strings.Split(strings.ToLower(productID), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
