package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"bazaar-flipper/internal/bazaar"
	"bazaar-flipper/internal/config"
)

// BookSource supplies the full product catalog for an evaluation pass.
// The bazaar client implements it; tests substitute fixtures.
type BookSource interface {
	Books(ctx context.Context) (map[string]bazaar.ProductBook, error)
}

// ScanRecorder receives every freshly computed pass for persistence. It must
// handle its own failures; recording is best-effort and never blocks a query
// result.
type ScanRecorder interface {
	RecordScan(strategy Strategy, budget decimal.Decimal, opportunities []Opportunity)
}

// Service is the query facade: the only entry point external collaborators
// consume. It validates parameters, orchestrates the cache, and paginates.
type Service struct {
	cfg    *config.Config
	source BookSource
	eval   *Evaluator
	cache  *ResultCache

	// Recorder, when set, persists each fresh evaluation pass.
	Recorder ScanRecorder
}

// NewService creates the facade. A nil clock selects the wall clock.
func NewService(cfg *config.Config, source BookSource) *Service {
	return &Service{
		cfg:    cfg,
		source: source,
		eval:   NewEvaluator(cfg),
		cache:  NewResultCache(cfg.CacheTTL(), nil),
	}
}

// Query runs one paginated market query. Identical parameters within the
// cache TTL return identical results; pages past the end clamp to the last
// page rather than erroring.
func (s *Service) Query(ctx context.Context, p QueryParams) (QueryResult, error) {
	if p.Budget.IsNegative() {
		return QueryResult{}, fmt.Errorf("%w: got %s", ErrInvalidBudget, p.Budget)
	}
	if p.Page < 1 {
		return QueryResult{}, fmt.Errorf("%w: got %d", ErrInvalidPage, p.Page)
	}
	if !p.Strategy.Valid() {
		return QueryResult{}, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(p.Strategy))
	}
	if !p.Sort.Valid() {
		return QueryResult{}, fmt.Errorf("%w: %d", ErrUnknownSortKey, int(p.Sort))
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = s.cfg.DefaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}

	set, err := s.cache.GetOrCompute(p.Budget, p.Strategy, p.ForceRefresh, func() (*resultSet, error) {
		return s.computePass(ctx, p.Budget, p.Strategy)
	})
	if err != nil {
		return QueryResult{}, err
	}

	ranked := Rank(set.opportunities, p.Sort)

	totalCount := len(ranked)
	totalPages := (totalCount + pageSize - 1) / pageSize

	page := p.Page
	if page > totalPages {
		page = totalPages
	}

	var items []Opportunity
	if totalPages > 0 {
		start := (page - 1) * pageSize
		end := start + pageSize
		if end > totalCount {
			end = totalCount
		}
		items = ranked[start:end]
	} else {
		page = 1
	}

	return QueryResult{
		Items:                items,
		TotalCount:           totalCount,
		TotalPages:           totalPages,
		CurrentPage:          page,
		PageSize:             pageSize,
		TotalProfitAcrossAll: set.totalProfit,
		SortKey:              p.Sort,
		GeneratedAt:          set.generatedAt,
	}, nil
}

// computePass evaluates the entire catalog for one (budget, strategy) key.
// Products that are not evaluable are skipped silently; infeasible ones are
// dropped. The feasible set is kept unsorted — sort is applied on read.
func (s *Service) computePass(ctx context.Context, budget decimal.Decimal, strategy Strategy) (*resultSet, error) {
	books, err := s.source.Books(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	set := &resultSet{generatedAt: s.cache.now()}
	evaluated := 0
	for id := range books {
		book := books[id]
		opp, ok := s.eval.Evaluate(&book, budget, strategy)
		if !ok {
			continue
		}
		evaluated++
		if !opp.Feasible {
			continue
		}
		set.opportunities = append(set.opportunities, opp)
		set.totalProfit = set.totalProfit.Add(opp.TotalProfit)
	}

	log.Printf("[DEBUG] pass strategy=%s budget=%s: %d products, %d evaluable, %d feasible",
		strategy, budget, len(books), evaluated, len(set.opportunities))

	if s.Recorder != nil {
		s.Recorder.RecordScan(strategy, budget, set.opportunities)
	}
	return set, nil
}
