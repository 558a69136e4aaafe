package engine

import "errors"

var (
	// ErrCatalogUnavailable distinguishes "could not evaluate" from an
	// empty-but-valid result: the upstream product catalog could not be
	// fetched at all.
	ErrCatalogUnavailable = errors.New("product catalog unavailable")

	ErrInvalidBudget   = errors.New("budget must not be negative")
	ErrInvalidPage     = errors.New("page must be >= 1")
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrUnknownSortKey  = errors.New("unknown sort key")
)
