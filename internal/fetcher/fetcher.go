package fetcher

import (
	"context"

	"oilwatcher/internal/storage"
)

// PriceFetcher retrieves the current commodity quotes from a price source.
type PriceFetcher interface {
	FetchPrices(ctx context.Context) ([]storage.PriceQuote, error)
}
