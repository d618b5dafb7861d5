package repository

import (
	"context"
	"time"

	"dipbacktest/internal/domain"
)

// PriceRepository is the collaborator the engine needs from the outside
// world: ordered daily bars for a ticker, and a display name for it.
// Implementations report unknown tickers with domain.ErrUnknownTicker
// and transport failures with domain.ErrUpstreamFetch; the engine never
// retries on its own.
type PriceRepository interface {
	GetDailyBars(ctx context.Context, ticker string, start, end time.Time) (domain.PriceSeries, error)
	GetName(ctx context.Context, ticker string) (string, error)
}
