package portfolio

import (
	"dipbacktest/internal/domain"

	"github.com/shopspring/decimal"
)

// Track walks the series once and derives one end-of-day snapshot per
// trading day from the strategy's buy events. Events are expected in
// series order, at most one per day. Invested total only ever grows
// (strategies never sell) and market value is zero until the first
// purchase lands.
func Track(series domain.PriceSeries, events []domain.BuyEvent) []domain.PortfolioSnapshot {
	snapshots := make([]domain.PortfolioSnapshot, 0, len(series))

	invested := decimal.Zero
	shares := decimal.Zero
	next := 0

	for _, bar := range series {
		for next < len(events) && !events[next].Date.After(bar.Date) {
			invested = invested.Add(events[next].Amount)
			shares = shares.Add(events[next].Shares)
			next++
		}

		snapshots = append(snapshots, domain.PortfolioSnapshot{
			Date:          bar.Date,
			InvestedTotal: invested,
			SharesTotal:   shares,
			MarketValue:   shares.Mul(bar.Close),
		})
	}

	return snapshots
}
