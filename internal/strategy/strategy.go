package strategy

import (
	"dipbacktest/internal/domain"
)

// Strategy replays a price series day by day and emits the purchases it
// would have made. The set is fixed: trailing-buy, DCA, and lump-sum.
// Implementations are pure over the series - each run owns its own state
// and event buffer, so the three can be evaluated independently.
type Strategy interface {
	Run(series domain.PriceSeries) []domain.BuyEvent
}
