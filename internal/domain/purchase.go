package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuyEvent records one strategy purchase. Immutable once emitted.
type BuyEvent struct {
	Date   time.Time
	Price  decimal.Decimal
	Shares decimal.Decimal
	Amount decimal.Decimal

	// DeclinePercentage is only set by the trailing-buy strategy: the drop
	// from the reference peak that triggered the purchase.
	DeclinePercentage decimal.Decimal
}

func NewBuyEvent(date time.Time, price, amount decimal.Decimal) BuyEvent {
	return BuyEvent{
		Date:   date,
		Price:  price,
		Shares: amount.Div(price),
		Amount: amount,
	}
}

// PortfolioSnapshot is the derived end-of-day state of one strategy's
// portfolio. Recomputed from the buy events, never mutated in place.
type PortfolioSnapshot struct {
	Date          time.Time
	InvestedTotal decimal.Decimal
	SharesTotal   decimal.Decimal
	MarketValue   decimal.Decimal
}
