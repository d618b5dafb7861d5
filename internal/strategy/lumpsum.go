package strategy

import (
	"dipbacktest/internal/calendar"
	"dipbacktest/internal/domain"

	"github.com/shopspring/decimal"
)

// LumpSum makes a single purchase on the first trading day, sized to
// what DCA would invest over the whole timeline (due-date count times
// the per-purchase amount). That keeps the strategies comparable on
// total capital deployed rather than on a fixed amount.
type LumpSum struct {
	Amount    decimal.Decimal
	Frequency domain.Frequency
}

func NewLumpSum(amount decimal.Decimal, frequency domain.Frequency) LumpSum {
	return LumpSum{
		Amount:    amount,
		Frequency: frequency,
	}
}

func (s LumpSum) Run(series domain.PriceSeries) []domain.BuyEvent {
	if len(series) == 0 {
		return []domain.BuyEvent{}
	}

	total := s.Amount.Mul(decimal.NewFromInt(int64(calendar.New(series, s.Frequency).Count())))
	if !total.IsPositive() {
		return []domain.BuyEvent{}
	}

	return []domain.BuyEvent{
		domain.NewBuyEvent(series.Start(), series[0].Close, total),
	}
}
