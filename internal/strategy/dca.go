package strategy

import (
	"dipbacktest/internal/calendar"
	"dipbacktest/internal/domain"

	"github.com/shopspring/decimal"
)

// DCA buys a fixed amount at the close of every scheduled date. It
// carries no state beyond the schedule itself.
type DCA struct {
	Amount    decimal.Decimal
	Frequency domain.Frequency
}

func NewDCA(amount decimal.Decimal, frequency domain.Frequency) DCA {
	return DCA{
		Amount:    amount,
		Frequency: frequency,
	}
}

func (s DCA) Run(series domain.PriceSeries) []domain.BuyEvent {
	schedule := calendar.New(series, s.Frequency)

	events := []domain.BuyEvent{}
	for _, i := range schedule.DueIndices() {
		events = append(events, domain.NewBuyEvent(series[i].Date, series[i].Close, s.Amount))
	}
	return events
}
