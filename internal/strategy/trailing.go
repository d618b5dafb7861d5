package strategy

import (
	"time"

	"dipbacktest/internal/domain"

	"github.com/shopspring/decimal"
)

// TrailingBuy purchases a fixed amount whenever the close falls at least
// trailingPercentage below the highest close seen since the last
// purchase. The peak resets to the purchase-day close after each buy, so
// the trigger is edge-sensitive: a flat trough cannot fire twice.
type TrailingBuy struct {
	Amount             decimal.Decimal
	TrailingPercentage decimal.Decimal
}

func NewTrailingBuy(amount, trailingPercentage decimal.Decimal) TrailingBuy {
	return TrailingBuy{
		Amount:             amount,
		TrailingPercentage: trailingPercentage,
	}
}

// trailingState is the strategy's whole mutable state, threaded through a
// single forward pass over the series.
type trailingState struct {
	referencePeak    decimal.Decimal
	lastPurchaseDate *time.Time
}

var oneHundred = decimal.NewFromInt(100)

func (s TrailingBuy) Run(series domain.PriceSeries) []domain.BuyEvent {
	events := []domain.BuyEvent{}
	if len(series) == 0 {
		return events
	}

	// the first day only seeds the reference peak
	state := trailingState{
		referencePeak: series[0].Close,
	}
	threshold := oneHundred.Sub(s.TrailingPercentage).Div(oneHundred)

	for _, bar := range series[1:] {
		if bar.Close.GreaterThan(state.referencePeak) {
			state.referencePeak = bar.Close
		}

		if bar.Close.LessThanOrEqual(state.referencePeak.Mul(threshold)) {
			event := domain.NewBuyEvent(bar.Date, bar.Close, s.Amount)
			event.DeclinePercentage = state.referencePeak.Sub(bar.Close).
				Div(state.referencePeak).Mul(oneHundred)
			events = append(events, event)

			date := bar.Date
			state.lastPurchaseDate = &date
			state.referencePeak = bar.Close
		}
	}

	return events
}
