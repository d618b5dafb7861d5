package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one daily bar of a ticker's trading history. Weekends and
// market holidays are simply absent from the series.
type PriceBar struct {
	Date  time.Time
	Open  decimal.Decimal
	Close decimal.Decimal
}

// PriceSeries is an ordered run of daily bars, dates strictly increasing.
// It is loaded once and treated as read-only by everything downstream.
type PriceSeries []PriceBar

func (s PriceSeries) Start() time.Time {
	return s[0].Date
}

func (s PriceSeries) End() time.Time {
	return s[len(s)-1].Date
}

// From returns the sub-series of bars dated at or after start. The
// underlying array is shared - callers must not mutate bars.
func (s PriceSeries) From(start time.Time) PriceSeries {
	for i, bar := range s {
		if !bar.Date.Before(start) {
			return s[i:]
		}
	}
	return PriceSeries{}
}

// LastAtOrBefore returns the index of the latest bar dated at or before
// target, or -1 if the series starts after target.
func (s PriceSeries) LastAtOrBefore(target time.Time) int {
	out := -1
	for i, bar := range s {
		if bar.Date.After(target) {
			break
		}
		out = i
	}
	return out
}
