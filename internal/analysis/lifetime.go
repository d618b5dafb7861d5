package analysis

import (
	"dipbacktest/internal/domain"
)

// LifetimeSpan reports how much trading history a series covers, as
// whole years plus leftover months.
type LifetimeSpan struct {
	Years  int
	Months int
}

func Lifetime(series domain.PriceSeries) LifetimeSpan {
	if len(series) == 0 {
		return LifetimeSpan{}
	}
	totalYears := series.End().Sub(series.Start()).Hours() / 24 / 365.25
	years := int(totalYears)
	return LifetimeSpan{
		Years:  years,
		Months: int((totalYears - float64(years)) * 12),
	}
}
