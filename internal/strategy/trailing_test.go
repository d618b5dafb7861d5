package strategy

import (
	"testing"
	"time"

	"dipbacktest/internal/domain"
	"dipbacktest/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func barsFromCloses(closes ...float64) domain.PriceSeries {
	series := domain.PriceSeries{}
	date := util.NewDate(2024, 1, 1)
	for _, c := range closes {
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}
		series = append(series, domain.PriceBar{
			Date:  date,
			Open:  decimal.NewFromFloat(c),
			Close: decimal.NewFromFloat(c),
		})
		date = date.AddDate(0, 0, 1)
	}
	return series
}

func TestTrailingBuy_Run(t *testing.T) {
	t.Run("buys on a five percent dip", func(t *testing.T) {
		// day 1 seeds the peak at 100, day 2 closes at 90 <= 95, day 3
		// recovers to 95 > 85.5
		series := barsFromCloses(100, 90, 95)
		events := NewTrailingBuy(decimal.NewFromInt(100), decimal.NewFromInt(5)).Run(series)

		require.Len(t, events, 1)
		require.True(t, events[0].Date.Equal(series[1].Date))
		require.Equal(t, "90", events[0].Price.String())
		require.Equal(t, "100", events[0].Amount.String())
		require.InDelta(t, 1.111, events[0].Shares.InexactFloat64(), 0.001)
		require.InDelta(t, 10, events[0].DeclinePercentage.InexactFloat64(), 0.0001)
	})

	t.Run("flat trough does not buy twice", func(t *testing.T) {
		series := barsFromCloses(100, 90, 90, 90)
		events := NewTrailingBuy(decimal.NewFromInt(100), decimal.NewFromInt(5)).Run(series)

		require.Len(t, events, 1)
	})

	t.Run("peak resets after each purchase", func(t *testing.T) {
		// second leg falls 10% from the new 90 peak
		series := barsFromCloses(100, 90, 81)
		events := NewTrailingBuy(decimal.NewFromInt(100), decimal.NewFromInt(5)).Run(series)

		require.Len(t, events, 2)
		require.Equal(t, "90", events[0].Price.String())
		require.Equal(t, "81", events[1].Price.String())
	})

	t.Run("first day never buys", func(t *testing.T) {
		series := barsFromCloses(100)
		events := NewTrailingBuy(decimal.NewFromInt(100), decimal.NewFromInt(5)).Run(series)

		require.Empty(t, events)
	})

	t.Run("final day trigger still buys", func(t *testing.T) {
		series := barsFromCloses(100, 101, 102, 95)
		events := NewTrailingBuy(decimal.NewFromInt(100), decimal.NewFromInt(5)).Run(series)

		require.Len(t, events, 1)
		require.True(t, events[0].Date.Equal(series[3].Date))
	})

	t.Run("rising series never buys", func(t *testing.T) {
		series := barsFromCloses(100, 110, 120, 130)
		events := NewTrailingBuy(decimal.NewFromInt(100), decimal.NewFromInt(5)).Run(series)

		require.Empty(t, events)
	})

	t.Run("empty series emits nothing", func(t *testing.T) {
		events := NewTrailingBuy(decimal.NewFromInt(100), decimal.NewFromInt(5)).Run(domain.PriceSeries{})

		require.Empty(t, events)
	})

	t.Run("every buy is at least the trailing percentage below its peak", func(t *testing.T) {
		series := barsFromCloses(100, 97, 94, 99, 92, 104, 95, 88)
		pct := decimal.NewFromInt(5)
		events := NewTrailingBuy(decimal.NewFromInt(100), pct).Run(series)

		require.NotEmpty(t, events)
		seen := map[string]bool{}
		for _, e := range events {
			require.True(t, e.DeclinePercentage.GreaterThanOrEqual(pct))
			require.False(t, seen[e.Date.Format("2006-01-02")])
			seen[e.Date.Format("2006-01-02")] = true
		}
	})
}
