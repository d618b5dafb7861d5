package app

import (
	"context"
	"testing"
	"time"

	"dipbacktest/internal/domain"
	"dipbacktest/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakePriceRepository struct {
	name    string
	series  domain.PriceSeries
	nameErr error
	barsErr error

	getBarsCalls int
	getNameCalls int
}

func (f *fakePriceRepository) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) (domain.PriceSeries, error) {
	f.getBarsCalls++
	if f.barsErr != nil {
		return nil, f.barsErr
	}
	return f.series, nil
}

func (f *fakePriceRepository) GetName(ctx context.Context, ticker string) (string, error) {
	f.getNameCalls++
	if f.nameErr != nil {
		return "", f.nameErr
	}
	return f.name, nil
}

// fixtureSeries is flat at 100 except for a 10% dip on 2024-01-10 that
// recovers through 95 the following day.
func fixtureSeries(start, end time.Time) domain.PriceSeries {
	series := domain.PriceSeries{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		price := decimal.NewFromInt(100)
		if d.Equal(util.NewDate(2024, 1, 10)) {
			price = decimal.NewFromInt(90)
		}
		if d.Equal(util.NewDate(2024, 1, 11)) {
			price = decimal.NewFromInt(95)
		}
		series = append(series, domain.PriceBar{Date: d, Open: price, Close: price})
	}
	return series
}

func validParams() domain.Parameters {
	return domain.Parameters{
		Ticker:             "TEST",
		Amount:             decimal.NewFromInt(100),
		Frequency:          domain.FrequencyDaily,
		TimelineMonths:     1,
		TrailingPercentage: decimal.NewFromInt(5),
	}
}

func TestAnalysisService_Run(t *testing.T) {
	t.Run("rejects invalid parameters before any fetch", func(t *testing.T) {
		repo := &fakePriceRepository{}
		service := NewAnalysisService(repo)

		params := validParams()
		params.Amount = decimal.NewFromInt(-5)

		_, err := service.Run(context.Background(), params)
		require.ErrorIs(t, err, domain.ErrInvalidParameter)
		require.Zero(t, repo.getNameCalls)
		require.Zero(t, repo.getBarsCalls)
	})

	t.Run("empty series fails with unknown ticker", func(t *testing.T) {
		repo := &fakePriceRepository{name: "Test Corp", series: domain.PriceSeries{}}
		service := NewAnalysisService(repo)

		result, err := service.Run(context.Background(), validParams())
		require.ErrorIs(t, err, domain.ErrUnknownTicker)
		require.Nil(t, result)
	})

	t.Run("timeline longer than history fails fast", func(t *testing.T) {
		repo := &fakePriceRepository{
			name:   "Test Corp",
			series: fixtureSeries(util.NewDate(2024, 1, 2), util.NewDate(2024, 1, 31)),
		}
		service := NewAnalysisService(repo)

		params := validParams()
		params.TimelineMonths = 240

		_, err := service.Run(context.Background(), params)
		require.ErrorIs(t, err, domain.ErrInsufficientHistory)
	})

	t.Run("upstream failure is surfaced unchanged", func(t *testing.T) {
		repo := &fakePriceRepository{name: "Test Corp", barsErr: domain.ErrUpstreamFetch}
		service := NewAnalysisService(repo)

		_, err := service.Run(context.Background(), validParams())
		require.ErrorIs(t, err, domain.ErrUpstreamFetch)
	})

	t.Run("assembles the full payload", func(t *testing.T) {
		full := fixtureSeries(util.NewDate(2023, 10, 2), util.NewDate(2024, 1, 31))
		repo := &fakePriceRepository{name: "Test Corp", series: full}
		service := NewAnalysisService(repo)

		result, err := service.Run(context.Background(), validParams())
		require.NoError(t, err)

		require.Equal(t, "Test Corp", result.StockInfo.Name)
		require.Equal(t, "TEST", result.StockInfo.Ticker)

		// the analysis window is the final month of the series
		timelineStart := full.End().AddDate(0, -1, 0)
		window := full.From(timelineStart)
		require.Len(t, result.Performance.Dates, len(window))
		require.Len(t, result.Performance.Trailing, len(window))
		require.Len(t, result.DailyPrices, len(window))

		// daily DCA buys every bar in the window
		require.Len(t, result.Transactions.DCA, len(window))
		require.InDelta(t, float64(len(window)*100), result.Summary.TotalInvestment, 0.0001)

		// the 10% dip on Jan 10 triggers exactly one trailing buy
		require.Len(t, result.Transactions.Trailing, 1)
		trailingBuy := result.Transactions.Trailing[0]
		require.Equal(t, "2024-01-10", trailingBuy.Date)
		require.InDelta(t, 90, trailingBuy.Price, 0.0001)
		require.InDelta(t, 100.0/90, trailingBuy.Shares, 0.0001)
		require.NotNil(t, trailingBuy.DeclinePercentage)
		require.InDelta(t, 10, *trailingBuy.DeclinePercentage, 0.0001)

		// lump sum enters flat at 100 and ends flat at 100
		require.InDelta(t, result.Summary.TotalInvestment, result.Summary.LumpValue, 0.0001)
		require.InDelta(t, 0, result.Summary.LumpPercentageIncrease, 0.0001)
		require.InDelta(t, 100, result.Summary.InitialPrice, 0.0001)

		// four months of history: no 1 Year window, but All-Time exists
		_, ok := result.Summary.RollingReturns["1 Year"]
		require.False(t, ok)
		_, ok = result.Summary.RollingReturns["All-Time"]
		require.True(t, ok)

		require.Equal(t, 0, result.Summary.Lifetime.Years)
		require.Equal(t, "2023-10-02", result.Summary.Lifetime.StartDate)
		require.Equal(t, "2024-01-31", result.Summary.Lifetime.EndDate)

		// invested totals only ever grow
		prev := 0.0
		for _, v := range result.Performance.DCAInvested {
			require.GreaterOrEqual(t, v, prev)
			prev = v
		}
	})
}
