package repository

import (
	"context"
	"fmt"
	"time"

	"dipbacktest/internal/domain"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
)

func NewYahooPriceRepository() PriceRepository {
	return yahooPriceRepositoryHandler{}
}

type yahooPriceRepositoryHandler struct{}

func (h yahooPriceRepositoryHandler) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) (domain.PriceSeries, error) {
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Symbol:   ticker,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	series := domain.PriceSeries{}
	for iter.Next() {
		bar := iter.Bar()
		ts := time.Unix(int64(bar.Timestamp), 0).UTC()
		series = append(series, domain.PriceBar{
			Date:  time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Open:  bar.Open,
			Close: bar.AdjClose,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to get prices for %s: %s", domain.ErrUpstreamFetch, ticker, err.Error())
	}

	return series, nil
}

func (h yahooPriceRepositoryHandler) GetName(ctx context.Context, ticker string) (string, error) {
	q, err := equity.Get(ticker)
	if err != nil || q == nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	}
	if q.LongName != "" {
		return q.LongName, nil
	}
	if q.ShortName != "" {
		return q.ShortName, nil
	}
	return ticker, nil
}
