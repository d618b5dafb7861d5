package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"dipbacktest/internal/domain"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// csvPriceRepositoryHandler serves bars from per-ticker CSV files in a
// directory (AAPL.csv, SPY.csv, ...). Useful for offline runs and for
// pinning analysis fixtures.
type csvPriceRepositoryHandler struct {
	Dir string
}

func NewCSVPriceRepository(dir string) PriceRepository {
	return csvPriceRepositoryHandler{Dir: dir}
}

type csvPriceRow struct {
	Date  string  `csv:"date"`
	Open  float64 `csv:"open"`
	Close float64 `csv:"close"`
}

func (h csvPriceRepositoryHandler) GetDailyBars(ctx context.Context, ticker string, start, end time.Time) (domain.PriceSeries, error) {
	f, err := os.Open(filepath.Join(h.Dir, strings.ToUpper(ticker)+".csv"))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	} else if err != nil {
		return nil, fmt.Errorf("%w: failed to open bars for %s: %s", domain.ErrUpstreamFetch, ticker, err.Error())
	}
	defer f.Close()

	rows := []*csvPriceRow{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("%w: failed to parse bars for %s: %s", domain.ErrUpstreamFetch, ticker, err.Error())
	}

	series := domain.PriceSeries{}
	for _, row := range rows {
		date, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date %q in %s bars: %s", domain.ErrUpstreamFetch, row.Date, ticker, err.Error())
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		series = append(series, domain.PriceBar{
			Date:  date,
			Open:  decimal.NewFromFloat(row.Open),
			Close: decimal.NewFromFloat(row.Close),
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Date.Before(series[j].Date)
	})

	return series, nil
}

func (h csvPriceRepositoryHandler) GetName(ctx context.Context, ticker string) (string, error) {
	if _, err := os.Stat(filepath.Join(h.Dir, strings.ToUpper(ticker)+".csv")); err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownTicker, ticker)
	}
	return strings.ToUpper(ticker), nil
}
