package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dipbacktest/internal/analysis"
	"dipbacktest/internal/calendar"
	"dipbacktest/internal/domain"
	"dipbacktest/internal/logger"
	"dipbacktest/internal/portfolio"
	"dipbacktest/internal/repository"
	"dipbacktest/internal/strategy"

	"github.com/shopspring/decimal"
)

// AnalysisService runs one strategy comparison end to end: validate the
// parameters, load the price history, replay the three strategies,
// derive valuations and rolling returns, and assemble the response
// payload. It keeps no state between requests.
type AnalysisService struct {
	PriceRepository repository.PriceRepository
}

func NewAnalysisService(priceRepository repository.PriceRepository) AnalysisService {
	return AnalysisService{
		PriceRepository: priceRepository,
	}
}

type StockInfo struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

type Performance struct {
	Dates            []string  `json:"dates"`
	Trailing         []float64 `json:"trailing"`
	DCA              []float64 `json:"dca"`
	Lump             []float64 `json:"lump"`
	TrailingInvested []float64 `json:"trailing_invested"`
	DCAInvested      []float64 `json:"dca_invested"`
	LumpInvested     []float64 `json:"lump_invested"`
}

type Lifetime struct {
	Years     int    `json:"years"`
	Months    int    `json:"months"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type Summary struct {
	TrailingValue              float64                         `json:"trailing_value"`
	DCAValue                   float64                         `json:"dca_value"`
	LumpValue                  float64                         `json:"lump_value"`
	InitialPrice               float64                         `json:"initial_price"`
	TotalInvestment            float64                         `json:"total_investment"`
	TrailingPercentageIncrease float64                         `json:"trailing_percentage_increase"`
	DCAPercentageIncrease      float64                         `json:"dca_percentage_increase"`
	LumpPercentageIncrease     float64                         `json:"lump_percentage_increase"`
	TrailingDollarIncrease     float64                         `json:"trailing_dollar_increase"`
	DCADollarIncrease          float64                         `json:"dca_dollar_increase"`
	LumpDollarIncrease         float64                         `json:"lump_dollar_increase"`
	DCAVsTrailing              float64                         `json:"dca_vs_trailing"`
	Lifetime                   Lifetime                        `json:"lifetime"`
	RollingReturns             map[string]map[string]float64   `json:"rolling_returns"`
	Risk                       map[string]analysis.RiskMetrics `json:"risk,omitempty"`
}

type Transaction struct {
	Date              string   `json:"date"`
	Price             float64  `json:"price"`
	Shares            float64  `json:"shares"`
	Amount            float64  `json:"amount"`
	CumulativeShares  float64  `json:"cumulative_shares"`
	TotalInvested     float64  `json:"total_invested"`
	DeclinePercentage *float64 `json:"decline_percentage,omitempty"`
}

type Transactions struct {
	Trailing []Transaction `json:"trailing"`
	DCA      []Transaction `json:"dca"`
}

type DailyPrice struct {
	Open  float64 `json:"open"`
	Close float64 `json:"close"`
}

type AnalysisResult struct {
	StockInfo    StockInfo             `json:"stock_info"`
	Performance  Performance           `json:"performance"`
	Summary      Summary               `json:"summary"`
	Transactions Transactions          `json:"transactions"`
	DailyPrices  map[string]DailyPrice `json:"daily_prices"`
}

const dateLayout = "2006-01-02"

func (s AnalysisService) Run(ctx context.Context, params domain.Parameters) (*AnalysisResult, error) {
	log := logger.FromContext(ctx)

	if err := params.Validate(); err != nil {
		return nil, err
	}

	name, err := s.PriceRepository.GetName(ctx, params.Ticker)
	if err != nil {
		return nil, err
	}

	// always pull the maximum history; rolling returns and lifetime span
	// the full series even when the analysis window is shorter
	now := time.Now().UTC()
	full, err := s.PriceRepository.GetDailyBars(ctx, params.Ticker, time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), now)
	if err != nil {
		return nil, err
	}
	if len(full) == 0 {
		return nil, fmt.Errorf("%w: no data available for %s", domain.ErrUnknownTicker, params.Ticker)
	}

	timelineStart := full.End().AddDate(0, -params.TimelineMonths, 0)
	if timelineStart.Before(full.Start()) {
		return nil, fmt.Errorf(
			"%w: %s has %d trading days, not enough for a %d month timeline",
			domain.ErrInsufficientHistory, params.Ticker, len(full), params.TimelineMonths,
		)
	}
	series := full.From(timelineStart)
	if len(series) == 0 {
		return nil, fmt.Errorf("%w: no bars within the %d month timeline", domain.ErrInsufficientHistory, params.TimelineMonths)
	}

	schedule := calendar.New(series, params.Frequency)
	if schedule.Count() == 0 {
		return nil, fmt.Errorf("%w: no scheduled %s purchases within the timeline", domain.ErrInsufficientHistory, params.Frequency)
	}

	log.Infow("running analysis",
		"ticker", params.Ticker,
		"timelineMonths", params.TimelineMonths,
		"frequency", params.Frequency,
		"tradingDays", len(series),
	)

	trailing := strategy.NewTrailingBuy(params.Amount, params.TrailingPercentage)
	dca := strategy.NewDCA(params.Amount, params.Frequency)
	lump := strategy.NewLumpSum(params.Amount, params.Frequency)

	// the strategies share nothing but the read-only series, so replay
	// them side by side
	var (
		wg                                       sync.WaitGroup
		trailingEvents, dcaEvents, lumpEvents    []domain.BuyEvent
		trailingFullVal, dcaFullVal, lumpFullVal []domain.PortfolioSnapshot
	)
	run := func(st strategy.Strategy, events *[]domain.BuyEvent, fullValuation *[]domain.PortfolioSnapshot) {
		defer wg.Done()
		*events = st.Run(series)
		*fullValuation = portfolio.Track(full, st.Run(full))
	}
	wg.Add(3)
	go run(trailing, &trailingEvents, &trailingFullVal)
	go run(dca, &dcaEvents, &dcaFullVal)
	go run(lump, &lumpEvents, &lumpFullVal)
	wg.Wait()

	trailingSnaps := portfolio.Track(series, trailingEvents)
	dcaSnaps := portfolio.Track(series, dcaEvents)
	lumpSnaps := portfolio.Track(series, lumpEvents)

	rollingReturns := analysis.RollingReturns(map[string][]domain.PortfolioSnapshot{
		analysis.LabelTrailing: trailingFullVal,
		analysis.LabelDCA:      dcaFullVal,
		analysis.LabelLump:     lumpFullVal,
	})

	totalInvestment := params.Amount.Mul(decimal.NewFromInt(int64(schedule.Count())))

	result := &AnalysisResult{
		StockInfo: StockInfo{
			Name:   name,
			Ticker: params.Ticker,
		},
		Performance: buildPerformance(series, trailingSnaps, dcaSnaps, lumpSnaps),
		Summary: buildSummary(
			full, series,
			trailingSnaps, dcaSnaps, lumpSnaps,
			totalInvestment, rollingReturns,
		),
		Transactions: Transactions{
			Trailing: buildTransactions(trailingEvents),
			DCA:      buildTransactions(dcaEvents),
		},
		DailyPrices: buildDailyPrices(series),
	}

	return result, nil
}

func buildPerformance(
	series domain.PriceSeries,
	trailingSnaps, dcaSnaps, lumpSnaps []domain.PortfolioSnapshot,
) Performance {
	p := Performance{
		Dates:            make([]string, 0, len(series)),
		Trailing:         make([]float64, 0, len(series)),
		DCA:              make([]float64, 0, len(series)),
		Lump:             make([]float64, 0, len(series)),
		TrailingInvested: make([]float64, 0, len(series)),
		DCAInvested:      make([]float64, 0, len(series)),
		LumpInvested:     make([]float64, 0, len(series)),
	}
	for i := range series {
		p.Dates = append(p.Dates, series[i].Date.Format(dateLayout))
		p.Trailing = append(p.Trailing, trailingSnaps[i].MarketValue.InexactFloat64())
		p.DCA = append(p.DCA, dcaSnaps[i].MarketValue.InexactFloat64())
		p.Lump = append(p.Lump, lumpSnaps[i].MarketValue.InexactFloat64())
		p.TrailingInvested = append(p.TrailingInvested, trailingSnaps[i].InvestedTotal.InexactFloat64())
		p.DCAInvested = append(p.DCAInvested, dcaSnaps[i].InvestedTotal.InexactFloat64())
		p.LumpInvested = append(p.LumpInvested, lumpSnaps[i].InvestedTotal.InexactFloat64())
	}
	return p
}

func buildSummary(
	full, series domain.PriceSeries,
	trailingSnaps, dcaSnaps, lumpSnaps []domain.PortfolioSnapshot,
	totalInvestment decimal.Decimal,
	rollingReturns map[string]map[string]float64,
) Summary {
	trailingFinal := trailingSnaps[len(trailingSnaps)-1]
	dcaFinal := dcaSnaps[len(dcaSnaps)-1]
	lumpFinal := lumpSnaps[len(lumpSnaps)-1]

	life := analysis.Lifetime(full)

	summary := Summary{
		TrailingValue:   round2(trailingFinal.MarketValue),
		DCAValue:        round2(dcaFinal.MarketValue),
		LumpValue:       round2(lumpFinal.MarketValue),
		InitialPrice:    series[0].Close.InexactFloat64(),
		TotalInvestment: round2(totalInvestment),

		TrailingPercentageIncrease: percentageIncrease(trailingFinal),
		DCAPercentageIncrease:      percentageIncrease(dcaFinal),
		LumpPercentageIncrease:     percentageIncrease(lumpFinal),
		TrailingDollarIncrease:     round2(trailingFinal.MarketValue.Sub(trailingFinal.InvestedTotal)),
		DCADollarIncrease:          round2(dcaFinal.MarketValue.Sub(dcaFinal.InvestedTotal)),
		LumpDollarIncrease:         round2(lumpFinal.MarketValue.Sub(lumpFinal.InvestedTotal)),

		Lifetime: Lifetime{
			Years:     life.Years,
			Months:    life.Months,
			StartDate: full.Start().Format(dateLayout),
			EndDate:   full.End().Format(dateLayout),
		},
		RollingReturns: rollingReturns,
		Risk:           buildRisk(trailingSnaps, dcaSnaps, lumpSnaps),
	}

	if dcaFinal.MarketValue.IsPositive() {
		summary.DCAVsTrailing = round2(
			trailingFinal.MarketValue.Sub(dcaFinal.MarketValue).
				Div(dcaFinal.MarketValue).Mul(decimal.NewFromInt(100)),
		)
	}

	return summary
}

func buildRisk(trailingSnaps, dcaSnaps, lumpSnaps []domain.PortfolioSnapshot) map[string]analysis.RiskMetrics {
	out := map[string]analysis.RiskMetrics{}
	for label, snaps := range map[string][]domain.PortfolioSnapshot{
		analysis.LabelTrailing: trailingSnaps,
		analysis.LabelDCA:      dcaSnaps,
		analysis.LabelLump:     lumpSnaps,
	} {
		metrics, err := analysis.Risk(snaps)
		if err != nil {
			// too few funded days to measure - leave the strategy out
			continue
		}
		out[label] = *metrics
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func buildTransactions(events []domain.BuyEvent) []Transaction {
	out := make([]Transaction, 0, len(events))
	cumulativeShares := decimal.Zero
	totalInvested := decimal.Zero

	for _, e := range events {
		cumulativeShares = cumulativeShares.Add(e.Shares)
		totalInvested = totalInvested.Add(e.Amount)

		t := Transaction{
			Date:             e.Date.Format(dateLayout),
			Price:            e.Price.InexactFloat64(),
			Shares:           e.Shares.InexactFloat64(),
			Amount:           e.Amount.InexactFloat64(),
			CumulativeShares: cumulativeShares.InexactFloat64(),
			TotalInvested:    totalInvested.InexactFloat64(),
		}
		if e.DeclinePercentage.IsPositive() {
			decline := e.DeclinePercentage.InexactFloat64()
			t.DeclinePercentage = &decline
		}
		out = append(out, t)
	}
	return out
}

func buildDailyPrices(series domain.PriceSeries) map[string]DailyPrice {
	out := make(map[string]DailyPrice, len(series))
	for _, bar := range series {
		out[bar.Date.Format(dateLayout)] = DailyPrice{
			Open:  bar.Open.InexactFloat64(),
			Close: bar.Close.InexactFloat64(),
		}
	}
	return out
}

func percentageIncrease(final domain.PortfolioSnapshot) float64 {
	if !final.InvestedTotal.IsPositive() {
		return 0
	}
	return round2(
		final.MarketValue.Sub(final.InvestedTotal).
			Div(final.InvestedTotal).Mul(decimal.NewFromInt(100)),
	)
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
