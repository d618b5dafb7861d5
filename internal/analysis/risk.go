package analysis

import (
	"fmt"
	"math"

	"dipbacktest/internal/domain"

	"github.com/montanaflynn/stats"
)

type RiskMetrics struct {
	AnnualizedReturn float64 `json:"annualized_return"`
	AnnualizedStdev  float64 `json:"annualized_stdev"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
}

// Risk derives annualized return, volatility and Sharpe from one
// strategy's valuation series. Purchases inject outside cash, so each
// daily return nets out that day's contribution before comparing to the
// prior day's value. Returns an error when the series is too short to
// measure (fewer than two funded days).
func Risk(snapshots []domain.PortfolioSnapshot) (*RiskMetrics, error) {
	returns := []float64{}
	growth := 1.0

	for i := 1; i < len(snapshots); i++ {
		prev := snapshots[i-1]
		if !prev.MarketValue.IsPositive() {
			continue
		}
		flow := snapshots[i].InvestedTotal.Sub(prev.InvestedTotal)
		ret := snapshots[i].MarketValue.Sub(flow).Sub(prev.MarketValue).
			Div(prev.MarketValue).InexactFloat64()
		returns = append(returns, ret)
		growth *= 1 + ret
	}

	if len(returns) < 2 {
		return nil, fmt.Errorf("cannot calculate risk metrics on < 2 funded days")
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, err
	}

	numYears := float64(len(returns)) / 252
	annualizedReturn := math.Pow(growth, 1/numYears) - 1

	out := &RiskMetrics{
		AnnualizedReturn: annualizedReturn,
		AnnualizedStdev:  stdev * math.Sqrt(252),
	}
	if stdev > 0 {
		out.SharpeRatio = annualizedReturn / out.AnnualizedStdev
	}
	return out, nil
}
