package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Frequency string

const (
	FrequencyDaily    Frequency = "Daily"
	FrequencyWeekly   Frequency = "Weekly"
	FrequencyBiWeekly Frequency = "Bi-Weekly"
	FrequencyMonthly  Frequency = "Monthly"
	FrequencyAnnual   Frequency = "Annual"
)

func NewFrequency(s string) (*Frequency, error) {
	for _, f := range []Frequency{
		FrequencyDaily,
		FrequencyWeekly,
		FrequencyBiWeekly,
		FrequencyMonthly,
		FrequencyAnnual,
	} {
		if s == string(f) {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid frequency %q", ErrInvalidParameter, s)
}

// Parameters is the validated input to one analysis run.
type Parameters struct {
	Ticker             string
	Amount             decimal.Decimal
	Frequency          Frequency
	TimelineMonths     int
	TrailingPercentage decimal.Decimal
}

var oneHundred = decimal.NewFromInt(100)

// Validate rejects out-of-range inputs outright - nothing is clamped.
func (p Parameters) Validate() error {
	if p.Ticker == "" || len(p.Ticker) > 10 {
		return fmt.Errorf("%w: invalid ticker symbol", ErrInvalidParameter)
	}
	if !p.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidParameter)
	}
	if _, err := NewFrequency(string(p.Frequency)); err != nil {
		return err
	}
	if p.TimelineMonths <= 0 {
		return fmt.Errorf("%w: timeline must be positive", ErrInvalidParameter)
	}
	if !p.TrailingPercentage.IsPositive() || p.TrailingPercentage.GreaterThanOrEqual(oneHundred) {
		return fmt.Errorf("%w: trailing percentage must be between 0 and 100", ErrInvalidParameter)
	}
	return nil
}
