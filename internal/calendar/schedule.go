package calendar

import (
	"time"

	"dipbacktest/internal/domain"
)

// Schedule precomputes the purchase due dates for a frequency over one
// price series. Due dates are a pure function of the series calendar -
// building the same schedule twice yields identical dates.
//
// Periods close on their last trading day: Weekly buys on the week's
// Friday bar, or the latest earlier bar of that week when Friday is a
// holiday; Monthly and Annual buy on the last trading day of the month
// and year. A partial period at the end of the series is only due when
// the series actually reaches the period's final business day.
type Schedule struct {
	frequency  domain.Frequency
	dueIndices []int
	dueDates   map[string]bool
}

const layout = "2006-01-02"

func New(series domain.PriceSeries, frequency domain.Frequency) *Schedule {
	s := &Schedule{
		frequency:  frequency,
		dueIndices: dueIndices(series, frequency),
		dueDates:   map[string]bool{},
	}
	for _, i := range s.dueIndices {
		s.dueDates[series[i].Date.Format(layout)] = true
	}
	return s
}

// IsDue reports whether a purchase check fires on the given trading day.
func (s *Schedule) IsDue(date time.Time) bool {
	return s.dueDates[date.Format(layout)]
}

// DueIndices returns the positions of the due bars within the series the
// schedule was built from, in order.
func (s *Schedule) DueIndices() []int {
	return s.dueIndices
}

// Count is the number of purchases the schedule calls for.
func (s *Schedule) Count() int {
	return len(s.dueIndices)
}

func dueIndices(series domain.PriceSeries, frequency domain.Frequency) []int {
	if len(series) == 0 {
		return []int{}
	}

	switch frequency {
	case domain.FrequencyDaily:
		out := make([]int, len(series))
		for i := range series {
			out[i] = i
		}
		return out
	case domain.FrequencyWeekly:
		return periodEndIndices(series, weekKey, isLastBusinessDayOfWeek)
	case domain.FrequencyBiWeekly:
		weekly := periodEndIndices(series, weekKey, isLastBusinessDayOfWeek)
		out := []int{}
		for i := 0; i < len(weekly); i += 2 {
			out = append(out, weekly[i])
		}
		return out
	case domain.FrequencyMonthly:
		return periodEndIndices(series, monthKey, isLastBusinessDayOfMonth)
	case domain.FrequencyAnnual:
		return periodEndIndices(series, yearKey, isLastBusinessDayOfYear)
	}

	return []int{}
}

// periodEndIndices finds the last bar of each period. The final bar of
// the series only counts when it lands on the period's closing business
// day, since that period may still be in progress.
func periodEndIndices(series domain.PriceSeries, key func(time.Time) int, isPeriodClose func(time.Time) bool) []int {
	out := []int{}
	for i := range series {
		lastOfPeriod := i == len(series)-1 || key(series[i+1].Date) != key(series[i].Date)
		if !lastOfPeriod {
			continue
		}
		if i == len(series)-1 && !isPeriodClose(series[i].Date) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func weekKey(t time.Time) int {
	year, week := t.ISOWeek()
	return year*100 + week
}

func monthKey(t time.Time) int {
	return t.Year()*100 + int(t.Month())
}

func yearKey(t time.Time) int {
	return t.Year()
}

func isLastBusinessDayOfWeek(t time.Time) bool {
	return t.Weekday() == time.Friday
}

func isLastBusinessDayOfMonth(t time.Time) bool {
	return t.Day() == lastBusinessDay(t.Year(), t.Month()).Day()
}

func isLastBusinessDayOfYear(t time.Time) bool {
	return t.Month() == time.December && isLastBusinessDayOfMonth(t)
}

func lastBusinessDay(year int, month time.Month) time.Time {
	// day 0 of the next month is the last calendar day of this month
	d := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, -1)
	}
	return d
}
