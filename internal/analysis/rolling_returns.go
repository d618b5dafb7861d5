package analysis

import (
	"time"

	"dipbacktest/internal/domain"
)

// Strategy labels as the presentation layer shows them.
const (
	LabelTrailing = "Buy the Dip"
	LabelDCA      = "Dollar-Cost Averaging (DCA)"
	LabelLump     = "Buy and Hold"
)

type window struct {
	label  string
	months int
}

var windows = []window{
	{"1 Year", 12},
	{"5 Years", 60},
	{"10 Years", 120},
	{"15 Years", 180},
	{"20 Years", 240},
	{"25 Years", 300},
}

const allTimeLabel = "All-Time"

// RollingReturns computes trailing-window returns per strategy from the
// daily valuation series. A window is the percent change in market value
// between the last snapshot at or before (end - months) and the final
// snapshot. No interpolation happens between trading days.
//
// Windows longer than the available history are omitted outright, never
// reported as null. An All-Time window over the whole series is always
// attempted.
//
// A strategy that has not bought anything yet at the window start has
// zero market value there; its measurement starts at its first funded
// snapshot inside the window instead. A strategy with no funded snapshot
// in the window is left out of that window's row.
func RollingReturns(valuations map[string][]domain.PortfolioSnapshot) map[string]map[string]float64 {
	out := map[string]map[string]float64{}

	availableMonths := 0
	for _, snapshots := range valuations {
		if len(snapshots) == 0 {
			continue
		}
		days := snapshots[len(snapshots)-1].Date.Sub(snapshots[0].Date).Hours() / 24
		if months := int(days / 30); months > availableMonths {
			availableMonths = months
		}
	}

	for _, w := range windows {
		if w.months > availableMonths {
			continue
		}
		row := map[string]float64{}
		for label, snapshots := range valuations {
			if len(snapshots) == 0 {
				continue
			}
			target := snapshots[len(snapshots)-1].Date.AddDate(0, -w.months, 0)
			start := lastSnapshotAtOrBefore(snapshots, target)
			if ret, ok := windowReturn(snapshots, start); ok {
				row[label] = ret
			}
		}
		if len(row) > 0 {
			out[w.label] = row
		}
	}

	allTime := map[string]float64{}
	for label, snapshots := range valuations {
		if ret, ok := windowReturn(snapshots, 0); ok {
			allTime[label] = ret
		}
	}
	if len(allTime) > 0 {
		out[allTimeLabel] = allTime
	}

	return out
}

func lastSnapshotAtOrBefore(snapshots []domain.PortfolioSnapshot, target time.Time) int {
	out := 0
	for i, s := range snapshots {
		if s.Date.After(target) {
			break
		}
		out = i
	}
	return out
}

func windowReturn(snapshots []domain.PortfolioSnapshot, start int) (float64, bool) {
	if len(snapshots) == 0 {
		return 0, false
	}
	end := len(snapshots) - 1

	// skip forward past the unfunded stretch before the first purchase
	for start < end && !snapshots[start].MarketValue.IsPositive() {
		start++
	}
	startValue := snapshots[start].MarketValue
	if start >= end || !startValue.IsPositive() {
		return 0, false
	}

	endValue := snapshots[end].MarketValue
	return endValue.Sub(startValue).Div(startValue).InexactFloat64() * 100, true
}
