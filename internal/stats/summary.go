// Package stats derives run summaries and trends from day records.
package stats

import (
	"errors"

	"LifeSupport/internal/model"
)

// KindStats aggregates one resource over a run.
type KindStats struct {
	Min          int64
	Max          int64
	Final        int64
	Net          int64
	ShortageDays int
}

// Summary aggregates a whole run.
type Summary struct {
	Days           int
	Initial        model.Stock
	Final          model.Stock
	Kinds          [model.KindCount]KindStats
	FarmBonusDays  int
	FullSupplyDays int
}

// Summarize scans the records of a run starting from initial.
// The initial stock counts toward each kind's min and max.
func Summarize(initial model.Stock, days []model.DayRecord) Summary {
	s := Summary{Days: len(days), Initial: initial, Final: initial}
	for _, k := range model.Kinds {
		s.Kinds[k].Min = initial[k]
		s.Kinds[k].Max = initial[k]
	}
	for _, rec := range days {
		for _, k := range model.Kinds {
			ks := &s.Kinds[k]
			if rec.After[k] < ks.Min {
				ks.Min = rec.After[k]
			}
			if rec.After[k] > ks.Max {
				ks.Max = rec.After[k]
			}
			if !rec.Report[k] {
				ks.ShortageDays++
			}
		}
		if rec.FarmBonus {
			s.FarmBonusDays++
		}
		if rec.Report.AllMet() {
			s.FullSupplyDays++
		}
		s.Final = rec.After
	}
	for _, k := range model.Kinds {
		s.Kinds[k].Final = s.Final[k]
		s.Kinds[k].Net = s.Final[k] - initial[k]
	}
	return s
}

// ErrNoRecords is returned when a trend is requested over an empty run.
var ErrNoRecords = errors.New("no day records provided")

// AverageNetChange returns the mean daily change per resource over the most
// recent window days.
func AverageNetChange(days []model.DayRecord, window int) ([model.KindCount]float64, error) {
	var out [model.KindCount]float64
	if window <= 0 {
		return out, errors.New("window must be positive")
	}
	if len(days) == 0 {
		return out, ErrNoRecords
	}
	start := len(days) - window
	if start < 0 {
		start = 0
	}
	n := float64(len(days) - start)
	for i := start; i < len(days); i++ {
		for _, k := range model.Kinds {
			out[k] += float64(days[i].After[k] - days[i].Before[k])
		}
	}
	for _, k := range model.Kinds {
		out[k] /= n
	}
	return out, nil
}

// DaysUntilDepleted projects how many days the current stock lasts at the
// given daily change. It returns -1 for kinds that are not declining.
func DaysUntilDepleted(current model.Stock, change [model.KindCount]float64) [model.KindCount]int {
	var out [model.KindCount]int
	for _, k := range model.Kinds {
		if change[k] >= 0 {
			out[k] = -1
			continue
		}
		out[k] = int(float64(current[k]) / -change[k])
	}
	return out
}
