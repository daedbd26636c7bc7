package report

import (
	"fmt"
	"strings"

	"LifeSupport/internal/model"
	"LifeSupport/internal/stats"
)

// FormatStock renders a stock as "OXYGEN=99 WATER=91 FOOD=102 ENERGY=109".
func FormatStock(s model.Stock) string {
	parts := make([]string, 0, model.KindCount)
	for _, k := range model.Kinds {
		parts = append(parts, fmt.Sprintf("%s=%d", k, s[k]))
	}
	return strings.Join(parts, " ")
}

// FormatDay renders a one-line trace of a day-step.
func FormatDay(rec model.DayRecord) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("day %d: %s", rec.Day, FormatStock(rec.After)))
	if short := rec.Report.Shortages(); len(short) > 0 {
		names := make([]string, len(short))
		for i, k := range short {
			names[i] = k.String()
		}
		b.WriteString(" | short: " + strings.Join(names, ","))
	}
	if !rec.FarmBonus {
		b.WriteString(" | farms idle")
	}
	return b.String()
}

// FormatSummary renders a multi-line run summary.
func FormatSummary(s stats.Summary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Habitat run finished after %d days\n\n", s.Days))
	b.WriteString(fmt.Sprintf("Initial: %s\n", FormatStock(s.Initial)))
	b.WriteString(fmt.Sprintf("Final:   %s\n\n", FormatStock(s.Final)))

	b.WriteString(fmt.Sprintf("%-8s %8s %8s %8s %8s %9s\n", "KIND", "MIN", "MAX", "FINAL", "NET", "SHORTAGE"))
	for _, k := range model.Kinds {
		ks := s.Kinds[k]
		b.WriteString(fmt.Sprintf("%-8s %8d %8d %8d %+8d %9d\n", k, ks.Min, ks.Max, ks.Final, ks.Net, ks.ShortageDays))
	}

	b.WriteString(fmt.Sprintf("\nFull supply days: %d/%d\n", s.FullSupplyDays, s.Days))
	b.WriteString(fmt.Sprintf("Farm yield days:  %d/%d\n", s.FarmBonusDays, s.Days))
	return b.String()
}

// FormatOutlook renders the projected days until each declining resource is
// exhausted.
func FormatOutlook(current model.Stock, change [model.KindCount]float64) string {
	left := stats.DaysUntilDepleted(current, change)
	var b strings.Builder
	b.WriteString("Outlook:\n")
	for _, k := range model.Kinds {
		if left[k] < 0 {
			b.WriteString(fmt.Sprintf("  %-8s stable (%+.2f/day)\n", k, change[k]))
			continue
		}
		b.WriteString(fmt.Sprintf("  %-8s ~%d days left (%+.2f/day)\n", k, left[k], change[k]))
	}
	return b.String()
}
