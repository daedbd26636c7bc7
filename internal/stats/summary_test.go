package stats

import (
	"errors"
	"testing"

	"LifeSupport/internal/engine"
	"LifeSupport/internal/model"
)

func runDays(t *testing.T, initial model.Stock, residents, farms, days int) []model.DayRecord {
	t.Helper()
	var recs []model.DayRecord
	e, err := engine.New(initial, residents, farms,
		engine.WithObserver(func(r model.DayRecord) { recs = append(recs, r) }))
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	if _, err := e.RunSimulation(days); err != nil {
		t.Fatalf("RunSimulation: %v", err)
	}
	return recs
}

func TestSummarize_Empty(t *testing.T) {
	initial := model.Stock{1, 2, 3, 4}
	s := Summarize(initial, nil)
	if s.Days != 0 || s.Final != initial {
		t.Errorf("unexpected summary %+v", s)
	}
	for _, k := range model.Kinds {
		if s.Kinds[k].Min != initial[k] || s.Kinds[k].Max != initial[k] || s.Kinds[k].Net != 0 {
			t.Errorf("%s: unexpected stats %+v", k, s.Kinds[k])
		}
	}
}

func TestSummarize_WaterRunsOut(t *testing.T) {
	// water demand is 9/day, so days 1-3 succeed and day 4 onward fails
	initial := model.Stock{100, 27, 100, 100}
	recs := runDays(t, initial, 3, 1, 6)
	s := Summarize(initial, recs)

	if s.Days != 6 {
		t.Fatalf("days = %d", s.Days)
	}
	w := s.Kinds[model.Water]
	if w.Min != 0 || w.Max != 27 || w.Final != 0 || w.Net != -27 {
		t.Errorf("water stats = %+v", w)
	}
	if w.ShortageDays != 3 {
		t.Errorf("water shortage days = %d, want 3", w.ShortageDays)
	}
	if s.FarmBonusDays != 3 {
		t.Errorf("farm bonus days = %d, want 3", s.FarmBonusDays)
	}
	if s.FullSupplyDays != 3 {
		t.Errorf("full supply days = %d, want 3", s.FullSupplyDays)
	}
	if s.Kinds[model.Energy].ShortageDays != 0 {
		t.Errorf("energy should never run short")
	}
}

func TestAverageNetChange(t *testing.T) {
	recs := runDays(t, model.Stock{100, 100, 100, 100}, 3, 1, 5)
	avg, err := AverageNetChange(recs, 3)
	if err != nil {
		t.Fatalf("AverageNetChange: %v", err)
	}
	// each full day: oxygen -3+2, water -9, food -3+5, energy -1+10
	want := [model.KindCount]float64{-1, -9, 2, 9}
	if avg != want {
		t.Errorf("avg = %v, want %v", avg, want)
	}

	if _, err := AverageNetChange(nil, 3); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
	if _, err := AverageNetChange(recs, 0); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestDaysUntilDepleted(t *testing.T) {
	got := DaysUntilDepleted(model.Stock{99, 91, 102, 109}, [model.KindCount]float64{-1, -9, 2, 0})
	want := [model.KindCount]int{99, 10, -1, -1}
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
