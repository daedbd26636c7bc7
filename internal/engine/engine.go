// Package engine advances a habitat's resource stock one day at a time.
package engine

import (
	"errors"
	"fmt"

	"LifeSupport/internal/logging"
	"LifeSupport/internal/model"
)

var (
	// ErrNegativeDays is returned by RunSimulation for a negative day count.
	ErrNegativeDays = errors.New("day count must not be negative")
	// ErrNegativePopulation is returned by New for negative resident or farm counts.
	ErrNegativePopulation = errors.New("population counts must not be negative")
)

// Engine holds one habitat's stock and its fixed population.
// It is not safe for concurrent use.
type Engine struct {
	stock     model.Stock
	residents int64
	farms     int64
	day       int

	log      logging.Logger
	observer func(model.DayRecord)
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-day debug output.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithObserver registers fn to receive every completed day.
func WithObserver(fn func(model.DayRecord)) Option {
	return func(e *Engine) { e.observer = fn }
}

// WithStartDay sets the day counter, used when resuming from a snapshot.
func WithStartDay(day int) Option {
	return func(e *Engine) { e.day = day }
}

// New creates an Engine owning a copy of initial.
func New(initial model.Stock, residents, farms int, opts ...Option) (*Engine, error) {
	if residents < 0 || farms < 0 {
		return nil, fmt.Errorf("%w: residents=%d farms=%d", ErrNegativePopulation, residents, farms)
	}
	e := &Engine{
		stock:     initial,
		residents: int64(residents),
		farms:     int64(farms),
		log:       logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Stock returns a snapshot of the current stock.
func (e *Engine) Stock() model.Stock { return e.stock }

func (e *Engine) Residents() int { return int(e.residents) }
func (e *Engine) Farms() int     { return int(e.farms) }

// Day returns the number of day-steps completed.
func (e *Engine) Day() int { return e.day }

// CalculateDemand returns today's demand from the population counts.
func (e *Engine) CalculateDemand() model.Demand {
	var d model.Demand
	d[model.Oxygen] = e.residents * ResidentOxygen
	d[model.Water] = e.residents*ResidentWater + e.farms*FarmWater
	d[model.Food] = e.residents * ResidentFood
	d[model.Energy] = e.farms * FarmEnergy
	return d
}

// Consume draws each resource independently: a kind is deducted in full
// when the stock covers it, and left untouched otherwise.
func (e *Engine) Consume(demand model.Demand) model.Report {
	var r model.Report
	for _, k := range model.Kinds {
		if e.stock[k] >= demand[k] {
			e.stock[k] -= demand[k]
			r[k] = true
		}
	}
	return r
}

// Produce applies the farm yield when both water and energy were met, then
// adds the base energy input.
func (e *Engine) Produce(report model.Report) {
	e.produce(report)
}

func (e *Engine) produce(report model.Report) bool {
	bonus := report[model.Water] && report[model.Energy]
	if bonus {
		e.stock[model.Food] += e.farms * FarmFoodYield
		e.stock[model.Oxygen] += e.farms * FarmOxygenYield
	}
	e.stock[model.Energy] += BaseEnergy
	return bonus
}

// SimulateOneDay runs demand, consumption and production in that order.
func (e *Engine) SimulateOneDay() model.DayRecord {
	rec := model.DayRecord{Before: e.stock}

	rec.Demand = e.CalculateDemand()
	rec.Report = e.Consume(rec.Demand)
	rec.FarmBonus = e.produce(rec.Report)

	e.day++
	rec.Day = e.day
	rec.After = e.stock

	if short := rec.Report.Shortages(); len(short) > 0 {
		e.log.Debugf("day %d: shortage of %v", rec.Day, short)
	}
	if e.observer != nil {
		e.observer(rec)
	}
	return rec
}

// RunSimulation advances the given number of days and returns the final stock.
func (e *Engine) RunSimulation(days int) (model.Stock, error) {
	if days < 0 {
		return e.stock, fmt.Errorf("run simulation: %w: %d", ErrNegativeDays, days)
	}
	for i := 0; i < days; i++ {
		e.SimulateOneDay()
	}
	return e.stock, nil
}
