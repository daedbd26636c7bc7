// Package habitat serializes access to one engine for long-running drivers.
package habitat

import (
	"fmt"
	"sync"

	"LifeSupport/internal/engine"
	"LifeSupport/internal/logging"
	"LifeSupport/internal/model"
	"LifeSupport/internal/report"
)

// Manager owns an engine and guards it with a mutex so scheduled tasks
// never step it concurrently.
type Manager struct {
	mu        sync.Mutex
	eng       *engine.Engine
	initial   model.Stock
	stateFile string
	log       logging.Logger

	// pending collects records from the engine observer during Run.
	pending []model.DayRecord
}

// NewManager builds the engine, resuming from stateFile when it holds a
// snapshot for the same population. An empty stateFile disables snapshots.
func NewManager(initial model.Stock, residents, farms int, stateFile string, log logging.Logger) (*Manager, error) {
	startDay := 0
	if stateFile != "" {
		snap, err := report.LoadSnapshot(stateFile)
		if err != nil {
			return nil, err
		}
		switch {
		case snap == nil:
		case snap.Residents != residents || snap.Farms != farms:
			log.Warnf("snapshot %s is for residents=%d farms=%d, starting fresh", stateFile, snap.Residents, snap.Farms)
		default:
			initial = snap.Stock
			startDay = snap.Day
			log.Infof("resumed habitat from %s at day %d", stateFile, startDay)
		}
	}

	m := &Manager{initial: initial, stateFile: stateFile, log: log}
	eng, err := engine.New(initial, residents, farms,
		engine.WithLogger(log),
		engine.WithStartDay(startDay),
		engine.WithObserver(func(rec model.DayRecord) { m.pending = append(m.pending, rec) }),
	)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}
	m.eng = eng
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Initial returns the stock the manager started (or resumed) from.
func (m *Manager) Initial() model.Stock { return m.initial }

func (m *Manager) Residents() int { return m.eng.Residents() }
func (m *Manager) Farms() int     { return m.eng.Farms() }

// GetStock returns a snapshot of the current stock and day counter.
func (m *Manager) GetStock() (model.Stock, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.eng.Stock(), m.eng.Day()
}

// Advance simulates one day and persists the result.
func (m *Manager) Advance() model.DayRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec := m.eng.SimulateOneDay()
	m.pending = m.pending[:0]
	if err := m.save(); err != nil {
		m.log.Errorf("failed to save habitat state: %v", err)
	}
	return rec
}

// Run advances days in one locked batch and returns each day's record.
func (m *Manager) Run(days int) ([]model.DayRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pending = m.pending[:0]
	if _, err := m.eng.RunSimulation(days); err != nil {
		return nil, fmt.Errorf("run habitat: %w", err)
	}
	recs := make([]model.DayRecord, len(m.pending))
	copy(recs, m.pending)
	m.pending = m.pending[:0]

	if err := m.save(); err != nil {
		m.log.Errorf("failed to save habitat state: %v", err)
	}
	return recs, nil
}

func (m *Manager) save() error {
	if m.stateFile == "" {
		return nil
	}
	return report.SaveSnapshot(m.stateFile, &report.Snapshot{
		Day:       m.eng.Day(),
		Residents: m.eng.Residents(),
		Farms:     m.eng.Farms(),
		Stock:     m.eng.Stock(),
	})
}
