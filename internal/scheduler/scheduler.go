package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"LifeSupport/internal/habitat"
	"LifeSupport/internal/logging"
	"LifeSupport/internal/recorder"
	"LifeSupport/internal/report"
)

// Scheduler advances a habitat one day per cron tick.
type Scheduler struct {
	Cron     *cron.Cron
	Habitat  *habitat.Manager
	Recorder recorder.Recorder
	Log      logging.Logger
	RunID    string

	mu        sync.Mutex
	startedAt time.Time
	days      int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(h *habitat.Manager, rec recorder.Recorder, log logging.Logger, runID string) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Habitat:  h,
		Recorder: rec,
		Log:      log,
		RunID:    runID,
	}
}

// RegisterAll registers the day-step task.
func (s *Scheduler) RegisterAll(dayCron string) error {
	if _, err := s.Cron.AddFunc(dayCron, s.dayTask); err != nil {
		return fmt.Errorf("register day task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.mu.Lock()
	s.startedAt = time.Now()
	s.mu.Unlock()
	s.Cron.Start()
	s.Log.Infof("scheduler started")
}

// Stop waits for a running day task to finish, then records the run.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.recordRun()
	s.Log.Infof("scheduler stopped")
}

// RunDayNow executes one day-step immediately.
func (s *Scheduler) RunDayNow() {
	s.dayTask()
}

// DaysRun returns how many days this scheduler has advanced.
func (s *Scheduler) DaysRun() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.days
}

func (s *Scheduler) dayTask() {
	rec := s.Habitat.Advance()

	s.mu.Lock()
	s.days++
	s.mu.Unlock()

	s.Log.Infof("%s", report.FormatDay(rec))
	if short := rec.Report.Shortages(); len(short) > 0 {
		s.Log.Warnf("day %d: demand not met for %v", rec.Day, short)
	}
	if err := s.Recorder.RecordDay(&recorder.DayEvent{RunID: s.RunID, Record: rec}); err != nil {
		s.Log.Errorf("record day: %v", err)
	}
}

func (s *Scheduler) recordRun() {
	stock, _ := s.Habitat.GetStock()

	s.mu.Lock()
	days, started := s.days, s.startedAt
	s.mu.Unlock()

	evt := &recorder.RunEvent{
		RunID:      s.RunID,
		Residents:  s.Habitat.Residents(),
		Farms:      s.Habitat.Farms(),
		Days:       days,
		Initial:    s.Habitat.Initial(),
		Final:      stock,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err := s.Recorder.RecordRun(evt); err != nil {
		s.Log.Errorf("record run: %v", err)
	}
}
