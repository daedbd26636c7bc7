package recorder

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"LifeSupport/internal/model"
)

// DayEvent is one simulated day within a run.
type DayEvent struct {
	RunID  string          `json:"run_id"`
	Record model.DayRecord `json:"record"`
}

// RunEvent summarises a finished (or stopped) run.
type RunEvent struct {
	RunID      string      `json:"run_id"`
	Residents  int         `json:"residents"`
	Farms      int         `json:"farms"`
	Days       int         `json:"days"`
	Initial    model.Stock `json:"initial"`
	Final      model.Stock `json:"final"`
	StartedAt  time.Time   `json:"started_at"`
	FinishedAt time.Time   `json:"finished_at"`
}

// Recorder persists run history for later analysis.
type Recorder interface {
	RecordDay(evt *DayEvent) error
	RecordRun(evt *RunEvent) error
	Close() error
}

// Verifier is implemented by recorders that can read a run back.
type Verifier interface {
	// Verify reports an error unless runID holds exactly days stored steps
	// and, when days > 0, the last one ends at final.
	Verify(runID string, days int, final model.Stock) error
}

// ErrHistoryMismatch is returned by Verify when stored history disagrees
// with the run that produced it.
var ErrHistoryMismatch = errors.New("stored history does not match run")

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Multi fans every event out to each recorder in order.
type Multi []Recorder

func (m Multi) RecordDay(evt *DayEvent) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordDay(evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) RecordRun(evt *RunEvent) error {
	var errs []error
	for _, r := range m {
		if err := r.RecordRun(evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) Close() error {
	var errs []error
	for _, r := range m {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Verify checks every member that implements Verifier.
func (m Multi) Verify(runID string, days int, final model.Stock) error {
	var errs []error
	for _, r := range m {
		v, ok := r.(Verifier)
		if !ok {
			continue
		}
		if err := v.Verify(runID, days, final); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
