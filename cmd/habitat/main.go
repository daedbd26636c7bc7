package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"LifeSupport/internal/config"
	"LifeSupport/internal/habitat"
	"LifeSupport/internal/logging"
	"LifeSupport/internal/recorder"
	"LifeSupport/internal/report"
	"LifeSupport/internal/scheduler"
	"LifeSupport/internal/stats"
)

// outlookWindow is the number of trailing days used for the depletion outlook.
const outlookWindow = 7

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		cfgPath = flag.String("config", "configs/config.yaml", "path to the YAML config (overridden by CONFIG_PATH)")
		days    = flag.Int("days", -1, "days to simulate in batch mode (default from config)")
		serve   = flag.Bool("serve", false, "advance one day per cron tick until interrupted")
	)
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *days >= 0 {
		cfg.Simulation.Days = *days
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level)
	logger.Infof("LifeSupport starting (residents=%d farms=%d)", cfg.Habitat.Residents, cfg.Habitat.Farms)

	initial, err := cfg.InitialStock()
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	h, err := habitat.NewManager(initial, cfg.Habitat.Residents, cfg.Habitat.Farms, cfg.State.File, logger)
	if err != nil {
		log.Fatalf("[FATAL] init habitat: %v", err)
	}

	runID := recorder.NewRunID()
	rec := openRecorders(cfg, runID, logger)
	defer func() {
		if err := rec.Close(); err != nil {
			logger.Errorf("close recorder: %v", err)
		}
	}()

	run := func() error { return runBatch(cfg.Simulation.Days, h, rec, logger, runID) }
	if *serve {
		run = func() error { return runDaemon(cfg, h, rec, logger, runID) }
	}
	if err := run(); err != nil {
		logger.Errorf("%v", err)
		if err := rec.Close(); err != nil {
			logger.Errorf("close recorder: %v", err)
		}
		os.Exit(1)
	}
}

// openRecorders builds the configured history sinks; a sink that fails to
// open is skipped with a warning.
func openRecorders(cfg *config.Config, runID string, logger logging.Logger) recorder.Recorder {
	var sinks recorder.Multi
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warnf("init sqlite recorder failed, skipping: %v", err)
		} else {
			sinks = append(sinks, sr)
		}
	}
	if cfg.History.Dir != "" {
		jr, err := recorder.NewJSONLZstdRecorder(cfg.History.Dir, "habitat", runID)
		if err != nil {
			logger.Warnf("init history recorder failed, skipping: %v", err)
		} else {
			logger.Infof("writing history to %s", jr.Path())
			sinks = append(sinks, jr)
		}
	}
	if len(sinks) == 0 {
		return recorder.NewNoopRecorder()
	}
	return sinks
}

func runBatch(days int, h *habitat.Manager, rec recorder.Recorder, logger logging.Logger, runID string) error {
	started := time.Now()
	initial := h.Initial()

	recs, err := h.Run(days)
	if err != nil {
		return err
	}
	for i := range recs {
		logger.Debugf("%s", report.FormatDay(recs[i]))
		if err := rec.RecordDay(&recorder.DayEvent{RunID: runID, Record: recs[i]}); err != nil {
			logger.Errorf("record day: %v", err)
		}
	}

	final, _ := h.GetStock()
	if err := rec.RecordRun(&recorder.RunEvent{
		RunID:      runID,
		Residents:  h.Residents(),
		Farms:      h.Farms(),
		Days:       len(recs),
		Initial:    initial,
		Final:      final,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}); err != nil {
		logger.Errorf("record run: %v", err)
	}
	if v, ok := rec.(recorder.Verifier); ok {
		if err := v.Verify(runID, len(recs), final); err != nil {
			logger.Warnf("%v", err)
		} else {
			logger.Debugf("history verified: %d days stored for run %s", len(recs), runID)
		}
	}

	fmt.Print(report.FormatSummary(stats.Summarize(initial, recs)))
	if change, err := stats.AverageNetChange(recs, outlookWindow); err == nil {
		fmt.Print("\n" + report.FormatOutlook(final, change))
	}
	return nil
}

func runDaemon(cfg *config.Config, h *habitat.Manager, rec recorder.Recorder, logger logging.Logger, runID string) error {
	sched := scheduler.NewScheduler(h, rec, logger, runID)
	if err := sched.RegisterAll(cfg.Schedule.DayCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Infof("RUN_ON_START enabled, advancing one day now")
		sched.RunDayNow()
	}

	logger.Infof("LifeSupport is running (%s). Press Ctrl+C to stop.", cfg.Schedule.DayCron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Infof("shutdown signal received, stopping...")
	sched.Stop()
	logger.Infof("LifeSupport stopped after %d days", sched.DaysRun())
	return nil
}
