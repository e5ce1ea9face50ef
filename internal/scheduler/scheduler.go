// Package scheduler owns the one piece of timing in the app: a daily
// gocron job that asks the generator to expand the catalog for the current
// date. The generator itself is trigger-agnostic and idempotent, so a
// missed or duplicated tick is harmless.
package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/pawlog/pawlog-backend/internal/logger"
	"github.com/pawlog/pawlog-backend/internal/services"
)

type Config struct {
	// Local wall-clock time of the daily generation run.
	AtHour   int
	AtMinute int
}

func Start(log *logger.Logger, generatorService services.GeneratorService, cfg Config) (gocron.Scheduler, error) {
	schedulerLog := log.With("component", "scheduler")

	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = s.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(
			gocron.NewAtTime(uint(cfg.AtHour), uint(cfg.AtMinute), 0),
		)),
		gocron.NewTask(func() {
			date := time.Now().Format("2006-01-02")
			if err := generatorService.GenerateDaily(context.Background(), date); err != nil {
				schedulerLog.Error("Daily generation failed", "date", date, "error", err)
				return
			}
			schedulerLog.Info("Daily generation ran", "date", date)
		}),
	)
	if err != nil {
		return nil, err
	}

	s.Start()
	schedulerLog.Info("Scheduler started", "at_hour", cfg.AtHour, "at_minute", cfg.AtMinute)
	return s, nil
}
