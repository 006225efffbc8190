package jobs

import (
	"context"

	"bist-screener/internal/pipeline"
	"bist-screener/pkg/logger"
)

// ScreenJob runs the daily screening pipeline on schedule.
type ScreenJob struct {
	runner   *pipeline.Runner
	schedule string
	logger   *logger.Logger
}

// NewScreenJob creates the screening job with the given cron schedule.
func NewScreenJob(runner *pipeline.Runner, schedule string, log *logger.Logger) *ScreenJob {
	return &ScreenJob{
		runner:   runner,
		schedule: schedule,
		logger:   log,
	}
}

func (j *ScreenJob) Name() string {
	return "daily-screen"
}

func (j *ScreenJob) Schedule() string {
	return j.schedule
}

func (j *ScreenJob) Run(ctx context.Context) error {
	result := j.runner.Run(ctx)

	j.logger.WithFields(map[string]interface{}{
		"date":     result.Date,
		"safe":     result.Safe,
		"signals":  len(result.Signals),
		"duration": result.Duration.String(),
	}).Info("Screening run finished")

	return nil
}
