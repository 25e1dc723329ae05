package cronrunner

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Runner schedules the ingestion cycles. Each job runs against the base
// context and is logged by name with its duration.
type Runner struct {
	cron    *cron.Cron
	logger  *zap.Logger
	baseCtx context.Context
}

func New(logger *zap.Logger, baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{
		cron:    cron.New(),
		logger:  logger,
		baseCtx: baseCtx,
	}
}

func (r *Runner) Add(name, spec string, job func(context.Context) error) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		started := time.Now()
		err := job(r.baseCtx)
		elapsed := time.Since(started)
		if r.logger == nil {
			return
		}
		if err != nil {
			r.logger.Error("cycle failed",
				zap.String("job", name),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
			return
		}
		r.logger.Info("cycle finished",
			zap.String("job", name),
			zap.Duration("elapsed", elapsed),
		)
	})
}

func (r *Runner) Start() {
	if r.logger != nil {
		r.logger.Info("cron started")
	}
	r.cron.Start()
}

func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	if r.logger != nil {
		r.logger.Info("cron stopped")
	}
}
