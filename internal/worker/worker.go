// Package worker consumes calculation jobs from the Redis queue and runs
// them through the payroll engine. Failed jobs are retried a bounded number
// of times before a failure event is published.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nominaplus/payroll-engine/internal/domain/payroll"
)

// Engine runs one liquidation.
type Engine interface {
	Calculate(ctx context.Context, job payroll.Job) error
}

// JobQueue is the consuming side of the work queue.
type JobQueue interface {
	Name() string
	Consume(ctx context.Context, timeout time.Duration) ([]byte, error)
	Requeue(ctx context.Context, payload []byte) error
	Publish(ctx context.Context, payload any) error
}

// StatusQueue receives one event per finished job.
type StatusQueue interface {
	Publish(ctx context.Context, payload any) error
}

// maxAttempts bounds how many times a failing job is retried before it is
// reported as failed.
const maxAttempts = 3

type Worker struct {
	jobs        JobQueue
	status      StatusQueue
	engine      Engine
	concurrency int
	pollTimeout time.Duration
	locks       *keyedMutex
}

func New(jobs JobQueue, status StatusQueue, engine Engine, concurrency int, pollTimeout time.Duration) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		jobs:        jobs,
		status:      status,
		engine:      engine,
		concurrency: concurrency,
		pollTimeout: pollTimeout,
		locks:       newKeyedMutex(),
	}
}

// Run blocks consuming jobs until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	slog.Info("worker started", "queue", w.jobs.Name(), "concurrency", w.concurrency)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		g.Go(func() error {
			return w.consumeLoop(gctx)
		})
	}
	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *Worker) consumeLoop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		payload, err := w.jobs.Consume(ctx, w.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("failed to consume job", "queue", w.jobs.Name(), "error", err)
			time.Sleep(time.Second)
			continue
		}
		if payload == nil {
			continue
		}
		w.process(ctx, payload)
	}
}

// process parses and runs one job. Jobs for the same (employee, period)
// pair are serialized so overlapping recalculations cannot interleave their
// delete and insert phases.
func (w *Worker) process(ctx context.Context, payload []byte) {
	job, err := parseJob(payload)
	if err != nil {
		slog.Error("discarding malformed job", "error", err, "payload", string(payload))
		return
	}

	unlock := w.locks.Lock(job.EmployeeID + ":" + job.PeriodID)
	defer unlock()

	start := time.Now()
	err = w.engine.Calculate(ctx, job)

	if err != nil && ctx.Err() != nil {
		// Shutdown interrupted the run; put the job back instead of
		// reporting a failure.
		if reqErr := w.jobs.Requeue(context.Background(), payload); reqErr != nil {
			slog.Error("failed to requeue interrupted job", "employee_id", job.EmployeeID, "period_id", job.PeriodID, "error", reqErr)
		}
		return
	}

	event := payroll.StatusEvent{
		EmployeeID: job.EmployeeID,
		PeriodID:   job.PeriodID,
		RequestID:  job.RequestID,
		Status:     payroll.StatusCompleted,
		FinishedAt: time.Now(),
	}
	if err != nil {
		var stageErr *payroll.StageError
		if errors.As(err, &stageErr) {
			slog.Error("payroll job failed",
				"employee_id", job.EmployeeID,
				"period_id", job.PeriodID,
				"stage", stageErr.Stage,
				"attempt", job.Attempts+1,
				"error", stageErr.Err,
			)
		} else {
			slog.Error("payroll job failed",
				"employee_id", job.EmployeeID,
				"period_id", job.PeriodID,
				"attempt", job.Attempts+1,
				"error", err,
			)
		}

		job.Attempts++
		if job.Attempts < maxAttempts {
			// Push the retry behind the rest of the queue so one broken
			// liquidation cannot starve the others.
			if pubErr := w.jobs.Publish(ctx, job); pubErr != nil {
				slog.Error("failed to requeue failed job", "employee_id", job.EmployeeID, "period_id", job.PeriodID, "error", pubErr)
			}
			return
		}

		event.Status = payroll.StatusFailed
		event.Error = err.Error()
	} else {
		slog.Info("payroll job completed",
			"employee_id", job.EmployeeID,
			"period_id", job.PeriodID,
			"duration", time.Since(start).String(),
		)
	}

	if err := w.status.Publish(ctx, event); err != nil {
		slog.Error("failed to publish status event", "employee_id", job.EmployeeID, "period_id", job.PeriodID, "error", err)
	}
}
