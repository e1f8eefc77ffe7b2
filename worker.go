package gridastar

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// Job is one independent search for SolveAll.
type Job struct {
	Grid  *Grid
	Start Cell
	Goal  Cell
}

// SolveAll runs each job's search on its own Stepper, at most
// Options.NumberOfWorkers at a time. Results are in job order. The first
// invalid job cancels the jobs not yet finished and its error is returned.
func SolveAll(ctx context.Context, jobs []Job, options ...Option) ([]Result, error) {
	opts := applyOptions(options)
	ctx, span := tracer.Start(ctx, "gridastar.SolveAll", trace.WithAttributes(
		attribute.Int("gridastar.jobs", len(jobs)),
		attribute.Int("gridastar.workers", opts.NumberOfWorkers),
	))
	defer span.End()

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.NumberOfWorkers)
	for i, job := range jobs {
		g.Go(func() error {
			stepper, err := NewStepper(job.Grid, job.Start, job.Goal, options...)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			res, err := run(gctx, stepper)
			if err != nil {
				return fmt.Errorf("job %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "job failed")
		return nil, err
	}
	return results, nil
}
