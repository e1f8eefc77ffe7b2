package gridastar

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("gridastar")

// Result contains the outcome of a search run to completion.
type Result struct {
	Path []Cell
	// Cost is the number of moves in Path.
	Cost          int
	ExpandedNodes int
	Steps         int
	Found         bool
}

// Solve drives a Stepper until it reaches a terminal state. An unreachable
// goal is reported as Result{Found: false} with a nil error; errors are
// reserved for bad input and cancellation.
func Solve(
	ctx context.Context,
	grid *Grid,
	start Cell,
	goal Cell,
	options ...Option,
) (Result, error) {
	ctx, span := tracer.Start(ctx, "gridastar.Solve")
	defer span.End()

	stepper, err := NewStepper(grid, start, goal, options...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid search")
		return Result{}, err
	}

	res, err := run(ctx, stepper)
	span.SetAttributes(
		attribute.Int("gridastar.steps", res.Steps),
		attribute.Int("gridastar.expanded", res.ExpandedNodes),
		attribute.Bool("gridastar.found", res.Found),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "canceled")
	}
	return res, err
}

func run(ctx context.Context, stepper *Stepper) (Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Result{Steps: stepper.Steps(), ExpandedNodes: stepper.Expanded()}, err
		}
		report, err := stepper.Advance()
		if err != nil {
			return Result{}, err
		}
		if !report.Done() {
			continue
		}
		res := Result{
			Steps:         report.Step,
			ExpandedNodes: len(report.Visited),
			Found:         report.Found(),
		}
		if res.Found {
			res.Path = report.Path
			res.Cost = len(report.Path) - 1
		}
		return res, nil
	}
}
