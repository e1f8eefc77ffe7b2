package gridastar

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"

	"github.com/pdrpinto/gridastar/internal"
	"github.com/pdrpinto/gridastar/internal/logging"
)

// Stepper runs A* one expansion per Advance call. It is not safe for
// concurrent use.
type Stepper struct {
	grid      *Grid
	start     Cell
	goal      Cell
	heuristic Heuristic
	strategy  FrontierStrategy
	log       *slog.Logger

	open        frontier
	inFrontier  map[Cell]*frontierItem
	visited     CellSet
	predecessor map[Cell]Cell
	gCost       map[Cell]int

	state State
	steps int
	path  []Cell
}

// NewStepper validates the endpoints and returns a Stepper in StateReady
// with only start on the frontier.
func NewStepper(grid *Grid, start, goal Cell, options ...Option) (*Stepper, error) {
	if grid == nil {
		return nil, ErrEmptyGrid
	}
	for _, ep := range []struct {
		name string
		cell Cell
	}{{"start", start}, {"goal", goal}} {
		if !grid.InBounds(ep.cell) {
			return nil, fmt.Errorf("%s %v on %dx%d grid: %w", ep.name, ep.cell, grid.Rows(), grid.Cols(), ErrOutOfBounds)
		}
		if grid.IsBlocked(ep.cell) {
			return nil, fmt.Errorf("%s %v: %w", ep.name, ep.cell, ErrBlockedEndpoint)
		}
	}

	opts := applyOptions(options)
	s := &Stepper{
		grid:        grid,
		start:       start,
		goal:        goal,
		heuristic:   opts.Heuristic,
		strategy:    opts.Frontier,
		log:         opts.Logger,
		open:        make(frontier, 0),
		inFrontier:  make(map[Cell]*frontierItem),
		visited:     make(CellSet),
		predecessor: make(map[Cell]Cell),
		gCost:       map[Cell]int{start: 0},
	}

	heap.Init(&s.open)
	startItem := &frontierItem{Cell: start, G: 0, F: opts.Heuristic(start, goal)}
	heap.Push(&s.open, startItem)
	s.inFrontier[start] = startItem
	return s, nil
}

// Advance expands the best frontier cell and reports the resulting state.
// Once the state is terminal it returns ErrSearchFinished.
func (s *Stepper) Advance() (StepReport, error) {
	if s.state.Terminal() {
		return StepReport{}, fmt.Errorf("advance in state %s: %w", s.state, ErrSearchFinished)
	}
	s.steps++

	if s.open.Len() == 0 {
		s.state = StateExhausted
		s.log.Debug("goal unreachable", "start", s.start, "goal", s.goal, "steps", s.steps, "visited", len(s.visited))
		return s.report(nil), nil
	}

	item := heap.Pop(&s.open).(*frontierItem)
	current := item.Cell
	delete(s.inFrontier, current)
	s.visited[current] = true
	s.log.Log(context.Background(), logging.LevelTrace, "expand",
		"step", s.steps, "cell", current, "g", s.gCost[current], "f", item.F, "frontier", s.open.Len())

	if current == s.goal {
		s.path = internal.ReconstructPath(s.predecessor, current, s.start)
		s.state = StateSucceeded
		s.log.Debug("path found", "start", s.start, "goal", s.goal, "length", len(s.path)-1, "steps", s.steps)
		return s.report(&current), nil
	}

	tentative := s.gCost[current] + 1
	for _, n := range s.grid.Neighbors(current) {
		if prev, ok := s.gCost[n]; ok && tentative >= prev {
			continue
		}
		s.gCost[n] = tentative
		s.predecessor[n] = current
		f := tentative + s.heuristic(n, s.goal)

		it, queued := s.inFrontier[n]
		switch {
		case !queued:
			it = &frontierItem{Cell: n, G: tentative, F: f}
			heap.Push(&s.open, it)
			s.inFrontier[n] = it
		case s.strategy == FrontierDecreaseKey:
			it.G, it.F = tentative, f
			heap.Fix(&s.open, it.IndexInQueue)
		}
	}

	s.state = StateRunning
	return s.report(&current), nil
}

func (s *Stepper) report(current *Cell) StepReport {
	r := StepReport{
		Step:     s.steps,
		State:    s.state,
		Visited:  s.visited.clone(),
		Frontier: make(CellSet, len(s.inFrontier)),
	}
	for c := range s.inFrontier {
		r.Frontier[c] = true
	}
	if current != nil {
		c := *current
		r.Current = &c
		r.Cost = s.gCost[c]
	}
	if s.state == StateSucceeded {
		r.Path = append([]Cell(nil), s.path...)
	}
	return r
}

func (s *Stepper) State() State { return s.state }
func (s *Stepper) Done() bool   { return s.state.Terminal() }
func (s *Stepper) Start() Cell  { return s.start }
func (s *Stepper) Goal() Cell   { return s.goal }
func (s *Stepper) Grid() *Grid  { return s.grid }

// Steps returns how many reports Advance has produced.
func (s *Stepper) Steps() int { return s.steps }

// Expanded returns the size of the closed set.
func (s *Stepper) Expanded() int { return len(s.visited) }

// Cost returns the best known cost from start to c.
func (s *Stepper) Cost(c Cell) (int, bool) {
	g, ok := s.gCost[c]
	return g, ok
}

// Path returns a copy of the path once the search has succeeded.
func (s *Stepper) Path() []Cell {
	if s.state != StateSucceeded {
		return nil
	}
	return append([]Cell(nil), s.path...)
}
