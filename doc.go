// Package gridastar provides an observable A* search over 2D occupancy grids.
//
// It exposes three entry points:
//
//   - Stepper: advance the search one expansion at a time and inspect the
//     visited set, frontier and path after each step, to drive renderers,
//     tests or logs.
//   - Solve: run a single search to completion and get a Result.
//   - SolveAll: run many independent searches on a bounded worker pool.
//
// Movement is four-directional with unit cost. The default heuristic is
// Manhattan distance; any replacement must be admissible.
package gridastar
