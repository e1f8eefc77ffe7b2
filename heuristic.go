package gridastar

// Heuristic estimates the remaining cost from a cell to the goal. It must
// never overestimate the true cost, or Solve may return a longer path.
type Heuristic func(from, to Cell) int

// Manhattan is |Δrow| + |Δcol|, admissible and consistent for four-way
// unit-cost movement.
func Manhattan(a, b Cell) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

// Zero turns the search into Dijkstra's algorithm.
func Zero(Cell, Cell) int { return 0 }

// HeuristicByName resolves the names accepted in configuration.
func HeuristicByName(name string) (Heuristic, bool) {
	switch name {
	case "", "manhattan":
		return Manhattan, true
	case "zero", "dijkstra":
		return Zero, true
	}
	return nil, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
