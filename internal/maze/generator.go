// Package maze generates random obstacle grids for the search engine.
package maze

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/pdrpinto/gridastar"
)

// Kind selects the obstacle layout.
type Kind string

const (
	// Uniform blocks every cell independently with probability Density.
	Uniform Kind = "uniform"
	// Clusters lays walls along random walks, giving blob-shaped obstacles.
	Clusters Kind = "clusters"
)

type Config struct {
	Rows, Cols int

	// Density is the wall probability per visited cell, 0.0 to 1.0.
	Density float64
	Kind    Kind

	// Clusters and WalkSteps only apply to Kind Clusters.
	Clusters  int
	WalkSteps int

	Start *gridastar.Cell // Optional (nil = top-left)
	Goal  *gridastar.Cell // Optional (nil = bottom-right)
	Seed  int64           // Optional (0 = Random)
}

type Result struct {
	Grid        *gridastar.Grid
	Start, Goal gridastar.Cell
	// Seed is the seed actually used, so a random layout can be replayed.
	Seed int64
}

// Endpoints resolves the configured start and goal.
func (c Config) Endpoints() (start, goal gridastar.Cell) {
	start = gridastar.Cell{Row: 0, Col: 0}
	goal = gridastar.Cell{Row: c.Rows - 1, Col: c.Cols - 1}
	if c.Start != nil {
		start = *c.Start
	}
	if c.Goal != nil {
		goal = *c.Goal
	}
	return start, goal
}

// Validate rejects configurations Generate cannot honor.
func (c Config) Validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("grid size %dx%d: %w", c.Rows, c.Cols, gridastar.ErrEmptyGrid)
	}
	if c.Density < 0 || c.Density > 1 {
		return fmt.Errorf("density must be between 0 and 1, got %f", c.Density)
	}
	switch c.Kind {
	case "", Uniform:
	case Clusters:
		if c.Clusters <= 0 || c.WalkSteps <= 0 {
			return fmt.Errorf("clusters layout needs positive clusters and walk steps, got %d and %d", c.Clusters, c.WalkSteps)
		}
	default:
		return fmt.Errorf("unknown layout %q (valid: uniform, clusters)", c.Kind)
	}
	start, goal := c.Endpoints()
	for _, p := range []gridastar.Cell{start, goal} {
		if p.Row < 0 || p.Row >= c.Rows || p.Col < 0 || p.Col >= c.Cols {
			return fmt.Errorf("endpoint %v on %dx%d grid: %w", p, c.Rows, c.Cols, gridastar.ErrOutOfBounds)
		}
	}
	return nil
}

// Generate builds a random grid. Start and goal are always open; nothing
// guarantees a path between them.
func Generate(cfg Config) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	walls := make([][]bool, cfg.Rows)
	for r := range walls {
		walls[r] = make([]bool, cfg.Cols)
	}

	if cfg.Kind == Clusters {
		randomWalks(walls, cfg.Clusters, cfg.WalkSteps, cfg.Density, rng)
	} else {
		for r := range walls {
			for c := range walls[r] {
				walls[r][c] = rng.Float64() < cfg.Density
			}
		}
	}

	// Start and goal must be walkable
	start, goal := cfg.Endpoints()
	walls[start.Row][start.Col] = false
	walls[goal.Row][goal.Col] = false

	g, err := gridastar.NewGrid(walls)
	if err != nil {
		return Result{}, err
	}
	return Result{Grid: g, Start: start, Goal: goal, Seed: seed}, nil
}

var steps = [4]gridastar.Cell{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}

// randomWalks drops walls behind a walker that starts at a random cell and
// moves one step at a time, staying inside the grid.
func randomWalks(walls [][]bool, clusters, walkSteps int, density float64, rng *rand.Rand) {
	rows, cols := len(walls), len(walls[0])
	for c := 0; c < clusters; c++ {
		p := gridastar.Cell{Row: rng.Intn(rows), Col: rng.Intn(cols)}
		for s := 0; s < walkSteps; s++ {
			if rng.Float64() < density {
				walls[p.Row][p.Col] = true
			}
			d := steps[rng.Intn(len(steps))]
			np := gridastar.Cell{Row: p.Row + d.Row, Col: p.Col + d.Col}
			if np.Row >= 0 && np.Row < rows && np.Col >= 0 && np.Col < cols {
				p = np
			}
		}
	}
}
