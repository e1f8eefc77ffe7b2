package gridastar

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Cell is a (row, column) coordinate on a Grid.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// offsets are the four axis-aligned moves, in expansion order.
var offsets = [4]Cell{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Grid is a rectangular occupancy map. It is read-only once constructed.
type Grid struct {
	rows, cols int
	blocked    []bool
}

// NewGrid builds a Grid from row slices where true marks a blocked cell.
// The input is copied. Every row must have the same length.
func NewGrid(cells [][]bool) (*Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	rows, cols := len(cells), len(cells[0])
	g := &Grid{rows: rows, cols: cols, blocked: make([]bool, rows*cols)}
	for r, row := range cells {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", r, len(row), cols, ErrNonRectangular)
		}
		copy(g.blocked[r*cols:], row)
	}
	return g, nil
}

// NewGridFunc builds a rows x cols Grid, asking blocked for every cell.
func NewGridFunc(rows, cols int, blocked func(Cell) bool) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyGrid
	}
	g := &Grid{rows: rows, cols: cols, blocked: make([]bool, rows*cols)}
	if blocked == nil {
		return g, nil
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.blocked[r*cols+c] = blocked(Cell{r, c})
		}
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// IsBlocked reports whether c is an obstacle. It panics if c is out of
// bounds; check with InBounds first.
func (g *Grid) IsBlocked(c Cell) bool {
	if !g.InBounds(c) {
		panic(fmt.Sprintf("gridastar: cell %v outside %dx%d grid", c, g.rows, g.cols))
	}
	return g.blocked[c.Row*g.cols+c.Col]
}

// Neighbors returns the in-bounds open cells adjacent to c, in the order
// right, left, down, up.
func (g *Grid) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, len(offsets))
	for _, d := range offsets {
		n := Cell{c.Row + d.Row, c.Col + d.Col}
		if g.InBounds(n) && !g.blocked[n.Row*g.cols+n.Col] {
			out = append(out, n)
		}
	}
	return out
}

// OpenCount returns the number of open cells.
func (g *Grid) OpenCount() int {
	n := 0
	for _, b := range g.blocked {
		if !b {
			n++
		}
	}
	return n
}

// String renders the grid in the text format read by ParseGrid, without
// start or goal markers.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if g.blocked[r*g.cols+c] {
				sb.WriteByte(wallRune)
			} else {
				sb.WriteByte(openRune)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

const (
	wallRune  = '#'
	openRune  = '.'
	startRune = 'S'
	goalRune  = 'G'
)

// Layout is a parsed text grid. Start and Goal are nil when the text
// carried no marker for them.
type Layout struct {
	Grid  *Grid
	Start *Cell
	Goal  *Cell
}

// ParseGrid reads a grid in text form: one line per row, '#' blocked,
// '.' open, 'S' start and 'G' goal (both open). Trailing blank lines are
// ignored.
func ParseGrid(r io.Reader) (Layout, error) {
	var (
		lines []string
		out   Layout
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return Layout{}, fmt.Errorf("reading grid: %w", err)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	cells := make([][]bool, len(lines))
	for r, line := range lines {
		cells[r] = make([]bool, len(line))
		for c, ch := range []byte(line) {
			switch ch {
			case wallRune:
				cells[r][c] = true
			case openRune:
			case startRune:
				if out.Start != nil {
					return Layout{}, fmt.Errorf("line %d: duplicate start marker", r+1)
				}
				out.Start = &Cell{r, c}
			case goalRune:
				if out.Goal != nil {
					return Layout{}, fmt.Errorf("line %d: duplicate goal marker", r+1)
				}
				out.Goal = &Cell{r, c}
			default:
				return Layout{}, fmt.Errorf("line %d col %d: unexpected %q", r+1, c+1, ch)
			}
		}
	}

	g, err := NewGrid(cells)
	if err != nil {
		return Layout{}, err
	}
	out.Grid = g
	return out, nil
}
