// Package render turns search step reports into frames, either plain text
// or cells on a tcell screen.
package render

import (
	"fmt"
	"strings"

	"github.com/pdrpinto/gridastar"
)

// Kind classifies a grid cell for drawing. Later kinds in the list take
// precedence when a cell is several things at once.
type Kind int

const (
	KindOpen Kind = iota
	KindWall
	KindVisited
	KindFrontier
	KindPath
	KindCurrent
	KindStart
	KindGoal
)

var textRunes = map[Kind]rune{
	KindOpen:     '.',
	KindWall:     '#',
	KindVisited:  ':',
	KindFrontier: '+',
	KindPath:     '*',
	KindCurrent:  '@',
	KindStart:    'S',
	KindGoal:     'G',
}

// Scene is the static part of a frame.
type Scene struct {
	Grid  *gridastar.Grid
	Start gridastar.Cell
	Goal  gridastar.Cell
}

// Classify resolves what to draw at c given the latest report. A nil
// report draws the bare grid.
func (s Scene) Classify(c gridastar.Cell, r *gridastar.StepReport, onPath map[gridastar.Cell]bool) Kind {
	switch {
	case c == s.Start:
		return KindStart
	case c == s.Goal:
		return KindGoal
	case s.Grid.IsBlocked(c):
		return KindWall
	case r == nil:
		return KindOpen
	case r.Current != nil && *r.Current == c:
		return KindCurrent
	case onPath[c]:
		return KindPath
	case r.Frontier.Has(c):
		return KindFrontier
	case r.Visited.Has(c):
		return KindVisited
	}
	return KindOpen
}

func pathSet(r *gridastar.StepReport) map[gridastar.Cell]bool {
	if r == nil || len(r.Path) == 0 {
		return nil
	}
	m := make(map[gridastar.Cell]bool, len(r.Path))
	for _, c := range r.Path {
		m[c] = true
	}
	return m
}

// Frame renders the grid and report as text, one line per row.
func Frame(s Scene, r *gridastar.StepReport) string {
	onPath := pathSet(r)
	var sb strings.Builder
	sb.Grow(s.Grid.Rows() * (s.Grid.Cols() + 1))
	for row := 0; row < s.Grid.Rows(); row++ {
		for col := 0; col < s.Grid.Cols(); col++ {
			sb.WriteRune(textRunes[s.Classify(gridastar.Cell{Row: row, Col: col}, r, onPath)])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Status summarizes a report in one line.
func Status(r gridastar.StepReport) string {
	current := "-"
	if r.Current != nil {
		current = r.Current.String()
	}
	return fmt.Sprintf("step %d  %s  current %s  visited %d  frontier %d",
		r.Step, r.State, current, len(r.Visited), len(r.Frontier))
}

// Outcome is the message shown once the search has finished.
func Outcome(r gridastar.StepReport) string {
	switch r.State {
	case gridastar.StateSucceeded:
		return fmt.Sprintf("Path found! Length: %d steps.", len(r.Path)-1)
	case gridastar.StateExhausted:
		return "Goal is unreachable."
	}
	return "Search in progress."
}
