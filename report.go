package gridastar

import (
	"fmt"
	"sort"
)

// State is the lifecycle position of a Stepper.
type State int

const (
	StateReady State = iota
	StateRunning
	StateSucceeded
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether no further Advance is possible.
func (s State) Terminal() bool { return s == StateSucceeded || s == StateExhausted }

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{StateReady, StateRunning, StateSucceeded, StateExhausted} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", text)
}

// CellSet is a set of cells.
type CellSet map[Cell]bool

func (s CellSet) Has(c Cell) bool { return s[c] }

// Sorted returns the members in row-major order.
func (s CellSet) Sorted() []Cell {
	out := make([]Cell, 0, len(s))
	for c, ok := range s {
		if ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}

func (s CellSet) clone() CellSet {
	c := make(CellSet, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// StepReport is the state of the search after one Advance. It owns its
// sets and path; later steps do not modify it.
type StepReport struct {
	Step  int
	State State
	// Current is the cell expanded by this step, nil on the final report of
	// an exhausted search.
	Current *Cell
	// Cost is the best known cost of Current from the start.
	Cost     int
	Visited  CellSet
	Frontier CellSet
	// Path runs start to goal inclusive and is set only when State is
	// StateSucceeded.
	Path []Cell
}

// Done reports whether this is the last report of the run.
func (r StepReport) Done() bool { return r.State.Terminal() }

// Found reports whether the run ended with a path.
func (r StepReport) Found() bool { return r.State == StateSucceeded }
