package server

import (
	"sync"
	"time"

	"github.com/pdrpinto/gridastar"
)

// session owns one Stepper. The stepper is single-threaded, so every
// access goes through mu.
type session struct {
	mu      sync.Mutex
	id      string
	grid    *gridastar.Grid
	start   gridastar.Cell
	goal    gridastar.Cell
	seed    int64
	stepper *gridastar.Stepper
	last    *gridastar.StepReport
	created time.Time
	// used is the time of the last request that touched the session.
	used time.Time
}

// advance takes one step and remembers the report.
func (s *session) advance(now time.Time) (gridastar.StepReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used = now
	r, err := s.stepper.Advance()
	if err != nil {
		return gridastar.StepReport{}, err
	}
	s.last = &r
	return r, nil
}

func (s *session) describe(now time.Time) gridDescription {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used = now
	d := gridDescription{
		ID:      s.id,
		Rows:    s.grid.Rows(),
		Cols:    s.grid.Cols(),
		Walls:   walls(s.grid),
		Start:   s.start,
		Goal:    s.goal,
		Seed:    s.seed,
		State:   s.stepper.State(),
		Created: s.created,
	}
	if s.last != nil {
		snap := newSnapshot(*s.last)
		d.Last = &snap
	}
	return d
}

// idle reports when the session was last used and whether its search
// has finished.
func (s *session) idle() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.used, s.stepper.Done()
}

func walls(g *gridastar.Grid) []gridastar.Cell {
	var out []gridastar.Cell
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			cell := gridastar.Cell{Row: r, Col: c}
			if g.IsBlocked(cell) {
				out = append(out, cell)
			}
		}
	}
	return out
}

type gridDescription struct {
	ID    string           `json:"id"`
	Rows  int              `json:"rows"`
	Cols  int              `json:"cols"`
	Walls []gridastar.Cell `json:"walls"`
	Start gridastar.Cell   `json:"start"`
	Goal  gridastar.Cell   `json:"goal"`
	Seed  int64            `json:"seed,omitempty"`
	State gridastar.State  `json:"state"`
	Last  *snapshot        `json:"last,omitempty"`

	Created time.Time `json:"created"`
}

// snapshot is the wire form of a StepReport.
type snapshot struct {
	Step     int              `json:"step"`
	State    gridastar.State  `json:"state"`
	Current  *gridastar.Cell  `json:"current,omitempty"`
	Cost     int              `json:"cost"`
	Frontier []gridastar.Cell `json:"frontier"`
	Visited  []gridastar.Cell `json:"visited"`
	Path     []gridastar.Cell `json:"path,omitempty"`
	Done     bool             `json:"done"`
	Found    bool             `json:"found"`
}

func newSnapshot(r gridastar.StepReport) snapshot {
	return snapshot{
		Step:     r.Step,
		State:    r.State,
		Current:  r.Current,
		Cost:     r.Cost,
		Frontier: r.Frontier.Sorted(),
		Visited:  r.Visited.Sorted(),
		Path:     r.Path,
		Done:     r.Done(),
		Found:    r.Found(),
	}
}
