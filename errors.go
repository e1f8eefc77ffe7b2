package gridastar

import "errors"

var (
	// ErrEmptyGrid is returned for a grid with no rows or no columns.
	ErrEmptyGrid = errors.New("grid is empty")
	// ErrNonRectangular is returned when rows differ in length.
	ErrNonRectangular = errors.New("grid is not rectangular")
	// ErrOutOfBounds is returned when start or goal lies off the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrBlockedEndpoint is returned when start or goal is an obstacle.
	ErrBlockedEndpoint = errors.New("endpoint is blocked")
	// ErrSearchFinished is returned by Advance once the search is terminal.
	ErrSearchFinished = errors.New("search already finished")
)
