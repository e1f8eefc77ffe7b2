package gridastar

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/pdrpinto/gridastar/internal/logging"
)

// FrontierStrategy selects what happens when a cheaper path reaches a cell
// that is already queued.
type FrontierStrategy int

const (
	// FrontierDecreaseKey updates the queued entry's priority in place.
	FrontierDecreaseKey FrontierStrategy = iota
	// FrontierLazy records the cheaper cost and predecessor but leaves the
	// queued entry at its original priority. This reproduces the expansion
	// order of the classic generator-based visualizer.
	FrontierLazy
)

func (s FrontierStrategy) String() string {
	switch s {
	case FrontierDecreaseKey:
		return "decrease-key"
	case FrontierLazy:
		return "lazy"
	}
	return fmt.Sprintf("FrontierStrategy(%d)", int(s))
}

// ParseFrontierStrategy maps a configuration name to a strategy.
func ParseFrontierStrategy(name string) (FrontierStrategy, error) {
	switch name {
	case "", "decrease-key":
		return FrontierDecreaseKey, nil
	case "lazy":
		return FrontierLazy, nil
	}
	return 0, fmt.Errorf("unknown frontier strategy %q (valid: decrease-key, lazy)", name)
}

// Options defines parameters for a search.
type Options struct {
	NumberOfWorkers int
	Heuristic       Heuristic
	Frontier        FrontierStrategy
	Logger          *slog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers sets how many searches SolveAll runs at once.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithHeuristic replaces Manhattan distance. h must be admissible.
func WithHeuristic(h Heuristic) Option {
	return func(options *Options) { options.Heuristic = h }
}

// WithFrontier selects the frontier update strategy.
func WithFrontier(strategy FrontierStrategy) Option {
	return func(options *Options) { options.Frontier = strategy }
}

// WithLogger makes the engine log terminal transitions at debug level and
// every expansion at trace level.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

func applyOptions(options []Option) Options {
	opts := Options{
		NumberOfWorkers: runtime.NumCPU(),
		Heuristic:       Manhattan,
		Frontier:        FrontierDecreaseKey,
	}
	for _, o := range options {
		o(&opts)
	}
	if opts.Heuristic == nil {
		opts.Heuristic = Manhattan
	}
	if opts.NumberOfWorkers < 1 {
		opts.NumberOfWorkers = 1
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return opts
}
