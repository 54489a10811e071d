package planner

// Option configures a Planner. Grounded on builder.BuilderOption /
// dijkstra.Option's functional-option pattern: each Option mutates a
// config struct that is resolved once, up front, with later options
// overriding earlier ones.
type Option func(*config)

type config struct {
	maxPathLength int
	costWeight    float64 // alpha
	errorWeight   float64 // beta
	errorFloor    float64
	tieBreakPct   float64
}

func defaultConfig() config {
	return config{
		maxPathLength: DefaultMaxPathLength,
		costWeight:    DefaultCostWeight,
		errorWeight:   DefaultErrorWeight,
		errorFloor:    DefaultErrorFloor,
		tieBreakPct:   DefaultTieBreakPercent,
	}
}

// Defaults per spec.md §4.3.
const (
	DefaultMaxPathLength   = 5
	DefaultCostWeight      = 1.0
	DefaultErrorWeight     = 1e6
	DefaultErrorFloor      = 1e-4
	DefaultTieBreakPercent = 0.01
)

// WithMaxPathLength overrides the DFS depth cap (spec.md §4.3's
// MaxPathLength, typical value 5).
func WithMaxPathLength(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxPathLength = n
		}
	}
}

// WithCostWeight overrides alpha in objective = alpha*cost + beta*error.
func WithCostWeight(alpha float64) Option {
	return func(c *config) { c.costWeight = alpha }
}

// WithErrorWeight overrides beta in objective = alpha*cost + beta*error.
func WithErrorWeight(beta float64) Option {
	return func(c *config) { c.errorWeight = beta }
}

// WithErrorFloor overrides the global minimum ErrorCeiling (spec.md §4.3:
// "the maximum of (a global floor, e.g. 10^-4) and the error of the best
// chain found so far").
func WithErrorFloor(floor float64) Option {
	return func(c *config) {
		if floor > 0 {
			c.errorFloor = floor
		}
	}
}

func resolve(opts ...Option) config {
	c := defaultConfig()
	for _, o := range opts {
		o(&c)
	}
	return c
}
