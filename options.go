package neighborset

// Options represents the options for configuring a ConcurrentNeighborSet or
// a Graph of sets.
type Options struct {
	// Alpha is the diversity relaxation parameter (>= 1.0). With Alpha = 1.0
	// the selection follows the strict Relative Neighborhood Graph rule;
	// higher values admit more edges. Values below 1.0 are clamped to 1.0.
	Alpha float32

	// Logger receives diagnostic output from Graph-level operations
	// (checking, codec). The per-set hot path never logs. Nil disables
	// logging.
	Logger *Logger
}

// DefaultOptions contains the default options.
var DefaultOptions = Options{
	Alpha: 1.0,
}

// WithAlpha sets the diversity relaxation parameter.
func WithAlpha(alpha float32) func(o *Options) {
	return func(o *Options) {
		o.Alpha = alpha
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}
