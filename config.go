package kdtree

import "fmt"

// Bounds is the search window used as the root query rectangle.
// Min must not exceed Max.
type Bounds[C Coordinate] struct {
	Min, Max C
}

// Config controls optional construction behavior.
// The zero value is ready to use.
type Config[C Coordinate] struct {
	// Bounds sets the initial search rectangle. Targets outside it are
	// clamped when lower-bounding subtree distances, so it should cover every
	// point and query. nil means the full representable range of C.
	Bounds *Bounds[C]

	// Logger receives build and query diagnostics. nil disables logging.
	Logger *Logger
}

// DefaultBounds returns the full representable range of C.
func DefaultBounds[C Coordinate]() Bounds[C] {
	return Bounds[C]{Min: lowest[C](), Max: highest[C]()}
}

// validateConfig checks cfg and returns a descriptive error if it is invalid.
func validateConfig[C Coordinate](cfg *Config[C]) error {
	if cfg.Bounds != nil && cfg.Bounds.Min > cfg.Bounds.Max {
		return fmt.Errorf("%w: Bounds.Min (%v) must be <= Bounds.Max (%v)",
			ErrInvalidConstruction, cfg.Bounds.Min, cfg.Bounds.Max)
	}
	return nil
}

// applyDefaults fills in zero-valued config fields with their defaults.
func applyDefaults[C Coordinate](cfg *Config[C]) {
	if cfg.Bounds == nil {
		b := DefaultBounds[C]()
		cfg.Bounds = &b
	}
	if cfg.Logger == nil {
		cfg.Logger = NoopLogger()
	}
}
