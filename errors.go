package spritematte

import "errors"

var (
	// ErrShapeMismatch is returned when a grid does not evenly divide an
	// image, or when frames of one sequence differ in size.
	ErrShapeMismatch = errors.New("spritematte: shape mismatch")

	// ErrStrategyUnavailable marks a single failed classification strategy.
	// Remove recovers from it by moving on to the next mode in the chain.
	ErrStrategyUnavailable = errors.New("spritematte: strategy unavailable")

	// ErrAllStrategiesExhausted is returned when every mode in the chain
	// failed. It wraps the individual attempt errors.
	ErrAllStrategiesExhausted = errors.New("spritematte: all strategies exhausted")

	// ErrInvalidConfig is returned before any pixel work when a Config,
	// chain or sequence parameter is out of range.
	ErrInvalidConfig = errors.New("spritematte: invalid config")

	// ErrNoFrames is returned when assembling an empty sequence.
	ErrNoFrames = errors.New("spritematte: no frames")
)
