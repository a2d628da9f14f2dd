package phase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDuration indicates a non-positive active duration or cycle length.
	ErrInvalidDuration = errors.New("phase: duration must be positive")

	// ErrNegativePause indicates a negative pause or start delay.
	ErrNegativePause = errors.New("phase: pause and delay must be non-negative")
)

// ConfigError wraps a validation failure with the offending field.
type ConfigError struct {
	Field string
	Value float64
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
