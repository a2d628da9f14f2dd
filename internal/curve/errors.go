package curve

import "errors"

var (
	// ErrNoKeys indicates a keyframe curve with no keys.
	ErrNoKeys = errors.New("curve: at least one keyframe required")

	// ErrNonMonotonicKeys indicates keyframe times that are not strictly increasing.
	ErrNonMonotonicKeys = errors.New("curve: keyframe times must be strictly increasing")

	// ErrNonFiniteKey indicates a keyframe holding NaN or Inf.
	ErrNonFiniteKey = errors.New("curve: keyframe contains NaN or Inf")

	// ErrUnknownEase indicates an easing name with no registered function.
	ErrUnknownEase = errors.New("curve: unknown easing function")
)
