package driver

import "errors"

var (
	// ErrNoCurve indicates a configuration without a primary response curve.
	ErrNoCurve = errors.New("driver: primary response curve required")

	// ErrNoSecondaryCurve indicates a secondary output configured without a curve.
	ErrNoSecondaryCurve = errors.New("driver: secondary output requires a curve")

	// ErrInvalidScale indicates a NaN or infinite secondary scale factor.
	ErrInvalidScale = errors.New("driver: secondary max intensity must be finite")

	// ErrNaNInput indicates a NaN passed to SetManual.
	ErrNaNInput = errors.New("driver: manual value is NaN")
)
