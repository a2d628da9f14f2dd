// Package curve provides response curves that shape a normalized progress
// value into an output value.
//
// Two kinds of curve implement [Curve]:
//
//   - [Keyframes]: ordered (time, value, in, out) keys evaluated with cubic
//     Hermite interpolation, clamped to the keyed domain
//   - [EaseCurve]: a named easing function from gween
//
// # Example
//
//	c := curve.EaseInOut()
//	v := c.Evaluate(0.25)
//
// Curves hold no mutable state; Evaluate is safe to call repeatedly and
// from multiple goroutines.
package curve
