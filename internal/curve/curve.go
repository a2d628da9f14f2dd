package curve

import (
	"fmt"
	"math"
	"sort"
)

// Curve maps a query time to a shaped value.
type Curve interface {
	Evaluate(t float64) float64
}

// Keyframe is a single key of a Hermite curve. In and Out are the incoming
// and outgoing slopes (value per unit time).
type Keyframe struct {
	Time  float64
	Value float64
	In    float64
	Out   float64
}

// Keyframes is an immutable keyframe curve.
type Keyframes struct {
	keys []Keyframe
}

// NewKeyframes validates keys and returns a curve over them. The slice is
// copied.
func NewKeyframes(keys ...Keyframe) (*Keyframes, error) {
	if len(keys) == 0 {
		return nil, ErrNoKeys
	}
	for i, k := range keys {
		if !finite(k.Time) || !finite(k.Value) || !finite(k.In) || !finite(k.Out) {
			return nil, fmt.Errorf("key %d: %w", i, ErrNonFiniteKey)
		}
		if i > 0 && k.Time <= keys[i-1].Time {
			return nil, fmt.Errorf("key %d (t=%g after t=%g): %w", i, k.Time, keys[i-1].Time, ErrNonMonotonicKeys)
		}
	}
	c := make([]Keyframe, len(keys))
	copy(c, keys)
	return &Keyframes{keys: c}, nil
}

// mustKeyframes is for package-built curves whose keys are known valid.
func mustKeyframes(keys ...Keyframe) *Keyframes {
	c, err := NewKeyframes(keys...)
	if err != nil {
		panic(err)
	}
	return c
}

// Linear returns the identity ramp 0→1 over [0,1].
func Linear() *Keyframes {
	return mustKeyframes(
		Keyframe{Time: 0, Value: 0, In: 1, Out: 1},
		Keyframe{Time: 1, Value: 1, In: 1, Out: 1},
	)
}

// EaseInOut returns a 0→1 ramp over [0,1] with flat tangents at both ends.
func EaseInOut() *Keyframes {
	return mustKeyframes(
		Keyframe{Time: 0, Value: 0},
		Keyframe{Time: 1, Value: 1},
	)
}

// Constant returns a single-key curve that always evaluates to v.
func Constant(v float64) *Keyframes {
	return mustKeyframes(Keyframe{Time: 0, Value: v})
}

// Keys returns a copy of the curve's keys.
func (c *Keyframes) Keys() []Keyframe {
	out := make([]Keyframe, len(c.keys))
	copy(out, c.keys)
	return out
}

// Domain returns the first and last key times.
func (c *Keyframes) Domain() (float64, float64) {
	return c.keys[0].Time, c.keys[len(c.keys)-1].Time
}

func (c *Keyframes) Evaluate(t float64) float64 {
	keys := c.keys
	first, last := keys[0], keys[len(keys)-1]
	if len(keys) == 1 || math.IsNaN(t) || t <= first.Time {
		return first.Value
	}
	if t >= last.Time {
		return last.Value
	}

	// first key strictly after t; t is inside the domain so 1 <= i < len
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Time > t })
	return hermite(keys[i-1], keys[i], t)
}

func hermite(k0, k1 Keyframe, t float64) float64 {
	dt := k1.Time - k0.Time
	s := (t - k0.Time) / dt
	s2 := s * s
	s3 := s2 * s

	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2

	return h00*k0.Value + h10*k0.Out*dt + h01*k1.Value + h11*k1.In*dt
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
