package curve

import (
	"errors"
	"math"
	"testing"
)

func TestEase_Endpoints(t *testing.T) {
	for _, name := range EaseNames() {
		t.Run(name, func(t *testing.T) {
			c, err := Ease(name)
			if err != nil {
				t.Fatal(err)
			}
			if got := c.Evaluate(0); math.Abs(got) > 1e-3 {
				t.Errorf("Evaluate(0) = %v, want 0", got)
			}
			if got := c.Evaluate(1); math.Abs(got-1) > 1e-3 {
				t.Errorf("Evaluate(1) = %v, want 1", got)
			}
			if c.Evaluate(-1) != c.Evaluate(0) || c.Evaluate(2) != c.Evaluate(1) {
				t.Error("queries outside [0,1] should clamp")
			}
		})
	}
}

func TestEase_Linear(t *testing.T) {
	c, err := Ease("Linear")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Evaluate(0.3); math.Abs(got-0.3) > 1e-6 {
		t.Errorf("Evaluate(0.3) = %v", got)
	}
	if c.Name() != "Linear" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestEase_Unknown(t *testing.T) {
	_, err := Ease("Wobble")
	if !errors.Is(err, ErrUnknownEase) {
		t.Errorf("expected ErrUnknownEase, got %v", err)
	}
}
