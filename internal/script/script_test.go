package script

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/d5/tengo/v2"
	"github.com/san-kum/dissolve/internal/curve"
	"github.com/san-kum/dissolve/internal/driver"
	"github.com/san-kum/dissolve/internal/phase"
	"github.com/san-kum/dissolve/internal/sim"
	"github.com/san-kum/dissolve/internal/sink"
)

func newDriver(t *testing.T, rec *sink.Recorder) *driver.Driver {
	t.Helper()
	d, err := driver.NewWithConfig(driver.Config{
		Cycle: phase.Config{ActiveDuration: 1},
		Curve: curve.Linear(),
	}, rec, nil)
	if err != nil {
		t.Fatalf("driver: %v", err)
	}
	return d
}

func mustNew(t *testing.T, src string) *Trigger {
	t.Helper()
	tr, err := New("test", []byte(src))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return tr
}

func TestTrigger_StartsDriver(t *testing.T) {
	tr := mustNew(t, `
update := func(d, state) {
	if d.time >= 0.5 && !state.started {
		d.start()
		state.started = true
	}
}
`)
	d := newDriver(t, &sink.Recorder{})
	r := sim.New(d, tr)

	result, err := r.Run(context.Background(), sim.Config{Dt: 0.25, Duration: 2})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	if s := result.Samples[1]; s.Status != driver.Idle {
		t.Errorf("t=0.25: expected idle, got %s", s.Status)
	}
	if s := result.Samples[2]; s.Status != driver.Active {
		t.Errorf("t=0.5: expected active, got %s", s.Status)
	}
	if s := result.Samples[4]; s.Primary != 0.5 {
		t.Errorf("t=1.0: expected 0.5, got %f", s.Primary)
	}
	if s := result.Samples[6]; s.Status != driver.Completed || s.Primary != 1 {
		t.Errorf("t=1.5: expected completed at 1, got %s %f", s.Status, s.Primary)
	}
}

func TestTrigger_SetClamps(t *testing.T) {
	tr := mustNew(t, `
update := func(d, state) {
	d.set(2.0)
}
`)
	rec := &sink.Recorder{}
	d := newDriver(t, rec)

	if err := tr.Fire(0, d); err != nil {
		t.Fatalf("fire: %v", err)
	}
	w, ok := rec.LastParameter()
	if !ok || w.Value != 1 {
		t.Errorf("expected 1 pushed, got %+v", w)
	}
	if d.Status() != driver.Idle {
		t.Errorf("set must not change status, got %s", d.Status())
	}
}

func TestTrigger_StateAndRewind(t *testing.T) {
	tr := mustNew(t, `
update := func(d, state) {
	if is_undefined(state.n) {
		state.n = 0
	}
	state.n = state.n + 1
	state.dt = d.dt
}
`)
	d := newDriver(t, &sink.Recorder{})

	for _, now := range []float64{0, 0.25, 0.5} {
		if err := tr.Fire(now, d); err != nil {
			t.Fatalf("fire: %v", err)
		}
	}

	n, _ := tengo.ToInt(tr.state.Value["n"])
	if n != 3 {
		t.Errorf("expected 3 calls, got %d", n)
	}
	dt, _ := tengo.ToFloat64(tr.state.Value["dt"])
	if dt != 0.25 {
		t.Errorf("expected dt 0.25, got %f", dt)
	}

	tr.Rewind()
	if len(tr.state.Value) != 0 {
		t.Error("rewind should clear state")
	}
	tr.Fire(1, d)
	dt, _ = tengo.ToFloat64(tr.state.Value["dt"])
	if dt != 0 {
		t.Errorf("first fire after rewind should see dt 0, got %f", dt)
	}
}

func TestTrigger_Globals(t *testing.T) {
	tr := mustNew(t, `
update := func(d, state) {
	state.status = d.status
	state.phase = d.phase
	state.output = d.output
}
`)
	d := newDriver(t, &sink.Recorder{})
	d.Start()
	d.Tick(0.25)

	if err := tr.Fire(0.25, d); err != nil {
		t.Fatalf("fire: %v", err)
	}
	status, _ := tengo.ToString(tr.state.Value["status"])
	if status != "active" {
		t.Errorf("expected active, got %q", status)
	}
	ph, _ := tengo.ToString(tr.state.Value["phase"])
	if ph != "transitioning" {
		t.Errorf("expected transitioning, got %q", ph)
	}
	out, _ := tengo.ToFloat64(tr.state.Value["output"])
	if out != 0.25 {
		t.Errorf("expected 0.25, got %f", out)
	}
}

func TestTrigger_Log(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(log.New(&buf, "", 0))
	defer SetLogger(nil)

	tr := mustNew(t, `
update := func(d, state) {
	d.log("hello", 1)
}
`)
	if err := tr.Fire(0, newDriver(t, &sink.Recorder{})); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if !strings.Contains(buf.String(), "hello 1") {
		t.Errorf("unexpected log output %q", buf.String())
	}
}

func TestTrigger_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", "   "},
		{"no update", "x := 1"},
		{"syntax", "update := func(d, state) {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.name, []byte(tt.src)); err == nil {
				t.Error("expected compile error")
			}
		})
	}
}

func TestTrigger_BadArgument(t *testing.T) {
	tr := mustNew(t, `
update := func(d, state) {
	d.set("x")
}
`)
	if err := tr.Fire(0, newDriver(t, &sink.Recorder{})); err == nil {
		t.Error("expected runtime error")
	}
}

func TestLoad_Missing(t *testing.T) {
	if _, err := Load("does-not-exist.tengo"); err == nil {
		t.Error("expected error")
	}
}
