// Package script runs tengo scripts as replay triggers.
//
// A script defines update(d, state), called once per step. d exposes the
// current time, dt, status, output, secondary, progress and phase, plus the
// functions start(), reset(), set(v) and log(msg). state is a map that
// persists across steps until the run is rewound.
package script

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/san-kum/dissolve/internal/driver"
)

// MaxRunTime bounds a single update call.
var MaxRunTime = time.Second

var logger = log.New(os.Stderr, "script: ", log.LstdFlags)

func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(discard{}, "", 0)
	}
	logger = l
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

const dispatch = `
update(__dissolve, __state)
`

// Trigger is a compiled script. It is not safe for concurrent use.
type Trigger struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map

	drv      *driver.Driver
	last     float64
	fired    bool
	deferred []error
}

// Load compiles the script at path.
func Load(path string) (*Trigger, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(path, src)
}

func New(name string, src []byte) (*Trigger, error) {
	if strings.TrimSpace(string(src)) == "" {
		return nil, fmt.Errorf("script %s: empty source", name)
	}

	s := tengo.NewScript([]byte(string(src) + "\n" + dispatch))
	_ = s.Add("__dissolve", map[string]any{})
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}

	return &Trigger{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (t *Trigger) Name() string { return t.name }

// Rewind clears the persistent script state.
func (t *Trigger) Rewind() {
	t.state = &tengo.Map{Value: map[string]tengo.Object{}}
	t.fired = false
	t.last = 0
}

// Fire runs update for time now against d.
func (t *Trigger) Fire(now float64, d *driver.Driver) error {
	dt := 0.0
	if t.fired {
		dt = now - t.last
	}
	t.fired = true
	t.last = now

	t.drv = d
	t.deferred = t.deferred[:0]
	defer func() { t.drv = nil }()

	if err := t.compiled.Set("__dissolve", t.api(now, dt)); err != nil {
		return err
	}
	if err := t.compiled.Set("__state", t.state); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), MaxRunTime)
	defer cancel()
	if err := t.compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("script %s: %w", t.name, err)
	}
	return errors.Join(t.deferred...)
}

func (t *Trigger) api(now, dt float64) *tengo.ImmutableMap {
	snap := t.drv.Snapshot()
	values := map[string]tengo.Object{
		"time":      &tengo.Float{Value: now},
		"dt":        &tengo.Float{Value: dt},
		"status":    &tengo.String{Value: snap.Status.String()},
		"output":    &tengo.Float{Value: snap.State.LastOutput},
		"secondary": &tengo.Float{Value: snap.Secondary},
		"progress":  &tengo.Float{Value: snap.Sample.Progress},
		"phase":     &tengo.String{Value: snap.Sample.Phase.String()},
	}

	values["start"] = &tengo.UserFunction{Name: "start", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t.drv.Start()
		return tengo.TrueValue, nil
	}}

	values["reset"] = &tengo.UserFunction{Name: "reset", Value: func(args ...tengo.Object) (tengo.Object, error) {
		t.drv.Reset()
		return tengo.TrueValue, nil
	}}

	values["set"] = &tengo.UserFunction{Name: "set", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		v, ok := tengo.ToFloat64(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "value", Expected: "float", Found: args[0].TypeName()}
		}
		if err := t.drv.SetManual(v); err != nil {
			t.deferred = append(t.deferred, err)
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		logger.Printf("%s t=%.3f: %s", t.name, now, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return obj.String()
}
