package sim

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/dissolve/internal/driver"
)

// ErrBadEvent indicates an event string that does not parse.
var ErrBadEvent = errors.New("sim: event must look like start@T, reset@T or set@T=V")

type EventKind int

const (
	EventStart EventKind = iota
	EventReset
	EventSet
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventReset:
		return "reset"
	case EventSet:
		return "set"
	default:
		return "unknown"
	}
}

// Event is a timed driver operation. Value is used by EventSet only.
type Event struct {
	At    float64
	Kind  EventKind
	Value float64
}

func (e Event) String() string {
	if e.Kind == EventSet {
		return fmt.Sprintf("set@%g=%g", e.At, e.Value)
	}
	return fmt.Sprintf("%s@%g", e.Kind, e.At)
}

// ParseEvent parses "start@1.5", "reset@4" or "set@2=0.25".
func ParseEvent(s string) (Event, error) {
	kind, rest, ok := strings.Cut(strings.TrimSpace(s), "@")
	if !ok {
		return Event{}, fmt.Errorf("%w: %q", ErrBadEvent, s)
	}

	var ev Event
	switch strings.ToLower(kind) {
	case "start":
		ev.Kind = EventStart
	case "reset":
		ev.Kind = EventReset
	case "set":
		ev.Kind = EventSet
		at, val, ok := strings.Cut(rest, "=")
		if !ok {
			return Event{}, fmt.Errorf("%w: %q", ErrBadEvent, s)
		}
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return Event{}, fmt.Errorf("%w: %q", ErrBadEvent, s)
		}
		ev.Value = v
		rest = at
	default:
		return Event{}, fmt.Errorf("%w: %q", ErrBadEvent, s)
	}

	at, err := strconv.ParseFloat(rest, 64)
	if err != nil || at < 0 {
		return Event{}, fmt.Errorf("%w: %q", ErrBadEvent, s)
	}
	ev.At = at
	return ev, nil
}

// Schedule fires events in time order. Events with equal times fire in the
// order they were given.
type Schedule struct {
	events []Event
	next   int
}

func NewSchedule(events ...Event) *Schedule {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &Schedule{events: sorted}
}

// ParseSchedule parses each string with ParseEvent.
func ParseSchedule(specs []string) (*Schedule, error) {
	events := make([]Event, 0, len(specs))
	for _, s := range specs {
		ev, err := ParseEvent(s)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return NewSchedule(events...), nil
}

func (s *Schedule) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// eventEpsilon absorbs float drift from accumulating i*dt.
const eventEpsilon = 1e-9

func (s *Schedule) Fire(t float64, d *driver.Driver) error {
	var errs []error
	for s.next < len(s.events) && s.events[s.next].At <= t+eventEpsilon {
		ev := s.events[s.next]
		s.next++
		switch ev.Kind {
		case EventStart:
			d.Start()
		case EventReset:
			d.Reset()
		case EventSet:
			if err := d.SetManual(ev.Value); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", ev, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (s *Schedule) Rewind() { s.next = 0 }
