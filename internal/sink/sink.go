// Package sink provides in-memory output targets for a dissolve driver: a
// material with a fixed parameter set, a light, and a recorder that keeps
// every write.
package sink

import "sort"

// Material stores scalar parameters. Only declared parameters can be written;
// writes to anything else are dropped.
type Material struct {
	values map[string]float64
}

// NewMaterial declares the given parameters with value 0.
func NewMaterial(params ...string) *Material {
	m := &Material{values: make(map[string]float64, len(params))}
	for _, p := range params {
		m.values[p] = 0
	}
	return m
}

func (m *Material) HasParameter(name string) bool {
	_, ok := m.values[name]
	return ok
}

func (m *Material) SetScalarParameter(name string, value float64) {
	if _, ok := m.values[name]; ok {
		m.values[name] = value
	}
}

// Value returns a parameter and whether it exists.
func (m *Material) Value(name string) (float64, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Parameters lists declared parameter names in sorted order.
func (m *Material) Parameters() []string {
	names := make([]string, 0, len(m.values))
	for name := range m.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Light holds an intensity value.
type Light struct {
	Intensity float64
}

func (l *Light) SetIntensity(value float64) { l.Intensity = value }

// Write is one recorded sink call. Name is empty for intensity writes.
type Write struct {
	Name  string
	Value float64
}

// Recorder accepts every parameter and intensity write and keeps them in order.
type Recorder struct {
	Parameters  []Write
	Intensities []float64
}

func (r *Recorder) SetScalarParameter(name string, value float64) {
	r.Parameters = append(r.Parameters, Write{Name: name, Value: value})
}

func (r *Recorder) SetIntensity(value float64) {
	r.Intensities = append(r.Intensities, value)
}

// LastParameter returns the most recent parameter write.
func (r *Recorder) LastParameter() (Write, bool) {
	if len(r.Parameters) == 0 {
		return Write{}, false
	}
	return r.Parameters[len(r.Parameters)-1], true
}

// LastIntensity returns the most recent intensity write.
func (r *Recorder) LastIntensity() (float64, bool) {
	if len(r.Intensities) == 0 {
		return 0, false
	}
	return r.Intensities[len(r.Intensities)-1], true
}

// Clear drops all recorded writes.
func (r *Recorder) Clear() {
	r.Parameters = r.Parameters[:0]
	r.Intensities = r.Intensities[:0]
}
