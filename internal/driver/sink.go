package driver

// ParameterSink receives the primary output as a named scalar, typically a
// material or shader uniform.
type ParameterSink interface {
	SetScalarParameter(name string, value float64)
}

// ParameterChecker is implemented by sinks that can report whether they
// expose a parameter. Sinks without it are assumed to accept any name.
type ParameterChecker interface {
	HasParameter(name string) bool
}

// IntensitySink receives the secondary output, typically a light.
type IntensitySink interface {
	SetIntensity(value float64)
}
