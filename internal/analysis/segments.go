package analysis

// Segment is a contiguous run of samples in one phase.
type Segment struct {
	Phase string
	Start float64
	End   float64
}

func (s Segment) Duration() float64 { return s.End - s.Start }

// Segments groups samples by phase label. A segment ends at the time of the
// first sample of the next one, or at the last sample time.
func Segments(times []float64, phases []string) []Segment {
	n := len(times)
	if len(phases) < n {
		n = len(phases)
	}
	if n == 0 {
		return []Segment{}
	}

	segs := make([]Segment, 0)
	cur := Segment{Phase: phases[0], Start: times[0]}
	for i := 1; i < n; i++ {
		if phases[i] == cur.Phase {
			continue
		}
		cur.End = times[i]
		segs = append(segs, cur)
		cur = Segment{Phase: phases[i], Start: times[i]}
	}
	cur.End = times[n-1]
	return append(segs, cur)
}

// TotalByPhase sums segment durations per phase.
func TotalByPhase(segs []Segment) map[string]float64 {
	out := make(map[string]float64)
	for _, s := range segs {
		out[s.Phase] += s.Duration()
	}
	return out
}
