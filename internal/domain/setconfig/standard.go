package setconfig

import "fmt"

// Standard is a straight run of sets.min sets, each of counts.min reps.
type Standard struct {
	common
	counts Range
}

// Type returns TypeStandard.
func (s *Standard) Type() Type { return TypeStandard }

// Counts returns the per-set rep range.
func (s *Standard) Counts() Range { return s.counts.Clone() }

// Summary renders e.g. "3 x 8-12 reps".
func (s *Standard) Summary() string {
	return fmt.Sprintf("%s x %s reps", formatNumber(s.sets.Min), s.counts)
}

// ToData returns the plain serializable shape.
func (s *Standard) ToData() Data {
	d := s.data(TypeStandard)
	d.Counts = cloneRange(&s.counts)
	return d
}

// Clone returns a deep copy.
func (s *Standard) Clone() SetConfiguration {
	return &Standard{common: s.common.clone(), counts: s.counts.Clone()}
}

func (s *Standard) plan() []step {
	n := count(s.sets)
	steps := make([]step, 0, n)
	for i := 0; i < n; i++ {
		steps = append(steps, step{target: s.counts.Min, kind: KindMain, rpe: s.rpeLow(), charged: true})
	}
	return steps
}

// MAV is a flat run of equal sets at the maximum adaptive volume: sets.max
// sets (sets.min when no max) of counts.min reps, with effort ramping linearly
// from rpe.min to rpe.max.
type MAV struct {
	common
	counts Range
}

// Type returns TypeMAV.
func (m *MAV) Type() Type { return TypeMAV }

// Counts returns the per-set rep range.
func (m *MAV) Counts() Range { return m.counts.Clone() }

// Summary renders e.g. "MAV 5 x 10 reps".
func (m *MAV) Summary() string {
	return fmt.Sprintf("MAV %d x %s reps", len(m.steps), formatNumber(m.counts.Min))
}

// ToData returns the plain serializable shape.
func (m *MAV) ToData() Data {
	d := m.data(TypeMAV)
	d.Counts = cloneRange(&m.counts)
	return d
}

// Clone returns a deep copy.
func (m *MAV) Clone() SetConfiguration {
	return &MAV{common: m.common.clone(), counts: m.counts.Clone()}
}

func (m *MAV) plan() []step {
	n := clampCount(m.sets.Upper())
	low, high := m.rpeLow(), m.rpeHigh()
	steps := make([]step, 0, n)
	for i := 0; i < n; i++ {
		rpe := low
		if n > 1 {
			rpe = low + (high-low)*float64(i)/float64(n-1)
		}
		steps = append(steps, step{target: m.counts.Min, kind: KindMain, rpe: rpe, charged: true})
	}
	return steps
}
