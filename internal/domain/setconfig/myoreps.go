package setconfig

import "fmt"

// DefaultMyoRestSeconds is the breather between mini-sets when unset.
const DefaultMyoRestSeconds = 15.0

// MyoReps performs, per round, one activation set followed by miniSets.min
// short mini-sets separated by brief rests.
type MyoReps struct {
	common
	activationCounts Range
	miniSets         Range
	miniSetCounts    Range
	restSeconds      *float64
}

// Type returns TypeMyoReps.
func (m *MyoReps) Type() Type { return TypeMyoReps }

// ActivationCounts returns the activation-set rep range.
func (m *MyoReps) ActivationCounts() Range { return m.activationCounts.Clone() }

// MiniSets returns the number of mini-sets per round.
func (m *MyoReps) MiniSets() Range { return m.miniSets.Clone() }

// MiniSetCounts returns the per-mini-set rep range.
func (m *MyoReps) MiniSetCounts() Range { return m.miniSetCounts.Clone() }

// RestSeconds returns the rest between mini-sets, applying the default.
func (m *MyoReps) RestSeconds() float64 {
	if m.restSeconds != nil {
		return *m.restSeconds
	}
	return DefaultMyoRestSeconds
}

// Summary renders e.g. "Myo-reps: 15 activation + 4 x 5".
func (m *MyoReps) Summary() string {
	return fmt.Sprintf("Myo-reps: %s activation + %s x %s",
		m.activationCounts, formatNumber(m.miniSets.Min), m.miniSetCounts)
}

// ToData returns the plain serializable shape.
func (m *MyoReps) ToData() Data {
	d := m.data(TypeMyoReps)
	d.ActivationCounts = cloneRange(&m.activationCounts)
	d.MiniSets = cloneRange(&m.miniSets)
	d.MiniSetCounts = cloneRange(&m.miniSetCounts)
	d.RestSeconds = cloneFloat(m.restSeconds)
	return d
}

// Clone returns a deep copy.
func (m *MyoReps) Clone() SetConfiguration {
	return &MyoReps{
		common:           m.common.clone(),
		activationCounts: m.activationCounts.Clone(),
		miniSets:         m.miniSets.Clone(),
		miniSetCounts:    m.miniSetCounts.Clone(),
		restSeconds:      cloneFloat(m.restSeconds),
	}
}

func (m *MyoReps) plan() []step {
	rounds, minis := count(m.sets), count(m.miniSets)
	rest := m.RestSeconds()
	steps := make([]step, 0, rounds*(1+minis))
	for r := 0; r < rounds; r++ {
		steps = append(steps, step{target: m.activationCounts.Min, kind: KindActivation, rpe: m.rpeLow(), charged: true})
		for i := 0; i < minis; i++ {
			steps = append(steps, step{
				target:     m.miniSetCounts.Min,
				kind:       KindMiniSet,
				rpe:        m.rpeHigh(),
				charged:    true,
				restBefore: rest,
			})
		}
	}
	return steps
}
