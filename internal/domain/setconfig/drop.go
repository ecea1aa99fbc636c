package setconfig

import (
	"fmt"
	"math"
)

// Drop performs, per round, a top set followed by drops.min drop sets taken
// without rest at progressively lighter loads.
type Drop struct {
	common
	counts         Range
	drops          Range
	dropCounts     *Range
	dropPercentage *float64
}

// Type returns TypeDrop.
func (d *Drop) Type() Type { return TypeDrop }

// Counts returns the top-set rep range.
func (d *Drop) Counts() Range { return d.counts.Clone() }

// Drops returns the number of drops per round.
func (d *Drop) Drops() Range { return d.drops.Clone() }

// DropCounts returns the per-drop rep range, defaulting to the top-set range.
func (d *Drop) DropCounts() Range {
	if d.dropCounts != nil {
		return d.dropCounts.Clone()
	}
	return d.counts.Clone()
}

// DropPercentage returns the load reduction per drop, if any.
func (d *Drop) DropPercentage() *float64 { return cloneFloat(d.dropPercentage) }

// Summary renders e.g. "3 x 10 reps + 2 drops".
func (d *Drop) Summary() string {
	return fmt.Sprintf("%s x %s reps + %s %s",
		formatNumber(d.sets.Min), d.counts,
		formatNumber(d.drops.Min), plural(d.drops.Min, "drop", "drops"))
}

// ToData returns the plain serializable shape.
func (d *Drop) ToData() Data {
	data := d.data(TypeDrop)
	data.Counts = cloneRange(&d.counts)
	data.Drops = cloneRange(&d.drops)
	data.DropCounts = cloneRange(d.dropCounts)
	data.DropPercentage = cloneFloat(d.dropPercentage)
	return data
}

// Clone returns a deep copy.
func (d *Drop) Clone() SetConfiguration {
	return &Drop{
		common:         d.common.clone(),
		counts:         d.counts.Clone(),
		drops:          d.drops.Clone(),
		dropCounts:     cloneRange(d.dropCounts),
		dropPercentage: cloneFloat(d.dropPercentage),
	}
}

func (d *Drop) plan() []step {
	rounds, drops := count(d.sets), count(d.drops)
	dropTarget := d.DropCounts().Min
	steps := make([]step, 0, rounds*(1+drops))
	for r := 0; r < rounds; r++ {
		steps = append(steps, step{
			target:  d.counts.Min,
			kind:    KindMain,
			rpe:     d.rpeLow(),
			load:    d.loadAt(0),
			charged: true,
		})
		for k := 1; k <= drops; k++ {
			steps = append(steps, step{
				target: dropTarget,
				kind:   KindDrop,
				rpe:    d.rpeHigh(),
				load:   d.loadAt(k),
			})
		}
	}
	return steps
}

// loadAt is load.min reduced by dropPercentage compounded k times, rounded to
// two decimals. It is nil unless both load and dropPercentage are set.
func (d *Drop) loadAt(k int) *float64 {
	if d.load == nil || d.dropPercentage == nil {
		return nil
	}
	v := d.load.Min * math.Pow(1-*d.dropPercentage/100, float64(k))
	v = math.Round(v*100) / 100
	return &v
}
