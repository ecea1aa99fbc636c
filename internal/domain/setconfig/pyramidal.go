package setconfig

import (
	"fmt"
	"math"
)

// PyramidMode selects the direction(s) of a pyramid walk.
type PyramidMode string

const (
	ModeAscending               PyramidMode = "ascending"
	ModeDescending              PyramidMode = "descending"
	ModeBothAscendingDescending PyramidMode = "bothAscendingDescending"
)

// Valid reports whether m is a known mode.
func (m PyramidMode) Valid() bool {
	switch m {
	case ModeAscending, ModeDescending, ModeBothAscendingDescending:
		return true
	}
	return false
}

// Pyramidal walks the rep target from startCounts.min to endCounts.min in
// increments of step.min. In bothAscendingDescending mode the walk is mirrored
// back to the start without repeating the apex, so 6..10 by 2 yields
// [6 8 10 8 6]. The RPE curve is flat at rpe.min for every step.
type Pyramidal struct {
	common
	startCounts Range
	endCounts   Range
	stepSize    Range
	mode        PyramidMode
}

// Type returns TypePyramidal.
func (p *Pyramidal) Type() Type { return TypePyramidal }

// StartCounts returns the first rep target range.
func (p *Pyramidal) StartCounts() Range { return p.startCounts.Clone() }

// EndCounts returns the apex rep target range.
func (p *Pyramidal) EndCounts() Range { return p.endCounts.Clone() }

// Step returns the increment range.
func (p *Pyramidal) Step() Range { return p.stepSize.Clone() }

// Mode returns the walk mode.
func (p *Pyramidal) Mode() PyramidMode { return p.mode }

// Summary renders "Pyramid from {start} to {end} reps" from the first leg.
func (p *Pyramidal) Summary() string {
	leg := p.leg()
	if len(leg) == 0 {
		return fmt.Sprintf("Pyramid from %s to %s reps", formatNumber(p.startCounts.Min), formatNumber(p.endCounts.Min))
	}
	return fmt.Sprintf("Pyramid from %s to %s reps", formatNumber(leg[0]), formatNumber(leg[len(leg)-1]))
}

// ToData returns the plain serializable shape. Sets is always derived from
// the walk length.
func (p *Pyramidal) ToData() Data {
	d := p.data(TypePyramidal)
	d.Sets = Range{Min: float64(p.TotalSets()), Direction: Ascending}
	d.StartCounts = cloneRange(&p.startCounts)
	d.EndCounts = cloneRange(&p.endCounts)
	d.Step = cloneRange(&p.stepSize)
	d.Mode = p.mode
	return d
}

// Clone returns a deep copy.
func (p *Pyramidal) Clone() SetConfiguration {
	return &Pyramidal{
		common:      p.common.clone(),
		startCounts: p.startCounts.Clone(),
		endCounts:   p.endCounts.Clone(),
		stepSize:    p.stepSize.Clone(),
		mode:        p.mode,
	}
}

func (p *Pyramidal) plan() []step {
	walk := p.walk()
	steps := make([]step, len(walk))
	for i, target := range walk {
		steps[i] = step{target: target, kind: KindPyramid, rpe: p.rpeLow(), charged: true}
	}
	return steps
}

// leg is the single walk from start towards end. Values are start plus a
// whole number of steps so that rounding never accumulates.
func (p *Pyramidal) leg() []float64 {
	start, end, inc := p.startCounts.Min, p.endCounts.Min, p.stepSize.Min
	if !(inc > 0) {
		return []float64{start}
	}

	sign := 1.0
	if p.mode == ModeDescending {
		sign = -1
	}
	n, _ := legSteps(start, end, inc, sign)
	out := make([]float64, n)
	for i := range out {
		out[i] = start + sign*float64(i)*inc
	}
	// land exactly on the apex when the step divides the span
	if n > 0 && math.Abs(out[n-1]-end) < inc*walkTolerance {
		out[n-1] = end
	}
	return out
}

// walkTolerance absorbs the rounding of span/step for fractional steps.
const walkTolerance = 1e-9

// legSteps is the number of values a walk from start towards end by inc takes,
// moving up for sign 1 and down for sign -1. A walk pointing away from end is
// empty. The count is capped at MaxPyramidSteps; ok is false when the cap
// applied.
func legSteps(start, end, inc, sign float64) (n int, ok bool) {
	span := (end - start) * sign
	if span < 0 {
		return 0, true
	}
	steps := math.Floor(span/inc+walkTolerance) + 1
	if !(steps <= MaxPyramidSteps) {
		return MaxPyramidSteps, false
	}
	return int(steps), true
}

// walk is the full step list for the configured mode.
func (p *Pyramidal) walk() []float64 {
	leg := p.leg()
	if p.mode != ModeBothAscendingDescending || len(leg) < 2 {
		return leg
	}
	out := make([]float64, 0, 2*len(leg)-1)
	out = append(out, leg...)
	for i := len(leg) - 2; i >= 0; i-- {
		out = append(out, leg[i])
	}
	return out
}
