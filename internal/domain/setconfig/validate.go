package setconfig

import (
	"fmt"
	"slices"
)

// Upper bounds on generated geometry. Problems rejects anything above them
// and Hydrate clamps to them.
const (
	// MaxSets bounds sets and every per-set repeat (drops, mini-sets, pauses).
	MaxSets = 100
	// MaxPyramidSteps bounds the length of one pyramid leg.
	MaxPyramidSteps = 100
	// MaxCounts bounds any rep, second or metre target.
	MaxCounts = 100000
)

// Problem describes one rule a Data value breaks. Field uses json names.
type Problem struct {
	Field   string
	Message string
	Code    string
}

type field struct {
	name string
	set  bool
}

// required lists the geometry fields each variant cannot be computed without.
func (d Data) required() []field {
	switch d.Type {
	case TypeStandard, TypeMAV:
		return []field{{"counts", d.Counts != nil}}
	case TypeDrop:
		return []field{{"counts", d.Counts != nil}, {"drops", d.Drops != nil}}
	case TypeMyoReps:
		return []field{
			{"activationCounts", d.ActivationCounts != nil},
			{"miniSets", d.MiniSets != nil},
			{"miniSetCounts", d.MiniSetCounts != nil},
		}
	case TypeRestPause:
		return []field{
			{"counts", d.Counts != nil},
			{"pauses", d.Pauses != nil},
			{"clusterCounts", d.ClusterCounts != nil},
		}
	case TypePyramidal:
		return []field{
			{"startCounts", d.StartCounts != nil},
			{"endCounts", d.EndCounts != nil},
			{"step", d.Step != nil},
		}
	}
	return nil
}

func (d Data) structuralError() error {
	if !slices.Contains(Types, d.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}
	for _, f := range d.required() {
		if !f.set {
			return fmt.Errorf("%w: %s requires %s", ErrMalformed, d.Type, f.name)
		}
	}
	if d.Type == TypePyramidal && !d.Mode.Valid() {
		return fmt.Errorf("%w: pyramidal mode %q", ErrMalformed, d.Mode)
	}
	return nil
}

// Problems reports the cross-field rules d breaks. Per-field bounds are
// covered by the struct tags on Range.
func (d Data) Problems() []Problem {
	var out []Problem
	add := func(path, code, format string, args ...any) {
		out = append(out, Problem{Field: path, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if !slices.Contains(Types, d.Type) {
		add("type", "invalid_enum", "unknown set configuration type %q", d.Type)
		return out
	}
	for _, f := range d.required() {
		if !f.set {
			add(f.name, "required", "%s is required for %s", f.name, d.Type)
		}
	}

	ranges := map[string]*Range{
		"sets": &d.Sets, "load": d.Load, "percentage": d.Percentage, "rpe": d.RPE,
		"counts": d.Counts, "drops": d.Drops, "dropCounts": d.DropCounts,
		"activationCounts": d.ActivationCounts, "miniSets": d.MiniSets, "miniSetCounts": d.MiniSetCounts,
		"pauses": d.Pauses, "clusterCounts": d.ClusterCounts,
		"startCounts": d.StartCounts, "endCounts": d.EndCounts, "step": d.Step,
	}
	names := make([]string, 0, len(ranges))
	for name := range ranges {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		r := ranges[name]
		if r != nil && r.Max != nil && *r.Max < r.Min {
			add(name+".max", "too_small", "max must be greater than or equal to min")
		}
	}

	for _, name := range []string{
		"activationCounts", "clusterCounts", "counts", "dropCounts",
		"endCounts", "miniSetCounts", "startCounts",
	} {
		if r := ranges[name]; r != nil && r.Upper() > MaxCounts {
			add(name, "too_big", "%s must not exceed %d", name, MaxCounts)
		}
	}
	for _, name := range []string{"drops", "miniSets", "pauses"} {
		if r := ranges[name]; r != nil && r.Min > MaxSets {
			add(name+".min", "too_big", "%s must not exceed %d", name, MaxSets)
		}
	}

	if d.RPE != nil && d.RPE.Upper() > 10 {
		add("rpe", "too_big", "rpe must not exceed 10")
	}

	switch d.Type {
	case TypePyramidal:
		if !d.Mode.Valid() {
			add("mode", "invalid_enum", "unknown pyramid mode %q", d.Mode)
		}
		if d.Step != nil && d.Step.Min <= 0 {
			add("step.min", "too_small", "step must be positive")
		}
		if d.StartCounts != nil && d.EndCounts != nil && d.Mode.Valid() {
			start, end := d.StartCounts.Min, d.EndCounts.Min
			if d.Mode == ModeDescending && start < end {
				add("startCounts.min", "invalid_order", "descending pyramid must start above its end")
			}
			if d.Mode != ModeDescending && start > end {
				add("startCounts.min", "invalid_order", "ascending pyramid must start below its end")
			}
			if d.Step != nil && d.Step.Min > 0 {
				sign := 1.0
				if d.Mode == ModeDescending {
					sign = -1
				}
				if _, ok := legSteps(start, end, d.Step.Min, sign); !ok {
					add("step.min", "too_big", "pyramid walk exceeds %d steps", MaxPyramidSteps)
				}
			}
		}
	default:
		if d.Sets.Min < 1 {
			add("sets.min", "too_small", "at least one set is required")
		}
		if d.Sets.Min > MaxSets {
			add("sets.min", "too_big", "sets must not exceed %d", MaxSets)
		}
		if d.Type == TypeMAV && d.Sets.Max != nil && *d.Sets.Max > MaxSets {
			add("sets.max", "too_big", "sets must not exceed %d", MaxSets)
		}
	}

	if d.DropPercentage != nil && (*d.DropPercentage <= 0 || *d.DropPercentage >= 100) {
		add("dropPercentage", "out_of_range", "dropPercentage must be between 0 and 100")
	}
	if d.RestSeconds != nil && *d.RestSeconds < 0 {
		add("restSeconds", "too_small", "restSeconds must not be negative")
	}
	if d.PauseSeconds != nil && *d.PauseSeconds < 0 {
		add("pauseSeconds", "too_small", "pauseSeconds must not be negative")
	}

	return out
}
