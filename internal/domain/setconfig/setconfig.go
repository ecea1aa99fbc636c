package setconfig

import (
	"errors"
	"fmt"

	"github.com/phrazzld/liftplan/internal/idgen"
)

// Type is the discriminant of a set configuration.
type Type string

const (
	TypeStandard  Type = "standard"
	TypeDrop      Type = "drop"
	TypeMyoReps   Type = "myoReps"
	TypePyramidal Type = "pyramidal"
	TypeRestPause Type = "restPause"
	TypeMAV       Type = "mav"
)

// Types lists every known discriminant.
var Types = []Type{TypeStandard, TypeDrop, TypeMyoReps, TypePyramidal, TypeRestPause, TypeMAV}

var (
	// ErrUnknownType is returned by Hydrate for a discriminant outside Types.
	// Input reaching Hydrate is expected to be schema-checked, so callers treat
	// it as fatal and never retry.
	ErrUnknownType = errors.New("unknown set configuration type")

	// ErrMalformed is returned by Hydrate when a variant is missing a field its
	// geometry cannot be computed without.
	ErrMalformed = errors.New("malformed set configuration")
)

// Default duration parameters, in seconds.
const (
	DefaultTimePerRep     = 3.0
	DefaultBaseTimePerSet = 5.0
)

// DurationParams overrides the duration estimate inputs. A nil field keeps
// its default; any non-negative value, including zero, replaces it.
type DurationParams struct {
	TimePerRep     *float64
	BaseTimePerSet *float64
}

func (p *DurationParams) resolve() (perRep, perSet float64) {
	perRep, perSet = DefaultTimePerRep, DefaultBaseTimePerSet
	if p == nil {
		return perRep, perSet
	}
	if p.TimePerRep != nil && *p.TimePerRep >= 0 {
		perRep = *p.TimePerRep
	}
	if p.BaseTimePerSet != nil && *p.BaseTimePerSet >= 0 {
		perSet = *p.BaseTimePerSet
	}
	return perRep, perSet
}

// SetConfiguration is the contract shared by every geometry.
type SetConfiguration interface {
	// Type returns the discriminant.
	Type() Type
	// TotalSets is the number of generated set-steps.
	TotalSets() int
	// Summary is a short human-readable description.
	Summary() string
	// GenerateEmptySets returns one uncompleted placeholder per set-step.
	GenerateEmptySets(ids idgen.Generator, profileID string, counter CounterType) []PerformedSet
	// EstimatedDurationSeconds estimates time under the bar plus set overhead.
	EstimatedDurationSeconds(params *DurationParams) float64
	// EstimatedRPECurve returns one RPE value per step, or nil without an rpe range.
	EstimatedRPECurve() []float64
	// ToData returns the plain serializable shape.
	ToData() Data
	// Clone returns a deep copy.
	Clone() SetConfiguration

	base() *common
}

// Data is the flattened serializable form of every variant. Only the fields
// relevant to Type are populated.
type Data struct {
	Type       Type   `json:"type"                 yaml:"type"`
	Sets       Range  `json:"sets"                 yaml:"sets"`
	Load       *Range `json:"load,omitempty"       yaml:"load,omitempty"`
	Percentage *Range `json:"percentage,omitempty" yaml:"percentage,omitempty"`
	RPE        *Range `json:"rpe,omitempty"        yaml:"rpe,omitempty"`

	// standard, mav, drop, restPause
	Counts *Range `json:"counts,omitempty" yaml:"counts,omitempty"`

	// drop
	Drops          *Range   `json:"drops,omitempty"          yaml:"drops,omitempty"`
	DropCounts     *Range   `json:"dropCounts,omitempty"     yaml:"dropCounts,omitempty"`
	DropPercentage *float64 `json:"dropPercentage,omitempty" yaml:"dropPercentage,omitempty"`

	// myoReps
	ActivationCounts *Range   `json:"activationCounts,omitempty" yaml:"activationCounts,omitempty"`
	MiniSets         *Range   `json:"miniSets,omitempty"         yaml:"miniSets,omitempty"`
	MiniSetCounts    *Range   `json:"miniSetCounts,omitempty"    yaml:"miniSetCounts,omitempty"`
	RestSeconds      *float64 `json:"restSeconds,omitempty"      yaml:"restSeconds,omitempty"`

	// restPause
	Pauses        *Range   `json:"pauses,omitempty"        yaml:"pauses,omitempty"`
	ClusterCounts *Range   `json:"clusterCounts,omitempty" yaml:"clusterCounts,omitempty"`
	PauseSeconds  *float64 `json:"pauseSeconds,omitempty"  yaml:"pauseSeconds,omitempty"`

	// pyramidal
	StartCounts *Range      `json:"startCounts,omitempty" yaml:"startCounts,omitempty"`
	EndCounts   *Range      `json:"endCounts,omitempty"   yaml:"endCounts,omitempty"`
	Step        *Range      `json:"step,omitempty"        yaml:"step,omitempty"`
	Mode        PyramidMode `json:"mode,omitempty"        yaml:"mode,omitempty"`
}

// Hydrate builds the variant named by d.Type. It fails with ErrUnknownType for
// an unrecognized discriminant and ErrMalformed when required geometry fields
// are absent.
func Hydrate(d Data) (SetConfiguration, error) {
	if err := d.structuralError(); err != nil {
		return nil, err
	}

	c := common{
		sets:       d.Sets.Clone(),
		load:       cloneRange(d.Load),
		percentage: cloneRange(d.Percentage),
		rpe:        cloneRange(d.RPE),
	}

	var cfg SetConfiguration
	switch d.Type {
	case TypeStandard:
		cfg = &Standard{common: c, counts: d.Counts.Clone()}
	case TypeMAV:
		cfg = &MAV{common: c, counts: d.Counts.Clone()}
	case TypeDrop:
		cfg = &Drop{
			common:         c,
			counts:         d.Counts.Clone(),
			drops:          d.Drops.Clone(),
			dropCounts:     cloneRange(d.DropCounts),
			dropPercentage: cloneFloat(d.DropPercentage),
		}
	case TypeMyoReps:
		cfg = &MyoReps{
			common:           c,
			activationCounts: d.ActivationCounts.Clone(),
			miniSets:         d.MiniSets.Clone(),
			miniSetCounts:    d.MiniSetCounts.Clone(),
			restSeconds:      cloneFloat(d.RestSeconds),
		}
	case TypeRestPause:
		cfg = &RestPause{
			common:        c,
			counts:        d.Counts.Clone(),
			pauses:        d.Pauses.Clone(),
			clusterCounts: d.ClusterCounts.Clone(),
			pauseSeconds:  cloneFloat(d.PauseSeconds),
		}
	case TypePyramidal:
		p := &Pyramidal{
			common:      c,
			startCounts: d.StartCounts.Clone(),
			endCounts:   d.EndCounts.Clone(),
			stepSize:    d.Step.Clone(),
			mode:        d.Mode,
		}
		// the serialized sets count is always derived from the walk
		p.sets = Range{Min: float64(len(p.walk())), Direction: Ascending}
		cfg = p
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}

	cfg.base().steps = buildSteps(cfg)
	return cfg, nil
}

// MustHydrate is like Hydrate but panics on error. It is meant for fixtures
// and literals known to be well formed.
func MustHydrate(d Data) SetConfiguration {
	cfg, err := Hydrate(d)
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildSteps(cfg SetConfiguration) []step {
	switch v := cfg.(type) {
	case *Standard:
		return v.plan()
	case *MAV:
		return v.plan()
	case *Drop:
		return v.plan()
	case *MyoReps:
		return v.plan()
	case *RestPause:
		return v.plan()
	case *Pyramidal:
		return v.plan()
	}
	panic(fmt.Sprintf("setconfig: no step plan for %T", cfg))
}

// step is one generated set-step.
type step struct {
	target float64
	kind   SetKind
	rpe    float64
	load   *float64
	// charged steps pay the base per-set overhead
	charged bool
	// rest taken before this step, on top of the per-set overhead
	restBefore float64
}

// common holds the fields shared by every variant and implements the queries
// that depend only on the step list.
type common struct {
	sets       Range
	load       *Range
	percentage *Range
	rpe        *Range

	steps []step
}

func (c *common) base() *common { return c }

// Sets returns the sets range.
func (c *common) Sets() Range { return c.sets.Clone() }

// Load returns the load range, if any.
func (c *common) Load() *Range { return cloneRange(c.load) }

// Percentage returns the percentage range, if any.
func (c *common) Percentage() *Range { return cloneRange(c.percentage) }

// RPE returns the rpe range, if any.
func (c *common) RPE() *Range { return cloneRange(c.rpe) }

// TotalSets is the number of generated set-steps.
func (c *common) TotalSets() int { return len(c.steps) }

// Targets returns the per-step count targets in order.
func (c *common) Targets() []float64 {
	out := make([]float64, len(c.steps))
	for i, s := range c.steps {
		out[i] = s.target
	}
	return out
}

// EstimatedDurationSeconds is sum(targets) * timePerRep + charged steps *
// baseTimePerSet, plus any intra-set rest the geometry prescribes.
func (c *common) EstimatedDurationSeconds(params *DurationParams) float64 {
	perRep, perSet := params.resolve()
	var total float64
	for _, s := range c.steps {
		total += s.target * perRep
		if s.charged {
			total += perSet
		}
		total += s.restBefore
	}
	return total
}

// EstimatedRPECurve returns one value per step, or nil without an rpe range.
func (c *common) EstimatedRPECurve() []float64 {
	if c.rpe == nil {
		return nil
	}
	curve := make([]float64, len(c.steps))
	for i, s := range c.steps {
		curve[i] = s.rpe
	}
	return curve
}

// GenerateEmptySets returns one uncompleted placeholder per step.
func (c *common) GenerateEmptySets(ids idgen.Generator, profileID string, counter CounterType) []PerformedSet {
	out := make([]PerformedSet, len(c.steps))
	for i, s := range c.steps {
		ps := PerformedSet{
			ID:            ids.NewID(),
			ProfileID:     profileID,
			CounterType:   counter,
			Kind:          s.kind,
			PlannedCounts: Range{Min: s.target},
			PlannedRPE:    cloneRange(c.rpe),
		}
		switch {
		case s.load != nil:
			ps.PlannedLoad = &Range{Min: *s.load}
		case c.load != nil:
			ps.PlannedLoad = cloneRange(c.load)
		}
		out[i] = ps
	}
	return out
}

func (c *common) data(t Type) Data {
	return Data{
		Type:       t,
		Sets:       c.sets.Clone(),
		Load:       cloneRange(c.load),
		Percentage: cloneRange(c.percentage),
		RPE:        cloneRange(c.rpe),
	}
}

func (c common) clone() common {
	return common{
		sets:       c.sets.Clone(),
		load:       cloneRange(c.load),
		percentage: cloneRange(c.percentage),
		rpe:        cloneRange(c.rpe),
		steps:      append([]step(nil), c.steps...),
	}
}

// rpeLow and rpeHigh give the effort for the first and later steps of a round.
func (c *common) rpeLow() float64 {
	if c.rpe == nil {
		return 0
	}
	return c.rpe.Min
}

func (c *common) rpeHigh() float64 {
	if c.rpe == nil {
		return 0
	}
	return c.rpe.Upper()
}

// count is r.Min as a repeat count, clamped to [0, MaxSets] so that
// unchecked input cannot size an allocation.
func count(r Range) int {
	return clampCount(r.Min)
}

func clampCount(v float64) int {
	if !(v > 0) {
		return 0
	}
	if v > MaxSets {
		return MaxSets
	}
	return int(v)
}
