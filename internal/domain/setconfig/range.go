package setconfig

import "strconv"

// Direction is a display hint for how a range progresses.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Range is a min/optional-max pair used for counts, load, percentage, rpe,
// rounds and the other numeric set parameters.
type Range struct {
	Min       float64   `json:"min"                 yaml:"min"                 validate:"gte=0"`
	Max       *float64  `json:"max,omitempty"       yaml:"max,omitempty"       validate:"omitempty,gte=0"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty" validate:"omitempty,oneof=asc desc"`
}

// Exactly returns a range with only Min set.
func Exactly(v float64) Range {
	return Range{Min: v}
}

// Between returns a range from min to max.
func Between(minimum, maximum float64) Range {
	return Range{Min: minimum, Max: &maximum}
}

// Upper returns Max when set, otherwise Min.
func (r Range) Upper() float64 {
	if r.Max != nil {
		return *r.Max
	}
	return r.Min
}

// Clone returns a deep copy of r.
func (r Range) Clone() Range {
	if r.Max != nil {
		m := *r.Max
		r.Max = &m
	}
	return r
}

// String renders "8" or "8-12".
func (r Range) String() string {
	if r.Max == nil || *r.Max == r.Min {
		return formatNumber(r.Min)
	}
	return formatNumber(r.Min) + "-" + formatNumber(*r.Max)
}

func cloneRange(r *Range) *Range {
	if r == nil {
		return nil
	}
	c := r.Clone()
	return &c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func plural(n float64, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}
