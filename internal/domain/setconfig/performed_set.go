package setconfig

// CounterType is the unit a performed set is counted in.
type CounterType string

const (
	CounterReps     CounterType = "reps"
	CounterTime     CounterType = "time"
	CounterDistance CounterType = "distance"
)

// Valid reports whether c is a known counter type.
func (c CounterType) Valid() bool {
	switch c {
	case CounterReps, CounterTime, CounterDistance:
		return true
	}
	return false
}

// SetKind labels the role of one generated set-step.
type SetKind string

const (
	KindMain       SetKind = "main"
	KindDrop       SetKind = "drop"
	KindActivation SetKind = "activation"
	KindMiniSet    SetKind = "miniSet"
	KindCluster    SetKind = "cluster"
	KindPyramid    SetKind = "pyramid"
)

// PerformedSet is a placeholder for one set of a workout, generated ahead of
// time and filled in while training.
type PerformedSet struct {
	ID                string      `json:"id"`
	ProfileID         string      `json:"profileId"`
	AppliedExerciseID string      `json:"appliedExerciseId,omitempty"`
	CounterType       CounterType `json:"counterType"`
	Kind              SetKind     `json:"kind"`
	Counts            float64     `json:"counts"`
	Weight            float64     `json:"weight"`
	Completed         bool        `json:"completed"`
	PlannedCounts     Range       `json:"plannedCounts"`
	PlannedRPE        *Range      `json:"plannedRpe,omitempty"`
	PlannedLoad       *Range      `json:"plannedLoad,omitempty"`
}
