package domain

// GroupType determines how the exercises of a group are performed and how
// many of them the group may hold.
type GroupType string

const (
	GroupSingle     GroupType = "single"
	GroupSuperset   GroupType = "superset"
	GroupCircuit    GroupType = "circuit"
	GroupEMOM       GroupType = "emom"
	GroupAMRAP      GroupType = "amrap"
	GroupWarmup     GroupType = "warmup"
	GroupStretching GroupType = "stretching"
)

// RequiresRounds reports whether groups of this type must carry a rounds range.
func (t GroupType) RequiresRounds() bool {
	switch t {
	case GroupCircuit, GroupEMOM, GroupAMRAP, GroupWarmup, GroupStretching:
		return true
	}
	return false
}

// Timed reports whether the group runs for a fixed number of minutes.
func (t GroupType) Timed() bool {
	return t == GroupEMOM || t == GroupAMRAP
}

// DayOfWeek schedules a session.
type DayOfWeek string

const (
	Monday    DayOfWeek = "monday"
	Tuesday   DayOfWeek = "tuesday"
	Wednesday DayOfWeek = "wednesday"
	Thursday  DayOfWeek = "thursday"
	Friday    DayOfWeek = "friday"
	Saturday  DayOfWeek = "saturday"
	Sunday    DayOfWeek = "sunday"
)

// Goal is the training emphasis of a cycle.
type Goal string

const (
	GoalHypertrophy Goal = "hypertrophy"
	GoalStrength    Goal = "strength"
	GoalPower       Goal = "power"
	GoalEndurance   Goal = "endurance"
	GoalFatLoss     Goal = "fatLoss"
	GoalGeneral     Goal = "general"
)
