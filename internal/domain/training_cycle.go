package domain

import (
	"math"
	"time"
)

// TrainingCycleData is the plain form of a TrainingCycle.
type TrainingCycleData struct {
	ID        string    `json:"id"              yaml:"id"              validate:"required"`
	ProfileID string    `json:"profileId"       yaml:"profileId"       validate:"required"`
	Name      string    `json:"name"            yaml:"name"            validate:"required"`
	StartDate time.Time `json:"startDate"       yaml:"startDate"       validate:"required"`
	EndDate   time.Time `json:"endDate"         yaml:"endDate"         validate:"required"`
	Goal      Goal      `json:"goal"            yaml:"goal"            validate:"required,oneof=hypertrophy strength power endurance fatLoss general"`
	Notes     *string   `json:"notes,omitempty" yaml:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"       yaml:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"       yaml:"updatedAt"`
}

// TrainingCycle is a dated training block. It holds no references to its
// plans; plans point at the cycle, and the association queries below filter
// a plan list supplied by the caller.
type TrainingCycle struct {
	id        string
	profileID string
	name      string
	startDate time.Time
	endDate   time.Time
	goal      Goal
	notes     *string
	createdAt time.Time
	updatedAt time.Time
}

// HydrateTrainingCycle builds a TrainingCycle. It cannot fail today; the
// error return keeps the signature in line with the other aggregates.
func HydrateTrainingCycle(d TrainingCycleData) (*TrainingCycle, error) {
	return &TrainingCycle{
		id:        d.ID,
		profileID: d.ProfileID,
		name:      d.Name,
		startDate: normalizeTime(d.StartDate),
		endDate:   normalizeTime(d.EndDate),
		goal:      d.Goal,
		notes:     clonePtr(d.Notes),
		createdAt: normalizeTime(d.CreatedAt),
		updatedAt: normalizeTime(d.UpdatedAt),
	}, nil
}

// ToData returns the plain form.
func (c *TrainingCycle) ToData() TrainingCycleData {
	return TrainingCycleData{
		ID:        c.id,
		ProfileID: c.profileID,
		Name:      c.name,
		StartDate: c.startDate,
		EndDate:   c.endDate,
		Goal:      c.goal,
		Notes:     clonePtr(c.notes),
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
	}
}

func (c *TrainingCycle) ID() string { return c.id }
func (c *TrainingCycle) ProfileID() string { return c.profileID }
func (c *TrainingCycle) Name() string { return c.name }
func (c *TrainingCycle) StartDate() time.Time { return c.startDate }
func (c *TrainingCycle) EndDate() time.Time { return c.endDate }
func (c *TrainingCycle) Goal() Goal { return c.goal }
func (c *TrainingCycle) Notes() *string { return clonePtr(c.notes) }
func (c *TrainingCycle) CreatedAt() time.Time { return c.createdAt }
func (c *TrainingCycle) UpdatedAt() time.Time { return c.updatedAt }

// DurationDays is the number of calendar days covered, both ends included.
func (c *TrainingCycle) DurationDays() int {
	if c.endDate.Before(c.startDate) {
		return 0
	}
	return int(c.endDate.Sub(c.startDate).Hours()/24) + 1
}

// DurationWeeks is DurationDays rounded up to whole weeks.
func (c *TrainingCycle) DurationWeeks() int {
	return int(math.Ceil(float64(c.DurationDays()) / 7))
}

// IsActiveAt reports whether t falls within the cycle's dates.
func (c *TrainingCycle) IsActiveAt(t time.Time) bool {
	return !t.Before(c.startDate) && !t.After(c.endDate)
}

// GetAssociatedPlans returns the plans whose cycle id is this cycle, in the
// order given.
func (c *TrainingCycle) GetAssociatedPlans(plans []*TrainingPlan) []*TrainingPlan {
	var out []*TrainingPlan
	for _, p := range plans {
		if p.InCycle(c.id) {
			out = append(out, p)
		}
	}
	return out
}

// GetTotalSessionCount sums the sessions of the associated plans.
func (c *TrainingCycle) GetTotalSessionCount(plans []*TrainingPlan) int {
	var n int
	for _, p := range c.GetAssociatedPlans(plans) {
		n += p.SessionCount()
	}
	return n
}

// GetWeeklySessionFrequency is the average number of sessions per
// associated plan, each plan being one weekly rotation. It is 0 when no
// plan is associated.
func (c *TrainingCycle) GetWeeklySessionFrequency(plans []*TrainingPlan) float64 {
	associated := c.GetAssociatedPlans(plans)
	if len(associated) == 0 {
		return 0
	}
	return float64(c.GetTotalSessionCount(plans)) / float64(len(associated))
}

// FindPlansByDayOfWeek returns the associated plans with at least one session
// scheduled on day.
func (c *TrainingCycle) FindPlansByDayOfWeek(plans []*TrainingPlan, day DayOfWeek) []*TrainingPlan {
	var out []*TrainingPlan
	for _, p := range c.GetAssociatedPlans(plans) {
		for _, s := range p.sessions {
			if s.ScheduledOn(day) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

func (c *TrainingCycle) clone() *TrainingCycle {
	n := *c
	n.updatedAt = touch(c.updatedAt)
	return &n
}

// CloneWithName renames the cycle.
func (c *TrainingCycle) CloneWithName(name string) *TrainingCycle {
	n := c.clone()
	n.name = name
	return n
}

// CloneWithDates reschedules the cycle. The new dates are not checked here;
// Validate reports an end before the start.
func (c *TrainingCycle) CloneWithDates(start, end time.Time) *TrainingCycle {
	n := c.clone()
	n.startDate = normalizeTime(start)
	n.endDate = normalizeTime(end)
	return n
}

// CloneWithGoal changes the training emphasis.
func (c *TrainingCycle) CloneWithGoal(goal Goal) *TrainingCycle {
	n := c.clone()
	n.goal = goal
	return n
}

// CloneWithNotes replaces the notes; nil clears them.
func (c *TrainingCycle) CloneWithNotes(notes *string) *TrainingCycle {
	n := c.clone()
	n.notes = clonePtr(notes)
	return n
}

// Validate checks the cycle.
func (c *TrainingCycle) Validate() ValidationResult[TrainingCycleData] {
	return ValidateTrainingCycleData(c.ToData())
}

// ValidateTrainingCycleData checks d without hydrating it.
func ValidateTrainingCycleData(d TrainingCycleData) ValidationResult[TrainingCycleData] {
	var found issues
	found.addStruct(d)
	if !d.StartDate.IsZero() && !d.EndDate.IsZero() && d.EndDate.Before(d.StartDate) {
		found.add("endDate", "invalid_date_range", "must not be before startDate")
	}
	return result(d, found)
}
