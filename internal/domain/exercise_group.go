package domain

import (
	"fmt"
	"time"

	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/phrazzld/liftplan/internal/idgen"
)

// ExerciseGroupData is the plain form of an ExerciseGroup.
type ExerciseGroupData struct {
	ID               string                `json:"id"                        yaml:"id"                        validate:"required"`
	ProfileID        string                `json:"profileId"                 yaml:"profileId"                 validate:"required"`
	Type             GroupType             `json:"type"                      yaml:"type"                      validate:"required,oneof=single superset circuit emom amrap warmup stretching"`
	AppliedExercises []AppliedExerciseData `json:"appliedExercises"          yaml:"appliedExercises"          validate:"dive"`
	Rounds           *setconfig.Range      `json:"rounds,omitempty"          yaml:"rounds,omitempty"`
	DurationMinutes  *int                  `json:"durationMinutes,omitempty" yaml:"durationMinutes,omitempty" validate:"omitnil,gt=0"`
	RestTimeSeconds  *int                  `json:"restTimeSeconds,omitempty" yaml:"restTimeSeconds,omitempty" validate:"omitempty,gte=0"`
	CreatedAt        time.Time             `json:"createdAt"                 yaml:"createdAt"`
	UpdatedAt        time.Time             `json:"updatedAt"                 yaml:"updatedAt"`
}

// ExerciseGroup is an ordered set of applied exercises performed together:
// alone, as a superset, or as a circuit-style block run for rounds.
type ExerciseGroup struct {
	id               string
	profileID        string
	groupType        GroupType
	appliedExercises []*AppliedExercise
	rounds           *setconfig.Range
	durationMinutes  *int
	restTimeSeconds  *int
	createdAt        time.Time
	updatedAt        time.Time
}

// HydrateExerciseGroup builds an ExerciseGroup and its exercises.
func HydrateExerciseGroup(d ExerciseGroupData) (*ExerciseGroup, error) {
	exercises := make([]*AppliedExercise, 0, len(d.AppliedExercises))
	for _, ed := range d.AppliedExercises {
		e, err := HydrateAppliedExercise(ed)
		if err != nil {
			return nil, fmt.Errorf("exercise group %s: %w", d.ID, err)
		}
		exercises = append(exercises, e)
	}
	var rounds *setconfig.Range
	if d.Rounds != nil {
		r := d.Rounds.Clone()
		rounds = &r
	}
	return &ExerciseGroup{
		id:               d.ID,
		profileID:        d.ProfileID,
		groupType:        d.Type,
		appliedExercises: exercises,
		rounds:           rounds,
		durationMinutes:  clonePtr(d.DurationMinutes),
		restTimeSeconds:  clonePtr(d.RestTimeSeconds),
		createdAt:        normalizeTime(d.CreatedAt),
		updatedAt:        normalizeTime(d.UpdatedAt),
	}, nil
}

// ToData returns the plain form, including every exercise.
func (g *ExerciseGroup) ToData() ExerciseGroupData {
	exercises := make([]AppliedExerciseData, len(g.appliedExercises))
	for i, e := range g.appliedExercises {
		exercises[i] = e.ToData()
	}
	return ExerciseGroupData{
		ID:               g.id,
		ProfileID:        g.profileID,
		Type:             g.groupType,
		AppliedExercises: exercises,
		Rounds:           g.Rounds(),
		DurationMinutes:  clonePtr(g.durationMinutes),
		RestTimeSeconds:  clonePtr(g.restTimeSeconds),
		CreatedAt:        g.createdAt,
		UpdatedAt:        g.updatedAt,
	}
}

func (g *ExerciseGroup) ID() string { return g.id }
func (g *ExerciseGroup) ProfileID() string { return g.profileID }
func (g *ExerciseGroup) Type() GroupType { return g.groupType }
func (g *ExerciseGroup) DurationMinutes() *int { return clonePtr(g.durationMinutes) }
func (g *ExerciseGroup) RestTimeSeconds() *int { return clonePtr(g.restTimeSeconds) }
func (g *ExerciseGroup) CreatedAt() time.Time { return g.createdAt }
func (g *ExerciseGroup) UpdatedAt() time.Time { return g.updatedAt }

// Rounds returns a copy of the rounds range, if any.
func (g *ExerciseGroup) Rounds() *setconfig.Range {
	if g.rounds == nil {
		return nil
	}
	r := g.rounds.Clone()
	return &r
}

// AppliedExercises returns the exercises in order. The slice is a copy; the
// exercises themselves are immutable.
func (g *ExerciseGroup) AppliedExercises() []*AppliedExercise {
	return append([]*AppliedExercise(nil), g.appliedExercises...)
}

// ExerciseIDs returns the ids of the owned exercises in order.
func (g *ExerciseGroup) ExerciseIDs() []string {
	ids := make([]string, len(g.appliedExercises))
	for i, e := range g.appliedExercises {
		ids[i] = e.id
	}
	return ids
}

// ExerciseCount is the number of exercises in the group.
func (g *ExerciseGroup) ExerciseCount() int {
	return len(g.appliedExercises)
}

// MaxRounds bounds rounds.min of a group.
const MaxRounds = 100

// roundCount is rounds.min capped at MaxRounds, or 1 when the group is not
// round-based.
func (g *ExerciseGroup) roundCount() int {
	if g.rounds == nil || !(g.rounds.Min >= 1) {
		return 1
	}
	if g.rounds.Min > MaxRounds {
		return MaxRounds
	}
	return int(g.rounds.Min)
}

// TotalSets is the sets of one pass through the exercises times the rounds.
func (g *ExerciseGroup) TotalSets() int {
	var perRound int
	for _, e := range g.appliedExercises {
		perRound += e.TotalSets()
	}
	return perRound * g.roundCount()
}

// EstimatedDurationSeconds is the fixed block length for EMOM and AMRAP
// groups. Otherwise it is one pass through the exercises per round plus the
// rest between rounds.
func (g *ExerciseGroup) EstimatedDurationSeconds(params *setconfig.DurationParams) float64 {
	if g.groupType.Timed() && g.durationMinutes != nil {
		return float64(*g.durationMinutes * 60)
	}
	var pass float64
	for _, e := range g.appliedExercises {
		pass += e.EstimatedDurationSeconds(params)
	}
	rounds := g.roundCount()
	total := pass * float64(rounds)
	if g.restTimeSeconds != nil && rounds > 1 {
		total += float64(*g.restTimeSeconds * (rounds - 1))
	}
	return total
}

// FindExerciseByID returns the owned exercise with id.
func (g *ExerciseGroup) FindExerciseByID(id string) (*AppliedExercise, bool) {
	if i := indexOf(g.appliedExercises, id); i >= 0 {
		return g.appliedExercises[i], true
	}
	return nil, false
}

// GenerateEmptySets returns placeholders for every round of every exercise.
func (g *ExerciseGroup) GenerateEmptySets(ids idgen.Generator, counter setconfig.CounterType) []setconfig.PerformedSet {
	var out []setconfig.PerformedSet
	for r := 0; r < g.roundCount(); r++ {
		for _, e := range g.appliedExercises {
			out = append(out, e.GenerateEmptySets(ids, counter)...)
		}
	}
	return out
}

func (g *ExerciseGroup) clone() *ExerciseGroup {
	c := *g
	c.updatedAt = touch(g.updatedAt)
	return &c
}

// CloneWithType returns a copy with a different group type.
func (g *ExerciseGroup) CloneWithType(t GroupType) *ExerciseGroup {
	c := g.clone()
	c.groupType = t
	return c
}

// CloneWithRounds returns a copy with the rounds range replaced; nil clears it.
func (g *ExerciseGroup) CloneWithRounds(rounds *setconfig.Range) *ExerciseGroup {
	c := g.clone()
	c.rounds = nil
	if rounds != nil {
		r := rounds.Clone()
		c.rounds = &r
	}
	return c
}

// CloneWithDuration returns a copy with the block length replaced; nil clears it.
func (g *ExerciseGroup) CloneWithDuration(minutes *int) *ExerciseGroup {
	c := g.clone()
	c.durationMinutes = clonePtr(minutes)
	return c
}

// CloneWithRestTime returns a copy with the rest between rounds replaced.
func (g *ExerciseGroup) CloneWithRestTime(seconds *int) *ExerciseGroup {
	c := g.clone()
	c.restTimeSeconds = clonePtr(seconds)
	return c
}

// CloneWithAddedExercise appends e.
func (g *ExerciseGroup) CloneWithAddedExercise(e *AppliedExercise) (*ExerciseGroup, error) {
	exercises, err := withAdded(g.appliedExercises, e)
	if err != nil {
		return nil, err
	}
	c := g.clone()
	c.appliedExercises = exercises
	return c, nil
}

// CloneWithRemovedExercise drops the exercise with id.
func (g *ExerciseGroup) CloneWithRemovedExercise(id string) (*ExerciseGroup, error) {
	exercises, err := withRemoved(g.appliedExercises, id)
	if err != nil {
		return nil, err
	}
	c := g.clone()
	c.appliedExercises = exercises
	return c, nil
}

// CloneWithMovedExercise moves the exercise at position from to position to.
func (g *ExerciseGroup) CloneWithMovedExercise(from, to int) (*ExerciseGroup, error) {
	exercises, err := withMoved(g.appliedExercises, from, to)
	if err != nil {
		return nil, err
	}
	c := g.clone()
	c.appliedExercises = exercises
	return c, nil
}

// CloneWithReplacedExercise swaps in e for the owned exercise with the same id.
func (g *ExerciseGroup) CloneWithReplacedExercise(e *AppliedExercise) (*ExerciseGroup, error) {
	exercises, err := withReplaced(g.appliedExercises, e)
	if err != nil {
		return nil, err
	}
	c := g.clone()
	c.appliedExercises = exercises
	return c, nil
}

// Validate checks the group and every exercise in it.
func (g *ExerciseGroup) Validate() ValidationResult[ExerciseGroupData] {
	return ValidateExerciseGroupData(g.ToData())
}

// ValidateExerciseGroupData checks d without hydrating it.
func ValidateExerciseGroupData(d ExerciseGroupData) ValidationResult[ExerciseGroupData] {
	var found issues
	found.addStruct(d)
	checkExerciseGroup(&found, "", d)
	return result(d, found)
}

func checkExerciseGroup(found *issues, prefix string, d ExerciseGroupData) {
	n := len(d.AppliedExercises)
	switch d.Type {
	case GroupSingle:
		if n > 1 {
			found.add(join(prefix, "appliedExercises"), "too_big", "a single group holds at most one exercise, got %d", n)
		}
	case GroupSuperset:
		if n != 2 {
			found.add(join(prefix, "appliedExercises"), "invalid_length", "a superset holds exactly two exercises, got %d", n)
		}
	}
	if d.Type.RequiresRounds() && d.Rounds == nil {
		found.add(join(prefix, "rounds"), "required", "is required for %s groups", d.Type)
	}
	if d.Rounds != nil && d.Rounds.Min < 1 {
		found.add(join(prefix, "rounds.min"), "too_small", "at least one round is required")
	}
	if d.Rounds != nil && d.Rounds.Min > MaxRounds {
		found.add(join(prefix, "rounds.min"), "too_big", "at most %d rounds are allowed", MaxRounds)
	}
	if d.Type.Timed() && d.DurationMinutes == nil {
		found.add(join(prefix, "durationMinutes"), "required", "is required for %s groups", d.Type)
	}

	ids := make([]string, n)
	for i, e := range d.AppliedExercises {
		ids[i] = e.ID
		path := indexed(prefix, "appliedExercises", i)
		checkProfile(found, path, d.ProfileID, e.ProfileID)
		checkAppliedExercise(found, path, e)
	}
	checkUniqueIDs(found, prefix, "appliedExercises", ids)
}
