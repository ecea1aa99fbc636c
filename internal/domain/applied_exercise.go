package domain

import (
	"fmt"
	"time"

	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/phrazzld/liftplan/internal/idgen"
)

// AppliedExerciseData is the plain form of an AppliedExercise.
type AppliedExerciseData struct {
	ID               string         `json:"id"                        yaml:"id"                        validate:"required"`
	ProfileID        string         `json:"profileId"                 yaml:"profileId"                 validate:"required"`
	ExerciseID       string         `json:"exerciseId"                yaml:"exerciseId"                validate:"required"`
	TemplateID       *string        `json:"templateId,omitempty"      yaml:"templateId,omitempty"`
	SetConfiguration setconfig.Data `json:"setConfiguration"          yaml:"setConfiguration"`
	RestTimeSeconds  *int           `json:"restTimeSeconds,omitempty" yaml:"restTimeSeconds,omitempty" validate:"omitempty,gte=0"`
	ExecutionCount   int            `json:"executionCount"            yaml:"executionCount"            validate:"gte=0"`
	CreatedAt        time.Time      `json:"createdAt"                 yaml:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"                 yaml:"updatedAt"`
}

// AppliedExercise is one exercise placed in a group, with its set
// configuration. It is owned by exactly one ExerciseGroup.
type AppliedExercise struct {
	id               string
	profileID        string
	exerciseID       string
	templateID       *string
	setConfiguration setconfig.SetConfiguration
	restTimeSeconds  *int
	executionCount   int
	createdAt        time.Time
	updatedAt        time.Time
}

// HydrateAppliedExercise builds an AppliedExercise from its plain form.
func HydrateAppliedExercise(d AppliedExerciseData) (*AppliedExercise, error) {
	cfg, err := setconfig.Hydrate(d.SetConfiguration)
	if err != nil {
		return nil, fmt.Errorf("applied exercise %s: %w", d.ID, err)
	}
	return &AppliedExercise{
		id:               d.ID,
		profileID:        d.ProfileID,
		exerciseID:       d.ExerciseID,
		templateID:       clonePtr(d.TemplateID),
		setConfiguration: cfg,
		restTimeSeconds:  clonePtr(d.RestTimeSeconds),
		executionCount:   d.ExecutionCount,
		createdAt:        normalizeTime(d.CreatedAt),
		updatedAt:        normalizeTime(d.UpdatedAt),
	}, nil
}

// ToData returns the plain form.
func (e *AppliedExercise) ToData() AppliedExerciseData {
	return AppliedExerciseData{
		ID:               e.id,
		ProfileID:        e.profileID,
		ExerciseID:       e.exerciseID,
		TemplateID:       clonePtr(e.templateID),
		SetConfiguration: e.setConfiguration.ToData(),
		RestTimeSeconds:  clonePtr(e.restTimeSeconds),
		ExecutionCount:   e.executionCount,
		CreatedAt:        e.createdAt,
		UpdatedAt:        e.updatedAt,
	}
}

func (e *AppliedExercise) ID() string { return e.id }
func (e *AppliedExercise) ProfileID() string { return e.profileID }
func (e *AppliedExercise) ExerciseID() string { return e.exerciseID }
func (e *AppliedExercise) TemplateID() *string { return clonePtr(e.templateID) }
func (e *AppliedExercise) RestTimeSeconds() *int { return clonePtr(e.restTimeSeconds) }
func (e *AppliedExercise) ExecutionCount() int { return e.executionCount }
func (e *AppliedExercise) CreatedAt() time.Time { return e.createdAt }
func (e *AppliedExercise) UpdatedAt() time.Time { return e.updatedAt }
func (e *AppliedExercise) SetConfiguration() setconfig.SetConfiguration {
	return e.setConfiguration.Clone()
}

// TotalSets is the number of sets the configuration generates.
func (e *AppliedExercise) TotalSets() int {
	return e.setConfiguration.TotalSets()
}

// Summary describes the set configuration.
func (e *AppliedExercise) Summary() string {
	return e.setConfiguration.Summary()
}

// EstimatedDurationSeconds is the set configuration's estimate plus the rest
// taken between consecutive sets.
func (e *AppliedExercise) EstimatedDurationSeconds(params *setconfig.DurationParams) float64 {
	d := e.setConfiguration.EstimatedDurationSeconds(params)
	if e.restTimeSeconds != nil && e.TotalSets() > 1 {
		d += float64(*e.restTimeSeconds * (e.TotalSets() - 1))
	}
	return d
}

// GenerateEmptySets returns the placeholders for one pass through this exercise.
func (e *AppliedExercise) GenerateEmptySets(ids idgen.Generator, counter setconfig.CounterType) []setconfig.PerformedSet {
	sets := e.setConfiguration.GenerateEmptySets(ids, e.profileID, counter)
	for i := range sets {
		sets[i].AppliedExerciseID = e.id
	}
	return sets
}

func (e *AppliedExercise) clone() *AppliedExercise {
	c := *e
	c.updatedAt = touch(e.updatedAt)
	return &c
}

// CloneWithSetConfiguration returns a copy using cfg.
func (e *AppliedExercise) CloneWithSetConfiguration(cfg setconfig.SetConfiguration) *AppliedExercise {
	c := e.clone()
	c.setConfiguration = cfg.Clone()
	return c
}

// CloneWithRestTime returns a copy with the rest between sets replaced; nil clears it.
func (e *AppliedExercise) CloneWithRestTime(seconds *int) *AppliedExercise {
	c := e.clone()
	c.restTimeSeconds = clonePtr(seconds)
	return c
}

// CloneWithIncrementedExecutionCount returns a copy recording one more completed execution.
func (e *AppliedExercise) CloneWithIncrementedExecutionCount() *AppliedExercise {
	c := e.clone()
	c.executionCount++
	return c
}

// Validate checks the exercise's plain form.
func (e *AppliedExercise) Validate() ValidationResult[AppliedExerciseData] {
	return ValidateAppliedExerciseData(e.ToData())
}

// ValidateAppliedExerciseData checks d without hydrating it.
func ValidateAppliedExerciseData(d AppliedExerciseData) ValidationResult[AppliedExerciseData] {
	var found issues
	found.addStruct(d)
	checkAppliedExercise(&found, "", d)
	return result(d, found)
}

func checkAppliedExercise(found *issues, prefix string, d AppliedExerciseData) {
	found.addSetConfiguration(join(prefix, "setConfiguration"), d.SetConfiguration)
}
