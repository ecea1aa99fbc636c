package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/phrazzld/liftplan/internal/idgen"
)

// SessionData is the plain form of a Session.
type SessionData struct {
	ID             string              `json:"id"                  yaml:"id"                  validate:"required"`
	ProfileID      string              `json:"profileId"           yaml:"profileId"           validate:"required"`
	Name           string              `json:"name"                yaml:"name"                validate:"required"`
	Groups         []ExerciseGroupData `json:"groups"              yaml:"groups"              validate:"dive"`
	Notes          *string             `json:"notes,omitempty"     yaml:"notes,omitempty"`
	ExecutionCount int                 `json:"executionCount"      yaml:"executionCount"      validate:"gte=0"`
	IsDeload       bool                `json:"isDeload"            yaml:"isDeload"`
	DayOfWeek      *DayOfWeek          `json:"dayOfWeek,omitempty" yaml:"dayOfWeek,omitempty" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	CreatedAt      time.Time           `json:"createdAt"           yaml:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"           yaml:"updatedAt"`
}

// Session is one workout: an ordered list of exercise groups.
type Session struct {
	id             string
	profileID      string
	name           string
	groups         []*ExerciseGroup
	notes          *string
	executionCount int
	isDeload       bool
	dayOfWeek      *DayOfWeek
	createdAt      time.Time
	updatedAt      time.Time
}

// HydrateSession builds a Session and its groups.
func HydrateSession(d SessionData) (*Session, error) {
	groups := make([]*ExerciseGroup, 0, len(d.Groups))
	for _, gd := range d.Groups {
		g, err := HydrateExerciseGroup(gd)
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", d.ID, err)
		}
		groups = append(groups, g)
	}
	return &Session{
		id:             d.ID,
		profileID:      d.ProfileID,
		name:           d.Name,
		groups:         groups,
		notes:          clonePtr(d.Notes),
		executionCount: d.ExecutionCount,
		isDeload:       d.IsDeload,
		dayOfWeek:      clonePtr(d.DayOfWeek),
		createdAt:      normalizeTime(d.CreatedAt),
		updatedAt:      normalizeTime(d.UpdatedAt),
	}, nil
}

// ToData returns the plain form, including every group.
func (s *Session) ToData() SessionData {
	groups := make([]ExerciseGroupData, len(s.groups))
	for i, g := range s.groups {
		groups[i] = g.ToData()
	}
	return SessionData{
		ID:             s.id,
		ProfileID:      s.profileID,
		Name:           s.name,
		Groups:         groups,
		Notes:          clonePtr(s.notes),
		ExecutionCount: s.executionCount,
		IsDeload:       s.isDeload,
		DayOfWeek:      clonePtr(s.dayOfWeek),
		CreatedAt:      s.createdAt,
		UpdatedAt:      s.updatedAt,
	}
}

func (s *Session) ID() string { return s.id }
func (s *Session) ProfileID() string { return s.profileID }
func (s *Session) Name() string { return s.name }
func (s *Session) Notes() *string { return clonePtr(s.notes) }
func (s *Session) ExecutionCount() int { return s.executionCount }
func (s *Session) IsDeload() bool { return s.isDeload }
func (s *Session) DayOfWeek() *DayOfWeek { return clonePtr(s.dayOfWeek) }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

// Groups returns the groups in order.
func (s *Session) Groups() []*ExerciseGroup {
	return append([]*ExerciseGroup(nil), s.groups...)
}

// GroupIDs returns the ids of the owned groups in order.
func (s *Session) GroupIDs() []string {
	ids := make([]string, len(s.groups))
	for i, g := range s.groups {
		ids[i] = g.id
	}
	return ids
}

// ScheduledOn reports whether the session is planned for day.
func (s *Session) ScheduledOn(day DayOfWeek) bool {
	return s.dayOfWeek != nil && *s.dayOfWeek == day
}

// TotalExerciseCount counts exercises across all groups.
func (s *Session) TotalExerciseCount() int {
	var n int
	for _, g := range s.groups {
		n += g.ExerciseCount()
	}
	return n
}

// TotalSets counts sets across all groups, rounds included.
func (s *Session) TotalSets() int {
	var n int
	for _, g := range s.groups {
		n += g.TotalSets()
	}
	return n
}

// EstimatedDurationSeconds sums the group estimates.
func (s *Session) EstimatedDurationSeconds(params *setconfig.DurationParams) float64 {
	var d float64
	for _, g := range s.groups {
		d += g.EstimatedDurationSeconds(params)
	}
	return d
}

// FindExerciseByID scans groups in order and returns the exercise with id
// together with the group that owns it.
func (s *Session) FindExerciseByID(id string) (*AppliedExercise, *ExerciseGroup, bool) {
	for _, g := range s.groups {
		if e, ok := g.FindExerciseByID(id); ok {
			return e, g, true
		}
	}
	return nil, nil, false
}

// FindGroupByID returns the owned group with id.
func (s *Session) FindGroupByID(id string) (*ExerciseGroup, bool) {
	if i := indexOf(s.groups, id); i >= 0 {
		return s.groups[i], true
	}
	return nil, false
}

// GenerateEmptySets returns the placeholders for the whole session, group by
// group in order.
func (s *Session) GenerateEmptySets(ids idgen.Generator, counter setconfig.CounterType) []setconfig.PerformedSet {
	var out []setconfig.PerformedSet
	for _, g := range s.groups {
		out = append(out, g.GenerateEmptySets(ids, counter)...)
	}
	return out
}

func (s *Session) clone() *Session {
	c := *s
	c.updatedAt = touch(s.updatedAt)
	return &c
}

// CloneWithName renames the session.
func (s *Session) CloneWithName(name string) *Session {
	c := s.clone()
	c.name = name
	return c
}

// CloneWithDayOfWeek reschedules the session; nil unschedules it.
func (s *Session) CloneWithDayOfWeek(day *DayOfWeek) *Session {
	c := s.clone()
	c.dayOfWeek = clonePtr(day)
	return c
}

// CloneWithNotes replaces the notes; nil clears them.
func (s *Session) CloneWithNotes(notes *string) *Session {
	c := s.clone()
	c.notes = clonePtr(notes)
	return c
}

// CloneWithToggledDeload flips the deload flag.
func (s *Session) CloneWithToggledDeload() *Session {
	c := s.clone()
	c.isDeload = !s.isDeload
	return c
}

// CloneWithIncrementedExecutionCount records one more completed execution.
func (s *Session) CloneWithIncrementedExecutionCount() *Session {
	c := s.clone()
	c.executionCount++
	return c
}

// CloneWithAddedGroup appends g.
func (s *Session) CloneWithAddedGroup(g *ExerciseGroup) (*Session, error) {
	groups, err := withAdded(s.groups, g)
	if err != nil {
		return nil, err
	}
	c := s.clone()
	c.groups = groups
	return c, nil
}

// CloneWithRemovedGroup drops the group with id.
func (s *Session) CloneWithRemovedGroup(id string) (*Session, error) {
	groups, err := withRemoved(s.groups, id)
	if err != nil {
		return nil, err
	}
	c := s.clone()
	c.groups = groups
	return c, nil
}

// CloneWithMovedGroup moves the group at position from to position to.
func (s *Session) CloneWithMovedGroup(from, to int) (*Session, error) {
	groups, err := withMoved(s.groups, from, to)
	if err != nil {
		return nil, err
	}
	c := s.clone()
	c.groups = groups
	return c, nil
}

// CloneWithReplacedGroup swaps in g for the owned group with the same id.
func (s *Session) CloneWithReplacedGroup(g *ExerciseGroup) (*Session, error) {
	groups, err := withReplaced(s.groups, g)
	if err != nil {
		return nil, err
	}
	c := s.clone()
	c.groups = groups
	return c, nil
}

// CloneWithRemovedExercise removes the exercise with id from whichever group
// owns it. Both the group and the session are replaced.
func (s *Session) CloneWithRemovedExercise(exerciseID string) (*Session, error) {
	_, owner, ok := s.FindExerciseByID(exerciseID)
	if !ok {
		return nil, fmt.Errorf("%w: exercise %s in session %s", ErrNotInAggregate, exerciseID, s.id)
	}
	g, err := owner.CloneWithRemovedExercise(exerciseID)
	if err != nil {
		return nil, err
	}
	return s.CloneWithReplacedGroup(g)
}

// Validate checks the session and everything it owns.
func (s *Session) Validate() ValidationResult[SessionData] {
	return ValidateSessionData(s.ToData())
}

// ValidateSessionData checks d without hydrating it.
func ValidateSessionData(d SessionData) ValidationResult[SessionData] {
	var found issues
	found.addStruct(d)
	checkSession(&found, "", d)
	checkGroupExerciseIDs(&found, "", d.Groups)
	return result(d, found)
}

func checkSession(found *issues, prefix string, d SessionData) {
	if d.Name != "" && strings.TrimSpace(d.Name) == "" {
		found.add(join(prefix, "name"), "required", "must not be blank")
	}
	ids := make([]string, len(d.Groups))
	for i, g := range d.Groups {
		ids[i] = g.ID
		path := indexed(prefix, "groups", i)
		checkProfile(found, path, d.ProfileID, g.ProfileID)
		checkExerciseGroup(found, path, g)
	}
	checkUniqueIDs(found, prefix, "groups", ids)
}
