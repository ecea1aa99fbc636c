package domain

import (
	"fmt"
	"time"

	"github.com/phrazzld/liftplan/internal/domain/setconfig"
)

// TrainingPlanData is the plain form of a TrainingPlan.
type TrainingPlanData struct {
	ID                  string        `json:"id"                  yaml:"id"                  validate:"required"`
	ProfileID           string        `json:"profileId"           yaml:"profileId"           validate:"required"`
	Name                string        `json:"name"                yaml:"name"                validate:"required"`
	Sessions            []SessionData `json:"sessions"            yaml:"sessions"            validate:"dive"`
	IsArchived          bool          `json:"isArchived"          yaml:"isArchived"`
	CurrentSessionIndex int           `json:"currentSessionIndex" yaml:"currentSessionIndex" validate:"gte=0"`
	CycleID             *string       `json:"cycleId,omitempty"   yaml:"cycleId,omitempty"`
	Order               *int          `json:"order,omitempty"     yaml:"order,omitempty"`
	Notes               *string       `json:"notes,omitempty"     yaml:"notes,omitempty"`
	LastUsed            *time.Time    `json:"lastUsed,omitempty"  yaml:"lastUsed,omitempty"`
	CreatedAt           time.Time     `json:"createdAt"           yaml:"createdAt"`
	UpdatedAt           time.Time     `json:"updatedAt"           yaml:"updatedAt"`
}

// TrainingPlan is an ordered rotation of sessions. It may belong to a
// TrainingCycle through CycleID, which is a lookup key only.
type TrainingPlan struct {
	id                  string
	profileID           string
	name                string
	sessions            []*Session
	isArchived          bool
	currentSessionIndex int
	cycleID             *string
	order               *int
	notes               *string
	lastUsed            *time.Time
	createdAt           time.Time
	updatedAt           time.Time
}

// HydrateTrainingPlan builds a TrainingPlan and everything it owns.
func HydrateTrainingPlan(d TrainingPlanData) (*TrainingPlan, error) {
	sessions := make([]*Session, 0, len(d.Sessions))
	for _, sd := range d.Sessions {
		s, err := HydrateSession(sd)
		if err != nil {
			return nil, fmt.Errorf("training plan %s: %w", d.ID, err)
		}
		sessions = append(sessions, s)
	}
	return &TrainingPlan{
		id:                  d.ID,
		profileID:           d.ProfileID,
		name:                d.Name,
		sessions:            sessions,
		isArchived:          d.IsArchived,
		currentSessionIndex: d.CurrentSessionIndex,
		cycleID:             clonePtr(d.CycleID),
		order:               clonePtr(d.Order),
		notes:               clonePtr(d.Notes),
		lastUsed:            normalizeTimePtr(d.LastUsed),
		createdAt:           normalizeTime(d.CreatedAt),
		updatedAt:           normalizeTime(d.UpdatedAt),
	}, nil
}

// ToData returns the plain form, including every session.
func (p *TrainingPlan) ToData() TrainingPlanData {
	sessions := make([]SessionData, len(p.sessions))
	for i, s := range p.sessions {
		sessions[i] = s.ToData()
	}
	return TrainingPlanData{
		ID:                  p.id,
		ProfileID:           p.profileID,
		Name:                p.name,
		Sessions:            sessions,
		IsArchived:          p.isArchived,
		CurrentSessionIndex: p.currentSessionIndex,
		CycleID:             clonePtr(p.cycleID),
		Order:               clonePtr(p.order),
		Notes:               clonePtr(p.notes),
		LastUsed:            clonePtr(p.lastUsed),
		CreatedAt:           p.createdAt,
		UpdatedAt:           p.updatedAt,
	}
}

func (p *TrainingPlan) ID() string { return p.id }
func (p *TrainingPlan) ProfileID() string { return p.profileID }
func (p *TrainingPlan) Name() string { return p.name }
func (p *TrainingPlan) IsArchived() bool { return p.isArchived }
func (p *TrainingPlan) CurrentSessionIndex() int { return p.currentSessionIndex }
func (p *TrainingPlan) CycleID() *string { return clonePtr(p.cycleID) }
func (p *TrainingPlan) Order() *int { return clonePtr(p.order) }
func (p *TrainingPlan) Notes() *string { return clonePtr(p.notes) }
func (p *TrainingPlan) LastUsed() *time.Time { return clonePtr(p.lastUsed) }
func (p *TrainingPlan) CreatedAt() time.Time { return p.createdAt }
func (p *TrainingPlan) UpdatedAt() time.Time { return p.updatedAt }

// Sessions returns the sessions in order.
func (p *TrainingPlan) Sessions() []*Session {
	return append([]*Session(nil), p.sessions...)
}

// SessionIDs returns the ids of the owned sessions in order.
func (p *TrainingPlan) SessionIDs() []string {
	ids := make([]string, len(p.sessions))
	for i, s := range p.sessions {
		ids[i] = s.id
	}
	return ids
}

// InCycle reports whether the plan references cycleID.
func (p *TrainingPlan) InCycle(cycleID string) bool {
	return p.cycleID != nil && *p.cycleID == cycleID
}

// SessionCount is the number of sessions in the rotation.
func (p *TrainingPlan) SessionCount() int {
	return len(p.sessions)
}

// CurrentSession returns the session at the current index.
func (p *TrainingPlan) CurrentSession() (*Session, bool) {
	if p.currentSessionIndex < 0 || p.currentSessionIndex >= len(p.sessions) {
		return nil, false
	}
	return p.sessions[p.currentSessionIndex], true
}

// TotalExerciseCount counts exercises across all sessions.
func (p *TrainingPlan) TotalExerciseCount() int {
	var n int
	for _, s := range p.sessions {
		n += s.TotalExerciseCount()
	}
	return n
}

// EstimatedWeeklyDurationSeconds sums every session once, treating the
// rotation as one training week.
func (p *TrainingPlan) EstimatedWeeklyDurationSeconds(params *setconfig.DurationParams) float64 {
	var d float64
	for _, s := range p.sessions {
		d += s.EstimatedDurationSeconds(params)
	}
	return d
}

// FindSessionByID returns the owned session with id.
func (p *TrainingPlan) FindSessionByID(id string) (*Session, bool) {
	if i := indexOf(p.sessions, id); i >= 0 {
		return p.sessions[i], true
	}
	return nil, false
}

// FindExerciseByID searches every session for the exercise with id.
func (p *TrainingPlan) FindExerciseByID(id string) (*AppliedExercise, *Session, bool) {
	for _, s := range p.sessions {
		if e, _, ok := s.FindExerciseByID(id); ok {
			return e, s, true
		}
	}
	return nil, nil, false
}

func (p *TrainingPlan) clone() *TrainingPlan {
	c := *p
	c.updatedAt = touch(p.updatedAt)
	return &c
}

// CloneWithName renames the plan.
func (p *TrainingPlan) CloneWithName(name string) *TrainingPlan {
	c := p.clone()
	c.name = name
	return c
}

// CloneWithNotes replaces the notes; nil clears them.
func (p *TrainingPlan) CloneWithNotes(notes *string) *TrainingPlan {
	c := p.clone()
	c.notes = clonePtr(notes)
	return c
}

// CloneWithOrder replaces the display order; nil clears it.
func (p *TrainingPlan) CloneWithOrder(order *int) *TrainingPlan {
	c := p.clone()
	c.order = clonePtr(order)
	return c
}

// CloneWithArchived sets the archived flag.
func (p *TrainingPlan) CloneWithArchived(archived bool) *TrainingPlan {
	c := p.clone()
	c.isArchived = archived
	return c
}

// CloneWithCycleID attaches the plan to a cycle; nil detaches it.
func (p *TrainingPlan) CloneWithCycleID(cycleID *string) *TrainingPlan {
	c := p.clone()
	c.cycleID = clonePtr(cycleID)
	return c
}

// CloneWithAdvancedSession moves to the next session, wrapping around at the
// end of the rotation, and records at as the last use.
func (p *TrainingPlan) CloneWithAdvancedSession(at time.Time) *TrainingPlan {
	c := p.clone()
	if n := len(p.sessions); n > 0 {
		c.currentSessionIndex = (p.currentSessionIndex + 1) % n
	}
	used := normalizeTime(at)
	c.lastUsed = &used
	return c
}

// CloneWithAddedSession appends s.
func (p *TrainingPlan) CloneWithAddedSession(s *Session) (*TrainingPlan, error) {
	sessions, err := withAdded(p.sessions, s)
	if err != nil {
		return nil, err
	}
	c := p.clone()
	c.sessions = sessions
	return c, nil
}

// CloneWithRemovedSession drops the session with id. The current index is
// pulled back so it keeps pointing at a session.
func (p *TrainingPlan) CloneWithRemovedSession(id string) (*TrainingPlan, error) {
	removedAt := indexOf(p.sessions, id)
	sessions, err := withRemoved(p.sessions, id)
	if err != nil {
		return nil, err
	}
	c := p.clone()
	c.sessions = sessions
	if removedAt < c.currentSessionIndex {
		c.currentSessionIndex--
	}
	if c.currentSessionIndex >= len(sessions) {
		c.currentSessionIndex = 0
	}
	return c, nil
}

// CloneWithMovedSession moves the session at position from to position to.
func (p *TrainingPlan) CloneWithMovedSession(from, to int) (*TrainingPlan, error) {
	sessions, err := withMoved(p.sessions, from, to)
	if err != nil {
		return nil, err
	}
	c := p.clone()
	c.sessions = sessions
	return c, nil
}

// CloneWithReplacedSession swaps in s for the owned session with the same id.
func (p *TrainingPlan) CloneWithReplacedSession(s *Session) (*TrainingPlan, error) {
	sessions, err := withReplaced(p.sessions, s)
	if err != nil {
		return nil, err
	}
	c := p.clone()
	c.sessions = sessions
	return c, nil
}

// CloneWithRemovedExercise removes the exercise with id from whichever
// session and group own it, replacing each node on the path.
func (p *TrainingPlan) CloneWithRemovedExercise(exerciseID string) (*TrainingPlan, error) {
	_, owner, ok := p.FindExerciseByID(exerciseID)
	if !ok {
		return nil, fmt.Errorf("%w: exercise %s in plan %s", ErrNotInAggregate, exerciseID, p.id)
	}
	s, err := owner.CloneWithRemovedExercise(exerciseID)
	if err != nil {
		return nil, err
	}
	return p.CloneWithReplacedSession(s)
}

// Validate checks the plan and everything it owns.
func (p *TrainingPlan) Validate() ValidationResult[TrainingPlanData] {
	return ValidateTrainingPlanData(p.ToData())
}

// ValidateTrainingPlanData checks d without hydrating it.
func ValidateTrainingPlanData(d TrainingPlanData) ValidationResult[TrainingPlanData] {
	var found issues
	found.addStruct(d)
	checkTrainingPlan(&found, "", d)
	return result(d, found)
}

func checkTrainingPlan(found *issues, prefix string, d TrainingPlanData) {
	if n := len(d.Sessions); d.CurrentSessionIndex > 0 && d.CurrentSessionIndex >= n {
		found.add(join(prefix, "currentSessionIndex"), "too_big", "must be below the session count %d", n)
	}
	if d.CycleID != nil && *d.CycleID == "" {
		found.add(join(prefix, "cycleId"), "invalid", "must be omitted rather than empty")
	}
	ids := make([]string, len(d.Sessions))
	for i, s := range d.Sessions {
		ids[i] = s.ID
		path := indexed(prefix, "sessions", i)
		checkProfile(found, path, d.ProfileID, s.ProfileID)
		checkSession(found, path, s)
	}
	checkUniqueIDs(found, prefix, "sessions", ids)
	checkTreeIDs(found, prefix, d.Sessions)
}
