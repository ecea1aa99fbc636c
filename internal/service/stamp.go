package service

import (
	"time"

	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/idgen"
)

// stamper fills ids, ownership and timestamps on incoming data before it is
// validated.
type stamper struct {
	ids       idgen.Generator
	profileID string
	now       time.Time
	// creation times of rows that already exist, keyed by id
	created map[string]time.Time
}

func (s stamper) stamp(id, profileID *string, createdAt, updatedAt *time.Time) {
	if *id == "" {
		*id = s.ids.NewID()
	}
	*profileID = s.profileID
	if c, ok := s.created[*id]; ok {
		*createdAt = c
	} else if createdAt.IsZero() {
		*createdAt = s.now
	}
	*updatedAt = s.now
}

func (s stamper) plan(d *domain.TrainingPlanData) {
	s.stamp(&d.ID, &d.ProfileID, &d.CreatedAt, &d.UpdatedAt)
	for i := range d.Sessions {
		sd := &d.Sessions[i]
		s.stamp(&sd.ID, &sd.ProfileID, &sd.CreatedAt, &sd.UpdatedAt)
		for j := range sd.Groups {
			gd := &sd.Groups[j]
			s.stamp(&gd.ID, &gd.ProfileID, &gd.CreatedAt, &gd.UpdatedAt)
			for k := range gd.AppliedExercises {
				ed := &gd.AppliedExercises[k]
				s.stamp(&ed.ID, &ed.ProfileID, &ed.CreatedAt, &ed.UpdatedAt)
			}
		}
	}
}

func (s stamper) cycle(d *domain.TrainingCycleData) {
	s.stamp(&d.ID, &d.ProfileID, &d.CreatedAt, &d.UpdatedAt)
}

// planTree lists the ids of every entity a plan owns, level by level.
type planTree struct {
	sessions  []string
	groups    []string
	exercises []string
}

func treeOf(d domain.TrainingPlanData) planTree {
	var t planTree
	for _, sd := range d.Sessions {
		t.sessions = append(t.sessions, sd.ID)
		for _, gd := range sd.Groups {
			t.groups = append(t.groups, gd.ID)
			for _, ed := range gd.AppliedExercises {
				t.exercises = append(t.exercises, ed.ID)
			}
		}
	}
	return t
}

// createdTimes maps every id in the plan's tree to its creation time.
func createdTimes(d domain.TrainingPlanData) map[string]time.Time {
	out := map[string]time.Time{d.ID: d.CreatedAt}
	for _, sd := range d.Sessions {
		out[sd.ID] = sd.CreatedAt
		for _, gd := range sd.Groups {
			out[gd.ID] = gd.CreatedAt
			for _, ed := range gd.AppliedExercises {
				out[ed.ID] = ed.CreatedAt
			}
		}
	}
	return out
}

// without returns the ids of before that are not in after, in order.
func without(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, id := range after {
		keep[id] = struct{}{}
	}
	var out []string
	for _, id := range before {
		if _, ok := keep[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
