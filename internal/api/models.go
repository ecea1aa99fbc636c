package api

import (
	"github.com/phrazzld/liftplan/internal/domain"
	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/phrazzld/liftplan/internal/service"
)

// Plans and cycles are written and returned in their serialized data form;
// the types below cover everything else the routes exchange.

// PlanListResponse is the body of GET /plans.
type PlanListResponse struct {
	Plans []domain.TrainingPlanData `json:"plans"`
}

// CycleListResponse is the body of GET /cycles.
type CycleListResponse struct {
	Cycles []domain.TrainingCycleData `json:"cycles"`
}

// AssignCycleRequest defines the payload for PUT /plans/{id}/cycle.
// A null or missing cycleId detaches the plan.
type AssignCycleRequest struct {
	CycleID *string `json:"cycleId" validate:"omitnil,min=1"`
}

// StartSessionResponse carries the empty sets generated for a session.
type StartSessionResponse struct {
	PlanID    string                   `json:"planId"`
	SessionID string                   `json:"sessionId,omitempty"`
	Sets      []setconfig.PerformedSet `json:"sets"`
}

// CycleSummaryResponse is the body of GET /cycles/{id}/summary.
type CycleSummaryResponse struct {
	Cycle                  domain.TrainingCycleData  `json:"cycle"`
	Plans                  []domain.TrainingPlanData `json:"plans"`
	TotalSessions          int                       `json:"totalSessions"`
	WeeklySessionFrequency float64                   `json:"weeklySessionFrequency"`
	DurationWeeks          int                       `json:"durationWeeks"`
	Active                 bool                      `json:"active"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func plansToData(plans []*domain.TrainingPlan) []domain.TrainingPlanData {
	out := make([]domain.TrainingPlanData, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.ToData())
	}
	return out
}

func cyclesToData(cycles []*domain.TrainingCycle) []domain.TrainingCycleData {
	out := make([]domain.TrainingCycleData, 0, len(cycles))
	for _, c := range cycles {
		out = append(out, c.ToData())
	}
	return out
}

func summaryToResponse(s *service.CycleSummary) CycleSummaryResponse {
	return CycleSummaryResponse{
		Cycle:                  s.Cycle.ToData(),
		Plans:                  plansToData(s.Plans),
		TotalSessions:          s.TotalSessions,
		WeeklySessionFrequency: s.WeeklySessionFrequency,
		DurationWeeks:          s.DurationWeeks,
		Active:                 s.Active,
	}
}
