package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the plan and cycle endpoints on r. Authentication
// is the caller's concern.
func RegisterRoutes(r chi.Router, plans *PlanHandler, cycles *CycleHandler) {
	r.Route("/plans", func(r chi.Router) {
		r.Get("/", plans.ListPlans)
		r.Post("/", plans.CreatePlan)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", plans.GetPlan)
			r.Put("/", plans.UpdatePlan)
			r.Delete("/", plans.DeletePlan)
			r.Post("/archive", plans.ArchivePlan)
			r.Post("/restore", plans.RestorePlan)
			r.Post("/advance", plans.AdvancePlan)
			r.Put("/cycle", plans.AssignCycle)
			r.Post("/start", plans.StartSession)
			r.Post("/sessions/{sessionID}/start", plans.StartSession)
		})
	})

	r.Route("/cycles", func(r chi.Router) {
		r.Get("/", cycles.ListCycles)
		r.Post("/", cycles.CreateCycle)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", cycles.GetCycle)
			r.Put("/", cycles.UpdateCycle)
			r.Delete("/", cycles.DeleteCycle)
			r.Get("/summary", cycles.CycleSummary)
		})
	})
}
