package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(h *Handler, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Case team load / leave.
	r.Post("/case/{code}", h.LoadCase)
	r.Delete("/case", h.LeaveCase)

	// Supervisee CRUD.
	r.Get("/supervisees", h.ListSupervisees)
	r.Post("/supervisees", h.CreateSupervisee)
	r.Get("/supervisees/{id}", h.GetSupervisee)
	r.Put("/supervisees/{id}", h.UpdateSupervisee)
	r.Delete("/supervisees/{id}", h.DeleteSupervisee)

	// Notes.
	r.Post("/supervisees/{id}/notes", h.AddNote)
	r.Put("/supervisees/{id}/notes/{noteID}", h.UpdateNote)
	r.Delete("/supervisees/{id}/notes/{noteID}", h.DeleteNote)

	// Documents.
	r.Post("/supervisees/{id}/documents", h.AddDocument)
	r.Delete("/supervisees/{id}/documents/{docID}", h.DeleteDocument)

	// Per-supervisee nudge schedule.
	r.Get("/supervisees/{id}/schedule", h.GetSchedule)
	r.Put("/supervisees/{id}/schedule", h.UpdateSchedule)

	// Nudge triggers and lifecycle.
	r.Post("/supervisees/{id}/nudges/reflection", h.TriggerReflection)
	r.Post("/supervisees/{id}/nudges/coaching", h.TriggerCoaching)
	r.Get("/nudges", h.ListNudges)
	r.Get("/nudges/active", h.GetActiveNudge)
	r.Post("/nudges/{id}/complete", h.CompleteNudge)
	r.Post("/nudges/{id}/snooze", h.SnoozeNudge)
	r.Post("/nudges/{id}/dismiss", h.DismissNudge)

	// On-demand synthesis.
	r.Post("/supervisees/{id}/synthesis", h.Synthesis)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
