package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/coachnudge/internal/apperr"
	"github.com/starford/coachnudge/internal/caseteam"
	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/llm"
	"github.com/starford/coachnudge/internal/nudge"
	"github.com/starford/coachnudge/internal/store"
)

// Handler holds API route handlers.
type Handler struct {
	store  *store.Store
	engine *nudge.Engine
	gen    llm.ContentGenerator
}

// NewHandler creates a new Handler.
func NewHandler(st *store.Store, engine *nudge.Engine, gen llm.ContentGenerator) *Handler {
	return &Handler{store: st, engine: engine, gen: gen}
}

// LoadCase handles POST /case/{code}: bulk-loads a pre-built roster,
// replacing the current supervisees and resetting the nudge history.
func (h *Handler) LoadCase(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	team := caseteam.Get(code)
	if team == nil {
		writeJSON(w, http.StatusNotFound, errorBody("unknown case code"))
		return
	}
	h.store.Dispatch(store.LoadCase{
		CaseCode:    team.CaseCode,
		CaseName:    team.CaseName,
		Supervisees: team.Supervisees,
	})
	writeJSON(w, http.StatusOK, CaseResponse{
		CaseCode:    team.CaseCode,
		CaseName:    team.CaseName,
		Supervisees: team.Supervisees,
	})
}

// LeaveCase handles DELETE /case: resets to the pristine initial state
// and clears all persisted slices.
func (h *Handler) LeaveCase(w http.ResponseWriter, _ *http.Request) {
	h.store.Dispatch(store.ResetData{})
	w.WriteHeader(http.StatusNoContent)
}

// ListSupervisees handles GET /supervisees.
func (h *Handler) ListSupervisees(w http.ResponseWriter, _ *http.Request) {
	st := h.store.State()
	writeJSON(w, http.StatusOK, SuperviseeListResponse{
		Supervisees: st.Supervisees,
		Total:       len(st.Supervisees),
	})
}

// CreateSupervisee handles POST /supervisees.
func (h *Handler) CreateSupervisee(w http.ResponseWriter, r *http.Request) {
	var req CreateSuperviseeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := domain.ValidateName(req.Name); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	s := domain.NewSupervisee(strings.TrimSpace(req.Name), strings.TrimSpace(req.Track))
	h.store.Dispatch(store.AddSupervisee{Supervisee: s})
	writeJSON(w, http.StatusCreated, s)
}

// GetSupervisee handles GET /supervisees/{id}.
func (h *Handler) GetSupervisee(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store.Supervisee(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// UpdateSupervisee handles PUT /supervisees/{id}.
func (h *Handler) UpdateSupervisee(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store.Supervisee(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	var req UpdateSuperviseeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := domain.ValidateName(req.Name); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	s.Name = strings.TrimSpace(req.Name)
	s.Track = strings.TrimSpace(req.Track)
	h.store.Dispatch(store.UpdateSupervisee{Supervisee: s})
	writeJSON(w, http.StatusOK, s)
}

// DeleteSupervisee handles DELETE /supervisees/{id}. Deleting cascades to
// the supervisee's notes and documents; nudges referencing the id stay in
// the history. Unknown ids are a silent no-op.
func (h *Handler) DeleteSupervisee(w http.ResponseWriter, r *http.Request) {
	h.store.Dispatch(store.DeleteSupervisee{ID: chi.URLParam(r, "id")})
	w.WriteHeader(http.StatusNoContent)
}

// AddNote handles POST /supervisees/{id}/notes.
func (h *Handler) AddNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Supervisee(id); !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	var req AddNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := domain.ValidateNoteContent(req.Content); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	if req.Source == "" {
		req.Source = domain.SourceManual
	}
	if err := domain.ValidateNoteSource(req.Source); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("source must be manual or nudge"))
		return
	}
	note := domain.NewNote(strings.TrimSpace(req.Content), req.Source)
	h.store.Dispatch(store.AddNote{SuperviseeID: id, Note: note})
	writeJSON(w, http.StatusCreated, note)
}

// UpdateNote handles PUT /supervisees/{id}/notes/{noteID}. Content is
// editable in place; source and creation time are immutable.
func (h *Handler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	noteID := chi.URLParam(r, "noteID")
	s, ok := h.store.Supervisee(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	var existing *domain.Note
	for i := range s.Notes {
		if s.Notes[i].ID == noteID {
			existing = &s.Notes[i]
			break
		}
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := domain.ValidateNoteContent(req.Content); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	updated := *existing
	updated.Content = strings.TrimSpace(req.Content)
	h.store.Dispatch(store.UpdateNote{SuperviseeID: id, Note: updated})
	writeJSON(w, http.StatusOK, updated)
}

// DeleteNote handles DELETE /supervisees/{id}/notes/{noteID}. Unknown ids
// are a silent no-op.
func (h *Handler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	h.store.Dispatch(store.DeleteNote{
		SuperviseeID: chi.URLParam(r, "id"),
		NoteID:       chi.URLParam(r, "noteID"),
	})
	w.WriteHeader(http.StatusNoContent)
}

// AddDocument handles POST /supervisees/{id}/documents.
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.store.Supervisee(id); !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	var req AddDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := domain.ValidateDocument(req.Name, req.Content); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	doc := domain.NewDocument(strings.TrimSpace(req.Name), req.Content)
	h.store.Dispatch(store.AddDocument{SuperviseeID: id, Document: doc})
	writeJSON(w, http.StatusCreated, doc)
}

// DeleteDocument handles DELETE /supervisees/{id}/documents/{docID}.
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	h.store.Dispatch(store.DeleteDocument{
		SuperviseeID: chi.URLParam(r, "id"),
		DocumentID:   chi.URLParam(r, "docID"),
	})
	w.WriteHeader(http.StatusNoContent)
}

// GetSchedule handles GET /supervisees/{id}/schedule. Returns the lazy
// default when none has been configured.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.ScheduleFor(chi.URLParam(r, "id")))
}

// UpdateSchedule handles PUT /supervisees/{id}/schedule.
func (h *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req domain.NudgeSchedule
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	req.SuperviseeID = chi.URLParam(r, "id")
	h.store.Dispatch(store.UpdateSchedule{Schedule: req})
	writeJSON(w, http.StatusOK, req)
}

// TriggerReflection handles POST /supervisees/{id}/nudges/reflection.
func (h *Handler) TriggerReflection(w http.ResponseWriter, r *http.Request) {
	h.triggerNudge(w, r, domain.NudgeReflection)
}

// TriggerCoaching handles POST /supervisees/{id}/nudges/coaching.
func (h *Handler) TriggerCoaching(w http.ResponseWriter, r *http.Request) {
	h.triggerNudge(w, r, domain.NudgeCoaching)
}

func (h *Handler) triggerNudge(w http.ResponseWriter, r *http.Request, typ domain.NudgeType) {
	s, ok := h.store.Supervisee(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}

	var n domain.Nudge
	var err error
	if typ == domain.NudgeCoaching {
		n, err = h.engine.TriggerCoaching(r.Context(), s)
	} else {
		n, err = h.engine.TriggerReflection(r.Context(), s)
	}
	if err != nil {
		if errors.Is(err, apperr.ErrGenerationInFlight) {
			writeJSON(w, http.StatusConflict, errorBody("generation already in flight for this supervisee"))
			return
		}
		slog.Error("trigger nudge failed", slog.String("supervisee", s.ID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// ListNudges handles GET /nudges: the append-only nudge history.
func (h *Handler) ListNudges(w http.ResponseWriter, _ *http.Request) {
	st := h.store.State()
	writeJSON(w, http.StatusOK, NudgeListResponse{
		Nudges: st.Nudges,
		Total:  len(st.Nudges),
	})
}

// GetActiveNudge handles GET /nudges/active.
func (h *Handler) GetActiveNudge(w http.ResponseWriter, _ *http.Request) {
	n, ok := h.store.ActiveNudge()
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("no active nudge"))
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// CompleteNudge handles POST /nudges/{id}/complete. A reflection nudge
// completed with a non-blank response also records the response as a
// nudge-sourced note on the owning supervisee.
func (h *Handler) CompleteNudge(w http.ResponseWriter, r *http.Request) {
	n, ok := h.store.Nudge(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	var req CompleteNudgeRequest
	if r.Body != nil {
		// Body is optional for coaching nudges.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	h.engine.Complete(n, req.Response)
	updated, _ := h.store.Nudge(n.ID)
	writeJSON(w, http.StatusOK, updated)
}

// SnoozeNudge handles POST /nudges/{id}/snooze.
func (h *Handler) SnoozeNudge(w http.ResponseWriter, r *http.Request) {
	n, ok := h.store.Nudge(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.engine.Snooze(n)
	updated, _ := h.store.Nudge(n.ID)
	writeJSON(w, http.StatusOK, updated)
}

// DismissNudge handles POST /nudges/{id}/dismiss.
func (h *Handler) DismissNudge(w http.ResponseWriter, r *http.Request) {
	n, ok := h.store.Nudge(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	h.engine.Dismiss(n)
	updated, _ := h.store.Nudge(n.ID)
	writeJSON(w, http.StatusOK, updated)
}

// Synthesis handles POST /supervisees/{id}/synthesis. This is the one
// generation flow with no fallback: a model failure propagates to the
// client.
func (h *Handler) Synthesis(w http.ResponseWriter, r *http.Request) {
	s, ok := h.store.Supervisee(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	text, err := h.gen.Synthesis(r.Context(), s)
	if err != nil {
		slog.Error("synthesis failed", slog.String("supervisee", s.ID), slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, SynthesisResponse{Synthesis: text})
}
