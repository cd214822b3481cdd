package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/nudge"
	"github.com/starford/coachnudge/internal/testutil"
)

func testRouter(t *testing.T, gen *testutil.StubGenerator) chi.Router {
	t.Helper()
	if gen == nil {
		gen = &testutil.StubGenerator{
			CoachingText:   "Consider a check-in.",
			ReflectionText: "How did the week go?",
			SynthesisText:  "## Key Themes",
		}
	}
	st := testutil.TestStore(t)
	engine := nudge.NewEngine(st, gen, testutil.DiscardLogger())
	return NewRouter(NewHandler(st, engine, gen), false, "", nil)
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func createSupervisee(t *testing.T, r chi.Router, name string) domain.Supervisee {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/supervisees", CreateSuperviseeRequest{Name: name})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create supervisee: status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[domain.Supervisee](t, rec)
}

func TestCreateAndListSupervisees(t *testing.T) {
	r := testRouter(t, nil)

	s := createSupervisee(t, r, "Nick Chen")
	if s.ID == "" || s.Name != "Nick Chen" {
		t.Errorf("created = %+v", s)
	}

	rec := doJSON(t, r, http.MethodGet, "/supervisees", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	list := decode[SuperviseeListResponse](t, rec)
	if list.Total != 1 || len(list.Supervisees) != 1 {
		t.Errorf("list = %+v", list)
	}
}

func TestCreateSuperviseeBlankName(t *testing.T) {
	r := testRouter(t, nil)
	rec := doJSON(t, r, http.MethodPost, "/supervisees", CreateSuperviseeRequest{Name: "   "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestGetSuperviseeNotFound(t *testing.T) {
	r := testRouter(t, nil)
	rec := doJSON(t, r, http.MethodGet, "/supervisees/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateAndDeleteSupervisee(t *testing.T) {
	r := testRouter(t, nil)
	s := createSupervisee(t, r, "Sara Park")

	rec := doJSON(t, r, http.MethodPut, "/supervisees/"+s.ID, UpdateSuperviseeRequest{Name: "Sarah Park", Track: "GC"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: status = %d", rec.Code)
	}
	updated := decode[domain.Supervisee](t, rec)
	if updated.Name != "Sarah Park" || updated.Track != "GC" {
		t.Errorf("updated = %+v", updated)
	}

	rec = doJSON(t, r, http.MethodDelete, "/supervisees/"+s.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rec.Code)
	}

	// Deleting again is a silent no-op.
	rec = doJSON(t, r, http.MethodDelete, "/supervisees/"+s.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("repeat delete: status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/supervisees/"+s.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d", rec.Code)
	}
}

func TestNoteLifecycle(t *testing.T) {
	r := testRouter(t, nil)
	s := createSupervisee(t, r, "Nick Chen")

	rec := doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/notes", AddNoteRequest{Content: "great job on the slide"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add note: status = %d, body %s", rec.Code, rec.Body.String())
	}
	note := decode[domain.Note](t, rec)
	if note.Source != domain.SourceManual {
		t.Errorf("default source = %q, want manual", note.Source)
	}

	rec = doJSON(t, r, http.MethodPut, "/supervisees/"+s.ID+"/notes/"+note.ID, UpdateNoteRequest{Content: "revised observation"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update note: status = %d", rec.Code)
	}
	updated := decode[domain.Note](t, rec)
	if updated.Content != "revised observation" {
		t.Errorf("content = %q", updated.Content)
	}
	if updated.Source != note.Source || !updated.CreatedAt.Equal(note.CreatedAt) {
		t.Error("source or creation time changed by content edit")
	}

	rec = doJSON(t, r, http.MethodDelete, "/supervisees/"+s.ID+"/notes/"+note.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete note: status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/supervisees/"+s.ID, nil)
	if got := decode[domain.Supervisee](t, rec); len(got.Notes) != 0 {
		t.Errorf("notes after delete = %+v", got.Notes)
	}
}

func TestAddNoteUnknownSupervisee(t *testing.T) {
	r := testRouter(t, nil)
	rec := doJSON(t, r, http.MethodPost, "/supervisees/missing/notes", AddNoteRequest{Content: "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestAddNoteInvalidSource(t *testing.T) {
	r := testRouter(t, nil)
	s := createSupervisee(t, r, "Nick Chen")
	rec := doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/notes", AddNoteRequest{Content: "x", Source: "telepathy"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDocumentLifecycle(t *testing.T) {
	r := testRouter(t, nil)
	s := createSupervisee(t, r, "Emily Zhang")

	rec := doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/documents", AddDocumentRequest{Name: "prefs.md", Content: "direct feedback"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add document: status = %d", rec.Code)
	}
	doc := decode[domain.Document](t, rec)

	rec = doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/documents", AddDocumentRequest{Name: "", Content: "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, r, http.MethodDelete, "/supervisees/"+s.ID+"/documents/"+doc.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete document: status = %d", rec.Code)
	}
}

func TestScheduleEndpoints(t *testing.T) {
	r := testRouter(t, nil)
	s := createSupervisee(t, r, "Nick Chen")

	rec := doJSON(t, r, http.MethodGet, "/supervisees/"+s.ID+"/schedule", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get schedule: status = %d", rec.Code)
	}
	sch := decode[domain.NudgeSchedule](t, rec)
	if !sch.CoachingEnabled || sch.CoachingTime != "09:00" {
		t.Errorf("default schedule = %+v", sch)
	}

	sch.ReflectionEnabled = false
	rec = doJSON(t, r, http.MethodPut, "/supervisees/"+s.ID+"/schedule", sch)
	if rec.Code != http.StatusOK {
		t.Fatalf("put schedule: status = %d", rec.Code)
	}

	rec = doJSON(t, r, http.MethodGet, "/supervisees/"+s.ID+"/schedule", nil)
	if got := decode[domain.NudgeSchedule](t, rec); got.ReflectionEnabled {
		t.Error("schedule update not stored")
	}
}

func TestReflectionNudgeFlow(t *testing.T) {
	r := testRouter(t, nil)
	s := createSupervisee(t, r, "Nick Chen")

	rec := doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/nudges/reflection", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("trigger: status = %d, body %s", rec.Code, rec.Body.String())
	}
	n := decode[domain.Nudge](t, rec)
	if n.Type != domain.NudgeReflection || n.Content != "How did the week go?" {
		t.Errorf("nudge = %+v", n)
	}

	rec = doJSON(t, r, http.MethodGet, "/nudges/active", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("active: status = %d", rec.Code)
	}
	if active := decode[domain.Nudge](t, rec); active.ID != n.ID {
		t.Error("active nudge mismatch")
	}

	rec = doJSON(t, r, http.MethodPost, "/nudges/"+n.ID+"/complete", CompleteNudgeRequest{Response: "Nick crushed the workshop"})
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: status = %d", rec.Code)
	}
	if done := decode[domain.Nudge](t, rec); done.Status != domain.StatusCompleted {
		t.Errorf("status = %q", done.Status)
	}

	rec = doJSON(t, r, http.MethodGet, "/supervisees/"+s.ID, nil)
	owner := decode[domain.Supervisee](t, rec)
	if len(owner.Notes) != 1 || owner.Notes[0].Source != domain.SourceNudge {
		t.Errorf("response not recorded as nudge-sourced note: %+v", owner.Notes)
	}
	if owner.LastNudgeAt == nil {
		t.Error("lastNudgeAt not advanced by completion")
	}

	rec = doJSON(t, r, http.MethodGet, "/nudges/active", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("active after completion: status = %d, want 404", rec.Code)
	}
}

func TestCoachingNudgeSnoozeAndDismiss(t *testing.T) {
	r := testRouter(t, nil)
	s := createSupervisee(t, r, "Marcus Johnson")

	rec := doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/nudges/coaching", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("trigger: status = %d", rec.Code)
	}
	first := decode[domain.Nudge](t, rec)

	rec = doJSON(t, r, http.MethodPost, "/nudges/"+first.ID+"/snooze", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snooze: status = %d", rec.Code)
	}
	snoozed := decode[domain.Nudge](t, rec)
	if snoozed.Status != domain.StatusSnoozed || snoozed.SnoozedUntil == nil {
		t.Errorf("snoozed = %+v", snoozed)
	}

	rec = doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/nudges/coaching", nil)
	second := decode[domain.Nudge](t, rec)
	rec = doJSON(t, r, http.MethodPost, "/nudges/"+second.ID+"/dismiss", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dismiss: status = %d", rec.Code)
	}
	if dismissed := decode[domain.Nudge](t, rec); dismissed.Status != domain.StatusDismissed {
		t.Errorf("status = %q", dismissed.Status)
	}

	rec = doJSON(t, r, http.MethodGet, "/nudges", nil)
	history := decode[NudgeListResponse](t, rec)
	if history.Total != 2 {
		t.Errorf("history = %d nudges, want 2", history.Total)
	}
}

func TestNudgeActionsUnknownID(t *testing.T) {
	r := testRouter(t, nil)
	for _, path := range []string{"/nudges/missing/complete", "/nudges/missing/snooze", "/nudges/missing/dismiss"} {
		rec := doJSON(t, r, http.MethodPost, path, nil)
		if rec.Code != http.StatusNotFound {
			t.Errorf("POST %s: status = %d, want 404", path, rec.Code)
		}
	}
}

func TestLoadAndLeaveCase(t *testing.T) {
	r := testRouter(t, nil)

	rec := doJSON(t, r, http.MethodPost, "/case/demo", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("load case: status = %d", rec.Code)
	}
	loaded := decode[CaseResponse](t, rec)
	if loaded.CaseCode != "DEMO" || len(loaded.Supervisees) != 3 {
		t.Errorf("loaded = %s with %d supervisees", loaded.CaseCode, len(loaded.Supervisees))
	}

	rec = doJSON(t, r, http.MethodPost, "/case/UNKNOWN", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown case: status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, r, http.MethodDelete, "/case", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("leave case: status = %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/supervisees", nil)
	if list := decode[SuperviseeListResponse](t, rec); list.Total != 0 {
		t.Errorf("supervisees after leave = %d, want 0", list.Total)
	}
}

func TestSynthesisEndpoint(t *testing.T) {
	r := testRouter(t, nil)
	s := createSupervisee(t, r, "Nick Chen")
	doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/notes", AddNoteRequest{Content: "observed"})

	rec := doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/synthesis", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("synthesis: status = %d", rec.Code)
	}
	if got := decode[SynthesisResponse](t, rec); got.Synthesis != "## Key Themes" {
		t.Errorf("synthesis = %q", got.Synthesis)
	}
}

func TestSynthesisFailurePropagates(t *testing.T) {
	gen := &testutil.StubGenerator{SynthesisErr: errFake("model unreachable")}
	r := testRouter(t, gen)
	s := createSupervisee(t, r, "Nick Chen")
	doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/notes", AddNoteRequest{Content: "observed"})

	rec := doJSON(t, r, http.MethodPost, "/supervisees/"+s.ID+"/synthesis", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "model unreachable") {
		t.Errorf("body = %s, want the generator error surfaced", rec.Body.String())
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }

func TestAuthMiddleware(t *testing.T) {
	st := testutil.TestStore(t)
	gen := &testutil.StubGenerator{}
	engine := nudge.NewEngine(st, gen, testutil.DiscardLogger())
	r := NewRouter(NewHandler(st, engine, gen), true, "secret-token", nil)

	req := httptest.NewRequest(http.MethodGet, "/supervisees", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/supervisees", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong token: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/supervisees", nil)
	req.Header.Set("Authorization", "Bearer secret-token")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("valid token: status = %d, want 200", rec.Code)
	}
}
