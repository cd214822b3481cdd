package store

import (
	"time"

	"github.com/starford/coachnudge/internal/domain"
)

// Action is a closed tagged variant consumed by the reducer. Kind is the
// stable tag used for change notifications; it names what happened, not
// the Go type.
type Action interface {
	Kind() string
}

// SetSupervisees replaces the supervisee slice (hydration, not persisted).
type SetSupervisees struct{ Supervisees []domain.Supervisee }

// AddSupervisee appends a supervisee.
type AddSupervisee struct{ Supervisee domain.Supervisee }

// UpdateSupervisee replaces a supervisee by id.
type UpdateSupervisee struct{ Supervisee domain.Supervisee }

// DeleteSupervisee removes a supervisee and, with it, all of its notes and
// documents. Nudges referencing the id stay in the history as orphans.
type DeleteSupervisee struct{ ID string }

// AddNote appends a note to the owning supervisee.
type AddNote struct {
	SuperviseeID string
	Note         domain.Note
}

// UpdateNote replaces a note by id on the owning supervisee.
type UpdateNote struct {
	SuperviseeID string
	Note         domain.Note
}

// DeleteNote removes a note by id from the owning supervisee.
type DeleteNote struct {
	SuperviseeID string
	NoteID       string
}

// AddDocument appends a document to the owning supervisee.
type AddDocument struct {
	SuperviseeID string
	Document     domain.Document
}

// DeleteDocument removes a document by id from the owning supervisee.
type DeleteDocument struct {
	SuperviseeID string
	DocumentID   string
}

// SetNudges replaces the nudge slice (hydration, not persisted).
type SetNudges struct{ Nudges []domain.Nudge }

// AddNudge appends a nudge to the history.
type AddNudge struct{ Nudge domain.Nudge }

// UpdateNudge replaces a nudge by id.
type UpdateNudge struct{ Nudge domain.Nudge }

// CompleteNudgeWithNote is the compound transition: the nudge becomes
// completed, the note lands on the owning supervisee, lastNudgeAt moves to
// CompletedAt, and the active nudge clears — atomically.
type CompleteNudgeWithNote struct {
	Nudge       domain.Nudge
	Note        domain.Note
	CompletedAt time.Time
}

// SetActiveNudge sets or clears the nudge currently shown to the user.
type SetActiveNudge struct{ Nudge *domain.Nudge }

// SetLoading toggles the transient loading flag.
type SetLoading struct{ Loading bool }

// SetDemoMode toggles the transient demo-mode flag.
type SetDemoMode struct{ Enabled bool }

// SetSchedules replaces the schedule slice (hydration, not persisted).
type SetSchedules struct{ Schedules []domain.NudgeSchedule }

// UpdateSchedule upserts the schedule for one supervisee.
type UpdateSchedule struct{ Schedule domain.NudgeSchedule }

// LoadCase bulk-loads a case team: supervisees replaced, nudge history
// reset to empty, case identity recorded. Not an incremental merge.
type LoadCase struct {
	CaseCode    string
	CaseName    string
	Supervisees []domain.Supervisee
}

// ResetData returns the store to its pristine initial state and clears
// every persisted slice.
type ResetData struct{}

func (SetSupervisees) Kind() string        { return "supervisees.set" }
func (AddSupervisee) Kind() string         { return "supervisee.added" }
func (UpdateSupervisee) Kind() string      { return "supervisee.updated" }
func (DeleteSupervisee) Kind() string      { return "supervisee.deleted" }
func (AddNote) Kind() string               { return "note.added" }
func (UpdateNote) Kind() string            { return "note.updated" }
func (DeleteNote) Kind() string            { return "note.deleted" }
func (AddDocument) Kind() string           { return "document.added" }
func (DeleteDocument) Kind() string        { return "document.deleted" }
func (SetNudges) Kind() string             { return "nudges.set" }
func (AddNudge) Kind() string              { return "nudge.added" }
func (UpdateNudge) Kind() string           { return "nudge.updated" }
func (CompleteNudgeWithNote) Kind() string { return "nudge.completed" }
func (SetActiveNudge) Kind() string        { return "nudge.active" }
func (SetLoading) Kind() string            { return "loading.set" }
func (SetDemoMode) Kind() string           { return "demo.set" }
func (SetSchedules) Kind() string          { return "schedules.set" }
func (UpdateSchedule) Kind() string        { return "schedule.updated" }
func (LoadCase) Kind() string              { return "case.loaded" }
func (ResetData) Kind() string             { return "data.reset" }
