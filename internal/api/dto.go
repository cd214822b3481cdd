package api

import "github.com/starford/coachnudge/internal/domain"

// CreateSuperviseeRequest is the body for adding a supervisee.
type CreateSuperviseeRequest struct {
	Name  string `json:"name"`
	Track string `json:"track,omitempty"`
}

// UpdateSuperviseeRequest is the body for renaming a supervisee.
type UpdateSuperviseeRequest struct {
	Name  string `json:"name"`
	Track string `json:"track,omitempty"`
}

// AddNoteRequest is the body for recording a note. Source defaults to
// manual; the nudge provenance tag is reserved for nudge completion.
type AddNoteRequest struct {
	Content string            `json:"content"`
	Source  domain.NoteSource `json:"source,omitempty"`
}

// UpdateNoteRequest is the body for editing note content in place.
type UpdateNoteRequest struct {
	Content string `json:"content"`
}

// AddDocumentRequest is the body for uploading a background document.
type AddDocumentRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// CompleteNudgeRequest carries the optional reflection response.
type CompleteNudgeRequest struct {
	Response string `json:"response,omitempty"`
}

// SuperviseeListResponse wraps supervisee listings.
type SuperviseeListResponse struct {
	Supervisees []domain.Supervisee `json:"supervisees"`
	Total       int                 `json:"total"`
}

// NudgeListResponse wraps the nudge history.
type NudgeListResponse struct {
	Nudges []domain.Nudge `json:"nudges"`
	Total  int            `json:"total"`
}

// CaseResponse describes the loaded case.
type CaseResponse struct {
	CaseCode    string              `json:"case_code"`
	CaseName    string              `json:"case_name"`
	Supervisees []domain.Supervisee `json:"supervisees"`
}

// SynthesisResponse wraps an on-demand coaching synthesis.
type SynthesisResponse struct {
	Synthesis string `json:"synthesis"`
}
