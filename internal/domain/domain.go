// Package domain defines the entity types for CoachNudge.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// NoteSource records how a note came into existence.
type NoteSource string

// Note provenance values.
const (
	SourceManual NoteSource = "manual"
	SourceNudge  NoteSource = "nudge"
)

// NudgeType distinguishes the two kinds of prompts shown to the manager.
type NudgeType string

// Nudge types.
const (
	NudgeReflection NudgeType = "reflection"
	NudgeCoaching   NudgeType = "coaching"
)

// NudgeStatus is the lifecycle state of a nudge. Pending is the only
// initial state; the other three end the nudge's time as the active one.
type NudgeStatus string

// Nudge lifecycle states.
const (
	StatusPending   NudgeStatus = "pending"
	StatusCompleted NudgeStatus = "completed"
	StatusSnoozed   NudgeStatus = "snoozed"
	StatusDismissed NudgeStatus = "dismissed"
)

// Supervisee is a tracked team member being coached. It owns its notes
// and documents; deleting a supervisee removes both sub-collections.
type Supervisee struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Track       string     `json:"track,omitempty"`
	Documents   []Document `json:"documents"`
	Notes       []Note     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	LastNudgeAt *time.Time `json:"last_nudge_at"`
}

// Document is a free-text background document attached to one supervisee.
type Document struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Note is an observation recorded for one supervisee. Source is immutable
// after creation; content may be edited in place.
type Note struct {
	ID        string     `json:"id"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Source    NoteSource `json:"source"`
}

// Nudge is a prompt shown to the manager. It references its supervisee by
// id and additionally embeds a snapshot of the supervisee as of creation
// time. The snapshot is deliberate: a completed nudge keeps showing the
// data it was generated from even after the live entity is edited.
// Nudges are never deleted, only status-transitioned.
type Nudge struct {
	ID           string      `json:"id"`
	SuperviseeID string      `json:"supervisee_id"`
	Supervisee   Supervisee  `json:"supervisee"`
	Type         NudgeType   `json:"type"`
	Content      string      `json:"content"`
	Status       NudgeStatus `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	SnoozedUntil *time.Time  `json:"snoozed_until,omitempty"`
}

// NudgeSchedule is the per-supervisee nudge configuration, created lazily
// with defaults on first read.
type NudgeSchedule struct {
	SuperviseeID      string   `json:"supervisee_id"`
	CoachingEnabled   bool     `json:"coaching_enabled"`
	CoachingDays      []string `json:"coaching_days"`
	CoachingTime      string   `json:"coaching_time"`
	ReflectionEnabled bool     `json:"reflection_enabled"`
	ReflectionDays    []string `json:"reflection_days"`
	ReflectionTime    string   `json:"reflection_time"`
}

// DefaultSchedule returns the schedule used for a supervisee that has
// never been configured.
func DefaultSchedule(superviseeID string) NudgeSchedule {
	return NudgeSchedule{
		SuperviseeID:      superviseeID,
		CoachingEnabled:   true,
		CoachingDays:      []string{"monday"},
		CoachingTime:      "09:00",
		ReflectionEnabled: true,
		ReflectionDays:    []string{"friday"},
		ReflectionTime:    "16:00",
	}
}

// CaseInfo identifies the case team currently loaded into the store.
type CaseInfo struct {
	CaseCode string `json:"case_code"`
	CaseName string `json:"case_name"`
}

// CaseTeam is a pre-defined roster of supervisees loaded by a case code.
type CaseTeam struct {
	CaseCode    string       `json:"case_code"`
	CaseName    string       `json:"case_name"`
	Supervisees []Supervisee `json:"supervisees"`
}

// AppState is the aggregate root held by the state store.
//
// Invariant: ActiveNudge, when non-nil, references a nudge present in
// Nudges with status pending.
type AppState struct {
	CaseCode    string          `json:"case_code,omitempty"`
	CaseName    string          `json:"case_name,omitempty"`
	Supervisees []Supervisee    `json:"supervisees"`
	Nudges      []Nudge         `json:"nudges"`
	ActiveNudge *Nudge          `json:"active_nudge,omitempty"`
	Schedules   []NudgeSchedule `json:"schedules"`
	IsLoading   bool            `json:"is_loading"`
	DemoMode    bool            `json:"demo_mode"`
}

// NewSupervisee creates an empty supervisee with a fresh id.
func NewSupervisee(name, track string) Supervisee {
	return Supervisee{
		ID:        uuid.NewString(),
		Name:      name,
		Track:     track,
		Documents: []Document{},
		Notes:     []Note{},
		CreatedAt: time.Now(),
	}
}

// NewNote creates a note with a fresh id, stamped now.
func NewNote(content string, source NoteSource) Note {
	return Note{
		ID:        uuid.NewString(),
		Content:   content,
		CreatedAt: time.Now(),
		Source:    source,
	}
}

// NewDocument creates a document with a fresh id, stamped now.
func NewDocument(name, content string) Document {
	return Document{
		ID:         uuid.NewString(),
		Name:       name,
		Content:    content,
		UploadedAt: time.Now(),
	}
}

// Clone returns a deep copy of the supervisee. Used when embedding a
// snapshot into a nudge so later edits to the live entity cannot reach
// through shared slices.
func (s Supervisee) Clone() Supervisee {
	out := s
	out.Documents = append([]Document{}, s.Documents...)
	out.Notes = append([]Note{}, s.Notes...)
	if s.LastNudgeAt != nil {
		t := *s.LastNudgeAt
		out.LastNudgeAt = &t
	}
	return out
}
