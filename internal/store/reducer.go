// Package store holds the single authoritative application state, mutated
// only through typed actions run through a pure reducer.
package store

import "github.com/starford/coachnudge/internal/domain"

// dirty marks which persisted slices an action touched. The orchestrator
// mirrors exactly those slices to the gateway after the reducer returns.
type dirty uint8

const (
	dirtySupervisees dirty = 1 << iota
	dirtyNudges
	dirtySchedules
	dirtyCase
	// dirtyClear instructs the gateway to drop all persisted slices.
	dirtyClear
)

// initialState returns the pristine state. A fresh value every call so no
// two states ever share slices.
func initialState() domain.AppState {
	return domain.AppState{
		Supervisees: []domain.Supervisee{},
		Nudges:      []domain.Nudge{},
		Schedules:   []domain.NudgeSchedule{},
	}
}

// Apply is the reducer: a pure function from (state, action) to the next
// state. Same inputs, same output, no side effects. Every mutation
// rebuilds the touched slice rather than editing it in place, so callers
// holding an earlier state never observe changes. Unknown actions and
// missing ids leave state unchanged.
func Apply(state domain.AppState, action Action) (domain.AppState, dirty) {
	switch a := action.(type) {
	case SetSupervisees:
		state.Supervisees = a.Supervisees
		return state, 0

	case AddSupervisee:
		state.Supervisees = append(copySupervisees(state.Supervisees), a.Supervisee)
		return state, dirtySupervisees

	case UpdateSupervisee:
		state.Supervisees = replaceSupervisee(state.Supervisees, a.Supervisee)
		return state, dirtySupervisees

	case DeleteSupervisee:
		out := make([]domain.Supervisee, 0, len(state.Supervisees))
		for _, s := range state.Supervisees {
			if s.ID != a.ID {
				out = append(out, s)
			}
		}
		state.Supervisees = out
		return state, dirtySupervisees

	case AddNote:
		state.Supervisees = mapSupervisee(state.Supervisees, a.SuperviseeID, func(s domain.Supervisee) domain.Supervisee {
			s.Notes = append(copyNotes(s.Notes), a.Note)
			return s
		})
		return state, dirtySupervisees

	case UpdateNote:
		state.Supervisees = mapSupervisee(state.Supervisees, a.SuperviseeID, func(s domain.Supervisee) domain.Supervisee {
			notes := copyNotes(s.Notes)
			for i, n := range notes {
				if n.ID == a.Note.ID {
					notes[i] = a.Note
				}
			}
			s.Notes = notes
			return s
		})
		return state, dirtySupervisees

	case DeleteNote:
		state.Supervisees = mapSupervisee(state.Supervisees, a.SuperviseeID, func(s domain.Supervisee) domain.Supervisee {
			out := make([]domain.Note, 0, len(s.Notes))
			for _, n := range s.Notes {
				if n.ID != a.NoteID {
					out = append(out, n)
				}
			}
			s.Notes = out
			return s
		})
		return state, dirtySupervisees

	case AddDocument:
		state.Supervisees = mapSupervisee(state.Supervisees, a.SuperviseeID, func(s domain.Supervisee) domain.Supervisee {
			s.Documents = append(copyDocuments(s.Documents), a.Document)
			return s
		})
		return state, dirtySupervisees

	case DeleteDocument:
		state.Supervisees = mapSupervisee(state.Supervisees, a.SuperviseeID, func(s domain.Supervisee) domain.Supervisee {
			out := make([]domain.Document, 0, len(s.Documents))
			for _, d := range s.Documents {
				if d.ID != a.DocumentID {
					out = append(out, d)
				}
			}
			s.Documents = out
			return s
		})
		return state, dirtySupervisees

	case SetNudges:
		state.Nudges = a.Nudges
		return state, 0

	case AddNudge:
		state.Nudges = append(copyNudges(state.Nudges), a.Nudge)
		return state, dirtyNudges

	case UpdateNudge:
		state.Nudges = replaceNudge(state.Nudges, a.Nudge)
		return state, dirtyNudges

	case CompleteNudgeWithNote:
		nudges := copyNudges(state.Nudges)
		for i, n := range nudges {
			if n.ID == a.Nudge.ID {
				nudges[i].Status = domain.StatusCompleted
			}
		}
		completedAt := a.CompletedAt
		supervisees := mapSupervisee(state.Supervisees, a.Nudge.SuperviseeID, func(s domain.Supervisee) domain.Supervisee {
			s.Notes = append(copyNotes(s.Notes), a.Note)
			s.LastNudgeAt = &completedAt
			return s
		})
		state.Nudges = nudges
		state.Supervisees = supervisees
		state.ActiveNudge = nil
		return state, dirtySupervisees | dirtyNudges

	case SetActiveNudge:
		state.ActiveNudge = a.Nudge
		return state, 0

	case SetLoading:
		state.IsLoading = a.Loading
		return state, 0

	case SetDemoMode:
		state.DemoMode = a.Enabled
		return state, 0

	case SetSchedules:
		state.Schedules = a.Schedules
		return state, 0

	case UpdateSchedule:
		out := copySchedules(state.Schedules)
		found := false
		for i, s := range out {
			if s.SuperviseeID == a.Schedule.SuperviseeID {
				out[i] = a.Schedule
				found = true
			}
		}
		if !found {
			out = append(out, a.Schedule)
		}
		state.Schedules = out
		return state, dirtySchedules

	case LoadCase:
		state.CaseCode = a.CaseCode
		state.CaseName = a.CaseName
		state.Supervisees = a.Supervisees
		state.Nudges = []domain.Nudge{}
		return state, dirtySupervisees | dirtyNudges | dirtyCase

	case ResetData:
		return initialState(), dirtyClear

	default:
		return state, 0
	}
}

func copySupervisees(in []domain.Supervisee) []domain.Supervisee {
	return append([]domain.Supervisee{}, in...)
}

func copyNotes(in []domain.Note) []domain.Note {
	return append([]domain.Note{}, in...)
}

func copyDocuments(in []domain.Document) []domain.Document {
	return append([]domain.Document{}, in...)
}

func copyNudges(in []domain.Nudge) []domain.Nudge {
	return append([]domain.Nudge{}, in...)
}

func copySchedules(in []domain.NudgeSchedule) []domain.NudgeSchedule {
	return append([]domain.NudgeSchedule{}, in...)
}

func replaceSupervisee(in []domain.Supervisee, s domain.Supervisee) []domain.Supervisee {
	out := copySupervisees(in)
	for i, cur := range out {
		if cur.ID == s.ID {
			out[i] = s
		}
	}
	return out
}

func replaceNudge(in []domain.Nudge, n domain.Nudge) []domain.Nudge {
	out := copyNudges(in)
	for i, cur := range out {
		if cur.ID == n.ID {
			out[i] = n
		}
	}
	return out
}

// mapSupervisee rebuilds the slice, applying fn to the supervisee with the
// given id. A missing id yields an identical (but fresh) slice: silent no-op.
func mapSupervisee(in []domain.Supervisee, id string, fn func(domain.Supervisee) domain.Supervisee) []domain.Supervisee {
	out := copySupervisees(in)
	for i, s := range out {
		if s.ID == id {
			out[i] = fn(s)
		}
	}
	return out
}
