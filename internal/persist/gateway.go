// Package persist implements the persistence gateway: opaque load/save of
// the store's three slices plus case info, last-write-wins, no cross-slice
// transactions.
package persist

import "github.com/starford/coachnudge/internal/domain"

// Gateway is the interface the state store mirrors through. Load methods
// return empty values (never an error) when nothing has been saved yet.
type Gateway interface {
	LoadSupervisees() ([]domain.Supervisee, error)
	SaveSupervisees([]domain.Supervisee) error

	LoadNudges() ([]domain.Nudge, error)
	SaveNudges([]domain.Nudge) error

	LoadSchedules() ([]domain.NudgeSchedule, error)
	SaveSchedules([]domain.NudgeSchedule) error

	LoadCaseInfo() (*domain.CaseInfo, error)
	SaveCaseInfo(domain.CaseInfo) error

	// Clear removes every persisted slice.
	Clear() error

	Close() error
}
