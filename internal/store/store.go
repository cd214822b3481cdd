package store

import (
	"log/slog"
	"sync"
	"time"

	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/persist"
)

// Subscriber receives the kind tag of every dispatched action after the
// state has been updated.
type Subscriber func(kind string)

// Store owns the application state. Dispatches are serialized; after the
// reducer runs, touched slices are mirrored to the persistence gateway and
// subscribers are notified. A mirror failure is logged and the in-memory
// state stays authoritative for the session.
type Store struct {
	mu     sync.Mutex
	state  domain.AppState
	gw     persist.Gateway
	logger *slog.Logger

	subMu sync.RWMutex
	subs  []Subscriber
}

// New creates a store holding the pristine initial state.
func New(gw persist.Gateway, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:  initialState(),
		gw:     gw,
		logger: logger,
	}
}

// Hydrate replaces the in-memory state with whatever the gateway has
// persisted. It does not mirror back.
func (s *Store) Hydrate() error {
	supervisees, err := s.gw.LoadSupervisees()
	if err != nil {
		return err
	}
	nudges, err := s.gw.LoadNudges()
	if err != nil {
		return err
	}
	schedules, err := s.gw.LoadSchedules()
	if err != nil {
		return err
	}
	caseInfo, err := s.gw.LoadCaseInfo()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Supervisees = supervisees
	s.state.Nudges = nudges
	s.state.Schedules = schedules
	if caseInfo != nil {
		s.state.CaseCode = caseInfo.CaseCode
		s.state.CaseName = caseInfo.CaseName
	}
	return nil
}

// Dispatch runs an action through the reducer, mirrors the slices it
// touched, and notifies subscribers.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	next, d := Apply(s.state, action)
	s.state = next
	s.mirrorLocked(d, next)
	s.mu.Unlock()

	s.notify(action.Kind())
}

// mirrorLocked pushes dirty slices to the gateway. Called under s.mu so
// saves land in dispatch order (last-write-wins at the gateway).
func (s *Store) mirrorLocked(d dirty, st domain.AppState) {
	if s.gw == nil || d == 0 {
		return
	}
	if d&dirtyClear != 0 {
		if err := s.gw.Clear(); err != nil {
			s.warnPersist("clear", err)
		}
		return
	}
	if d&dirtySupervisees != 0 {
		if err := s.gw.SaveSupervisees(st.Supervisees); err != nil {
			s.warnPersist("supervisees", err)
		}
	}
	if d&dirtyNudges != 0 {
		if err := s.gw.SaveNudges(st.Nudges); err != nil {
			s.warnPersist("nudges", err)
		}
	}
	if d&dirtySchedules != 0 {
		if err := s.gw.SaveSchedules(st.Schedules); err != nil {
			s.warnPersist("schedules", err)
		}
	}
	if d&dirtyCase != 0 {
		if err := s.gw.SaveCaseInfo(domain.CaseInfo{CaseCode: st.CaseCode, CaseName: st.CaseName}); err != nil {
			s.warnPersist("case_info", err)
		}
	}
}

func (s *Store) warnPersist(slice string, err error) {
	s.logger.Warn("persistence save failed, in-memory state remains authoritative",
		slog.String("slice", slice),
		slog.String("error", err.Error()))
}

// Subscribe registers a callback invoked after every dispatch.
func (s *Store) Subscribe(fn Subscriber) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()
}

func (s *Store) notify(kind string) {
	s.subMu.RLock()
	subs := s.subs
	s.subMu.RUnlock()
	for _, fn := range subs {
		fn(kind)
	}
}

// State returns a snapshot of the current state. Slices inside are shared
// with the store but never mutated in place (reducer invariant), so the
// snapshot is safe to read without holding any lock.
func (s *Store) State() domain.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Supervisee looks up a supervisee by id.
func (s *Store) Supervisee(id string) (domain.Supervisee, bool) {
	st := s.State()
	for _, sup := range st.Supervisees {
		if sup.ID == id {
			return sup, true
		}
	}
	return domain.Supervisee{}, false
}

// Nudge looks up a nudge by id in the history.
func (s *Store) Nudge(id string) (domain.Nudge, bool) {
	st := s.State()
	for _, n := range st.Nudges {
		if n.ID == id {
			return n, true
		}
	}
	return domain.Nudge{}, false
}

// ActiveNudge returns the nudge currently shown to the user, if any.
func (s *Store) ActiveNudge() (domain.Nudge, bool) {
	st := s.State()
	if st.ActiveNudge == nil {
		return domain.Nudge{}, false
	}
	return *st.ActiveNudge, true
}

// ScheduleFor returns the stored schedule for a supervisee, or the lazy
// default when none has been saved.
func (s *Store) ScheduleFor(superviseeID string) domain.NudgeSchedule {
	st := s.State()
	for _, sch := range st.Schedules {
		if sch.SuperviseeID == superviseeID {
			return sch
		}
	}
	return domain.DefaultSchedule(superviseeID)
}

// SnoozedNudges returns snoozed nudges whose snooze window has elapsed at
// the given instant. Nothing re-activates them automatically; this exists
// so a future pass could re-offer them.
func (s *Store) SnoozedNudges(now time.Time) []domain.Nudge {
	st := s.State()
	var out []domain.Nudge
	for _, n := range st.Nudges {
		if n.Status == domain.StatusSnoozed && n.SnoozedUntil != nil && !n.SnoozedUntil.After(now) {
			out = append(out, n)
		}
	}
	return out
}
