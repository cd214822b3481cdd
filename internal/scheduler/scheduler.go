// Package scheduler decides which supervisee should next receive an
// unsolicited reflection nudge and triggers it on a timer.
package scheduler

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/nudge"
	"github.com/starford/coachnudge/internal/store"
)

// DemoInterval is the fixed cadence used in accelerated demo mode.
const DemoInterval = 30 * time.Second

const week = 7 * 24 * time.Hour

// Clock abstracts time so the loop can be tested by advancing a fake
// clock instead of waiting.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

func (realClock) Now() time.Time                         { return time.Now() }
func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Scheduler is a process-scoped background loop. Its lifetime is bound to
// the context passed to Run, independent of any client connection.
type Scheduler struct {
	store  *store.Store
	engine *nudge.Engine
	logger *slog.Logger
	clock  Clock
	demo   bool
}

// New creates a scheduler. demo switches to the fixed accelerated interval.
func New(st *store.Store, engine *nudge.Engine, logger *slog.Logger, demo bool) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		store:  st,
		engine: engine,
		logger: logger,
		clock:  realClock{},
		demo:   demo,
	}
}

// WithClock replaces the clock. Test hook.
func (s *Scheduler) WithClock(c Clock) *Scheduler {
	s.clock = c
	return s
}

// Frequency is the nudge-frequency policy: reflection nudges per week for
// a team of n. Monotonically increasing with team size, so a bigger team
// is nudged more often in aggregate while each person waits longer
// between their own nudges.
func Frequency(n int) int {
	if n < 1 {
		n = 1
	}
	return 2*n + 1
}

// Interval returns the gap between scheduling attempts for a team of n.
func Interval(n int) time.Duration {
	return week / time.Duration(Frequency(n))
}

// NextCandidate returns the supervisee with the earliest lastNudgeAt;
// never-nudged supervisees sort first. ok is false for an empty roster.
func NextCandidate(supervisees []domain.Supervisee) (domain.Supervisee, bool) {
	if len(supervisees) == 0 {
		return domain.Supervisee{}, false
	}
	sorted := append([]domain.Supervisee{}, supervisees...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return nudgeTime(sorted[i]).Before(nudgeTime(sorted[j]))
	})
	return sorted[0], true
}

func nudgeTime(s domain.Supervisee) time.Time {
	if s.LastNudgeAt == nil {
		return time.Time{}
	}
	return *s.LastNudgeAt
}

// Run drives the scheduling loop until ctx is cancelled. The interval is
// recomputed every round so roster changes take effect at the next tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("scheduler: started", slog.Bool("demo", s.demo))
	for {
		d := s.nextInterval()
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler: stopped")
			return nil
		case <-s.clock.After(d):
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) nextInterval() time.Duration {
	if s.demo {
		return DemoInterval
	}
	return Interval(len(s.store.State().Supervisees))
}

// tick triggers a reflection nudge for the head candidate unless a nudge
// is already active. The cadence continues either way.
func (s *Scheduler) tick(ctx context.Context) {
	st := s.store.State()
	if len(st.Supervisees) == 0 {
		return
	}
	if st.ActiveNudge != nil {
		s.logger.Debug("scheduler: nudge already active, skipping tick")
		return
	}
	candidate, ok := NextCandidate(st.Supervisees)
	if !ok {
		return
	}
	if _, err := s.engine.TriggerReflection(ctx, candidate); err != nil {
		s.logger.Warn("scheduler: trigger failed",
			slog.String("supervisee", candidate.ID),
			slog.String("error", err.Error()))
		return
	}
	s.logger.Info("scheduler: reflection nudge triggered",
		slog.String("supervisee", candidate.ID),
		slog.String("name", candidate.Name))
}
