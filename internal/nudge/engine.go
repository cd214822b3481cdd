// Package nudge implements the nudge lifecycle: creation, the
// pending/completed/snoozed/dismissed transitions, and the at-most-one
// active nudge rule.
package nudge

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/coachnudge/internal/apperr"
	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/llm"
	"github.com/starford/coachnudge/internal/store"
)

// SnoozeDuration is the fixed snooze window.
const SnoozeDuration = 4 * time.Hour

// Engine drives nudge state transitions through the store. One generation
// request per supervisee may be outstanding at a time; a second trigger
// while one is in flight is refused.
type Engine struct {
	store  *store.Store
	gen    llm.ContentGenerator
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewEngine creates a lifecycle engine.
func NewEngine(st *store.Store, gen llm.ContentGenerator, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:    st,
		gen:      gen,
		logger:   logger,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

func (e *Engine) acquire(superviseeID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.inflight[superviseeID]; busy {
		return false
	}
	e.inflight[superviseeID] = struct{}{}
	return true
}

func (e *Engine) release(superviseeID string) {
	e.mu.Lock()
	delete(e.inflight, superviseeID)
	e.mu.Unlock()
}

// TriggerReflection creates a pending reflection nudge for the supervisee
// and makes it the active nudge (last trigger wins). Generation failure
// falls back to a generic prompt and is never surfaced.
func (e *Engine) TriggerReflection(ctx context.Context, s domain.Supervisee) (domain.Nudge, error) {
	if !e.acquire(s.ID) {
		return domain.Nudge{}, apperr.ErrGenerationInFlight
	}
	defer e.release(s.ID)

	content, err := e.gen.ReflectionPrompt(ctx, s)
	if err != nil {
		e.logger.Warn("reflection prompt generation failed, using generic prompt",
			slog.String("supervisee", s.ID),
			slog.String("error", err.Error()))
		content = llm.GenericReflectionPrompt(s)
	}
	return e.trigger(s, domain.NudgeReflection, content), nil
}

// TriggerCoaching creates a pending coaching nudge for the supervisee and
// makes it the active nudge. Generation failure falls back to the fixed
// check-in suggestion.
func (e *Engine) TriggerCoaching(ctx context.Context, s domain.Supervisee) (domain.Nudge, error) {
	if !e.acquire(s.ID) {
		return domain.Nudge{}, apperr.ErrGenerationInFlight
	}
	defer e.release(s.ID)

	content, err := e.gen.CoachingNudge(ctx, s)
	if err != nil {
		e.logger.Warn("coaching nudge generation failed, using fallback",
			slog.String("supervisee", s.ID),
			slog.String("error", err.Error()))
		content = llm.FallbackCoachingNudge(s)
	}
	return e.trigger(s, domain.NudgeCoaching, content), nil
}

// trigger appends a pending nudge carrying a snapshot of the supervisee
// and overwrites the active nudge, queue-less.
func (e *Engine) trigger(s domain.Supervisee, typ domain.NudgeType, content string) domain.Nudge {
	n := domain.Nudge{
		ID:           uuid.NewString(),
		SuperviseeID: s.ID,
		Supervisee:   s.Clone(),
		Type:         typ,
		Content:      content,
		Status:       domain.StatusPending,
		CreatedAt:    e.now(),
	}
	e.store.Dispatch(store.AddNudge{Nudge: n})
	e.store.Dispatch(store.SetActiveNudge{Nudge: &n})
	return n
}

// Complete finishes a nudge. A reflection nudge completed with a
// non-blank response atomically appends a nudge-sourced note to the owner
// and advances the owner's lastNudgeAt; any other completion just flips
// the status. Both paths clear the active nudge.
func (e *Engine) Complete(n domain.Nudge, response string) {
	response = strings.TrimSpace(response)
	if n.Type == domain.NudgeReflection && response != "" {
		note := domain.NewNote(response, domain.SourceNudge)
		e.store.Dispatch(store.CompleteNudgeWithNote{
			Nudge:       n,
			Note:        note,
			CompletedAt: e.now(),
		})
		return
	}

	n.Status = domain.StatusCompleted
	e.store.Dispatch(store.UpdateNudge{Nudge: n})
	e.store.Dispatch(store.SetActiveNudge{Nudge: nil})
}

// Snooze marks the nudge snoozed until now + SnoozeDuration and clears
// the active nudge. There is no automatic re-activation when the window
// elapses.
func (e *Engine) Snooze(n domain.Nudge) {
	until := e.now().Add(SnoozeDuration)
	n.Status = domain.StatusSnoozed
	n.SnoozedUntil = &until
	e.store.Dispatch(store.UpdateNudge{Nudge: n})
	e.store.Dispatch(store.SetActiveNudge{Nudge: nil})
}

// Dismiss marks the nudge dismissed and clears the active nudge.
func (e *Engine) Dismiss(n domain.Nudge) {
	n.Status = domain.StatusDismissed
	e.store.Dispatch(store.UpdateNudge{Nudge: n})
	e.store.Dispatch(store.SetActiveNudge{Nudge: nil})
}
