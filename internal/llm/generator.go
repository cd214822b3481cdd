package llm

import (
	"context"
	"fmt"

	"github.com/starford/coachnudge/internal/domain"
)

// ContentGenerator produces nudge and synthesis text for a supervisee.
// Implementations may fail with network, auth, or empty-response errors;
// callers of the nudge operations are expected to hold a local fallback.
type ContentGenerator interface {
	CoachingNudge(ctx context.Context, s domain.Supervisee) (string, error)
	ReflectionPrompt(ctx context.Context, s domain.Supervisee) (string, error)
	Synthesis(ctx context.Context, s domain.Supervisee) (string, error)
}

// Generator implements ContentGenerator on top of a Provider.
type Generator struct {
	provider Provider
}

var _ ContentGenerator = (*Generator)(nil)

// NewGenerator wraps a provider with the coaching prompt builders.
func NewGenerator(p Provider) *Generator {
	return &Generator{provider: p}
}

// CoachingNudge asks the model for one actionable coaching suggestion.
func (g *Generator) CoachingNudge(ctx context.Context, s domain.Supervisee) (string, error) {
	return g.provider.Generate(ctx, coachingPrompt(s))
}

// ReflectionPrompt asks the model for a single reflection question.
func (g *Generator) ReflectionPrompt(ctx context.Context, s domain.Supervisee) (string, error) {
	return g.provider.Generate(ctx, reflectionPrompt(s))
}

// Synthesis asks the model for a structured coaching summary. Unlike the
// nudge flows this has no fallback: it is user-invoked and errors
// propagate. A supervisee with neither notes nor documents is rejected
// up front.
func (g *Generator) Synthesis(ctx context.Context, s domain.Supervisee) (string, error) {
	if len(s.Notes) == 0 && len(s.Documents) == 0 {
		return "", fmt.Errorf("no data available to generate synthesis for %s", s.Name)
	}
	return g.provider.Generate(ctx, synthesisPrompt(s))
}
