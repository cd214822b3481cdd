package llm

import (
	"fmt"
	"strings"

	"github.com/starford/coachnudge/internal/domain"
)

// superviseeContext renders the profile block shared by every prompt:
// name, background documents, then observation notes in order.
func superviseeContext(s domain.Supervisee) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Supervisee: %s\n\n", s.Name)

	if len(s.Documents) > 0 {
		b.WriteString("Background Documents:\n")
		for _, doc := range s.Documents {
			fmt.Fprintf(&b, "- %s:\n%s\n\n", doc.Name, doc.Content)
		}
	}

	if len(s.Notes) > 0 {
		b.WriteString("Observation Notes (chronological):\n")
		for _, note := range s.Notes {
			fmt.Fprintf(&b, "- [%s] %s\n", note.CreatedAt.Format("2006-01-02"), note.Content)
		}
	}

	return b.String()
}

func coachingPrompt(s domain.Supervisee) string {
	return fmt.Sprintf(`You are a coaching assistant for a consultant who manages junior team members. Based on the following supervisee profile and recent observations, generate ONE specific, actionable coaching suggestion.

%s

Generate a brief coaching nudge (2-3 sentences) that:
1. References specific observations or patterns you noticed
2. Suggests a concrete action the manager could take
3. Ties to the supervisee's development goals or preferences if known

Keep the tone warm, professional, and actionable. Start with a verb (e.g., "Consider...", "Try...", "Schedule...").`, superviseeContext(s))
}

func reflectionPrompt(s domain.Supervisee) string {
	// Only the five most recent notes feed the reflection prompt.
	recent := s.Notes
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	notesContext := "No recent observations recorded."
	if len(recent) > 0 {
		var lines []string
		for _, n := range recent {
			lines = append(lines, "- "+n.Content)
		}
		notesContext = "Recent observations:\n" + strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`You are a coaching assistant helping a consultant reflect on their supervisee.

Supervisee: %s
%s

Generate a single, thoughtful reflection prompt (one question) to help the manager think about %s's recent work or development. The question should:
1. Be specific and observation-focused
2. Help surface insights the manager might have but hasn't articulated
3. Be easy to answer in 1-2 sentences

Just return the question, nothing else.`, s.Name, notesContext, s.Name)
}

func synthesisPrompt(s domain.Supervisee) string {
	return fmt.Sprintf(`You are a coaching assistant helping a consultant prepare for a development conversation with their supervisee. Based on the following profile and observations, generate a comprehensive coaching synthesis.

%s

Generate a structured summary with the following sections:

## Key Themes
List 2-3 recurring patterns or themes you've noticed in the observations.

## Wins & Positive Moments
Highlight specific accomplishments, strengths, or positive behaviors observed.

## Growth Areas
Identify 1-2 areas where development focus could be valuable, based on the observations.

## Coaching Focus Suggestions
Provide 2-3 specific conversation topics or actions for the next coaching session.

Keep the tone constructive and development-focused. Reference specific observations where relevant.`, superviseeContext(s))
}
