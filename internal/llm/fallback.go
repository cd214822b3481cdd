package llm

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/starford/coachnudge/internal/domain"
)

// FallbackCoachingNudge is the generic suggestion used when coaching
// generation fails.
func FallbackCoachingNudge(s domain.Supervisee) string {
	return fmt.Sprintf("Consider scheduling a brief check-in with %s to discuss their recent work and development goals.", s.Name)
}

// GenericReflectionPrompt picks one of a small fixed set of prompts, used
// when reflection generation fails.
func GenericReflectionPrompt(s domain.Supervisee) string {
	prompts := []string{
		fmt.Sprintf("How has %s been performing on their current project?", s.Name),
		fmt.Sprintf("Have you noticed any growth areas or wins for %s recently?", s.Name),
		fmt.Sprintf("What's one thing %s did well this week?", s.Name),
		fmt.Sprintf("Is there anything %s might be struggling with?", s.Name),
	}
	return prompts[rand.Intn(len(prompts))]
}

// FallbackSynthesis renders a purely local summary for clients that want
// something to show when the model is unreachable. The synthesis flow
// itself still propagates the error.
func FallbackSynthesis(s domain.Supervisee) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Summary for %s\n\n", s.Name)

	fmt.Fprintf(&b, "### Overview\n")
	fmt.Fprintf(&b, "You have recorded %d observation %s and %d background %s for %s.\n\n",
		len(s.Notes), plural("note", len(s.Notes)),
		len(s.Documents), plural("document", len(s.Documents)),
		s.Name)

	if len(s.Notes) > 0 {
		b.WriteString("### Recent Notes\n")
		recent := s.Notes
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		for _, n := range recent {
			content := n.Content
			if len(content) > 100 {
				content = content[:100] + "..."
			}
			fmt.Fprintf(&b, "- [%s] %s\n", n.CreatedAt.Format("2006-01-02"), content)
		}
		b.WriteString("\n")
	}

	b.WriteString("### Next Steps\n")
	b.WriteString("- Review recent observations and identify patterns\n")
	fmt.Fprintf(&b, "- Schedule a development conversation with %s\n", s.Name)
	b.WriteString("- Continue capturing regular observations\n")

	return b.String()
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
