// Package caseteam is the static case-code lookup: a keyed table of
// pre-built supervisee rosters standing in for a real backend.
package caseteam

import (
	"time"

	"github.com/google/uuid"

	"github.com/starford/coachnudge/internal/domain"
)

// Get returns the roster for a case code, or nil for unknown codes.
// Lookup is trimmed and case-insensitive. Rosters are built fresh on each
// call with ids and timestamps relative to now, so loading the same case
// twice yields independent data.
func Get(caseCode string) *domain.CaseTeam {
	switch domain.NormalizeCaseCode(caseCode) {
	case "DEMO":
		t := demoTeam()
		return &t
	case "DEMO1":
		t := demo1Team()
		return &t
	default:
		return nil
	}
}

// IsValid reports whether a case code resolves to a roster.
func IsValid(caseCode string) bool {
	return Get(caseCode) != nil
}

// AvailableCodes lists the known case codes.
func AvailableCodes() []string {
	return []string{"DEMO", "DEMO1"}
}

func daysAgo(days int) time.Time {
	return time.Now().Add(-time.Duration(days) * 24 * time.Hour)
}

func daysAgoPtr(days int) *time.Time {
	t := daysAgo(days)
	return &t
}

func demoTeam() domain.CaseTeam {
	return domain.CaseTeam{
		CaseCode: "DEMO",
		CaseName: "TechCorp Digital Transformation",
		Supervisees: []domain.Supervisee{
			{
				ID:    uuid.NewString(),
				Name:  "Nick Chen",
				Track: "GC",
				Documents: []domain.Document{
					{
						ID:         uuid.NewString(),
						Name:       "Coaching Preferences",
						Content:    "I'm energized by appreciation and public recognition. I prefer feedback to be direct but kind. I learn best through hands-on experience. Personality: ENFP, high energy, creative thinker. Development goals: Improve structured communication, get better at managing up.",
						UploadedAt: daysAgo(14),
					},
				},
				Notes: []domain.Note{
					{
						ID:        uuid.NewString(),
						Content:   "Nick did a great job on the market sizing slide - showed real creativity in approaching the problem from multiple angles",
						CreatedAt: daysAgo(5),
						Source:    domain.SourceManual,
					},
					{
						ID:        uuid.NewString(),
						Content:   "Noticed Nick seemed frustrated in the team meeting when his idea wasn't picked up. Should follow up on how to navigate group dynamics better.",
						CreatedAt: daysAgo(3),
						Source:    domain.SourceNudge,
					},
					{
						ID:        uuid.NewString(),
						Content:   "Nick stayed late to help the AC with her Excel model - good mentorship instinct and team spirit",
						CreatedAt: daysAgo(1),
						Source:    domain.SourceManual,
					},
				},
				CreatedAt:   daysAgo(14),
				LastNudgeAt: daysAgoPtr(3),
			},
			{
				ID:    uuid.NewString(),
				Name:  "Sarah Park",
				Track: "GC",
				Documents: []domain.Document{
					{
						ID:         uuid.NewString(),
						Name:       "Development Goals",
						Content:    "Focus areas for this year: 1) Building executive presence in client meetings, 2) Improving data visualization skills, 3) Taking more ownership of workstreams. Prefers written feedback first, then verbal discussion. Values work-life balance.",
						UploadedAt: daysAgo(21),
					},
				},
				Notes: []domain.Note{
					{
						ID:        uuid.NewString(),
						Content:   "Sarah led the client workshop with confidence - big improvement from last quarter",
						CreatedAt: daysAgo(4),
						Source:    domain.SourceManual,
					},
					{
						ID:        uuid.NewString(),
						Content:   "Need to help Sarah with prioritization - she tends to over-commit and then stress about deadlines",
						CreatedAt: daysAgo(2),
						Source:    domain.SourceNudge,
					},
				},
				CreatedAt:   daysAgo(21),
				LastNudgeAt: daysAgoPtr(2),
			},
			{
				ID:    uuid.NewString(),
				Name:  "Marcus Johnson",
				Track: "AIS",
				Documents: []domain.Document{
					{
						ID:         uuid.NewString(),
						Name:       "Technical Background",
						Content:    "ML Engineer background, 3 years at Google before consulting. Strong in Python, SQL, and cloud infrastructure. Learning consulting soft skills. Prefers detailed technical discussions. Development goals: Client communication, translating technical concepts for non-technical stakeholders, building executive presence.",
						UploadedAt: daysAgo(10),
					},
				},
				Notes: []domain.Note{
					{
						ID:        uuid.NewString(),
						Content:   "Marcus built an impressive demand forecasting model - client was blown away by the accuracy",
						CreatedAt: daysAgo(6),
						Source:    domain.SourceManual,
					},
					{
						ID:        uuid.NewString(),
						Content:   "In the client presentation, Marcus got too deep into technical details. Need to coach on audience calibration.",
						CreatedAt: daysAgo(2),
						Source:    domain.SourceManual,
					},
				},
				CreatedAt:   daysAgo(10),
				LastNudgeAt: nil,
			},
		},
	}
}

func demo1Team() domain.CaseTeam {
	return domain.CaseTeam{
		CaseCode: "DEMO1",
		CaseName: "ACME Corp Cost Optimization",
		Supervisees: []domain.Supervisee{
			{
				ID:    uuid.NewString(),
				Name:  "Emily Zhang",
				Track: "GC",
				Documents: []domain.Document{
					{
						ID:         uuid.NewString(),
						Name:       "Coaching Notes",
						Content:    "Strong analytical skills, detail-oriented. Sometimes struggles with ambiguity. Prefers clear direction but wants to grow in handling open-ended problems. ISTJ personality. Development goals: Comfort with ambiguity, stakeholder management.",
						UploadedAt: daysAgo(7),
					},
				},
				Notes:       []domain.Note{},
				CreatedAt:   daysAgo(7),
				LastNudgeAt: nil,
			},
			{
				ID:    uuid.NewString(),
				Name:  "David Kim",
				Track: "AIS",
				Documents: []domain.Document{
					{
						ID:         uuid.NewString(),
						Name:       "Background",
						Content:    "Data scientist with expertise in NLP and optimization. PhD from Stanford. First consulting role. Very strong technically but still learning the consulting toolkit. Development goals: Structuring problems, client relationship building, working in teams.",
						UploadedAt: daysAgo(7),
					},
				},
				Notes:       []domain.Note{},
				CreatedAt:   daysAgo(7),
				LastNudgeAt: nil,
			},
		},
	}
}
