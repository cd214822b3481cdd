package caseteam

import (
	"testing"

	"github.com/starford/coachnudge/internal/domain"
)

func TestGetNormalizesCode(t *testing.T) {
	for _, code := range []string{"DEMO", "demo", "  Demo  "} {
		team := Get(code)
		if team == nil {
			t.Fatalf("Get(%q) = nil", code)
		}
		if team.CaseCode != "DEMO" || team.CaseName != "TechCorp Digital Transformation" {
			t.Errorf("Get(%q) = %s/%s", code, team.CaseCode, team.CaseName)
		}
	}
}

func TestGetUnknownCode(t *testing.T) {
	if Get("NOPE") != nil {
		t.Error("unknown code must yield nil")
	}
	if Get("") != nil {
		t.Error("empty code must yield nil")
	}
}

func TestDemoRoster(t *testing.T) {
	team := Get("DEMO")
	if team == nil {
		t.Fatal("DEMO roster missing")
	}
	if len(team.Supervisees) != 3 {
		t.Fatalf("DEMO roster = %d supervisees, want 3", len(team.Supervisees))
	}

	byName := map[string]domain.Supervisee{}
	for _, s := range team.Supervisees {
		if s.ID == "" {
			t.Errorf("supervisee %q has no id", s.Name)
		}
		byName[s.Name] = s
	}

	nick, ok := byName["Nick Chen"]
	if !ok {
		t.Fatal("Nick Chen missing from DEMO roster")
	}
	if len(nick.Documents) == 0 || len(nick.Notes) == 0 {
		t.Error("Nick Chen should carry documents and notes")
	}
	if nick.LastNudgeAt == nil {
		t.Error("Nick Chen should have been nudged before")
	}

	marcus, ok := byName["Marcus Johnson"]
	if !ok {
		t.Fatal("Marcus Johnson missing from DEMO roster")
	}
	if marcus.LastNudgeAt != nil {
		t.Error("Marcus Johnson should be never-nudged")
	}
}

func TestDemo1Roster(t *testing.T) {
	team := Get("demo1")
	if team == nil {
		t.Fatal("DEMO1 roster missing")
	}
	if team.CaseName != "ACME Corp Cost Optimization" {
		t.Errorf("case name = %q", team.CaseName)
	}
	if len(team.Supervisees) != 2 {
		t.Errorf("DEMO1 roster = %d supervisees, want 2", len(team.Supervisees))
	}
}

func TestRostersAreIndependentPerCall(t *testing.T) {
	a := Get("DEMO")
	b := Get("DEMO")
	if a.Supervisees[0].ID == b.Supervisees[0].ID {
		t.Error("two loads of the same case share supervisee ids")
	}
}

func TestIsValidAndAvailableCodes(t *testing.T) {
	for _, code := range AvailableCodes() {
		if !IsValid(code) {
			t.Errorf("advertised code %q is not valid", code)
		}
	}
	if IsValid("UNKNOWN") {
		t.Error("IsValid accepted an unknown code")
	}
}
