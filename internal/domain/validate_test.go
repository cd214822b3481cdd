package domain

import (
	"testing"
	"time"
)

func TestValidateName(t *testing.T) {
	if err := ValidateName("Nick Chen"); err != nil {
		t.Errorf("valid name rejected: %v", err)
	}
	if err := ValidateName(""); err == nil {
		t.Error("empty name accepted")
	}
	if err := ValidateName("   "); err == nil {
		t.Error("whitespace-only name accepted")
	}
}

func TestValidateNoteContent(t *testing.T) {
	if err := ValidateNoteContent("did well today"); err != nil {
		t.Errorf("valid content rejected: %v", err)
	}
	if err := ValidateNoteContent("\t\n "); err == nil {
		t.Error("blank content accepted")
	}
}

func TestValidateDocument(t *testing.T) {
	if err := ValidateDocument("prefs.md", "content"); err != nil {
		t.Errorf("valid document rejected: %v", err)
	}
	if err := ValidateDocument("", "content"); err == nil {
		t.Error("blank document name accepted")
	}
	if err := ValidateDocument("prefs.md", "  "); err == nil {
		t.Error("blank document content accepted")
	}
}

func TestValidateNoteSource(t *testing.T) {
	if err := ValidateNoteSource(SourceManual); err != nil {
		t.Errorf("manual rejected: %v", err)
	}
	if err := ValidateNoteSource(SourceNudge); err != nil {
		t.Errorf("nudge rejected: %v", err)
	}
	if err := ValidateNoteSource("telepathy"); err == nil {
		t.Error("unknown source accepted")
	}
}

func TestNormalizeCaseCode(t *testing.T) {
	cases := map[string]string{
		"demo":     "DEMO",
		"  Demo1 ": "DEMO1",
		"DEMO":     "DEMO",
		"":         "",
	}
	for in, want := range cases {
		if got := NormalizeCaseCode(in); got != want {
			t.Errorf("NormalizeCaseCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := NewSupervisee("Sarah Park", "GC")
	s.Notes = append(s.Notes, NewNote("original", SourceManual))
	s.Documents = append(s.Documents, NewDocument("prefs", "content"))
	last := s.CreatedAt
	s.LastNudgeAt = &last

	c := s.Clone()
	c.Notes[0].Content = "mutated"
	c.Documents[0].Name = "mutated"
	*c.LastNudgeAt = c.LastNudgeAt.Add(24 * time.Hour)

	if s.Notes[0].Content != "original" {
		t.Error("clone shares notes with the original")
	}
	if s.Documents[0].Name != "prefs" {
		t.Error("clone shares documents with the original")
	}
	if !s.LastNudgeAt.Equal(last) {
		t.Error("clone shares lastNudgeAt with the original")
	}
}

func TestDefaultSchedule(t *testing.T) {
	sch := DefaultSchedule("s1")
	if sch.SuperviseeID != "s1" {
		t.Errorf("supervisee id = %q", sch.SuperviseeID)
	}
	if !sch.CoachingEnabled || !sch.ReflectionEnabled {
		t.Error("defaults must enable both nudge types")
	}
	if len(sch.CoachingDays) != 1 || sch.CoachingDays[0] != "monday" {
		t.Errorf("coaching days = %v", sch.CoachingDays)
	}
	if len(sch.ReflectionDays) != 1 || sch.ReflectionDays[0] != "friday" {
		t.Errorf("reflection days = %v", sch.ReflectionDays)
	}
}
