package domain

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Boundary validators. These run where user input enters the system (API
// handlers, MCP tools, inbox ingestion); the reducer itself trusts its
// inputs.

// ValidateName rejects names that are empty after trimming.
func ValidateName(name string) error {
	return validation.Validate(strings.TrimSpace(name),
		validation.Required.Error("name must not be blank"),
	)
}

// ValidateNoteContent rejects note content that is empty after trimming.
func ValidateNoteContent(content string) error {
	return validation.Validate(strings.TrimSpace(content),
		validation.Required.Error("note content must not be blank"),
	)
}

// ValidateDocument rejects documents whose name or content is blank.
func ValidateDocument(name, content string) error {
	if err := validation.Validate(strings.TrimSpace(name),
		validation.Required.Error("document name must not be blank"),
	); err != nil {
		return err
	}
	return validation.Validate(strings.TrimSpace(content),
		validation.Required.Error("document content must not be blank"),
	)
}

// ValidateNoteSource accepts only the two known provenance tags.
func ValidateNoteSource(source NoteSource) error {
	return validation.Validate(string(source),
		validation.Required,
		validation.In(string(SourceManual), string(SourceNudge)),
	)
}

// NormalizeCaseCode trims and upper-cases a case code for lookup.
func NormalizeCaseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
