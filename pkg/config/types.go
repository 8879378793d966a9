package config

import (
	"fmt"
	"strings"
)

// SkipReason explains why the parser ignored a line.
type SkipReason string

const (
	// SkipBlank is an empty or whitespace-only line.
	SkipBlank SkipReason = "blank"

	// SkipComment is a line whose first non-space character is '#'.
	SkipComment SkipReason = "comment"

	// SkipMalformed is a line that is neither a section header nor a
	// KEY is VALUE; assignment.
	SkipMalformed SkipReason = "malformed"
)

// SkippedLine records a line the parser ignored.
type SkippedLine struct {
	// Line is the 1-indexed line number.
	Line int `json:"line"`

	// Text is the trimmed line content.
	Text string `json:"text"`

	// Reason is why the line was skipped.
	Reason SkipReason `json:"reason"`
}

// Stats summarises a single parse.
type Stats struct {
	// Lines is the number of lines read, including skipped ones.
	Lines int `json:"lines"`

	// Assignments is the number of KEY is VALUE; lines evaluated.
	Assignments int `json:"assignments"`

	// Headers is the number of [Section] lines, redeclarations included.
	Headers int `json:"headers"`

	// Skipped counts ignored lines by reason.
	Skipped map[SkipReason]int `json:"skipped,omitempty"`
}

// ValidationError represents a validation error with location information.
type ValidationError struct {
	// File is the source file path.
	File string `json:"file,omitempty"`

	// Line is the line number (1-indexed).
	Line int `json:"line,omitempty"`

	// Column is the column number (1-indexed).
	Column int `json:"column,omitempty"`

	// Path is the dotted path to the offending value (e.g., "database.PORT").
	Path string `json:"path,omitempty"`

	// Message is the error message.
	Message string `json:"message"`

	// Severity is the error severity (error, warning, info).
	Severity string `json:"severity" validate:"required,oneof=error warning info"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
		}
		b.WriteString(": ")
	}
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationErrors is a list of validation failures returned as one error.
type ValidationErrors []ValidationError

// Error joins the individual messages, one per line.
func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}
