package domain

import "fmt"

// JournalError is the base error type with context.
type JournalError struct {
	Phase      string // "config", "capture", "write", "cleanup", "template", "render"
	File       string
	Message    string
	Suggestion string
	Cause      error
}

func (e *JournalError) Error() string {
	s := fmt.Sprintf("[%s]", e.Phase)
	if e.File != "" {
		s += fmt.Sprintf(" %s", e.File)
	}
	s += fmt.Sprintf(": %s", e.Message)
	if e.Cause != nil {
		s += fmt.Sprintf(": %v", e.Cause)
	}
	if e.Suggestion != "" {
		s += fmt.Sprintf(" (hint: %s)", e.Suggestion)
	}
	return s
}

func (e *JournalError) Unwrap() error {
	return e.Cause
}

// NewError creates a new JournalError.
func NewError(phase, file, message string, cause error) *JournalError {
	return &JournalError{
		Phase:   phase,
		File:    file,
		Message: message,
		Cause:   cause,
	}
}

// NewErrorWithSuggestion creates a JournalError carrying a hint for the user.
func NewErrorWithSuggestion(phase, file, message, suggestion string, cause error) *JournalError {
	err := NewError(phase, file, message, cause)
	err.Suggestion = suggestion
	return err
}
