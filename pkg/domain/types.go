package domain

import (
	"fmt"
	"strings"
)

// CaptureMode decides which finished steps get a screenshot.
type CaptureMode string

const (
	CaptureAlways                  CaptureMode = "always"
	CaptureOnFailure               CaptureMode = "on_failure"
	CaptureOnFailureSkipDuplicates CaptureMode = "on_failure_skip_duplicates"
	CaptureAlwaysSkipDuplicates    CaptureMode = "always_skip_duplicates"
)

// CaptureModes lists every recognized mode in documentation order.
var CaptureModes = []CaptureMode{
	CaptureAlways,
	CaptureOnFailure,
	CaptureOnFailureSkipDuplicates,
	CaptureAlwaysSkipDuplicates,
}

// ParseCaptureMode converts a configuration string into a CaptureMode.
func ParseCaptureMode(s string) (CaptureMode, error) {
	mode := CaptureMode(strings.ToLower(strings.TrimSpace(s)))
	for _, m := range CaptureModes {
		if m == mode {
			return mode, nil
		}
	}
	names := make([]string, len(CaptureModes))
	for i, m := range CaptureModes {
		names[i] = string(m)
	}
	return "", NewErrorWithSuggestion("config", "", fmt.Sprintf("invalid capture mode %q", s),
		"set capture.mode to one of: "+strings.Join(names, ", "), nil)
}

// CapturesEveryStep reports whether passing steps are captured too.
func (m CaptureMode) CapturesEveryStep() bool {
	return m == CaptureAlways || m == CaptureAlwaysSkipDuplicates
}

// SkipsDuplicates reports whether identical consecutive captures are dropped.
func (m CaptureMode) SkipsDuplicates() bool {
	return m == CaptureOnFailureSkipDuplicates || m == CaptureAlwaysSkipDuplicates
}

// StepStatus is the result of a single executed step as reported by the runner.
type StepStatus string

const (
	StepPassed    StepStatus = "passed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
	StepPending   StepStatus = "pending"
	StepUndefined StepStatus = "undefined"
	StepAmbiguous StepStatus = "ambiguous"
)

// StepOutcome is what the host reports once a step has finished.
type StepOutcome struct {
	Status      StepStatus
	Description string // Step text, only used in error notices
}

// CaptureAttempt is the result of asking a capture mechanism for a screenshot.
// An empty Image with a nil Err means no screenshot was available.
type CaptureAttempt struct {
	Image []byte
	Err   error
}

// Available reports whether the attempt produced image bytes.
func (a CaptureAttempt) Available() bool {
	return a.Err == nil && len(a.Image) > 0
}
