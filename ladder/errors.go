package ladder

import "errors"

var (
	// ErrFormat is the sentinel wrapped by every FormatError.
	ErrFormat = errors.New("ladder: input is not ladder notation")

	// ErrNilProgram is a construction-time precondition failure.
	ErrNilProgram = errors.New("ladder: nil program")
)

// Format rules a FormatError can report. The messages double as instructions
// for an automated regenerate-and-retry caller, so they say what to emit,
// not just what went wrong.
const (
	RuleMarkup    = "markup"
	RuleTable     = "table"
	RuleNoNetwork = "no-network"
)

// FormatError reports input that cannot be safely interpreted as ladder
// notation. It is always recoverable: the caller re-submits corrected text.
type FormatError struct {
	Rule    string
	Message string
}

func (e *FormatError) Error() string { return "ladder: " + e.Message }

func (e *FormatError) Unwrap() error { return ErrFormat }

// Formatf builds a FormatError for a rule.
func Formatf(rule, message string) *FormatError {
	return &FormatError{Rule: rule, Message: message}
}
