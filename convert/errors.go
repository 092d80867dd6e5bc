package convert

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every *InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError reports input a tool refuses to convert rather than
// guess at. Position is the zero-based code point index, or -1 when the
// problem is not tied to a character (for example a bad option).
type InvalidInputError struct {
	Tool     string
	Reason   string
	Char     rune
	Position int
}

func (e *InvalidInputError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("%s: %s: %q (U+%04X) at position %d", e.Tool, e.Reason, e.Char, e.Char, e.Position)
	}
	return fmt.Sprintf("%s: %s", e.Tool, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) succeed.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidOption(tool, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Tool: tool, Reason: fmt.Sprintf(format, args...), Position: -1}
}
