// Package convert holds the text-conversion tools: small, pure string
// transformations that return their output together with simple statistics.
//
// Every function is deterministic and safe for concurrent use. None of them
// logs or touches the filesystem; hosts pass the current input in and assign
// the returned value.
package convert

import "strings"

const (
	// PrintableMin is the lowest printable ASCII code (space).
	PrintableMin = 32
	// PrintableMax is the highest printable ASCII code (tilde).
	PrintableMax = 126

	maxASCII  = 127
	maxLatin1 = 255

	nbsp = '\u00A0'
)

// zeroWidthChars lists the invisible code points the tools detect and strip.
var zeroWidthChars = []rune{'\u200B', '\u200C', '\u200D', '\u2060', '\uFEFF'}

// IsPrintableASCII reports whether r is in the printable ASCII range 32..126.
func IsPrintableASCII(r rune) bool {
	return r >= PrintableMin && r <= PrintableMax
}

// IsZeroWidth reports whether r is one of the detected zero-width characters.
func IsZeroWidth(r rune) bool {
	for _, zw := range zeroWidthChars {
		if r == zw {
			return true
		}
	}
	return false
}

func isUpperASCII(r rune) bool { return r >= 'A' && r <= 'Z' }

func isLowerASCII(r rune) bool { return r >= 'a' && r <= 'z' }

// IsASCIILetter reports whether r is A-Z or a-z.
func IsASCIILetter(r rune) bool {
	return isUpperASCII(r) || isLowerASCII(r)
}

func isASCIIDigit(r rune) bool { return r >= '0' && r <= '9' }

func toUpperASCII(r rune) rune {
	if isLowerASCII(r) {
		return r - ('a' - 'A')
	}
	return r
}

func toLowerASCII(r rune) rune {
	if isUpperASCII(r) {
		return r + ('a' - 'A')
	}
	return r
}

// normalizeNewlines converts \r\n and lone \r to \n.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
