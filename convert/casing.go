package convert

import (
	"strings"
	"unicode"
)

// ToUppercase maps every character to upper case. It is not locale aware.
func ToUppercase(input string) string {
	return strings.ToUpper(input)
}

// ToSentenceCase lower-cases input, then capitalises the first letter of the
// text and the first letter after each '.', '!' or '?'. Characters between
// the punctuation and that letter are left alone, so "1. item" stays
// "1. Item" and quotes or spaces do not stop the capitalisation.
func ToSentenceCase(input string) string {
	var out strings.Builder
	out.Grow(len(input))

	capitalize := true
	for _, r := range strings.ToLower(input) {
		switch {
		case capitalize && unicode.IsLetter(r):
			out.WriteRune(unicode.ToUpper(r))
			capitalize = false
			continue
		case r == '.' || r == '!' || r == '?':
			capitalize = true
		}
		out.WriteRune(r)
	}
	return out.String()
}
