package convert

import (
	"strconv"
	"strings"
)

// EncodeTextToBinary renders each ASCII character of input as a zero-padded
// binary token of exactly width bits (7 or 8), separated by single spaces.
// Whitespace and control characters are encoded like any other character.
//
// Input containing a code point above 127 is rejected with an
// *InvalidInputError; no partial output is returned.
func EncodeTextToBinary(input string, width int) (string, error) {
	if width != 7 && width != 8 {
		return "", invalidOption("text-to-binary", "bit width must be 7 or 8, got %d", width)
	}

	tokens := make([]string, 0, len(input))
	pos := 0
	for _, r := range input {
		if r > maxASCII {
			return "", &InvalidInputError{
				Tool:     "text-to-binary",
				Reason:   "only ASCII characters (0-127) can be encoded",
				Char:     r,
				Position: pos,
			}
		}
		tokens = append(tokens, padBits(strconv.FormatInt(int64(r), 2), width))
		pos++
	}

	return strings.Join(tokens, " "), nil
}

func padBits(bits string, width int) string {
	if len(bits) >= width {
		return bits
	}
	return strings.Repeat("0", width-len(bits)) + bits
}
