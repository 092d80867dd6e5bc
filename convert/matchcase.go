package convert

import "strings"

// NoPatternWarning is set on a MatchCaseResult when the reference has no
// letters to take a case pattern from.
const NoPatternWarning = "The reference text contains no letters A-Z, so there is no case pattern to apply."

// MatchCaseResult is the output of ApplyMatchCase.
type MatchCaseResult struct {
	Output         string `json:"output"`
	PatternLength  int    `json:"pattern_length"`
	AppliedLetters int    `json:"applied_letters"`
	Warning        string `json:"warning,omitempty"`
}

// ApplyMatchCase copies the upper/lower pattern of the letters in reference
// onto the letters of target, repeating the pattern when target is longer.
// Only ASCII letters take part; every other character of target, accented
// letters included, is left as is.
func ApplyMatchCase(reference, target string) MatchCaseResult {
	pattern := casePattern(reference)
	if len(pattern) == 0 {
		return MatchCaseResult{Output: target, Warning: NoPatternWarning}
	}

	var out strings.Builder
	out.Grow(len(target))

	applied := 0
	for _, r := range target {
		if !IsASCIILetter(r) {
			out.WriteRune(r)
			continue
		}
		if pattern[applied%len(pattern)] {
			out.WriteRune(toUpperASCII(r))
		} else {
			out.WriteRune(toLowerASCII(r))
		}
		applied++
	}

	return MatchCaseResult{
		Output:         out.String(),
		PatternLength:  len(pattern),
		AppliedLetters: applied,
	}
}

// casePattern returns true for every uppercase and false for every lowercase
// ASCII letter of s.
func casePattern(s string) []bool {
	var pattern []bool
	for _, r := range s {
		if IsASCIILetter(r) {
			pattern = append(pattern, isUpperASCII(r))
		}
	}
	return pattern
}
