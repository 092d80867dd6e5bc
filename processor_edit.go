package main

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pstuifzand/go-textconv/convert"
)

// Editing tools: affixes, substrings and regular expressions.

func titleCase(input string, _ Params) (Output, error) {
	return Output{Text: cases.Title(language.Und).String(input)}, nil
}

func trimLeft(input string, _ Params) (Output, error) {
	return Output{Text: strings.TrimLeftFunc(input, unicode.IsSpace)}, nil
}

func trimRight(input string, _ Params) (Output, error) {
	return Output{Text: strings.TrimRightFunc(input, unicode.IsSpace)}, nil
}

func addPrefix(input string, params Params) (Output, error) {
	return Output{Text: processEscapeSequences(params["prefix"]) + input}, nil
}

func addSuffix(input string, params Params) (Output, error) {
	return Output{Text: input + processEscapeSequences(params["suffix"])}, nil
}

func removePrefix(input string, params Params) (Output, error) {
	return Output{Text: strings.TrimPrefix(input, processEscapeSequences(params["prefix"]))}, nil
}

func removeSuffix(input string, params Params) (Output, error) {
	return Output{Text: strings.TrimSuffix(input, processEscapeSequences(params["suffix"]))}, nil
}

// surroundText wraps text with prefix and suffix
func surroundText(input string, params Params) (Output, error) {
	return Output{Text: processEscapeSequences(params["prefix"]) + input + processEscapeSequences(params["suffix"])}, nil
}

// countParam reads a non-negative character count
func countParam(params Params, tool, key string, def int) (int, error) {
	n, err := params.RequireInt(tool, key, def)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, &convert.InvalidInputError{Tool: tool, Reason: key + " must not be negative", Position: -1}
	}
	return n, nil
}

// leftChars keeps the first count characters
func leftChars(input string, params Params) (Output, error) {
	count, err := countParam(params, "left-chars", "count", 1)
	if err != nil {
		return Output{}, err
	}
	runes := []rune(input)
	return Output{Text: string(runes[:min(count, len(runes))])}, nil
}

// rightChars keeps the last count characters
func rightChars(input string, params Params) (Output, error) {
	count, err := countParam(params, "right-chars", "count", 1)
	if err != nil {
		return Output{}, err
	}
	runes := []rune(input)
	return Output{Text: string(runes[len(runes)-min(count, len(runes)):])}, nil
}

// midChars keeps count characters starting at the zero-based position
func midChars(input string, params Params) (Output, error) {
	position, err := countParam(params, "mid-chars", "position", 0)
	if err != nil {
		return Output{}, err
	}
	count, err := countParam(params, "mid-chars", "count", 1)
	if err != nil {
		return Output{}, err
	}

	runes := []rune(input)
	if position >= len(runes) {
		return Output{Text: ""}, nil
	}
	end := min(position+count, len(runes))
	return Output{Text: string(runes[position:end])}, nil
}

// splitFormat splits text on separator and fills the {1}, {2}, ...
// placeholders of format with the parts; {0} is the whole input.
func splitFormat(input string, params Params) (Output, error) {
	sep := processEscapeSequences(params["separator"])
	format := processEscapeSequences(params["format"])
	if sep == "" || format == "" {
		return Output{Text: input}, nil
	}

	parts := strings.Split(input, sep)
	pairs := []string{"{0}", input}
	for i, part := range parts {
		pairs = append(pairs, "{"+strconv.Itoa(i+1)+"}", part)
	}
	return Output{
		Text:  strings.NewReplacer(pairs...).Replace(format),
		Stats: map[string]int{"parts": len(parts)},
	}, nil
}

// compilePattern compiles a pattern with the flags i (ignore case) and s
// (dot matches newline). Multi-line mode is always on.
func compilePattern(tool, pattern, flags string) (*regexp.Regexp, error) {
	prefix := "(?m"
	if strings.ContainsRune(flags, 'i') {
		prefix += "i"
	}
	if strings.ContainsRune(flags, 's') {
		prefix += "s"
	}

	re, err := regexp.Compile(prefix + ")" + pattern)
	if err != nil {
		return nil, &convert.InvalidInputError{Tool: tool, Reason: "invalid pattern: " + err.Error(), Position: -1}
	}
	return re, nil
}

// filterLines keeps the lines for which the pattern match equals keep
func filterLines(tool string, keep bool) func(string, Params) (Output, error) {
	return func(input string, params Params) (Output, error) {
		pattern := params["pattern"]
		if pattern == "" {
			return Output{Text: input}, nil
		}
		re, err := compilePattern(tool, pattern, params["flags"])
		if err != nil {
			return Output{}, err
		}

		lines := strings.Split(input, "\n")
		kept := make([]string, 0, len(lines))
		for _, line := range lines {
			if re.MatchString(line) == keep {
				kept = append(kept, line)
			}
		}
		return Output{
			Text:  strings.Join(kept, "\n"),
			Stats: map[string]int{"lines": len(lines), "kept": len(kept)},
		}, nil
	}
}

// matchText lists every match of the pattern, one per line
func matchText(input string, params Params) (Output, error) {
	pattern := params["pattern"]
	if pattern == "" {
		return Output{Text: input}, nil
	}
	re, err := compilePattern("match-text", pattern, params["flags"])
	if err != nil {
		return Output{}, err
	}

	matches := re.FindAllString(input, -1)
	return Output{
		Text:  strings.Join(matches, "\n"),
		Stats: map[string]int{"matches": len(matches)},
	}, nil
}

// replaceRegex replaces every match; the replacement may use $1 or ${name}
func replaceRegex(input string, params Params) (Output, error) {
	pattern := params["pattern"]
	if pattern == "" {
		return Output{Text: input}, nil
	}
	re, err := compilePattern("replace-regex", pattern, params["flags"])
	if err != nil {
		return Output{}, err
	}

	replacements := len(re.FindAllStringIndex(input, -1))
	return Output{
		Text:  re.ReplaceAllString(input, processEscapeSequences(params["replace"])),
		Stats: map[string]int{"replacements": replacements},
	}, nil
}
