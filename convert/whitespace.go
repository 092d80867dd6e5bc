package convert

import "strings"

// WhitespaceStats counts what CleanWhitespace changed.
type WhitespaceStats struct {
	TabRuns   int `json:"tab_runs"`
	Tabs      int `json:"tabs"`
	NBSP      int `json:"nbsp"`
	ZeroWidth int `json:"zero_width"`
}

// Changed reports whether any character was replaced or removed.
func (s WhitespaceStats) Changed() bool {
	return s.Tabs+s.NBSP+s.ZeroWidth > 0
}

// WhitespaceResult is the output of CleanWhitespace.
type WhitespaceResult struct {
	Output string          `json:"output"`
	Stats  WhitespaceStats `json:"stats"`
}

// CleanWhitespace replaces every run of tabs with a single space, turns
// non-breaking spaces into plain spaces and removes zero-width characters.
// Cleaning already clean text returns it unchanged.
func CleanWhitespace(input string) WhitespaceResult {
	var (
		out   strings.Builder
		stats WhitespaceStats
	)
	out.Grow(len(input))

	inTabs := false
	for _, r := range input {
		if r == '\t' {
			stats.Tabs++
			if !inTabs {
				stats.TabRuns++
				out.WriteByte(' ')
				inTabs = true
			}
			continue
		}
		inTabs = false

		switch {
		case r == nbsp:
			stats.NBSP++
			out.WriteByte(' ')
		case IsZeroWidth(r):
			stats.ZeroWidth++
		default:
			out.WriteRune(r)
		}
	}

	return WhitespaceResult{Output: out.String(), Stats: stats}
}
