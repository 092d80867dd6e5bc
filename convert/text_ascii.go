package convert

import (
	"strconv"
	"strings"
)

// Delimiter selects how encoded values are joined.
type Delimiter string

const (
	DelimiterSpace Delimiter = "space"
	DelimiterComma Delimiter = "comma"
)

func (d Delimiter) joiner() string {
	if d == DelimiterComma {
		return ", "
	}
	return " "
}

// ASCIIOptions configures EncodeTextToASCII.
type ASCIIOptions struct {
	Delimiter     Delimiter
	PrintableOnly bool
}

// SkipBreakdown counts skipped code points by reason.
type SkipBreakdown struct {
	Tabs            int `json:"tabs"`
	Newlines        int `json:"newlines"`
	CarriageReturns int `json:"carriage_returns"`
	NBSP            int `json:"nbsp"`
	ZeroWidth       int `json:"zero_width"`
	NonASCII        int `json:"non_ascii"`
	Other           int `json:"other"`
}

// ASCIIStats summarises an EncodeTextToASCII call.
type ASCIIStats struct {
	Total            int           `json:"total"`
	Encoded          int           `json:"encoded"`
	Skipped          int           `json:"skipped"`
	SkippedBreakdown SkipBreakdown `json:"skipped_breakdown"`
}

// ASCIIResult is the output of EncodeTextToASCII.
type ASCIIResult struct {
	Output string     `json:"output"`
	Stats  ASCIIStats `json:"stats"`
}

// EncodeTextToASCII writes the decimal code of every character of input.
//
// With PrintableOnly only codes 32..126 are encoded. Without it codes up to
// 255 are encoded and anything above is skipped as non-ASCII.
func EncodeTextToASCII(input string, opts ASCIIOptions) ASCIIResult {
	var (
		stats ASCIIStats
		codes []string
	)

	for _, r := range input {
		stats.Total++

		if opts.PrintableOnly && !IsPrintableASCII(r) {
			stats.Skipped++
			classifySkip(r, &stats.SkippedBreakdown)
			continue
		}
		if !opts.PrintableOnly && r > maxLatin1 {
			stats.Skipped++
			stats.SkippedBreakdown.NonASCII++
			continue
		}

		codes = append(codes, strconv.Itoa(int(r)))
		stats.Encoded++
	}

	return ASCIIResult{
		Output: strings.Join(codes, opts.Delimiter.joiner()),
		Stats:  stats,
	}
}

func classifySkip(r rune, b *SkipBreakdown) {
	switch {
	case r == '\t':
		b.Tabs++
	case r == '\n':
		b.Newlines++
	case r == '\r':
		b.CarriageReturns++
	case r == nbsp:
		b.NBSP++
	case IsZeroWidth(r):
		b.ZeroWidth++
	case r > maxASCII:
		b.NonASCII++
	default:
		b.Other++
	}
}
