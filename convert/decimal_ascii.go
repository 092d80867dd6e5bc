package convert

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// skippedPreviewLimit caps the number of skipped codes kept in a report.
const skippedPreviewLimit = 24

// DecimalASCIIReport describes what DecodeDecimalASCII did with its input.
type DecimalASCIIReport struct {
	ParsedCount    int      `json:"parsed_count"`
	ConvertedCount int      `json:"converted_count"`
	SkippedCount   int      `json:"skipped_count"`
	SkippedCodes   []uint64 `json:"skipped_codes"`
	PrintableMin   int      `json:"printable_min"`
	PrintableMax   int      `json:"printable_max"`
}

// DecimalASCIIResult is the output of DecodeDecimalASCII.
type DecimalASCIIResult struct {
	Output string             `json:"output"`
	Report DecimalASCIIReport `json:"report"`
}

// DecodeDecimalASCII extracts every run of decimal digits from input and maps
// codes in the printable ASCII range to characters. Anything that is not a
// digit separates numbers, so "72,101;108" and "72 101 108" decode alike.
// Codes outside 32..126 are counted as skipped; the first 24 are kept for
// preview.
func DecodeDecimalASCII(input string) DecimalASCIIResult {
	report := DecimalASCIIReport{
		SkippedCodes: []uint64{},
		PrintableMin: PrintableMin,
		PrintableMax: PrintableMax,
	}

	var out strings.Builder
	for _, token := range digitRuns(input) {
		code := parseCode(token)
		report.ParsedCount++

		if code >= PrintableMin && code <= PrintableMax {
			out.WriteByte(byte(code))
			report.ConvertedCount++
			continue
		}

		report.SkippedCount++
		if len(report.SkippedCodes) < skippedPreviewLimit {
			report.SkippedCodes = append(report.SkippedCodes, code)
		}
	}

	return DecimalASCIIResult{Output: out.String(), Report: report}
}

// digitRuns returns the maximal runs of ASCII digits in s, in order.
func digitRuns(s string) []string {
	var runs []string
	start := -1
	for i := 0; i < len(s); i++ {
		if isASCIIDigit(rune(s[i])) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, s[start:i])
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, s[start:])
	}
	return runs
}

// parseCode parses a digit run, saturating at math.MaxUint64 on overflow.
func parseCode(token string) uint64 {
	code, err := strconv.ParseUint(token, 10, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return math.MaxUint64
		}
		return 0
	}
	return code
}
