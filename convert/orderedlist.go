package convert

import (
	"strconv"
	"strings"
)

// SplitMode selects how ConvertToOrderedList cuts its input into items.
type SplitMode string

const (
	SplitLines  SplitMode = "lines"
	SplitCommas SplitMode = "commas"
)

// MarkerStyle selects the item markers of an ordered list.
type MarkerStyle string

const (
	MarkerNumeric    MarkerStyle = "numeric"
	MarkerAlphaLower MarkerStyle = "alpha-lower"
	MarkerAlphaUpper MarkerStyle = "alpha-upper"
	MarkerRomanLower MarkerStyle = "roman-lower"
	MarkerRomanUpper MarkerStyle = "roman-upper"
)

const maxRoman = 3999

// OrderedListOptions configures ConvertToOrderedList.
type OrderedListOptions struct {
	SplitMode   SplitMode   `json:"split_mode"`
	MarkerStyle MarkerStyle `json:"marker_style"`
	StartAt     int         `json:"start_at"`
	TrimItems   bool        `json:"trim_items"`
	IgnoreEmpty bool        `json:"ignore_empty"`
}

// DefaultOrderedListOptions numbers trimmed, non-empty lines from 1.
func DefaultOrderedListOptions() OrderedListOptions {
	return OrderedListOptions{
		SplitMode:   SplitLines,
		MarkerStyle: MarkerNumeric,
		StartAt:     1,
		TrimItems:   true,
		IgnoreEmpty: true,
	}
}

func (o OrderedListOptions) normalized() OrderedListOptions {
	if o.SplitMode != SplitCommas {
		o.SplitMode = SplitLines
	}
	switch o.MarkerStyle {
	case MarkerAlphaLower, MarkerAlphaUpper, MarkerRomanLower, MarkerRomanUpper:
	default:
		o.MarkerStyle = MarkerNumeric
	}
	if o.StartAt < 1 {
		o.StartAt = 1
	}
	return o
}

// OrderedListResult is the output of ConvertToOrderedList. Applied holds the
// options after unknown values were replaced by their defaults.
type OrderedListResult struct {
	Output            string             `json:"output"`
	ItemCount         int                `json:"item_count"`
	RemovedEmptyCount int                `json:"removed_empty_count"`
	Applied           OrderedListOptions `json:"applied"`
}

// ConvertToOrderedList prefixes every item of input with a positional marker
// such as "3.", "C." or "iii.". The marker of the first item is StartAt.
func ConvertToOrderedList(input string, opts OrderedListOptions) OrderedListResult {
	opts = opts.normalized()

	sep := "\n"
	if opts.SplitMode == SplitCommas {
		sep = ","
	}

	var (
		items   []string
		removed int
	)
	for _, item := range strings.Split(normalizeNewlines(input), sep) {
		if opts.TrimItems {
			item = strings.TrimSpace(item)
		}
		if opts.IgnoreEmpty && item == "" {
			removed++
			continue
		}
		items = append(items, item)
	}

	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = ListMarker(opts.StartAt+i, opts.MarkerStyle) + ". " + item
	}

	return OrderedListResult{
		Output:            strings.Join(lines, "\n"),
		ItemCount:         len(items),
		RemovedEmptyCount: removed,
		Applied:           opts,
	}
}

// ListMarker renders ordinal n in the given style. Roman numerals only cover
// 1..3999; other ordinals fall back to decimal.
func ListMarker(n int, style MarkerStyle) string {
	switch style {
	case MarkerAlphaUpper:
		return AlphaMarker(n)
	case MarkerAlphaLower:
		return strings.ToLower(AlphaMarker(n))
	case MarkerRomanUpper:
		if r, ok := Roman(n); ok {
			return r
		}
	case MarkerRomanLower:
		if r, ok := Roman(n); ok {
			return strings.ToLower(r)
		}
	}
	return strconv.Itoa(n)
}

// AlphaMarker returns the bijective base-26 letters of n, as used for
// spreadsheet columns: 1 is A, 26 is Z, 27 is AA. It returns "" for n < 1.
func AlphaMarker(n int) string {
	var buf []byte
	for n > 0 {
		n--
		buf = append(buf, byte('A'+n%26))
		n /= 26
	}
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

var romanNumerals = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// Roman returns the subtractive roman numeral of n; ok is false outside
// 1..3999.
func Roman(n int) (string, bool) {
	if n < 1 || n > maxRoman {
		return "", false
	}
	var sb strings.Builder
	for _, rn := range romanNumerals {
		for n >= rn.value {
			sb.WriteString(rn.symbol)
			n -= rn.value
		}
	}
	return sb.String(), true
}
