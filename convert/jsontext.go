package convert

import (
	"strconv"
	"strings"
)

// InvalidJSONMessage is the failure message of ExtractJSONText.
const InvalidJSONMessage = "Invalid JSON. Please check your input and try again."

// Separator selects how extracted values are joined.
type Separator string

const (
	SeparatorNewline Separator = "newline"
	SeparatorSpace   Separator = "space"
)

// JSONTextOptions configures ExtractJSONText.
type JSONTextOptions struct {
	Separator   Separator
	IncludeKeys bool
}

// JSONTextResult is either a success (OK with Text and counts) or a failure
// carrying Error.
type JSONTextResult struct {
	OK             bool   `json:"ok"`
	Text           string `json:"text,omitempty"`
	ExtractedCount int    `json:"extracted_count"`
	SkippedCount   int    `json:"skipped_count"`
	Error          string `json:"error,omitempty"`
}

// ExtractJSONText collects every primitive value of the JSON document raw,
// in document order. With IncludeKeys each value is prefixed by its path,
// e.g. "items[0].name: pen". Empty strings are skipped.
//
// It never panics; malformed JSON yields a failed result.
func ExtractJSONText(raw string, opts JSONTextOptions) JSONTextResult {
	if strings.TrimSpace(raw) == "" {
		return JSONTextResult{OK: true}
	}

	doc, err := ParseJSON(raw)
	if err != nil {
		return JSONTextResult{Error: InvalidJSONMessage}
	}

	w := &leafWalker{includeKeys: opts.IncludeKeys}
	w.visit(doc, nil)

	return JSONTextResult{
		OK:             true,
		Text:           joinFragments(w.fragments, opts.Separator),
		ExtractedCount: w.extracted,
		SkippedCount:   w.skipped,
	}
}

type leafWalker struct {
	includeKeys bool
	fragments   []string
	extracted   int
	skipped     int
}

// visit walks v in document order. path is only built with includeKeys;
// children append to it in place and it is copied at the leaves.
func (w *leafWalker) visit(v Value, path []byte) {
	switch v := v.(type) {
	case Array:
		for i, el := range v {
			p := path
			if w.includeKeys {
				p = append(p, '[')
				p = strconv.AppendInt(p, int64(i), 10)
				p = append(p, ']')
			}
			w.visit(el, p)
		}
	case Object:
		for _, m := range v {
			p := path
			if w.includeKeys {
				if len(p) > 0 {
					p = append(p, '.')
				}
				p = append(p, m.Key...)
			}
			w.visit(m.Value, p)
		}
	default:
		w.leaf(leafText(v), path)
	}
}

func (w *leafWalker) leaf(text string, path []byte) {
	if text == "" {
		w.skipped++
		return
	}
	w.extracted++
	if w.includeKeys && len(path) > 0 {
		text = string(path) + ": " + text
	}
	w.fragments = append(w.fragments, text)
}

func leafText(v Value) string {
	switch v := v.(type) {
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(v))
	case Number:
		return FormatNumber(float64(v))
	case String:
		return string(v)
	}
	return ""
}

func joinFragments(fragments []string, sep Separator) string {
	if sep != SeparatorSpace {
		return strings.Join(fragments, "\n")
	}

	kept := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if f = strings.Join(strings.Fields(f), " "); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}
