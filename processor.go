package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/pstuifzand/go-textconv/convert"
)

// ErrUnknownTool is returned when a tool name is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// Params holds the string options of a tool invocation.
type Params map[string]string

// Get returns the value for key, or def when missing or empty.
func (p Params) Get(key, def string) string {
	if v, ok := p[key]; ok && v != "" {
		return v
	}
	return def
}

// Bool parses key as a boolean; "yes" and "on" count as true.
func (p Params) Bool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(p[key]))
	switch v {
	case "":
		return def
	case "yes", "on", "y":
		return true
	case "no", "off", "n":
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Int parses key as a decimal integer.
func (p Params) Int(key string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(p[key]))
	if err != nil {
		return def
	}
	return n
}

// RequireInt parses key as a decimal integer like Int, but a value that is
// present and malformed is an *InvalidInputError for tool.
func (p Params) RequireInt(tool, key string, def int) (int, error) {
	v := strings.TrimSpace(p[key])
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &convert.InvalidInputError{
			Tool:     tool,
			Reason:   fmt.Sprintf("%s must be an integer, got %q", key, v),
			Position: -1,
		}
	}
	return n, nil
}

// Output is the result of running a tool: the converted text and the
// tool-specific statistics, if any.
type Output struct {
	Text  string `json:"output"`
	Stats any    `json:"stats,omitempty"`
}

// Operation represents a named text conversion tool
type Operation struct {
	Name        string
	Description string
	Params      []string
	Func        func(input string, params Params) (Output, error)
}

// GetOperations returns all available tools
func GetOperations() []Operation {
	return []Operation{
		{"decimal-to-ascii", "Decode decimal ASCII codes to text", nil, decimalToASCII},
		{"text-to-ascii", "Encode text as decimal ASCII codes", []string{"delimiter", "printable_only"}, textToASCII},
		{"text-to-binary", "Encode ASCII text as 7 or 8 bit binary", []string{"width"}, textToBinary},
		{"json-to-text", "Extract the values of a JSON document", []string{"separator", "include_keys"}, jsonToText},
		{"match-case", "Copy the letter case pattern of a reference text", []string{"reference"}, matchCase},
		{"ordered-list", "Number lines or comma separated items", []string{"split_mode", "marker_style", "start_at", "trim_items", "ignore_empty"}, orderedList},
		{"comma-to-list", "Put comma separated values on their own lines", nil, commaToList},
		{"bulleted-list", "Prefix every line with a bullet", []string{"bullet"}, bulletedList},
		{"sentence-case", "Capitalise the first letter of every sentence", nil, sentenceCase},
		{"uppercase", "Convert text to upper case", nil, uppercase},
		{"clean-whitespace", "Replace tabs and NBSP, remove zero-width characters", nil, cleanWhitespace},
		{"text-to-html", "Escape text and wrap it in HTML", []string{"mode"}, textToHTML},
		{"lowercase", "Convert text to lower case", nil, lowercase},
		{"trim", "Remove leading and trailing whitespace", nil, trim},
		{"html-decode", "Decode HTML entities", nil, htmlDecode},
		{"strip-tags", "Remove HTML tags, keeping the text", nil, stripTags},
		{"select-json", "Select a value from JSON by path", []string{"path"}, selectJSON},
		{"replace-text", "Replace every occurrence of a string", []string{"find", "replace"}, replaceText},
		{"title-case", "Capitalise the first letter of every word", nil, titleCase},
		{"trim-left", "Remove leading whitespace", nil, trimLeft},
		{"trim-right", "Remove trailing whitespace", nil, trimRight},
		{"add-prefix", "Put a prefix in front of the text", []string{"prefix"}, addPrefix},
		{"add-suffix", "Append a suffix to the text", []string{"suffix"}, addSuffix},
		{"remove-prefix", "Remove a prefix if present", []string{"prefix"}, removePrefix},
		{"remove-suffix", "Remove a suffix if present", []string{"suffix"}, removeSuffix},
		{"surround", "Wrap the text in a prefix and a suffix", []string{"prefix", "suffix"}, surroundText},
		{"left-chars", "Keep the first count characters", []string{"count"}, leftChars},
		{"right-chars", "Keep the last count characters", []string{"count"}, rightChars},
		{"mid-chars", "Keep count characters from a zero-based position", []string{"position", "count"}, midChars},
		{"split-format", "Split on a separator and fill {1}, {2}, ... in a format", []string{"separator", "format"}, splitFormat},
		{"keep-lines", "Keep lines matching a regular expression", []string{"pattern", "flags"}, filterLines("keep-lines", true)},
		{"remove-lines", "Remove lines matching a regular expression", []string{"pattern", "flags"}, filterLines("remove-lines", false)},
		{"match-text", "List every match of a regular expression", []string{"pattern", "flags"}, matchText},
		{"replace-regex", "Replace regular expression matches, $1 refers to groups", []string{"pattern", "flags", "replace"}, replaceRegex},
		{"html-encode", "Escape HTML reserved characters", nil, htmlEncode},
		{"find-html-links", "List the links of an HTML page", []string{"format"}, findHTMLLinks},
		{"select-html", "Select HTML elements with a CSS selector", []string{"selector", "output"}, selectHTML},
	}
}

// OperationNames returns the names of all tools in registry order.
func OperationNames() []string {
	ops := GetOperations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	return names
}

// FindOperation looks a tool up by name, ignoring case and surrounding space.
func FindOperation(name string) (Operation, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, op := range GetOperations() {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// ProcessText runs the named tool on the whole input
func ProcessText(input, toolName string, params Params) (Output, error) {
	return ProcessTextWithMode(input, toolName, params, false)
}

// ProcessTextWithMode runs the named tool on input.
// If lineBased is true, the tool is applied to each line individually and the
// statistics of the individual lines are dropped.
func ProcessTextWithMode(input, toolName string, params Params, lineBased bool) (Output, error) {
	op, ok := FindOperation(toolName)
	if !ok {
		return Output{Text: input}, fmt.Errorf("%w: %s", ErrUnknownTool, toolName)
	}

	if lineBased {
		return applyLineBased(op, input, params)
	}

	out, err := op.Func(input, params)
	if err != nil {
		return Output{Text: input}, fmt.Errorf("%s: %w", op.Name, err)
	}
	return out, nil
}

// applyLineBased applies a tool to each line of the input text individually
func applyLineBased(op Operation, input string, params Params) (Output, error) {
	if input == "" {
		return Output{Text: input}, nil
	}

	lines := strings.Split(input, "\n")
	result := make([]string, len(lines))

	for i, line := range lines {
		out, err := op.Func(line, params)
		if err != nil {
			return Output{Text: input}, fmt.Errorf("%s: line %d: %w", op.Name, i+1, err)
		}
		result[i] = out.Text
	}

	return Output{Text: strings.Join(result, "\n"), Stats: map[string]int{"lines": len(lines)}}, nil
}

// SortedOperations returns the tools ordered by name.
func SortedOperations() []Operation {
	ops := GetOperations()
	sort.Slice(ops, func(i, j int) bool { return ops[i].Name < ops[j].Name })
	return ops
}

// Tool implementations

func decimalToASCII(input string, _ Params) (Output, error) {
	res := convert.DecodeDecimalASCII(input)
	return Output{Text: res.Output, Stats: res.Report}, nil
}

func textToASCII(input string, params Params) (Output, error) {
	res := convert.EncodeTextToASCII(input, convert.ASCIIOptions{
		Delimiter:     convert.Delimiter(params.Get("delimiter", string(convert.DelimiterSpace))),
		PrintableOnly: params.Bool("printable_only", true),
	})
	return Output{Text: res.Output, Stats: res.Stats}, nil
}

func textToBinary(input string, params Params) (Output, error) {
	width, err := params.RequireInt("text-to-binary", "width", 8)
	if err != nil {
		return Output{}, err
	}
	out, err := convert.EncodeTextToBinary(input, width)
	if err != nil {
		return Output{}, err
	}
	return Output{Text: out}, nil
}

func jsonToText(input string, params Params) (Output, error) {
	res := convert.ExtractJSONText(input, convert.JSONTextOptions{
		Separator:   convert.Separator(params.Get("separator", string(convert.SeparatorNewline))),
		IncludeKeys: params.Bool("include_keys", false),
	})
	if !res.OK {
		return Output{}, errors.New(res.Error)
	}
	return Output{Text: res.Text, Stats: res}, nil
}

func matchCase(input string, params Params) (Output, error) {
	res := convert.ApplyMatchCase(processEscapeSequences(params["reference"]), input)
	return Output{Text: res.Output, Stats: res}, nil
}

func orderedList(input string, params Params) (Output, error) {
	def := convert.DefaultOrderedListOptions()
	res := convert.ConvertToOrderedList(input, convert.OrderedListOptions{
		SplitMode:   convert.SplitMode(params.Get("split_mode", string(def.SplitMode))),
		MarkerStyle: convert.MarkerStyle(params.Get("marker_style", string(def.MarkerStyle))),
		StartAt:     params.Int("start_at", def.StartAt),
		TrimItems:   params.Bool("trim_items", def.TrimItems),
		IgnoreEmpty: params.Bool("ignore_empty", def.IgnoreEmpty),
	})
	return Output{Text: res.Output, Stats: res}, nil
}

func commaToList(input string, _ Params) (Output, error) {
	res := convert.CommaToList(input)
	return Output{Text: res.Output, Stats: res}, nil
}

func bulletedList(input string, params Params) (Output, error) {
	res := convert.ToBulletedList(input, convert.BulletOptions{
		Bullet: processEscapeSequences(params["bullet"]),
	})
	return Output{Text: res.Output, Stats: res}, nil
}

func sentenceCase(input string, _ Params) (Output, error) {
	return Output{Text: convert.ToSentenceCase(input)}, nil
}

func uppercase(input string, _ Params) (Output, error) {
	return Output{Text: convert.ToUppercase(input)}, nil
}

func cleanWhitespace(input string, _ Params) (Output, error) {
	res := convert.CleanWhitespace(input)
	return Output{Text: res.Output, Stats: res.Stats}, nil
}

func textToHTML(input string, params Params) (Output, error) {
	res, err := convert.TextToHTML(input, convert.HTMLMode(params.Get("mode", string(convert.HTMLParagraphs))))
	if err != nil {
		return Output{}, err
	}
	return Output{Text: res.Output, Stats: res}, nil
}

func lowercase(input string, _ Params) (Output, error) {
	return Output{Text: strings.ToLower(input)}, nil
}

func trim(input string, _ Params) (Output, error) {
	return Output{Text: strings.TrimSpace(input)}, nil
}

// selectJSON extracts a value using gjson path syntax ("items.0.name").
// Without a path the document is pretty printed.
func selectJSON(input string, params Params) (Output, error) {
	if !gjson.Valid(input) {
		return Output{}, errors.New(convert.InvalidJSONMessage)
	}

	path := params["path"]
	if path == "" {
		return Output{Text: strings.TrimSuffix(gjson.Get(input, "@pretty").String(), "\n")}, nil
	}

	result := gjson.Get(input, path)
	if !result.Exists() {
		return Output{Text: ""}, nil
	}
	if result.IsObject() || result.IsArray() {
		return Output{Text: strings.TrimSuffix(gjson.Get(result.Raw, "@pretty").String(), "\n")}, nil
	}
	return Output{Text: result.String()}, nil
}

func replaceText(input string, params Params) (Output, error) {
	find := processEscapeSequences(params["find"])
	if find == "" {
		return Output{Text: input}, nil
	}
	replacement := processEscapeSequences(params["replace"])
	return Output{
		Text:  strings.ReplaceAll(input, find, replacement),
		Stats: map[string]int{"replacements": strings.Count(input, find)},
	}, nil
}

// Helper functions

// processEscapeSequences converts escape sequences typed into a parameter.
// Handles: \n, \r, \t, \\, \xHH and \uHHHH
func processEscapeSequences(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var result strings.Builder
	runes := []rune(s)

	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 >= len(runes) {
			result.WriteRune(runes[i])
			continue
		}

		switch runes[i+1] {
		case 'n':
			result.WriteRune('\n')
			i++
		case 'r':
			result.WriteRune('\r')
			i++
		case 't':
			result.WriteRune('\t')
			i++
		case '\\':
			result.WriteRune('\\')
			i++
		case 'x':
			if r, ok := parseHexEscape(runes, i+2, 2); ok {
				result.WriteRune(r)
				i += 3
			} else {
				result.WriteRune(runes[i])
			}
		case 'u':
			if r, ok := parseHexEscape(runes, i+2, 4); ok {
				result.WriteRune(r)
				i += 5
			} else {
				result.WriteRune(runes[i])
			}
		default:
			// Not a recognized escape sequence, keep the backslash
			result.WriteRune(runes[i])
		}
	}

	return result.String()
}

func parseHexEscape(runes []rune, start, digits int) (rune, bool) {
	if start+digits > len(runes) {
		return 0, false
	}
	val, err := strconv.ParseUint(string(runes[start:start+digits]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(val), true
}
