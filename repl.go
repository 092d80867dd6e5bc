package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/gjson"
)

const replPrompt = "textconv> "

var errExit = errors.New("exit")

// REPLCommand represents a parsed command
type REPLCommand struct {
	Verb   string
	Object string
	Args   []string
	// Rest is the unparsed text after the verb
	Rest string
}

// REPLFormatter handles output formatting
type REPLFormatter struct {
	useColor bool
	out      io.Writer
}

// NewREPLFormatter creates a new formatter writing to out
func NewREPLFormatter(out io.Writer, useColor bool) *REPLFormatter {
	return &REPLFormatter{useColor: useColor, out: out}
}

// colorEnabled resolves a color setting of "auto", "always" or "never"
func colorEnabled(mode string, f *os.File) bool {
	switch strings.ToLower(mode) {
	case "always":
		return true
	case "never":
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (f *REPLFormatter) printf(attr color.Attribute, format string, a ...interface{}) {
	if f.useColor {
		c := color.New(attr)
		c.EnableColor()
		c.Fprintf(f.out, format, a...)
		return
	}
	fmt.Fprintf(f.out, format, a...)
}

// PrintSuccess prints a success message
func (f *REPLFormatter) PrintSuccess(message string) {
	f.printf(color.FgGreen, "✓ %s\n", message)
}

// PrintError prints an error message
func (f *REPLFormatter) PrintError(message string) {
	f.printf(color.FgRed, "✗ Error: %s\n", message)
}

// PrintInfo prints an info message
func (f *REPLFormatter) PrintInfo(message string) {
	f.printf(color.FgCyan, "ℹ %s\n", message)
}

// PrintText prints text as is, followed by a newline
func (f *REPLFormatter) PrintText(text string) {
	fmt.Fprintln(f.out, text)
}

// PrintTable prints a formatted table
func (f *REPLFormatter) PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}

	table := tablewriter.NewWriter(f.out)
	table.Header(header...)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			f.PrintError(err.Error())
			return
		}
	}
	if err := table.Render(); err != nil {
		f.PrintError(err.Error())
	}
}

// PrintJSON prints formatted JSON
func (f *REPLFormatter) PrintJSON(data interface{}) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		f.PrintError("Failed to format JSON: " + err.Error())
		return
	}
	fmt.Fprintln(f.out, string(jsonBytes))
}

// PrintStats prints tool statistics as a key/value table.
// Nested records are flattened to dotted keys in field order.
func (f *REPLFormatter) PrintStats(stats interface{}) {
	if stats == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}

	rows := flattenStats("", gjson.ParseBytes(data), nil)
	if len(rows) > 0 {
		f.PrintTable([]string{"Statistic", "Value"}, rows)
	}
}

func flattenStats(prefix string, value gjson.Result, rows [][]string) [][]string {
	if !value.IsObject() {
		if prefix == "" {
			return append(rows, []string{"value", value.String()})
		}
		if value.IsArray() {
			return append(rows, []string{prefix, value.Raw})
		}
		return append(rows, []string{prefix, value.String()})
	}

	value.ForEach(func(key, val gjson.Result) bool {
		name := key.String()
		if prefix != "" {
			name = prefix + "." + name
		}
		rows = flattenStats(name, val, rows)
		return true
	})
	return rows
}

// PrintPipeline prints the pipeline as a tree
func (f *REPLFormatter) PrintPipeline(steps []PipelineStep, selectedID string) {
	if len(steps) == 0 {
		f.PrintInfo("Pipeline is empty")
		return
	}

	for i, step := range steps {
		branch := "├─ "
		if i == len(steps)-1 {
			branch = "└─ "
		}
		marker := " "
		if step.ID == selectedID {
			marker = "*"
		}

		detail := formatParams(step.Params)
		if step.LineBased {
			detail = strings.TrimSpace(detail + " [lines]")
		}

		fmt.Fprint(f.out, branch+marker+" ")
		if f.useColor {
			fmt.Fprintln(f.out, color.CyanString(step.Tool)+" "+color.YellowString(detail)+" "+color.HiBlackString("(%s)", step.ID))
		} else {
			fmt.Fprintf(f.out, "%s %s (%s)\n", step.Tool, detail, step.ID)
		}
	}
}

func formatParams(p Params) string {
	if len(p) == 0 {
		return ""
	}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, p[k])
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// ParseCommand parses a verb-first command string
func ParseCommand(input string) (*REPLCommand, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty command")
	}

	// Split by whitespace, but handle quoted strings
	parts := splitArgs(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	_, rest := cutWord(input)
	cmd := &REPLCommand{
		Verb: strings.ToLower(parts[0]),
		Rest: rest,
	}

	if len(parts) > 1 {
		cmd.Object = strings.ToLower(parts[1])
		cmd.Args = parts[2:]
	}

	return cmd, nil
}

// cutWord splits s into its first whitespace separated word and the
// trimmed remainder
func cutWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

// splitArgs splits a command string into arguments, respecting quotes.
// A backslash escapes a following quote, blank or backslash; before any
// other character it is kept, so escape sequences like \n reach the tools.
func splitArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)
	hasArg := false

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]

		if ch == '\\' && i+1 < len(runes) {
			switch next := runes[i+1]; next {
			case '"', '\'', ' ', '\t', '\\':
				current.WriteRune(next)
				hasArg = true
				i++
				continue
			}
		}

		if (ch == '"' || ch == '\'') && !inQuotes {
			inQuotes = true
			quoteChar = ch
			hasArg = true
			continue
		}

		if ch == quoteChar && inQuotes {
			inQuotes = false
			quoteChar = 0
			continue
		}

		if (ch == ' ' || ch == '\t') && !inQuotes {
			if hasArg {
				args = append(args, current.String())
				current.Reset()
				hasArg = false
			}
			continue
		}

		current.WriteRune(ch)
		hasArg = true
	}

	if hasArg {
		args = append(args, current.String())
	}

	return args
}

// parseToolArgs reads the leading key=value parameters of op and the
// --lines flag. It stops at the first other argument and returns the
// arguments from there on.
func parseToolArgs(op Operation, args []string) (Params, []string, bool) {
	var params Params
	lineBased := false

	for i, arg := range args {
		if arg == "--lines" {
			lineBased = true
			continue
		}
		key, value, ok := strings.Cut(arg, "=")
		if !ok || !hasParam(op, key) {
			return params, args[i:], lineBased
		}
		if params == nil {
			params = Params{}
		}
		params[key] = value
	}
	return params, nil, lineBased
}

// skipArgs drops the first n quote-aware arguments of s and returns the
// rest verbatim
func skipArgs(s string, n int) string {
	i := 0
	for ; n > 0; n-- {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		var quote byte
		escaped := false
	token:
		for i < len(s) {
			c := s[i]
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '"' || c == '\'':
				quote = c
			case c == ' ' || c == '\t':
				break token
			}
			i++
		}
	}
	return strings.TrimLeft(s[i:], " \t")
}

func hasParam(op Operation, key string) bool {
	for _, p := range op.Params {
		if p == key {
			return true
		}
	}
	return false
}

// suggestTools returns tool names resembling name, best match first
func suggestTools(name string) []string {
	ranks := fuzzy.RankFindFold(name, OperationNames())
	sort.Sort(ranks)

	suggestions := make([]string, 0, len(ranks))
	for _, r := range ranks {
		suggestions = append(suggestions, r.Target)
	}
	if len(suggestions) == 0 {
		for _, tool := range OperationNames() {
			if strings.HasPrefix(tool, strings.ToLower(name[:min(len(name), 3)])) {
				suggestions = append(suggestions, tool)
			}
		}
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

// RawExecutor sends a raw JSON command and returns the decoded response
type RawExecutor func(cmdJSON string) (map[string]interface{}, error)

// REPLSession manages the REPL interactive session
type REPLSession struct {
	cmds      TextConvCommands
	raw       RawExecutor
	formatter *REPLFormatter
	readLines func(prompt string) []string
	closer    io.Closer
	cfg       REPLConfig
}

// NewREPLSession connects to the socket server at socketPath
func NewREPLSession(socketPath string, cfg REPLConfig) (*REPLSession, error) {
	client, err := NewSocketClient(socketPath)
	if err != nil {
		return nil, err
	}

	rs := newREPLSession(NewSocketClientCommands(client), client.Execute,
		NewREPLFormatter(os.Stdout, colorEnabled(cfg.Color, os.Stdout)))
	rs.closer = client
	rs.cfg = cfg
	return rs, nil
}

// NewLocalREPLSession runs the REPL against an in-process core
func NewLocalREPLSession(core *TextConvCore, cfg REPLConfig) *REPLSession {
	raw := func(cmdJSON string) (map[string]interface{}, error) {
		var resp map[string]interface{}
		err := json.Unmarshal([]byte(core.ExecuteCommand(cmdJSON)), &resp)
		return resp, err
	}
	rs := newREPLSession(core, raw, NewREPLFormatter(os.Stdout, colorEnabled(cfg.Color, os.Stdout)))
	rs.cfg = cfg
	return rs
}

func newREPLSession(cmds TextConvCommands, raw RawExecutor, formatter *REPLFormatter) *REPLSession {
	return &REPLSession{
		cmds:      cmds,
		raw:       raw,
		formatter: formatter,
		readLines: func(string) []string { return nil },
	}
}

// completer offers verbs, tool names and current step IDs
func (rs *REPLSession) completer() *readline.PrefixCompleter {
	toolItems := func(string) []string { return OperationNames() }
	stepItems := func(string) []string {
		var ids []string
		for _, step := range rs.cmds.GetPipeline() {
			ids = append(ids, step.ID)
		}
		return ids
	}
	// movable lists the steps for which skip reports false
	movable := func(skip func(i, n int) bool) func(string) []string {
		return func(string) []string {
			steps := rs.cmds.GetPipeline()
			var ids []string
			for i, step := range steps {
				if !skip(i, len(steps)) {
					ids = append(ids, step.ID)
				}
			}
			return ids
		}
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("convert", readline.PcItemDynamic(toolItems)),
		readline.PcItem("add", readline.PcItemDynamic(toolItems)),
		readline.PcItem("update", readline.PcItemDynamic(stepItems, readline.PcItemDynamic(toolItems))),
		readline.PcItem("delete", readline.PcItemDynamic(stepItems)),
		readline.PcItem("select", readline.PcItemDynamic(stepItems)),
		readline.PcItem("move",
			readline.PcItem("up", readline.PcItemDynamic(movable(func(i, n int) bool { return i == 0 }))),
			readline.PcItem("down", readline.PcItemDynamic(movable(func(i, n int) bool { return i == n-1 }))),
		),
		readline.PcItem("set", readline.PcItem("input")),
		readline.PcItem("show",
			readline.PcItem("input"),
			readline.PcItem("output"),
			readline.PcItem("pipeline"),
			readline.PcItem("error"),
			readline.PcItem("step", readline.PcItemDynamic(stepItems)),
		),
		readline.PcItem("tools"),
		readline.PcItem("export"),
		readline.PcItem("import"),
		readline.PcItem("raw"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Run starts the interactive REPL loop
func (rs *REPLSession) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       replPrompt,
		HistoryFile:  rs.cfg.HistoryFile,
		AutoComplete: rs.completer(),
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	if rs.closer != nil {
		defer rs.closer.Close()
	}

	rs.readLines = func(prompt string) []string {
		rs.formatter.PrintInfo(prompt)
		var lines []string
		rl.SetPrompt("")
		defer rl.SetPrompt(replPrompt)
		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			} else if err != nil {
				break
			}

			// Empty line ends input
			if strings.TrimSpace(line) == "" {
				break
			}
			lines = append(lines, line)
		}
		return lines
	}

	rs.formatter.PrintInfo("textconv REPL. Type 'help' for available commands")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			break
		} else if err != nil {
			rs.formatter.PrintError(err.Error())
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			rs.formatter.PrintError(err.Error())
			continue
		}

		if err := rs.Execute(cmd); err != nil {
			if errors.Is(err, errExit) {
				break
			}
			rs.formatter.PrintError(err.Error())
		}
	}

	rs.formatter.PrintInfo("Goodbye!")
	return nil
}

// Execute runs one parsed command. Command failures are reported through
// the formatter; only errExit is returned to end the session.
func (rs *REPLSession) Execute(cmd *REPLCommand) error {
	switch cmd.Verb {
	case "convert":
		return rs.handleConvert(cmd)
	case "add":
		return rs.handleAdd(cmd)
	case "update":
		return rs.handleUpdate(cmd)
	case "delete", "rm":
		return rs.handleStepAction(cmd, "Deleted", rs.cmds.DeleteStep)
	case "select":
		return rs.handleStepAction(cmd, "Selected", rs.cmds.SelectStep)
	case "move":
		return rs.handleMove(cmd)
	case "set":
		return rs.handleSet(cmd)
	case "show", "get":
		return rs.handleShow(cmd)
	case "tools", "list":
		return rs.handleTools(cmd)
	case "export":
		return rs.handleExport(cmd)
	case "import":
		return rs.handleImport(cmd)
	case "raw":
		return rs.handleRaw(cmd)
	case "help":
		return rs.handleHelp(cmd)
	case "quit", "exit":
		return errExit
	default:
		rs.formatter.PrintError("Unknown command: " + cmd.Verb)
		rs.formatter.PrintInfo("Type 'help' for available commands")
	}
	return nil
}

// lookupTool finds a tool, printing suggestions when it does not exist
func (rs *REPLSession) lookupTool(name string) (Operation, bool) {
	if name == "" {
		rs.formatter.PrintError("tool name required")
		return Operation{}, false
	}
	op, ok := FindOperation(name)
	if !ok {
		rs.formatter.PrintError("unknown tool: " + name)
		if suggestions := suggestTools(name); len(suggestions) > 0 {
			rs.formatter.PrintInfo("Did you mean: " + strings.Join(suggestions, ", ") + "?")
		}
	}
	return op, ok
}

func (rs *REPLSession) handleConvert(cmd *REPLCommand) error {
	// convert <tool> [key=value ...] [--lines] [text]
	op, ok := rs.lookupTool(cmd.Object)
	if !ok {
		return nil
	}

	params, rest, lineBased := parseToolArgs(op, cmd.Args)
	input := skipArgs(cmd.Rest, 1+len(cmd.Args)-len(rest))
	if input == "" {
		input = strings.Join(rs.readLines("Enter text (end with blank line):"), "\n")
	}

	if lineBased {
		// Line-based conversion is a pipeline feature; run it locally.
		out, err := ProcessTextWithMode(input, op.Name, params, true)
		if err != nil {
			rs.formatter.PrintError(err.Error())
			return nil
		}
		rs.formatter.PrintText(out.Text)
		return nil
	}

	out, err := rs.cmds.Convert(op.Name, input, params)
	if err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	rs.formatter.PrintText(out.Text)
	rs.formatter.PrintStats(out.Stats)
	return nil
}

func (rs *REPLSession) handleAdd(cmd *REPLCommand) error {
	// add <tool> [key=value ...] [--lines]
	op, ok := rs.lookupTool(cmd.Object)
	if !ok {
		return nil
	}

	params, rest, lineBased := parseToolArgs(op, cmd.Args)
	if len(rest) > 0 {
		rs.formatter.PrintError("unknown parameters: " + strings.Join(rest, " "))
		return nil
	}

	stepID, err := rs.cmds.AddStep(op.Name, params, lineBased)
	if err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	rs.formatter.PrintSuccess("Added " + stepID)
	return nil
}

func (rs *REPLSession) handleUpdate(cmd *REPLCommand) error {
	// update <step_id> <tool> [key=value ...] [--lines]
	if cmd.Object == "" || len(cmd.Args) == 0 {
		rs.formatter.PrintError("update requires step_id and tool")
		return nil
	}

	op, ok := rs.lookupTool(cmd.Args[0])
	if !ok {
		return nil
	}

	params, rest, lineBased := parseToolArgs(op, cmd.Args[1:])
	if len(rest) > 0 {
		rs.formatter.PrintError("unknown parameters: " + strings.Join(rest, " "))
		return nil
	}

	if err := rs.cmds.UpdateStep(cmd.Object, op.Name, params, lineBased); err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	rs.formatter.PrintSuccess("Updated " + cmd.Object)
	return nil
}

func (rs *REPLSession) handleStepAction(cmd *REPLCommand, done string, action func(string) error) error {
	if cmd.Object == "" {
		rs.formatter.PrintError(cmd.Verb + " requires step_id")
		return nil
	}
	if err := action(cmd.Object); err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	rs.formatter.PrintSuccess(done + " " + cmd.Object)
	return nil
}

func (rs *REPLSession) handleMove(cmd *REPLCommand) error {
	// move up|down <step_id>
	if len(cmd.Args) < 1 {
		rs.formatter.PrintError("move requires direction and step_id")
		return nil
	}

	var err error
	switch cmd.Object {
	case "up":
		err = rs.cmds.MoveStepUp(cmd.Args[0])
	case "down":
		err = rs.cmds.MoveStepDown(cmd.Args[0])
	default:
		rs.formatter.PrintError("move requires 'up' or 'down'")
		return nil
	}

	if err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	rs.formatter.PrintSuccess(fmt.Sprintf("Moved %s %s", cmd.Args[0], cmd.Object))
	return nil
}

func (rs *REPLSession) handleSet(cmd *REPLCommand) error {
	if cmd.Object != "input" {
		rs.formatter.PrintError("set requires 'input' argument")
		return nil
	}

	// set input <text or empty for multiline>
	_, text := cutWord(cmd.Rest)
	if text == "" {
		text = strings.Join(rs.readLines("Enter text (end with blank line):"), "\n")
	}

	rs.cmds.SetInputText(text)
	rs.formatter.PrintSuccess("Input text set")
	if lastErr := rs.cmds.GetLastError(); lastErr != "" {
		rs.formatter.PrintError(lastErr)
	}
	return nil
}

func (rs *REPLSession) handleShow(cmd *REPLCommand) error {
	switch cmd.Object {
	case "input":
		rs.formatter.PrintText(rs.cmds.GetInputText())
	case "output":
		rs.formatter.PrintText(rs.cmds.GetOutputText())
		if lastErr := rs.cmds.GetLastError(); lastErr != "" {
			rs.formatter.PrintError(lastErr)
		}
	case "error":
		if lastErr := rs.cmds.GetLastError(); lastErr != "" {
			rs.formatter.PrintError(lastErr)
		} else {
			rs.formatter.PrintInfo("No error")
		}
	case "pipeline", "":
		rs.formatter.PrintPipeline(rs.cmds.GetPipeline(), rs.cmds.GetSelectedStepID())
	case "selected":
		rs.formatter.PrintText(rs.cmds.GetSelectedStepID())
	case "step":
		if len(cmd.Args) < 1 {
			rs.formatter.PrintError("show step requires step_id")
			return nil
		}
		step := rs.cmds.GetStep(cmd.Args[0])
		if step == nil {
			rs.formatter.PrintError("step not found: " + cmd.Args[0])
			return nil
		}
		rs.formatter.PrintJSON(step)
	default:
		rs.formatter.PrintError("show requires 'input', 'output', 'error', 'pipeline' or 'step'")
	}
	return nil
}

func (rs *REPLSession) handleTools(cmd *REPLCommand) error {
	// tools [query]
	ops := SortedOperations()
	if query := cmd.Object; query != "" {
		names := make([]string, len(ops))
		for i, op := range ops {
			names[i] = op.Name
		}
		ranks := fuzzy.RankFindFold(query, names)
		sort.Sort(ranks)

		matched := make([]Operation, 0, len(ranks))
		for _, r := range ranks {
			matched = append(matched, ops[r.OriginalIndex])
		}
		ops = matched
	}

	if len(ops) == 0 {
		rs.formatter.PrintInfo("No matching tools")
		return nil
	}

	rows := make([][]string, len(ops))
	for i, op := range ops {
		rows[i] = []string{op.Name, strings.Join(op.Params, ", "), op.Description}
	}
	rs.formatter.PrintTable([]string{"Tool", "Params", "Description"}, rows)
	return nil
}

func (rs *REPLSession) handleExport(cmd *REPLCommand) error {
	// export [file]
	data, err := rs.cmds.ExportPipeline()
	if err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}

	if cmd.Object == "" {
		rs.formatter.PrintText(data)
		return nil
	}

	path := cmd.Rest
	if err := os.WriteFile(path, []byte(data+"\n"), 0o644); err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	rs.formatter.PrintSuccess("Pipeline exported to " + path)
	return nil
}

func (rs *REPLSession) handleImport(cmd *REPLCommand) error {
	// import <json | @file | empty for multiline>
	jsonStr := cmd.Rest
	if strings.HasPrefix(jsonStr, "@") {
		data, err := os.ReadFile(strings.TrimPrefix(jsonStr, "@"))
		if err != nil {
			rs.formatter.PrintError(err.Error())
			return nil
		}
		jsonStr = string(data)
	}
	if jsonStr == "" {
		jsonStr = strings.Join(rs.readLines("Enter JSON pipeline (end with blank line):"), "\n")
	}

	if strings.TrimSpace(jsonStr) == "" {
		rs.formatter.PrintError("import requires JSON data")
		return nil
	}

	if err := rs.cmds.ImportPipeline(jsonStr); err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	rs.formatter.PrintSuccess(fmt.Sprintf("Pipeline imported (%d steps)", len(rs.cmds.GetPipeline())))
	return nil
}

func (rs *REPLSession) handleRaw(cmd *REPLCommand) error {
	// raw <json command>
	if cmd.Rest == "" {
		rs.formatter.PrintError(`raw requires a JSON command, e.g. raw {"action":"get_pipeline"}`)
		return nil
	}

	resp, err := rs.raw(cmd.Rest)
	if err != nil {
		rs.formatter.PrintError(err.Error())
		return nil
	}
	rs.formatter.PrintJSON(resp)
	return nil
}

func (rs *REPLSession) handleHelp(cmd *REPLCommand) error {
	if cmd.Object != "" {
		rs.showSpecificHelp(cmd.Object)
	} else {
		rs.showMainHelp()
	}
	return nil
}

func (rs *REPLSession) showMainHelp() {
	help := `
textconv REPL - Available Commands
==================================

CONVERSION:
  convert <tool> [key=value ...] [--lines] [text]
                              Run one tool, print output and statistics
  tools [query]               List tools, optionally fuzzy filtered

PIPELINE:
  add <tool> [key=value ...] [--lines]
                              Append a step
  update <step_id> <tool> [key=value ...] [--lines]
                              Replace a step's tool and parameters
  delete <step_id>            Remove a step
  select <step_id>            Select a step
  move up <step_id>           Move a step earlier
  move down <step_id>         Move a step later

TEXT:
  set input <text>            Set input text
  set input                   Enter multiline input mode
  show input|output|error     Show session text
  show pipeline               Show the pipeline as a tree
  show step <step_id>         Show one step as JSON

IMPORT/EXPORT:
  export [file]               Export pipeline as JSON
  import <json>|@<file>       Import pipeline
  import                      Enter multiline JSON import mode

UTILITIES:
  raw <json>                  Send a raw protocol command
  help [command]              Show this help or help for specific command
  quit, exit                  Exit the REPL

EXAMPLES:
  > convert decimal-to-ascii 72 101 108 108 111
  > convert ordered-list marker_style=roman-upper --lines
  > add comma-to-list
  > add bulleted-list bullet=-
  > set input red, green, blue
  > show output
`
	fmt.Fprint(rs.formatter.out, help)
}

func (rs *REPLSession) showSpecificHelp(command string) {
	helps := map[string]string{
		"convert": `
convert <tool> [key=value ...] [--lines] [text]
  Runs a tool on the given text without changing the session.
  Without text, enter multiline mode. Parameters must be known to the tool.

  Examples:
    convert text-to-binary width=7 Hi
    convert json-to-text include_keys=true {"a": {"b": 1}}
`,
		"add": `
add <tool> [key=value ...] [--lines]
  Appends a step. --lines applies the tool to every line separately.

  Example:
    add replace-text find=, replace=\n
`,
		"update": `
update <step_id> <tool> [key=value ...] [--lines]
  Replaces the tool and parameters of a step.
`,
		"set": `
set input <text>
  Sets the input text processed by the pipeline.

  Examples:
    set input hello world
    set input
      (then enter multiline text)
`,
		"show": `
show input              Current input text
show output             Pipeline output and last error
show error              Last error only
show pipeline           Pipeline as a tree, * marks the selected step
show step <step_id>     One step as JSON
`,
		"move": `
move up <step_id>       Move a step earlier in the pipeline
move down <step_id>     Move a step later in the pipeline
`,
		"tools": `
tools [query]
  Lists tools with their parameters. The query is matched fuzzily.
`,
		"raw": `
raw <json>
  Sends a protocol command as is and prints the response.

  Example:
    raw {"action":"list_tools"}
`,
	}

	if help, ok := helps[command]; ok {
		fmt.Fprintln(rs.formatter.out, help)
		return
	}
	if op, ok := FindOperation(command); ok {
		fmt.Fprintf(rs.formatter.out, "\n%s: %s\n  params: %s\n\n", op.Name, op.Description, strings.Join(op.Params, ", "))
		return
	}
	fmt.Fprintf(rs.formatter.out, "No help available for '%s'\n", command)
	fmt.Fprintln(rs.formatter.out, "Type 'help' for a list of all commands")
}
