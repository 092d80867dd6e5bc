package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestREPL(t *testing.T) (*REPLSession, *TextConvCore, *bytes.Buffer) {
	t.Helper()

	core := NewTextConvCore()
	var out bytes.Buffer
	raw := func(cmdJSON string) (map[string]interface{}, error) {
		var resp map[string]interface{}
		err := json.Unmarshal([]byte(core.ExecuteCommand(cmdJSON)), &resp)
		return resp, err
	}
	return newREPLSession(core, raw, NewREPLFormatter(&out, false)), core, &out
}

func run(t *testing.T, rs *REPLSession, line string) {
	t.Helper()

	cmd, err := ParseCommand(line)
	require.NoError(t, err)
	require.NoError(t, rs.Execute(cmd))
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand(`  Set INPUT "Hello  World" again `)
	require.NoError(t, err)
	assert.Equal(t, "set", cmd.Verb)
	assert.Equal(t, "input", cmd.Object)
	assert.Equal(t, []string{"Hello  World", "again"}, cmd.Args)
	assert.Equal(t, `INPUT "Hello  World" again`, cmd.Rest)

	_, err = ParseCommand("   ")
	assert.Error(t, err)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{`a b  c`, []string{"a", "b", "c"}},
		{`"a b" 'c d'`, []string{"a b", "c d"}},
		{`bullet="- " x`, []string{"bullet=- ", "x"}},
		{`replace=""`, []string{"replace="}},
		{`find=\n`, []string{`find=\n`}},
		{`a\ b \"q\"`, []string{"a b", `"q"`}},
		{`back\\slash`, []string{`back\slash`}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitArgs(tt.input))
		})
	}
}

func TestParseToolArgs(t *testing.T) {
	op, ok := FindOperation("ordered-list")
	require.True(t, ok)

	params, rest, lineBased := parseToolArgs(op, []string{"marker_style=alpha-lower", "--lines", "a=b", "start_at=3"})
	assert.Equal(t, Params{"marker_style": "alpha-lower"}, params)
	assert.Equal(t, []string{"a=b", "start_at=3"}, rest)
	assert.True(t, lineBased)

	params, rest, lineBased = parseToolArgs(op, nil)
	assert.Nil(t, params)
	assert.Nil(t, rest)
	assert.False(t, lineBased)
}

func TestSkipArgs(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, skipArgs(`json-to-text include_keys=true {"a": 1}`, 2))
	assert.Equal(t, "rest  of it", skipArgs(`tool bullet="- x" rest  of it`, 2))
	assert.Equal(t, "", skipArgs("one", 3))
}

func TestSuggestTools(t *testing.T) {
	assert.Contains(t, suggestTools("upper"), "uppercase")
	assert.Contains(t, suggestTools("binary"), "text-to-binary")
	assert.LessOrEqual(t, len(suggestTools("t")), 3)
}

func TestREPLConvert(t *testing.T) {
	rs, core, out := newTestREPL(t)

	run(t, rs, "convert decimal-to-ascii 72 105")
	assert.Contains(t, out.String(), "Hi\n")
	assert.Contains(t, out.String(), "converted_count")

	out.Reset()
	run(t, rs, `convert json-to-text include_keys=true {"a": {"b": 1}}`)
	assert.Contains(t, out.String(), "a.b: 1\n")

	out.Reset()
	run(t, rs, "convert uppercase --lines ab\\ cd")
	assert.Contains(t, out.String(), `AB\ CD`)

	out.Reset()
	run(t, rs, "convert upercase hi")
	assert.Contains(t, out.String(), "unknown tool: upercase")

	out.Reset()
	run(t, rs, "convert text-to-binary é")
	assert.Contains(t, out.String(), "Error")

	assert.Empty(t, core.GetPipeline(), "convert must not touch the pipeline")
}

func TestREPLPipeline(t *testing.T) {
	rs, core, out := newTestREPL(t)

	run(t, rs, "add comma-to-list")
	run(t, rs, `add bulleted-list bullet=-`)
	run(t, rs, "set input red, green ,blue")
	assert.Equal(t, "- red\n- green\n- blue", core.GetOutputText())

	run(t, rs, "move up step_1")
	run(t, rs, "select step_0")
	out.Reset()
	run(t, rs, "show pipeline")
	assert.Contains(t, out.String(), "bulleted-list")
	assert.Contains(t, out.String(), "* comma-to-list")

	run(t, rs, "update step_1 ordered-list marker_style=roman-upper")
	run(t, rs, "move down step_1")
	assert.Equal(t, "I. red\nII. green\nIII. blue", core.GetOutputText())

	run(t, rs, "delete step_1")
	assert.Len(t, core.GetPipeline(), 1)

	out.Reset()
	run(t, rs, "add ordered-list nonsense=1")
	assert.Contains(t, out.String(), "unknown parameters")
	assert.Len(t, core.GetPipeline(), 1)

	out.Reset()
	run(t, rs, "delete step_9")
	assert.Contains(t, out.String(), "Error")
}

func TestREPLShowOutputError(t *testing.T) {
	rs, _, out := newTestREPL(t)

	run(t, rs, "add text-to-binary")
	out.Reset()
	run(t, rs, "set input naïve")
	assert.Contains(t, out.String(), "text-to-binary")

	out.Reset()
	run(t, rs, "show output")
	assert.Contains(t, out.String(), "naïve\n")
	assert.Contains(t, out.String(), "Error")
}

func TestREPLExportImport(t *testing.T) {
	rs, core, _ := newTestREPL(t)
	path := filepath.Join(t.TempDir(), "pipeline.json")

	run(t, rs, "add trim")
	run(t, rs, "add uppercase --lines")
	run(t, rs, "export "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"line_based": true`)

	run(t, rs, `import [{"id":"step_0","tool":"lowercase"}]`)
	assert.Equal(t, "lowercase", core.GetPipeline()[0].Tool)

	run(t, rs, "import @"+path)
	require.Len(t, core.GetPipeline(), 2)
	assert.True(t, core.GetPipeline()[1].LineBased)
}

func TestREPLRawAndTools(t *testing.T) {
	rs, _, out := newTestREPL(t)

	run(t, rs, `raw {"action":"add_step","params":{"tool":"trim"}}`)
	assert.Contains(t, out.String(), `"step_id": "step_0"`)

	out.Reset()
	run(t, rs, "tools ascii")
	assert.Contains(t, out.String(), "decimal-to-ascii")
	assert.Contains(t, out.String(), "text-to-ascii")
	assert.NotContains(t, out.String(), "uppercase")

	out.Reset()
	run(t, rs, "help convert")
	assert.Contains(t, out.String(), "convert <tool>")

	cmd, err := ParseCommand("quit")
	require.NoError(t, err)
	assert.ErrorIs(t, rs.Execute(cmd), errExit)
}

func TestFlattenStats(t *testing.T) {
	var out bytes.Buffer
	f := NewREPLFormatter(&out, false)

	f.PrintStats(map[string]interface{}{"total": 3, "breakdown": map[string]int{"tabs": 1}})
	assert.Contains(t, out.String(), "breakdown.tabs")
	assert.Contains(t, out.String(), "total")
}
