package convert

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONTextWithKeys(t *testing.T) {
	res := ExtractJSONText(`{"a":{"b":1,"c":""}}`, JSONTextOptions{Separator: SeparatorNewline, IncludeKeys: true})

	require.True(t, res.OK)
	assert.Equal(t, "a.b: 1", res.Text)
	assert.Equal(t, 1, res.ExtractedCount)
	assert.Equal(t, 1, res.SkippedCount)
}

func TestExtractJSONTextPaths(t *testing.T) {
	raw := `{"name":"pen","tags":["red","blue"],"stock":{"count":3,"ok":true,"note":null}}`
	res := ExtractJSONText(raw, JSONTextOptions{Separator: SeparatorNewline, IncludeKeys: true})

	require.True(t, res.OK)
	assert.Equal(t, "name: pen\ntags[0]: red\ntags[1]: blue\nstock.count: 3\nstock.ok: true\nstock.note: null", res.Text)
	assert.Equal(t, 6, res.ExtractedCount)
}

func TestExtractJSONTextRootArray(t *testing.T) {
	res := ExtractJSONText(`[1, [2, "x"]]`, JSONTextOptions{IncludeKeys: true})

	require.True(t, res.OK)
	assert.Equal(t, "[0]: 1\n[1][0]: 2\n[1][1]: x", res.Text)
}

func TestExtractJSONTextRootPrimitiveHasNoPath(t *testing.T) {
	res := ExtractJSONText(` "plain" `, JSONTextOptions{IncludeKeys: true})

	require.True(t, res.OK)
	assert.Equal(t, "plain", res.Text)
	assert.Equal(t, 1, res.ExtractedCount)
}

func TestExtractJSONTextKeepsKeyOrder(t *testing.T) {
	res := ExtractJSONText(`{"z":1,"a":2,"m":3}`, JSONTextOptions{})

	require.True(t, res.OK)
	assert.Equal(t, "1\n2\n3", res.Text)
}

func TestExtractJSONTextDuplicateKeyKeepsPosition(t *testing.T) {
	res := ExtractJSONText(`{"a":1,"b":2,"a":3}`, JSONTextOptions{IncludeKeys: true})

	require.True(t, res.OK)
	assert.Equal(t, "a: 3\nb: 2", res.Text)
	assert.Equal(t, 2, res.ExtractedCount)
}

func TestExtractJSONTextSpaceSeparator(t *testing.T) {
	raw := `["  hello \n  world ", "   ", "x", ""]`
	res := ExtractJSONText(raw, JSONTextOptions{Separator: SeparatorSpace})

	require.True(t, res.OK)
	assert.Equal(t, "hello world x", res.Text)
	assert.Equal(t, 3, res.ExtractedCount, "whitespace-only string is still counted as extracted")
	assert.Equal(t, 1, res.SkippedCount)
}

func TestExtractJSONTextInvalid(t *testing.T) {
	res := ExtractJSONText(`{"a":`, JSONTextOptions{})

	assert.False(t, res.OK)
	assert.Equal(t, InvalidJSONMessage, res.Error)
	assert.Empty(t, res.Text)
}

func TestExtractJSONTextBlankInput(t *testing.T) {
	res := ExtractJSONText(" \n\t ", JSONTextOptions{})

	assert.True(t, res.OK)
	assert.Empty(t, res.Text)
	assert.Zero(t, res.ExtractedCount)
	assert.Zero(t, res.SkippedCount)
}

func TestExtractJSONTextEmptyContainers(t *testing.T) {
	res := ExtractJSONText(`{"a":[],"b":{}}`, JSONTextOptions{})

	assert.True(t, res.OK)
	assert.Empty(t, res.Text)
	assert.Zero(t, res.ExtractedCount)
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{-2, "-2"},
		{100, "100"},
		{0.000001, "0.000001"},
		{0.0000001, "1e-7"},
		{1e21, "1e+21"},
		{1.5e300, "1.5e+300"},
		{123456789012345680000, "123456789012345680000"},
		{math.Copysign(0, -1), "0"},
		{math.NaN(), "NaN"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestParseJSONValues(t *testing.T) {
	v, err := ParseJSON(`{"n":null,"t":true,"f":false,"x":1e2,"s":"é"}`)
	require.NoError(t, err)

	obj, ok := v.(Object)
	require.True(t, ok)
	require.Len(t, obj, 5)
	assert.Equal(t, Null{}, obj[0].Value)
	assert.Equal(t, Bool(true), obj[1].Value)
	assert.Equal(t, Bool(false), obj[2].Value)
	assert.Equal(t, Number(100), obj[3].Value)
	assert.Equal(t, String("é"), obj[4].Value)

	_, err = ParseJSON(`nope`)
	assert.ErrorIs(t, err, ErrInvalidJSON)
}

func TestExtractJSONTextDeepNesting(t *testing.T) {
	const depth = 100000
	raw := strings.Repeat(`{"k":`, depth) + `1` + strings.Repeat(`}`, depth)

	start := time.Now()
	res := ExtractJSONText(raw, JSONTextOptions{})
	require.True(t, res.OK)
	assert.Equal(t, "1", res.Text)

	res = ExtractJSONText(raw, JSONTextOptions{IncludeKeys: true})
	require.True(t, res.OK)
	assert.Equal(t, strings.Repeat("k.", depth-1)+"k: 1", res.Text)
	assert.Less(t, time.Since(start), 5*time.Second, "extraction should be linear in nesting depth")

	arrays := strings.Repeat("[", depth) + strings.Repeat("]", depth)
	res = ExtractJSONText(arrays, JSONTextOptions{})
	require.True(t, res.OK)
	assert.Equal(t, 0, res.ExtractedCount)
}

func TestParseJSONStringEscapes(t *testing.T) {
	v, err := ParseJSON(`{"a\"b":"x\\","u":"\u00e9\n","list":["]","}"]}`)
	require.NoError(t, err)

	assert.Equal(t, Object{
		{Key: `a"b`, Value: String(`x\`)},
		{Key: "u", Value: String("é\n")},
		{Key: "list", Value: Array{String("]"), String("}")}},
	}, v)
}
