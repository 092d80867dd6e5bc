package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeDecimalASCII(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		output    string
		parsed    int
		converted int
		skipped   []uint64
	}{
		{"hello", "72 101 108 108 111", "Hello", 5, 5, []uint64{}},
		{"mixed separators", "72,105;\n33", "Hi!", 3, 3, []uint64{}},
		{"free text", "code: 65 then 66.", "AB", 2, 2, []uint64{}},
		{"range bounds", "31 32 126 127", " ~", 4, 2, []uint64{31, 127}},
		{"leading zeros", "0065", "A", 1, 1, []uint64{}},
		{"empty", "", "", 0, 0, []uint64{}},
		{"no digits", "hello world", "", 0, 0, []uint64{}},
		{"minus is a separator", "-65", "A", 1, 1, []uint64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := DecodeDecimalASCII(tt.input)
			assert.Equal(t, tt.output, res.Output)
			assert.Equal(t, tt.parsed, res.Report.ParsedCount)
			assert.Equal(t, tt.converted, res.Report.ConvertedCount)
			assert.Equal(t, len(tt.skipped), res.Report.SkippedCount)
			assert.Equal(t, tt.skipped, res.Report.SkippedCodes)
			assert.Equal(t, 32, res.Report.PrintableMin)
			assert.Equal(t, 126, res.Report.PrintableMax)
		})
	}
}

func TestDecodeDecimalASCIISkippedPreviewIsCapped(t *testing.T) {
	input := ""
	for i := 0; i < 30; i++ {
		input += "200 "
	}
	res := DecodeDecimalASCII(input + "65")

	assert.Equal(t, "A", res.Output)
	assert.Equal(t, 31, res.Report.ParsedCount)
	assert.Equal(t, 30, res.Report.SkippedCount)
	assert.Len(t, res.Report.SkippedCodes, 24)
}

func TestDecodeDecimalASCIIOverflowIsSkipped(t *testing.T) {
	res := DecodeDecimalASCII("99999999999999999999999 72")

	assert.Equal(t, "H", res.Output)
	assert.Equal(t, 1, res.Report.SkippedCount)
	assert.Equal(t, []uint64{math.MaxUint64}, res.Report.SkippedCodes)
}

func TestDecimalRoundTrip(t *testing.T) {
	inputs := []string{
		"72 101 108 108 111",
		"32, 126, 65",
		"104|105",
	}
	for _, in := range inputs {
		decoded := DecodeDecimalASCII(in).Output
		encoded := EncodeTextToASCII(decoded, ASCIIOptions{Delimiter: DelimiterSpace, PrintableOnly: true})

		want := DecodeDecimalASCII(in)
		assert.Equal(t, want.Report.ConvertedCount, encoded.Stats.Encoded, in)
		assert.Equal(t, decoded, DecodeDecimalASCII(encoded.Output).Output, in)
	}
}
