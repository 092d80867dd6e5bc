package document

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/net/html/charset"
)

// PlainTextExtractor decodes text files. The character set comes from
// ContentType when it names one, otherwise it is detected.
type PlainTextExtractor struct {
	ContentType string
}

func (e PlainTextExtractor) ExtractText(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	enc, name, _ := charset.DetermineEncoding(data, e.ContentType)
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}

	text := strings.TrimPrefix(string(decoded), "\uFEFF")
	return normalizeNewlines(text), nil
}

// PlainTextExporter writes text as is, adding a final newline when it
// has none. Line endings inside the text are kept.
type PlainTextExporter struct{}

func (PlainTextExporter) Export(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	return []byte(text), nil
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
