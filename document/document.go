// Package document converts between uploaded files and plain text.
// Extractors turn file bytes into text for the conversion tools and
// exporters turn a result back into a file. PDF and DOCX are recognised
// but have no implementation.
package document

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for formats that are recognised but
// not implemented.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor turns document bytes into plain text
type Extractor interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// Exporter renders text as a document
type Exporter interface {
	Export(ctx context.Context, text string) ([]byte, error)
}

// Unsupported stands in for a format without an implementation
type Unsupported struct {
	Format string
}

func (u Unsupported) ExtractText(ctx context.Context, data []byte) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, u.Format)
}

func (u Unsupported) Export(ctx context.Context, text string) ([]byte, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, u.Format)
}

const (
	mediaHTML  = "text/html"
	mediaXHTML = "application/xhtml+xml"
	mediaPDF   = "application/pdf"
	mediaDOCX  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// ForContent picks an extractor from the file name, the declared content
// type or, when both are empty, by sniffing data.
func ForContent(filename, contentType string, data []byte) Extractor {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".html", ".htm", ".xhtml":
		return HTMLExtractor{ContentType: contentType}
	case ".pdf":
		return Unsupported{Format: "pdf"}
	case ".docx":
		return Unsupported{Format: "docx"}
	}

	sniffed := contentType
	if sniffed == "" {
		sniffed = http.DetectContentType(data)
	}
	media, _, err := mime.ParseMediaType(sniffed)
	if err != nil {
		return PlainTextExtractor{ContentType: contentType}
	}

	switch media {
	case mediaHTML, mediaXHTML:
		return HTMLExtractor{ContentType: contentType}
	case mediaPDF:
		return Unsupported{Format: "pdf"}
	case mediaDOCX:
		return Unsupported{Format: "docx"}
	}
	return PlainTextExtractor{ContentType: contentType}
}

// ExporterFor returns the exporter registered under format
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "text", "txt", "":
		return PlainTextExporter{}, nil
	case "html":
		return HTMLExporter{}, nil
	case "pdf", "docx":
		return Unsupported{Format: strings.ToLower(format)}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
