// Package textextract pulls plain text out of uploaded source documents so
// prompts can reference their content.
package textextract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Result is the extracted text plus how many pages contributed to it.
type Result struct {
	Text  string
	Pages int
}

// Supported lists the file types Extract understands.
func Supported() []string {
	return []string{"pdf", "txt"}
}

// Extract parses the given document bytes by declared file type.
func Extract(data []byte, fileType string) (*Result, error) {
	switch normalizeType(fileType) {
	case "pdf":
		return fromPDF(data)
	case "txt":
		return &Result{Text: string(bytes.TrimSpace(data)), Pages: 1}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q", fileType)
	}
}

func normalizeType(fileType string) string {
	t := strings.ToLower(strings.TrimPrefix(fileType, "."))
	switch t {
	case "pdf", "application/pdf":
		return "pdf"
	case "txt", "text/plain":
		return "txt"
	}
	return t
}

func fromPDF(data []byte) (*Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		// Pages that fail to decode are skipped rather than failing the
		// whole document.
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	return &Result{Text: b.String(), Pages: pages}, nil
}
