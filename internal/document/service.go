// Package document exposes text extraction for uploaded files. The rest of
// the system only depends on the "bytes in, text out" contract.
package document

import (
	"fmt"

	"github.com/rohankapur/finetune-studio/pkg/textextract"
)

// ExtractionError reports a document that could not be parsed.
type ExtractionError struct {
	FileType string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s document: %v", e.FileType, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

type Extraction struct {
	Text  string `json:"text"`
	Pages int    `json:"pages"`
	Chars int    `json:"chars"`
}

// ExtractText parses the given file bytes into plain text.
func ExtractText(data []byte, fileType string) (*Extraction, error) {
	res, err := textextract.Extract(data, fileType)
	if err != nil {
		return nil, &ExtractionError{FileType: fileType, Err: err}
	}
	return &Extraction{
		Text:  res.Text,
		Pages: res.Pages,
		Chars: len(res.Text),
	}, nil
}

// SupportedTypes lists extractable file types for the upload UI.
func SupportedTypes() []string {
	return textextract.Supported()
}
