// Package docs validates uploaded coaching documents and extracts text
// from PDF resumes.
package docs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MinTextLength is the smallest extracted text considered a usable
// document. Shorter extractions usually mean a scanned or image-only PDF.
const MinTextLength = 50

// ErrTooLittleText marks a structurally valid PDF that yields less than
// MinTextLength characters of text.
var ErrTooLittleText = errors.New("pdf contains too little text")

// ExtractPDFText returns the plain text of a PDF. Encrypted, malformed,
// and effectively empty documents are rejected.
func ExtractPDFText(data []byte) (text string, err error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty pdf")
	}
	// The pdf library panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("parse pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("parse pdf: %w", err)
	}

	var b strings.Builder
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	text = strings.TrimSpace(b.String())
	if len(text) < MinTextLength {
		return "", fmt.Errorf("%w (%d chars, need %d)", ErrTooLittleText, len(text), MinTextLength)
	}
	return text, nil
}

// ValidateText checks pasted document text (e.g. a job description).
func ValidateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if len(text) < MinTextLength {
		return "", fmt.Errorf("document too short (%d chars, need %d)", len(text), MinTextLength)
	}
	return text, nil
}
