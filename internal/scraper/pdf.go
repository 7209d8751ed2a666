package scraper

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// ExtractPDFLines extracts flattened text lines from PDF bytes. Several state
// associations publish brackets only as PDF exports; their text layer already
// separates entries with newlines, so the output feeds the bracket parser the
// same way HTML extraction does.
func ExtractPDFLines(data []byte) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	plainText, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extracting text from PDF: %w", err)
	}

	text, err := io.ReadAll(plainText)
	if err != nil {
		return nil, fmt.Errorf("reading plain text from PDF: %w", err)
	}

	return SplitLines(string(text)), nil
}

// ExtractPDFFileLines extracts flattened text lines from a PDF on disk.
func ExtractPDFFileLines(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	plainText, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extracting text from PDF: %w", err)
	}

	text, err := io.ReadAll(plainText)
	if err != nil {
		return nil, fmt.Errorf("reading plain text from PDF: %w", err)
	}

	return SplitLines(string(text)), nil
}
