// Package export renders a quote to files: delimited text, spreadsheet and
// paginated document. Every renderer reads the same Quote value.
package export

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"quote-tool/core/quote"
	"quote-tool/internal/errors"
)

// Kind is an export file type
type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
	KindPDF  Kind = "pdf"
)

// Header is the document block printed above the line items
type Header struct {
	Company     string
	GeneratedAt time.Time
	LegalNotice string
}

// Timestamp renders the generation time the way documents show it
func (h Header) Timestamp() string {
	return h.GeneratedAt.Format("January 02, 2006 15:04:05")
}

// Document is a quote plus its header
type Document struct {
	Header Header
	Quote  *quote.Quote
}

// Title is the document heading
func (d Document) Title() string {
	if d.Header.Company != "" {
		return "Quote for " + d.Header.Company
	}
	return "Quote"
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_\- ]+`)

// FileName derives an export file name from company, business model and
// date. Spaces become underscores and anything outside letters, digits,
// underscore and hyphen is dropped.
func FileName(company, model string, date time.Time, kind Kind) string {
	parts := []string{sanitizeName(company), sanitizeName(model), date.Format("2006-01-02")}
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "_") + "." + string(kind)
}

func sanitizeName(s string) string {
	s = unsafeFileChars.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), "_")
}

// Render produces the bytes of one export kind
func Render(doc Document, kind Kind) ([]byte, error) {
	switch kind {
	case KindCSV:
		var buf bytes.Buffer
		if err := WriteCSV(&buf, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case KindXLSX:
		return GenerateExcel(doc)
	case KindPDF:
		return GeneratePDF(doc)
	}
	return nil, errors.Newf(errors.TypeExport, "unknown export kind %q", kind)
}

// WriteFiles renders each kind into dir and returns the written paths
func WriteFiles(dir string, doc Document, kinds ...Kind) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Export("failed to create output directory", err)
	}

	var paths []string
	for _, kind := range kinds {
		data, err := Render(doc, kind)
		if err != nil {
			return paths, err
		}
		path := filepath.Join(dir, FileName(doc.Header.Company, string(doc.Quote.BusinessModel), doc.Header.GeneratedAt, kind))
		if err := os.WriteFile(path, data, 0644); err != nil {
			return paths, errors.Export("failed to write "+path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// sanitizeCell neutralizes text that a spreadsheet would evaluate as a formula
func sanitizeCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}
