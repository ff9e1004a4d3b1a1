// Package csvimport turns watchlist CSV exports into typed import candidates
// and writes the native export format.
package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/heartmarshall/watchlist-backend/internal/domain"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ParseError rejects a whole file before any row is looked at.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string { return "parse csv: " + e.Reason }

func (e *ParseError) Unwrap() error { return domain.ErrValidation }

// Row is one data record keyed by header.
type Row struct {
	// Line is the 1-based record number; the header is record 1.
	Line   int               `json:"row"`
	Values map[string]string `json:"values"`
}

// Get returns the trimmed value of a column, or "" when the column is absent.
func (r Row) Get(header string) string {
	return strings.TrimSpace(r.Values[header])
}

// Document is a parsed CSV file. It is not modified after Parse returns.
type Document struct {
	Headers []string
	Rows    []Row
}

// Parse decodes raw file bytes into a Document.
func Parse(data []byte) (*Document, error) {
	text, err := decode(data)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var (
		doc    *Document
		record int
	)
	for {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &ParseError{Reason: fmt.Sprintf("malformed CSV at line %d", csvErr.Line)}
			}
			return nil, &ParseError{Reason: "malformed CSV"}
		}
		record++

		if doc == nil {
			headers := make([]string, len(fields))
			for i, h := range fields {
				headers[i] = strings.TrimSpace(h)
			}
			if isBlank(headers) {
				return nil, &ParseError{Reason: "header row is empty"}
			}
			doc = &Document{Headers: headers}
			continue
		}

		if isBlank(fields) {
			continue
		}
		doc.Rows = append(doc.Rows, Row{Line: record, Values: alignRow(doc.Headers, fields)})
	}

	if doc == nil || len(doc.Rows) == 0 {
		return nil, &ParseError{Reason: "file contains no data rows"}
	}
	return doc, nil
}

// decode strips byte order marks and converts UTF-16 input to UTF-8.
func decode(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE), bytes.HasPrefix(data, bomUTF16BE):
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data)
		if err != nil {
			return "", &ParseError{Reason: "file is not valid UTF-16 text"}
		}
		data = bytes.TrimPrefix(out, bomUTF8)
	}
	if !utf8.Valid(data) {
		return "", &ParseError{Reason: "file is not valid UTF-8 text"}
	}
	return string(data), nil
}

// alignRow maps fields to headers. Missing trailing fields become "", extra
// fields are dropped, and the first of repeated headers keeps its value.
func alignRow(headers, fields []string) map[string]string {
	values := make(map[string]string, len(headers))
	for i, h := range headers {
		if _, seen := values[h]; seen {
			continue
		}
		if i < len(fields) {
			values[h] = fields[i]
		} else {
			values[h] = ""
		}
	}
	return values
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
