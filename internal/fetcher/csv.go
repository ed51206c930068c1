// Package fetcher tokenizes ATS export files (CSV, XLSX) into ingestion
// documents: a header list plus string-keyed rows.
package fetcher

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/talent-cli/internal/ingest"
)

// Options configures document tokenization.
type Options struct {
	// TrimHeaders strips surrounding whitespace from header cells.
	TrimHeaders bool
	// SheetName selects an XLSX sheet by name; empty means the first sheet.
	SheetName string
	// Delimiter overrides the CSV field separator; 0 means ','.
	Delimiter rune
}

// ReadCSV tokenizes a CSV export into an ingestion document. Rows shorter
// than the header get empty strings for the missing cells; extra cells
// beyond the header are dropped.
func ReadCSV(path string, opts Options) (ingest.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return ingest.Document{}, eris.Wrapf(err, "fetcher: open csv %s", path)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1 // allow variable fields

	records, err := reader.ReadAll()
	if err != nil {
		return ingest.Document{}, eris.Wrap(err, "fetcher: read csv")
	}

	return buildDocument(filepath.Base(path), records, opts), nil
}

// ReadCSVFrom tokenizes CSV content from a reader, for callers that receive
// the document over the wire rather than from disk.
func ReadCSVFrom(name string, r io.Reader, opts Options) (ingest.Document, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return ingest.Document{}, eris.Wrap(err, "fetcher: read csv")
	}

	return buildDocument(name, records, opts), nil
}

// buildDocument assembles headers and string-keyed rows from raw records.
func buildDocument(name string, records [][]string, opts Options) ingest.Document {
	doc := ingest.Document{Name: name}
	if len(records) == 0 {
		return doc
	}

	headers := records[0]
	if opts.TrimHeaders {
		trimmed := make([]string, len(headers))
		for i, h := range headers {
			trimmed[i] = strings.TrimSpace(h)
		}
		headers = trimmed
	}
	doc.Headers = headers

	for _, rec := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			} else {
				row[h] = ""
			}
		}
		doc.Rows = append(doc.Rows, row)
	}

	return doc
}
