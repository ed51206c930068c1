package fetcher

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/talent-cli/internal/ingest"
)

// ReadXLSX tokenizes an XLSX export into an ingestion document. The first
// row of the selected sheet is the header row.
func ReadXLSX(path string, opts Options) (ingest.Document, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return ingest.Document{}, eris.Wrapf(err, "fetcher: open xlsx %s", path)
	}

	sheet, err := selectSheet(f, opts.SheetName)
	if err != nil {
		return ingest.Document{}, err
	}

	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		records = append(records, rowToStrings(row))
	}

	return buildDocument(filepath.Base(path), records, opts), nil
}

// ReadFile dispatches on extension: .xlsx goes through the XLSX reader,
// everything else is treated as CSV.
func ReadFile(path string, opts Options) (ingest.Document, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, opts)
	}
	return ReadCSV(path, opts)
}

func selectSheet(f *xlsx.File, name string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("fetcher: sheet %q not found", name)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("fetcher: xlsx file has no sheets")
	}
	return f.Sheets[0], nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, c := range row.Cells {
		cells[i] = c.Value
	}
	return cells
}
