package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"

	"github.com/rebeliceyang/lazymarv/internal/listing"
)

// Format is a listing export format
type Format string

const (
	CSV  Format = "csv"
	JSON Format = "json"
	XLSX Format = "xlsx"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "xlsx":
		return XLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", ext)
	}
}

// Table is a listing flattened for export
type Table struct {
	Names   []string
	Titles  []string
	Cells   [][]string
	Records []map[string]interface{}
}

// TableFromView takes the rows of v in display order. Cells hold the formatted
// text, records the raw column values keyed by column name; undefined values
// are left out of the records.
func TableFromView(v *listing.View) Table {
	var t Table
	for _, h := range v.Headers {
		t.Names = append(t.Names, h.Name)
		t.Titles = append(t.Titles, h.Title)
	}
	for _, row := range v.Sorted() {
		cells := make([]string, len(v.Headers))
		record := make(map[string]interface{}, len(v.Headers))
		for i := range v.Headers {
			col := row.Column(i)
			if col == nil {
				continue
			}
			cells[i] = col.Formatted
			if col.Defined {
				record[t.Names[i]] = col.Value
			}
		}
		t.Cells = append(t.Cells, cells)
		t.Records = append(t.Records, record)
	}
	return t
}

// WriteCSV writes the titles and formatted cells
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Titles); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	if err := writer.WriteAll(t.Cells); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

// WriteJSON writes the raw records as an indented array with sorted keys
func WriteJSON(w io.Writer, t Table) error {
	records := t.Records
	if records == nil {
		records = []map[string]interface{}{}
	}
	data, err := oj.Marshal(records, &oj.Options{Sort: true, Indent: 2})
	if err != nil {
		return fmt.Errorf("failed to marshal listing to JSON: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteXLSX writes a single sheet workbook with a header row
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Listing"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(t.Titles))
	for i, title := range t.Titles {
		header[i] = title
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for r, cells := range t.Cells {
		row := make([]interface{}, len(cells))
		for i, c := range cells {
			row[i] = c
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if len(t.Titles) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(t.Titles), 1)
		if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
			return fmt.Errorf("failed to freeze header: %w", err)
		}
		if err := f.AutoFilter(sheet, "A1:"+last, nil); err != nil {
			return fmt.Errorf("failed to set auto filter: %w", err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}

// Write renders t in the given format
func Write(w io.Writer, format Format, t Table) error {
	switch format {
	case CSV:
		return WriteCSV(w, t)
	case JSON:
		return WriteJSON(w, t)
	case XLSX:
		return WriteXLSX(w, t)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// Listing exports the view to path, picking the format from its extension
func Listing(fs afero.Fs, path string, v *listing.View) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Write(&buf, format, TableFromView(v)); err != nil {
		return err
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s file: %w", format, err)
	}
	return nil
}
