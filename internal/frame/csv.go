package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadCSV loads a frame from CSV with a header row. When indexColumn is not
// empty and present in the header, that column becomes the row labels and
// every other column is parsed as float64. Empty cells are read as NaN.
func ReadCSV(r io.Reader, indexColumn string) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return New(0), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	indexPos := -1
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
		if indexColumn != "" && header[i] == indexColumn {
			indexPos = i
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	values := make([][]float64, len(header))
	for c := range header {
		values[c] = make([]float64, len(records))
	}
	var labels []string
	if indexPos >= 0 {
		labels = make([]string, len(records))
	}

	for row, rec := range records {
		for c, cell := range rec {
			if c == indexPos {
				labels[row] = cell
				continue
			}
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", row+1, header[c], err)
			}
			values[c][row] = v
		}
	}

	f := New(len(records))
	for c, name := range header {
		if c == indexPos {
			continue
		}
		f.put(name, values[c])
	}
	f.labels = labels
	return f, nil
}

// DefaultIndexColumn names the label column when WriteCSV is given none
const DefaultIndexColumn = "index"

// WriteCSV writes the frame with a header row. Row labels, when present,
// are written first under indexColumn, so ReadCSV with the same name reads
// them back as labels. NaN is written as an empty cell.
func WriteCSV(w io.Writer, f *Frame, indexColumn string) error {
	cw := csv.NewWriter(w)

	if indexColumn == "" {
		indexColumn = DefaultIndexColumn
	}
	header := make([]string, 0, len(f.names)+1)
	if f.labels != nil {
		header = append(header, indexColumn)
	}
	header = append(header, f.names...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for row := 0; row < f.n; row++ {
		pos := 0
		if f.labels != nil {
			record[0] = f.labels[row]
			pos = 1
		}
		for _, name := range f.names {
			record[pos] = formatCell(f.columns[name][row])
			pos++
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
