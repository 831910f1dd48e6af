package dashboard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Export file names.
const (
	LayoutsExportFilename = "bda-layouts.csv"
	SourcesExportFilename = "bda-data-sources.json"
)

// ErrNothingToExport is returned when the collection to export is empty.
var ErrNothingToExport = errors.New("dashboard: nothing to export")

// Export is a file ready to be downloaded.
type Export struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportLayoutsCSV serialises layouts using the first record's keys as the
// header. Every value is JSON-encoded and falsy values become "".
func ExportLayoutsCSV(layouts []LayoutRecord) (Export, error) {
	if len(layouts) == 0 {
		return Export{}, ErrNothingToExport
	}
	headers := layouts[0].Fields.Keys
	lines := make([]string, 0, len(layouts)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, layout := range layouts {
		cells := make([]string, len(headers))
		for i, header := range headers {
			raw, _ := layout.Fields.Get(header)
			cell, err := csvCell(raw)
			if err != nil {
				return Export{}, fmt.Errorf("dashboard: encode %s for layout %s: %w", header, layout.ID, err)
			}
			cells[i] = cell
		}
		lines = append(lines, strings.Join(cells, ","))
	}
	return Export{
		Filename:    LayoutsExportFilename,
		ContentType: "text/csv",
		Body:        []byte(strings.Join(lines, "\n")),
	}, nil
}

func csvCell(raw json.RawMessage) (string, error) {
	if isFalsy(raw) {
		return `""`, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func isFalsy(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "false", `""`:
		return true
	}
	if strings.HasPrefix(trimmed, `"`) {
		return false
	}
	var n json.Number
	if err := json.Unmarshal([]byte(trimmed), &n); err == nil {
		if f, err := n.Float64(); err == nil && f == 0 {
			return true
		}
	}
	return false
}

// ExportSourcesJSON pretty-prints the sources document with a two-space indent.
func ExportSourcesJSON(raw []byte) (Export, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return Export{}, ErrNothingToExport
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return Export{}, fmt.Errorf("dashboard: indent sources: %w", err)
	}
	return Export{
		Filename:    SourcesExportFilename,
		ContentType: "application/json",
		Body:        buf.Bytes(),
	}, nil
}
