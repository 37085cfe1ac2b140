// Package tabular reads delimited text exports into header-keyed rows.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"ctrcompare/internal/searchperf"
)

// Delimiters the sniffer chooses from, in order of preference on ties.
var Delimiters = []rune{',', ';', '\t'}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Table is a parsed export: the header row and one RawRow per data line.
type Table struct {
	Headers   []string
	Rows      []searchperf.RawRow
	Delimiter rune
}

// SourceFormatError means the content is not recognizable tabular text.
type SourceFormatError struct {
	Reason string
	Err    error
}

func (e *SourceFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unrecognized tabular data: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("unrecognized tabular data: %s", e.Reason)
}

func (e *SourceFormatError) Unwrap() error {
	return e.Err
}

// Parse reads the whole export. Blank lines are skipped, short rows leave the
// missing cells empty and cells beyond the header are ignored.
func Parse(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tabular data: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &SourceFormatError{Reason: "empty input"}
	}
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, &SourceFormatError{Reason: "content is not UTF-8 text"}
	}

	delimiter := sniffDelimiter(data)
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SourceFormatError{Reason: "missing header row"}
		}
		return nil, &SourceFormatError{Reason: "malformed header row", Err: err}
	}

	table := &Table{Headers: headers, Delimiter: delimiter}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &SourceFormatError{Reason: "malformed record", Err: err}
		}
		table.Rows = append(table.Rows, toRow(headers, record))
	}
	return table, nil
}

// ReadFile parses the export stored at path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func toRow(headers, record []string) searchperf.RawRow {
	row := make(searchperf.RawRow, len(headers))
	for i, header := range headers {
		if _, exists := row[header]; exists {
			continue
		}
		if i < len(record) {
			row[header] = record[i]
		} else {
			row[header] = ""
		}
	}
	return row
}

// sniffDelimiter counts candidate delimiters on the first non-blank line,
// ignoring anything inside double quotes.
func sniffDelimiter(data []byte) rune {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), len(data)+1)

	var line string
	for scanner.Scan() {
		if len(bytes.TrimSpace(scanner.Bytes())) > 0 {
			line = scanner.Text()
			break
		}
	}

	counts := make(map[rune]int, len(Delimiters))
	inQuotes := false
	for _, r := range line {
		if r == '"' {
			inQuotes = !inQuotes
			continue
		}
		if !inQuotes {
			counts[r]++
		}
	}

	best := Delimiters[0]
	for _, candidate := range Delimiters[1:] {
		if counts[candidate] > counts[best] {
			best = candidate
		}
	}
	return best
}
