package manifest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

const (
	utf8BOM = "\uFEFF"

	maxLineBytes = 1 << 20
)

// Decode splits delimited manifest text into rows keyed by the lower-cased
// header. Each non-blank line is one row: quoted fields may contain commas
// and doubled quotes but never span lines, so an unbalanced quote only
// affects its own row. Short rows are padded with empty strings and long
// rows are truncated to the header width.
func Decode(text string) ([]domain.RawRow, error) {
	sc := bufio.NewScanner(strings.NewReader(strings.TrimPrefix(text, utf8BOM)))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var records [][]string
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := splitLine(line)
		if err != nil {
			return nil, &DecodeError{Reason: fmt.Sprintf("malformed row %d", len(records)+1), Err: err}
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, &DecodeError{Reason: "reading lines", Err: err}
	}

	if len(records) == 0 {
		return nil, &DecodeError{Reason: "file is empty"}
	}
	if len(records) < 2 {
		return nil, &DecodeError{Reason: "no data rows after header"}
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = normalizeHeader(cell)
	}

	rows := make([]domain.RawRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(domain.RawRow, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if _, dup := row[col]; dup {
				continue
			}
			if i < len(rec) {
				row[col] = rec[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// splitLine parses a single line as one quote-aware record. An unterminated
// quote runs to the end of the line.
func splitLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rec, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []string{""}, nil
	}
	return rec, err
}

// DecodeBytes is Decode for raw file contents. Content that is not valid
// UTF-8 text is reported as a DecodeError.
func DecodeBytes(data []byte) ([]domain.RawRow, error) {
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		return nil, &DecodeError{Reason: "content is not UTF-8 delimited text"}
	}
	return Decode(string(data))
}

func normalizeHeader(cell string) string {
	cell = strings.TrimSpace(cell)
	cell = strings.Trim(cell, `"'`)
	return strings.ToLower(strings.Join(strings.Fields(cell), " "))
}

// lookup returns the first non-missing column value among candidates.
func lookup(row domain.RawRow, candidates []string) (string, bool) {
	for _, col := range candidates {
		if v, ok := row[col]; ok {
			return v, true
		}
	}
	return "", false
}

// ColumnReport describes which header column feeds each manifest field.
type ColumnReport struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	RetailPrice string `json:"retail_price"`
	TotalRetail string `json:"total_retail"`
	Condition   string `json:"condition"`
}

// DetectColumns reports which columns of row would be used for each field.
// Empty entries mean the field is missing from the file.
func DetectColumns(row domain.RawRow) ColumnReport {
	pick := func(candidates []string) string {
		for _, col := range candidates {
			if _, ok := row[col]; ok {
				return col
			}
		}
		return ""
	}
	return ColumnReport{
		Description: pick(DescriptionColumns),
		Quantity:    pick(QuantityColumns),
		RetailPrice: pick(RetailPriceColumns),
		TotalRetail: pick(TotalRetailColumns),
		Condition:   pick(ConditionColumns),
	}
}

// String renders the report for log output.
func (c ColumnReport) String() string {
	return fmt.Sprintf("description=%q quantity=%q retail=%q total=%q condition=%q",
		c.Description, c.Quantity, c.RetailPrice, c.TotalRetail, c.Condition)
}
