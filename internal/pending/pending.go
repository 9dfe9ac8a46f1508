// Package pending reads the list of not yet booked transactions that the
// portal shows separately from the downloadable export.
package pending

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Row is one scraped pending transaction: booking date (DD.MM.YYYY), purpose
// text and the debit/credit amounts exactly as displayed.
type Row struct {
	Date   string `json:"date"`
	Memo   string `json:"memo"`
	Debit  string `json:"debit"`
	Credit string `json:"credit"`
}

// FromTuple builds a Row from the scraper's [date, memo, debit, credit] tuple.
func FromTuple(fields []string) (Row, error) {
	if len(fields) != 4 {
		return Row{}, fmt.Errorf("expected 4 fields (date, memo, debit, credit), got %d", len(fields))
	}

	return Row{Date: fields[0], Memo: fields[1], Debit: fields[2], Credit: fields[3]}, nil
}

// Parse decodes a sequence of 4-element string tuples. Both YAML and JSON are
// accepted. Empty input yields no rows.
func Parse(data []byte) ([]Row, error) {
	var tuples [][]string
	if err := yaml.Unmarshal(data, &tuples); err != nil {
		return nil, fmt.Errorf("decode pending list: %w", err)
	}

	rows := make([]Row, 0, len(tuples))

	for i, tuple := range tuples {
		row, err := FromTuple(tuple)
		if err != nil {
			return nil, fmt.Errorf("pending entry %d: %w", i+1, err)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func Load(r io.Reader) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pending list: %w", err)
	}

	return Parse(data)
}

func LoadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pending list: %w", err)
	}
	defer f.Close()

	return Load(f)
}
