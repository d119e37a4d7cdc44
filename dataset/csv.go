package dataset

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// ReadCSV reads examples from comma separated values. Every column except labelColumn
// must be numeric and becomes a feature; the label column becomes the example's truth.
// A negative labelColumn counts from the end of the row. When header is true the first
// row is skipped.
func ReadCSV(r io.Reader, labelColumn int, header bool) ([]Example, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading csv")
	}
	if header && len(rows) > 0 {
		rows = rows[1:]
	}

	examples := make([]Example, 0, len(rows))
	for n, row := range rows {
		col := labelColumn
		if col < 0 {
			col += len(row)
		}
		if col < 0 || col >= len(row) {
			return nil, errors.Errorf("row %d: label column %d out of range for %d columns", n, labelColumn, len(row))
		}
		e := Example{
			ID:       strconv.Itoa(n),
			Truth:    row[col],
			Features: make([]float64, 0, len(row)-1),
		}
		for i, v := range row {
			if i == col {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "row %d column %d", n, i)
			}
			e.Features = append(e.Features, f)
		}
		examples = append(examples, e)
	}
	return examples, nil
}
