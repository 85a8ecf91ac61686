package dataset

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ReadCSV parses rows of numeric features followed by an integer label. A
// first row whose label column is not an integer is taken as a header.
func ReadCSV(r io.Reader) (Set, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return Set{}, errors.Wrap(err, "failed to read csv")
	}

	s := Set{}
	width := -1
	for i, record := range records {
		if len(record) < 2 {
			return Set{}, errors.Errorf("row %d: need at least one feature and a label, got %d columns", i+1, len(record))
		}

		l, err := strconv.Atoi(strings.TrimSpace(record[len(record)-1]))
		if err != nil {
			if i == 0 {
				continue
			}
			return Set{}, errors.Wrapf(err, "row %d: invalid label", i+1)
		}
		if l < 0 {
			return Set{}, errors.Errorf("row %d: negative label %d", i+1, l)
		}

		if width == -1 {
			width = len(record) - 1
		} else if len(record)-1 != width {
			return Set{}, errors.Errorf("row %d: %d features, want %d", i+1, len(record)-1, width)
		}

		features := make([]float64, width)
		for j := range features {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[j]), 64)
			if err != nil {
				return Set{}, errors.Wrapf(err, "row %d column %d", i+1, j+1)
			}
			features[j] = v
		}
		s.append(features, l)
	}

	return s, nil
}
