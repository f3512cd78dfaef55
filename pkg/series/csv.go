package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Timestamp layouts accepted in flow CSV files, tried in order.
var csvTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// LoadCSV reads a two-column (timestamp, value) CSV file into a series.
// A header row is skipped if its second column is not numeric.
// Timestamps must be strictly increasing.
func LoadCSV(path, name string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, fmt.Errorf("reading series file %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadCSV(f, name)
	if err != nil {
		return Series{}, fmt.Errorf("parsing series file %s: %w", path, err)
	}
	return s, nil
}

// ReadCSV parses (timestamp, value) rows from r.
func ReadCSV(r io.Reader, name string) (Series, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return Series{}, err
	}

	s := Series{Name: name}
	for i, row := range rows {
		if len(row) < 2 {
			return Series{}, fmt.Errorf("row %d: expected 2 columns, got %d", i+1, len(row))
		}
		val, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			if i == 0 {
				// Header row.
				continue
			}
			return Series{}, fmt.Errorf("row %d: parsing value %q: %w", i+1, row[1], err)
		}
		ts, err := parseTimestamp(row[0])
		if err != nil {
			return Series{}, fmt.Errorf("row %d: %w", i+1, err)
		}
		s.Samples = append(s.Samples, Sample{Time: ts, Value: val})
	}

	if err := s.Validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

// WriteCSV writes the series as (timestamp, value) rows with a header.
func (s Series) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"time", s.Name}); err != nil {
		return err
	}
	for _, smp := range s.Samples {
		row := []string{
			smp.Time.Format(time.RFC3339),
			strconv.FormatFloat(smp.Value, 'g', -1, 64),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func parseTimestamp(field string) (time.Time, error) {
	for _, layout := range csvTimeLayouts {
		if ts, err := time.Parse(layout, field); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing timestamp %q", field)
}
