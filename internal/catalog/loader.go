package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

var requiredColumns = []string{
	ColumnDestination,
	ColumnAccommodationCost,
	ColumnTransportationCost,
	ColumnDuration,
	ColumnMonth,
	ColumnAccommodationType,
}

// LoadFromFile reads a catalog from a CSV file with a header row.
func LoadFromFile(file string) (*Catalog, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", file, err)
	}
	return c, nil
}

// Read parses a CSV catalog. The header must contain every required column;
// other columns are kept as extra numeric columns when all their cells parse
// as numbers and as text columns otherwise.
func Read(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty catalog: header row expected")
		}
		return nil, err
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, column := range requiredColumns {
		if _, found := index[column]; !found {
			return nil, fmt.Errorf("missing column %q", column)
		}
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	destinations := make([]Destination, 0, len(records))
	for row, record := range records {
		d, err := parseDestination(record, index)
		if err != nil {
			// row+2: one for the header, one for 1-based numbering
			return nil, fmt.Errorf("line %d: %w", row+2, err)
		}
		destinations = append(destinations, d)
	}

	c := New(destinations)
	for column, i := range index {
		if isRequired(column) || column == "" {
			continue
		}
		cells := make([]string, len(records))
		for row, record := range records {
			cells[row] = strings.TrimSpace(record[i])
		}
		c.withExtra(column, parseNumbers(cells), cells)
	}

	return c, nil
}

func parseDestination(record []string, index map[string]int) (Destination, error) {
	cell := func(column string) string {
		return strings.TrimSpace(record[index[column]])
	}

	accommodation, err := parseFloat(ColumnAccommodationCost, cell(ColumnAccommodationCost))
	if err != nil {
		return Destination{}, err
	}
	transportation, err := parseFloat(ColumnTransportationCost, cell(ColumnTransportationCost))
	if err != nil {
		return Destination{}, err
	}
	if accommodation+transportation < 0 {
		return Destination{}, fmt.Errorf("negative total cost %.2f", accommodation+transportation)
	}
	duration, err := parseFloat(ColumnDuration, cell(ColumnDuration))
	if err != nil {
		return Destination{}, err
	}
	month, err := parseFloat(ColumnMonth, cell(ColumnMonth))
	if err != nil {
		return Destination{}, err
	}
	if month < 1 || month > 12 || month != math.Trunc(month) {
		return Destination{}, fmt.Errorf("month %v is not a whole number in 1..12", month)
	}

	return Destination{
		Name:               cell(ColumnDestination),
		AccommodationCost:  accommodation,
		TransportationCost: transportation,
		Duration:           duration,
		Month:              int(month),
		AccommodationType:  cell(ColumnAccommodationType),
	}, nil
}

func parseFloat(column, value string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", column, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("column %q: non-finite value %q", column, value)
	}
	return v, nil
}

// parseNumbers returns nil unless every cell is a number.
func parseNumbers(cells []string) []float64 {
	values := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		values[i] = v
	}
	return values
}

func isRequired(column string) bool {
	for _, c := range requiredColumns {
		if c == column {
			return true
		}
	}
	return column == ColumnTotalCost
}
