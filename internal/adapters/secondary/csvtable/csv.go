package csvtable

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"energy-forecast-service/internal/core/domain"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// ReadTable parses a CSV whose header names the index columns followed by
// the measures. A header with area and consumer_type yields a keyed table;
// otherwise only datetime_utc is expected. Timestamps without an offset are
// taken as UTC. Empty measure cells become NaN.
func ReadTable(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: empty csv", domain.ErrInvalidTable)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	layout, err := parseHeader(header)
	if err != nil {
		return nil, err
	}
	table := domain.NewTable(layout.keyed, layout.measures...)

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		key, ts, values, err := layout.parse(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if err := table.Append(key, ts, values...); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// WriteTable writes the table with its index columns first.
func WriteTable(w io.Writer, table *domain.Table) error {
	writer := csv.NewWriter(w)

	header := make([]string, 0, 3+len(table.Measures))
	if table.Keyed {
		header = append(header, domain.ColumnArea, domain.ColumnConsumerType)
	}
	header = append(header, domain.ColumnDatetimeUTC)
	header = append(header, table.Measures...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range table.Rows {
		record = record[:0]
		if table.Keyed {
			record = append(record, strconv.Itoa(row.Area), strconv.Itoa(row.ConsumerType))
		}
		record = append(record, row.DatetimeUTC.UTC().Format(time.RFC3339))
		for _, v := range row.Values {
			if math.IsNaN(v) {
				record = append(record, "")
				continue
			}
			record = append(record, strconv.FormatFloat(v, 'f', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

type columns struct {
	keyed        bool
	area         int
	consumerType int
	datetime     int
	measures     []string
	measureAt    []int
}

func parseHeader(header []string) (*columns, error) {
	c := &columns{area: -1, consumerType: -1, datetime: -1}
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case domain.ColumnArea:
			c.area = i
		case domain.ColumnConsumerType:
			c.consumerType = i
		case domain.ColumnDatetimeUTC:
			c.datetime = i
		default:
			c.measures = append(c.measures, strings.TrimSpace(name))
			c.measureAt = append(c.measureAt, i)
		}
	}

	if c.datetime < 0 {
		return nil, fmt.Errorf("%w: missing %s column", domain.ErrInvalidTable, domain.ColumnDatetimeUTC)
	}
	if (c.area < 0) != (c.consumerType < 0) {
		return nil, fmt.Errorf("%w: %s and %s must appear together", domain.ErrInvalidTable, domain.ColumnArea, domain.ColumnConsumerType)
	}
	c.keyed = c.area >= 0
	return c, nil
}

func (c *columns) parse(record []string) (domain.Key, time.Time, []float64, error) {
	var key domain.Key
	if c.keyed {
		area, err := strconv.Atoi(strings.TrimSpace(record[c.area]))
		if err != nil {
			return key, time.Time{}, nil, fmt.Errorf("invalid %s %q", domain.ColumnArea, record[c.area])
		}
		consumerType, err := strconv.Atoi(strings.TrimSpace(record[c.consumerType]))
		if err != nil {
			return key, time.Time{}, nil, fmt.Errorf("invalid %s %q", domain.ColumnConsumerType, record[c.consumerType])
		}
		key = domain.Key{Area: area, ConsumerType: consumerType}
	}

	ts, err := parseTime(record[c.datetime])
	if err != nil {
		return key, time.Time{}, nil, err
	}

	values := make([]float64, len(c.measureAt))
	for i, at := range c.measureAt {
		cell := strings.TrimSpace(record[at])
		if cell == "" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return key, time.Time{}, nil, fmt.Errorf("invalid %s %q", c.measures[i], cell)
		}
		values[i] = v
	}
	return key, ts, values, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse time '%s' with any known format", s)
}
