package domain

import (
	"fmt"
	"sort"
	"time"
)

// Projection holds requested columns as parallel sequences in row order.
// Index levels that were not requested are left nil.
type Projection struct {
	DatetimeUTC  []time.Time
	Area         []int
	ConsumerType []int
	Measures     map[string][]float64
}

// SelectByKey returns the rows matching key. An empty match is reported as a
// KeyNotFoundError. The returned rows share measure storage with t.
func (t *Table) SelectByKey(key Key) (*Table, error) {
	if !t.Keyed {
		return nil, fmt.Errorf("%w: table is not indexed by area and consumer_type", ErrInvalidTable)
	}

	sub := &Table{Keyed: true, Measures: t.Measures, Rows: []Row{}}
	for _, r := range t.Rows {
		if r.Key == key {
			sub.Rows = append(sub.Rows, r)
		}
	}
	if len(sub.Rows) == 0 {
		return nil, &KeyNotFoundError{Key: key}
	}
	return sub, nil
}

// SortByTime returns a copy of t ordered by datetime_utc ascending.
func (t *Table) SortByTime() *Table {
	rows := make([]Row, len(t.Rows))
	copy(rows, t.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DatetimeUTC.Before(rows[j].DatetimeUTC)
	})
	return &Table{Keyed: t.Keyed, Measures: t.Measures, Rows: rows}
}

// MostRecent returns the trailing n rows by time, or every row when fewer
// than n exist.
func (t *Table) MostRecent(n int) *Table {
	sorted := t.SortByTime()
	if n < 0 {
		n = 0
	}
	if n < len(sorted.Rows) {
		sorted.Rows = sorted.Rows[len(sorted.Rows)-n:]
	}
	return sorted
}

// Project extracts the named columns, index levels included.
func (t *Table) Project(names ...string) (Projection, error) {
	p := Projection{Measures: make(map[string][]float64)}
	for _, name := range names {
		switch name {
		case ColumnDatetimeUTC:
			p.DatetimeUTC = make([]time.Time, len(t.Rows))
			for i, r := range t.Rows {
				p.DatetimeUTC[i] = r.DatetimeUTC
			}
		case ColumnArea, ColumnConsumerType:
			if !t.Keyed {
				return Projection{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
			}
			levels := make([]int, len(t.Rows))
			for i, r := range t.Rows {
				if name == ColumnArea {
					levels[i] = r.Area
				} else {
					levels[i] = r.ConsumerType
				}
			}
			if name == ColumnArea {
				p.Area = levels
			} else {
				p.ConsumerType = levels
			}
		default:
			idx, ok := t.MeasureIndex(name)
			if !ok {
				return Projection{}, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
			}
			values := make([]float64, len(t.Rows))
			for i, r := range t.Rows {
				values[i] = r.Values[idx]
			}
			p.Measures[name] = values
		}
	}
	return p, nil
}

// Distinct returns the deduplicated values of one index level, ascending.
func (t *Table) Distinct(level IndexLevel) ([]int, error) {
	if !t.Keyed {
		return nil, fmt.Errorf("%w: table is not indexed by %s", ErrInvalidTable, level)
	}
	if level != LevelArea && level != LevelConsumerType {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, level)
	}

	seen := make(map[int]struct{})
	values := []int{}
	for _, r := range t.Rows {
		v := r.Area
		if level == LevelConsumerType {
			v = r.ConsumerType
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Ints(values)
	return values, nil
}
