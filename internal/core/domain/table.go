package domain

import (
	"fmt"
	"sort"
	"time"
)

// Column names shared by every artifact.
const (
	ColumnArea              = "area"
	ColumnConsumerType      = "consumer_type"
	ColumnDatetimeUTC       = "datetime_utc"
	ColumnEnergyConsumption = "energy_consumption"
	ColumnMAPE              = "MAPE"
)

// IndexLevel names one categorical level of the composite index.
type IndexLevel string

const (
	LevelArea         IndexLevel = ColumnArea
	LevelConsumerType IndexLevel = ColumnConsumerType
)

// Key selects one (area, consumer_type) series.
type Key struct {
	Area         int
	ConsumerType int
}

// RowID is the full composite key of a row.
type RowID struct {
	Key
	UnixNano int64
}

// Row is one observation. Values is aligned with the owning table's Measures.
type Row struct {
	Key
	DatetimeUTC time.Time
	Values      []float64
}

func (r Row) ID() RowID {
	return RowID{Key: r.Key, UnixNano: r.DatetimeUTC.UnixNano()}
}

// Table is a flat, time-indexed artifact. Keyed tables carry the area and
// consumer_type index levels; time-only tables (monitoring metrics) do not.
type Table struct {
	Keyed    bool
	Measures []string
	Rows     []Row
}

func NewTable(keyed bool, measures ...string) *Table {
	return &Table{
		Keyed:    keyed,
		Measures: append([]string(nil), measures...),
		Rows:     []Row{},
	}
}

func (t *Table) Len() int {
	return len(t.Rows)
}

// Append adds a row. Timestamps are normalized to UTC.
func (t *Table) Append(key Key, ts time.Time, values ...float64) error {
	if len(values) != len(t.Measures) {
		return fmt.Errorf("%w: row has %d values, table has %d measures", ErrInvalidTable, len(values), len(t.Measures))
	}
	if !t.Keyed && key != (Key{}) {
		return fmt.Errorf("%w: key %v on a time-only table", ErrInvalidTable, key)
	}
	t.Rows = append(t.Rows, Row{
		Key:         key,
		DatetimeUTC: ts.UTC(),
		Values:      append([]float64(nil), values...),
	})
	return nil
}

// MeasureIndex returns the position of a measure column.
func (t *Table) MeasureIndex(name string) (int, bool) {
	for i, m := range t.Measures {
		if m == name {
			return i, true
		}
	}
	return -1, false
}

// Validate checks row widths and composite key uniqueness.
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Measures))
	for _, m := range t.Measures {
		switch m {
		case ColumnArea, ColumnConsumerType, ColumnDatetimeUTC:
			return fmt.Errorf("%w: measure %q shadows an index level", ErrInvalidTable, m)
		}
		if seen[m] {
			return fmt.Errorf("%w: measure %q declared twice", ErrInvalidTable, m)
		}
		seen[m] = true
	}

	ids := make(map[RowID]struct{}, len(t.Rows))
	for i, r := range t.Rows {
		if len(r.Values) != len(t.Measures) {
			return fmt.Errorf("%w: row %d has %d values, table has %d measures", ErrInvalidTable, i, len(r.Values), len(t.Measures))
		}
		id := r.ID()
		if _, dup := ids[id]; dup {
			return fmt.Errorf("%w: area=%d consumer_type=%d datetime_utc=%s",
				ErrDuplicateKey, r.Area, r.ConsumerType, r.DatetimeUTC.Format(time.RFC3339))
		}
		ids[id] = struct{}{}
	}
	return nil
}

// SortByKey orders rows by area, consumer_type, then time, in place.
func (t *Table) SortByKey() {
	sort.SliceStable(t.Rows, func(i, j int) bool {
		a, b := t.Rows[i], t.Rows[j]
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		if a.ConsumerType != b.ConsumerType {
			return a.ConsumerType < b.ConsumerType
		}
		return a.DatetimeUTC.Before(b.DatetimeUTC)
	})
}

// Upsert returns a new table holding the rows of t and newer. On a composite
// key collision the row from newer wins. Both tables must share measures.
func (t *Table) Upsert(newer *Table) (*Table, error) {
	if t.Keyed != newer.Keyed || !sameColumns(t.Measures, newer.Measures) {
		return nil, fmt.Errorf("%w: cannot merge tables with different columns", ErrInvalidTable)
	}

	replaced := make(map[RowID]bool, len(newer.Rows))
	for _, r := range newer.Rows {
		replaced[r.ID()] = true
	}

	out := &Table{
		Keyed:    t.Keyed,
		Measures: append([]string(nil), t.Measures...),
		Rows:     make([]Row, 0, len(t.Rows)+len(newer.Rows)),
	}
	for _, r := range t.Rows {
		if !replaced[r.ID()] {
			out.Rows = append(out.Rows, r)
		}
	}
	out.Rows = append(out.Rows, newer.Rows...)
	out.SortByKey()
	return out, nil
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
