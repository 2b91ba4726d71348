package parquet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"energy-forecast-service/internal/core/domain"
	ports "energy-forecast-service/internal/core/ports/output"
)

// Footer metadata keys. Files written by other tools may lack them.
const (
	metaMeasures = "energy.measures"
	metaKeyed    = "energy.keyed"

	// pandas names an unnamed index column this way.
	pandasIndexColumn = "__index_level_0__"

	readBatchSize = 256
)

type codec struct{}

// NewCodec returns a parquet TableCodec. Index levels are stored as plain
// columns so that pandas and pyarrow readers see the usual layout.
func NewCodec() ports.TableCodec {
	return codec{}
}

func (codec) Encode(table *domain.Table) ([]byte, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}

	group := parquet.Group{
		domain.ColumnDatetimeUTC: parquet.Timestamp(parquet.Microsecond),
	}
	if table.Keyed {
		group[domain.ColumnArea] = parquet.Int(64)
		group[domain.ColumnConsumerType] = parquet.Int(64)
	}
	for _, m := range table.Measures {
		group[m] = parquet.Leaf(parquet.DoubleType)
	}
	schema := parquet.NewSchema("artifact", group)

	layout, err := layoutOf(schema, table.Keyed, table.Measures)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := parquet.NewWriter(&buf, schema,
		parquet.Compression(&parquet.Snappy),
		parquet.KeyValueMetadata(metaMeasures, strings.Join(table.Measures, ",")),
		parquet.KeyValueMetadata(metaKeyed, fmt.Sprint(table.Keyed)),
	)

	rows := make([]parquet.Row, 0, len(table.Rows))
	width := len(schema.Columns())
	for _, r := range table.Rows {
		row := make(parquet.Row, width)
		row[layout.datetime] = parquet.Int64Value(r.DatetimeUTC.UnixMicro()).Level(0, 0, layout.datetime)
		if table.Keyed {
			row[layout.area] = parquet.Int64Value(int64(r.Area)).Level(0, 0, layout.area)
			row[layout.consumerType] = parquet.Int64Value(int64(r.ConsumerType)).Level(0, 0, layout.consumerType)
		}
		for i, col := range layout.measures {
			row[col] = parquet.DoubleValue(r.Values[i]).Level(0, 0, col)
		}
		rows = append(rows, row)
	}

	if _, err := w.WriteRows(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (codec) Decode(data []byte) (*domain.Table, error) {
	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	schema := f.Schema()

	keyed := hasColumn(schema, domain.ColumnArea) && hasColumn(schema, domain.ColumnConsumerType)
	if v, ok := f.Lookup(metaKeyed); ok {
		keyed = v == "true"
	}

	timeColumn := domain.ColumnDatetimeUTC
	if !hasColumn(schema, timeColumn) && hasColumn(schema, pandasIndexColumn) {
		timeColumn = pandasIndexColumn
	}
	if !hasColumn(schema, timeColumn) {
		return nil, fmt.Errorf("%w: missing %s column", domain.ErrInvalidTable, domain.ColumnDatetimeUTC)
	}

	measures := measureColumns(schema, timeColumn)
	if v, ok := f.Lookup(metaMeasures); ok {
		measures = orderedMeasures(v, measures)
	}

	layout, err := layoutOfColumn(schema, keyed, measures, timeColumn)
	if err != nil {
		return nil, err
	}
	tsLeaf, _ := schema.Lookup(timeColumn)
	unit := timeUnit(tsLeaf.Node)

	table := domain.NewTable(keyed, measures...)
	table.Rows = make([]domain.Row, 0, f.NumRows())

	buf := make([]parquet.Row, readBatchSize)
	for _, rg := range f.RowGroups() {
		rows := rg.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, row := range buf[:n] {
				r, decodeErr := layout.decode(row, unit)
				if decodeErr != nil {
					rows.Close()
					return nil, decodeErr
				}
				table.Rows = append(table.Rows, r)
			}
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("read parquet rows: %w", err)
			}
		}
		if err := rows.Close(); err != nil {
			return nil, fmt.Errorf("close parquet rows: %w", err)
		}
	}
	return table, nil
}

// columnLayout maps table fields to leaf column indexes.
type columnLayout struct {
	keyed        bool
	datetime     int
	area         int
	consumerType int
	measures     []int
}

func layoutOf(schema *parquet.Schema, keyed bool, measures []string) (columnLayout, error) {
	return layoutOfColumn(schema, keyed, measures, domain.ColumnDatetimeUTC)
}

func layoutOfColumn(schema *parquet.Schema, keyed bool, measures []string, timeColumn string) (columnLayout, error) {
	lookup := func(name string) (int, error) {
		leaf, ok := schema.Lookup(name)
		if !ok {
			return -1, fmt.Errorf("%w: missing %s column", domain.ErrInvalidTable, name)
		}
		return leaf.ColumnIndex, nil
	}

	var (
		l   = columnLayout{keyed: keyed, area: -1, consumerType: -1}
		err error
	)
	if l.datetime, err = lookup(timeColumn); err != nil {
		return l, err
	}
	if keyed {
		if l.area, err = lookup(domain.ColumnArea); err != nil {
			return l, err
		}
		if l.consumerType, err = lookup(domain.ColumnConsumerType); err != nil {
			return l, err
		}
	}
	l.measures = make([]int, len(measures))
	for i, m := range measures {
		if l.measures[i], err = lookup(m); err != nil {
			return l, err
		}
	}
	return l, nil
}

func (l columnLayout) decode(row parquet.Row, unit time.Duration) (domain.Row, error) {
	var (
		r      = domain.Row{Values: make([]float64, len(l.measures))}
		byCol  = make(map[int]parquet.Value, len(row))
		hasRow bool
	)
	for _, v := range row {
		byCol[v.Column()] = v
		hasRow = true
	}
	if !hasRow {
		return r, fmt.Errorf("%w: empty row", domain.ErrInvalidTable)
	}

	ts, ok := byCol[l.datetime]
	if !ok || ts.IsNull() {
		return r, fmt.Errorf("%w: null %s", domain.ErrInvalidTable, domain.ColumnDatetimeUTC)
	}
	nanos, err := intOf(ts)
	if err != nil {
		return r, fmt.Errorf("%s: %w", domain.ColumnDatetimeUTC, err)
	}
	r.DatetimeUTC = time.Unix(0, nanos*int64(unit)).UTC()

	if l.keyed {
		if r.Area, err = levelOf(byCol, l.area, domain.ColumnArea); err != nil {
			return r, err
		}
		if r.ConsumerType, err = levelOf(byCol, l.consumerType, domain.ColumnConsumerType); err != nil {
			return r, err
		}
	}

	for i, col := range l.measures {
		r.Values[i] = floatOf(byCol[col])
	}
	return r, nil
}

func levelOf(byCol map[int]parquet.Value, col int, name string) (int, error) {
	v, ok := byCol[col]
	if !ok || v.IsNull() {
		return 0, fmt.Errorf("%w: null %s", domain.ErrInvalidTable, name)
	}
	n, err := intOf(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return int(n), nil
}

func intOf(v parquet.Value) (int64, error) {
	switch v.Kind() {
	case parquet.Int32:
		return int64(v.Int32()), nil
	case parquet.Int64:
		return v.Int64(), nil
	default:
		return 0, fmt.Errorf("%w: unsupported index type %s", domain.ErrInvalidTable, v.Kind())
	}
}

// floatOf widens numeric values; nulls become NaN.
func floatOf(v parquet.Value) float64 {
	if v.IsNull() {
		return math.NaN()
	}
	switch v.Kind() {
	case parquet.Double:
		return v.Double()
	case parquet.Float:
		return float64(v.Float())
	case parquet.Int32:
		return float64(v.Int32())
	case parquet.Int64:
		return float64(v.Int64())
	case parquet.Boolean:
		if v.Boolean() {
			return 1
		}
		return 0
	default:
		return math.NaN()
	}
}

func timeUnit(node parquet.Node) time.Duration {
	lt := node.Type().LogicalType()
	if lt == nil || lt.Timestamp == nil {
		return time.Microsecond
	}
	switch {
	case lt.Timestamp.Unit.Nanos != nil:
		return time.Nanosecond
	case lt.Timestamp.Unit.Millis != nil:
		return time.Millisecond
	default:
		return time.Microsecond
	}
}

func hasColumn(schema *parquet.Schema, name string) bool {
	_, ok := schema.Lookup(name)
	return ok
}

// measureColumns lists numeric top-level columns that are not index levels.
func measureColumns(schema *parquet.Schema, timeColumn string) []string {
	var out []string
	for _, field := range schema.Fields() {
		name := field.Name()
		switch name {
		case domain.ColumnArea, domain.ColumnConsumerType, domain.ColumnDatetimeUTC, timeColumn:
			continue
		}
		if !field.Leaf() {
			continue
		}
		switch field.Type().Kind() {
		case parquet.Boolean, parquet.Int32, parquet.Int64, parquet.Float, parquet.Double:
			out = append(out, name)
		}
	}
	return out
}

// orderedMeasures restores the written measure order, keeping only columns
// present in the file.
func orderedMeasures(meta string, present []string) []string {
	available := make(map[string]bool, len(present))
	for _, m := range present {
		available[m] = true
	}
	var out []string
	for _, m := range strings.Split(meta, ",") {
		if available[m] {
			out = append(out, m)
			delete(available, m)
		}
	}
	for _, m := range present {
		if available[m] {
			out = append(out, m)
		}
	}
	return out
}
