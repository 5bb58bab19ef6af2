package frame

import (
	"encoding/json"
	"fmt"
	"io"
)

// Record is one flat mapping of column name to value.
type Record map[string]any

// Output is a shaped result ready to render.
type Output interface {
	Shape() Shape
	Len() int
	Table() *Table
	RecordSet() *RecordSet
	Render(w io.Writer) error
}

// New builds an Output of the given shape from records. Columns fix the
// order used by tables; record keys outside columns are dropped.
func New(shape Shape, key string, columns []string, records []Record) (Output, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}

	rs := &RecordSet{
		Key:     key,
		Columns: columns,
		Records: project(columns, records),
	}
	if shape == ShapeTable {
		return rs.Table(), nil
	}
	return rs, nil
}

func project(columns []string, records []Record) []Record {
	out := make([]Record, len(records))
	for i, rec := range records {
		p := make(Record, len(columns))
		for _, col := range columns {
			p[col] = rec[col]
		}
		out[i] = p
	}
	return out
}

// RecordSet is a keyed list of records, e.g. {"markets": [...]}.
type RecordSet struct {
	Key     string
	Columns []string
	Records []Record
}

func (rs *RecordSet) Shape() Shape { return ShapeRecordSet }

func (rs *RecordSet) Len() int { return len(rs.Records) }

func (rs *RecordSet) RecordSet() *RecordSet { return rs }

// Table lays the records out as rows in column order.
func (rs *RecordSet) Table() *Table {
	rows := make([][]any, len(rs.Records))
	for i, rec := range rs.Records {
		row := make([]any, len(rs.Columns))
		for j, col := range rs.Columns {
			row[j] = rec[col]
		}
		rows[i] = row
	}
	return &Table{
		Key:     rs.Key,
		Columns: rs.Columns,
		Rows:    rows,
	}
}

// MarshalJSON encodes the set as {"<key>": [records...]}.
func (rs *RecordSet) MarshalJSON() ([]byte, error) {
	records := rs.Records
	if records == nil {
		records = []Record{}
	}
	return json.Marshal(map[string][]Record{rs.Key: records})
}

// Render writes the set as indented JSON.
func (rs *RecordSet) Render(w io.Writer) error {
	data, err := json.MarshalIndent(rs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record set: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// Table is an ordered column/row layout.
type Table struct {
	Key     string
	Columns []string
	Rows    [][]any
}

func (t *Table) Shape() Shape { return ShapeTable }

func (t *Table) Len() int { return len(t.Rows) }

func (t *Table) Table() *Table { return t }

// RecordSet turns each row back into a record keyed by column.
func (t *Table) RecordSet() *RecordSet {
	records := make([]Record, len(t.Rows))
	for i, row := range t.Rows {
		rec := make(Record, len(t.Columns))
		for j, col := range t.Columns {
			if j < len(row) {
				rec[col] = row[j]
			} else {
				rec[col] = nil
			}
		}
		records[i] = rec
	}
	return &RecordSet{
		Key:     t.Key,
		Columns: t.Columns,
		Records: records,
	}
}

// Column returns the values of one column, or nil if it does not exist.
func (t *Table) Column(name string) []any {
	idx := -1
	for i, col := range t.Columns {
		if col == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	values := make([]any, len(t.Rows))
	for i, row := range t.Rows {
		if idx < len(row) {
			values[i] = row[idx]
		}
	}
	return values
}
