package songbook

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// Record is one result row keyed by field name. Keys keep projection order,
// which a map could not guarantee once encoded.
type Record struct {
	fields []string
	values []any
}

// Get returns the value stored under field.
func (r Record) Get(field string) (any, bool) {
	for i, f := range r.fields {
		if f == field {
			return r.values[i], true
		}
	}
	return nil, false
}

// Fields returns the record keys in order.
func (r Record) Fields() []string {
	return r.fields
}

// Values returns the record values in key order.
func (r Record) Values() []any {
	return r.values
}

// MarshalJSON encodes the record as an object with keys in projection order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(field)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(r.values[i])
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", field, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MapRecords zips each row positionally against the projection.
// A row whose arity differs from the projection means the SELECT list and the
// projection went out of sync, which is a bug, so it panics.
func MapRecords(projection Projection, rows [][]any) []Record {
	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(projection) {
			panic(fmt.Sprintf("songbook: row %d has %d columns, projection has %d", i, len(row), len(projection)))
		}
		values := make([]any, len(row))
		for j, v := range row {
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			values[j] = v
		}
		records = append(records, Record{fields: projection, values: values})
	}
	return records
}
