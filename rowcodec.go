package fptable

import "github.com/vmihailenco/msgpack/v5"

// EncodeRow serializes a row as an ordered tuple of values, one per
// column of a table's storage order. Full row CRUD is out of scope (see
// SPEC_FULL.md Non-goals); this codec exists so DDL-time validation has
// something concrete to check a row against.
func EncodeRow(values []any) ([]byte, error) {
	return msgpack.Marshal(values)
}

// DecodeRow parses a row encoded by EncodeRow.
func DecodeRow(buf []byte) ([]any, error) {
	var values []any
	if err := msgpack.Unmarshal(buf, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// CheckRowComplete verifies row carries a value for every non-indexed,
// non-nullable column of schema. This is the supplemented
// fpta_check_notindexed_cols rule from the original implementation:
// indexed columns are implicitly validated by their own DBI coherence,
// but a non-indexed, non-nullable column has no other place that would
// ever notice a missing value.
func CheckRowComplete(schema *TableSchema, row []byte) error {
	values, err := DecodeRow(row)
	if err != nil {
		return dataErrf(row, 0, ErrInvalid, "decoding row")
	}
	if len(values) != len(schema.Columns) {
		return dataErrf(row, 0, ErrColumnMissing,
			"row has %d values, schema has %d columns", len(values), len(schema.Columns))
	}
	for i, col := range schema.Columns {
		if IsIndexed(col) || IsNullable(col) {
			continue
		}
		if values[i] == nil {
			return schemaErrf(schema.Shove, col, ErrColumnMissing, "column %d missing a value", i)
		}
	}
	return nil
}
