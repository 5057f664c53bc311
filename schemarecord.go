package fptable

import "encoding/binary"

// recordHeaderSize is the fixed prefix of a serialized TableSchema:
// signature(4) + checksum(8) + csn(8) + shove(8) + count(4).
const recordHeaderSize = 4 + 8 + 8 + 8 + 4

// TableSchema is the in-memory copy of a table's persisted schema
// record, per SPEC_FULL.md §3.2.
type TableSchema struct {
	CSN     uint64
	Shove   Shove
	Columns []Shove
}

func recordSize(count int) int { return recordHeaderSize + count*8 }

// Marshal serializes the schema record, computing and storing the
// checksum last (SPEC_FULL.md §4.8 step 6).
func (s *TableSchema) Marshal() []byte {
	buf := make([]byte, recordSize(len(s.Columns)))
	binary.LittleEndian.PutUint32(buf[0:4], schemaSignature)
	binary.LittleEndian.PutUint64(buf[12:20], s.CSN)
	binary.LittleEndian.PutUint64(buf[20:28], uint64(s.Shove))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(len(s.Columns)))
	for i, c := range s.Columns {
		off := recordHeaderSize + i*8
		binary.LittleEndian.PutUint64(buf[off:off+8], uint64(c))
	}
	checksum := seededHash(schemaChecksumSeed, buf[12:])
	binary.LittleEndian.PutUint64(buf[4:12], checksum)
	return buf
}

// ValidateRecordBytes reports whether buf is a structurally and
// semantically valid serialized schema record, per SPEC_FULL.md §3.2:
// size matches count, signature matches, csn is nonzero, the shove
// carries the table flag, the checksum recomputes, and the column array
// passes the composite rules of §3.3.
func ValidateRecordBytes(buf []byte) bool {
	if len(buf) < recordSize(1) {
		return false
	}
	if (len(buf)-recordHeaderSize)%8 != 0 {
		return false
	}
	signature := binary.LittleEndian.Uint32(buf[0:4])
	if signature != schemaSignature {
		return false
	}
	count := int(binary.LittleEndian.Uint32(buf[28:32]))
	if count < 1 || count > MaxCols {
		return false
	}
	if len(buf) != recordSize(count) {
		return false
	}
	csn := binary.LittleEndian.Uint64(buf[12:20])
	if csn == 0 {
		return false
	}
	shove := Shove(binary.LittleEndian.Uint64(buf[20:28]))
	if !IsTable(shove) {
		return false
	}

	wantChecksum := binary.LittleEndian.Uint64(buf[4:12])
	gotChecksum := seededHash(schemaChecksumSeed, buf[12:])
	if wantChecksum != gotChecksum {
		return false
	}

	columns := make([]Shove, count)
	for i := range columns {
		off := recordHeaderSize + i*8
		columns[i] = Shove(binary.LittleEndian.Uint64(buf[off : off+8]))
	}
	return validateColumnDef(columns) == nil
}

// UnmarshalRecordBytes parses buf into a TableSchema without
// re-validating it; callers that need validation should call
// ValidateRecordBytes first (as SchemaRead does).
func UnmarshalRecordBytes(buf []byte) *TableSchema {
	count := int(binary.LittleEndian.Uint32(buf[28:32]))
	s := &TableSchema{
		CSN:     binary.LittleEndian.Uint64(buf[12:20]),
		Shove:   Shove(binary.LittleEndian.Uint64(buf[20:28])),
		Columns: make([]Shove, count),
	}
	for i := range s.Columns {
		off := recordHeaderSize + i*8
		s.Columns[i] = Shove(binary.LittleEndian.Uint64(buf[off : off+8]))
	}
	return s
}

// PrimaryKindBits returns the type+index bits of a schema's primary
// column (column 0), from which TableHandle.PrimaryIndexKind reads the
// index kind (SPEC_FULL.md §4.6 step 3d).
func (s *TableSchema) PrimaryKindBits() Shove {
	if s == nil || len(s.Columns) == 0 {
		return Shove(IndexNone)
	}
	return s.Columns[0] & lowFieldMask
}
