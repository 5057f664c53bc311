package fptable

import "testing"

func sampleSchema(t *testing.T) *TableSchema {
	t.Helper()
	cs := &ColumnSet{}
	if err := cs.Describe("ID", TypeUint64, PrimaryUniqueOrderedObverse); err != nil {
		t.Fatal(err)
	}
	if err := cs.Describe("Email", TypeString, SecondaryUniqueOrderedObverse); err != nil {
		t.Fatal(err)
	}
	if err := cs.Finalize(); err != nil {
		t.Fatal(err)
	}
	return &TableSchema{
		CSN:     1,
		Shove:   ShoveOfName("Users", NameKindTable),
		Columns: cs.Columns(),
	}
}

func TestSchemaRecord_MarshalRoundTrip(t *testing.T) {
	s := sampleSchema(t)
	buf := s.Marshal()

	if !ValidateRecordBytes(buf) {
		t.Fatalf("ValidateRecordBytes(Marshal()) = false, wanted true")
	}

	got := UnmarshalRecordBytes(buf)
	if got.CSN != s.CSN || got.Shove != s.Shove {
		t.Fatalf("UnmarshalRecordBytes = %+v, wanted CSN=%d Shove=%#x", got, s.CSN, s.Shove)
	}
	if len(got.Columns) != len(s.Columns) {
		t.Fatalf("len(Columns) = %d, wanted %d", len(got.Columns), len(s.Columns))
	}
	for i := range s.Columns {
		if got.Columns[i] != s.Columns[i] {
			t.Fatalf("Columns[%d] = %#x, wanted %#x", i, got.Columns[i], s.Columns[i])
		}
	}
}

func TestSchemaRecord_ChecksumTamperDetected(t *testing.T) {
	buf := sampleSchema(t).Marshal()
	buf[len(buf)-1] ^= 0xFF
	if ValidateRecordBytes(buf) {
		t.Fatalf("ValidateRecordBytes accepted a tampered record")
	}
}

func TestSchemaRecord_SignatureMismatchRejected(t *testing.T) {
	buf := sampleSchema(t).Marshal()
	buf[0] ^= 0xFF
	if ValidateRecordBytes(buf) {
		t.Fatalf("ValidateRecordBytes accepted a bad signature")
	}
}

func TestSchemaRecord_SizeCountMismatchRejected(t *testing.T) {
	buf := sampleSchema(t).Marshal()
	truncated := buf[:len(buf)-8]
	if ValidateRecordBytes(truncated) {
		t.Fatalf("ValidateRecordBytes accepted a record shorter than its declared count")
	}
}

func TestSchemaRecord_ZeroCSNRejected(t *testing.T) {
	s := sampleSchema(t)
	s.CSN = 0
	buf := s.Marshal()
	if ValidateRecordBytes(buf) {
		t.Fatalf("ValidateRecordBytes accepted a zero CSN")
	}
}

func TestSchemaRecord_NonTableShoveRejected(t *testing.T) {
	s := sampleSchema(t)
	s.Shove = ShoveOfName("Users", NameKindColumn)
	buf := s.Marshal()
	if ValidateRecordBytes(buf) {
		t.Fatalf("ValidateRecordBytes accepted a non-table shove")
	}
}

func TestSchemaRecord_PrimaryKindBits(t *testing.T) {
	s := sampleSchema(t)
	want := Shove(TypeUint64) | Shove(PrimaryUniqueOrderedObverse)<<typeIDBits
	if got := s.PrimaryKindBits(); got != want {
		t.Fatalf("PrimaryKindBits = %#x, wanted %#x", got, want)
	}
	if got := (&TableSchema{}).PrimaryKindBits(); got != Shove(IndexNone) {
		t.Fatalf("PrimaryKindBits(empty) = %#x, wanted IndexNone", got)
	}
}
