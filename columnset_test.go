package fptable

import "testing"

func describeOK(t *testing.T, cs *ColumnSet, name string, typ DataType, kind IndexKind) {
	t.Helper()
	if err := cs.Describe(name, typ, kind); err != nil {
		t.Fatalf("Describe(%q) = %v, wanted nil", name, err)
	}
}

func TestColumnSet_SimplePrimaryOnly(t *testing.T) {
	cs := &ColumnSet{}
	describeOK(t, cs, "ID", TypeUint64, PrimaryUniqueOrderedObverse)
	if err := cs.Finalize(); err != nil {
		t.Fatalf("Finalize = %v, wanted nil", err)
	}
	if cs.Count() != 1 {
		t.Fatalf("Count = %d, wanted 1", cs.Count())
	}
	cols := cs.Columns()
	if !IsPrimary(cols[0]) {
		t.Fatalf("Columns()[0] is not primary")
	}
}

func TestColumnSet_PrimaryPlusSecondariesAndPlain(t *testing.T) {
	cs := &ColumnSet{}
	describeOK(t, cs, "ID", TypeUint64, PrimaryUniqueOrderedObverse)
	describeOK(t, cs, "Email", TypeString, SecondaryUniqueOrderedObverse)
	describeOK(t, cs, "Age", TypeInt32, NoIndexNullable)
	describeOK(t, cs, "Name", TypeString, IndexNone)

	if err := cs.Finalize(); err != nil {
		t.Fatalf("Finalize = %v, wanted nil", err)
	}
	cols := cs.Columns()
	if len(cols) != 4 {
		t.Fatalf("len(Columns()) = %d, wanted 4", len(cols))
	}
	if !IsPrimary(cols[0]) {
		t.Fatalf("Columns()[0] is not primary")
	}
	if !IsSecondary(cols[1]) {
		t.Fatalf("Columns()[1] is not secondary, wanted indexed columns contiguous from slot 1")
	}
	// Age (nullable, non-indexed) must sort ahead of Name (plain).
	if !IsNullable(cols[2]) || IsIndexed(cols[2]) {
		t.Fatalf("Columns()[2] is not the nullable non-indexed column")
	}
	if IsIndexed(cols[3]) || IsNullable(cols[3]) {
		t.Fatalf("Columns()[3] is not the plain trailing column")
	}
}

func TestColumnSet_FinalizeIsIdempotent(t *testing.T) {
	cs := &ColumnSet{}
	describeOK(t, cs, "ID", TypeUint64, PrimaryUniqueOrderedObverse)
	describeOK(t, cs, "Email", TypeString, SecondaryUniqueOrderedObverse)
	describeOK(t, cs, "Age", TypeInt32, NoIndexNullable)

	if err := cs.Finalize(); err != nil {
		t.Fatalf("first Finalize = %v", err)
	}
	first := cs.Columns()
	if err := cs.Finalize(); err != nil {
		t.Fatalf("second Finalize = %v", err)
	}
	second := cs.Columns()
	if len(first) != len(second) {
		t.Fatalf("Finalize is not idempotent: lengths differ")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Finalize is not idempotent at index %d: %#x != %#x", i, first[i], second[i])
		}
	}
}

func TestColumnSet_Describe_RejectsInvalidName(t *testing.T) {
	cs := &ColumnSet{}
	if err := cs.Describe("1bad", TypeUint64, PrimaryUniqueOrderedObverse); err != ErrInvalid {
		t.Fatalf("Describe(bad name) = %v, wanted ErrInvalid", err)
	}
}

func TestColumnSet_Describe_RejectsDuplicateName(t *testing.T) {
	cs := &ColumnSet{}
	describeOK(t, cs, "ID", TypeUint64, PrimaryUniqueOrderedObverse)
	if err := cs.Describe("id", TypeString, SecondaryUniqueOrderedObverse); err != ErrExist {
		t.Fatalf("Describe(dup name) = %v, wanted ErrExist", err)
	}
}

func TestColumnSet_Describe_RejectsSecondPrimary(t *testing.T) {
	cs := &ColumnSet{}
	describeOK(t, cs, "ID", TypeUint64, PrimaryUniqueOrderedObverse)
	if err := cs.Describe("Other", TypeUint64, PrimaryUniqueOrderedObverse); err != ErrExist {
		t.Fatalf("Describe(second primary) = %v, wanted ErrExist", err)
	}
}

func TestColumnSet_Describe_RejectsSecondaryOnNonUniquePrimary(t *testing.T) {
	cs := &ColumnSet{}
	describeOK(t, cs, "ID", TypeUint64, PrimaryWithDupsOrderedObverse)
	if err := cs.Describe("Email", TypeString, SecondaryUniqueOrderedObverse); err != ErrInvalid {
		t.Fatalf("Describe(secondary on non-unique primary) = %v, wanted ErrInvalid", err)
	}
}

func TestColumnSet_Describe_RejectsTooManyColumns(t *testing.T) {
	cs := &ColumnSet{}
	describeOK(t, cs, "ID", TypeUint64, PrimaryUniqueOrderedObverse)
	for i := 0; i < MaxCols-1; i++ {
		name := string(rune('A'+(i%26))) + string(rune('a'+(i/26)))
		if err := cs.Describe(name, TypeInt32, IndexNone); err != nil {
			t.Fatalf("Describe(%q) #%d = %v, wanted nil", name, i, err)
		}
	}
	if err := cs.Describe("Overflow", TypeInt32, IndexNone); err != ErrTooMany {
		t.Fatalf("Describe(overflow column) = %v, wanted ErrTooMany", err)
	}
}

func TestColumnSet_Describe_RejectsBadReverseCombo(t *testing.T) {
	cs := &ColumnSet{}
	// A narrow fixed-width, non-nullable, non-reverse-sensitive type
	// cannot carry a reverse index.
	if err := cs.Describe("ID", TypeInt32, PrimaryUniqueOrderedReverse); err != ErrInvalid {
		t.Fatalf("Describe(reverse on narrow non-nullable int32) = %v, wanted ErrInvalid", err)
	}
}

func TestColumnSet_Finalize_RejectsEmptySet(t *testing.T) {
	cs := &ColumnSet{}
	if err := cs.Finalize(); err != ErrInvalid {
		t.Fatalf("Finalize(empty) = %v, wanted ErrInvalid", err)
	}
}

func TestColumnSet_Finalize_RejectsTooManyIndexes(t *testing.T) {
	cs := &ColumnSet{}
	describeOK(t, cs, "ID", TypeUint64, PrimaryUniqueOrderedObverse)
	for i := 0; i < MaxIndexes; i++ {
		name := "Sec" + string(rune('A'+i))
		if err := cs.Describe(name, TypeString, SecondaryUniqueOrderedObverse); err != nil {
			t.Fatalf("Describe(%q) = %v, wanted nil", name, err)
		}
	}
	if err := cs.Finalize(); err != ErrTooMany {
		t.Fatalf("Finalize(too many indexes) = %v, wanted ErrTooMany", err)
	}
}

func TestValidateColumnDef_RejectsMissingPrimary(t *testing.T) {
	nameShove := ShoveOfName("Plain", NameKindColumn)
	def := []Shove{ColumnShove(nameShove, TypeInt32, IndexNone)}
	if err := validateColumnDef(def); err != ErrInvalid {
		t.Fatalf("validateColumnDef(no primary) = %v, wanted ErrInvalid", err)
	}
}
