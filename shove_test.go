package fptable

import "testing"

func TestShoveOfName_TableFlagAndCase(t *testing.T) {
	tbl := ShoveOfName("Widgets", NameKindTable)
	if !IsTable(tbl) {
		t.Fatalf("table shove %#x does not carry TableFlag", tbl)
	}
	if tbl&lowFieldMask != TableFlag {
		t.Fatalf("table shove low field = %#x, wanted TableFlag %#x", tbl&lowFieldMask, TableFlag)
	}

	col := ShoveOfName("widgets", NameKindColumn)
	if IsTable(col) {
		t.Fatalf("column shove unexpectedly carries TableFlag")
	}

	// Name hashing is case-insensitive.
	upper := ShoveOfName("WIDGETS", NameKindColumn)
	if !NameEqual(col, upper) {
		t.Fatalf("ShoveOfName(\"widgets\") and ShoveOfName(\"WIDGETS\") are not NameEqual")
	}
}

func TestShoveOfName_TableAndColumnNamespacesDontCollide(t *testing.T) {
	tbl := ShoveOfName("Foo", NameKindTable)
	col := ShoveOfName("Foo", NameKindColumn)
	if NameEqual(tbl, col) {
		t.Fatalf("table and column shoves of the same name are NameEqual, wanted distinct hash namespaces")
	}
}

func TestColumnShove_RoundTripsTypeAndIndexKind(t *testing.T) {
	nameShove := ShoveOfName("Email", NameKindColumn)
	cs := ColumnShove(nameShove, TypeString, SecondaryUniqueOrderedObverse)

	if got := TypeOf(cs); got != TypeString {
		t.Fatalf("TypeOf = %v, wanted TypeString", got)
	}
	if got := IndexOf(cs); got != SecondaryUniqueOrderedObverse {
		t.Fatalf("IndexOf = %v, wanted SecondaryUniqueOrderedObverse", got)
	}
	if !NameEqual(cs, nameShove) {
		t.Fatalf("ColumnShove broke NameEqual with its source name shove")
	}
	if IsTable(cs) {
		t.Fatalf("ColumnShove produced a shove with TableFlag set")
	}
}

func TestColumnShove_PredicateHelpers(t *testing.T) {
	nameShove := ShoveOfName("ID", NameKindColumn)

	primary := ColumnShove(nameShove, TypeUint64, PrimaryUniqueOrderedObverse)
	if !IsIndexed(primary) || !IsPrimary(primary) || IsSecondary(primary) {
		t.Fatalf("primary predicates wrong for %#x", primary)
	}
	if !IsUnique(primary) || !IsOrdered(primary) || IsReverse(primary) {
		t.Fatalf("primary unique/ordered/reverse predicates wrong for %#x", primary)
	}

	secondary := ColumnShove(nameShove, TypeString, SecondaryWithDupsOrderedReverse)
	if !IsIndexed(secondary) || IsPrimary(secondary) || !IsSecondary(secondary) {
		t.Fatalf("secondary predicates wrong for %#x", secondary)
	}
	if IsUnique(secondary) || !IsOrdered(secondary) || !IsReverse(secondary) {
		t.Fatalf("secondary unique/ordered/reverse predicates wrong for %#x", secondary)
	}

	plain := ColumnShove(nameShove, TypeInt32, NoIndexNullable)
	if IsIndexed(plain) || IsPrimary(plain) || IsSecondary(plain) {
		t.Fatalf("plain column unexpectedly reports indexed/primary/secondary")
	}
	if !IsNullable(plain) {
		t.Fatalf("plain column with NoIndexNullable reports not nullable")
	}
}

func TestDbiShove_SlotsStayNameEqualAndDistinct(t *testing.T) {
	tbl := ShoveOfName("Orders", NameKindTable)

	slots := make([]Shove, MaxIndexes)
	for k := 0; k < MaxIndexes; k++ {
		slots[k] = DbiShove(tbl, k)
		if !NameEqual(slots[k], tbl) {
			t.Fatalf("DbiShove(t, %d) lost name-equality with t", k)
		}
	}
	for i := 0; i < MaxIndexes; i++ {
		for j := i + 1; j < MaxIndexes; j++ {
			if slots[i] == slots[j] {
				t.Fatalf("DbiShove(t, %d) == DbiShove(t, %d), wanted distinct", i, j)
			}
		}
	}
}

func TestDbiShove_PanicsOutOfRange(t *testing.T) {
	tbl := ShoveOfName("Orders", NameKindTable)
	defer func() {
		if recover() == nil {
			t.Fatalf("DbiShove(t, MaxIndexes) did not panic")
		}
	}()
	DbiShove(tbl, MaxIndexes)
}

func TestShoveToName_RoundTripsThroughAlphabet(t *testing.T) {
	tbl := ShoveOfName("Customers", NameKindTable)
	name := ShoveToName(tbl)
	if len(name) == 0 {
		t.Fatalf("ShoveToName returned empty string")
	}
	for _, r := range name {
		if !containsRune(shoveAlphabet, r) {
			t.Fatalf("ShoveToName produced character %q outside shoveAlphabet", r)
		}
	}
}

func TestShoveToName_ZeroRendersAsBookend(t *testing.T) {
	if got := ShoveToName(0); got != "@" {
		t.Fatalf("ShoveToName(0) = %q, wanted \"@\"", got)
	}
}

func TestShoveToName_DistinctNamesDontCollide(t *testing.T) {
	a := ShoveToName(ShoveOfName("Alpha", NameKindTable))
	b := ShoveToName(ShoveOfName("Bravo", NameKindTable))
	if a == b {
		t.Fatalf("ShoveToName collided for distinct table names: %q", a)
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
