package fptable

import "strings"

// A Shove is a 64-bit identifier packing a seeded hash of an uppercased
// name together with either a table sentinel or a (data type, index kind)
// pair, per SPEC_FULL.md §3.1.
type Shove uint64

const (
	typeIDBits     = 8
	indexKindBits  = 8
	lowFieldBits   = typeIDBits + indexKindBits
	nameHashShift  = lowFieldBits
	typeIDMask     = Shove(1)<<typeIDBits - 1
	indexKindMask  = (Shove(1)<<indexKindBits - 1) << typeIDBits
	lowFieldMask   = typeIDMask | indexKindMask
	// TableFlag occupies the entire low field with a bit pattern no valid
	// (DataType, IndexKind) combination can ever produce, since both
	// enumerations stay well under a full byte of values.
	TableFlag = lowFieldMask
)

// NameKind distinguishes the hash namespace a name is drawn from, so a
// table and a column can share spelling without colliding shoves.
type NameKind int

const (
	NameKindColumn NameKind = iota
	NameKindTable
)

const (
	hashSeedColumnName uint64 = 0x8d3a1a7c2b5e9f11
	hashSeedTableName  uint64 = 0xf1c4b9a25d8e3061
)

// ShoveOfName computes the shove for a table or column name. Callers are
// expected to have validated the name first (ValidateName); ShoveOfName
// itself never fails.
func ShoveOfName(name string, kind NameKind) Shove {
	upper := strings.ToUpper(name)
	if len(upper) > NameLenMax {
		upper = upper[:NameLenMax]
	}
	var seed uint64
	if kind == NameKindTable {
		seed = hashSeedTableName
	} else {
		seed = hashSeedColumnName
	}
	h := seededHash(seed, []byte(upper))
	shove := Shove(h) << nameHashShift
	if kind == NameKindTable {
		shove |= TableFlag
	}
	return shove
}

// ColumnShove forms a full column shove from a bare name hash (as produced
// by ShoveOfName(name, NameKindColumn)) and its data type / index kind.
func ColumnShove(nameShove Shove, typ DataType, kind IndexKind) Shove {
	return (nameShove &^ lowFieldMask) | Shove(typ) | (Shove(kind) << typeIDBits)
}

// DbiShove derives the shove of the k-th physical B-tree (index slot) of
// table shove t, per SPEC_FULL.md §3.1. It preserves name-equality with t.
func DbiShove(t Shove, k int) Shove {
	if k < 0 || k >= MaxIndexes {
		panic("fptable: index slot out of range")
	}
	return (t - TableFlag) + Shove(k)
}

// TypeOf returns the data type encoded in a column shove.
func TypeOf(s Shove) DataType { return DataType(s & typeIDMask) }

// IndexOf returns the index kind encoded in a column shove.
func IndexOf(s Shove) IndexKind { return IndexKind((s & indexKindMask) >> typeIDBits) }

// IsTable reports whether s carries the table sentinel in its low field.
func IsTable(s Shove) bool { return s&lowFieldMask == TableFlag }

// IsIndexed reports whether the column shove s has an associated index.
func IsIndexed(s Shove) bool { return !IsTable(s) && IndexOf(s).IsIndexed() }

// IsPrimary reports whether s is a primary-index column shove.
func IsPrimary(s Shove) bool { return !IsTable(s) && IndexOf(s).IsPrimary() }

// IsSecondary reports whether s is a secondary-index column shove.
func IsSecondary(s Shove) bool { return !IsTable(s) && IndexOf(s).IsSecondary() }

// IsUnique reports whether s carries a unique index.
func IsUnique(s Shove) bool { return !IsTable(s) && IndexOf(s).IsUnique() }

// IsReverse reports whether s carries a reverse-ordered index.
func IsReverse(s Shove) bool { return !IsTable(s) && IndexOf(s).IsReverse() }

// IsOrdered reports whether s carries an ordered index.
func IsOrdered(s Shove) bool { return !IsTable(s) && IndexOf(s).IsOrdered() }

// IsNullable reports whether s's column may hold a null value.
func IsNullable(s Shove) bool { return !IsTable(s) && IndexOf(s).IsNullable() }

// NameEqual reports whether a and b were derived from the same uppercased
// name, ignoring their type/index-kind (or table/column) low bits.
func NameEqual(a, b Shove) bool {
	return (a &^ lowFieldMask) == (b &^ lowFieldMask)
}

// shoveAlphabet is the 64-character alphabet used to render a shove as a
// bucket name (SPEC_FULL.md §3.6): digit, lowercase, uppercase, between
// the two bookend characters '@' and '_'.
const shoveAlphabet = "@0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_"

// ShoveToName renders shove as its catalog bucket name: 6-bit groups from
// the low end, one alphabet character each, stopping once the remaining
// bits are all zero. The empty shove (0) renders as "@".
func ShoveToName(s Shove) string {
	var buf [11]byte
	n := 0
	for {
		buf[n] = shoveAlphabet[s&0x3f]
		n++
		s >>= 6
		if s == 0 {
			break
		}
	}
	return string(buf[:n])
}
