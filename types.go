package fptable

// DataType identifies the shape of a column's value. Widths below are in
// bits and drive the reverse-index eligibility rule (SPEC_FULL.md §3.3
// rule 7); zero means "variable length".
type DataType uint8

const (
	TypeNull DataType = iota
	TypeBool
	TypeInt32
	TypeUint32
	TypeInt64
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeDateTime
	Type96  // e.g. a 96-bit fixed-point or truncated hash
	Type128 // e.g. a UUID
	Type160 // e.g. a SHA-1 digest
	Type256 // e.g. a SHA-256 digest
	TypeString
	TypeBytes
	TypeNested // opaque row blob; not orderable; Valid accepts it, and no code uses it as a data-shove marker
)

var typeWidths = map[DataType]int{
	TypeBool:     8,
	TypeInt32:    32,
	TypeUint32:   32,
	TypeInt64:    64,
	TypeUint64:   64,
	TypeFloat32:  32,
	TypeFloat64:  64,
	TypeDateTime: 64,
	Type96:       96,
	Type128:      128,
	Type160:      160,
	Type256:      256,
}

// WidthBits returns the fixed bit width of t, or 0 for variable-length or
// unordered types.
func (t DataType) WidthBits() int { return typeWidths[t] }

// IsOrderable reports whether t has a well-defined byte ordering that a
// B-tree key comparator can use.
func (t DataType) IsOrderable() bool {
	switch t {
	case TypeNull, TypeNested:
		return false
	default:
		return true
	}
}

// NullableReverseSensitive reports whether t's null encoding interacts
// with byte-order reversal (SPEC_FULL.md §3.3 rule 7, second clause).
// Fixed-width numeric types encode null out of band and are insensitive;
// variable-length types fold null into the leading length/flag byte,
// which reversal would otherwise scramble.
func (t DataType) NullableReverseSensitive() bool {
	switch t {
	case TypeString, TypeBytes:
		return true
	default:
		return false
	}
}

func (t DataType) Valid() bool {
	return t > TypeNull && t <= TypeNested
}

// IndexKind is a bitmask describing how (or whether) a column is indexed.
type IndexKind uint16

const (
	indexBitIndexed IndexKind = 1 << iota
	indexBitUnique
	indexBitSecondary
	indexBitOrdered
	indexBitReverse
	indexBitNullable
)

const (
	// IndexNone marks a plain, non-indexed, non-nullable column.
	IndexNone IndexKind = 0
	// NoIndexNullable marks a plain, non-indexed, nullable column.
	NoIndexNullable = indexBitNullable

	PrimaryUniqueOrderedObverse = indexBitIndexed | indexBitUnique | indexBitOrdered
	PrimaryUniqueOrderedReverse = PrimaryUniqueOrderedObverse | indexBitReverse
	PrimaryUniqueUnordered      = indexBitIndexed | indexBitUnique
	PrimaryWithDupsOrderedObverse = indexBitIndexed | indexBitOrdered
	PrimaryWithDupsOrderedReverse = PrimaryWithDupsOrderedObverse | indexBitReverse
	PrimaryWithDupsUnordered      = indexBitIndexed

	SecondaryUniqueOrderedObverse   = indexBitIndexed | indexBitUnique | indexBitSecondary | indexBitOrdered
	SecondaryUniqueOrderedReverse   = SecondaryUniqueOrderedObverse | indexBitReverse
	SecondaryUniqueUnordered        = indexBitIndexed | indexBitUnique | indexBitSecondary
	SecondaryWithDupsOrderedObverse = indexBitIndexed | indexBitSecondary | indexBitOrdered
	SecondaryWithDupsOrderedReverse = SecondaryWithDupsOrderedObverse | indexBitReverse
	SecondaryWithDupsUnordered      = indexBitIndexed | indexBitSecondary
)

func (k IndexKind) IsIndexed() bool   { return k&indexBitIndexed != 0 }
func (k IndexKind) IsUnique() bool    { return k&indexBitUnique != 0 }
func (k IndexKind) IsSecondary() bool { return k.IsIndexed() && k&indexBitSecondary != 0 }
func (k IndexKind) IsPrimary() bool   { return k.IsIndexed() && k&indexBitSecondary == 0 }
func (k IndexKind) IsOrdered() bool   { return k&indexBitOrdered != 0 }
func (k IndexKind) IsReverse() bool   { return k&indexBitReverse != 0 }
func (k IndexKind) IsNullable() bool  { return k&indexBitNullable != 0 }

// Valid reports whether k is a self-consistent combination of bits, per
// SPEC_FULL.md §4.3/§4.8. It does not check cross-column rules (those
// belong to the column-set validator).
func (k IndexKind) Valid() bool {
	if k&^(indexBitIndexed|indexBitUnique|indexBitSecondary|indexBitOrdered|indexBitReverse|indexBitNullable) != 0 {
		return false
	}
	if !k.IsIndexed() {
		// only the nullable bit is meaningful on a non-indexed column
		return k&^indexBitNullable == 0
	}
	if k.IsReverse() && !k.IsOrdered() {
		return false
	}
	return true
}
