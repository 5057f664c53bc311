package fptable

import "sort"

// ColumnSet accumulates column descriptions for a table under
// construction, per SPEC_FULL.md §4.3. The zero value is ready to use.
type ColumnSet struct {
	shoves [MaxCols]Shove
	count  int
}

// Describe adds one column description to the set. Index 0 is reserved
// for the primary key; Describe enforces placement as columns arrive
// but does not sort or cross-validate the whole set — call Finalize for
// that once every column has been described.
func (cs *ColumnSet) Describe(name string, typ DataType, kind IndexKind) error {
	if !ValidateName(name, allowDotInNamesDefault) {
		return ErrInvalid
	}
	if !typ.Valid() {
		return ErrInvalid
	}
	if !kind.Valid() {
		return ErrInvalid
	}
	if !checkReverseAllowed(typ, kind) {
		return ErrInvalid
	}

	nameShove := ShoveOfName(name, NameKindColumn)
	shove := ColumnShove(nameShove, typ, kind)

	for i := 0; i < cs.count; i++ {
		if NameEqual(cs.shoves[i], shove) {
			return ErrExist
		}
	}

	switch {
	case kind.IsPrimary():
		if cs.shoves[0] != 0 {
			return ErrExist
		}
		cs.shoves[0] = shove
		if cs.count < 1 {
			cs.count = 1
		}
	default:
		if kind.IsSecondary() && cs.shoves[0] != 0 && !IsUnique(cs.shoves[0]) {
			return ErrInvalid
		}
		if cs.count == MaxCols {
			return ErrTooMany
		}
		place := cs.count
		if place == 0 {
			place = 1
		}
		cs.shoves[place] = shove
		cs.count = place + 1
	}
	return nil
}

// Count returns the number of columns described so far.
func (cs *ColumnSet) Count() int { return cs.count }

// Finalize stable-sorts the described columns (indexed first, then
// nullable non-indexed, then plain, preserving user-declared order within
// each tier) and validates the composite rules of SPEC_FULL.md §3.3. It
// may be called more than once; each call re-sorts and re-validates the
// same data, so it is idempotent (P4).
func (cs *ColumnSet) Finalize() error {
	if cs.count < 1 {
		return ErrInvalid
	}
	if cs.count > MaxCols {
		return ErrTooMany
	}

	tail := cs.shoves[1:cs.count]
	sort.SliceStable(tail, func(i, j int) bool {
		return columnWeight(tail[i]) > columnWeight(tail[j])
	})

	return validateColumnDef(cs.shoves[:cs.count])
}

// Columns returns the finalized, ordered column shoves. Call only after
// a successful Finalize.
func (cs *ColumnSet) Columns() []Shove {
	out := make([]Shove, cs.count)
	copy(out, cs.shoves[:cs.count])
	return out
}

func columnWeight(s Shove) int {
	if IsIndexed(s) {
		return 3
	}
	if IsNullable(s) {
		return 1
	}
	return 0
}

// checkReverseAllowed implements SPEC_FULL.md §3.3 rule 7.
func checkReverseAllowed(t DataType, k IndexKind) bool {
	if !k.IsIndexed() || !k.IsReverse() {
		return true
	}
	if !k.IsOrdered() || !t.IsOrderable() {
		return k.IsNullable() && t.NullableReverseSensitive()
	}
	if t.WidthBits() >= 96 {
		return true
	}
	return k.IsNullable() && t.NullableReverseSensitive()
}

// validateColumnDef validates a finalized (or on-disk) column array
// against SPEC_FULL.md §3.3. It is the single source of truth for
// column-ordering validity, used both by ColumnSet.Finalize and by
// schema-record validation on load.
func validateColumnDef(def []Shove) error {
	if len(def) < 1 {
		return ErrInvalid
	}
	if len(def) > MaxCols {
		return ErrTooMany
	}
	if !IsPrimary(def[0]) {
		return ErrInvalid
	}

	indexCount := 1
	seenNonIndexed := false
	for i := 1; i < len(def); i++ {
		s := def[i]
		t, k := TypeOf(s), IndexOf(s)
		if !t.Valid() {
			return ErrInvalid
		}
		if !k.Valid() {
			return ErrInvalid
		}
		if k.IsPrimary() && k.IsIndexed() {
			return ErrInvalid // a second primary
		}
		if k.IsIndexed() {
			if seenNonIndexed {
				return ErrInvalid // indexed column after non-indexed breaks contiguity
			}
			indexCount++
			if indexCount > MaxIndexes {
				return ErrTooMany
			}
		} else {
			seenNonIndexed = true
		}
		if !checkReverseAllowed(t, k) {
			return ErrInvalid
		}
		for j := 0; j < i; j++ {
			if NameEqual(s, def[j]) {
				return ErrInvalid
			}
		}
	}

	if indexCount > 1 && !IsUnique(def[0]) {
		return ErrInvalid
	}
	return nil
}
