package fptable

// ValidateName reports whether name can be used as a table or column name,
// per SPEC_FULL.md §4.2: it must start with a letter or underscore,
// contain only alphanumerics/underscore (plus '.' when allowDot is set)
// thereafter, fall within [NameLenMin, NameLenMax], and hash to a nonzero
// payload (guarding against the reserved all-zero hash bucket).
func ValidateName(name string, allowDot bool) bool {
	n := len(name)
	if n < NameLenMin || n > NameLenMax {
		return false
	}
	if !isValidNameChar(name[0], true, allowDot) {
		return false
	}
	for i := 1; i < n; i++ {
		if !isValidNameChar(name[i], false, allowDot) {
			return false
		}
	}
	return ShoveOfName(name, NameKindColumn)>>nameHashShift != 0
}

func isValidNameChar(c byte, first bool, allowDot bool) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		return true
	case !first && c >= '0' && c <= '9':
		return true
	case !first && allowDot && c == '.':
		return true
	default:
		return false
	}
}
