// Package docid implements the engine's polymorphic document identifier.
//
// A DocId is either a non-negative integer or a string. Every other
// component (postings, persistence, snapshots) only ever deals with the
// canonical string form, so hashing and storage keys are unambiguous
// regardless of which constructor the caller used.
package docid

import (
	"fmt"
	"strconv"
)

// ID is a tagged union over the two accepted document identifier shapes.
type ID struct {
	isInt bool
	i     uint64
	s     string
}

// FromInt builds an ID from a non-negative integer.
func FromInt(v uint64) ID {
	return ID{isInt: true, i: v}
}

// FromString builds an ID from an arbitrary string.
//
// If s parses cleanly as a non-negative integer with no leading zeros
// (other than "0" itself), it is normalized to the integer form so that
// FromString("7") and FromInt(7) canonicalize identically.
func FromString(s string) ID {
	if v, ok := parseCanonicalUint(s); ok {
		return ID{isInt: true, i: v}
	}
	return ID{s: s}
}

func parseCanonicalUint(s string) (uint64, bool) {
	if s == "" {
		return 0, false
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, false // leading zero: not canonical, keep as string
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// String returns the canonical string form used for hashing and persistence.
func (d ID) String() string {
	if d.isInt {
		return strconv.FormatUint(d.i, 10)
	}
	return d.s
}

// IsInt reports whether the identifier was constructed from an integer.
func (d ID) IsInt() bool {
	return d.isInt
}

// Int returns the integer value and true if IsInt(); otherwise (0, false).
func (d ID) Int() (uint64, bool) {
	if !d.isInt {
		return 0, false
	}
	return d.i, true
}

// Equal reports canonical equality: two ids are equal iff their canonical
// string forms are equal.
func (d ID) Equal(other ID) bool {
	return d.String() == other.String()
}

// MarshalJSON emits the identifier in its natural JSON shape: a number for
// integer ids, a string otherwise. Canonical string form is still what
// callers should use as a map key.
func (d ID) MarshalJSON() ([]byte, error) {
	if d.isInt {
		return []byte(strconv.FormatUint(d.i, 10)), nil
	}
	return []byte(strconv.Quote(d.s)), nil
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (d *ID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("docid: empty payload")
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("docid: invalid string: %w", err)
		}
		*d = FromString(s)
		return nil
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("docid: invalid number: %w", err)
	}
	*d = FromInt(v)
	return nil
}
