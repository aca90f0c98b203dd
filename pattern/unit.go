// Package pattern parses IDA-style byte signatures into match units.
//
// A signature is a whitespace separated list of two character tokens. Each
// character is either a hexadecimal digit or the wildcard '?':
//
//	48 8B 05 ?? ?? ?? ?? 48 85 C0   exact bytes and full wildcards
//	67 ? AB                         a single '?' is a full wildcard too
//	A? ?F                           nibble wildcards
//
// Every token becomes one Unit: a value/mask pair that accepts a haystack byte
// b when b&Mask == Value&Mask.
package pattern

// Mask values for the common unit shapes.
const (
	MaskExact    byte = 0xFF
	MaskWildcard byte = 0x00
	MaskHigh     byte = 0xF0
	MaskLow      byte = 0x0F
)

// Unit is the matching rule for one haystack byte position.
//
// Bits cleared in Mask are ignored. Units built through NewUnit, Exact and
// Wildcard keep Value&^Mask == 0 so equal rules compare equal.
type Unit struct {
	Value byte
	Mask  byte
}

// NewUnit returns a unit with the masked-out bits of value cleared.
func NewUnit(value, mask byte) Unit {
	return Unit{Value: value & mask, Mask: mask}
}

// Exact returns a unit matching only b.
func Exact(b byte) Unit {
	return Unit{Value: b, Mask: MaskExact}
}

// Wildcard returns a unit matching every byte.
func Wildcard() Unit {
	return Unit{}
}

// Matches reports whether b satisfies the unit.
func (u Unit) Matches(b byte) bool {
	return b&u.Mask == u.Value&u.Mask
}

// IsExact reports whether the unit matches exactly one byte value.
func (u Unit) IsExact() bool {
	return u.Mask == MaskExact
}

// IsWildcard reports whether the unit matches every byte value.
func (u Unit) IsWildcard() bool {
	return u.Mask == MaskWildcard
}

// IsPartial reports whether the unit constrains some, but not all, bits.
func (u Unit) IsPartial() bool {
	return !u.IsExact() && !u.IsWildcard()
}

// Normalize clears the value bits hidden by the mask.
func (u Unit) Normalize() Unit {
	return NewUnit(u.Value, u.Mask)
}

// Split returns the value and mask bytes of units as two parallel slices.
func Split(units []Unit) (values, masks []byte) {
	values = make([]byte, len(units))
	masks = make([]byte, len(units))
	for i, u := range units {
		values[i] = u.Value & u.Mask
		masks[i] = u.Mask
	}
	return values, masks
}

// Join is the inverse of Split. It panics if the slices differ in length.
func Join(values, masks []byte) []Unit {
	if len(values) != len(masks) {
		panic("pattern: values and masks differ in length")
	}
	units := make([]Unit, len(values))
	for i := range values {
		units[i] = NewUnit(values[i], masks[i])
	}
	return units
}
