package pattern

import "strings"

const hexDigits = "0123456789ABCDEF"

// Format renders units as canonical IDA text: upper-case hex, "??" for full
// wildcards and "A?" / "?B" for nibble wildcards, separated by single spaces.
//
// Units with masks other than 0x00, 0x0F, 0xF0 and 0xFF cannot be spelled in
// IDA syntax. They are written as value/mask pairs ("67/F3"), which Parse
// rejects; IsIDA reports whether that happens.
func Format(units []Unit) string {
	var b strings.Builder
	b.Grow(len(units) * 3)
	for i, u := range units {
		if i > 0 {
			b.WriteByte(' ')
		}
		writeUnit(&b, u)
	}
	return b.String()
}

// IsIDA reports whether every unit has an IDA spelling.
func IsIDA(units []Unit) bool {
	for _, u := range units {
		if !isNibbleMask(u.Mask) {
			return false
		}
	}
	return true
}

func isNibbleMask(m byte) bool {
	return m == MaskExact || m == MaskWildcard || m == MaskHigh || m == MaskLow
}

func writeUnit(b *strings.Builder, u Unit) {
	v := u.Value & u.Mask
	if !isNibbleMask(u.Mask) {
		b.WriteByte(hexDigits[v>>4])
		b.WriteByte(hexDigits[v&0xF])
		b.WriteByte('/')
		b.WriteByte(hexDigits[u.Mask>>4])
		b.WriteByte(hexDigits[u.Mask&0xF])
		return
	}
	if u.Mask&0xF0 != 0 {
		b.WriteByte(hexDigits[v>>4])
	} else {
		b.WriteByte('?')
	}
	if u.Mask&0x0F != 0 {
		b.WriteByte(hexDigits[v&0xF])
	} else {
		b.WriteByte('?')
	}
}
