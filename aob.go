// Package aob finds IDA-style byte signatures ("array of bytes" patterns) in
// binary data.
//
// A signature is a sequence of hex bytes where any byte or nibble may be a
// wildcard:
//
//	48 8B 05 ? ? ? ? 48 85 C0    mov rax, [rip+disp32]; test rax, rax
//	E8 ?? ?? ?? ?? 8B F?         call rel32; mov with any source register
//
// Signatures compile into an immutable Needle of value/mask pairs. A haystack
// byte b matches a unit when b&mask == value&mask.
//
// Basic usage:
//
//	// Ahead of use: bad text panics while the package initializes
//	var playerBase = aob.MustCompile("48 8B 05 ? ? ? ? 48 85 C0")
//
//	// Dynamic: the error carries the reason and the offending span
//	n, err := aob.Compile(userText)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	m, ok := n.Find(image)
//	for m := range n.All(image) {
//	    fmt.Printf("%#x\n", m.Start())
//	}
//
// Search strategy:
//   - A compare width is chosen once per Needle from the host capabilities
//     (see package simd); every width finds exactly the same matches
//   - The first min(width, len) bytes are tested in one step, the rest byte
//     by byte
//   - When the needle has exact bytes, a prefilter jumps between occurrences
//     of its longest exact run or its rarest bytes instead of testing every
//     offset; a prefilter that keeps landing a few bytes ahead is retired for
//     the rest of the search
//
// Matches may overlap: after a match at p the next candidate is p+1.
//
// A Needle is safe for concurrent use by multiple goroutines. An Iterator is
// not.
package aob

import (
	"fmt"

	"github.com/coregx/aob/pattern"
	"github.com/coregx/aob/prefilter"
	"github.com/coregx/aob/simd"
)

// Needle is a compiled signature.
//
// Example:
//
//	n := aob.MustCompile("67 ? AB")
//	println(n.Len())    // 3
//	println(n.String()) // "67 ?? AB"
type Needle struct {
	values []byte
	masks  []byte

	method simd.Method
	kernel simd.Kernel
	width  int // bytes tested by kernel, min(method width, len)

	pre prefilter.Prefilter // nil: test every offset
}

// Compile parses IDA pattern text into a Needle.
//
// The returned error wraps a *pattern.ParseError describing the first
// problem found.
//
// Example:
//
//	n, err := aob.Compile("48 8B ? ? 90")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(text string) (*Needle, error) {
	return CompileWithConfig(text, DefaultConfig())
}

// MustCompile is like Compile but panics if the text cannot be parsed.
//
// It is meant for signatures declared as package-level variables, so that a
// malformed signature stops the program before any search runs.
//
// Example:
//
//	var retSled = aob.MustCompile("C3 CC CC CC")
func MustCompile(text string) *Needle {
	n, err := Compile(text)
	if err != nil {
		panic("aob: Compile(`" + text + "`): " + err.Error())
	}
	return n
}

// CompileWithConfig parses text into a Needle searched according to config.
//
// Configuration problems are reported as *ConfigError, parse problems as
// *pattern.ParseError.
func CompileWithConfig(text string, config Config) (*Needle, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	units, err := pattern.Parse(text)
	if err != nil {
		return nil, err
	}
	values, masks := pattern.Split(units)
	return newNeedle(values, masks, config), nil
}

// FromBytes builds a Needle from raw value and mask bytes. Values are
// normalized (value &= mask) and both slices are copied.
//
// FromBytes panics when the slices differ in length or are empty. These are
// programming errors, not malformed input.
//
// Example:
//
//	// "48 ?? 0?" as raw data
//	n := aob.FromBytes([]byte{0x48, 0x00, 0x00}, []byte{0xFF, 0x00, 0xF0})
func FromBytes(values, masks []byte) *Needle {
	n, err := FromBytesWithConfig(values, masks, DefaultConfig())
	if err != nil {
		panic(err.Error())
	}
	return n
}

// MustFromBytes is FromBytes under the name generated code uses for needles
// whose data was checked when the code was generated.
func MustFromBytes(values, masks []byte) *Needle {
	return FromBytes(values, masks)
}

// FromBytesWithConfig is FromBytes with an explicit configuration. Invalid
// configuration is returned as *ConfigError; bad slice lengths still panic.
func FromBytesWithConfig(values, masks []byte, config Config) (*Needle, error) {
	checkLengths(len(values), len(masks))
	if err := config.Validate(); err != nil {
		return nil, err
	}
	v := make([]byte, len(values))
	m := make([]byte, len(masks))
	copy(m, masks)
	for i := range values {
		v[i] = values[i] & masks[i]
	}
	return newNeedle(v, m, config), nil
}

// FromUnits builds a Needle from parsed units. It panics when units is empty.
func FromUnits(units []pattern.Unit) *Needle {
	checkLengths(len(units), len(units))
	values, masks := pattern.Split(units)
	return newNeedle(values, masks, DefaultConfig())
}

func checkLengths(values, masks int) {
	if values != masks {
		panic(fmt.Sprintf("aob: value and mask lengths differ (%d != %d)", values, masks))
	}
	if values == 0 {
		panic("aob: empty needle")
	}
}

// newNeedle takes ownership of normalized values and masks.
func newNeedle(values, masks []byte, config Config) *Needle {
	method := config.method(len(values))
	n := &Needle{
		values: values,
		masks:  masks,
		method: method,
		kernel: method.Kernel(),
		width:  min(method.Width(), len(values)),
	}
	if !config.DisablePrefilter {
		n.pre = prefilter.New(values, masks)
	}
	return n
}

// Len returns the number of units in the needle.
func (n *Needle) Len() int {
	return len(n.values)
}

// Unit returns the i-th unit. It panics if i is out of range.
func (n *Needle) Unit(i int) pattern.Unit {
	if i < 0 || i >= len(n.values) {
		panic(fmt.Sprintf("aob: unit index %d out of range [0, %d)", i, len(n.values)))
	}
	return pattern.Unit{Value: n.values[i], Mask: n.masks[i]}
}

// Units returns a copy of the needle's units.
func (n *Needle) Units() []pattern.Unit {
	return pattern.Join(n.values, n.masks)
}

// Values returns a copy of the normalized value bytes.
func (n *Needle) Values() []byte {
	return append([]byte(nil), n.values...)
}

// Masks returns a copy of the mask bytes.
func (n *Needle) Masks() []byte {
	return append([]byte(nil), n.masks...)
}

// Method returns the compare width chosen for this needle.
func (n *Needle) Method() simd.Method {
	return n.method
}

// String returns the needle in canonical IDA text, e.g. "67 ?? AB".
// Units with non-nibble masks are written as value/mask pairs.
func (n *Needle) String() string {
	return pattern.Format(n.Units())
}
