// Package simd provides the byte comparison primitives behind needle search:
// host capability detection, the Method selector, masked compare kernels for
// each Method width and SWAR byte search (Memchr, MemchrPair).
//
// Capability detection runs once per process. The widest usable width can be
// capped with the AOB_SIMD environment variable, e.g. AOB_SIMD=swar64, which
// is mostly useful for benchmarking and for reproducing bugs on narrower hosts.
package simd

import (
	"math/bits"
	"os"
	"strings"
	"sync"
)

// EnvOverride names the environment variable that caps the widest Method
// reported by Detect.
const EnvOverride = "AOB_SIMD"

// Capabilities is the set of Methods usable on the current host.
type Capabilities uint8

// With returns c plus m.
func (c Capabilities) With(m Method) Capabilities {
	if !m.Valid() {
		return c
	}
	return c | 1<<m
}

// Has reports whether m is in the set. Scalar is always present.
func (c Capabilities) Has(m Method) bool {
	if m == Scalar {
		return true
	}
	return m.Valid() && c&(1<<m) != 0
}

// Supports reports whether a comparison width in bytes is usable.
func (c Capabilities) Supports(width int) bool {
	m, ok := MethodForWidth(width)
	return ok && c.Has(m)
}

// Widest returns the widest Method in the set.
func (c Capabilities) Widest() Method {
	for i := len(Methods) - 1; i > 0; i-- {
		if c.Has(Methods[i]) {
			return Methods[i]
		}
	}
	return Scalar
}

// Limit drops every Method wider than widest.
func (c Capabilities) Limit(widest Method) Capabilities {
	out := Capabilities(0).With(Scalar)
	for _, m := range Methods {
		if m <= widest && c.Has(m) {
			out = out.With(m)
		}
	}
	return out
}

// Methods lists the Methods in the set from narrowest to widest.
func (c Capabilities) Methods() []Method {
	out := make([]Method, 0, len(Methods))
	for _, m := range Methods {
		if c.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// String lists the method names, e.g. "scalar,swar32,swar64".
func (c Capabilities) String() string {
	ms := c.Methods()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.String()
	}
	return strings.Join(names, ",")
}

// AllCapabilities contains every Method. The kernels are plain Go, so any
// Method can run anywhere; tests use this set to cross-check all widths.
const AllCapabilities = Capabilities(1<<numMethods - 1)

// CPU feature flags, filled in by the platform init functions.
var (
	hasVector128 bool // SSE2 on x86-64, ASIMD on arm64
	hasVector256 bool // AVX2 on x86-64
)

var detected = sync.OnceValue(func() Capabilities {
	caps := detectHost()
	if override := os.Getenv(EnvOverride); override != "" {
		if m, ok := ParseMethod(override); ok {
			caps = caps.Limit(m)
		}
	}
	return caps
})

func detectHost() Capabilities {
	caps := Capabilities(0).With(Scalar).With(SWAR32)
	if bits.UintSize == 64 {
		caps = caps.With(SWAR64)
	}
	if hasVector128 {
		caps = caps.With(Vector128)
	}
	if hasVector256 {
		caps = caps.With(Vector256)
	}
	return caps
}

// Detect returns the host capability report. The report is computed on first
// use and never changes afterwards; concurrent first calls are safe.
func Detect() Capabilities {
	return detected()
}

// Supports reports whether the host supports a comparison width in bytes.
func Supports(width int) bool {
	return Detect().Supports(width)
}
