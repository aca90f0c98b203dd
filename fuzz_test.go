// Fuzz tests comparing needle search against a naive byte-by-byte scan.
//
// Run fuzz tests with:
//
//	go test -fuzz=FuzzFindAll -fuzztime=30s
//	go test -fuzz=FuzzCompile -fuzztime=30s
package aob

import (
	"testing"

	"github.com/coregx/aob/pattern"
	"github.com/coregx/aob/simd"
)

var seedPatterns = []string{
	"67 ? AB",
	"48 8B 05 ? ? ? ? 48 85 C0",
	"E8 ?? ?? ?? ?? 85 C0",
	"? ? ?",
	"A? ?F",
	"CC",
	"00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00",
}

var seedHaystacks = [][]byte{
	{},
	{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0xCD, 0xEF},
	{0x48, 0x8B, 0x05, 1, 2, 3, 4, 0x48, 0x85, 0xC0},
	{0xE8, 0, 0, 0, 0, 0x85, 0xC0, 0xE8, 0, 0, 0, 0, 0x85, 0xC1},
	make([]byte, 64),
}

// FuzzFindAll checks every method, with and without the prefilter, against the
// naive scan for arbitrary patterns and haystacks.
func FuzzFindAll(f *testing.F) {
	for _, p := range seedPatterns {
		for _, h := range seedHaystacks {
			f.Add(p, h)
		}
	}

	f.Fuzz(func(t *testing.T, text string, haystack []byte) {
		units, err := pattern.Parse(text)
		if err != nil {
			return
		}
		values, masks := pattern.Split(units)
		want := naiveFind(values, masks, haystack)

		for _, m := range simd.Methods {
			for _, prefiltered := range []bool{true, false} {
				n, err := FromBytesWithConfig(values, masks, Config{
					ForceMethod:      true,
					Method:           m,
					Capabilities:     simd.AllCapabilities,
					DisablePrefilter: !prefiltered,
				})
				if err != nil {
					t.Fatalf("FromBytesWithConfig: %v", err)
				}
				got := starts(n.FindAll(haystack, -1))
				if len(got) != len(want) {
					t.Fatalf("%q method %s prefiltered %v: got %v, want %v", text, m, prefiltered, got, want)
				}
				for i := range got {
					if got[i] != want[i] {
						t.Fatalf("%q method %s prefiltered %v: got %v, want %v", text, m, prefiltered, got, want)
					}
				}
			}
		}
	})
}

// FuzzCompile checks that parsing never panics and that every accepted
// pattern formats back to text that parses to the same units.
func FuzzCompile(f *testing.F) {
	for _, p := range seedPatterns {
		f.Add(p)
	}
	f.Add("G?")
	f.Add("AAA")
	f.Add("\"AA\"")

	f.Fuzz(func(t *testing.T, text string) {
		n, err := Compile(text)
		if err != nil {
			if n != nil {
				t.Fatalf("Compile(%q) returned a needle with error %v", text, err)
			}
			return
		}
		again, err := Compile(n.String())
		if err != nil {
			t.Fatalf("canonical text %q of %q does not parse: %v", n.String(), text, err)
		}
		if again.String() != n.String() {
			t.Fatalf("round trip changed %q to %q", n.String(), again.String())
		}
	})
}
