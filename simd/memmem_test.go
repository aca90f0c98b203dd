package simd

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"
)

// TestMemmemBasic tests basic functionality and edge cases
func TestMemmemBasic(t *testing.T) {
	tests := []struct {
		name     string
		haystack []byte
		needle   []byte
		want     int
	}{
		// Empty cases
		{"empty_needle", []byte{0x90}, []byte{}, 0},
		{"empty_haystack", []byte{}, []byte{0x90}, -1},
		{"both_empty", nil, nil, 0},

		// Single byte (delegates to Memchr)
		{"single_found", []byte{0x90, 0xCC, 0xC3}, []byte{0xC3}, 2},
		{"single_not_found", []byte{0x90, 0xCC}, []byte{0xC3}, -1},

		// Machine code
		{"mov_rip", []byte{0x90, 0x48, 0x8B, 0x05, 0x10}, []byte{0x8B, 0x05}, 2},
		{"call_at_start", []byte{0xE8, 1, 2, 3, 4, 0xC3}, []byte{0xE8, 1, 2}, 0},
		{"ret_at_end", []byte{0x48, 0x89, 0xC3}, []byte{0x89, 0xC3}, 1},
		{"int3_run", []byte{0xCC, 0xCC, 0xCC, 0x90}, []byte{0xCC, 0x90}, 2},
		{"zero_padding", make([]byte, 64), []byte{0, 0, 0, 0}, 0},

		// Text still works
		{"text", []byte("hello world"), []byte("world"), 6},
		{"overlapping_pattern", []byte("aaaa"), []byte("aa"), 0},
		{"repeated_in_haystack", []byte("aaaaabaaaa"), []byte("ab"), 4},

		// Needle longer than haystack
		{"needle_too_long", []byte{1, 2}, []byte{1, 2, 3}, -1},
		{"exact_match", []byte{0xDE, 0xAD}, []byte{0xDE, 0xAD}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Memmem(tt.haystack, tt.needle)
			if got != tt.want {
				t.Errorf("Memmem(%x, %x) = %d, want %d", tt.haystack, tt.needle, got, tt.want)
			}

			// Verify against stdlib
			if std := bytes.Index(tt.haystack, tt.needle); got != std {
				t.Errorf("Memmem != stdlib: got %d, stdlib %d", got, std)
			}
		})
	}
}

// TestMemmemSizes places needles of every size near the end of a haystack
// full of near misses.
func TestMemmemSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for needleSize := 1; needleSize <= 40; needleSize++ {
		t.Run(fmt.Sprintf("needle_size_%d", needleSize), func(t *testing.T) {
			needle := make([]byte, needleSize)
			rng.Read(needle)

			// Near misses: the needle with its last byte changed
			miss := append([]byte(nil), needle...)
			miss[needleSize-1] ^= 0xFF
			haystack := bytes.Repeat(miss, 8)
			haystack = append(haystack, needle...)

			got := Memmem(haystack, needle)
			if want := bytes.Index(haystack, needle); got != want {
				t.Errorf("got %d, want %d", got, want)
			}
			if got := Memmem(haystack[:len(haystack)-1], needle); got != bytes.Index(haystack[:len(haystack)-1], needle) {
				t.Errorf("truncated: got %d", got)
			}
		})
	}
}

func TestFinderReuse(t *testing.T) {
	f := NewFinder([]byte{0x48, 0x8B, 0x05})
	if !bytes.Equal(f.Needle(), []byte{0x48, 0x8B, 0x05}) {
		t.Fatalf("Needle() = %x", f.Needle())
	}

	haystacks := [][]byte{
		{0x48, 0x8B, 0x05},
		{0x48, 0x8B, 0x0D, 0x48, 0x8B, 0x05},
		{0x48, 0x8B},
		nil,
	}
	for _, h := range haystacks {
		if got, want := f.Index(h), bytes.Index(h, f.Needle()); got != want {
			t.Errorf("Index(%x) = %d, want %d", h, got, want)
		}
	}
}

func BenchmarkMemmem(b *testing.B) {
	needle := []byte{0x48, 0x8B, 0x05, 0x10, 0x20, 0x30, 0x40, 0x48, 0x85, 0xC0}
	for _, size := range []int{1024, 65536, 1048576} {
		// Common opcode bytes everywhere, the needle at the end
		haystack := bytes.Repeat([]byte{0x48, 0x8B, 0x45, 0x89, 0xC3, 0xCC}, size/6)
		haystack = append(haystack, needle...)

		b.Run(fmt.Sprintf("memmem_%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(haystack)))
			for i := 0; i < b.N; i++ {
				_ = Memmem(haystack, needle)
			}
		})

		b.Run(fmt.Sprintf("stdlib_%d", size), func(b *testing.B) {
			b.SetBytes(int64(len(haystack)))
			for i := 0; i < b.N; i++ {
				_ = bytes.Index(haystack, needle)
			}
		})
	}
}

// FuzzMemmem compares Memmem against bytes.Index
func FuzzMemmem(f *testing.F) {
	f.Add([]byte("hello world"), []byte("world"))
	f.Add([]byte{0x48, 0x8B, 0x05, 0x48, 0x8B}, []byte{0x8B, 0x05})
	f.Add(make([]byte, 100), []byte{0, 0, 1})

	f.Fuzz(func(t *testing.T, haystack, needle []byte) {
		got := Memmem(haystack, needle)
		want := bytes.Index(haystack, needle)
		if got != want {
			t.Errorf("Memmem(%x, %x) = %d, want %d", haystack, needle, got, want)
		}
	})
}
