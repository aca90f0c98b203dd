package aob

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/coregx/aob/simd"
)

// benchImage returns pseudo-random code-like bytes with the needle planted
// at the very end.
func benchImage(size int, needle []byte) []byte {
	rng := rand.New(rand.NewSource(7))
	common := []byte{0x00, 0x48, 0x8B, 0x89, 0xFF, 0xCC, 0xE8, 0x0F, 0x85, 0xC0}
	image := make([]byte, size)
	for i := range image {
		image[i] = common[rng.Intn(len(common))]
	}
	copy(image[size-len(needle):], needle)
	return image
}

func BenchmarkFind(b *testing.B) {
	const text = "48 8B 05 ? ? ? ? 48 85 C0 74 ? 48 8B 40 10"
	planted := []byte{0x48, 0x8B, 0x05, 1, 2, 3, 4, 0x48, 0x85, 0xC0, 0x74, 9, 0x48, 0x8B, 0x40, 0x10}

	for _, size := range []int{4 << 10, 1 << 20} {
		image := benchImage(size, planted)
		for _, m := range simd.Methods {
			for _, prefiltered := range []bool{true, false} {
				n := withMethod(b, text, m, prefiltered)
				b.Run(fmt.Sprintf("%s_prefilter=%v_%d", m, prefiltered, size), func(b *testing.B) {
					b.SetBytes(int64(size))
					for i := 0; i < b.N; i++ {
						if _, ok := n.Find(image); !ok {
							b.Fatal("no match")
						}
					}
				})
			}
		}
	}
}

func BenchmarkCount(b *testing.B) {
	n := MustCompile("E8 ? ? ? ?")
	image := benchImage(1<<20, []byte{0xE8, 0, 0, 0, 0})

	b.SetBytes(int64(len(image)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = n.Count(image)
	}
}

func BenchmarkCompile(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Compile("48 8B 05 ? ? ? ? 48 85 C0 74 ? 48 8B 40 10")
	}
}
