//go:build amd64

package simd

import "golang.org/x/sys/cpu"

func init() {
	hasVector128 = cpu.X86.HasSSE2
	hasVector256 = cpu.X86.HasAVX2 && cpu.X86.HasAVX
}
