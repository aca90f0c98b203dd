//go:build arm64

package simd

import "golang.org/x/sys/cpu"

func init() {
	hasVector128 = cpu.ARM64.HasASIMD
}
