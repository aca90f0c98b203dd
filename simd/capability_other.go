//go:build !amd64 && !arm64

package simd

// Only the SWAR methods are offered on other architectures.
