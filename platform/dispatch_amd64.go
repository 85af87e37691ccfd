//go:build amd64

package platform

import "golang.org/x/sys/cpu"

// detect resolves the dispatch level and NCHWc block size for x86-64.
// AVX-512 doubles the block width to 16 lanes; AVX2 and the SSE2
// baseline both use a block width of 8.
func detect() {
	if forceScalarEnv() {
		current = probe{level: Scalar, blockSize: 8}
		return
	}

	switch {
	case cpu.X86.HasAVX512F:
		current = probe{level: AVX512, blockSize: 16}
	case cpu.X86.HasAVX2:
		current = probe{level: AVX2, blockSize: 8}
	default:
		current = probe{level: Scalar, blockSize: 8}
	}
}
