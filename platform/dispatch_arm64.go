//go:build arm64

package platform

import "golang.org/x/sys/cpu"

// detect resolves the dispatch level and NCHWc block size for ARM64.
// NEON (ASIMD) is mandatory on ARMv8-A, so the only way this lands on
// Scalar is the explicit environment override.
func detect() {
	if forceScalarEnv() {
		current = probe{level: Scalar, blockSize: 8}
		return
	}

	if cpu.ARM64.HasASIMD {
		current = probe{level: NEON, blockSize: 8}
		return
	}

	current = probe{level: Scalar, blockSize: 8}
}
