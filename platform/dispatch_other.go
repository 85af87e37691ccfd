//go:build !amd64 && !arm64

package platform

// detect falls back to the scalar micro-kernel path on architectures
// without a vectorized specialization.
func detect() {
	current = probe{level: Scalar, blockSize: 8}
}
