package nchwc

import (
	"os"
	"testing"
)

// TestMain forces the scalar platform probe before any test in this
// package runs, so BlockSize is deterministically 8 regardless of the
// host CPU's actual feature set — every boundary scenario below is
// written against B=8.
func TestMain(m *testing.M) {
	os.Setenv("NCHWC_FORCE_SCALAR", "1")
	os.Exit(m.Run())
}
