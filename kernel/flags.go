package kernel

// Flags is the bit-encoded control byte every convolution micro-kernel
// receives. It crosses the boundary between the engine and the
// micro-kernel ABI verbatim, so it is kept as a single byte rather than
// a struct of booleans — see the design-notes rationale for why the
// flag byte is preserved rather than decomposed.
type Flags uint8

const (
	// FlagAccumulate means add into the existing output instead of
	// overwriting it. Set whenever this call is not the first
	// input-channel block in the reduction, or the caller asked for
	// Conv/Sum fusion (ZeroMode == false).
	FlagAccumulate Flags = 1 << 0

	// FlagBias means add the per-output-channel bias after the
	// reduction completes. Only meaningful on the last input-channel
	// block of the reduction.
	FlagBias Flags = 1 << 1

	// FlagReLU fuses a [0, +inf) clamp into the micro-kernel itself.
	// Only meaningful on the last input-channel block.
	FlagReLU Flags = 1 << 2

	// FlagActivation means a non-ReLU, non-identity activation was
	// requested. The micro-kernel writes raw accumulations and the
	// caller finishes with ApplyActivation as a post-pass.
	FlagActivation Flags = 1 << 3
)

// Accumulate reports whether bit 0 is set.
func (f Flags) Accumulate() bool { return f&FlagAccumulate != 0 }

// Bias reports whether bit 1 is set.
func (f Flags) Bias() bool { return f&FlagBias != 0 }

// ReLU reports whether bit 2 is set.
func (f Flags) ReLU() bool { return f&FlagReLU != 0 }

// NeedsActivationPass reports whether bit 3 is set.
func (f Flags) NeedsActivationPass() bool { return f&FlagActivation != 0 }

// DeriveFlags implements the per-iteration flag derivation shared by
// every convolution engine (direct NCHWc, NCHW-input, pointwise,
// depthwise): a single rule, applied once per input-channel-reduction
// step, that every engine's inner loop calls identically.
func DeriveFlags(firstStep, lastStep, zeroMode, hasBias bool, act Activation) Flags {
	var f Flags

	if !firstStep || !zeroMode {
		f |= FlagAccumulate
	}

	if lastStep {
		if hasBias {
			f |= FlagBias
		}
		switch act.Kind {
		case ActivationReLU:
			f |= FlagReLU
		case ActivationIdentity:
			// no-op: nothing fused, nothing deferred
		default:
			f |= FlagActivation
		}
	}

	return f
}
