package kernel

import "math"

// ActivationKind tags which variant of the post-convolution elementwise
// transform an Activation describes.
type ActivationKind int

const (
	// ActivationIdentity performs no transform at all.
	ActivationIdentity ActivationKind = iota
	// ActivationReLU clamps to [0, +inf) and is always fused into the
	// micro-kernel (FlagReLU), never run as a post-pass.
	ActivationReLU
	// ActivationOther covers every activation the micro-kernels do not
	// fuse directly. The kernel writes raw accumulations (FlagActivation)
	// and Fn is applied as a post-pass over the just-written strip.
	ActivationOther
)

// Activation is the tagged variant described by spec: identity, ReLU, or
// "other" with an elementwise function and any parameters it closed
// over when constructed.
type Activation struct {
	Kind ActivationKind
	Name string
	Fn   func(float32) float32
}

// Identity returns the no-op activation descriptor.
func Identity() Activation { return Activation{Kind: ActivationIdentity, Name: "identity"} }

// ReLU returns the fused ReLU activation descriptor.
func ReLU() Activation { return Activation{Kind: ActivationReLU, Name: "relu"} }

// LeakyReLU returns a non-fused "other" activation: max(x, alpha*x).
func LeakyReLU(alpha float32) Activation {
	return Activation{
		Kind: ActivationOther,
		Name: "leaky_relu",
		Fn: func(x float32) float32 {
			if x >= 0 {
				return x
			}
			return alpha * x
		},
	}
}

// Sigmoid returns a non-fused "other" activation: 1 / (1 + exp(-x)).
func Sigmoid() Activation {
	return Activation{
		Kind: ActivationOther,
		Name: "sigmoid",
		Fn: func(x float32) float32 {
			return float32(1 / (1 + math.Exp(-float64(x))))
		},
	}
}

// ApplyActivation runs the post-pass for a non-fused activation over a
// strip of just-written output: filterCount blocked output-channel
// planes, each blockedOutputWidth elements wide, spaced outputSetStride
// elements apart. Called exactly when Flags.NeedsActivationPass() is
// true.
func ApplyActivation(output []float32, filterCount, blockedOutputWidth, outputSetStride int, act Activation) {
	if act.Fn == nil {
		return
	}
	for fb := 0; fb < filterCount; fb++ {
		base := fb * outputSetStride
		strip := output[base : base+blockedOutputWidth]
		for i, v := range strip {
			strip[i] = act.Fn(v)
		}
	}
}
