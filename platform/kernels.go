package platform

import "github.com/tensorkit/nchwc/kernel"

// Function-pointer accessors for each micro-kernel family. Only the
// portable scalar implementations exist today, assigned statically
// below; Probe/detect does not change them and no architecture-specific
// file overrides them. These vars are the seam a vectorized
// specialization would occupy (mirroring go-highway's z_nn_arm64.go
// pattern of overriding a scalar default after init() order).
var (
	convNCHWcKernel     kernel.ConvNCHWcFunc     = kernel.ConvNCHWc
	convNCHWKernel      kernel.ConvNCHWFunc      = kernel.ConvNCHW
	convPointwiseKernel kernel.ConvPointwiseFunc = kernel.ConvPointwise
	convDepthwiseKernel kernel.ConvDepthwiseFunc = kernel.ConvDepthwise
	poolKernel          kernel.PoolFunc          = kernel.Pool
)

// ConvNCHWcKernel returns the selected direct NCHWc convolution
// micro-kernel.
func ConvNCHWcKernel() kernel.ConvNCHWcFunc { return convNCHWcKernel }

// ConvNCHWKernel returns the selected NCHW-input convolution
// micro-kernel.
func ConvNCHWKernel() kernel.ConvNCHWFunc { return convNCHWKernel }

// ConvPointwiseKernel returns the selected pointwise convolution
// micro-kernel.
func ConvPointwiseKernel() kernel.ConvPointwiseFunc { return convPointwiseKernel }

// ConvDepthwiseKernel returns the selected depthwise convolution
// micro-kernel.
func ConvDepthwiseKernel() kernel.ConvDepthwiseFunc { return convDepthwiseKernel }

// PoolKernel returns the selected pooling micro-kernel.
func PoolKernel() kernel.PoolFunc { return poolKernel }
