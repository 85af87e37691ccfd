// Package kernel implements the micro-kernel contracts of the NCHWc
// engine: pure functions over flat float32 slices and a handful of
// explicit element strides, each satisfying the convolution or pooling
// contract bit-for-bit modulo floating-point non-associativity.
//
// Every kernel here is the portable scalar fallback. The ABI these
// functions expose — slices already positioned at the relevant plane,
// plus typed strides computed once per worker chunk — is the seam a
// vectorized specialization would occupy; see flags.go and the
// function-pointer table in platform/kernels.go for how such a
// specialization would be registered.
//
// A C ABI for this kind of kernel would pass raw byte-stride pointers,
// a convention required to cross a fixed C calling convention. A
// pure-Go kernel has no such boundary to cross: Go slices already
// carry a base pointer and length, so the strides below are plain
// element counts, not bytes, and negative pointer arithmetic (the
// separate "unshifted" pointer trick C code uses to avoid undefined
// behavior before the start of an array) is replaced by ordinary
// bounds checks on an int column index.
package kernel

// Window splits an output axis into the three regions every
// convolution or pooling row is computed as: columns whose receptive
// field touches the left padding region, columns entirely inside the
// input, and columns touching the right padding region.
type Window struct {
	LeftPad  int
	Full     int
	RightPad int
}

// Count returns the total number of columns covered by the window.
func (w Window) Count() int { return w.LeftPad + w.Full + w.RightPad }

// ConvGeometry carries the per-chunk strides a convolution micro-kernel
// needs, derived once by the engine and reused across every call within
// one worker's chunk.
type ConvGeometry struct {
	BlockSize      int
	InputWidth     int // elements per unblocked input row
	StrideWidth    int
	DilationWidth  int
	StrideHeight   int
	DilationHeight int
	PaddingLeft    int
	KernelWidth    int
	Window         Window

	// FilterRowStride is the element distance from one kernel-height
	// row's taps to the next, within one (output-block, input-block)
	// tap group.
	FilterRowStride int
	// FilterSetStride is the element distance between the filter data
	// for consecutive output-channel blocks within one filter cluster.
	FilterSetStride int
	// OutputSetStride is the element distance between consecutive
	// output-channel blocks' planes.
	OutputSetStride int
	// InputSetStride is the element distance between consecutive
	// blocked input-channel planes reduced over in one ConvPointwise
	// call. ConvNCHWc, ConvNCHW and ConvDepthwise each read a single
	// input plane per call and ignore it.
	InputSetStride int
}

func columnInBounds(iw, width int) bool { return iw >= 0 && iw < width }

// ConvNCHWcFunc, ConvNCHWFunc, ConvPointwiseFunc, and ConvDepthwiseFunc
// name the four convolution micro-kernel contracts so the platform
// package can hold typed function-pointer accessors for each family
// instead of reassigning bare func values.
type (
	ConvNCHWcFunc     func(input []float32, ih int, filter []float32, output []float32, g ConvGeometry, effectiveKernelHeight, filterCount int, bias []float32, flags Flags)
	ConvNCHWFunc      func(input []float32, ih int, filter []float32, output []float32, g ConvGeometry, effectiveKernelHeight, filterCount int, bias []float32, flags Flags)
	ConvPointwiseFunc func(input []float32, filter []float32, output []float32, strideWidth, icBlocks, filterCount int, g ConvGeometry, outCount int, bias []float32, flags Flags)
	ConvDepthwiseFunc func(input []float32, ih int, filter []float32, output []float32, g ConvGeometry, effectiveKernelHeight int, bias []float32, flags Flags)
)

// ConvNCHWc is the direct NCHWc-to-NCHWc convolution micro-kernel. input
// is the current blocked input-channel's spatial plane ([]float32 of
// length >= InputHeight*InputWidth*B); ih is the first valid (dilated)
// input row for this output row, as produced by the effective-kernel
// helper. filter is already offset to (filter cluster base, this
// input-channel block, effective-kernel-row-skip applied). output is
// the current output row across every blocked output-channel plane in
// the cluster. One call produces one output row for up to four blocked
// output-channel tiles (filterCount), computed one tile after another
// from the same input plane.
func ConvNCHWc(input []float32, ih int, filter []float32, output []float32, g ConvGeometry, effectiveKernelHeight, filterCount int, bias []float32, flags Flags) {
	b := g.BlockSize
	cols := g.Window.Count()

	acc := make([]float32, b)

	for fb := 0; fb < filterCount; fb++ {
		outBase := fb * g.OutputSetStride
		filterSetBase := fb * g.FilterSetStride

		for ow := 0; ow < cols; ow++ {
			for i := range acc {
				acc[i] = 0
			}

			iwStart := ow*g.StrideWidth - g.PaddingLeft

			for kh := 0; kh < effectiveKernelHeight; kh++ {
				inRow := (ih + kh*g.DilationHeight) * g.InputWidth
				filterRow := filterSetBase + kh*g.FilterRowStride

				for kw := 0; kw < g.KernelWidth; kw++ {
					iw := iwStart + kw*g.DilationWidth
					if !columnInBounds(iw, g.InputWidth) {
						continue
					}

					inOff := (inRow + iw) * b
					filOff := filterRow + kw*b*b

					for lin := 0; lin < b; lin++ {
						v := input[inOff+lin]
						row := filOff + lin*b
						for lout := 0; lout < b; lout++ {
							acc[lout] += v * filter[row+lout]
						}
					}
				}
			}

			outOff := outBase + ow*b
			for lout := 0; lout < b; lout++ {
				sum := acc[lout]
				if flags.Accumulate() {
					sum += output[outOff+lout]
				}
				if flags.Bias() {
					sum += bias[fb*b+lout]
				}
				if flags.ReLU() && sum < 0 {
					sum = 0
				}
				output[outOff+lout] = sum
			}
		}
	}
}

// ConvNCHW is the direct convolution micro-kernel for an NCHW (unblocked
// scalar channel) input. input is the current scalar input channel's
// spatial plane; filter holds, for the current channel, KernelHeight *
// KernelWidth * B taps (one scalar weight per output lane, not a B*B
// matrix, because the input side carries only one channel per call).
func ConvNCHW(input []float32, ih int, filter []float32, output []float32, g ConvGeometry, effectiveKernelHeight, filterCount int, bias []float32, flags Flags) {
	b := g.BlockSize
	cols := g.Window.Count()

	acc := make([]float32, b)

	for fb := 0; fb < filterCount; fb++ {
		outBase := fb * g.OutputSetStride
		filterSetBase := fb * g.FilterSetStride

		for ow := 0; ow < cols; ow++ {
			for i := range acc {
				acc[i] = 0
			}

			iwStart := ow*g.StrideWidth - g.PaddingLeft

			for kh := 0; kh < effectiveKernelHeight; kh++ {
				inRow := (ih + kh*g.DilationHeight) * g.InputWidth
				filterRow := filterSetBase + kh*g.FilterRowStride

				for kw := 0; kw < g.KernelWidth; kw++ {
					iw := iwStart + kw*g.DilationWidth
					if !columnInBounds(iw, g.InputWidth) {
						continue
					}

					v := input[inRow+iw]
					filOff := filterRow + kw*b
					for lout := 0; lout < b; lout++ {
						acc[lout] += v * filter[filOff+lout]
					}
				}
			}

			outOff := outBase + ow*b
			for lout := 0; lout < b; lout++ {
				sum := acc[lout]
				if flags.Accumulate() {
					sum += output[outOff+lout]
				}
				if flags.Bias() {
					sum += bias[fb*b+lout]
				}
				if flags.ReLU() && sum < 0 {
					sum = 0
				}
				output[outOff+lout] = sum
			}
		}
	}
}

// ConvPointwise is the 1x1, zero-padding convolution micro-kernel. It
// has no kernel-spatial loop: outCount consecutive output positions
// (which may span multiple output rows when the stride is unit, since
// rows are then memory-contiguous in both input and output) are each
// produced by reducing icBlocks blocked input channels, stepping the
// input by strideWidth columns (strideWidth*B elements) per output
// position to account for a non-unit horizontal stride.
func ConvPointwise(input []float32, filter []float32, output []float32, strideWidth, icBlocks, filterCount int, g ConvGeometry, outCount int, bias []float32, flags Flags) {
	b := g.BlockSize

	acc := make([]float32, b)

	for fb := 0; fb < filterCount; fb++ {
		outBase := fb * g.OutputSetStride
		filterSetBase := fb * g.FilterSetStride

		for pos := 0; pos < outCount; pos++ {
			for i := range acc {
				acc[i] = 0
			}

			inBase := pos * strideWidth * b

			for icb := 0; icb < icBlocks; icb++ {
				inOff := inBase + icb*g.InputSetStride
				filOff := filterSetBase + icb*b*b

				for lin := 0; lin < b; lin++ {
					v := input[inOff+lin]
					row := filOff + lin*b
					for lout := 0; lout < b; lout++ {
						acc[lout] += v * filter[row+lout]
					}
				}
			}

			outOff := outBase + pos*b
			for lout := 0; lout < b; lout++ {
				sum := acc[lout]
				if flags.Accumulate() {
					sum += output[outOff+lout]
				}
				if flags.Bias() {
					sum += bias[fb*b+lout]
				}
				if flags.ReLU() && sum < 0 {
					sum = 0
				}
				output[outOff+lout] = sum
			}
		}
	}
}

// ConvDepthwise is the depthwise-separable convolution micro-kernel.
// Each of the B lanes in the current channel block is an independent
// single-channel convolution: filter holds KernelHeight*KernelWidth*B
// scalar taps, one per lane, with no cross-lane reduction.
func ConvDepthwise(input []float32, ih int, filter []float32, output []float32, g ConvGeometry, effectiveKernelHeight int, bias []float32, flags Flags) {
	b := g.BlockSize
	cols := g.Window.Count()

	acc := make([]float32, b)

	for ow := 0; ow < cols; ow++ {
		for i := range acc {
			acc[i] = 0
		}

		iwStart := ow*g.StrideWidth - g.PaddingLeft

		for kh := 0; kh < effectiveKernelHeight; kh++ {
			inRow := (ih + kh*g.DilationHeight) * g.InputWidth
			filterRow := kh * g.KernelWidth * b

			for kw := 0; kw < g.KernelWidth; kw++ {
				iw := iwStart + kw*g.DilationWidth
				if !columnInBounds(iw, g.InputWidth) {
					continue
				}

				inOff := (inRow + iw) * b
				filOff := filterRow + kw*b

				for l := 0; l < b; l++ {
					acc[l] += input[inOff+l] * filter[filOff+l]
				}
			}
		}

		outOff := ow * b
		for l := 0; l < b; l++ {
			sum := acc[l]
			if flags.Accumulate() {
				sum += output[outOff+l]
			}
			if flags.Bias() {
				sum += bias[l]
			}
			if flags.ReLU() && sum < 0 {
				sum = 0
			}
			output[outOff+l] = sum
		}
	}
}
