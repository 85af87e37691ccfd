package kernel

import "math"

// PoolKind selects the pooling reduction a Pool call performs.
type PoolKind int

const (
	// PoolMax takes the maximum value over the effective window.
	PoolMax PoolKind = iota
	// PoolAvgIncludePad divides by the full nominal kernel size
	// (KernelHeight*KernelWidth), treating clipped taps as zero.
	PoolAvgIncludePad
	// PoolAvgExcludePad divides by the number of taps that actually
	// fell inside the input for this particular output position.
	PoolAvgExcludePad
)

// PoolGeometry carries the per-chunk strides the pooling micro-kernel
// needs, mirroring ConvGeometry but without any filter/bias/flag
// concept — pooling has no weights and no fused activation.
type PoolGeometry struct {
	BlockSize      int
	InputWidth     int
	StrideWidth    int
	DilationWidth  int
	StrideHeight   int
	DilationHeight int
	PaddingLeft    int
	KernelWidth    int
	KernelHeight   int
	Window         Window
}

// PoolFunc names the pooling micro-kernel contract.
type PoolFunc func(kind PoolKind, input []float32, ih int, output []float32, g PoolGeometry, effectiveKernelHeight int)

// Pool computes one output row of a pooling operation. input is the
// current channel block's spatial plane; ih is the first valid
// (dilated) input row for this output row.
func Pool(kind PoolKind, input []float32, ih int, output []float32, g PoolGeometry, effectiveKernelHeight int) {
	b := g.BlockSize
	cols := g.Window.Count()

	acc := make([]float32, b)
	count := make([]int, b)

	for ow := 0; ow < cols; ow++ {
		for i := range acc {
			switch kind {
			case PoolMax:
				acc[i] = float32(math.Inf(-1))
			default:
				acc[i] = 0
			}
			count[i] = 0
		}

		iwStart := ow*g.StrideWidth - g.PaddingLeft

		for kh := 0; kh < effectiveKernelHeight; kh++ {
			inRow := (ih + kh*g.DilationHeight) * g.InputWidth

			for kw := 0; kw < g.KernelWidth; kw++ {
				iw := iwStart + kw*g.DilationWidth
				if !columnInBounds(iw, g.InputWidth) {
					continue
				}

				inOff := (inRow + iw) * b
				for l := 0; l < b; l++ {
					v := input[inOff+l]
					switch kind {
					case PoolMax:
						if v > acc[l] {
							acc[l] = v
						}
					default:
						acc[l] += v
					}
					count[l]++
				}
			}
		}

		outOff := ow * b
		for l := 0; l < b; l++ {
			switch kind {
			case PoolMax:
				output[outOff+l] = acc[l]
			case PoolAvgIncludePad:
				output[outOff+l] = acc[l] / float32(g.KernelHeight*g.KernelWidth)
			case PoolAvgExcludePad:
				if count[l] == 0 {
					output[outOff+l] = 0
				} else {
					output[outOff+l] = acc[l] / float32(count[l])
				}
			}
		}
	}
}
