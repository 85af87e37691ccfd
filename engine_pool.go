package nchwc

import (
	"github.com/tensorkit/nchwc/kernel"
	"github.com/tensorkit/nchwc/platform"
)

// runPool is the worker body for the pooling engine (4.6.5): batch and
// input channel are flattened into blocks of width B exactly as in
// the depthwise engine, and the loop has no reduction or activation
// step at all — pooling has no weights, bias, or fused activation.
func runPool(kind kernel.PoolKind, wb *WorkBlock, input, output []float32, threadIndex, totalThreads int) {
	poolFn := platform.PoolKernel()

	b := wb.BlockSize
	hout := wb.Height.Output
	planeSize := inputPlaneSize(wb)
	outPlaneSize := outputPlaneSize(wb)

	total := FlatTotalWork(wb.BatchCount, wb.InputChannels, b, hout)
	workIndex, workRemaining := partition(threadIndex, totalThreads, total)

	var cur FlatCursor
	cur.PrepareWork(hout, workIndex, workRemaining)

	for cur.WorkRemaining > 0 {
		ih, effHeight, _ := effectiveKernel(cur.Row, wb.Height)

		inOff := cur.ChannelBlock * planeSize
		outOff := cur.ChannelBlock*outPlaneSize + cur.Row*wb.Width.Output*b

		g := kernel.PoolGeometry{
			BlockSize:      b,
			InputWidth:     wb.Width.Input,
			StrideWidth:    wb.Width.Stride,
			DilationWidth:  wb.Width.Dilation,
			StrideHeight:   wb.Height.Stride,
			DilationHeight: wb.Height.Dilation,
			PaddingLeft:    wb.Width.PaddingLeft,
			KernelWidth:    wb.Width.Kernel,
			KernelHeight:   wb.Height.Kernel,
			Window:         kernel.Window{Full: wb.Width.Output},
		}

		poolFn(kind, input[inOff:], ih, output[outOff:], g, effHeight)

		cur.CompleteWork(hout, 1)
	}
}
