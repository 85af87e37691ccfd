package nchwc

import (
	"github.com/tensorkit/nchwc/kernel"
	"github.com/tensorkit/nchwc/platform"
)

// runDepthwise is the worker body for the depthwise-separable
// convolution engine (4.6.4). Preconditions (C_in_per_group ==
// C_out_per_group == 1) mean groups == channels and every blocked
// channel group is a fully independent single-channel convolution, so
// the worker uses the simpler two-level FlatCursor instead of the
// grouped filter-cluster iterator: no input-channel reduction loop, no
// filter-set concept, and the accumulate flag depends only on
// ZeroMode since there is exactly one reduction step per output row.
func runDepthwise(wb *WorkBlock, input, filter, bias, output []float32, zeroMode bool, act kernel.Activation, threadIndex, totalThreads int) {
	convFn := platform.ConvDepthwiseKernel()

	b := wb.BlockSize
	hout := wb.Height.Output
	planeSize := inputPlaneSize(wb)
	outPlaneSize := outputPlaneSize(wb)
	filterBlockStride := wb.Height.Kernel * wb.Width.Kernel * b

	total := FlatTotalWork(wb.BatchCount, wb.Groups, b, hout)
	workIndex, workRemaining := partition(threadIndex, totalThreads, total)

	var cur FlatCursor
	cur.PrepareWork(hout, workIndex, workRemaining)

	flags := kernel.DeriveFlags(true, true, zeroMode, len(bias) > 0, act)

	for cur.WorkRemaining > 0 {
		ih, effHeight, rowSkip := effectiveKernel(cur.Row, wb.Height)

		inOff := cur.ChannelBlock * planeSize
		outOff := cur.ChannelBlock*outPlaneSize + cur.Row*wb.Width.Output*b
		filOff := cur.ChannelBlock*filterBlockStride + rowSkip*wb.Width.Kernel*b

		var biasSlice []float32
		if len(bias) > 0 {
			biasOff := cur.ChannelBlock * b
			biasSlice = bias[biasOff : biasOff+b]
		}

		g := kernel.ConvGeometry{
			BlockSize:      b,
			InputWidth:     wb.Width.Input,
			StrideWidth:    wb.Width.Stride,
			DilationWidth:  wb.Width.Dilation,
			StrideHeight:   wb.Height.Stride,
			DilationHeight: wb.Height.Dilation,
			PaddingLeft:    wb.Width.PaddingLeft,
			KernelWidth:    wb.Width.Kernel,
			Window:         kernel.Window{Full: wb.Width.Output},
		}

		convFn(input[inOff:], ih, filter[filOff:], output[outOff:], g, effHeight, biasSlice, flags)

		if act.Kind == kernel.ActivationOther {
			kernel.ApplyActivation(output[outOff:], 1, wb.Width.Output*b, outPlaneSize, act)
		}

		cur.CompleteWork(hout, 1)
	}
}
