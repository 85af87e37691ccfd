package nchwc

import (
	"github.com/tensorkit/nchwc/kernel"
	"github.com/tensorkit/nchwc/platform"
)

// runNCHWInput is the worker body for the NCHW-to-NCHWc convolution
// engine (4.6.2): identical grouped-cursor structure to the direct
// NCHWc engine, but the input tensor is unblocked scalar-channel NCHW,
// so the input-channel reduction steps one scalar channel at a time
// instead of one B-wide block, and the filter carries one scalar tap
// per output lane instead of a BxB matrix per tap.
func runNCHWInput(wb *WorkBlock, filterSetCount int, input, filter, bias, output []float32, zeroMode bool, act kernel.Activation, threadIndex, totalThreads int) {
	convFn := platform.ConvNCHWKernel()

	total := GroupedTotalWork(wb, filterSetCount)
	workIndex, workRemaining := partition(threadIndex, totalThreads, total)

	var cur GroupedCursor
	cur.PrepareWork(wb, filterSetCount, workIndex, workRemaining)

	b := wb.BlockSize
	cinPerGroup := wb.InputChannelsPerGroup()
	hin, win := wb.Height.Input, wb.Width.Input

	frStride := wb.Width.Kernel * b
	outBlockStride := cinPerGroup * wb.Height.Kernel * frStride

	for cur.WorkRemaining > 0 {
		ih, effHeight, rowSkip := effectiveKernel(cur.Row, wb.Height)

		outBlockBase := cur.FilterSet * 4
		outOff := outputRowOffset(wb, cur.Batch, cur.Group, outBlockBase, cur.Row)
		outSlice := output[outOff:]
		biasSlice := biasSliceOrNil(bias, biasOffset(wb, cur.Group, outBlockBase), cur.FilterCount, b)

		g := kernel.ConvGeometry{
			BlockSize:      b,
			InputWidth:     win,
			StrideWidth:    wb.Width.Stride,
			DilationWidth:  wb.Width.Dilation,
			StrideHeight:   wb.Height.Stride,
			DilationHeight: wb.Height.Dilation,
			PaddingLeft:    wb.Width.PaddingLeft,
			KernelWidth:    wb.Width.Kernel,
			Window:         kernel.Window{Full: wb.Width.Output},

			FilterRowStride: frStride,
			FilterSetStride: outBlockStride,
			OutputSetStride: outputPlaneSize(wb),
		}

		if cur.FilterCount > 0 {
			for ic := 0; ic < cinPerGroup; ic++ {
				flags := kernel.DeriveFlags(ic == 0, ic == cinPerGroup-1, zeroMode, len(biasSlice) > 0, act)

				channelIndex := cur.Batch*wb.InputChannels + cur.Group*cinPerGroup + ic
				inOff := channelIndex * hin * win
				filOff := cur.Group*coutBlocksPerGroup(wb)*outBlockStride +
					outBlockBase*outBlockStride +
					ic*wb.Height.Kernel*frStride +
					rowSkip*frStride

				convFn(input[inOff:], ih, filter[filOff:], outSlice, g, effHeight, cur.FilterCount, biasSlice, flags)
			}

			if act.Kind == kernel.ActivationOther {
				kernel.ApplyActivation(outSlice, cur.FilterCount, wb.Width.Output*b, outputPlaneSize(wb), act)
			}
		}

		cur.CompleteWork(wb, filterSetCount, 1)
	}
}
