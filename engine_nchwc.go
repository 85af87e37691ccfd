package nchwc

import (
	"github.com/tensorkit/nchwc/kernel"
	"github.com/tensorkit/nchwc/platform"
)

// runDirectNCHWc is the worker body for the direct NCHWc-to-NCHWc
// convolution engine (4.6.1): one GroupedCursor per worker, an outer
// loop over the output rows assigned to this worker, and for each row
// an inner reduction loop over input-channel blocks; rows are not
// batched under one input-channel block. Every (icBlock, row) pair
// derives its own flag byte and effective kernel footprint before
// calling the micro-kernel.
func runDirectNCHWc(wb *WorkBlock, filterSetCount int, input, filter, bias, output []float32, zeroMode bool, act kernel.Activation, threadIndex, totalThreads int) {
	convFn := platform.ConvNCHWcKernel()

	total := GroupedTotalWork(wb, filterSetCount)
	workIndex, workRemaining := partition(threadIndex, totalThreads, total)

	var cur GroupedCursor
	cur.PrepareWork(wb, filterSetCount, workIndex, workRemaining)

	icBlocks := cinBlocksPerGroup(wb)
	b := wb.BlockSize

	for cur.WorkRemaining > 0 {
		ih, effHeight, rowSkip := effectiveKernel(cur.Row, wb.Height)

		outBlockBase := cur.FilterSet * 4
		outOff := outputRowOffset(wb, cur.Batch, cur.Group, outBlockBase, cur.Row)
		outSlice := output[outOff:]
		biasSlice := biasSliceOrNil(bias, biasOffset(wb, cur.Group, outBlockBase), cur.FilterCount, b)

		g := kernel.ConvGeometry{
			BlockSize:       b,
			InputWidth:      wb.Width.Input,
			StrideWidth:     wb.Width.Stride,
			DilationWidth:   wb.Width.Dilation,
			StrideHeight:    wb.Height.Stride,
			DilationHeight:  wb.Height.Dilation,
			PaddingLeft:     wb.Width.PaddingLeft,
			KernelWidth:     wb.Width.Kernel,
			Window:          kernel.Window{LeftPad: 0, Full: wb.Width.Output, RightPad: 0},
			FilterRowStride: filterRowStride(wb),
			FilterSetStride: filterOutBlockStride(wb),
			OutputSetStride: outputPlaneSize(wb),
		}

		if cur.FilterCount > 0 {
			for icBlock := 0; icBlock < icBlocks; icBlock++ {
				flags := kernel.DeriveFlags(icBlock == 0, icBlock == icBlocks-1, zeroMode, len(biasSlice) > 0, act)

				inOff := inputPlaneOffset(wb, cur.Batch, cur.Group, icBlock)
				filOff := filterOffset(wb, cur.Group, outBlockBase, icBlock) + rowSkip*filterRowStride(wb)

				convFn(input[inOff:], ih, filter[filOff:], outSlice, g, effHeight, cur.FilterCount, biasSlice, flags)
			}

			if act.Kind == kernel.ActivationOther {
				kernel.ApplyActivation(outSlice, cur.FilterCount, wb.Width.Output*b, outputPlaneSize(wb), act)
			}
		}

		cur.CompleteWork(wb, filterSetCount, 1)
	}
}
