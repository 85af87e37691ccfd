package nchwc

import (
	"github.com/tensorkit/nchwc/kernel"
	"github.com/tensorkit/nchwc/platform"
)

// maxPointwiseInputChannelBatch caps how many blocked input channels
// one ConvPointwise call reduces over, amortizing the per-call
// overhead of the micro-kernel the way the grounding source's pointwise
// path batches up to 128 scalar input channels per call.
const maxPointwiseInputChannelBatch = 128

// runPointwise is the worker body for the 1x1, zero-padding
// convolution engine (4.6.3). Preconditions (KH=KW=1, no padding,
// C_in_per_group >= B) are the caller's responsibility — Conv's engine
// selection in conv.go only reaches this engine when they hold.
// When both spatial strides are unit, the input and output planes
// share the same shape, so the engine flattens every output row this
// worker still owns into one micro-kernel call per input-channel
// batch instead of one call per row.
func runPointwise(wb *WorkBlock, filterSetCount int, input, filter, bias, output []float32, zeroMode bool, act kernel.Activation, threadIndex, totalThreads int) {
	convFn := platform.ConvPointwiseKernel()

	total := GroupedTotalWork(wb, filterSetCount)
	workIndex, workRemaining := partition(threadIndex, totalThreads, total)

	var cur GroupedCursor
	cur.PrepareWork(wb, filterSetCount, workIndex, workRemaining)

	b := wb.BlockSize
	icBlocksTotal := cinBlocksPerGroup(wb)
	icBatch := maxPointwiseInputChannelBatch / b
	if icBatch < 1 {
		icBatch = 1
	}

	rowBatchEligible := wb.Width.Stride == 1 && wb.Height.Stride == 1

	for cur.WorkRemaining > 0 {
		rows := 1
		if rowBatchEligible {
			rows = wb.Height.Output - cur.Row
			if rows > cur.WorkRemaining {
				rows = cur.WorkRemaining
			}
		}

		outBlockBase := cur.FilterSet * 4
		outOff := outputRowOffset(wb, cur.Batch, cur.Group, outBlockBase, cur.Row)
		outSlice := output[outOff:]
		biasSlice := biasSliceOrNil(bias, biasOffset(wb, cur.Group, outBlockBase), cur.FilterCount, b)

		g := kernel.ConvGeometry{
			BlockSize:       b,
			FilterSetStride: filterOutBlockStride(wb),
			OutputSetStride: outputPlaneSize(wb),
			InputSetStride:  inputPlaneSize(wb),
		}

		outCount := rows * wb.Width.Output

		if cur.FilterCount > 0 {
			for icStart := 0; icStart < icBlocksTotal; icStart += icBatch {
				icCount := icBatch
				if icStart+icCount > icBlocksTotal {
					icCount = icBlocksTotal - icStart
				}

				flags := kernel.DeriveFlags(icStart == 0, icStart+icCount == icBlocksTotal, zeroMode, len(biasSlice) > 0, act)

				inOff := inputPlaneOffset(wb, cur.Batch, cur.Group, icStart) + cur.Row*wb.Height.Stride*wb.Width.Input*b
				filOff := filterOffset(wb, cur.Group, outBlockBase, icStart)

				convFn(input[inOff:], filter[filOff:], outSlice, wb.Width.Stride, icCount, cur.FilterCount, g, outCount, biasSlice, flags)
			}

			if act.Kind == kernel.ActivationOther {
				kernel.ApplyActivation(outSlice, cur.FilterCount, outCount*b, outputPlaneSize(wb), act)
			}
		}

		cur.CompleteWork(wb, filterSetCount, rows)
	}
}
