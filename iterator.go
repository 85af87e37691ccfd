package nchwc

// ceilDiv returns ceil(a/b) for non-negative a and positive b.
func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// FilterSetCount returns the number of filter clusters (groups of up
// to four blocked output-channel tiles) one group's output channels
// are divided into.
func FilterSetCount(outputChannelsPerGroup, blockSize int) int {
	return ceilDiv(outputChannelsPerGroup, blockSize*4)
}

// filterCountForSet returns how many blocked output-channel tiles the
// given filter cluster actually covers: four for every cluster except
// possibly the last, which may be a remainder.
func filterCountForSet(outputChannelsPerGroup, blockSize, filterSet int) int {
	blocks := outputChannelsPerGroup / blockSize
	remaining := blocks - filterSet*4
	switch {
	case remaining > 4:
		return 4
	case remaining < 0:
		return 0
	default:
		return remaining
	}
}

// GroupedCursor is the shared per-worker state machine for the three
// grouped-convolution engines (direct NCHWc, NCHW-input, pointwise):
// it steps batch x group x filter-set x output-row in that priority
// order (slowest first, output row fastest), recomputing FilterCount whenever it crosses
// into a new filter cluster.
type GroupedCursor struct {
	Batch         int
	Group         int
	FilterSet     int
	Row           int
	FilterCount   int
	WorkRemaining int
}

// GroupedTotalWork returns N*groups*filterSetCount*Hout, the total
// work-unit count the partitioner divides among threads for any of the
// three grouped engines.
func GroupedTotalWork(wb *WorkBlock, filterSetCount int) int {
	return wb.BatchCount * wb.Groups * filterSetCount * wb.Height.Output
}

// PrepareWork decomposes workIndex into (batch, group, filterSet, row)
// in fast-varying-first order and positions the cursor there.
func (c *GroupedCursor) PrepareWork(wb *WorkBlock, filterSetCount, workIndex, workRemaining int) {
	hout := wb.Height.Output

	c.Row = workIndex % hout
	rem := workIndex / hout

	c.FilterSet = rem % filterSetCount
	rem /= filterSetCount

	c.Group = rem % wb.Groups
	c.Batch = rem / wb.Groups

	c.FilterCount = filterCountForSet(wb.OutputChannelsPerGroup(), wb.BlockSize, c.FilterSet)
	c.WorkRemaining = workRemaining
}

// CompleteWork advances the cursor past n processed output rows,
// rolling over to the next filter cluster, group, or batch as each
// level exhausts, and recomputing FilterCount for the new cluster.
func (c *GroupedCursor) CompleteWork(wb *WorkBlock, filterSetCount, n int) {
	c.WorkRemaining -= n
	c.Row += n

	if c.Row < wb.Height.Output {
		return
	}
	c.Row = 0

	c.FilterSet++
	if c.FilterSet >= filterSetCount {
		c.FilterSet = 0

		c.Group++
		if c.Group >= wb.Groups {
			c.Group = 0
			c.Batch++
		}
	}

	c.FilterCount = filterCountForSet(wb.OutputChannelsPerGroup(), wb.BlockSize, c.FilterSet)
}

// FlatCursor is the simpler two-level iterator shared by the
// depthwise and pooling engines, which have no filter-cluster or group
// concept of their own: batch and channel are flattened into one
// axis of blocks of width BlockSize, stepped by output row.
type FlatCursor struct {
	ChannelBlock  int
	Row           int
	WorkRemaining int
}

// FlatTotalWork returns ceil(batchCount*channels/blockSize) * hout.
func FlatTotalWork(batchCount, channels, blockSize, hout int) int {
	return ceilDiv(batchCount*channels, blockSize) * hout
}

// PrepareWork decomposes workIndex into (channelBlock, row), row
// varying fastest.
func (c *FlatCursor) PrepareWork(hout, workIndex, workRemaining int) {
	c.Row = workIndex % hout
	c.ChannelBlock = workIndex / hout
	c.WorkRemaining = workRemaining
}

// CompleteWork advances past n output rows, rolling to the next
// channel block when the row count exhausts Hout.
func (c *FlatCursor) CompleteWork(hout, n int) {
	c.WorkRemaining -= n
	c.Row += n
	if c.Row >= hout {
		c.Row = 0
		c.ChannelBlock++
	}
}

// effectiveKernel implements the shared per-row helper used by every
// convolution and pooling engine: it walks the kernel-height taps once
// from ph's nominal (possibly out-of-bounds) starting input row,
// skipping any tap whose dilated input row falls outside [0, axis.Input),
// and reports the first valid input row and the reduced kernel height.
// filterRowSkip counts only the *leading* skipped rows — the count by
// which a caller must advance its filter-row pointer, matching the
// grounding source's rule that trailing out-of-bounds rows shrink the
// effective height without moving the filter base.
func effectiveKernel(ph int, axis Axis) (ih, effectiveHeight, filterRowSkip int) {
	start := ph*axis.Stride - axis.PaddingLeft
	effectiveHeight = axis.Kernel
	ih = start

	// Fast path: rows in the full (unpadded) region never touch padding.
	if ph >= axis.OutCountLeftPad && ph < axis.OutCountLeftPad+axis.OutCountFull {
		return ih, effectiveHeight, 0
	}

	step := start
	for kh := 0; kh < axis.Kernel; kh++ {
		if step < 0 || step >= axis.Input {
			if step == ih {
				ih += axis.Dilation
				filterRowSkip++
			}
			effectiveHeight--
		}
		step += axis.Dilation
	}

	return ih, effectiveHeight, filterRowSkip
}
