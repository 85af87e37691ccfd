package nchwc

import "testing"

func TestGroupedCursorRollsOverFilterSetThenGroupThenBatch(t *testing.T) {
	wb := &WorkBlock{
		BatchCount: 2, Groups: 2, OutputChannels: 16, BlockSize: 8,
		Height: Axis{Output: 3},
	}
	filterSetCount := FilterSetCount(wb.OutputChannelsPerGroup(), wb.BlockSize) // 1

	var cur GroupedCursor
	total := GroupedTotalWork(wb, filterSetCount)
	if total != 2*2*1*3 {
		t.Fatalf("GroupedTotalWork = %d, want %d", total, 2*2*1*3)
	}

	cur.PrepareWork(wb, filterSetCount, 0, total)
	if cur.Batch != 0 || cur.Group != 0 || cur.FilterSet != 0 || cur.Row != 0 {
		t.Fatalf("unexpected initial cursor: %+v", cur)
	}

	// Walk every row of batch 0 / group 0, then expect a roll into group 1.
	cur.CompleteWork(wb, filterSetCount, 1)
	cur.CompleteWork(wb, filterSetCount, 1)
	cur.CompleteWork(wb, filterSetCount, 1)

	if cur.Group != 1 || cur.Row != 0 || cur.Batch != 0 {
		t.Fatalf("expected roll into group 1 of batch 0, got %+v", cur)
	}

	cur.CompleteWork(wb, filterSetCount, 1)
	cur.CompleteWork(wb, filterSetCount, 1)
	cur.CompleteWork(wb, filterSetCount, 1)

	if cur.Batch != 1 || cur.Group != 0 || cur.Row != 0 {
		t.Fatalf("expected roll into batch 1, got %+v", cur)
	}
}

func TestGroupedCursorFilterCountRecomputedPerCluster(t *testing.T) {
	wb := &WorkBlock{
		BatchCount: 1, Groups: 1, OutputChannels: 40, BlockSize: 8, // 5 blocks -> clusters of 4,1
		Height: Axis{Output: 1},
	}
	filterSetCount := FilterSetCount(wb.OutputChannelsPerGroup(), wb.BlockSize)
	if filterSetCount != 2 {
		t.Fatalf("filterSetCount = %d, want 2", filterSetCount)
	}

	var cur GroupedCursor
	cur.PrepareWork(wb, filterSetCount, 0, GroupedTotalWork(wb, filterSetCount))
	if cur.FilterCount != 4 {
		t.Fatalf("first cluster FilterCount = %d, want 4", cur.FilterCount)
	}

	cur.CompleteWork(wb, filterSetCount, 1)
	if cur.FilterSet != 1 || cur.FilterCount != 1 {
		t.Fatalf("second cluster: FilterSet=%d FilterCount=%d, want 1 and 1", cur.FilterSet, cur.FilterCount)
	}
}

func TestFlatCursorRollsOverChannelBlock(t *testing.T) {
	var cur FlatCursor
	const hout = 4
	cur.PrepareWork(hout, 0, FlatTotalWork(1, 16, 8, hout))

	for i := 0; i < hout; i++ {
		cur.CompleteWork(hout, 1)
	}
	if cur.ChannelBlock != 1 || cur.Row != 0 {
		t.Fatalf("expected roll to channel block 1, got %+v", cur)
	}
}

func TestEffectiveKernelFullRegionUsesEntireKernel(t *testing.T) {
	axis := Axis{
		Input: 8, Output: 8, Kernel: 3, Dilation: 1, Stride: 1, PaddingLeft: 1,
		OutCountLeftPad: 1, OutCountFull: 6, OutCountRightPad: 1,
	}
	ih, eff, skip := effectiveKernel(1, axis) // ph=1 is inside the full region
	if ih != 0 || eff != 3 || skip != 0 {
		t.Fatalf("got ih=%d eff=%d skip=%d, want ih=0 eff=3 skip=0", ih, eff, skip)
	}
}

func TestEffectiveKernelLeftPadSkipsLeadingRows(t *testing.T) {
	axis := Axis{
		Input: 8, Output: 8, Kernel: 3, Dilation: 1, Stride: 1, PaddingLeft: 1,
		OutCountLeftPad: 1, OutCountFull: 6, OutCountRightPad: 1,
	}
	// ph=0 is the reassigned left-pad row: start = 0*1-1 = -1.
	ih, eff, skip := effectiveKernel(0, axis)
	if ih != 0 || eff != 2 || skip != 1 {
		t.Fatalf("got ih=%d eff=%d skip=%d, want ih=0 eff=2 skip=1", ih, eff, skip)
	}
}

func TestEffectiveKernelRightPadTrimsTrailingRows(t *testing.T) {
	axis := Axis{
		Input: 8, Output: 8, Kernel: 3, Dilation: 1, Stride: 1, PaddingLeft: 1,
		OutCountLeftPad: 1, OutCountFull: 6, OutCountRightPad: 1,
	}
	// ph=7 is the right-pad row: start = 7-1 = 6, rows 6,7,8 -> row 8 OOB.
	ih, eff, skip := effectiveKernel(7, axis)
	if ih != 6 || eff != 2 || skip != 0 {
		t.Fatalf("got ih=%d eff=%d skip=%d, want ih=6 eff=2 skip=0", ih, eff, skip)
	}
}
