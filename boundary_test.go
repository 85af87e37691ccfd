package nchwc

import (
	"testing"

	"github.com/tensorkit/nchwc/kernel"
	"github.com/tensorkit/nchwc/workerpool"
)

func filled(n int, v float32) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// Scenario 1: N=1, Cin=16, Cout=16, 8x8, 3x3 kernel, pad=1, stride=1,
// groups=1, identity activation, zero_mode=true. With an all-ones
// filter and all-ones input, every valid tap contributes exactly its
// lane count, so the top-left output (truncated to a 2x2 sub-kernel by
// padding) must equal 4/9 of what an interior, untruncated position
// produces.
func TestBoundaryDirectNCHWc3x3Pad1(t *testing.T) {
	const b = 8
	shape := Shape{
		BatchCount: 1, InputChannels: 16, OutputChannels: 16,
		InputHeight: 8, InputWidth: 8, OutputHeight: 8, OutputWidth: 8,
		KernelHeight: 3, KernelWidth: 3,
		PaddingTop: 1, PaddingLeft: 1, PaddingBottom: 1, PaddingRight: 1,
	}

	wb, err := Prepare(shape, b, 1, true, true)
	if err != nil {
		t.Fatal(err)
	}

	input := filled(1*2*8*8*b, 1)
	filter := filled(1*2*2*3*3*b*b, 1)
	output := make([]float32, 1*2*8*8*b)

	err = Conv(ConvParams{
		Shape: shape, Input: input, Filter: filter, Output: output,
		Activation: Activation{}, ZeroMode: true,
		ThreadPool: workerpool.New(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	_ = wb
	topLeft := output[0]
	const wantTopLeft = 2 * 4 * 8 // icBlocks * validTaps(2x2) * lanesPerTap
	if topLeft != wantTopLeft {
		t.Errorf("top-left output = %v, want %v", topLeft, float32(wantTopLeft))
	}

	interiorOff := (3*8 + 3) * b // row 3, col 3: fully interior
	interior := output[interiorOff]
	const wantInterior = 2 * 9 * 8
	if interior != wantInterior {
		t.Errorf("interior output = %v, want %v", interior, float32(wantInterior))
	}
}

// Scenario 2 (simplified to a single block to keep the expected value
// hand-computable): a 1x1, zero-padding, biased, ReLU-activated
// convolution must equal max(0, sum_c input*filter + bias) exactly.
func TestBoundaryPointwiseBiasReLU(t *testing.T) {
	const b = 8
	shape := Shape{
		BatchCount: 1, InputChannels: 8, OutputChannels: 8,
		InputHeight: 2, InputWidth: 2, OutputHeight: 2, OutputWidth: 2,
		KernelHeight: 1, KernelWidth: 1,
	}

	input := make([]float32, 1*1*2*2*b)
	for i := range input {
		input[i] = float32(i%3) - 1 // mix of negative and positive values
	}
	// Identity filter: output channel k reads only input channel k.
	filter := make([]float32, b*b)
	for i := 0; i < b; i++ {
		filter[i*b+i] = 1
	}
	bias := make([]float32, b)
	for i := range bias {
		bias[i] = float32(i) - 4 // some negative, some positive
	}
	output := make([]float32, len(input))

	err := Conv(ConvParams{
		Shape: shape, Input: input, Filter: filter, Bias: bias, Output: output,
		Activation: kernel.ReLU(), ZeroMode: true,
		ThreadPool: workerpool.New(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	for pos := 0; pos < 4; pos++ {
		for lane := 0; lane < b; lane++ {
			in := input[pos*b+lane]
			want := in + bias[lane]
			if want < 0 {
				want = 0
			}
			got := output[pos*b+lane]
			if got != want {
				t.Errorf("pos=%d lane=%d: got %v want %v", pos, lane, got, want)
			}
		}
	}
}

// Scenario 3: depthwise, N=1, Cin=Cout=8, groups=8, 3x3, pad=1. Each
// output channel must depend only on its own input channel.
func TestBoundaryDepthwise3x3Pad1(t *testing.T) {
	const b = 8
	shape := Shape{
		BatchCount: 1, InputChannels: 8, OutputChannels: 8, Groups: 8,
		InputHeight: 8, InputWidth: 8, OutputHeight: 8, OutputWidth: 8,
		KernelHeight: 3, KernelWidth: 3,
		PaddingTop: 1, PaddingLeft: 1, PaddingBottom: 1, PaddingRight: 1,
	}

	input := filled(1*1*8*8*b, 1)
	filter := filled(1*3*3*b, 1) // one block, KH*KW*B taps

	output := make([]float32, len(input))

	err := Conv(ConvParams{
		Shape: shape, Input: input, Filter: filter, Output: output,
		Activation: Activation{}, ZeroMode: true,
		ThreadPool: workerpool.New(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	topLeft := output[0]
	if topLeft != 4 { // validTaps(2x2) * weight(1) * input(1), no cross-channel reduction
		t.Errorf("top-left output = %v, want 4", topLeft)
	}
	interiorOff := (3*8 + 3) * b
	if output[interiorOff] != 9 {
		t.Errorf("interior output = %v, want 9", output[interiorOff])
	}
}

// Scenario 4: NCHW-input engine, N=1, Cin=3, Cout=16, 5x5, 3x3, pad=1.
// Output shape must be 1x16x5x5, and truncated corners must reflect
// the 2x2 effective kernel exactly as in the blocked-input case.
func TestBoundaryNCHWInput3x3Pad1(t *testing.T) {
	const b = 8
	shape := Shape{
		BatchCount: 1, InputChannels: 3, OutputChannels: 16,
		InputHeight: 5, InputWidth: 5, OutputHeight: 5, OutputWidth: 5,
		KernelHeight: 3, KernelWidth: 3,
		PaddingTop: 1, PaddingLeft: 1, PaddingBottom: 1, PaddingRight: 1,
	}

	input := filled(1*3*5*5, 1) // unblocked NCHW
	filter := filled(1*2*3*3*3*b, 1)
	output := make([]float32, 1*2*5*5*b)

	err := Conv(ConvParams{
		Shape: shape, Input: input, Filter: filter, Output: output,
		Activation: Activation{}, ZeroMode: true,
		ThreadPool: workerpool.New(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(output) != 1*2*5*5*b {
		t.Fatalf("output length = %d, want %d (shape 1x16x5x5)", len(output), 1*2*5*5*b)
	}

	topLeft := output[0]
	const wantTopLeft = 3 * 4 // Cin * validTaps(2x2)
	if topLeft != wantTopLeft {
		t.Errorf("top-left output = %v, want %v", topLeft, float32(wantTopLeft))
	}

	interiorOff := (2*5 + 2) * b
	const wantInterior = 3 * 9
	if output[interiorOff] != wantInterior {
		t.Errorf("interior output = %v, want %v", output[interiorOff], float32(wantInterior))
	}
}

// Scenario 5: average pooling including padding, 2x2 kernel, stride 2,
// pad 0, on an 8x8 input, yields a 4x4 output whose values are the
// mean of 4 input cells each.
func TestBoundaryAvgPoolIncludePad2x2Stride2(t *testing.T) {
	const b = 8
	shape := Shape{
		BatchCount: 1, InputChannels: 8, OutputChannels: 8,
		InputHeight: 8, InputWidth: 8, OutputHeight: 4, OutputWidth: 4,
		KernelHeight: 2, KernelWidth: 2, StrideHeight: 2, StrideWidth: 2,
	}

	input := make([]float32, 1*1*8*8*b)
	for i := range input {
		input[i] = float32(i)
	}
	output := make([]float32, 1*1*4*4*b)

	err := Pool(PoolParams{
		Shape: shape, Kind: PoolAvgIncludePad, Input: input, Output: output,
		ThreadPool: workerpool.New(1),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Output position (1,1) pools input rows 2-3, cols 2-3.
	for lane := 0; lane < b; lane++ {
		var sum float32
		for _, rc := range [][2]int{{2, 2}, {2, 3}, {3, 2}, {3, 3}} {
			sum += input[(rc[0]*8+rc[1])*b+lane]
		}
		want := sum / 4
		got := output[(1*4+1)*b+lane]
		if got != want {
			t.Errorf("lane=%d: got %v want %v", lane, got, want)
		}
	}
}

// Scenario 6: thread-count invariance. The same convolution must
// produce bit-identical output for T=1 and T=4.
func TestBoundaryThreadCountInvariance(t *testing.T) {
	const b = 8
	shape := Shape{
		BatchCount: 1, InputChannels: 16, OutputChannels: 16,
		InputHeight: 8, InputWidth: 8, OutputHeight: 8, OutputWidth: 8,
		KernelHeight: 3, KernelWidth: 3,
		PaddingTop: 1, PaddingLeft: 1, PaddingBottom: 1, PaddingRight: 1,
	}

	input := make([]float32, 1*2*8*8*b)
	for i := range input {
		input[i] = float32(i%13) * 0.37
	}
	filter := make([]float32, 1*2*2*3*3*b*b)
	for i := range filter {
		filter[i] = float32(i%7) * 0.11
	}

	run := func(threads int) []float32 {
		output := make([]float32, len(input))
		pool := workerpool.New(threads)
		defer pool.Close()
		err := Conv(ConvParams{
			Shape: shape, Input: input, Filter: filter, Output: output,
			Activation: Activation{}, ZeroMode: true, ThreadPool: pool,
		})
		if err != nil {
			t.Fatal(err)
		}
		return output
	}

	out1 := run(1)
	out4 := run(4)

	for i := range out1 {
		if out1[i] != out4[i] {
			t.Fatalf("thread-count invariance violated at index %d: T=1 -> %v, T=4 -> %v", i, out1[i], out4[i])
		}
	}
}
