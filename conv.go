// Package nchwc implements a single-precision, channel-blocked
// ("NCHWc") 2-D convolution and pooling engine: a geometric work-block
// builder, a deterministic work partitioner, a shared grouped-filter
// iterator, five algorithm engines built on top of it, and the two
// public entry points below that tie them to a worker pool.
package nchwc

import (
	"fmt"

	"github.com/tensorkit/nchwc/kernel"
	"github.com/tensorkit/nchwc/platform"
)

// Activation re-exports the kernel package's activation descriptor at
// the package boundary so callers never need to import kernel
// directly just to build one.
type Activation = kernel.Activation

// ThreadPool is the minimal primitive this engine requires of a host
// thread pool: report the parallelism it should partition work across,
// run exactly that many indexed tasks to completion, and report back
// whether any of them failed.
type ThreadPool interface {
	MaxThreadCount() int
	RunIndexed(count int, fn func(index int)) error
}

// ConvParams collects every parameter to a single Conv call. Shape
// fields embed Shape directly so callers can omit kernel/dilation/
// stride/padding and get the same defaulting Prepare applies.
type ConvParams struct {
	Shape

	Input  []float32
	Filter []float32
	Bias   []float32
	Output []float32

	Activation Activation
	ZeroMode   bool

	ThreadPool ThreadPool
}

// engineKind tags which of the four convolution algorithm bodies
// Conv dispatches to, replacing the source's inheritance-based
// algorithm-object hierarchy with a small enum and a dispatch table.
type engineKind int

const (
	engineDirectNCHWc engineKind = iota
	enginePointwise
	engineDepthwise
	engineNCHWInput
)

// selectEngine implements the C7 precondition table: pointwise beats
// direct NCHWc when both apply (1x1, unpadded), depthwise requires
// exactly one channel per group on both sides, and anything else with
// scalar (non-block-aligned) input channels per group falls back to
// the NCHW-input engine.
func selectEngine(cinPerGroup, coutPerGroup, kh, kw, padTop, padLeft, padBottom, padRight, blockSize int) engineKind {
	switch {
	case cinPerGroup == 1 && coutPerGroup == 1:
		return engineDepthwise
	case cinPerGroup >= blockSize && kh == 1 && kw == 1 && padTop == 0 && padLeft == 0 && padBottom == 0 && padRight == 0:
		return enginePointwise
	case cinPerGroup >= blockSize:
		return engineDirectNCHWc
	default:
		return engineNCHWInput
	}
}

// Conv runs a convolution per the dispatch table in §4.7: it builds a
// WorkBlock, selects one of the four algorithm engines by precondition,
// and submits it once per worker to the thread pool, blocking until
// every worker returns.
func Conv(p ConvParams) error {
	shape := p.Shape
	if shape.Groups == 0 {
		shape.Groups = 1
	}

	b := platform.BlockSize()

	cinPerGroup := shape.InputChannels / shape.Groups
	coutPerGroup := shape.OutputChannels / shape.Groups

	normalized := shape.withDefaults()
	engine := selectEngine(cinPerGroup, coutPerGroup, normalized.KernelHeight, normalized.KernelWidth,
		normalized.PaddingTop, normalized.PaddingLeft, normalized.PaddingBottom, normalized.PaddingRight, b)

	requireInputAlignment := engine == engineDirectNCHWc || engine == enginePointwise
	requireOutputAlignment := engine != engineDepthwise

	pool := p.ThreadPool
	var owned *ownedPool
	if pool == nil {
		owned = newOwnedPool()
		pool = owned
		defer owned.Close()
	}

	wb, err := Prepare(shape, b, pool.MaxThreadCount(), requireInputAlignment, requireOutputAlignment)
	if err != nil {
		return err
	}

	if engine == engineDepthwise && wb.Groups%b != 0 {
		return invalidShapef("depthwise engine requires channel count %d divisible by block size %d", wb.Groups, b)
	}

	if p.Activation.Fn == nil && p.Activation.Kind == kernel.ActivationOther {
		return fmt.Errorf("%w: activation %q has no function", ErrUnsupportedActivation, p.Activation.Name)
	}

	var filterSetCount int
	if engine == engineDirectNCHWc || engine == enginePointwise || engine == engineNCHWInput {
		filterSetCount = FilterSetCount(wb.OutputChannelsPerGroup(), b)
	}

	runWorker := func(idx int) {
		switch engine {
		case engineDirectNCHWc:
			runDirectNCHWc(wb, filterSetCount, p.Input, p.Filter, p.Bias, p.Output, p.ZeroMode, p.Activation, idx, wb.ThreadCount)
		case enginePointwise:
			runPointwise(wb, filterSetCount, p.Input, p.Filter, p.Bias, p.Output, p.ZeroMode, p.Activation, idx, wb.ThreadCount)
		case engineDepthwise:
			runDepthwise(wb, p.Input, p.Filter, p.Bias, p.Output, p.ZeroMode, p.Activation, idx, wb.ThreadCount)
		case engineNCHWInput:
			runNCHWInput(wb, filterSetCount, p.Input, p.Filter, p.Bias, p.Output, p.ZeroMode, p.Activation, idx, wb.ThreadCount)
		}
	}

	if err := pool.RunIndexed(wb.ThreadCount, runWorker); err != nil {
		return fmt.Errorf("%w: %v", ErrThreadPoolFailure, err)
	}
	return nil
}
