package nchwc

import (
	"fmt"

	"github.com/tensorkit/nchwc/kernel"
	"github.com/tensorkit/nchwc/platform"
)

// PoolKind re-exports the kernel package's pooling-variant tag.
type PoolKind = kernel.PoolKind

const (
	PoolMax            = kernel.PoolMax
	PoolAvgIncludePad  = kernel.PoolAvgIncludePad
	PoolAvgExcludePad  = kernel.PoolAvgExcludePad
)

// PoolParams collects every parameter to a single Pool call.
type PoolParams struct {
	Shape

	Kind PoolKind

	Input  []float32
	Output []float32

	ThreadPool ThreadPool
}

// Pool runs a pooling reduction per §4.6.5: a single engine, no
// filter/bias/activation machinery, work units flattened across batch
// and input-channel blocks.
func Pool(p PoolParams) error {
	shape := p.Shape
	shape.Groups = 1

	b := platform.BlockSize()

	pool := p.ThreadPool
	var owned *ownedPool
	if pool == nil {
		owned = newOwnedPool()
		pool = owned
		defer owned.Close()
	}

	wb, err := Prepare(shape, b, pool.MaxThreadCount(), true, true)
	if err != nil {
		return err
	}

	err = pool.RunIndexed(wb.ThreadCount, func(idx int) {
		runPool(p.Kind, wb, p.Input, p.Output, idx, wb.ThreadCount)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrThreadPoolFailure, err)
	}

	return nil
}
