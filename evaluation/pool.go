//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
)

type sweepCellParam struct {
	idx       int
	ctx       context.Context
	cfg       pipeline.Config
	evaluator *Evaluator
	results   []*sweepresult.ConfigResult
	wg        *sync.WaitGroup
}

func (p *sweepCellParam) reset() {
	p.idx = 0
	p.ctx = nil
	p.cfg = pipeline.Config{}
	p.evaluator = nil
	p.results = nil
	p.wg = nil
}

var sweepCellParamPool = &sync.Pool{
	New: func() any { return new(sweepCellParam) },
}

// createSweepCellPool builds the bounded worker pool sweep cells run on.
// Each worker writes its result into the slot matching the cell's
// enumeration index, so collected results never depend on completion order.
func createSweepCellPool(size int) (*ants.PoolWithFunc, error) {
	if size <= 0 {
		return nil, errors.New("pool size must be greater than 0")
	}
	pool, err := ants.NewPoolWithFunc(size, func(args any) {
		param, ok := args.(*sweepCellParam)
		if !ok {
			panic("sweep cell pool args type error")
		}
		wg := param.wg
		defer func() {
			// A panicking stage must still leave a failure-marked result in
			// the cell's slot, never a nil entry.
			if r := recover(); r != nil {
				param.results[param.idx] = failedResult(
					param.cfg, param.evaluator.metrics, fmt.Errorf("sweep cell panic: %v", r))
			}
			param.reset()
			sweepCellParamPool.Put(param)
			wg.Done()
		}()
		param.results[param.idx] = param.evaluator.runCell(param.ctx, param.cfg)
	})
	if err != nil {
		return nil, fmt.Errorf("create sweep cell pool: %w", err)
	}
	return pool, nil
}
