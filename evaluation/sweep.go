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
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
	"trpc.group/trpc-go/trpc-rageval-go/log"
	"trpc.group/trpc-go/trpc-rageval-go/metric"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
	"trpc.group/trpc-go/trpc-rageval-go/telemetry"
)

// Sweep expands the grid and runs every configuration cell on a bounded
// worker pool. The returned results are in grid-enumeration order
// regardless of completion order, one entry per cell: a failing cell yields
// a zeroed, failure-marked result rather than aborting the sweep.
//
// Cancelling ctx stops new cells from being issued; cells already in flight
// run to completion or fail under the cancelled context and are reported as
// failed configurations, never silently dropped.
func (e *Evaluator) Sweep(ctx context.Context, grid *Grid) (sweepresult.SweepResults, error) {
	configs, err := grid.Expand()
	if err != nil {
		return nil, err
	}
	ctx, span := telemetry.Tracer.Start(ctx, "evaluation.sweep")
	defer span.End()
	span.SetAttributes(
		attribute.String("experiment", e.config.ExperimentName),
		attribute.Int("sweep.cells", len(configs)),
		attribute.Int("sweep.max_concurrency", e.config.MaxConcurrency),
	)
	log.Infof("experiment %s: sweeping %d configurations with concurrency %d",
		e.config.ExperimentName, len(configs), e.config.MaxConcurrency)

	pool, err := createSweepCellPool(e.config.MaxConcurrency)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	results := make([]*sweepresult.ConfigResult, len(configs))
	var wg sync.WaitGroup
	for i, cfg := range configs {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// Stop issuing new work; unstarted cells report the cancellation.
			for j := i; j < len(configs); j++ {
				results[j] = failedResult(configs[j], e.metrics, fmt.Errorf("sweep cancelled: %w", ctxErr))
			}
			break
		}
		param, ok := sweepCellParamPool.Get().(*sweepCellParam)
		if !ok {
			panic("sweep cell param pool type error")
		}
		param.idx = i
		param.ctx = ctx
		param.cfg = cfg
		param.evaluator = e
		param.results = results
		param.wg = &wg
		wg.Add(1)
		if err := pool.Invoke(param); err != nil {
			wg.Done()
			param.reset()
			sweepCellParamPool.Put(param)
			results[i] = failedResult(cfg, e.metrics, fmt.Errorf("submit sweep cell: %w", err))
		}
	}
	wg.Wait()

	e.saveResults(ctx, results)
	return results, nil
}

// runCell wraps Run, converting cell-level errors into failure-marked
// results so a broken configuration never takes the sweep down with it.
func (e *Evaluator) runCell(ctx context.Context, cfg pipeline.Config) *sweepresult.ConfigResult {
	result, err := e.Run(ctx, cfg)
	if err != nil {
		log.Errorf("experiment %s: configuration %+v failed: %v", e.config.ExperimentName, cfg, err)
		return failedResult(cfg, e.metrics, err)
	}
	return result
}

// failedResult marks one configuration cell as failed. Every configured
// metric is reported as 0.0 so downstream aggregation sees a uniform shape.
func failedResult(cfg pipeline.Config, metrics []metric.Metric, err error) *sweepresult.ConfigResult {
	zeroed := make(map[string]float64, len(metrics))
	for _, m := range metrics {
		zeroed[m.Name()] = 0.0
	}
	return &sweepresult.ConfigResult{
		Config:        cfg,
		Metrics:       zeroed,
		Failed:        true,
		FailureReason: err.Error(),
	}
}

// saveResults persists the sweep when configured to. Persistence failure is
// logged, not propagated: the computed results are already in hand and must
// not be lost to a storage error.
func (e *Evaluator) saveResults(ctx context.Context, results sweepresult.SweepResults) {
	if !e.config.SaveResults {
		return
	}
	if e.resultManager == nil {
		log.Warnf("experiment %s: save_results is set but no result manager is configured", e.config.ExperimentName)
		return
	}
	resultID, err := e.resultManager.Save(ctx, e.config.ExperimentName, results)
	if err != nil {
		log.Errorf("experiment %s: save sweep results: %v", e.config.ExperimentName, err)
		return
	}
	log.Infof("experiment %s: sweep results saved as %s", e.config.ExperimentName, resultID)
}
