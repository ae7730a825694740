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
	"time"

	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
	"trpc.group/trpc-go/trpc-rageval-go/metric"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
)

// DefaultStageTimeout bounds the retrieval path of a single example. Expiry
// is treated as that example's failure, not a fatal sweep error.
const DefaultStageTimeout = 30 * time.Second

// Options carries the evaluator dependencies and tunables.
type Options struct {
	Registry        *pipeline.Registry
	Metrics         []metric.Metric
	Corpus          []string
	ResultManager   sweepresult.Manager
	StageTimeout    time.Duration
	OutcomeCallback func(*RunOutcome)
}

// Option represents a functional option for configuring the evaluator.
type Option func(*Options)

// NewOptions applies opt to the default options.
func NewOptions(opt ...Option) *Options {
	opts := &Options{StageTimeout: DefaultStageTimeout}
	for _, o := range opt {
		o(opts)
	}
	return opts
}

// WithRegistry sets the stage registry pipeline configs are resolved against.
func WithRegistry(registry *pipeline.Registry) Option {
	return func(o *Options) {
		o.Registry = registry
	}
}

// WithMetrics sets the metrics computed for every example.
func WithMetrics(metrics ...metric.Metric) Option {
	return func(o *Options) {
		o.Metrics = append(o.Metrics, metrics...)
	}
}

// WithCorpus sets the knowledge-base documents ingested by every pipeline.
func WithCorpus(corpus []string) Option {
	return func(o *Options) {
		o.Corpus = corpus
	}
}

// WithResultManager sets the manager sweep results are persisted through
// when the configuration enables saving.
func WithResultManager(manager sweepresult.Manager) Option {
	return func(o *Options) {
		o.ResultManager = manager
	}
}

// WithStageTimeout bounds the retrieval path of a single example.
// Non-positive values disable the timeout.
func WithStageTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.StageTimeout = timeout
	}
}

// WithOutcomeCallback registers a callback invoked with every successful
// per-example outcome. Outcomes are otherwise discarded after aggregation.
// During a sweep, concurrent cells invoke the callback from multiple
// goroutines; the callback must do its own synchronization.
func WithOutcomeCallback(callback func(*RunOutcome)) Option {
	return func(o *Options) {
		o.OutcomeCallback = callback
	}
}
