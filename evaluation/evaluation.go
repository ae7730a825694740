//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package evaluation orchestrates retrieval-pipeline evaluation runs and
// configuration sweeps.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"trpc.group/trpc-go/trpc-rageval-go/dataset"
	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
	"trpc.group/trpc-go/trpc-rageval-go/log"
	"trpc.group/trpc-go/trpc-rageval-go/metric"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
	"trpc.group/trpc-go/trpc-rageval-go/record"
	"trpc.group/trpc-go/trpc-rageval-go/telemetry"
)

// RunOutcome is the result of evaluating one example under one pipeline
// configuration. Outcomes live only for the duration of the example's
// evaluation unless a callback keeps them.
type RunOutcome struct {
	// ExampleID identifies the dataset example.
	ExampleID string `json:"exampleId"`
	// Query is the example's retrieval query.
	Query string `json:"query"`
	// Retrieved is the ordered retrieval result.
	Retrieved []string `json:"retrieved"`
	// Scores maps metric name to the example's score.
	Scores map[string]float64 `json:"scores"`
}

// Evaluator runs pipeline configurations against a labeled dataset and
// aggregates per-configuration metric results.
type Evaluator struct {
	config          *Config
	provider        dataset.Provider
	registry        *pipeline.Registry
	metrics         []metric.Metric
	corpus          []string
	resultManager   sweepresult.Manager
	stageTimeout    time.Duration
	outcomeCallback func(*RunOutcome)
}

// New creates an Evaluator for the given configuration and dataset.
func New(cfg *Config, provider dataset.Provider, opt ...Option) (*Evaluator, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if provider == nil {
		return nil, errors.New("dataset provider is nil")
	}
	opts := NewOptions(opt...)
	if opts.Registry == nil {
		return nil, errors.New("registry is nil")
	}
	if len(opts.Metrics) == 0 {
		return nil, errors.New("no metrics configured")
	}
	return &Evaluator{
		config:          cfg,
		provider:        provider,
		registry:        opts.Registry,
		metrics:         opts.Metrics,
		corpus:          opts.Corpus,
		resultManager:   opts.ResultManager,
		stageTimeout:    opts.StageTimeout,
		outcomeCallback: opts.OutcomeCallback,
	}, nil
}

// Close closes the evaluator and releases owned resources.
func (e *Evaluator) Close() error {
	var overallErr error
	if e.provider != nil {
		if err := e.provider.Close(); err != nil {
			overallErr = errors.Join(overallErr, fmt.Errorf("close dataset provider: %w", err))
		}
	}
	if e.resultManager != nil {
		if err := e.resultManager.Close(); err != nil {
			overallErr = errors.Join(overallErr, fmt.Errorf("close result manager: %w", err))
		}
	}
	return overallErr
}

// Run executes one pipeline configuration against every dataset example and
// returns the configuration's aggregated metric result. A failing example is
// logged and excluded from the metric means; it never aborts the
// configuration. Run returns an error only when the pipeline cannot be
// composed or the dataset cannot be read.
func (e *Evaluator) Run(ctx context.Context, cfg pipeline.Config) (*sweepresult.ConfigResult, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "evaluation.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("pipeline.chunker", cfg.Chunker),
		attribute.String("pipeline.embedder", cfg.Embedder),
		attribute.String("pipeline.vector_store", cfg.VectorStore),
		attribute.Int("pipeline.k", cfg.K),
		attribute.String("pipeline.reranker", cfg.Reranker),
	)
	pipe, err := e.registry.Build(ctx, cfg, e.corpus)
	if err != nil {
		return nil, fmt.Errorf("compose pipeline: %w", err)
	}
	defer pipe.Close()
	examples, err := e.provider.Examples(ctx)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	sums := make(map[string]float64, len(e.metrics))
	counts := make(map[string]int, len(e.metrics))
	failedExamples := 0
	for _, example := range examples {
		outcome, err := e.evaluateExample(ctx, pipe, example)
		if err != nil {
			failedExamples++
			log.Warnf("experiment %s: example %s failed: %v", e.config.ExperimentName, example.ID, err)
			continue
		}
		for name, score := range outcome.Scores {
			sums[name] += score
			counts[name]++
		}
		if e.outcomeCallback != nil {
			e.outcomeCallback(outcome)
		}
	}

	result := &sweepresult.ConfigResult{
		Config:         cfg,
		Metrics:        make(map[string]float64, len(e.metrics)),
		ExampleCount:   len(examples),
		FailedExamples: failedExamples,
	}
	for _, m := range e.metrics {
		name := m.Name()
		if counts[name] > 0 {
			result.Metrics[name] = sums[name] / float64(counts[name])
		} else {
			result.Metrics[name] = 0.0
		}
	}
	if len(examples) > 0 && failedExamples == len(examples) {
		result.Failed = true
		result.FailureReason = fmt.Sprintf("all %d examples failed", len(examples))
	}
	return result, nil
}

// evaluateExample runs the retrieval path for one example and scores every
// configured metric. The retrieval path is bounded by the stage timeout;
// expiry counts as the example's failure.
func (e *Evaluator) evaluateExample(ctx context.Context, pipe *pipeline.Pipeline, example *dataset.Example) (*RunOutcome, error) {
	ctx, span := telemetry.Tracer.Start(ctx, "evaluation.example")
	defer span.End()
	span.SetAttributes(attribute.String("example.id", example.ID))
	if e.stageTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.stageTimeout)
		defer cancel()
	}
	retrieved, err := pipe.Retrieve(ctx, example.Query)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	runOutputs := record.Sequence(retrieved...)
	scores := make(map[string]float64, len(e.metrics))
	for _, m := range e.metrics {
		scores[m.Name()] = m.Calculate(
			m.ExtractRetrieved(runOutputs),
			m.ExtractGroundTruth(example.Outputs),
		)
	}
	return &RunOutcome{
		ExampleID: example.ID,
		Query:     example.Query,
		Retrieved: retrieved,
		Scores:    scores,
	}, nil
}
