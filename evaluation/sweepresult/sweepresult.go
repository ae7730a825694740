//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package sweepresult defines sweep result records and their persistence contract.
package sweepresult

import (
	"context"

	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
)

// ConfigResult is the outcome of running one pipeline configuration over the
// full dataset: one metric value per configured metric, each the mean of the
// per-example scores. A failed configuration carries zeroed metrics plus a
// failure reason instead of aborting the sweep.
type ConfigResult struct {
	// Config is the pipeline configuration this result belongs to.
	Config pipeline.Config `json:"config"`
	// Metrics maps metric name to the reduced per-example score.
	Metrics map[string]float64 `json:"metrics"`
	// Failed marks a configuration whose pipeline could not be composed or
	// whose examples all failed.
	Failed bool `json:"failed,omitempty"`
	// FailureReason records why the configuration failed.
	FailureReason string `json:"failureReason,omitempty"`
	// ExampleCount is the number of dataset examples processed.
	ExampleCount int `json:"exampleCount,omitempty"`
	// FailedExamples is the number of examples excluded from the means.
	FailedExamples int `json:"failedExamples,omitempty"`
}

// SweepResults is the ordered outcome of a configuration sweep, one entry
// per grid cell in grid-enumeration order.
type SweepResults []*ConfigResult

// Manager persists sweep results per experiment.
type Manager interface {
	// Save stores results under the experiment and returns the result ID.
	Save(ctx context.Context, experiment string, results SweepResults) (string, error)
	// Get retrieves previously saved results by ID.
	Get(ctx context.Context, experiment, resultID string) (SweepResults, error)
	// List returns the IDs of all results saved under the experiment.
	List(ctx context.Context, experiment string) ([]string, error)
	// Close closes the manager and releases owned resources.
	Close() error
}
