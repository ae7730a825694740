//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package metric defines the retrieval-quality metric contract.
package metric

import "trpc.group/trpc-go/trpc-rageval-go/record"

// Granularity declares the payload a metric needs to score: chunk
// identifiers or chunk text. The extraction layer resolves example and run
// records at the declared granularity before the metric is invoked, so the
// coupling between metric choice and payload shape is explicit.
type Granularity int

const (
	// GranularityID scores over chunk identifiers.
	GranularityID Granularity = iota
	// GranularityText scores over chunk text content.
	GranularityText
)

// String implements fmt.Stringer.
func (g Granularity) String() string {
	switch g {
	case GranularityID:
		return "id"
	case GranularityText:
		return "text"
	default:
		return "unknown"
	}
}

// Metric scores one retrieval outcome against ground truth. Metric values
// are read-only and safely shared across concurrent workers.
type Metric interface {
	// Name returns the metric name used in result records. Names may carry
	// an "@<k>" suffix, e.g. "chunk_recall@5".
	Name() string
	// Granularity returns the payload granularity the metric requires.
	Granularity() Granularity
	// Calculate scores retrieved against groundTruth and returns a value in
	// [0, 1]. An empty retrieved or ground-truth input scores 0.0 by
	// definition, never an error.
	Calculate(retrieved, groundTruth []string) float64
	// ExtractGroundTruth pulls the ground-truth payload the metric needs
	// out of a dataset example's outputs.
	ExtractGroundTruth(outputs record.Outputs) []string
	// ExtractRetrieved pulls the retrieved payload the metric needs out of
	// a run's outputs.
	ExtractRetrieved(outputs record.Outputs) []string
}
