//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package chunkrecall provides the chunk-level recall metric.
package chunkrecall

import (
	"trpc.group/trpc-go/trpc-rageval-go/metric"
	"trpc.group/trpc-go/trpc-rageval-go/record"
)

// Verify that Metric implements the metric.Metric interface.
var _ metric.Metric = (*Metric)(nil)

// MetricName is the base name of the chunk-level recall metric.
const MetricName = "chunk_level_recall"

// Metric computes chunk-level recall: the fraction of ground-truth chunks
// present in the retrieved set. Duplicates collapse and order is irrelevant.
type Metric struct {
	name string
}

// Option represents a functional option for configuring Metric.
type Option func(*Metric)

// WithName overrides the reported metric name, e.g. "chunk_level_recall@5".
func WithName(name string) Option {
	return func(m *Metric) {
		if name != "" {
			m.name = name
		}
	}
}

// New creates a new chunk-level recall metric with options.
func New(opts ...Option) *Metric {
	m := &Metric{name: MetricName}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Name implements the metric.Metric interface.
func (m *Metric) Name() string {
	return m.name
}

// Granularity implements the metric.Metric interface.
func (m *Metric) Granularity() metric.Granularity {
	return metric.GranularityID
}

// Calculate implements the metric.Metric interface. An empty retrieved or
// ground-truth set scores 0.0: empty ground truth means nothing to find,
// empty retrieval means nothing found.
func (m *Metric) Calculate(retrieved, groundTruth []string) float64 {
	retrievedSet := toSet(retrieved)
	groundTruthSet := toSet(groundTruth)
	if len(groundTruthSet) == 0 || len(retrievedSet) == 0 {
		return 0.0
	}
	matched := 0
	for id := range groundTruthSet {
		if _, ok := retrievedSet[id]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(groundTruthSet))
}

// ExtractGroundTruth implements the metric.Metric interface. Mapping records
// are read from the chunk_ids field; sequence records are used directly.
func (m *Metric) ExtractGroundTruth(outputs record.Outputs) []string {
	return outputs.Extract(record.FieldChunkIDs)
}

// ExtractRetrieved implements the metric.Metric interface.
func (m *Metric) ExtractRetrieved(outputs record.Outputs) []string {
	return outputs.Extract(record.FieldChunks, record.FieldRetrievedChunks, record.FieldChunkIDs)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
