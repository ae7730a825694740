//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package tokenrecall provides the token-level recall metric.
package tokenrecall

import (
	"strings"

	"trpc.group/trpc-go/trpc-rageval-go/metric"
	"trpc.group/trpc-go/trpc-rageval-go/record"
)

// Verify that Metric implements the metric.Metric interface.
var _ metric.Metric = (*Metric)(nil)

// MetricName is the base name of the token-level recall metric.
const MetricName = "token_level_recall"

// Metric computes token-level recall: the fraction of ground-truth tokens
// that appear anywhere in the retrieved text. It measures how much of the
// relevant content was retrieved regardless of chunk boundaries.
//
// Tokenization is deliberately simple: whitespace split, trim, drop empties,
// case-folded unless case sensitivity is requested. It is a configurable
// seam, not a linguistic tokenizer.
type Metric struct {
	name          string
	caseSensitive bool
}

// Option represents a functional option for configuring Metric.
type Option func(*Metric)

// WithName overrides the reported metric name, e.g. "token_level_recall@5".
func WithName(name string) Option {
	return func(m *Metric) {
		if name != "" {
			m.name = name
		}
	}
}

// WithCaseSensitive makes token comparison case-sensitive.
// Default is case-insensitive.
func WithCaseSensitive(caseSensitive bool) Option {
	return func(m *Metric) {
		m.caseSensitive = caseSensitive
	}
}

// New creates a new token-level recall metric with options.
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

// Granularity implements the metric.Metric interface. Token-level recall
// needs chunk text, so the extraction layer must resolve identifiers to
// content before this metric runs.
func (m *Metric) Granularity() metric.Granularity {
	return metric.GranularityText
}

// Calculate implements the metric.Metric interface. Empty retrieved or
// ground-truth input scores 0.0.
func (m *Metric) Calculate(retrieved, groundTruth []string) float64 {
	if len(groundTruth) == 0 || len(retrieved) == 0 {
		return 0.0
	}
	groundTruthTokens := m.tokenize(strings.Join(groundTruth, " "))
	if len(groundTruthTokens) == 0 {
		return 0.0
	}
	retrievedTokens := m.tokenize(strings.Join(retrieved, " "))
	matched := 0
	for token := range groundTruthTokens {
		if _, ok := retrievedTokens[token]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(groundTruthTokens))
}

// ExtractGroundTruth implements the metric.Metric interface. Text fields are
// preferred over identifier fields: chunks, then chunk_text, then chunk_ids.
func (m *Metric) ExtractGroundTruth(outputs record.Outputs) []string {
	return outputs.Extract(record.FieldChunks, record.FieldChunkText, record.FieldChunkIDs)
}

// ExtractRetrieved implements the metric.Metric interface.
func (m *Metric) ExtractRetrieved(outputs record.Outputs) []string {
	return outputs.Extract(record.FieldChunks, record.FieldRetrievedChunks, record.FieldChunkIDs)
}

// tokenize splits text on whitespace into a token set.
func (m *Metric) tokenize(text string) map[string]struct{} {
	if !m.caseSensitive {
		text = strings.ToLower(text)
	}
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		tokens[token] = struct{}{}
	}
	return tokens
}
