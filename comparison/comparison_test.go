//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

package comparison

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rageval-go/errs"
	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
)

func sweepOverK() sweepresult.SweepResults {
	return sweepresult.SweepResults{
		{
			Config:  pipeline.Config{Chunker: "fixed", Embedder: "openai", K: 3},
			Metrics: map[string]float64{"token_level_recall": 0.6, "chunk_level_recall": 0.4},
		},
		{
			Config:  pipeline.Config{Chunker: "fixed", Embedder: "openai", K: 5},
			Metrics: map[string]float64{"token_level_recall": 0.8, "chunk_level_recall": 0.5},
		},
		{
			Config:  pipeline.Config{Chunker: "markdown", Embedder: "openai", K: 3},
			Metrics: map[string]float64{"token_level_recall": 0.7, "chunk_level_recall": 0.6},
		},
		{
			Config:  pipeline.Config{Chunker: "markdown", Embedder: "openai", K: 5},
			Metrics: map[string]float64{"token_level_recall": 0.9, "chunk_level_recall": 0.7},
		},
	}
}

func TestNormalizeMetricName(t *testing.T) {
	require.Equal(t, "recall", NormalizeMetricName("recall@5"))
	require.Equal(t, "recall", NormalizeMetricName("recall"))
	// Idempotent.
	require.Equal(t, "recall", NormalizeMetricName(NormalizeMetricName("recall@10")))
	// Only a trailing @N is stripped.
	require.Equal(t, "recall@5x", NormalizeMetricName("recall@5x"))
	require.Equal(t, "ndcg@k", NormalizeMetricName("ndcg@k"))
}

func TestConfigLabel(t *testing.T) {
	label := ConfigLabel(pipeline.Config{Chunker: "fixed", Embedder: "openai", K: 5, Reranker: "top_k"})
	require.Equal(t, "fixed | openai | k=5 | top_k", label)

	// Empty stage names are omitted.
	require.Equal(t, "fixed | k=3", ConfigLabel(pipeline.Config{Chunker: "fixed", K: 3}))
	require.Equal(t, "k=3", ConfigLabel(pipeline.Config{K: 3}))

	// Equal configs always label identically.
	cfg := pipeline.Config{Chunker: "fixed", K: 5}
	require.Equal(t, ConfigLabel(cfg), ConfigLabel(cfg))
}

func TestNewEmptyResults(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, errs.ErrEmptySweepResults)
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestNewNilResult(t *testing.T) {
	_, err := New(sweepresult.SweepResults{nil})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestBar(t *testing.T) {
	cmp, err := New(sweepOverK())
	require.NoError(t, err)

	points := cmp.Bar("token_level_recall")
	require.Len(t, points, 4)
	// Sweep order within the metric.
	require.Equal(t, "fixed | openai | k=3", points[0].ConfigLabel)
	require.InDelta(t, 0.6, points[0].Value, 1e-9)
	require.Equal(t, "markdown | openai | k=5", points[3].ConfigLabel)
	require.InDelta(t, 0.9, points[3].Value, 1e-9)
	for _, p := range points {
		require.Equal(t, "token_level_recall", p.Metric)
	}
}

func TestBarAllMetrics(t *testing.T) {
	cmp, err := New(sweepOverK())
	require.NoError(t, err)
	points := cmp.Bar()
	require.Len(t, points, 8)
}

func TestBarNormalizesRequestedNames(t *testing.T) {
	results := sweepresult.SweepResults{
		{
			Config:  pipeline.Config{Chunker: "fixed", K: 5},
			Metrics: map[string]float64{"recall@5": 0.8},
		},
	}
	cmp, err := New(results)
	require.NoError(t, err)

	points := cmp.Bar("recall@5")
	require.Len(t, points, 1)
	require.Equal(t, "recall", points[0].Metric)
	require.InDelta(t, 0.8, points[0].Value, 1e-9)
}

func TestBarCollapsedCutoffsDeterministic(t *testing.T) {
	// Two cutoffs of the same metric in one result collapse to one
	// normalized name; the lexically smallest original key wins every time.
	results := sweepresult.SweepResults{
		{
			Config:  pipeline.Config{Chunker: "fixed", K: 5},
			Metrics: map[string]float64{"recall@5": 0.8, "recall@3": 0.6},
		},
	}
	cmp, err := New(results)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		points := cmp.Bar("recall")
		require.Len(t, points, 1)
		require.InDelta(t, 0.6, points[0].Value, 1e-9)
	}
}

func TestLineGroupsByRemainingDimensions(t *testing.T) {
	cmp, err := New(sweepOverK())
	require.NoError(t, err)

	series, err := cmp.Line("k", "token_level_recall")
	require.NoError(t, err)
	require.Len(t, series, 2)

	byLabel := make(map[string]LineSeries, len(series))
	for _, s := range series {
		byLabel[s.Label] = s
	}
	fixed, ok := byLabel["fixed | openai"]
	require.True(t, ok)
	require.Equal(t, []LinePoint{{X: 3, Y: 0.6}, {X: 5, Y: 0.8}}, fixed.Points)

	markdown, ok := byLabel["markdown | openai"]
	require.True(t, ok)
	require.Equal(t, []LinePoint{{X: 3, Y: 0.7}, {X: 5, Y: 0.9}}, markdown.Points)
}

func TestLineSortsPointsByX(t *testing.T) {
	results := sweepresult.SweepResults{
		{Config: pipeline.Config{Chunker: "fixed", K: 10}, Metrics: map[string]float64{"m": 0.3}},
		{Config: pipeline.Config{Chunker: "fixed", K: 2}, Metrics: map[string]float64{"m": 0.1}},
		{Config: pipeline.Config{Chunker: "fixed", K: 5}, Metrics: map[string]float64{"m": 0.2}},
	}
	cmp, err := New(results)
	require.NoError(t, err)

	series, err := cmp.Line("k", "m")
	require.NoError(t, err)
	require.Len(t, series, 1)
	require.Equal(t, []LinePoint{{X: 2, Y: 0.1}, {X: 5, Y: 0.2}, {X: 10, Y: 0.3}}, series[0].Points)
}

func TestLineOverStringDimension(t *testing.T) {
	cmp, err := New(sweepOverK())
	require.NoError(t, err)

	series, err := cmp.Line("chunker", "token_level_recall")
	require.NoError(t, err)
	// One series per k value.
	require.Len(t, series, 2)
	for _, s := range series {
		require.Len(t, s.Points, 2)
		require.Equal(t, "fixed", s.Points[0].X)
		require.Equal(t, "markdown", s.Points[1].X)
	}
}

func TestLineUnknownDimension(t *testing.T) {
	cmp, err := New(sweepOverK())
	require.NoError(t, err)
	_, err = cmp.Line("retriever", "token_level_recall")
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestHeatmap(t *testing.T) {
	cmp, err := New(sweepOverK())
	require.NoError(t, err)

	hm := cmp.Heatmap()
	require.Equal(t, []string{"chunk_level_recall", "token_level_recall"}, hm.Metrics)
	require.Len(t, hm.ConfigLabels, 4)
	require.Equal(t, "fixed | openai | k=3", hm.ConfigLabels[0])
	require.Len(t, hm.Values, 4)
	require.InDelta(t, 0.4, hm.Values[0][0], 1e-9)
	require.InDelta(t, 0.6, hm.Values[0][1], 1e-9)
	require.InDelta(t, 0.7, hm.Values[3][0], 1e-9)
	require.InDelta(t, 0.9, hm.Values[3][1], 1e-9)
}

func TestHeatmapMissingMetricIsZero(t *testing.T) {
	results := sweepresult.SweepResults{
		{Config: pipeline.Config{K: 3}, Metrics: map[string]float64{"a": 0.5}},
		{Config: pipeline.Config{K: 5}, Metrics: map[string]float64{"b": 0.9}},
	}
	cmp, err := New(results)
	require.NoError(t, err)

	hm := cmp.Heatmap()
	require.Equal(t, []string{"a", "b"}, hm.Metrics)
	require.InDelta(t, 0.5, hm.Values[0][0], 1e-9)
	require.Zero(t, hm.Values[0][1])
	require.Zero(t, hm.Values[1][0])
	require.InDelta(t, 0.9, hm.Values[1][1], 1e-9)
}
