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
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rageval-go/chunker"
	"trpc.group/trpc-go/trpc-rageval-go/dataset"
	datasetinmemory "trpc.group/trpc-go/trpc-rageval-go/dataset/inmemory"
	"trpc.group/trpc-go/trpc-rageval-go/embedder"
	resultinmemory "trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult/inmemory"
	"trpc.group/trpc-go/trpc-rageval-go/metric/tokenrecall"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
	"trpc.group/trpc-go/trpc-rageval-go/record"
	"trpc.group/trpc-go/trpc-rageval-go/vectorstore"
)

// wholeDocChunker emits each document as a single chunk.
type wholeDocChunker struct{}

func (wholeDocChunker) Chunk(_ context.Context, text string) ([]chunker.Chunk, error) {
	if text == "" {
		return []chunker.Chunk{}, nil
	}
	return []chunker.Chunk{{Text: text, StartIndex: 0, EndIndex: len(text)}}, nil
}

// panickingChunker simulates a stage bug that escapes as a panic.
type panickingChunker struct{}

func (panickingChunker) Chunk(context.Context, string) ([]chunker.Chunk, error) {
	panic("chunker bug")
}

// unitEmbedder returns a constant vector per document.
type unitEmbedder struct{}

func (unitEmbedder) EmbedDocs(_ context.Context, docs []string) ([][]float64, error) {
	out := make([][]float64, len(docs))
	for i := range docs {
		out[i] = []float64{1}
	}
	return out, nil
}

// echoStore returns its indexed texts in insertion order, optionally failing
// for one query and optionally sleeping to shuffle completion order.
type echoStore struct {
	texts     []string
	failQuery string
	maxDelay  time.Duration
}

func (s *echoStore) EmbedDocs(_ context.Context, docs []string) error {
	s.texts = append(s.texts, docs...)
	return nil
}

func (s *echoStore) Search(ctx context.Context, query string, k int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.failQuery != "" && query == s.failQuery {
		return nil, errors.New("search failed")
	}
	if s.maxDelay > 0 {
		time.Sleep(time.Duration(rand.Int63n(int64(s.maxDelay))))
	}
	if k > len(s.texts) {
		k = len(s.texts)
	}
	return s.texts[:k], nil
}

func (s *echoStore) Close() error { return nil }

func newTestRegistry(t *testing.T, store func() *echoStore) *pipeline.Registry {
	t.Helper()
	r := pipeline.NewRegistry()
	require.NoError(t, r.RegisterChunker("whole", wholeDocChunker{}))
	require.NoError(t, r.RegisterEmbedder("unit", unitEmbedder{}))
	require.NoError(t, r.RegisterVectorStore("echo", func(embedder.Embedder) (vectorstore.VectorStore, error) {
		return store(), nil
	}))
	return r
}

func groundTruth(text string) record.Outputs {
	return record.Mapping(map[string][]string{record.FieldChunks: {text}})
}

func newTestProvider(t *testing.T, examples []*dataset.Example) dataset.Provider {
	t.Helper()
	provider, err := datasetinmemory.New(examples)
	require.NoError(t, err)
	return provider
}

func TestRunAggregatesMetricMeans(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	provider := newTestProvider(t, []*dataset.Example{
		{Query: "q1", Outputs: groundTruth("cat dog")},
		{Query: "q2", Outputs: groundTruth("cat bird")},
	})
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat dog"}),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	result, err := evaluator.Run(context.Background(), pipeline.Config{K: 3})
	require.NoError(t, err)
	require.False(t, result.Failed)
	require.Equal(t, 2, result.ExampleCount)
	require.Zero(t, result.FailedExamples)
	// q1 recalls both tokens, q2 recalls one of two: mean is 0.75.
	require.InDelta(t, 0.75, result.Metrics[tokenrecall.MetricName], 1e-9)
}

func TestRunPartialFailure(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{failQuery: "q2"} })
	provider := newTestProvider(t, []*dataset.Example{
		{Query: "q1", Outputs: groundTruth("cat dog")},
		{Query: "q2", Outputs: groundTruth("cat dog")},
	})
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat dog"}),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	result, err := evaluator.Run(context.Background(), pipeline.Config{K: 3})
	require.NoError(t, err)
	require.False(t, result.Failed)
	require.Equal(t, 1, result.FailedExamples)
	// The failed example is excluded from the mean, not counted as zero.
	require.InDelta(t, 1.0, result.Metrics[tokenrecall.MetricName], 1e-9)
}

func TestRunAllExamplesFailed(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{failQuery: "q1"} })
	provider := newTestProvider(t, []*dataset.Example{
		{Query: "q1", Outputs: groundTruth("cat")},
	})
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat"}),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	result, err := evaluator.Run(context.Background(), pipeline.Config{K: 3})
	require.NoError(t, err)
	require.True(t, result.Failed)
	require.Contains(t, result.FailureReason, "all 1 examples failed")
	require.Zero(t, result.Metrics[tokenrecall.MetricName])
}

func TestRunComposeFailureIsFatal(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	provider := newTestProvider(t, []*dataset.Example{{Query: "q1"}})
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	_, err = evaluator.Run(context.Background(), pipeline.Config{K: 3, Chunker: "missing"})
	require.Error(t, err)
}

func TestRunOutcomeCallback(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	provider := newTestProvider(t, []*dataset.Example{
		{ID: "e1", Query: "q1", Outputs: groundTruth("cat")},
	})
	var outcomes []*RunOutcome
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat"}),
		WithOutcomeCallback(func(o *RunOutcome) { outcomes = append(outcomes, o) }),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	_, err = evaluator.Run(context.Background(), pipeline.Config{K: 3})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	require.Equal(t, "e1", outcomes[0].ExampleID)
	require.Equal(t, "q1", outcomes[0].Query)
	require.Equal(t, []string{"cat"}, outcomes[0].Retrieved)
	require.InDelta(t, 1.0, outcomes[0].Scores[tokenrecall.MetricName], 1e-9)
}

func TestNewValidation(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	provider := newTestProvider(t, nil)

	_, err := New(nil, provider, WithRegistry(registry), WithMetrics(tokenrecall.New()))
	require.Error(t, err)

	_, err = New(&Config{ExperimentName: "exp"}, nil, WithRegistry(registry), WithMetrics(tokenrecall.New()))
	require.Error(t, err)

	_, err = New(&Config{ExperimentName: "exp"}, provider, WithMetrics(tokenrecall.New()))
	require.Error(t, err)

	_, err = New(&Config{ExperimentName: "exp"}, provider, WithRegistry(registry))
	require.Error(t, err)
}

func TestSweepPreservesGridOrder(t *testing.T) {
	// Randomized per-search delays shuffle completion order; results must
	// still come back in grid-enumeration order.
	registry := newTestRegistry(t, func() *echoStore {
		return &echoStore{maxDelay: 5 * time.Millisecond}
	})
	provider := newTestProvider(t, []*dataset.Example{
		{Query: "q1", Outputs: groundTruth("cat dog")},
	})
	evaluator, err := New(&Config{ExperimentName: "exp", MaxConcurrency: 3}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat dog"}),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	grid := NewGrid().
		Add(DimensionChunker, "whole").
		Add(DimensionK, 1, 2, 3, 4, 5, 6)
	results, err := evaluator.Sweep(context.Background(), grid)
	require.NoError(t, err)
	require.Len(t, results, 6)
	for i, result := range results {
		require.Equal(t, i+1, result.Config.K)
		require.False(t, result.Failed)
	}
}

func TestSweepIsolatesFailedConfigurations(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	provider := newTestProvider(t, []*dataset.Example{
		{Query: "q1", Outputs: groundTruth("cat")},
	})
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat"}),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	grid := NewGrid().Add(DimensionChunker, "whole", "missing")
	results, err := evaluator.Sweep(context.Background(), grid)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.False(t, results[0].Failed)
	require.InDelta(t, 1.0, results[0].Metrics[tokenrecall.MetricName], 1e-9)

	require.True(t, results[1].Failed)
	require.NotEmpty(t, results[1].FailureReason)
	// Failed cells still report every configured metric, zeroed.
	require.Contains(t, results[1].Metrics, tokenrecall.MetricName)
	require.Zero(t, results[1].Metrics[tokenrecall.MetricName])
}

func TestSweepRecoversPanickingCell(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	require.NoError(t, registry.RegisterChunker("broken", panickingChunker{}))
	provider := newTestProvider(t, []*dataset.Example{
		{Query: "q1", Outputs: groundTruth("cat")},
	})
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat"}),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	grid := NewGrid().Add(DimensionChunker, "whole", "broken", "whole")
	results, err := evaluator.Sweep(context.Background(), grid)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// Every cell has a result; the panicking one is failure-marked, never nil.
	require.NotNil(t, results[1])
	require.True(t, results[1].Failed)
	require.Contains(t, results[1].FailureReason, "panic")
	require.Zero(t, results[1].Metrics[tokenrecall.MetricName])

	require.False(t, results[0].Failed)
	require.False(t, results[2].Failed)
}

func TestSweepInvalidGridIsFatal(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	provider := newTestProvider(t, nil)
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	_, err = evaluator.Sweep(context.Background(), NewGrid())
	require.Error(t, err)
}

func TestSweepCancelledContext(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	provider := newTestProvider(t, []*dataset.Example{
		{Query: "q1", Outputs: groundTruth("cat")},
	})
	evaluator, err := New(&Config{ExperimentName: "exp"}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat"}),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := evaluator.Sweep(ctx, NewGrid().Add(DimensionK, 1, 2, 3))
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, result := range results {
		require.True(t, result.Failed)
	}
}

func TestSweepSavesResults(t *testing.T) {
	registry := newTestRegistry(t, func() *echoStore { return &echoStore{} })
	provider := newTestProvider(t, []*dataset.Example{
		{Query: "q1", Outputs: groundTruth("cat")},
	})
	manager := resultinmemory.NewManager()
	evaluator, err := New(&Config{ExperimentName: "exp", SaveResults: true}, provider,
		WithRegistry(registry),
		WithMetrics(tokenrecall.New()),
		WithCorpus([]string{"cat"}),
		WithResultManager(manager),
	)
	require.NoError(t, err)
	defer evaluator.Close()

	results, err := evaluator.Sweep(context.Background(), NewGrid().Add(DimensionK, 1, 2))
	require.NoError(t, err)
	require.Len(t, results, 2)

	ids, err := manager.List(context.Background(), "exp")
	require.NoError(t, err)
	require.Len(t, ids, 1)

	saved, err := manager.Get(context.Background(), "exp", ids[0])
	require.NoError(t, err)
	require.Len(t, saved, 2)
}
