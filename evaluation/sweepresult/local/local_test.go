//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
)

func sampleResults() sweepresult.SweepResults {
	return sweepresult.SweepResults{
		{
			Config:  pipeline.Config{Chunker: "fixed", Embedder: "openai", K: 5},
			Metrics: map[string]float64{"chunk_level_recall": 0.5, "token_level_recall": 0.75},
		},
		{
			Config:        pipeline.Config{Chunker: "markdown", K: 5},
			Metrics:       map[string]float64{"chunk_level_recall": 0.0, "token_level_recall": 0.0},
			Failed:        true,
			FailureReason: "compose pipeline: unknown chunker",
		},
	}
}

func TestSaveGetRoundTrip(t *testing.T) {
	m := NewManager(WithBaseDir(t.TempDir()))
	ctx := context.Background()

	id, err := m.Save(ctx, "exp", sampleResults())
	require.NoError(t, err)

	got, err := m.Get(ctx, "exp", id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "fixed", got[0].Config.Chunker)
	require.InDelta(t, 0.75, got[0].Metrics["token_level_recall"], 1e-9)
	require.True(t, got[1].Failed)
	require.Equal(t, "compose pipeline: unknown chunker", got[1].FailureReason)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(WithBaseDir(dir))
	_, err := m.Save(context.Background(), "exp", sampleResults())
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, "exp"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotContains(t, entries[0].Name(), ".tmp")
}

func TestList(t *testing.T) {
	m := NewManager(WithBaseDir(t.TempDir()))
	ctx := context.Background()

	ids, err := m.List(ctx, "exp")
	require.NoError(t, err)
	require.Empty(t, ids)

	id1, err := m.Save(ctx, "exp", sampleResults())
	require.NoError(t, err)
	id2, err := m.Save(ctx, "exp", sampleResults())
	require.NoError(t, err)

	ids, err = m.List(ctx, "exp")
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Contains(t, ids, id1)
	require.Contains(t, ids, id2)
}

func TestSaveValidation(t *testing.T) {
	m := NewManager(WithBaseDir(t.TempDir()))
	ctx := context.Background()

	_, err := m.Save(ctx, "", sampleResults())
	require.Error(t, err)

	_, err = m.Save(ctx, "exp", nil)
	require.Error(t, err)
}

func TestGetUnknown(t *testing.T) {
	m := NewManager(WithBaseDir(t.TempDir()))
	_, err := m.Get(context.Background(), "exp", "missing")
	require.Error(t, err)
}
