//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStageErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := Retrieval(cause)

	stageErr, ok := AsStageError(err)
	require.True(t, ok)
	require.Equal(t, StageSearch, stageErr.Stage)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "search stage: connection refused", err.Error())
}

func TestStageErrorThroughWrapChain(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("evaluate example: %w", Chunking(cause))

	stageErr, ok := AsStageError(err)
	require.True(t, ok)
	require.Equal(t, StageChunk, stageErr.Stage)
	require.ErrorIs(t, err, cause)
}

func TestStageConstructors(t *testing.T) {
	tests := []struct {
		wrap func(error) error
		want Stage
	}{
		{Chunking, StageChunk},
		{Embedding, StageEmbed},
		{Retrieval, StageSearch},
		{Reranking, StageRerank},
	}
	for _, tt := range tests {
		stageErr, ok := AsStageError(tt.wrap(errors.New("x")))
		require.True(t, ok)
		require.Equal(t, tt.want, stageErr.Stage)
	}
}

func TestAsStageErrorNonStage(t *testing.T) {
	_, ok := AsStageError(errors.New("plain"))
	require.False(t, ok)
}

func TestEmptySweepResultsIsInvalidArgument(t *testing.T) {
	require.ErrorIs(t, ErrEmptySweepResults, ErrInvalidArgument)
}
