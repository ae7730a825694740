//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package errs defines the error taxonomy shared across the evaluation engine.
package errs

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument reports a malformed argument such as a non-positive k,
// an unknown grid dimension, or empty aggregator input. It is fatal to the
// call that raised it and is never coerced into a degraded result.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrEmptySweepResults reports that the comparison aggregator received no
// results to aggregate.
var ErrEmptySweepResults = fmt.Errorf("%w: empty sweep results", ErrInvalidArgument)

// Stage identifies the retrieval pipeline stage that produced an error.
type Stage string

// Pipeline stage identifiers.
const (
	StageChunk  Stage = "chunk"
	StageEmbed  Stage = "embed"
	StageSearch Stage = "search"
	StageRerank Stage = "rerank"
)

// StageError wraps a failure from a single pipeline stage. Stage errors are
// recovered at example granularity: the example is excluded from the metric
// mean and the failure is recorded, but the configuration keeps running.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage: %v", e.Stage, e.Err)
}

// Unwrap returns the wrapped error.
func (e *StageError) Unwrap() error {
	return e.Err
}

// Chunking wraps err as a chunking stage failure.
func Chunking(err error) error {
	return &StageError{Stage: StageChunk, Err: err}
}

// Embedding wraps err as an embedding stage failure.
func Embedding(err error) error {
	return &StageError{Stage: StageEmbed, Err: err}
}

// Retrieval wraps err as a search stage failure.
func Retrieval(err error) error {
	return &StageError{Stage: StageSearch, Err: err}
}

// Reranking wraps err as a rerank stage failure.
func Reranking(err error) error {
	return &StageError{Stage: StageRerank, Err: err}
}

// AsStageError reports whether err is (or wraps) a StageError.
func AsStageError(err error) (*StageError, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr, true
	}
	return nil, false
}
