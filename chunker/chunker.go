//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package chunker defines the chunking contract for retrieval pipelines.
package chunker

import "context"

// Chunk is a contiguous span of a source document. Offsets are byte indices
// into the source text and satisfy 0 <= StartIndex <= EndIndex <= len(source).
// A chunk is immutable once produced and owned by the run that produced it.
type Chunk struct {
	Text       string `json:"text"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// Chunker segments a source document into chunks.
type Chunker interface {
	// Chunk splits text into ordered chunks. Empty input yields an empty
	// slice, never an error.
	Chunk(ctx context.Context, text string) ([]Chunk, error)
}
