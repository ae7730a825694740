//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package fixed provides a fixed-size chunker with configurable overlap.
package fixed

import (
	"context"

	"trpc.group/trpc-go/trpc-rageval-go/chunker"
)

// Verify that Chunker implements the chunker.Chunker interface.
var _ chunker.Chunker = (*Chunker)(nil)

const (
	// DefaultChunkSize is the default maximum chunk size in characters.
	DefaultChunkSize = 1000
	// DefaultOverlap is the default number of characters shared between
	// adjacent chunks.
	DefaultOverlap = 200
)

// Chunker splits text into fixed-size windows with overlap. Window sizes
// are measured in runes so multi-byte text chunks cleanly; reported offsets
// are byte indices into the source.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option represents a functional option for configuring Chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum size of each chunk in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the number of characters to overlap between chunks.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new fixed-size chunker with options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	// Overlap must leave forward progress between windows.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 2
	}
	return c
}

// Chunk implements the chunker.Chunker interface.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]chunker.Chunk, error) {
	if text == "" {
		return []chunker.Chunk{}, nil
	}
	// byteOffsets[i] is the byte index of the i-th rune; the final entry is
	// len(text) so rune windows map back to source byte spans.
	byteOffsets := make([]int, 0, len(text)+1)
	for i := range text {
		byteOffsets = append(byteOffsets, i)
	}
	byteOffsets = append(byteOffsets, len(text))
	runeCount := len(byteOffsets) - 1
	step := c.chunkSize - c.overlap
	chunks := make([]chunker.Chunk, 0, runeCount/step+1)
	for start := 0; start < runeCount; start += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		end := start + c.chunkSize
		if end > runeCount {
			end = runeCount
		}
		startByte, endByte := byteOffsets[start], byteOffsets[end]
		chunks = append(chunks, chunker.Chunk{
			Text:       text[startByte:endByte],
			StartIndex: startByte,
			EndIndex:   endByte,
		})
		if end == runeCount {
			break
		}
	}
	return chunks, nil
}
