//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

package markdown

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkEmptyInput(t *testing.T) {
	c := New()
	chunks, err := c.Chunk(context.Background(), "")
	require.NoError(t, err)
	require.Empty(t, chunks)
}

func TestChunkSplitsAtHeadings(t *testing.T) {
	text := "# First\n\nBody of the first section.\n\n# Second\n\nBody of the second section.\n"
	c := New()
	chunks, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.True(t, strings.HasPrefix(chunks[0].Text, "# First"))
	require.Contains(t, chunks[0].Text, "Body of the first section.")
	require.True(t, strings.HasPrefix(chunks[1].Text, "# Second"))
	require.Contains(t, chunks[1].Text, "Body of the second section.")
}

func TestChunkInlineMarkup(t *testing.T) {
	text := "# Title\n\nA paragraph with *emphasis*, `code`, and a [link](https://example.com).\n\n" +
		"Another paragraph with **bold** text.\n"
	c := New()
	chunks, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	require.Contains(t, chunks[0].Text, "*emphasis*")
	for _, chunk := range chunks {
		require.Equal(t, text[chunk.StartIndex:chunk.EndIndex], chunk.Text)
	}
}

func TestChunkOffsetsMatchSource(t *testing.T) {
	text := "# Title\n\nSome paragraph here.\n\n## Sub\n\n- item one\n- item two\n"
	c := New()
	chunks, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	for _, chunk := range chunks {
		require.GreaterOrEqual(t, chunk.StartIndex, 0)
		require.LessOrEqual(t, chunk.EndIndex, len(text))
		require.Equal(t, text[chunk.StartIndex:chunk.EndIndex], chunk.Text)
	}
}

func TestChunkSplitsOversizedSections(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("# Only heading\n\n")
	for i := 0; i < 20; i++ {
		sb.WriteString(strings.Repeat("word ", 20))
		sb.WriteString("\n\n")
	}
	c := New(WithChunkSize(200))
	chunks, err := c.Chunk(context.Background(), sb.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
}

func TestChunkPlainTextFallsBack(t *testing.T) {
	text := "just a single paragraph with no markdown structure"
	c := New()
	chunks, err := c.Chunk(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	require.Equal(t, text, chunks[0].Text)
}

func TestChunkCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New()
	_, err := c.Chunk(ctx, "# Heading\n\nBody.\n")
	require.ErrorIs(t, err, context.Canceled)
}
