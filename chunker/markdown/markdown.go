//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package markdown provides a chunker that splits markdown documents along
// structural boundaries.
package markdown

import (
	"context"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"

	"trpc.group/trpc-go/trpc-rageval-go/chunker"
)

// Verify that Chunker implements the chunker.Chunker interface.
var _ chunker.Chunker = (*Chunker)(nil)

// DefaultChunkSize is the default maximum chunk size in bytes.
const DefaultChunkSize = 1000

// Chunker splits markdown text into chunks. A new chunk starts at every
// heading and whenever adding the next block would exceed the chunk size.
// Each chunk is a contiguous span of the source, so offsets stay exact.
type Chunker struct {
	chunkSize int
	md        goldmark.Markdown
}

// Option represents a functional option for configuring Chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum size of each chunk in bytes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// New creates a new markdown chunker with options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		md:        goldmark.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// blockSpan is the source byte range covered by one top-level block.
type blockSpan struct {
	start     int
	stop      int
	isHeading bool
}

// Chunk implements the chunker.Chunker interface.
func (c *Chunker) Chunk(ctx context.Context, text string) ([]chunker.Chunk, error) {
	if text == "" {
		return []chunker.Chunk{}, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source := []byte(text)
	doc := c.md.Parser().Parse(gtext.NewReader(source))
	spans := collectSpans(doc, source)
	if len(spans) == 0 {
		// Nothing the parser recognized as a block; fall back to one chunk.
		return []chunker.Chunk{{Text: text, StartIndex: 0, EndIndex: len(text)}}, nil
	}
	var chunks []chunker.Chunk
	cur := spans[0]
	for _, span := range spans[1:] {
		splitHere := span.isHeading || span.stop-cur.start > c.chunkSize
		if splitHere {
			chunks = append(chunks, makeChunk(text, cur.start, cur.stop))
			cur = span
			continue
		}
		cur.stop = span.stop
	}
	chunks = append(chunks, makeChunk(text, cur.start, cur.stop))
	return chunks, nil
}

func makeChunk(text string, start, stop int) chunker.Chunk {
	return chunker.Chunk{Text: text[start:stop], StartIndex: start, EndIndex: stop}
}

// collectSpans walks the top-level blocks of the document and resolves each
// to a byte range of the source. Blocks the parser gives no lines for (for
// example thematic breaks) extend the preceding block instead.
func collectSpans(doc ast.Node, source []byte) []blockSpan {
	var spans []blockSpan
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		start, stop, ok := nodeSpan(node)
		if !ok {
			continue
		}
		// Headings include their marker; walk back to the line start so the
		// "#" prefix is kept in the chunk text.
		if node.Kind() == ast.KindHeading {
			for start > 0 && source[start-1] != '\n' {
				start--
			}
		}
		spans = append(spans, blockSpan{
			start:     start,
			stop:      stop,
			isHeading: node.Kind() == ast.KindHeading,
		})
	}
	return spans
}

// nodeSpan returns the byte range covered by node and all its block
// descendants. Only block nodes carry line segments; inline nodes panic on
// Lines() and are skipped.
func nodeSpan(node ast.Node) (int, int, bool) {
	start, stop := -1, -1
	collect := func(n ast.Node) {
		if n.Type() != ast.TypeBlock {
			return
		}
		lines := n.Lines()
		if lines == nil {
			return
		}
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			if start < 0 || segment.Start < start {
				start = segment.Start
			}
			if segment.Stop > stop {
				stop = segment.Stop
			}
		}
	}
	collect(node)
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			collect(n)
		}
		return ast.WalkContinue, nil
	})
	if start < 0 || stop <= start {
		return 0, 0, false
	}
	return start, stop, true
}
