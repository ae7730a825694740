//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package embedder defines the document embedding contract.
package embedder

import "context"

// Embedder turns documents into embedding vectors.
//
// Implementations must return exactly one vector per input document, in input
// order. Silently dropping documents is not allowed; a document that cannot
// be embedded fails the whole call.
type Embedder interface {
	// EmbedDocs embeds docs and returns one vector per document.
	EmbedDocs(ctx context.Context, docs []string) ([][]float64, error)
}
