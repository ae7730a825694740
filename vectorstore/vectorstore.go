//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package vectorstore defines the vector storage contract for retrieval pipelines.
package vectorstore

import (
	"context"

	"trpc.group/trpc-go/trpc-rageval-go/embedder"
)

// VectorStore ingests documents and serves similarity search over them.
// A store instance is owned by a single pipeline run; ingested content is
// never shared across runs.
type VectorStore interface {
	// EmbedDocs embeds docs and adds them to the store.
	EmbedDocs(ctx context.Context, docs []string) error
	// Search returns up to k stored documents, best similarity first.
	// k <= 0 is an invalid argument.
	Search(ctx context.Context, query string, k int) ([]string, error)
	// Close releases resources owned by the store.
	Close() error
}

// Factory builds a fresh store around the given embedder. Pipeline runs call
// the factory once each so every run owns its own index.
type Factory func(embedder.Embedder) (VectorStore, error)
