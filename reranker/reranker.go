//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package reranker provides result re-ranking for retrieval pipelines.
package reranker

import "context"

// Reranker re-orders (and possibly truncates) an already-retrieved candidate
// set. Implementations must never introduce documents that were not present
// in the input.
type Reranker interface {
	// Rerank returns up to k docs from the candidate set, best first.
	Rerank(ctx context.Context, docs []string, query string, k int) ([]string, error)
}
