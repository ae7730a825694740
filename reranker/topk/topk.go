//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package topk provides a simple top-K reranker that returns the leading
// results unchanged.
package topk

import (
	"context"

	"trpc.group/trpc-go/trpc-rageval-go/reranker"
)

// Verify that Reranker implements the reranker.Reranker interface.
var _ reranker.Reranker = (*Reranker)(nil)

// Reranker is a pass-through reranker that keeps the original order and
// truncates the candidate set to k.
type Reranker struct{}

// New creates a new top-K reranker.
func New() *Reranker {
	return &Reranker{}
}

// Rerank implements the reranker.Reranker interface by returning the first
// k results in original order.
func (r *Reranker) Rerank(ctx context.Context, docs []string, query string, k int) ([]string, error) {
	if k <= 0 || len(docs) <= k {
		return docs, nil
	}
	return docs[:k], nil
}
