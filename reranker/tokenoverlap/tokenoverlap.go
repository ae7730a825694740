//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package tokenoverlap provides a lexical reranker that scores candidates by
// token overlap with the query.
package tokenoverlap

import (
	"context"
	"sort"
	"strings"

	"trpc.group/trpc-go/trpc-rageval-go/reranker"
)

// Verify that Reranker implements the reranker.Reranker interface.
var _ reranker.Reranker = (*Reranker)(nil)

// Reranker orders candidates by the fraction of query tokens they contain.
// Ties keep the retrieval order, so it only ever refines the incoming
// ranking.
type Reranker struct {
	caseSensitive bool
}

// Option represents a functional option for configuring Reranker.
type Option func(*Reranker)

// WithCaseSensitive makes token comparison case-sensitive.
func WithCaseSensitive(caseSensitive bool) Option {
	return func(r *Reranker) {
		r.caseSensitive = caseSensitive
	}
}

// New creates a new token-overlap reranker with options.
func New(opts ...Option) *Reranker {
	r := &Reranker{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rerank implements the reranker.Reranker interface.
func (r *Reranker) Rerank(ctx context.Context, docs []string, query string, k int) ([]string, error) {
	if len(docs) == 0 {
		return docs, nil
	}
	queryTokens := r.tokenSet(query)
	type scored struct {
		doc   string
		score float64
	}
	results := make([]scored, len(docs))
	for i, doc := range docs {
		results[i] = scored{doc: doc, score: r.overlap(queryTokens, doc)}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if k > 0 && k < len(results) {
		results = results[:k]
	}
	reranked := make([]string, len(results))
	for i, result := range results {
		reranked[i] = result.doc
	}
	return reranked, nil
}

// overlap returns the fraction of query tokens present in doc.
func (r *Reranker) overlap(queryTokens map[string]struct{}, doc string) float64 {
	if len(queryTokens) == 0 {
		return 0
	}
	docTokens := r.tokenSet(doc)
	matched := 0
	for token := range queryTokens {
		if _, ok := docTokens[token]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryTokens))
}

func (r *Reranker) tokenSet(text string) map[string]struct{} {
	if !r.caseSensitive {
		text = strings.ToLower(text)
	}
	tokens := make(map[string]struct{})
	for _, token := range strings.Fields(text) {
		tokens[token] = struct{}{}
	}
	return tokens
}
