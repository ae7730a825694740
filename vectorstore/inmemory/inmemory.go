//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory cosine-similarity vector store.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-rageval-go/embedder"
	"trpc.group/trpc-go/trpc-rageval-go/errs"
	"trpc.group/trpc-go/trpc-rageval-go/vectorstore"
)

// Verify that Store implements the vectorstore.VectorStore interface.
var _ vectorstore.VectorStore = (*Store)(nil)

// entry pairs a stored document with its embedding.
type entry struct {
	text   string
	vector []float64
}

// Store keeps documents and embeddings in memory and ranks search results
// by cosine similarity.
type Store struct {
	embedder embedder.Embedder

	mu      sync.RWMutex
	entries []entry
}

// New creates a new in-memory store backed by the given embedder.
func New(emb embedder.Embedder) (*Store, error) {
	if emb == nil {
		return nil, errors.New("embedder is nil")
	}
	return &Store{embedder: emb}, nil
}

// Factory returns a vectorstore.Factory producing fresh in-memory stores.
func Factory() vectorstore.Factory {
	return func(emb embedder.Embedder) (vectorstore.VectorStore, error) {
		return New(emb)
	}
}

// EmbedDocs implements the vectorstore.VectorStore interface.
func (s *Store) EmbedDocs(ctx context.Context, docs []string) error {
	if len(docs) == 0 {
		return nil
	}
	vectors, err := s.embedder.EmbedDocs(ctx, docs)
	if err != nil {
		return fmt.Errorf("embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, doc := range docs {
		s.entries = append(s.entries, entry{text: doc, vector: vectors[i]})
	}
	return nil
}

// Search implements the vectorstore.VectorStore interface.
func (s *Store) Search(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", errs.ErrInvalidArgument, k)
	}
	vectors, err := s.embedder.EmbedDocs(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}
	queryVector := vectors[0]

	s.mu.RLock()
	defer s.mu.RUnlock()
	type scored struct {
		text  string
		score float64
		index int
	}
	results := make([]scored, len(s.entries))
	for i, e := range s.entries {
		results[i] = scored{text: e.text, score: cosineSimilarity(queryVector, e.vector), index: i}
	}
	// Stable on insertion order so equal scores rank deterministically.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].index < results[j].index
	})
	if k > len(results) {
		k = len(results)
	}
	docs := make([]string, k)
	for i := 0; i < k; i++ {
		docs[i] = results[i].text
	}
	return docs, nil
}

// Close implements the vectorstore.VectorStore interface.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	return nil
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths and zero-norm vectors score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
