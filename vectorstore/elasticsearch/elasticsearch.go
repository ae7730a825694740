//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package elasticsearch provides an Elasticsearch-backed vector store.
package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"trpc.group/trpc-go/trpc-rageval-go/embedder"
	"trpc.group/trpc-go/trpc-rageval-go/errs"
	"trpc.group/trpc-go/trpc-rageval-go/vectorstore"
)

// Verify that Store implements the vectorstore.VectorStore interface.
var _ vectorstore.VectorStore = (*Store)(nil)

const (
	// DefaultIndexName is the default index name for chunks.
	DefaultIndexName = "rageval_chunks"
	// DefaultVectorField is the field name for embedding vectors.
	DefaultVectorField = "embedding"
	// DefaultContentField is the field name for chunk content.
	DefaultContentField = "content"
	// DefaultDimensions is the default embedding dimension.
	DefaultDimensions = 1536
	// numCandidatesMultiplier widens the knn candidate pool relative to k.
	numCandidatesMultiplier = 10
)

// Store keeps chunks in an Elasticsearch index with a dense_vector field
// and serves knn search over it.
type Store struct {
	client     *elasticsearch.Client
	embedder   embedder.Embedder
	index      string
	dimensions int
}

// Option represents a functional option for configuring the Store.
type Option func(*Store)

// WithIndexName sets the index name used for stored chunks.
func WithIndexName(index string) Option {
	return func(s *Store) {
		if index != "" {
			s.index = index
		}
	}
}

// WithDimensions sets the embedding dimension for the vector field.
func WithDimensions(dimensions int) Option {
	return func(s *Store) {
		if dimensions > 0 {
			s.dimensions = dimensions
		}
	}
}

// New creates a new Elasticsearch store and ensures the index exists.
func New(ctx context.Context, emb embedder.Embedder, cfg elasticsearch.Config, opts ...Option) (*Store, error) {
	if emb == nil {
		return nil, errors.New("embedder is nil")
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	s := &Store{
		client:     client,
		embedder:   emb,
		index:      DefaultIndexName,
		dimensions: DefaultDimensions,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.ensureIndex(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndex(ctx context.Context) error {
	exists, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", s.index, err)
	}
	defer exists.Body.Close()
	if exists.StatusCode == 200 {
		return nil
	}
	mapping := map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				DefaultContentField: map[string]any{"type": "text"},
				DefaultVectorField: map[string]any{
					"type":       "dense_vector",
					"dims":       s.dimensions,
					"index":      true,
					"similarity": "cosine",
				},
			},
		},
	}
	body, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("marshal index mapping: %w", err)
	}
	rsp, err := s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", s.index, err)
	}
	defer rsp.Body.Close()
	if rsp.IsError() {
		return fmt.Errorf("create index %s: %s", s.index, responseError(rsp))
	}
	return nil
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
	for i, doc := range docs {
		body, err := json.Marshal(map[string]any{
			DefaultContentField: doc,
			DefaultVectorField:  vectors[i],
		})
		if err != nil {
			return fmt.Errorf("marshal chunk %d: %w", i, err)
		}
		rsp, err := s.client.Index(
			s.index,
			bytes.NewReader(body),
			s.client.Index.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("index chunk %d: %w", i, err)
		}
		if rsp.IsError() {
			err := fmt.Errorf("index chunk %d: %s", i, responseError(rsp))
			rsp.Body.Close()
			return err
		}
		rsp.Body.Close()
	}
	// Make ingested chunks visible to the search that follows.
	refresh, err := s.client.Indices.Refresh(
		s.client.Indices.Refresh.WithContext(ctx),
		s.client.Indices.Refresh.WithIndex(s.index),
	)
	if err != nil {
		return fmt.Errorf("refresh index %s: %w", s.index, err)
	}
	refresh.Body.Close()
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
	searchBody := map[string]any{
		"knn": map[string]any{
			"field":          DefaultVectorField,
			"query_vector":   vectors[0],
			"k":              k,
			"num_candidates": k * numCandidatesMultiplier,
		},
		"_source": []string{DefaultContentField},
		"size":    k,
	}
	body, err := json.Marshal(searchBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}
	rsp, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.index, err)
	}
	defer rsp.Body.Close()
	if rsp.IsError() {
		return nil, fmt.Errorf("search %s: %s", s.index, responseError(rsp))
	}
	return parseSearchHits(rsp.Body)
}

// Close implements the vectorstore.VectorStore interface.
func (s *Store) Close() error {
	return nil
}

// searchResponse covers the slice of the search reply the store reads.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source map[string]any `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func parseSearchHits(body io.Reader) ([]string, error) {
	var parsed searchResponse
	if err := json.NewDecoder(body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	docs := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		content, ok := hit.Source[DefaultContentField].(string)
		if !ok {
			continue
		}
		docs = append(docs, content)
	}
	return docs, nil
}

func responseError(rsp *esapi.Response) string {
	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return rsp.Status()
	}
	return fmt.Sprintf("%s: %s", rsp.Status(), data)
}
