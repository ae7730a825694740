//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package pgvector provides a PostgreSQL pgvector-backed vector store.
package pgvector

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"trpc.group/trpc-go/trpc-rageval-go/embedder"
	"trpc.group/trpc-go/trpc-rageval-go/errs"
	"trpc.group/trpc-go/trpc-rageval-go/vectorstore"
)

// Verify that Store implements the vectorstore.VectorStore interface.
var _ vectorstore.VectorStore = (*Store)(nil)

const (
	// DefaultTable is the default table name for stored chunks.
	DefaultTable = "rageval_chunks"
	// DefaultDimensions is the default embedding dimension.
	DefaultDimensions = 1536
)

// Store persists documents and embeddings in PostgreSQL and ranks search
// results with the pgvector cosine distance operator.
type Store struct {
	pool       *pgxpool.Pool
	embedder   embedder.Embedder
	table      string
	dimensions int
	ownsPool   bool
}

// Option represents a functional option for configuring the Store.
type Option func(*Store)

// WithTable sets the table name used for stored chunks.
func WithTable(table string) Option {
	return func(s *Store) {
		if table != "" {
			s.table = table
		}
	}
}

// WithDimensions sets the embedding dimension for the vector column.
func WithDimensions(dimensions int) Option {
	return func(s *Store) {
		if dimensions > 0 {
			s.dimensions = dimensions
		}
	}
}

// WithPool sets an existing connection pool. The store will not close it.
func WithPool(pool *pgxpool.Pool) Option {
	return func(s *Store) {
		s.pool = pool
	}
}

// New creates a new pgvector store. connString may be empty when WithPool
// supplies a pool. The chunk table is created if it does not exist.
func New(ctx context.Context, emb embedder.Embedder, connString string, opts ...Option) (*Store, error) {
	if emb == nil {
		return nil, errors.New("embedder is nil")
	}
	s := &Store{
		embedder:   emb,
		table:      DefaultTable,
		dimensions: DefaultDimensions,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.pool == nil {
		if connString == "" {
			return nil, errors.New("connection string is empty and no pool provided")
		}
		pool, err := pgxpool.New(ctx, connString)
		if err != nil {
			return nil, fmt.Errorf("create pgx pool: %w", err)
		}
		s.pool = pool
		s.ownsPool = true
	}
	if err := s.ensureTable(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTable(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	ddl := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id BIGSERIAL PRIMARY KEY, content TEXT NOT NULL, embedding vector(%d) NOT NULL)",
		s.table, s.dimensions)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
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
	batchSQL := fmt.Sprintf("INSERT INTO %s (content, embedding) VALUES ($1, $2::vector)", s.table)
	for i, doc := range docs {
		if _, err := s.pool.Exec(ctx, batchSQL, doc, vectorLiteral(vectors[i])); err != nil {
			return fmt.Errorf("insert chunk %d: %w", i, err)
		}
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
	searchSQL := fmt.Sprintf(
		"SELECT content FROM %s ORDER BY embedding <=> $1::vector LIMIT $2", s.table)
	rows, err := s.pool.Query(ctx, searchSQL, vectorLiteral(vectors[0]), k)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", s.table, err)
	}
	defer rows.Close()
	var docs []string
	for rows.Next() {
		var content string
		if err := rows.Scan(&content); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		docs = append(docs, content)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}
	return docs, nil
}

// Truncate removes all stored chunks. Pipeline runs that reuse a table call
// this before ingesting their own corpus.
func (s *Store) Truncate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("TRUNCATE %s", s.table)); err != nil {
		return fmt.Errorf("truncate %s: %w", s.table, err)
	}
	return nil
}

// Close implements the vectorstore.VectorStore interface.
func (s *Store) Close() error {
	if s.ownsPool && s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// vectorLiteral renders a vector in the pgvector input format, e.g. [1,2,3].
func vectorLiteral(vector []float64) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'f', -1, 64))
	}
	b.WriteByte(']')
	return b.String()
}
