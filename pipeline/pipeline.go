//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package pipeline composes retrieval pipelines from pluggable stages.
package pipeline

import (
	"context"
	"fmt"

	"trpc.group/trpc-go/trpc-rageval-go/chunker"
	"trpc.group/trpc-go/trpc-rageval-go/errs"
	"trpc.group/trpc-go/trpc-rageval-go/log"
	"trpc.group/trpc-go/trpc-rageval-go/reranker"
	"trpc.group/trpc-go/trpc-rageval-go/vectorstore"
)

// candidateMultiplier widens the search when a reranker refines the results.
const candidateMultiplier = 3

// Config fully determines one retrieval pipeline instance. Stages are
// referenced by registry name so configs stay comparable and serializable;
// empty stage names resolve to the registry defaults, an empty reranker
// means no reranking.
type Config struct {
	Chunker     string `json:"chunker,omitempty" yaml:"chunker,omitempty"`
	Embedder    string `json:"embedder,omitempty" yaml:"embedder,omitempty"`
	VectorStore string `json:"vector_store,omitempty" yaml:"vector_store,omitempty"`
	K           int    `json:"k" yaml:"k"`
	Reranker    string `json:"reranker,omitempty" yaml:"reranker,omitempty"`
}

// Pipeline is a composed retrieval pipeline over an ingested corpus. Each
// pipeline instance is owned by exactly one run; it is not shared.
type Pipeline struct {
	config   Config
	store    vectorstore.VectorStore
	reranker reranker.Reranker
}

// Config returns the configuration the pipeline was built from.
func (p *Pipeline) Config() Config {
	return p.config
}

// Retrieve runs the retrieval path for one query: search, then optional
// rerank. It returns up to k chunk texts, best first. Failures are wrapped
// as stage errors so callers can recover at example granularity.
func (p *Pipeline) Retrieve(ctx context.Context, query string) ([]string, error) {
	k := p.config.K
	searchK := k
	if p.reranker != nil {
		searchK = k * candidateMultiplier
	}
	candidates, err := p.store.Search(ctx, query, searchK)
	if err != nil {
		return nil, errs.Retrieval(err)
	}
	if p.reranker == nil {
		if len(candidates) > k {
			candidates = candidates[:k]
		}
		return candidates, nil
	}
	reranked, err := p.reranker.Rerank(ctx, candidates, query, k)
	if err != nil {
		return nil, errs.Reranking(err)
	}
	return reranked, nil
}

// Close releases the resources owned by the pipeline.
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// Build composes a pipeline instance from cfg and ingests the corpus
// documents: chunk every document, then embed and index the chunks. The
// returned pipeline owns its vector store.
func (r *Registry) Build(ctx context.Context, cfg Config, corpus []string) (*Pipeline, error) {
	if cfg.K <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", errs.ErrInvalidArgument, cfg.K)
	}
	chk, err := r.ResolveChunker(cfg.Chunker)
	if err != nil {
		return nil, err
	}
	emb, err := r.ResolveEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}
	factory, err := r.ResolveVectorStore(cfg.VectorStore)
	if err != nil {
		return nil, err
	}
	var rrk reranker.Reranker
	if cfg.Reranker != "" {
		if rrk, err = r.ResolveReranker(cfg.Reranker); err != nil {
			return nil, err
		}
	}
	store, err := factory(emb)
	if err != nil {
		return nil, fmt.Errorf("create vector store %q: %w", cfg.VectorStore, err)
	}
	if err := ingest(ctx, chk, store, corpus); err != nil {
		store.Close()
		return nil, err
	}
	return &Pipeline{config: cfg, store: store, reranker: rrk}, nil
}

// ingest chunks the corpus and indexes the chunk texts.
func ingest(ctx context.Context, chk chunker.Chunker, store vectorstore.VectorStore, corpus []string) error {
	var texts []string
	for i, doc := range corpus {
		chunks, err := chk.Chunk(ctx, doc)
		if err != nil {
			return errs.Chunking(fmt.Errorf("document %d: %w", i, err))
		}
		for _, c := range chunks {
			texts = append(texts, c.Text)
		}
	}
	if len(texts) == 0 {
		log.Warnf("pipeline ingest produced no chunks from %d documents", len(corpus))
		return nil
	}
	if err := store.EmbedDocs(ctx, texts); err != nil {
		return errs.Embedding(err)
	}
	return nil
}
