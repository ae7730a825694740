//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"trpc.group/trpc-go/trpc-rageval-go/chunker"
	"trpc.group/trpc-go/trpc-rageval-go/embedder"
	"trpc.group/trpc-go/trpc-rageval-go/errs"
	"trpc.group/trpc-go/trpc-rageval-go/reranker"
	"trpc.group/trpc-go/trpc-rageval-go/vectorstore"
)

// Registry holds named stage implementations referenced by pipeline configs.
// The first registration of each kind becomes the default; register with
// SetDefault* to override. Registered stages are read-only and shared across
// concurrent pipeline builds.
type Registry struct {
	mu sync.RWMutex

	chunkers       map[string]chunker.Chunker
	embedders      map[string]embedder.Embedder
	storeFactories map[string]vectorstore.Factory
	rerankers      map[string]reranker.Reranker

	defaultChunker  string
	defaultEmbedder string
	defaultStore    string
}

// NewRegistry creates an empty stage registry.
func NewRegistry() *Registry {
	return &Registry{
		chunkers:       make(map[string]chunker.Chunker),
		embedders:      make(map[string]embedder.Embedder),
		storeFactories: make(map[string]vectorstore.Factory),
		rerankers:      make(map[string]reranker.Reranker),
	}
}

// RegisterChunker registers a chunker under name.
func (r *Registry) RegisterChunker(name string, c chunker.Chunker) error {
	if name == "" {
		return errors.New("chunker name is empty")
	}
	if c == nil {
		return errors.New("chunker is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.chunkers) == 0 {
		r.defaultChunker = name
	}
	r.chunkers[name] = c
	return nil
}

// RegisterEmbedder registers an embedder under name.
func (r *Registry) RegisterEmbedder(name string, e embedder.Embedder) error {
	if name == "" {
		return errors.New("embedder name is empty")
	}
	if e == nil {
		return errors.New("embedder is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.embedders) == 0 {
		r.defaultEmbedder = name
	}
	r.embedders[name] = e
	return nil
}

// RegisterVectorStore registers a vector store factory under name.
func (r *Registry) RegisterVectorStore(name string, f vectorstore.Factory) error {
	if name == "" {
		return errors.New("vector store name is empty")
	}
	if f == nil {
		return errors.New("vector store factory is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.storeFactories) == 0 {
		r.defaultStore = name
	}
	r.storeFactories[name] = f
	return nil
}

// RegisterReranker registers a reranker under name.
func (r *Registry) RegisterReranker(name string, rrk reranker.Reranker) error {
	if name == "" {
		return errors.New("reranker name is empty")
	}
	if rrk == nil {
		return errors.New("reranker is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rerankers[name] = rrk
	return nil
}

// SetDefaultChunker sets the chunker resolved for empty config values.
func (r *Registry) SetDefaultChunker(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chunkers[name]; !ok {
		return fmt.Errorf("chunker %q is not registered", name)
	}
	r.defaultChunker = name
	return nil
}

// SetDefaultEmbedder sets the embedder resolved for empty config values.
func (r *Registry) SetDefaultEmbedder(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.embedders[name]; !ok {
		return fmt.Errorf("embedder %q is not registered", name)
	}
	r.defaultEmbedder = name
	return nil
}

// SetDefaultVectorStore sets the store resolved for empty config values.
func (r *Registry) SetDefaultVectorStore(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.storeFactories[name]; !ok {
		return fmt.Errorf("vector store %q is not registered", name)
	}
	r.defaultStore = name
	return nil
}

// ResolveChunker returns the chunker registered under name, or the default
// when name is empty.
func (r *Registry) ResolveChunker(name string) (chunker.Chunker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.defaultChunker
	}
	c, ok := r.chunkers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown chunker %q", errs.ErrInvalidArgument, name)
	}
	return c, nil
}

// ResolveEmbedder returns the embedder registered under name, or the default
// when name is empty.
func (r *Registry) ResolveEmbedder(name string) (embedder.Embedder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.defaultEmbedder
	}
	e, ok := r.embedders[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown embedder %q", errs.ErrInvalidArgument, name)
	}
	return e, nil
}

// ResolveVectorStore returns the store factory registered under name, or the
// default when name is empty.
func (r *Registry) ResolveVectorStore(name string) (vectorstore.Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if name == "" {
		name = r.defaultStore
	}
	f, ok := r.storeFactories[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown vector store %q", errs.ErrInvalidArgument, name)
	}
	return f, nil
}

// ResolveReranker returns the reranker registered under name. There is no
// default reranker; an empty config value means no reranking.
func (r *Registry) ResolveReranker(name string) (reranker.Reranker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rrk, ok := r.rerankers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown reranker %q", errs.ErrInvalidArgument, name)
	}
	return rrk, nil
}
