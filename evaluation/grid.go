//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

package evaluation

import (
	"fmt"

	"trpc.group/trpc-go/trpc-rageval-go/errs"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
)

// Recognized grid dimension names.
const (
	DimensionChunker     = "chunker"
	DimensionEmbedder    = "embedder"
	DimensionVectorStore = "vector_store"
	DimensionK           = "k"
	DimensionReranker    = "reranker"
)

// DefaultK is the retrieved-count used when the grid does not sweep k.
const DefaultK = 5

// gridDimension is one sweep dimension with its candidate values.
type gridDimension struct {
	name   string
	values []any
}

// Grid is an ordered configuration grid. Dimension declaration order is
// preserved and determines enumeration order: the cartesian product is
// expanded outer-to-inner, first-declared dimension varying slowest.
type Grid struct {
	dims []gridDimension
}

// NewGrid creates an empty configuration grid.
func NewGrid() *Grid {
	return &Grid{}
}

// Add appends a dimension with its candidate values and returns the grid
// for chaining. Values are validated on Expand.
func (g *Grid) Add(name string, values ...any) *Grid {
	g.dims = append(g.dims, gridDimension{name: name, values: values})
	return g
}

// Size returns the number of cells the grid expands to.
func (g *Grid) Size() int {
	size := 1
	for _, dim := range g.dims {
		size *= len(dim.values)
	}
	return size
}

// Expand enumerates the full cartesian product of the grid in deterministic
// order and returns one pipeline config per cell. Unknown dimension names,
// duplicate dimensions, empty candidate lists, and invalid values are
// invalid arguments.
func (g *Grid) Expand() ([]pipeline.Config, error) {
	if err := g.validate(); err != nil {
		return nil, err
	}
	configs := []pipeline.Config{{K: DefaultK}}
	for _, dim := range g.dims {
		next := make([]pipeline.Config, 0, len(configs)*len(dim.values))
		for _, cfg := range configs {
			for _, value := range dim.values {
				applied, err := applyDimension(cfg, dim.name, value)
				if err != nil {
					return nil, err
				}
				next = append(next, applied)
			}
		}
		configs = next
	}
	return configs, nil
}

func (g *Grid) validate() error {
	if len(g.dims) == 0 {
		return fmt.Errorf("%w: grid has no dimensions", errs.ErrInvalidArgument)
	}
	seen := make(map[string]struct{}, len(g.dims))
	for _, dim := range g.dims {
		switch dim.name {
		case DimensionChunker, DimensionEmbedder, DimensionVectorStore, DimensionK, DimensionReranker:
		default:
			return fmt.Errorf("%w: unknown grid dimension %q", errs.ErrInvalidArgument, dim.name)
		}
		if _, ok := seen[dim.name]; ok {
			return fmt.Errorf("%w: duplicate grid dimension %q", errs.ErrInvalidArgument, dim.name)
		}
		seen[dim.name] = struct{}{}
		if len(dim.values) == 0 {
			return fmt.Errorf("%w: grid dimension %q has no candidate values", errs.ErrInvalidArgument, dim.name)
		}
	}
	return nil
}

func applyDimension(cfg pipeline.Config, name string, value any) (pipeline.Config, error) {
	if name == DimensionK {
		k, ok := value.(int)
		if !ok {
			return cfg, fmt.Errorf("%w: k candidate %v is not an int", errs.ErrInvalidArgument, value)
		}
		if k <= 0 {
			return cfg, fmt.Errorf("%w: k must be positive, got %d", errs.ErrInvalidArgument, k)
		}
		cfg.K = k
		return cfg, nil
	}
	identifier, ok := value.(string)
	if !ok {
		return cfg, fmt.Errorf("%w: %s candidate %v is not a string", errs.ErrInvalidArgument, name, value)
	}
	switch name {
	case DimensionChunker:
		cfg.Chunker = identifier
	case DimensionEmbedder:
		cfg.Embedder = identifier
	case DimensionVectorStore:
		cfg.VectorStore = identifier
	case DimensionReranker:
		// An empty identifier is a valid candidate meaning "no reranker".
		cfg.Reranker = identifier
	}
	return cfg, nil
}
