//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package local provides a dataset provider backed by a local JSON file.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-rageval-go/dataset"
)

// Verify that Provider implements the dataset.Provider interface.
var _ dataset.Provider = (*Provider)(nil)

// Provider reads examples from a JSON file holding an array of examples.
// The file is read once and cached; datasets are immutable during a sweep.
type Provider struct {
	path string

	mu       sync.Mutex
	examples []*dataset.Example
	loaded   bool
}

// New creates a new local file provider for the given path.
func New(path string) (*Provider, error) {
	if path == "" {
		return nil, errors.New("dataset path is empty")
	}
	return &Provider{path: path}, nil
}

// Examples implements the dataset.Provider interface.
func (p *Provider) Examples(ctx context.Context) ([]*dataset.Example, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded {
		return p.examples, nil
	}
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", p.path, err)
	}
	defer f.Close()
	var examples []*dataset.Example
	if err := json.NewDecoder(f).Decode(&examples); err != nil {
		return nil, fmt.Errorf("decode dataset %s: %w", p.path, err)
	}
	for i, example := range examples {
		if example == nil {
			return nil, fmt.Errorf("dataset %s: example %d is null", p.path, i)
		}
		if example.ID == "" {
			example.ID = uuid.NewString()
		}
	}
	p.examples = examples
	p.loaded = true
	return p.examples, nil
}

// Close implements the dataset.Provider interface.
func (p *Provider) Close() error {
	return nil
}
