//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory dataset provider.
package inmemory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-rageval-go/dataset"
)

// Verify that Provider implements the dataset.Provider interface.
var _ dataset.Provider = (*Provider)(nil)

// Provider serves a fixed slice of examples from memory.
type Provider struct {
	examples []*dataset.Example
}

// New creates a new in-memory provider over the given examples. Examples
// without an ID are assigned one.
func New(examples []*dataset.Example) (*Provider, error) {
	for i, example := range examples {
		if example == nil {
			return nil, fmt.Errorf("example %d is nil", i)
		}
		if example.ID == "" {
			example.ID = uuid.NewString()
		}
	}
	return &Provider{examples: examples}, nil
}

// Examples implements the dataset.Provider interface.
func (p *Provider) Examples(ctx context.Context) ([]*dataset.Example, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.examples, nil
}

// Close implements the dataset.Provider interface.
func (p *Provider) Close() error {
	return nil
}
