//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package dataset defines the labeled-dataset provider contract.
package dataset

import (
	"context"

	"trpc.group/trpc-go/trpc-rageval-go/record"
)

// Example is one labeled dataset record: a query plus a ground-truth payload
// of chunk identifiers or chunk texts. Examples are read-only from the
// engine's perspective.
type Example struct {
	// ID identifies the example within its dataset.
	ID string `json:"id"`
	// Query is the retrieval query.
	Query string `json:"query"`
	// Outputs carries the ground-truth payload.
	Outputs record.Outputs `json:"outputs"`
}

// Provider supplies the examples of a labeled dataset. The engine iterates
// the dataset once per sweep cell and never mutates it, so providers are
// safely shared across concurrent workers.
type Provider interface {
	// Examples returns all examples of the dataset.
	Examples(ctx context.Context) ([]*Example, error)
	// Close releases resources owned by the provider.
	Close() error
}
