//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory sweep result manager.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
)

// Verify that Manager implements the sweepresult.Manager interface.
var _ sweepresult.Manager = (*Manager)(nil)

// Manager keeps sweep results in memory, keyed by experiment and result ID.
type Manager struct {
	mu      sync.RWMutex
	results map[string]map[string]sweepresult.SweepResults
}

// NewManager creates a new in-memory sweep result manager.
func NewManager() *Manager {
	return &Manager{results: make(map[string]map[string]sweepresult.SweepResults)}
}

// Save implements the sweepresult.Manager interface.
func (m *Manager) Save(ctx context.Context, experiment string, results sweepresult.SweepResults) (string, error) {
	if experiment == "" {
		return "", errors.New("experiment is empty")
	}
	if len(results) == 0 {
		return "", errors.New("results are empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.results[experiment] == nil {
		m.results[experiment] = make(map[string]sweepresult.SweepResults)
	}
	resultID := uuid.NewString()
	m.results[experiment][resultID] = results
	return resultID, nil
}

// Get implements the sweepresult.Manager interface.
func (m *Manager) Get(ctx context.Context, experiment, resultID string) (sweepresult.SweepResults, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results, ok := m.results[experiment][resultID]
	if !ok {
		return nil, fmt.Errorf("result %s/%s not found", experiment, resultID)
	}
	return results, nil
}

// List implements the sweepresult.Manager interface.
func (m *Manager) List(ctx context.Context, experiment string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.results[experiment]))
	for id := range m.results[experiment] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close implements the sweepresult.Manager interface.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]map[string]sweepresult.SweepResults)
	return nil
}
