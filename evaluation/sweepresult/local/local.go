//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package local provides a local file storage implementation for sweep results.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
)

// Verify that Manager implements the sweepresult.Manager interface.
var _ sweepresult.Manager = (*Manager)(nil)

// DefaultBaseDir is the default directory for stored sweep results.
const DefaultBaseDir = "sweep_results"

const resultFileSuffix = ".sweep_result.json"

// Manager stores sweep results as JSON files under baseDir/experiment/.
type Manager struct {
	baseDir string
	mu      sync.Mutex
}

// Option represents a functional option for configuring the Manager.
type Option func(*Manager)

// WithBaseDir sets the directory results are stored under.
func WithBaseDir(baseDir string) Option {
	return func(m *Manager) {
		if baseDir != "" {
			m.baseDir = baseDir
		}
	}
}

// NewManager creates a new local file sweep result manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{baseDir: DefaultBaseDir}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Save implements the sweepresult.Manager interface. The file is written to
// a temporary path and renamed so readers never observe partial results.
func (m *Manager) Save(ctx context.Context, experiment string, results sweepresult.SweepResults) (string, error) {
	_ = ctx
	if experiment == "" {
		return "", errors.New("experiment is empty")
	}
	if len(results) == 0 {
		return "", errors.New("results are empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := filepath.Join(m.baseDir, experiment)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	resultID := uuid.NewString()
	path := m.resultPath(experiment, resultID)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", err
	}
	return resultID, nil
}

// Get implements the sweepresult.Manager interface.
func (m *Manager) Get(ctx context.Context, experiment, resultID string) (sweepresult.SweepResults, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	path := m.resultPath(experiment, resultID)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open result %s/%s: %w", experiment, resultID, err)
	}
	defer f.Close()
	var results sweepresult.SweepResults
	if err := json.NewDecoder(f).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode result %s/%s: %w", experiment, resultID, err)
	}
	return results, nil
}

// List implements the sweepresult.Manager interface.
func (m *Manager) List(ctx context.Context, experiment string) ([]string, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := os.ReadDir(filepath.Join(m.baseDir, experiment))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, err
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, resultFileSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, resultFileSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

// Close implements the sweepresult.Manager interface.
func (m *Manager) Close() error {
	return nil
}

func (m *Manager) resultPath(experiment, resultID string) string {
	return filepath.Join(m.baseDir, experiment, resultID+resultFileSuffix)
}
