//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package sqlite provides a SQLite-backed sweep result manager.
package sqlite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // sqlite driver

	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
)

// Verify that Manager implements the sweepresult.Manager interface.
var _ sweepresult.Manager = (*Manager)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS sweep_results (
	id         TEXT PRIMARY KEY,
	experiment TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	payload    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sweep_results_experiment ON sweep_results (experiment, created_at);
`

// resultRow is the database row for one stored sweep.
type resultRow struct {
	ID         string    `db:"id"`
	Experiment string    `db:"experiment"`
	CreatedAt  time.Time `db:"created_at"`
	Payload    string    `db:"payload"`
}

// Manager stores sweep results in a SQLite database, one row per sweep with
// the result list serialized as JSON.
type Manager struct {
	db     *sqlx.DB
	ownsDB bool
}

// NewManager opens (or creates) the database at path and ensures the schema.
func NewManager(path string) (*Manager, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	m := &Manager{db: db, ownsDB: true}
	if err := m.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// NewManagerWithDB wraps an existing database handle. The manager will not
// close it.
func NewManagerWithDB(db *sqlx.DB) (*Manager, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	m := &Manager{db: db}
	if err := m.ensureSchema(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) ensureSchema() error {
	if _, err := m.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Save implements the sweepresult.Manager interface.
func (m *Manager) Save(ctx context.Context, experiment string, results sweepresult.SweepResults) (string, error) {
	if experiment == "" {
		return "", errors.New("experiment is empty")
	}
	if len(results) == 0 {
		return "", errors.New("results are empty")
	}
	payload, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	row := resultRow{
		ID:         uuid.NewString(),
		Experiment: experiment,
		CreatedAt:  time.Now().UTC(),
		Payload:    string(payload),
	}
	_, err = m.db.NamedExecContext(ctx,
		"INSERT INTO sweep_results (id, experiment, created_at, payload) VALUES (:id, :experiment, :created_at, :payload)",
		row)
	if err != nil {
		return "", fmt.Errorf("insert sweep result: %w", err)
	}
	return row.ID, nil
}

// Get implements the sweepresult.Manager interface.
func (m *Manager) Get(ctx context.Context, experiment, resultID string) (sweepresult.SweepResults, error) {
	var row resultRow
	err := m.db.GetContext(ctx, &row,
		"SELECT id, experiment, created_at, payload FROM sweep_results WHERE experiment = ? AND id = ?",
		experiment, resultID)
	if err != nil {
		return nil, fmt.Errorf("get result %s/%s: %w", experiment, resultID, err)
	}
	var results sweepresult.SweepResults
	if err := json.Unmarshal([]byte(row.Payload), &results); err != nil {
		return nil, fmt.Errorf("decode result %s/%s: %w", experiment, resultID, err)
	}
	return results, nil
}

// List implements the sweepresult.Manager interface.
func (m *Manager) List(ctx context.Context, experiment string) ([]string, error) {
	var ids []string
	err := m.db.SelectContext(ctx, &ids,
		"SELECT id FROM sweep_results WHERE experiment = ? ORDER BY created_at, id",
		experiment)
	if err != nil {
		return nil, fmt.Errorf("list results for %s: %w", experiment, err)
	}
	return ids, nil
}

// Close implements the sweepresult.Manager interface.
func (m *Manager) Close() error {
	if m.ownsDB {
		return m.db.Close()
	}
	return nil
}
