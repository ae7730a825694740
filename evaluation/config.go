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
	"os"

	"gopkg.in/yaml.v3"

	"trpc.group/trpc-go/trpc-rageval-go/errs"
)

// DefaultMaxConcurrency is the worker pool size used when the configuration
// leaves it unset.
const DefaultMaxConcurrency = 4

// Config carries the evaluation run settings.
type Config struct {
	// ExperimentName names the experiment in logs and persisted results.
	ExperimentName string `json:"experiment_name" yaml:"experiment_name"`
	// Description is a free-form description of the experiment.
	Description string `json:"description" yaml:"description"`
	// MaxConcurrency bounds the number of concurrently evaluated sweep
	// cells, and with it the number of in-flight pipeline-stage calls.
	MaxConcurrency int `json:"max_concurrency" yaml:"max_concurrency"`
	// SaveResults persists sweep results through the configured manager.
	SaveResults bool `json:"save_results" yaml:"save_results"`
	// SaveResultsPath is the storage location for persisted results; its
	// interpretation belongs to the result manager.
	SaveResultsPath string `json:"save_results_path" yaml:"save_results_path"`
}

// Validate checks the configuration and fills defaults.
func (c *Config) Validate() error {
	if c.ExperimentName == "" {
		return fmt.Errorf("%w: experiment name is empty", errs.ErrInvalidArgument)
	}
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("%w: max concurrency must not be negative, got %d", errs.ErrInvalidArgument, c.MaxConcurrency)
	}
	if c.MaxConcurrency == 0 {
		c.MaxConcurrency = DefaultMaxConcurrency
	}
	return nil
}

// LoadConfig reads an evaluation configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
