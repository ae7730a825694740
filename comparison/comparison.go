//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package comparison aggregates sweep results into renderer-ready table
// views: grouped bars, per-series lines, and configuration-by-metric
// heatmaps. The package produces data only; it does not draw.
package comparison

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"trpc.group/trpc-go/trpc-rageval-go/errs"
	"trpc.group/trpc-go/trpc-rageval-go/evaluation/sweepresult"
	"trpc.group/trpc-go/trpc-rageval-go/pipeline"
)

// atSuffix matches a trailing @N rank qualifier on a metric name,
// e.g. "recall@5" normalizes to "recall".
var atSuffix = regexp.MustCompile(`@\d+$`)

// NormalizeMetricName strips a trailing @N rank qualifier from name so that
// the same metric computed at different cutoffs aggregates under one label.
// Normalization is idempotent.
func NormalizeMetricName(name string) string {
	return atSuffix.ReplaceAllString(name, "")
}

// ConfigLabel renders a pipeline configuration as a stable human-readable
// label: the non-empty stage identifiers plus the retrieved count, joined
// with " | ". Two equal configurations always produce the same label.
func ConfigLabel(cfg pipeline.Config) string {
	parts := make([]string, 0, 4)
	if cfg.Chunker != "" {
		parts = append(parts, cfg.Chunker)
	}
	if cfg.Embedder != "" {
		parts = append(parts, cfg.Embedder)
	}
	parts = append(parts, fmt.Sprintf("k=%d", cfg.K))
	if cfg.Reranker != "" {
		parts = append(parts, cfg.Reranker)
	}
	return strings.Join(parts, " | ")
}

// BarPoint is one bar in a grouped bar view: a configuration's value for
// one metric.
type BarPoint struct {
	ConfigLabel string  `json:"configLabel"`
	Metric      string  `json:"metric"`
	Value       float64 `json:"value"`
}

// LinePoint is one point on a line series. X is the swept dimension value,
// either an int (for k) or a string identifier.
type LinePoint struct {
	X any     `json:"x"`
	Y float64 `json:"y"`
}

// LineSeries is one line in a line view: all configurations that share every
// dimension except the swept one, ordered by the swept dimension's value.
type LineSeries struct {
	Label  string      `json:"label"`
	Metric string      `json:"metric"`
	Points []LinePoint `json:"points"`
}

// Heatmap is a configuration-by-metric value matrix. Values[i][j] is the
// value of Metrics[j] for ConfigLabels[i].
type Heatmap struct {
	ConfigLabels []string    `json:"configLabels"`
	Metrics      []string    `json:"metrics"`
	Values       [][]float64 `json:"values"`
}

// Comparison aggregates one sweep's results into table views. Failed
// configurations are included with their zeroed metric values; filtering is
// the caller's decision.
type Comparison struct {
	results sweepresult.SweepResults
}

// New creates a Comparison over the given sweep results.
func New(results sweepresult.SweepResults) (*Comparison, error) {
	if len(results) == 0 {
		return nil, errs.ErrEmptySweepResults
	}
	for i, result := range results {
		if result == nil {
			return nil, fmt.Errorf("%w: result %d is nil", errs.ErrInvalidArgument, i)
		}
	}
	return &Comparison{results: results}, nil
}

// metricNames returns the normalized metric names to aggregate, sorted. When
// metrics is empty, every metric present in the results is used.
func (c *Comparison) metricNames(metrics []string) []string {
	seen := make(map[string]struct{})
	if len(metrics) > 0 {
		for _, name := range metrics {
			seen[NormalizeMetricName(name)] = struct{}{}
		}
	} else {
		for _, result := range c.results {
			for name := range result.Metrics {
				seen[NormalizeMetricName(name)] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// metricValue returns the result's value for the normalized metric name.
// Metric keys are matched after normalization, so "recall@5" satisfies a
// request for "recall". When several keys normalize to the same name the
// lexically smallest original key wins, keeping the choice deterministic.
func metricValue(result *sweepresult.ConfigResult, normalized string) (float64, bool) {
	best := ""
	var value float64
	found := false
	for name, v := range result.Metrics {
		if NormalizeMetricName(name) != normalized {
			continue
		}
		if !found || name < best {
			best = name
			value = v
			found = true
		}
	}
	return value, found
}

// Bar returns one point per configuration per requested metric, in sweep
// order within each metric. With no metrics given, every metric present in
// the results is included.
func (c *Comparison) Bar(metrics ...string) []BarPoint {
	names := c.metricNames(metrics)
	points := make([]BarPoint, 0, len(c.results)*len(names))
	for _, name := range names {
		for _, result := range c.results {
			value, ok := metricValue(result, name)
			if !ok {
				continue
			}
			points = append(points, BarPoint{
				ConfigLabel: ConfigLabel(result.Config),
				Metric:      name,
				Value:       value,
			})
		}
	}
	return points
}

// Line groups the results into series along the swept dimension x. Every
// combination of the remaining dimensions forms one series per metric, with
// points ordered by the x value: numerically for k, lexically for stage
// identifiers. x must be one of "k", "chunker", "embedder", "vector_store"
// or "reranker".
func (c *Comparison) Line(x string, metrics ...string) ([]LineSeries, error) {
	xValue, err := dimensionAccessor(x)
	if err != nil {
		return nil, err
	}
	names := c.metricNames(metrics)

	type seriesKey struct {
		rest   pipeline.Config
		metric string
	}
	series := make(map[seriesKey]*LineSeries)
	var order []seriesKey
	for _, name := range names {
		for _, result := range c.results {
			value, ok := metricValue(result, name)
			if !ok {
				continue
			}
			key := seriesKey{rest: zeroDimension(result.Config, x), metric: name}
			s, ok := series[key]
			if !ok {
				s = &LineSeries{Label: seriesLabel(key.rest, x), Metric: name}
				series[key] = s
				order = append(order, key)
			}
			s.Points = append(s.Points, LinePoint{X: xValue(result.Config), Y: value})
		}
	}

	out := make([]LineSeries, 0, len(order))
	for _, key := range order {
		s := series[key]
		sort.SliceStable(s.Points, func(i, j int) bool {
			return lessLinePoint(s.Points[i].X, s.Points[j].X)
		})
		out = append(out, *s)
	}
	return out, nil
}

// Heatmap returns the configuration-by-metric value matrix. Rows follow
// sweep order; columns are the sorted normalized metric names. A metric
// absent from a configuration's results is reported as 0.0.
func (c *Comparison) Heatmap(metrics ...string) *Heatmap {
	names := c.metricNames(metrics)
	hm := &Heatmap{
		ConfigLabels: make([]string, 0, len(c.results)),
		Metrics:      names,
		Values:       make([][]float64, 0, len(c.results)),
	}
	for _, result := range c.results {
		hm.ConfigLabels = append(hm.ConfigLabels, ConfigLabel(result.Config))
		row := make([]float64, len(names))
		for j, name := range names {
			if value, ok := metricValue(result, name); ok {
				row[j] = value
			}
		}
		hm.Values = append(hm.Values, row)
	}
	return hm
}

// dimensionAccessor returns a getter for the named sweep dimension.
func dimensionAccessor(name string) (func(pipeline.Config) any, error) {
	switch name {
	case "k":
		return func(cfg pipeline.Config) any { return cfg.K }, nil
	case "chunker":
		return func(cfg pipeline.Config) any { return cfg.Chunker }, nil
	case "embedder":
		return func(cfg pipeline.Config) any { return cfg.Embedder }, nil
	case "vector_store":
		return func(cfg pipeline.Config) any { return cfg.VectorStore }, nil
	case "reranker":
		return func(cfg pipeline.Config) any { return cfg.Reranker }, nil
	default:
		return nil, fmt.Errorf("%w: unknown line dimension %q", errs.ErrInvalidArgument, name)
	}
}

// seriesLabel renders the series' shared configuration, omitting the swept
// dimension entirely rather than showing its zero value.
func seriesLabel(rest pipeline.Config, x string) string {
	parts := make([]string, 0, 4)
	if rest.Chunker != "" {
		parts = append(parts, rest.Chunker)
	}
	if rest.Embedder != "" {
		parts = append(parts, rest.Embedder)
	}
	if x != "k" {
		parts = append(parts, fmt.Sprintf("k=%d", rest.K))
	}
	if rest.Reranker != "" {
		parts = append(parts, rest.Reranker)
	}
	return strings.Join(parts, " | ")
}

// zeroDimension clears the swept dimension so the remaining fields key the
// series the configuration belongs to.
func zeroDimension(cfg pipeline.Config, name string) pipeline.Config {
	switch name {
	case "k":
		cfg.K = 0
	case "chunker":
		cfg.Chunker = ""
	case "embedder":
		cfg.Embedder = ""
	case "vector_store":
		cfg.VectorStore = ""
	case "reranker":
		cfg.Reranker = ""
	}
	return cfg
}

// lessLinePoint orders x values within a series: ints ascend numerically,
// strings lexically, and numeric values sort before strings.
func lessLinePoint(a, b any) bool {
	ai, aInt := a.(int)
	bi, bInt := b.(int)
	switch {
	case aInt && bInt:
		return ai < bi
	case aInt:
		return true
	case bInt:
		return false
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return as < bs
}
