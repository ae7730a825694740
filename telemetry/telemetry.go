//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry exposes the tracer used across the evaluation engine.
// Spans are scoped to sweep cells, examples, and embedding calls so that
// diagnostics stay attached to the work that produced them.
package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentName identifies this module to the otel tracer provider.
const InstrumentName = "trpc.group/trpc-go/trpc-rageval-go"

// Tracer is the tracer used by the evaluation engine. It is a no-op unless
// the host application installs a tracer provider.
var Tracer trace.Tracer = otel.Tracer(InstrumentName)
