//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

// Package record models the output payload of dataset examples and retrieval
// runs. External datasets expose outputs either as a plain sequence of chunk
// identifiers or as a mapping with named fields, so the payload is a tagged
// variant rather than a duck-typed value.
package record

import "encoding/json"

// Well-known mapping field names, in extraction precedence order for
// text-granularity consumers.
const (
	FieldChunks          = "chunks"
	FieldChunkText       = "chunk_text"
	FieldRetrievedChunks = "retrieved_chunks"
	FieldChunkIDs        = "chunk_ids"
)

type outputsKind int

const (
	kindEmpty outputsKind = iota
	kindSequence
	kindMapping
)

// Outputs is the tagged-variant output payload of an example or a run.
// The zero value is the empty payload.
type Outputs struct {
	kind   outputsKind
	seq    []string
	fields map[string][]string
}

// Sequence builds an Outputs holding a plain ordered sequence.
func Sequence(values ...string) Outputs {
	return Outputs{kind: kindSequence, seq: values}
}

// Mapping builds an Outputs holding named fields.
func Mapping(fields map[string][]string) Outputs {
	return Outputs{kind: kindMapping, fields: fields}
}

// IsEmpty reports whether the payload carries no data at all.
func (o Outputs) IsEmpty() bool {
	return o.kind == kindEmpty
}

// AsSequence returns the plain sequence and whether the payload is one.
func (o Outputs) AsSequence() ([]string, bool) {
	if o.kind != kindSequence {
		return nil, false
	}
	return o.seq, true
}

// Field returns the named mapping field. It returns nil when the payload is
// not a mapping or the field is absent.
func (o Outputs) Field(name string) []string {
	if o.kind != kindMapping {
		return nil
	}
	return o.fields[name]
}

// Extract resolves the payload against an ordered field preference list:
// a plain sequence is returned directly, a mapping is probed field by field
// in the given order, and an empty payload yields nil.
func (o Outputs) Extract(preference ...string) []string {
	switch o.kind {
	case kindSequence:
		return o.seq
	case kindMapping:
		for _, name := range preference {
			if values, ok := o.fields[name]; ok {
				return values
			}
		}
	}
	return nil
}

// outputsJSON is the serialized form of Outputs.
type outputsJSON struct {
	Sequence []string            `json:"sequence,omitempty"`
	Fields   map[string][]string `json:"fields,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (o Outputs) MarshalJSON() ([]byte, error) {
	return json.Marshal(outputsJSON{Sequence: o.seq, Fields: o.fields})
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Outputs) UnmarshalJSON(data []byte) error {
	var raw outputsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Fields != nil:
		*o = Mapping(raw.Fields)
	case raw.Sequence != nil:
		*o = Sequence(raw.Sequence...)
	default:
		*o = Outputs{}
	}
	return nil
}
