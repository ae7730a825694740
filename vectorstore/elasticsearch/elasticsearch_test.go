//
// Tencent is pleased to support the open source community by making trpc-rageval-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-rageval-go is licensed under the Apache License Version 2.0.
//
//

package elasticsearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSearchHits(t *testing.T) {
	body := `{
		"hits": {
			"hits": [
				{"_source": {"content": "first chunk", "embedding": [0.1]}},
				{"_source": {"content": "second chunk"}},
				{"_source": {"other": "no content field"}}
			]
		}
	}`
	docs, err := parseSearchHits(strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, []string{"first chunk", "second chunk"}, docs)
}

func TestParseSearchHitsEmpty(t *testing.T) {
	docs, err := parseSearchHits(strings.NewReader(`{"hits": {"hits": []}}`))
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestParseSearchHitsMalformed(t *testing.T) {
	_, err := parseSearchHits(strings.NewReader(`not json`))
	require.Error(t, err)
}
