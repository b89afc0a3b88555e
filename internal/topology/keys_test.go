// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceKeyString(t *testing.T) {
	tests := []struct {
		name     string
		key      ServiceKey
		expected string
	}{
		{
			name:     "name only",
			key:      ServiceKey{Name: "frontend"},
			expected: "frontend",
		},
		{
			name:     "namespaced",
			key:      ServiceKey{Namespace: "shop", Name: "frontend"},
			expected: "shop/frontend",
		},
		{
			name:     "with instance",
			key:      ServiceKey{Name: "frontend", InstanceID: "pod-1"},
			expected: "frontend pod-1",
		},
		{
			name:     "all parts",
			key:      ServiceKey{Namespace: "shop", Name: "frontend", InstanceID: "pod-1"},
			expected: "shop/frontend pod-1",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.key.String())
			assert.Equal(t, test.key, ParseServiceKey(test.expected))
		})
	}
}

func TestParseServiceKeySplitsOnFirstSeparator(t *testing.T) {
	key := ParseServiceKey("a/b/c d e")
	assert.Equal(t, ServiceKey{Namespace: "a", Name: "b/c", InstanceID: "d e"}, key)
}

func TestServiceKeyCompare(t *testing.T) {
	ordered := []ServiceKey{
		{Name: "frontend"},
		{Name: "frontend", InstanceID: "pod-1"},
		{Name: "payments"},
		{Namespace: "shop", Name: "frontend"},
	}
	for i := range ordered {
		assert.Zero(t, ordered[i].Compare(ordered[i]))
		for j := i + 1; j < len(ordered); j++ {
			assert.Negative(t, ordered[i].Compare(ordered[j]))
			assert.Positive(t, ordered[j].Compare(ordered[i]))
		}
	}
}

func TestServiceKeyAsJSONMapKey(t *testing.T) {
	in := map[ServiceKey]int{
		{Namespace: "shop", Name: "frontend", InstanceID: "pod-1"}: 1,
		{Name: "payments"}: 2,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"shop/frontend pod-1": 1, "payments": 2}`, string(data))

	var out map[ServiceKey]int
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestOperationKeyJSON(t *testing.T) {
	key := OperationKey{
		ServiceKey:    ServiceKey{Namespace: "shop", Name: "frontend"},
		OperationName: "GET /checkout",
	}
	data, err := json.Marshal(key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"service_key": "shop/frontend", "operation_name": "GET /checkout"}`, string(data))

	var out OperationKey
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, key, out)
}
