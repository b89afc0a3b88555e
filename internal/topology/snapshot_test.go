// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaegertracing/topology-discovery/internal/dbmodel"
)

func TestSnapshotRoundTrip(t *testing.T) {
	state := NewState()
	span := makeSpan("T1", "P", "svcA", "op1", 1_000_000)
	span.Process.Tags = []dbmodel.KeyValue{
		stringTag("service.namespace", "shop"),
		stringTag("k8s.pod.name", "svc-a-6b7f"),
	}
	require.NoError(t, state.IngestSpan(span))
	require.NoError(t, state.IngestSpan(makeSpan("T1", "C", "svcB", "op2", 1_000_100, childOf("T1", "P"))))
	// a child still waiting for its parent
	require.NoError(t, state.IngestSpan(makeSpan("T2", "C2", "svcB", "op2", 1_000_200, childOf("T2", "P2"))))
	state.SetLastSpan(state.Services[ServiceKey{Name: "svcB"}].Operations["op2"].LastSeen)

	path := StateFile(t.TempDir())
	require.NoError(t, SaveState(path, state))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, state, loaded)
}

func TestSnapshotFieldNames(t *testing.T) {
	state := NewState()
	require.NoError(t, state.IngestSpan(makeSpan("T2", "C2", "svcB", "op2", 1_000_200, childOf("T2", "P2"))))

	path := StateFile(t.TempDir())
	require.NoError(t, SaveState(path, state))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	gz, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(gz).Decode(&raw))

	assert.Contains(t, raw, "traces")
	assert.Contains(t, raw, "services")
	assert.Contains(t, raw, "last_span")

	var traces map[string]struct {
		LastSeen string `json:"last_seen"`
		Spans    map[string]struct {
			Key      *json.RawMessage `json:"key"`
			ParentOf []struct {
				ServiceKey    string `json:"service_key"`
				OperationName string `json:"operation_name"`
			} `json:"parent_of"`
		} `json:"spans"`
	}
	require.NoError(t, json.Unmarshal(raw["traces"], &traces))
	require.Contains(t, traces, "T2")
	placeholder := traces["T2"].Spans["P2"]
	assert.Nil(t, placeholder.Key)
	require.Len(t, placeholder.ParentOf, 1)
	assert.Equal(t, "svcB", placeholder.ParentOf[0].ServiceKey)
	assert.Equal(t, "op2", placeholder.ParentOf[0].OperationName)
}

func TestLoadStateMissingFile(t *testing.T) {
	_, err := LoadState(StateFile(t.TempDir()))
	require.ErrorContains(t, err, "failed to read state file")
}

func TestLoadStateCorruptFile(t *testing.T) {
	path := StateFile(t.TempDir())
	require.NoError(t, os.WriteFile(path, []byte("not gzip"), 0o600))
	_, err := LoadState(path)
	require.ErrorContains(t, err, "failed to deserialize state file")
}

func TestLoadStateCorruptJSON(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte("{ not json"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), StateFileName)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	_, err = LoadState(path)
	require.ErrorContains(t, err, "failed to deserialize state file")
}

func TestSaveStateUnwritablePath(t *testing.T) {
	err := SaveState(filepath.Join(t.TempDir(), "missing", StateFileName), NewState())
	require.ErrorContains(t, err, "failed to write state file")
}
