// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jaegertracing/topology-discovery/internal/dbmodel"
)

// StateFileName is the snapshot file created under the state directory.
const StateFileName = "state.json.gz"

// StateFile returns the snapshot path under the configured state directory.
func StateFile(dir string) string {
	return filepath.Join(dir, StateFileName)
}

// LoadState reads a gzip-compressed JSON snapshot. A corrupt snapshot is an
// error the operator must resolve by deleting or repairing the file.
func LoadState(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize state file %s: %w", path, err)
	}
	state := NewState()
	if err := json.NewDecoder(gz).Decode(state); err != nil {
		return nil, fmt.Errorf("failed to deserialize state file %s: %w", path, err)
	}
	if state.Traces == nil {
		state.Traces = make(map[dbmodel.TraceID]*TraceInfo)
	}
	if state.Services == nil {
		state.Services = make(map[ServiceKey]*ServiceState)
	}
	return state, nil
}

// SaveState writes the snapshot as gzip-compressed JSON. The file is written
// in a single call; a crash mid-write leaves a truncated file, which the next
// run rejects and the operator resolves by deleting it, after which the
// topology is re-derived from the retention window.
func SaveState(path string, state *State) error {
	var buf bytes.Buffer
	gz, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(gz).Encode(state); err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}
