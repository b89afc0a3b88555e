// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

// Package topology reconstructs the service invocation graph from spans and
// keeps it in an incrementally updated, periodically pruned state that can
// be snapshotted between runs.
package topology

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jaegertracing/topology-discovery/internal/dbmodel"
)

const (
	// TraceWindow bounds how long a trace stays in the stitching index
	// after the newest ingested span.
	TraceWindow = 300 * time.Second
	// TopologyWindow bounds how long services, operations and relations
	// are retained after they were last observed.
	TopologyWindow = 7 * 24 * time.Hour
)

// ErrTimestampOutOfBounds is returned for span timestamps that cannot be
// represented as a time.Time.
var ErrTimestampOutOfBounds = errors.New("timestamp out of bounds")

// State is the aggregate persisted between runs: the short-lived span index
// used for stitching, the discovered topology and the startTime high-water
// mark of the newest ingested span.
type State struct {
	Traces   map[dbmodel.TraceID]*TraceInfo `json:"traces"`
	Services map[ServiceKey]*ServiceState   `json:"services"`
	LastSpan *time.Time                     `json:"last_span"`
}

// TraceInfo indexes the spans of one trace while the trace is inside the
// stitching window.
type TraceInfo struct {
	LastSeen time.Time                    `json:"last_seen"`
	Spans    map[dbmodel.SpanID]*SpanInfo `json:"spans"`
}

// SpanInfo is the per-span stitching record. Key is set once the span itself
// has been ingested. ParentOf collects the operations of child spans that
// arrived before this span and wait for it to resolve their caller.
type SpanInfo struct {
	Key      *OperationKey  `json:"key"`
	ParentOf []OperationKey `json:"parent_of,omitempty"`
}

// ServiceState tracks one discovered service. Relations are keyed by the
// calling service; the owning service is the callee.
type ServiceState struct {
	ID         uuid.UUID                     `json:"id"`
	Meta       ServiceMeta                   `json:"meta"`
	Relations  map[ServiceKey]*RelationState `json:"relations"`
	Operations map[string]*OperationState    `json:"operations"`
}

// OperationState tracks one named operation of a service. Relations are
// keyed by the calling service and operation name; the owning operation is
// the callee.
type OperationState struct {
	ID        uuid.UUID                                `json:"id"`
	Relations map[ServiceKey]map[string]*RelationState `json:"relations"`
	LastSeen  time.Time                                `json:"last_seen"`
}

// RelationState tracks one caller edge.
type RelationState struct {
	ID       uuid.UUID `json:"id"`
	LastSeen time.Time `json:"last_seen"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		Traces:   make(map[dbmodel.TraceID]*TraceInfo),
		Services: make(map[ServiceKey]*ServiceState),
	}
}

// SetLastSpan advances the high-water mark to the startTime of the newest
// span returned by the search cursor.
func (s *State) SetLastSpan(t time.Time) {
	s.LastSpan = &t
}

// TimeFromMicros converts a span timestamp in microseconds since the Unix
// epoch to a UTC time.
func TimeFromMicros(us uint64) (time.Time, error) {
	if us > math.MaxInt64 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrTimestampOutOfBounds, us)
	}
	return time.UnixMicro(int64(us)).UTC(), nil
}
