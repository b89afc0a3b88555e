// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"time"

	"github.com/google/uuid"

	"github.com/jaegertracing/topology-discovery/internal/dbmodel"
)

// IngestSpan records one span into the state: it indexes the span for
// stitching, upserts the emitting service and operation, and derives
// caller-to-callee relations from the span's CHILD_OF reference. Spans of one
// trace may arrive in any order; a child arriving before its parent parks its
// operation key on the parent's placeholder and the relation is completed
// when the parent is ingested.
func (s *State) IngestSpan(span *dbmodel.Span) error {
	t, err := TimeFromMicros(span.StartTime)
	if err != nil {
		return err
	}

	serviceKey := serviceKeyFromProcess(span.Process)
	operationKey := OperationKey{ServiceKey: serviceKey, OperationName: span.OperationName}

	spanInfo := s.upsertTrace(span.TraceID, t).upsertSpan(span.SpanID)
	parentOf := spanInfo.ParentOf
	spanInfo.ParentOf = nil
	spanInfo.Key = &operationKey

	svc := s.Services[serviceKey]
	if svc == nil {
		svc = &ServiceState{
			ID:         uuid.New(),
			Relations:  make(map[ServiceKey]*RelationState),
			Operations: make(map[string]*OperationState),
		}
		s.Services[serviceKey] = svc
	}
	svc.Meta = serviceMetaFromTags(span.Process.Tags)

	oper := svc.Operations[span.OperationName]
	if oper == nil {
		oper = &OperationState{
			ID:        uuid.New(),
			Relations: make(map[ServiceKey]map[string]*RelationState),
		}
		svc.Operations[span.OperationName] = oper
	}
	oper.LastSeen = t

	// Upward stitch: resolve this span's parent, or defer until the parent
	// arrives. Self-loops are elided at the service granularity only; an
	// intra-service call still yields an operation relation.
	if ref, ok := firstChildOf(span.References); ok {
		parentSpan := s.upsertTrace(ref.TraceID, t).upsertSpan(ref.SpanID)
		if parentSpan.Key != nil {
			parentKey := *parentSpan.Key
			if parentKey.ServiceKey != serviceKey {
				upsertRelation(svc.Relations, parentKey.ServiceKey, t)
			}
			upsertOperationRelation(oper, parentKey, t)
		} else {
			parentSpan.ParentOf = append(parentSpan.ParentOf, operationKey)
		}
	}

	// Downward stitch: this span is the parent the listed children were
	// waiting for. Children whose service or operation was pruned in the
	// meantime are skipped at the corresponding level.
	for _, childKey := range parentOf {
		if childKey.ServiceKey != serviceKey {
			if childSvc := s.Services[childKey.ServiceKey]; childSvc != nil {
				upsertRelation(childSvc.Relations, serviceKey, t)
			}
		}
		if childSvc := s.Services[childKey.ServiceKey]; childSvc != nil {
			if childOper := childSvc.Operations[childKey.OperationName]; childOper != nil {
				upsertOperationRelation(childOper, operationKey, t)
			}
		}
	}

	return nil
}

// firstChildOf returns the first CHILD_OF reference of a span. Other
// reference types do not contribute to the topology.
func firstChildOf(refs []dbmodel.Reference) (dbmodel.Reference, bool) {
	for _, ref := range refs {
		if ref.RefType == dbmodel.ChildOf {
			return ref, true
		}
	}
	return dbmodel.Reference{}, false
}

func (s *State) upsertTrace(traceID dbmodel.TraceID, t time.Time) *TraceInfo {
	trace := s.Traces[traceID]
	if trace == nil {
		trace = &TraceInfo{Spans: make(map[dbmodel.SpanID]*SpanInfo)}
		s.Traces[traceID] = trace
	}
	trace.LastSeen = t
	return trace
}

func (trace *TraceInfo) upsertSpan(spanID dbmodel.SpanID) *SpanInfo {
	span := trace.Spans[spanID]
	if span == nil {
		span = &SpanInfo{}
		trace.Spans[spanID] = span
	}
	return span
}

func upsertRelation[K comparable](relations map[K]*RelationState, caller K, t time.Time) {
	if rel := relations[caller]; rel != nil {
		rel.LastSeen = t
		return
	}
	relations[caller] = &RelationState{ID: uuid.New(), LastSeen: t}
}

func upsertOperationRelation(oper *OperationState, caller OperationKey, t time.Time) {
	byOperation := oper.Relations[caller.ServiceKey]
	if byOperation == nil {
		byOperation = make(map[string]*RelationState)
		oper.Relations[caller.ServiceKey] = byOperation
	}
	upsertRelation(byOperation, caller.OperationName, t)
}
