// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package topology

import "time"

// PruneTraces drops traces from the stitching index that have not seen a new
// span within TraceWindow of the high-water mark. Called after every batch.
// Parents arriving later than the window no longer find their waiting
// children.
func (s *State) PruneTraces() {
	if s.LastSpan == nil {
		return
	}
	threshold := s.LastSpan.Add(-TraceWindow)
	for traceID, trace := range s.Traces {
		if trace.LastSeen.Before(threshold) {
			delete(s.Traces, traceID)
		}
	}
}

// PruneTopology ages out services, operations and relations last seen before
// the threshold. Relations go first, then operations, then services whose
// operations set became empty, so that an old relation never anchors a dead
// entity.
func (s *State) PruneTopology(threshold time.Time) {
	for serviceKey, svc := range s.Services {
		for caller, rel := range svc.Relations {
			if rel.LastSeen.Before(threshold) {
				delete(svc.Relations, caller)
			}
		}
		for operationName, oper := range svc.Operations {
			for caller, byOperation := range oper.Relations {
				for callerOperation, rel := range byOperation {
					if rel.LastSeen.Before(threshold) {
						delete(byOperation, callerOperation)
					}
				}
				if len(byOperation) == 0 {
					delete(oper.Relations, caller)
				}
			}
			if oper.LastSeen.Before(threshold) {
				delete(svc.Operations, operationName)
			}
		}
		if len(svc.Operations) == 0 {
			delete(s.Services, serviceKey)
		}
	}
}
