// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"github.com/google/uuid"

	"github.com/jaegertracing/topology-discovery/internal/relationgraph"
)

// Document materializes the retained topology into the items-and-relations
// payload published to the relation graph. Materialization is read-only and
// deterministic: running it twice on the same state yields the same document.
// Relations whose caller was pruned are dropped rather than emitted with a
// dangling id.
func (s *State) Document() *relationgraph.Document {
	items := make(map[uuid.UUID]relationgraph.Item)
	relations := make(map[uuid.UUID]relationgraph.Relation)

	for serviceKey, svc := range s.Services {
		properties := relationgraph.Properties{
			relationgraph.PropServiceName: {String: serviceKey.Name},
		}
		if serviceKey.Namespace != "" {
			properties[relationgraph.PropServiceNamespace] = relationgraph.StringProperty{String: serviceKey.Namespace}
		}
		if serviceKey.InstanceID != "" {
			properties[relationgraph.PropServiceInstanceID] = relationgraph.StringProperty{String: serviceKey.InstanceID}
		}
		for name, value := range svc.Meta {
			properties[name] = value
		}
		items[svc.ID] = relationgraph.Item{
			ItemType:   relationgraph.TypeService,
			Properties: properties,
		}

		for operationName, oper := range svc.Operations {
			parent := svc.ID
			items[oper.ID] = relationgraph.Item{
				ItemType: relationgraph.TypeOperation,
				Parent:   &parent,
				Properties: relationgraph.Properties{
					relationgraph.PropOperationName: {String: operationName},
				},
			}
		}
	}

	for _, svc := range s.Services {
		for caller, rel := range svc.Relations {
			callerSvc := s.Services[caller]
			if callerSvc == nil {
				continue
			}
			relations[rel.ID] = relationgraph.Relation{
				RelationType: relationgraph.TypeServiceInvokes,
				Source:       callerSvc.ID,
				Target:       svc.ID,
				Properties:   relationgraph.Properties{},
			}
		}
		for _, oper := range svc.Operations {
			for caller, byOperation := range oper.Relations {
				callerSvc := s.Services[caller]
				if callerSvc == nil {
					continue
				}
				for callerOperation, rel := range byOperation {
					callerOper := callerSvc.Operations[callerOperation]
					if callerOper == nil {
						continue
					}
					relations[rel.ID] = relationgraph.Relation{
						RelationType: relationgraph.TypeOperationInvokes,
						Source:       callerOper.ID,
						Target:       oper.ID,
						Properties:   relationgraph.Properties{},
					}
				}
			}
		}
	}

	return &relationgraph.Document{
		Domain: relationgraph.Domain{
			Types: relationgraph.TypeSet{
				Items:     []string{relationgraph.TypeOperation, relationgraph.TypeService},
				Relations: []string{relationgraph.TypeOperationInvokes, relationgraph.TypeServiceInvokes},
			},
		},
		Items: relationgraph.World{
			Items:     items,
			Relations: relations,
		},
	}
}
