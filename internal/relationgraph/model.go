// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package relationgraph

import "github.com/google/uuid"

// Item and relation type names of the published topology.
const (
	TypeService          = "jaeger/service"
	TypeOperation        = "jaeger/operation"
	TypeServiceInvokes   = "jaeger/service_invokes"
	TypeOperationInvokes = "jaeger/operation_invokes"
)

// Property names used on published items.
const (
	PropServiceName       = "jaeger/service_name"
	PropServiceNamespace  = "jaeger/service_namespace"
	PropServiceInstanceID = "jaeger/service_instance_id"
	PropOperationName     = "jaeger/operation_name"
)

// StringProperty wraps a string value the way the relation graph encodes
// typed property values.
type StringProperty struct {
	String string `json:"string"`
}

// Properties is the property map of an item or relation.
type Properties map[string]StringProperty

// Document is the items-and-relations payload PUT to the relation graph.
type Document struct {
	Domain Domain `json:"domain"`
	Items  World  `json:"items"`
}

// Domain restricts the item and relation types the document may contain.
// Roots is null: all published items are roots.
type Domain struct {
	Roots []uuid.UUID `json:"roots"`
	Types TypeSet     `json:"types"`
}

// TypeSet lists item and relation type names in sorted order.
type TypeSet struct {
	Items     []string `json:"items"`
	Relations []string `json:"relations"`
}

// World holds the items and relations, keyed by their stable ids.
type World struct {
	Items     map[uuid.UUID]Item     `json:"items"`
	Relations map[uuid.UUID]Relation `json:"relations"`
}

// Item is a published node: a service or one of its operations.
type Item struct {
	ItemType string `json:"item_type"`
	// Parent links an operation to its owning service.
	Parent     *uuid.UUID `json:"parent,omitempty"`
	Properties Properties `json:"properties"`
}

// Relation is a published caller-to-callee edge between two items.
type Relation struct {
	RelationType string     `json:"relation_type"`
	Source       uuid.UUID  `json:"source"`
	Target       uuid.UUID  `json:"target"`
	Properties   Properties `json:"properties"`
}
