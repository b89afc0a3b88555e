// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package topology

import "strings"

// ServiceKey identifies a discovered service. Namespace and InstanceID are
// optional; the empty string means the corresponding resource attribute was
// not present on the span.
type ServiceKey struct {
	Namespace  string
	Name       string
	InstanceID string
}

// String renders the key in its one-line form, "namespace/name instance-id",
// omitting the namespace and instance-id parts when empty.
func (k ServiceKey) String() string {
	var sb strings.Builder
	if k.Namespace != "" {
		sb.WriteString(k.Namespace)
		sb.WriteByte('/')
	}
	sb.WriteString(k.Name)
	if k.InstanceID != "" {
		sb.WriteByte(' ')
		sb.WriteString(k.InstanceID)
	}
	return sb.String()
}

// ParseServiceKey is the inverse of String: everything before the first '/'
// is the namespace, everything after the first space is the instance id.
func ParseServiceKey(s string) ServiceKey {
	var key ServiceKey
	if ns, rest, ok := strings.Cut(s, "/"); ok {
		key.Namespace = ns
		s = rest
	}
	key.Name, key.InstanceID, _ = strings.Cut(s, " ")
	return key
}

// Compare orders keys by namespace, name and instance id, in that order.
func (k ServiceKey) Compare(other ServiceKey) int {
	if c := strings.Compare(k.Namespace, other.Namespace); c != 0 {
		return c
	}
	if c := strings.Compare(k.Name, other.Name); c != 0 {
		return c
	}
	return strings.Compare(k.InstanceID, other.InstanceID)
}

// MarshalText implements encoding.TextMarshaler. Keys serialize as their
// one-line form, including when used as JSON object keys.
func (k ServiceKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ServiceKey) UnmarshalText(text []byte) error {
	*k = ParseServiceKey(string(text))
	return nil
}

// OperationKey identifies a named operation of a service.
type OperationKey struct {
	ServiceKey    ServiceKey `json:"service_key"`
	OperationName string     `json:"operation_name"`
}
