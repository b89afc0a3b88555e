// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package topology

import (
	"github.com/jaegertracing/topology-discovery/internal/dbmodel"
	"github.com/jaegertracing/topology-discovery/internal/relationgraph"
)

// Process tags contributing to the service identity.
const (
	serviceNamespaceTagKey  = "service.namespace"
	serviceInstanceIDTagKey = "service.instance.id"
)

// metaTagProperties maps recognized process tag keys to the relation-graph
// property they populate. Tags outside this table carry no deployment
// information and are dropped.
var metaTagProperties = map[string]string{
	"service.version":        "jaeger/service_version",
	"deployment.environment": "jaeger/deployment_environment",
	"k8s.cluster.name":       "jaeger/k8s_cluster_name",
	"k8s.cluster.uid":        "jaeger/k8s_cluster_uid",
	"k8s.node.name":          "jaeger/k8s_node_name",
	"k8s.node.uid":           "jaeger/k8s_node_uid",
	"k8s.namespace.name":     "jaeger/k8s_namespace_name",
	"k8s.pod.name":           "jaeger/k8s_pod_name",
	"k8s.pod.uid":            "jaeger/k8s_pod_uid",
	"k8s.container.name":     "jaeger/k8s_container_name",
	"k8s.replicaset.name":    "jaeger/k8s_replicaset_name",
	"k8s.replicaset.uid":     "jaeger/k8s_replicaset_uid",
	"k8s.deployment.name":    "jaeger/k8s_deployment_name",
	"k8s.deployment.uid":     "jaeger/k8s_deployment_uid",
	"k8s.statefulset.name":   "jaeger/k8s_statefulset_name",
	"k8s.statefulset.uid":    "jaeger/k8s_statefulset_uid",
	"k8s.daemonset.name":     "jaeger/k8s_daemonset_name",
	"k8s.daemonset.uid":      "jaeger/k8s_daemonset_uid",
	"k8s.job.name":           "jaeger/k8s_job_name",
	"k8s.job.uid":            "jaeger/k8s_job_uid",
	"k8s.cronjob.name":       "jaeger/k8s_cronjob_name",
	"k8s.cronjob.uid":        "jaeger/k8s_cronjob_uid",
}

// ServiceMeta holds the recognized deployment attributes of a service,
// keyed by relation-graph property name. The last span of a service wins:
// its meta replaces whatever was recorded before.
type ServiceMeta map[string]relationgraph.StringProperty

// serviceMetaFromTags extracts the recognized deployment attributes from
// process tags. Only string-valued tags match; for repeated keys the last
// one wins.
func serviceMetaFromTags(tags []dbmodel.KeyValue) ServiceMeta {
	meta := make(ServiceMeta)
	for _, tag := range tags {
		prop, ok := metaTagProperties[tag.Key]
		if !ok {
			continue
		}
		if s, ok := stringValue(tag); ok {
			meta[prop] = relationgraph.StringProperty{String: s}
		}
	}
	return meta
}

// serviceKeyFromProcess resolves the identity of the service that emitted a
// span. The first string-valued service.namespace and service.instance.id
// tags contribute the optional key parts.
func serviceKeyFromProcess(process dbmodel.Process) ServiceKey {
	key := ServiceKey{Name: process.ServiceName}
	for _, tag := range process.Tags {
		switch tag.Key {
		case serviceNamespaceTagKey:
			if s, ok := stringValue(tag); ok && key.Namespace == "" {
				key.Namespace = s
			}
		case serviceInstanceIDTagKey:
			if s, ok := stringValue(tag); ok && key.InstanceID == "" {
				key.InstanceID = s
			}
		}
	}
	return key
}

func stringValue(tag dbmodel.KeyValue) (string, bool) {
	if tag.Type != dbmodel.StringType {
		return "", false
	}
	s, ok := tag.Value.(string)
	return s, ok
}
