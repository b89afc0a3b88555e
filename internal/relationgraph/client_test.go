// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

package relationgraph

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyDocument() *Document {
	return &Document{
		Domain: Domain{
			Types: TypeSet{
				Items:     []string{TypeOperation, TypeService},
				Relations: []string{TypeOperationInvokes, TypeServiceInvokes},
			},
		},
		Items: World{
			Items:     map[uuid.UUID]Item{},
			Relations: map[uuid.UUID]Relation{},
		},
	}
}

func TestPutItems(t *testing.T) {
	var gotPath, gotMethod, gotRole, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotRole = r.Header.Get("X-PROXY-ROLE")
		gotContentType = r.Header.Get("Content-Type")
		var err error
		gotBody, err = io.ReadAll(r.Body)
		require.NoError(t, err)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := &Client{Client: server.Client(), Endpoint: server.URL}
	require.NoError(t, c.PutItems(context.Background(), emptyDocument()))

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/items", gotPath)
	assert.Equal(t, "Editor", gotRole)
	assert.Equal(t, "application/json", gotContentType)
	assert.JSONEq(t, `{
		"domain": {
			"roots": null,
			"types": {
				"items": ["jaeger/operation", "jaeger/service"],
				"relations": ["jaeger/operation_invokes", "jaeger/service_invokes"]
			}
		},
		"items": {"items": {}, "relations": {}}
	}`, string(gotBody))
}

func TestPutItemsAcceptsAny2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	c := &Client{Client: server.Client(), Endpoint: server.URL}
	require.NoError(t, c.PutItems(context.Background(), emptyDocument()))
}

func TestPutItemsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("relation graph unavailable"))
	}))
	defer server.Close()

	c := &Client{Client: server.Client(), Endpoint: server.URL}
	err := c.PutItems(context.Background(), emptyDocument())
	require.Error(t, err)

	var respErr ResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Equal(t, http.StatusBadGateway, respErr.StatusCode)
	assert.Equal(t, "relation graph unavailable", string(respErr.Body))
	assert.Contains(t, err.Error(), "status code: 502")
}

func TestPutItemsConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	c := &Client{Client: http.DefaultClient, Endpoint: server.URL}
	require.Error(t, c.PutItems(context.Background(), emptyDocument()))
}

func TestItemJSONOmitsParentForServices(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	data, err := json.Marshal(Item{
		ItemType:   TypeService,
		Properties: Properties{PropServiceName: {String: "svcA"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"item_type": "jaeger/service", "properties": {"jaeger/service_name": {"string": "svcA"}}}`, string(data))

	data, err = json.Marshal(Item{
		ItemType:   TypeOperation,
		Parent:     &id,
		Properties: Properties{PropOperationName: {String: "op1"}},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"item_type": "jaeger/operation",
		"parent": "00000000-0000-0000-0000-00000000000a",
		"properties": {"jaeger/operation_name": {"string": "op1"}}
	}`, string(data))
}
