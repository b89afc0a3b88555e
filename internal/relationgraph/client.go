// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

// Package relationgraph models the items-and-relations document and publishes
// it to the relation-graph service.
package relationgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	proxyRoleHeader = "X-PROXY-ROLE"
	proxyRoleEditor = "Editor"
)

// ResponseError holds the status code and response body of a failed request.
type ResponseError struct {
	Err        error
	StatusCode int
	Body       []byte
}

func (r ResponseError) Error() string {
	return r.Err.Error()
}

func (r ResponseError) Unwrap() error {
	return r.Err
}

// Client publishes topology documents to the relation-graph service.
type Client struct {
	// Http client.
	Client *http.Client
	// Relation graph base URL.
	Endpoint string
}

// PutItems replaces the published topology with the given document.
func (c *Client) PutItems(ctx context.Context, doc *Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPut, fmt.Sprintf("%s/items", c.Endpoint), bytes.NewReader(body))
	if err != nil {
		return err
	}
	r.Header.Add("Content-Type", "application/json")
	r.Header.Add(proxyRoleHeader, proxyRoleEditor)
	res, err := c.Client.Do(r)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return c.handleFailedRequest(res)
	}
	return nil
}

func (*Client) handleFailedRequest(res *http.Response) error {
	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return ResponseError{
			Err:        fmt.Errorf("request failed and failed to read response body, status code: %d, %w", res.StatusCode, err),
			StatusCode: res.StatusCode,
		}
	}
	return ResponseError{
		Err:        fmt.Errorf("request failed, status code: %d, body: %s", res.StatusCode, string(bodyBytes)),
		StatusCode: res.StatusCode,
		Body:       bodyBytes,
	}
}
