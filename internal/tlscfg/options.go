// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

// Package tlscfg loads the TLS material used for the Elasticsearch
// connection.
package tlscfg

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
)

// Options describes the client TLS material on disk.
type Options struct {
	CAPath   string
	CertPath string
	KeyPath  string
}

// Config builds a tls.Config that verifies the server against the CA bundle
// and presents the client keypair.
func (o Options) Config() (*tls.Config, error) {
	caPEM, err := os.ReadFile(o.CAPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file %s: %w", o.CAPath, err)
	}
	certPool := x509.NewCertPool()
	if !certPool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("failed to load CA %s: no certificates found", o.CAPath)
	}
	cert, err := tls.LoadX509KeyPair(o.CertPath, o.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load client certificate %s: %w", o.CertPath, err)
	}
	return &tls.Config{
		MinVersion:   tls.VersionTLS12,
		RootCAs:      certPool,
		Certificates: []tls.Certificate{cert},
	}, nil
}
