// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

// Package discovery sequences one topology discovery iteration and runs it
// periodically.
package discovery

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/jaegertracing/topology-discovery/internal/relationgraph"
	"github.com/jaegertracing/topology-discovery/internal/spanstore"
	"github.com/jaegertracing/topology-discovery/internal/topology"
)

// Publisher sends a topology document downstream.
type Publisher interface {
	PutItems(ctx context.Context, doc *relationgraph.Document) error
}

// Discoverer owns the persistent state and runs discovery iterations against
// the span store and the relation graph.
type Discoverer struct {
	logger    *zap.Logger
	reader    spanstore.Reader
	publisher Publisher
	statePath string
	state     *topology.State
}

// NewDiscoverer loads the state snapshot, or starts empty when none exists
// yet. A snapshot that exists but cannot be read or decoded is a startup
// error the operator must resolve.
func NewDiscoverer(logger *zap.Logger, reader spanstore.Reader, publisher Publisher, stateDir string) (*Discoverer, error) {
	statePath := topology.StateFile(stateDir)
	state := topology.NewState()
	if _, err := os.Stat(statePath); err == nil {
		state, err = topology.LoadState(statePath)
		if err != nil {
			return nil, err
		}
	}
	return &Discoverer{
		logger:    logger,
		reader:    reader,
		publisher: publisher,
		statePath: statePath,
		state:     state,
	}, nil
}

// Discover runs one iteration: drain all new spans into the state, prune,
// publish the materialized topology and persist the snapshot. The snapshot is
// written only on full success; a failed iteration is retried from the
// previous snapshot on the next tick.
func (d *Discoverer) Discover(ctx context.Context) error {
	d.logger.Info("running discovery")

	now := time.Now().UTC()
	operThreshold := now.Add(-topology.TopologyWindow)

	cursor, err := d.reader.OpenCursor(ctx, operThreshold, d.state.LastSpan)
	if err != nil {
		return err
	}
	spans, drainErr := d.drain(ctx, cursor)
	if err := cursor.Close(ctx); err != nil {
		d.logger.Warn("failed to close point in time", zap.Error(err))
	}
	if drainErr != nil {
		return drainErr
	}
	d.logger.Info("processed spans", zap.Int("spans", spans))

	d.state.PruneTopology(operThreshold)

	doc := d.state.Document()
	d.logger.Info("publishing topology",
		zap.Int("items", len(doc.Items.Items)),
		zap.Int("relations", len(doc.Items.Relations)))
	if err := d.publisher.PutItems(ctx, doc); err != nil {
		return err
	}

	return topology.SaveState(d.statePath, d.state)
}

// drain ingests all pages of the cursor. The high-water mark is taken from
// the sort value of each batch's last hit, before the batch's spans are
// ingested, and the stitching index is pruned after every batch.
func (d *Discoverer) drain(ctx context.Context, cursor spanstore.Cursor) (int, error) {
	spans := 0
	for {
		batch, err := cursor.Next(ctx)
		if err != nil {
			return spans, err
		}
		if batch == nil {
			return spans, nil
		}
		lastSpan, err := topology.TimeFromMicros(batch.LastSort)
		if err != nil {
			return spans, err
		}
		d.state.SetLastSpan(lastSpan)
		for i := range batch.Spans {
			if err := d.state.IngestSpan(&batch.Spans[i]); err != nil {
				return spans, err
			}
			spans++
		}
		d.state.PruneTraces()
	}
}

// Run executes Discover immediately and then on every interval, measured
// from the completion of the previous iteration, until the context is
// canceled. Failed iterations are logged; the loop keeps going.
func (d *Discoverer) Run(ctx context.Context, interval time.Duration) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down")
			return
		case <-timer.C:
		}
		if err := d.Discover(ctx); err != nil {
			d.logger.Warn("discovery failed", zap.Error(err))
		}
		timer.Reset(interval)
	}
}
