// Copyright (c) 2025 The Jaeger Authors.
// SPDX-License-Identifier: Apache-2.0

// Package spanstore streams span documents out of the Elasticsearch span
// indices through a point-in-time cursor, paginated with search_after on the
// span start time.
package spanstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/olivere/elastic/v7"
	"go.uber.org/zap"

	"github.com/jaegertracing/topology-discovery/internal/dbmodel"
)

const (
	spanIndexPattern = "jaeger-span-*"
	startTimeField   = "startTime"
	pitKeepAlive     = "1m"

	defaultPageSize = 1000
)

// ErrPointInTimeNotDeleted is returned when Elasticsearch acknowledges the
// close request but reports the point in time as not freed.
var ErrPointInTimeNotDeleted = errors.New("failed to delete point in time")

// Batch is one page of the result stream. LastSort is the sort value of the
// page's last hit in microseconds since the Unix epoch; it doubles as the
// resume token for the next run.
type Batch struct {
	Spans    []dbmodel.Span
	LastSort uint64
}

// Cursor is a lazy, finite, non-restartable sequence of span batches in
// non-decreasing start-time order. It must be closed on both the success and
// the error path.
type Cursor interface {
	// Next fetches the next page. A nil batch means the stream is drained.
	Next(ctx context.Context) (*Batch, error)
	Close(ctx context.Context) error
}

// Reader opens cursors over the span indices.
type Reader interface {
	// OpenCursor starts a stream of spans with startTime >= startTimeMin,
	// ascending. A non-nil resumeAfter restarts the stream strictly after
	// the given start time.
	OpenCursor(ctx context.Context, startTimeMin time.Time, resumeAfter *time.Time) (Cursor, error)
}

// SpanReader reads spans from Elasticsearch.
type SpanReader struct {
	client   *elastic.Client
	logger   *zap.Logger
	pageSize int
}

// NewSpanReader returns a SpanReader on the given client.
func NewSpanReader(client *elastic.Client, logger *zap.Logger) *SpanReader {
	return &SpanReader{
		client:   client,
		logger:   logger,
		pageSize: defaultPageSize,
	}
}

// OpenCursor implements Reader.
func (r *SpanReader) OpenCursor(ctx context.Context, startTimeMin time.Time, resumeAfter *time.Time) (Cursor, error) {
	res, err := r.client.OpenPointInTime(spanIndexPattern).KeepAlive(pitKeepAlive).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open point in time: %w", err)
	}
	cursor := &pitCursor{
		reader: r,
		pitID:  res.Id,
		query:  elastic.NewRangeQuery(startTimeField).Gte(startTimeMin.UnixMicro()),
	}
	if resumeAfter != nil {
		searchAfter := resumeAfter.UnixMicro()
		cursor.searchAfter = &searchAfter
	}
	return cursor, nil
}

// pitCursor pages through a point-in-time snapshot of the span indices. The
// backend may rotate the point-in-time id between pages.
type pitCursor struct {
	reader      *SpanReader
	pitID       string
	query       elastic.Query
	searchAfter *int64
	drained     bool
}

func (c *pitCursor) Next(ctx context.Context) (*Batch, error) {
	if c.drained {
		return nil, nil
	}

	search := c.reader.client.Search().
		Query(c.query).
		Sort(startTimeField, true).
		Size(c.reader.pageSize).
		PointInTime(elastic.NewPointInTimeWithKeepAlive(c.pitID, pitKeepAlive))
	if c.searchAfter != nil {
		c.reader.logger.Debug("fetching page", zap.Int64("search_after", *c.searchAfter))
		search = search.SearchAfter(*c.searchAfter)
	}
	res, err := search.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	if res.PitId != "" {
		c.pitID = res.PitId
	}
	if res.Hits == nil || len(res.Hits.Hits) == 0 {
		c.drained = true
		return nil, nil
	}

	batch := &Batch{Spans: make([]dbmodel.Span, 0, len(res.Hits.Hits))}
	for _, hit := range res.Hits.Hits {
		span, err := unmarshalSpan(hit.Source)
		if err != nil {
			return nil, err
		}
		batch.Spans = append(batch.Spans, span)
		sortValue, err := hitSortValue(hit)
		if err != nil {
			return nil, err
		}
		batch.LastSort = sortValue
	}
	resume := int64(batch.LastSort)
	c.searchAfter = &resume
	return batch, nil
}

func (c *pitCursor) Close(ctx context.Context) error {
	if c.pitID == "" {
		return nil
	}
	res, err := c.reader.client.ClosePointInTime(c.pitID).Do(ctx)
	c.pitID = ""
	if err != nil {
		return fmt.Errorf("failed to close point in time: %w", err)
	}
	if !res.Succeeded {
		return ErrPointInTimeNotDeleted
	}
	return nil
}

// unmarshalSpan decodes a span document. json.Number keeps 64-bit tag values
// intact where float64 would round them.
func unmarshalSpan(source json.RawMessage) (dbmodel.Span, error) {
	var span dbmodel.Span
	d := json.NewDecoder(bytes.NewReader(source))
	d.UseNumber()
	if err := d.Decode(&span); err != nil {
		return dbmodel.Span{}, fmt.Errorf("failed to unmarshal span: %w", err)
	}
	return span, nil
}

// hitSortValue extracts the startTime sort value of a hit, the cursor's
// resume token.
func hitSortValue(hit *elastic.SearchHit) (uint64, error) {
	if len(hit.Sort) == 0 {
		return 0, errors.New("search hit without sort value")
	}
	switch v := hit.Sort[0].(type) {
	case json.Number:
		value, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid sort value %q: %w", v.String(), err)
		}
		return value, nil
	case float64:
		return uint64(v), nil
	default:
		return 0, fmt.Errorf("invalid sort value of type %T", hit.Sort[0])
	}
}
