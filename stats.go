// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"context"

	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

// Runtime measures. These are recorded but not aggregated by this package;
// a host process links in its own opencensus exporter (Stackdriver,
// Prometheus, ...) to make them visible, the same way the teacher carries
// go.opencensus.io as an ambient dependency without owning an exporter.
var (
	mConnectAttempts = stats.Int64("cip/connect_attempts", "TCP connect attempts", stats.UnitDimensionless)
	mReconnects      = stats.Int64("cip/reconnects", "completed reconnects", stats.UnitDimensionless)
	mHeartbeatsSent  = stats.Int64("cip/heartbeats_sent", "heartbeat packets sent", stats.UnitDimensionless)
	mEventsProcessed = stats.Int64("cip/events_processed", "join events processed", stats.UnitDimensionless)

	keySigType = tag.MustNewKey("sigtype")
)

// Views exposes the aggregations callers can register with view.Register to
// make the measures above observable.
var Views = []*view.View{
	{
		Name:        "cip/connect_attempts",
		Measure:     mConnectAttempts,
		Aggregation: view.Count(),
	},
	{
		Name:        "cip/reconnects",
		Measure:     mReconnects,
		Aggregation: view.Count(),
	},
	{
		Name:        "cip/heartbeats_sent",
		Measure:     mHeartbeatsSent,
		Aggregation: view.Count(),
	},
	{
		Name:        "cip/events_processed",
		Measure:     mEventsProcessed,
		TagKeys:     []tag.Key{keySigType},
		Aggregation: view.Count(),
	},
}

func recordConnectAttempt(ctx context.Context) {
	stats.Record(ctx, mConnectAttempts.M(1))
}

func recordReconnect(ctx context.Context) {
	stats.Record(ctx, mReconnects.M(1))
}

func recordHeartbeatSent(ctx context.Context) {
	stats.Record(ctx, mHeartbeatsSent.M(1))
}

func recordEventProcessed(ctx context.Context, sigType SigType) {
	ctx, err := tag.New(ctx, tag.Insert(keySigType, string(sigType)))
	if err != nil {
		stats.Record(ctx, mEventsProcessed.M(1))
		return
	}
	stats.Record(ctx, mEventsProcessed.M(1))
}
