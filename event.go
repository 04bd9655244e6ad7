// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"context"
	"time"
)

// event is the tuple the Event Processor consumes: a join-change headed
// either out to the wire or in from it. flavor only matters for outbound
// digitals; it is the tagged-variant the spec's design notes call for,
// kept distinct from sigType rather than folded into it.
type event struct {
	dir     Direction
	sigType SigType
	fl      flavor
	join    JoinID
	value   interface{}
}

// eventProcessor owns the join store and button table, and turns outbound
// events into wire packets for the Sender. It is the "~30% of the core"
// component per the component design.
type eventProcessor struct {
	store   *joinStore
	buttons *buttonTable
	log     Logger
	sessID  string

	events chan event
	tx     chan []byte

	connected *sessionFlag
	restart   *sessionFlag

	stop chan struct{}
	done chan struct{}
}

func newEventProcessor(store *joinStore, buttons *buttonTable, log Logger, sessID string, connected, restart *sessionFlag, events chan event, tx chan []byte) *eventProcessor {
	return &eventProcessor{
		store:     store,
		buttons:   buttons,
		log:       log,
		sessID:    sessID,
		events:    events,
		tx:        tx,
		connected: connected,
		restart:   restart,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// run drains the event queue until stop is closed. Matches the original
// source's busy loop with a short sleep between checks (here, a channel
// receive with the same effective cadence), keeping the suspension points
// the concurrency model calls for.
func (p *eventProcessor) run(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case ev := <-p.events:
			p.process(ctx, ev)
		case <-ticker.C:
		}
	}
}

func (p *eventProcessor) stopAndWait() {
	close(p.stop)
	<-p.done
}

func (p *eventProcessor) process(ctx context.Context, ev event) {
	key := joinKey{dir: ev.dir, sigType: ev.sigType, join: ev.join}
	callbacks, existed := p.store.upsert(key, ev.value)
	if existed {
		for _, cb := range callbacks {
			p.safeInvoke(ctx, cb, ev)
		}
	}
	recordEventProcessed(ctx, ev.sigType)
	p.log.Debugf(ctx, "%s: %s %s %d = %v", p.sessID, ev.sigType, ev.dir, ev.join, ev.value)

	if ev.dir != Out {
		return
	}
	p.emitOutbound(ctx, ev)
}

// safeInvoke runs a subscriber callback, recovering a panic inside it so a
// misbehaving callback cannot take down the Event Processor (see spec §7:
// "an exception inside a callback should be caught and logged").
func (p *eventProcessor) safeInvoke(ctx context.Context, cb Callback, ev event) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Errorf(ctx, "%s: callback for %s %d panicked: %v", p.sessID, ev.sigType, ev.join, r)
		}
	}()
	cb(ev.sigType, ev.join, ev.value)
}

func (p *eventProcessor) emitOutbound(ctx context.Context, ev event) {
	pkt, err := encodeOutbound(ev.sigType, ev.fl, ev.join, ev.value)
	if err != nil {
		p.log.Errorf(ctx, "%s: encode %s join %d: %v", p.sessID, ev.sigType, ev.join, err)
		return
	}

	if ev.sigType == Digital {
		state, _ := ev.value.(int)
		if state == 0 {
			p.buttons.clear(ev.join)
		} else if ev.fl == flavorButton {
			p.buttons.set(ev.join, pkt)
		}
	}

	if !p.connected.get() || p.restart.get() {
		// The next end-of-query handshake replays outbound state; dropping
		// here is intentional, see spec §4.5 point 3.
		return
	}
	select {
	case p.tx <- pkt:
	case <-p.stop:
	}
}

// replayOutbound walks the outbound join store and returns an event per
// known join, re-emitting its current value. Used by the end-of-query
// handler to resynchronize a reconnected session.
func (p *eventProcessor) replayOutbound() []event {
	snap := p.store.snapshotOutbound()
	out := make([]event, 0, len(snap))
	for _, s := range snap {
		out = append(out, event{dir: Out, sigType: s.sigType, fl: flavorPlain, join: s.join, value: s.value})
	}
	return out
}
