// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"context"
	"errors"
	"io"
	"net"
	"time"
)

const receiveBufferSize = 4096

// receiver reads framed CIP packets off a live connection and dispatches
// each to the protocol decoder, forwarding the resulting events and reply
// packets. One receiver is spawned per connection lifetime by the
// Connection Manager; when the connection fails it latches restartRequested
// and idles, and it exits only when told to stop.
type receiver struct {
	conn    net.Conn
	ipid    byte
	log     Logger
	sessID  string
	events  chan<- event
	tx      chan<- []byte
	restart *sessionFlag
	connctd *sessionFlag
	replay  func() []event
	timeout time.Duration

	carry []byte // rolling buffer for packets split across reads (see Open Question in DESIGN.md)
}

func newReceiver(conn net.Conn, ipid byte, log Logger, sessID string, events chan<- event, tx chan<- []byte, restart, connctd *sessionFlag, replay func() []event, timeout time.Duration) *receiver {
	return &receiver{
		conn:    conn,
		ipid:    ipid,
		log:     log,
		sessID:  sessID,
		events:  events,
		tx:      tx,
		restart: restart,
		connctd: connctd,
		replay:  replay,
		timeout: timeout,
	}
}

// run blocks reading from conn, framing and dispatching packets, until
// stop is closed. A read error latches restartRequested, after which the
// loop sleeps instead of reading. A read timeout is not an error: the loop
// simply continues.
func (r *receiver) run(ctx context.Context, stop <-chan struct{}) {
	buf := make([]byte, receiveBufferSize)
	for {
		select {
		case <-stop:
			return
		default:
		}

		if r.restart.get() {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		if r.timeout > 0 {
			_ = r.conn.SetReadDeadline(time.Now().Add(r.timeout))
		}
		n, err := r.conn.Read(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			if err == io.EOF || !errors.As(err, &netErr) {
				r.log.Errorf(ctx, "%s: receive: %v", r.sessID, err)
			}
			r.restart.set(true)
			continue
		}
		if n == 0 {
			r.restart.set(true)
			continue
		}

		r.carry = append(r.carry, buf[:n]...)
		r.frameAndDispatch(ctx)
	}
}

// frameAndDispatch splits r.carry into complete CIP packets (opcode, 2-byte
// big-endian length, payload) and dispatches each via decodePacket. Unlike
// the original source, an incomplete trailing packet is preserved in
// r.carry across reads rather than discarded - see DESIGN.md's resolution
// of the cross-read reassembly Open Question.
func (r *receiver) frameAndDispatch(ctx context.Context) {
	pos := 0
	for {
		remaining := len(r.carry) - pos
		if remaining < 3 {
			break
		}
		payloadLen := int(r.carry[pos+1])<<8 | int(r.carry[pos+2])
		packetLen := payloadLen + 3
		if remaining < packetLen {
			break
		}

		opcode := r.carry[pos]
		payload := r.carry[pos+3 : pos+packetLen]
		r.dispatch(ctx, opcode, payload)
		pos += packetLen
	}
	r.carry = append([]byte(nil), r.carry[pos:]...)
}

func (r *receiver) dispatch(ctx context.Context, opcode byte, payload []byte) {
	res := decodePacket(r.ipid, r.replay, opcode, payload)
	if res.err != nil {
		r.log.Errorf(ctx, "%s: %v", r.sessID, res.err)
	}
	if isEndOfQuery(payload) && opcode == opData {
		r.connctd.set(true)
	}
	for _, ev := range res.events {
		r.events <- ev
	}
	for _, pkt := range res.replies {
		r.tx <- pkt
	}
	if res.latch {
		r.restart.set(true)
	}
}
