// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"context"
	"net"
	"time"
)

const (
	heartbeatIdle  = 15 * time.Second
	buttonRepeat   = 500 * time.Millisecond
	sendQuantum    = 10 * time.Millisecond
)

// sender drains outbound packets onto a live connection, and carries the
// two background duties the spec assigns it: emitting a heartbeat after
// heartbeatIdle with no traffic, and re-emitting every held-down button's
// press packet on the buttonRepeat cadence. One sender is spawned per
// connection lifetime by the Connection Manager, mirroring the receiver.
type sender struct {
	conn    net.Conn
	buttons *buttonTable
	log     Logger
	sessID  string
	tx      chan []byte
	restart *sessionFlag
	connctd *sessionFlag
}

func newSender(conn net.Conn, buttons *buttonTable, log Logger, sessID string, tx chan []byte, restart, connctd *sessionFlag) *sender {
	return &sender{
		conn:    conn,
		buttons: buttons,
		log:     log,
		sessID:  sessID,
		tx:      tx,
		restart: restart,
		connctd: connctd,
	}
}

func (s *sender) run(ctx context.Context, stop <-chan struct{}) {
	idle := time.NewTimer(heartbeatIdle)
	defer idle.Stop()
	repeat := time.NewTicker(buttonRepeat)
	defer repeat.Stop()
	quantum := time.NewTicker(sendQuantum)
	defer quantum.Stop()

	for {
		select {
		case <-stop:
			return

		case pkt := <-s.tx:
			if !s.write(ctx, pkt) {
				return
			}
			resetTimer(idle, heartbeatIdle)

		case <-idle.C:
			if s.connctd.get() {
				if !s.write(ctx, heartbeatPacket) {
					return
				}
				recordHeartbeatSent(ctx)
			}
			idle.Reset(heartbeatIdle)

		case <-repeat.C:
			pkts := s.buttons.snapshot()
			for _, pkt := range pkts {
				if !s.write(ctx, pkt) {
					return
				}
			}
			if len(pkts) > 0 {
				resetTimer(idle, heartbeatIdle)
			}

		case <-quantum.C:
			// Wakes the loop even when nothing else fired, matching the
			// original's fixed-quantum drain cadence.
		}
	}
}

func (s *sender) write(ctx context.Context, pkt []byte) bool {
	if s.restart.get() {
		return true
	}
	if _, err := s.conn.Write(pkt); err != nil {
		s.log.Errorf(ctx, "%s: send: %v", s.sessID, err)
		s.restart.set(true)
		return false
	}
	return true
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
