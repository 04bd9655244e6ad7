// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"
)

const (
	connectRetryDelay = time.Second
	pollInterval      = time.Second
)

// connManager owns the TCP connection lifecycle: it dials, hands the live
// socket to a fresh receiver/sender pair, waits for either to request a
// restart, tears the pair down, and redials. It is grounded on
// tools/net/sshutil.Client's Reconnect (mutex-guarded swap of the
// underlying transport) and src/sys/pkg/bin/amber/daemon.Daemon's
// goroutine-per-activity run loop.
type connManager struct {
	cfg Config
	log Logger

	store   *joinStore
	buttons *buttonTable
	proc    *eventProcessor

	events  chan event
	tx      chan []byte
	restart *sessionFlag
	connctd *sessionFlag

	sessID string

	connMu sync.Mutex
	conn   net.Conn
}

func newConnManager(cfg Config, log Logger, store *joinStore, buttons *buttonTable, proc *eventProcessor, events chan event, tx chan []byte, restart, connctd *sessionFlag, sessID string) *connManager {
	return &connManager{
		cfg:     cfg,
		log:     log,
		store:   store,
		buttons: buttons,
		proc:    proc,
		events:  events,
		tx:      tx,
		restart: restart,
		connctd: connctd,
		sessID:  sessID,
	}
}

// run is the Connection Manager activity: connect, spawn the per-connection
// receiver/sender, wait for either a stop or a restart request, and loop.
// The Event Processor is started once, on the very first connect, and
// survives every subsequent reconnect untouched - only the socket-bound
// receiver/sender pair is torn down and rebuilt.
func (m *connManager) run(ctx context.Context, stop <-chan struct{}) {
	procStarted := false
	for attempt := 0; ; attempt++ {
		conn, err := m.connectOnce(ctx, stop)
		if err != nil {
			// stop was closed while dialing or during a retry sleep
			if procStarted {
				m.proc.stopAndWait()
			}
			return
		}
		if conn == nil {
			continue // defensive: connectOnce pairs a nil conn with an error
		}

		m.setConn(conn)
		m.restart.set(false)

		if !procStarted {
			go m.proc.run(ctx)
			procStarted = true
		} else {
			recordReconnect(ctx)
		}

		m.runConnection(ctx, stop, conn)

		conn.Close()
		m.setConn(nil)

		select {
		case <-stop:
			if procStarted {
				m.proc.stopAndWait()
			}
			return
		default:
		}
	}
}

// connectOnce blocks dialing until it succeeds or stop is closed. It logs a
// single diagnostic line while retrying rather than one per attempt, per
// the spec's "single diagnostic while failing" requirement.
func (m *connManager) connectOnce(ctx context.Context, stop <-chan struct{}) (net.Conn, error) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	announced := false
	for {
		select {
		case <-stop:
			return nil, context.Canceled
		default:
		}

		recordConnectAttempt(ctx)
		conn, err := net.DialTimeout("tcp", addr, m.cfg.Timeout)
		if err == nil {
			m.log.Infof(ctx, "%s: connected to %s", m.sessID, addr)
			return conn, nil
		}

		if !announced {
			m.log.Errorf(ctx, "%s: attempting to connect to %s: %v", m.sessID, addr, err)
			announced = true
		}

		select {
		case <-stop:
			return nil, context.Canceled
		case <-time.After(connectRetryDelay):
		}
	}
}

// runConnection starts the receiver and sender for conn and blocks until
// either exits (connection lost, restart requested) or stop fires.
func (m *connManager) runConnection(ctx context.Context, stop <-chan struct{}, conn net.Conn) {
	recv := newReceiver(conn, m.cfg.IPID, m.log, m.sessID, m.events, m.tx, m.restart, m.connctd, m.proc.replayOutbound, m.cfg.Timeout)
	snd := newSender(conn, m.buttons, m.log, m.sessID, m.tx, m.restart, m.connctd)

	inner := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); recv.run(ctx, inner) }()
	go func() { defer wg.Done(); snd.run(ctx, inner) }()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			close(inner)
			wg.Wait()
			return
		case <-ticker.C:
			if m.restart.get() {
				m.connctd.set(false)
				close(inner)
				wg.Wait()
				return
			}
		}
	}
}

func (m *connManager) setConn(conn net.Conn) {
	m.connMu.Lock()
	defer m.connMu.Unlock()
	m.conn = conn
}
