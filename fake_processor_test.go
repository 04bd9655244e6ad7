// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"net"

	"golang.org/x/net/nettest"
)

// fakeProcessor is a minimal stand-in for a Crestron control processor: it
// accepts connections and queues each accepted net.Conn for the test to
// take with accept. Grounded on the accept-loop/stopping-channel
// shape of the teacher's ssh test server, adapted from an SSH handshake
// to a bare TCP socket since CIP has no transport-level auth. The listener
// comes from nettest.NewLocalListener rather than a hardcoded net.Listen
// call, so these tests pick a loopback address that actually works on the
// host running them (see the teacher's own use of nettest for portable
// test listeners).
type fakeProcessor struct {
	listener net.Listener
	stopping chan struct{}
	conns    chan net.Conn
}

func startFakeProcessor() (*fakeProcessor, error) {
	listener, err := nettest.NewLocalListener("tcp")
	if err != nil {
		return nil, err
	}
	p := &fakeProcessor{
		listener: listener,
		stopping: make(chan struct{}),
		conns:    make(chan net.Conn, 4),
	}
	go p.acceptLoop()
	return p, nil
}

func (p *fakeProcessor) acceptLoop() {
	for {
		conn, err := p.listener.Accept()
		if err != nil {
			return
		}
		select {
		case p.conns <- conn:
		case <-p.stopping:
			conn.Close()
			return
		}
	}
}

// accept blocks until a client has connected and returns that connection.
func (p *fakeProcessor) accept() net.Conn {
	return <-p.conns
}

func (p *fakeProcessor) addr() string {
	return p.listener.Addr().String()
}

func (p *fakeProcessor) stop() {
	select {
	case <-p.stopping:
	default:
		close(p.stopping)
	}
	p.listener.Close()
}

// readPacket reads exactly one framed CIP packet (opcode + 2-byte length +
// payload) off conn, blocking until it is fully available.
func readPacket(conn net.Conn) (opcode byte, payload []byte, err error) {
	hdr := make([]byte, 3)
	if _, err := readFull(conn, hdr); err != nil {
		return 0, nil, err
	}
	n := int(hdr[1])<<8 | int(hdr[2])
	payload = make([]byte, n)
	if n > 0 {
		if _, err := readFull(conn, payload); err != nil {
			return 0, nil, err
		}
	}
	return hdr[0], payload, nil
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
