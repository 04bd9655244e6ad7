// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"bytes"
	"net"
	"strconv"
	"testing"
	"time"
)

func writePacket(t *testing.T, conn net.Conn, opcode byte, payload []byte) {
	t.Helper()
	pkt := append([]byte{opcode, byte(len(payload) >> 8), byte(len(payload))}, payload...)
	if _, err := conn.Write(pkt); err != nil {
		t.Fatalf("write packet: %v", err)
	}
}

func expectPacket(t *testing.T, conn net.Conn, wantOpcode byte, wantPayload []byte) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	opcode, payload, err := readPacket(conn)
	if err != nil {
		t.Fatalf("read packet: %v", err)
	}
	if opcode != wantOpcode {
		t.Fatalf("opcode = 0x%02X, want 0x%02X", opcode, wantOpcode)
	}
	if !bytes.Equal(payload, wantPayload) {
		t.Fatalf("payload = % X, want % X", payload, wantPayload)
	}
}

// TestHandshakeAndUpdateCycle drives a Client through registration, the
// initial update request, and the end-of-query handshake, mirroring the
// byte sequence a real control processor would exchange on connect.
func TestHandshakeAndUpdateCycle(t *testing.T) {
	proc, err := startFakeProcessor()
	if err != nil {
		t.Fatalf("start fake processor: %v", err)
	}
	defer proc.stop()

	host, portStr, err := net.SplitHostPort(proc.addr())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	client := NewClient(Config{Host: host, Port: port, IPID: 0x03, Timeout: time.Second}, nil)
	if err := client.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer client.Stop()

	conn := proc.accept()
	defer conn.Close()

	// Processor asks the client to register with its configured IP-ID.
	writePacket(t, conn, opRegistrationRequest, nil)
	expectPacket(t, conn, 0x01, registrationResponse(0x03)[3:])

	// Processor confirms registration; client should immediately ask for a
	// full state dump.
	writePacket(t, conn, opRegistrationResult, registrationSuccessPayload)
	expectPacket(t, conn, initialUpdateRequest[0], initialUpdateRequest[3:])

	if client.Connected() {
		t.Fatalf("client reports connected before end-of-query handshake")
	}

	// Processor signals end of query; client should ack and heartbeat.
	eoq := []byte{0x00, 0x00, 0x02, dataUpdateRequest, updateEndOfQuery}
	writePacket(t, conn, opData, eoq)
	expectPacket(t, conn, endOfQueryAckPacket[0], endOfQueryAckPacket[3:])
	expectPacket(t, conn, heartbeatPacket[0], heartbeatPacket[3:])

	deadline := time.Now().Add(time.Second)
	for !client.Connected() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !client.Connected() {
		t.Fatalf("client never reported connected after end-of-query")
	}
}

// TestInboundDigitalNotifiesSubscriber verifies an inbound digital packet
// both updates the join store and invokes a registered callback.
func TestInboundDigitalNotifiesSubscriber(t *testing.T) {
	proc, err := startFakeProcessor()
	if err != nil {
		t.Fatalf("start fake processor: %v", err)
	}
	defer proc.stop()

	host, portStr, err := net.SplitHostPort(proc.addr())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	client := NewClient(Config{Host: host, Port: port, IPID: 0x01, Timeout: time.Second}, nil)
	if err := client.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer client.Stop()

	conn := proc.accept()
	defer conn.Close()
	writePacket(t, conn, opRegistrationRequest, nil)
	expectPacket(t, conn, 0x01, registrationResponse(0x01)[3:])
	writePacket(t, conn, opRegistrationResult, registrationSuccessPayload)
	expectPacket(t, conn, initialUpdateRequest[0], initialUpdateRequest[3:])

	seen := make(chan int, 1)
	if err := client.Subscribe(Digital, JoinID(5), func(_ SigType, _ JoinID, value interface{}) {
		seen <- value.(int)
	}); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	// Join 5 (cip join 4), pressed: join low byte 0x04, then high bits 0x00
	// with the release bit clear.
	digitalPayload := []byte{0x00, 0x00, 0x03, dataDigital, 0x04, 0x00}
	writePacket(t, conn, opData, digitalPayload)

	select {
	case v := <-seen:
		if v != 1 {
			t.Fatalf("callback value = %d, want 1", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("callback never fired")
	}

	got, err := client.Get(Digital, JoinID(5))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.(int) != 1 {
		t.Fatalf("store value = %v, want 1", got)
	}
}

// TestOutboundAnalogWireFormat checks the exact bytes of an outbound
// analog set against the worked example.
func TestOutboundAnalogWireFormat(t *testing.T) {
	proc, err := startFakeProcessor()
	if err != nil {
		t.Fatalf("start fake processor: %v", err)
	}
	defer proc.stop()

	host, portStr, err := net.SplitHostPort(proc.addr())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	client := NewClient(Config{Host: host, Port: port, IPID: 0x01, Timeout: time.Second}, nil)
	if err := client.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer client.Stop()

	conn := proc.accept()
	defer conn.Close()
	writePacket(t, conn, opRegistrationRequest, nil)
	expectPacket(t, conn, 0x01, registrationResponse(0x01)[3:])
	writePacket(t, conn, opRegistrationResult, registrationSuccessPayload)
	expectPacket(t, conn, initialUpdateRequest[0], initialUpdateRequest[3:])

	if err := client.Set(Analog, JoinID(9), 1234); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Worked example: set("a", 9, 1234) -> payload 00 00 05 14 00 08 04 D2
	expectPacket(t, conn, 0x05, []byte{0x00, 0x00, 0x05, 0x14, 0x00, 0x08, 0x04, 0xD2})
}

// TestPressRepeatsAndReleaseClears drives Press/Release and asserts the
// button-repeat invariant: a held join's press packet is re-sent on the
// buttonRepeat cadence until Release, after which no further copies arrive.
func TestPressRepeatsAndReleaseClears(t *testing.T) {
	proc, err := startFakeProcessor()
	if err != nil {
		t.Fatalf("start fake processor: %v", err)
	}
	defer proc.stop()

	host, portStr, err := net.SplitHostPort(proc.addr())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}

	client := NewClient(Config{Host: host, Port: port, IPID: 0x01, Timeout: time.Second}, nil)
	if err := client.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer client.Stop()

	conn := proc.accept()
	defer conn.Close()
	writePacket(t, conn, opRegistrationRequest, nil)
	expectPacket(t, conn, 0x01, registrationResponse(0x01)[3:])
	writePacket(t, conn, opRegistrationResult, registrationSuccessPayload)
	expectPacket(t, conn, initialUpdateRequest[0], initialUpdateRequest[3:])

	eoq := []byte{0x00, 0x00, 0x02, dataUpdateRequest, updateEndOfQuery}
	writePacket(t, conn, opData, eoq)
	expectPacket(t, conn, endOfQueryAckPacket[0], endOfQueryAckPacket[3:])
	expectPacket(t, conn, heartbeatPacket[0], heartbeatPacket[3:])

	deadline := time.Now().Add(time.Second)
	for !client.Connected() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !client.Connected() {
		t.Fatalf("client never reported connected after end-of-query")
	}

	if err := client.Press(JoinID(5)); err != nil {
		t.Fatalf("press: %v", err)
	}

	// Join 5 (cip join 4) held down: high byte 0x04, low byte 0x00.
	pressPayload := []byte{0x00, 0x00, 0x03, 0x27, 0x04, 0x00}
	expectPacket(t, conn, opData, pressPayload)

	// The Sender re-emits the held button's packet every buttonRepeat tick
	// while it stays in the button table.
	expectPacket(t, conn, opData, pressPayload)

	if err := client.Release(JoinID(5)); err != nil {
		t.Fatalf("release: %v", err)
	}

	// Join 5 released: same join bytes, state bit set.
	releasePayload := []byte{0x00, 0x00, 0x03, 0x27, 0x04, 0x80}
	expectPacket(t, conn, opData, releasePayload)

	conn.SetReadDeadline(time.Now().Add(buttonRepeat + 250*time.Millisecond))
	if _, _, err := readPacket(conn); err == nil {
		t.Fatalf("received unexpected packet after release; button table entry should have been cleared")
	}
}
