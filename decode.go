// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import "bytes"

// decodeResult carries what the protocol decoder wants the Receiver to do
// with a framed packet: zero or more events to hand to the Event
// Processor, zero or more reply packets to hand to the Sender, and whether
// the decoder observed a condition that should latch restartRequested.
type decodeResult struct {
	events  []event
	replies [][]byte
	latch   bool
	err     error
}

// decodePacket is the table-driven dispatch on the opcode byte described in
// the protocol decoder component. It never touches the session's mutable
// state directly - the caller (the Receiver) applies the returned result,
// keeping this function a pure, easily-tested translation from bytes to
// intent, in the spirit of the teacher's netboot package keeping packet
// parsing (parse/write) separate from socket I/O.
func decodePacket(ipid byte, outbound func() []event, opcode byte, payload []byte) decodeResult {
	switch opcode {
	case opRegistrationRequest:
		return decodeResult{replies: [][]byte{registrationResponse(ipid)}}

	case opRegistrationResult:
		return decodeRegistrationResult(payload)

	case opSerialJoin:
		return decodeSerialJoin(payload)

	case opHeartbeatA, opHeartbeatB:
		return decodeResult{}

	case opDisconnect:
		return decodeResult{latch: true}

	case opData:
		return decodeData(outbound, payload)

	default:
		return decodeResult{}
	}
}

func decodeRegistrationResult(payload []byte) decodeResult {
	switch {
	case len(payload) == 3 && bytes.Equal(payload, registrationIPIDMissingPayload):
		return decodeResult{err: ErrRegistrationRejected}
	case len(payload) == 4 && bytes.Equal(payload, registrationSuccessPayload):
		return decodeResult{replies: [][]byte{initialUpdateRequest}}
	default:
		return decodeResult{err: ErrRegistrationRejected}
	}
}

func decodeSerialJoin(payload []byte) decodeResult {
	if len(payload) < 9 {
		return decodeResult{}
	}
	join := JoinID((int(payload[5])<<8 | int(payload[6])) + 1)
	value := string(payload[8:])
	return decodeResult{events: []event{{dir: In, sigType: Serial, join: join, value: value}}}
}

func decodeData(outbound func() []event, payload []byte) decodeResult {
	if len(payload) < 4 {
		return decodeResult{}
	}
	switch payload[3] {
	case dataDigital:
		return decodeDigital(payload)
	case dataAnalog:
		return decodeAnalog(payload)
	case dataUpdateRequest:
		return decodeUpdateRequest(outbound, payload)
	case dataDateTime:
		// Informational only; no state mutation, see spec for the BCD layout.
		return decodeResult{}
	default:
		return decodeResult{}
	}
}

func decodeDigital(payload []byte) decodeResult {
	if len(payload) < 6 {
		return decodeResult{}
	}
	join := JoinID(((int(payload[5])&0x7F)<<8|int(payload[4]))+1)
	state := (int(payload[5]) & 0x80 >> 7) ^ 1
	return decodeResult{events: []event{{dir: In, sigType: Digital, join: join, value: state}}}
}

func decodeAnalog(payload []byte) decodeResult {
	if len(payload) < 8 {
		return decodeResult{}
	}
	join := JoinID((int(payload[4])<<8|int(payload[5]))+1)
	value := int(payload[6])<<8 + int(payload[7])
	return decodeResult{events: []event{{dir: In, sigType: Analog, join: join, value: value}}}
}

func decodeUpdateRequest(outbound func() []event, payload []byte) decodeResult {
	if len(payload) < 5 {
		return decodeResult{}
	}
	switch payload[4] {
	case updateStandard, updatePenultimate:
		return decodeResult{}
	case updateEndOfQuery:
		res := decodeResult{replies: [][]byte{endOfQueryAckPacket, heartbeatPacket}}
		if outbound != nil {
			res.events = outbound()
		}
		return res
	case updateEndOfQueryAck:
		return decodeResult{}
	default:
		return decodeResult{}
	}
}

// isEndOfQuery is a marker the receiver checks for to flip connected=true;
// kept as a tiny helper rather than inline magic-number comparisons at the
// call site.
func isEndOfQuery(payload []byte) bool {
	return len(payload) >= 5 && payload[3] == dataUpdateRequest && payload[4] == updateEndOfQuery
}
