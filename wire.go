// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

// Opcodes understood by the protocol decoder. Named the way the teacher's
// netboot package names its cmd* constants, adapted to CIP's single opcode
// byte plus, for data packets, a sub-dispatch byte.
const (
	opRegistrationRequest = 0x0F
	opRegistrationResult  = 0x02
	opData                = 0x05
	opSerialJoin          = 0x12
	opHeartbeatA          = 0x0D
	opHeartbeatB          = 0x0E
	opDisconnect          = 0x03
)

// Sub-dispatch of opData on payload[3].
const (
	dataDigital       = 0x00
	dataAnalog        = 0x14
	dataUpdateRequest = 0x03
	dataDateTime      = 0x08
)

// Sub-dispatch of dataUpdateRequest on payload[4].
const (
	updateStandard    = 0x00
	updatePenultimate = 0x16
	updateEndOfQuery  = 0x1C
	updateEndOfQueryAck = 0x1D
)

// Fixed packets exchanged by the handshake and keepalive logic.
var (
	heartbeatPacket       = []byte{0x0D, 0x00, 0x02, 0x00, 0x00}
	initialUpdateRequest  = []byte{0x05, 0x00, 0x05, 0x00, 0x00, 0x02, 0x03, 0x00}
	endOfQueryAckPacket   = []byte{0x05, 0x00, 0x05, 0x00, 0x00, 0x02, 0x03, 0x1D}
)

// registrationSuccessPayload and registrationIPIDMissingPayload are the two
// payloads opRegistrationResult is checked against.
var (
	registrationIPIDMissingPayload = []byte{0xFF, 0xFF, 0x02}
	registrationSuccessPayload     = []byte{0x00, 0x00, 0x00, 0x1F}
)

// registrationResponse builds the reply to an opRegistrationRequest,
// carrying the configured IP-ID.
func registrationResponse(ipid byte) []byte {
	return []byte{0x01, 0x00, 0x0B, 0x00, 0x00, 0x00, 0x00, 0x00, ipid, 0x40, 0xFF, 0xFF, 0xF1, 0x01}
}

// outbound packet templates, before per-event edits (see encode.go).
var (
	tmplDigital = []byte{0x05, 0x00, 0x06, 0x00, 0x00, 0x03, 0x00}
	tmplButton  = []byte{0x05, 0x00, 0x06, 0x00, 0x00, 0x03, 0x27}
	tmplPulse   = []byte{0x05, 0x00, 0x06, 0x00, 0x00, 0x03, 0x27}
	tmplAnalog  = []byte{0x05, 0x00, 0x08, 0x00, 0x00, 0x05, 0x14}
	tmplSerial  = []byte{0x12, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x34, 0x00, 0x00}
)

// maxSerialLength is the largest serial join value the one-byte length
// fields in tmplSerial can encode.
const maxSerialLength = 247
