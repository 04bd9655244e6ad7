// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import "fmt"

// encodeOutbound renders an outbound event into the CIP packet the Sender
// will transmit, and, for button-flavored digitals, the press packet to
// register with (or clear from) the button-repeat table.
func encodeOutbound(sigType SigType, fl flavor, join JoinID, value interface{}) ([]byte, error) {
	switch sigType {
	case Digital:
		return encodeDigital(fl, join, value)
	case Analog:
		return encodeAnalog(join, value)
	case Serial:
		return encodeSerial(join, value)
	default:
		return nil, fmt.Errorf("cip: encode: unknown signal type %q", sigType)
	}
}

func encodeDigital(fl flavor, join JoinID, value interface{}) ([]byte, error) {
	state, ok := value.(int)
	if !ok || (state != 0 && state != 1) {
		return nil, fmt.Errorf("cip: encode: %v is not a valid digital value", value)
	}

	var tmpl []byte
	switch fl {
	case flavorButton:
		tmpl = tmplButton
	case flavorPulse:
		tmpl = tmplPulse
	default:
		tmpl = tmplDigital
	}

	pkt := make([]byte, len(tmpl), len(tmpl)+2)
	copy(pkt, tmpl)

	cipJoin := int(join) - 1
	packed := uint16((cipJoin / 256) | ((cipJoin % 256) << 8))
	if state == 0 {
		packed |= 0x0080
	}
	pkt = append(pkt, byte(packed>>8), byte(packed))
	return pkt, nil
}

func encodeAnalog(join JoinID, value interface{}) ([]byte, error) {
	v, ok := value.(int)
	if !ok || v < 0 || v > 65535 {
		return nil, fmt.Errorf("cip: encode: %v is not a valid analog value", value)
	}

	pkt := make([]byte, len(tmplAnalog), len(tmplAnalog)+4)
	copy(pkt, tmplAnalog)

	cipJoin := uint16(int(join) - 1)
	pkt = append(pkt, byte(cipJoin>>8), byte(cipJoin))
	pkt = append(pkt, byte(v>>8), byte(v))
	return pkt, nil
}

func encodeSerial(join JoinID, value interface{}) ([]byte, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("cip: encode: %v is not a valid serial value", value)
	}
	if len(s) > maxSerialLength {
		return nil, fmt.Errorf("cip: encode: serial value length %d exceeds max %d", len(s), maxSerialLength)
	}

	pkt := make([]byte, len(tmplSerial))
	copy(pkt, tmplSerial)
	pkt[2] = byte(8 + len(s))
	pkt[len(pkt)-1] = byte(4 + len(s))

	cipJoin := uint16(int(join) - 1)
	pkt = append(pkt, byte(cipJoin>>8), byte(cipJoin), 0x03)
	pkt = append(pkt, []byte(s)...)
	return pkt, nil
}
