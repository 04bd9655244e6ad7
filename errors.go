// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import "fmt"

// ErrAlreadyRunning is returned by Start when the client is already running.
var ErrAlreadyRunning = fmt.Errorf("cip: start() called while already running")

// ErrNotRunning is returned by Stop when the client is not running.
var ErrNotRunning = fmt.Errorf("cip: stop() called while already stopped")

// ErrRegistrationRejected indicates the control processor reported that the
// configured IP-ID does not exist, or sent a registration result that is
// not the success reply. It is only logged: the Client neither stops nor
// drops the connection because of it, and reconnects only if the
// connection itself is lost. See the decision recorded in DESIGN.md for why
// this does not stop Client.
var ErrRegistrationRejected = fmt.Errorf("cip: ip-id rejected by control processor")

// InvalidSigTypeError is raised by Get and Subscribe when given a signal
// type outside {d, a, s}.
type InvalidSigTypeError struct {
	Op      string
	SigType SigType
}

func (e *InvalidSigTypeError) Error() string {
	return fmt.Sprintf("cip: %s: %q is not a valid signal type", e.Op, string(e.SigType))
}

// InvalidDirectionError is raised by Get and Subscribe when given a
// direction outside {in, out}.
type InvalidDirectionError struct {
	Op        string
	Direction Direction
}

func (e *InvalidDirectionError) Error() string {
	return fmt.Sprintf("cip: %s: %q is not a valid signal direction", e.Op, string(e.Direction))
}

// InvalidValueError is raised by Set (and its Press/Release/Pulse
// shorthands) when value doesn't fit sigType: digitals must be 0 or 1,
// analogs must be 0-65535, and serials must not exceed maxSerialLength
// once coerced to a string.
type InvalidValueError struct {
	Op      string
	SigType SigType
	Value   interface{}
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("cip: %s: %v is not a valid %s value", e.Op, e.Value, e.SigType)
}
