// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Client is a Cresnet-over-IP session with a single control processor. It
// owns the four concurrent activities described in the component design
// (Connection Manager, Receiver, Sender, Event Processor) and exposes the
// join-level operations callers use to talk to the processor.
//
// A Client is safe for concurrent use by multiple goroutines once started.
type Client struct {
	cfg    Config
	log    Logger
	sessID string

	store   *joinStore
	buttons *buttonTable

	events chan event
	tx     chan []byte

	connected *sessionFlag
	restart   *sessionFlag

	proc *eventProcessor
	mgr  *connManager

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewClient constructs a Client for the given configuration. A nil logger
// falls back to a stdlib-backed Logger that prefixes every line with the
// session id.
func NewClient(cfg Config, log Logger) *Client {
	cfg = cfg.withDefaults()
	sessID := uuid.New().String()
	if log == nil {
		log = newStdLogger(sessID)
	}

	c := &Client{
		cfg:       cfg,
		log:       log,
		sessID:    sessID,
		store:     newJoinStore(),
		buttons:   newButtonTable(),
		events:    make(chan event, 256),
		tx:        make(chan []byte, 256),
		connected: &sessionFlag{},
		restart:   &sessionFlag{},
	}
	c.proc = newEventProcessor(c.store, c.buttons, c.log, c.sessID, c.connected, c.restart, c.events, c.tx)
	c.mgr = newConnManager(c.cfg, c.log, c.store, c.buttons, c.proc, c.events, c.tx, c.restart, c.connected, c.sessID)
	return c
}

// Start brings up the session: it begins dialing the configured control
// processor and returns immediately without waiting for the connection to
// succeed. Returns ErrAlreadyRunning if already started.
func (c *Client) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrAlreadyRunning
	}
	c.running = true
	c.stop = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel

	c.wg.Add(1)
	stop := c.stop
	go func() {
		defer c.wg.Done()
		c.mgr.run(ctx, stop)
	}()

	c.log.Infof(ctx, "%s: started, target %s:%d ip-id 0x%02X", c.sessID, c.cfg.Host, c.cfg.Port, c.cfg.IPID)
	return nil
}

// Stop tears the session down: it stops retrying the connection, closes any
// live socket, and waits for every activity to exit. Returns ErrNotRunning
// if not started.
func (c *Client) Stop() error {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return ErrNotRunning
	}
	c.running = false
	close(c.stop)
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

// Set assigns value to an outbound join, notifying subscribers and, once
// connected, sending it to the control processor. Digital values must be
// 0 or 1, analog values 0-65535, and serial values strings no longer than
// 247 bytes.
func (c *Client) Set(sigType SigType, join JoinID, value interface{}) error {
	return c.setFlavored(sigType, join, value, flavorPlain)
}

// Press sends a digital join high and registers it with the button-repeat
// table, so the control processor keeps seeing it held until Release.
func (c *Client) Press(join JoinID) error {
	return c.setFlavored(Digital, join, 1, flavorButton)
}

// Release sends a digital join low and clears it from the button-repeat
// table.
func (c *Client) Release(join JoinID) error {
	return c.setFlavored(Digital, join, 0, flavorButton)
}

// Pulse sends a single momentary digital press - the join goes high and
// then low again - without registering the join for repeat.
func (c *Client) Pulse(join JoinID) error {
	if err := c.setFlavored(Digital, join, 1, flavorPulse); err != nil {
		return err
	}
	return c.setFlavored(Digital, join, 0, flavorPulse)
}

func (c *Client) setFlavored(sigType SigType, join JoinID, value interface{}, fl flavor) error {
	if !sigType.valid() {
		err := &InvalidSigTypeError{Op: "set", SigType: sigType}
		c.log.Errorf(context.Background(), "%s: %v", c.sessID, err)
		return err
	}
	v, err := validateSetValue(sigType, value)
	if err != nil {
		c.log.Errorf(context.Background(), "%s: %v", c.sessID, err)
		return err
	}
	c.events <- event{dir: Out, sigType: sigType, fl: fl, join: join, value: v}
	return nil
}

// validateSetValue checks value against sigType the same way the wire
// encoder will, but synchronously and before the value ever reaches the
// join store or a subscriber callback - a bad digital/analog/serial value
// must never corrupt stored state or fire callbacks with garbage (see
// DESIGN.md). Serial values are coerced to string, matching the original
// client's "anything stringable is a valid serial payload" behavior.
func validateSetValue(sigType SigType, value interface{}) (interface{}, error) {
	switch sigType {
	case Digital:
		v, ok := value.(int)
		if !ok || (v != 0 && v != 1) {
			return nil, &InvalidValueError{Op: "set", SigType: sigType, Value: value}
		}
		return v, nil
	case Analog:
		v, ok := value.(int)
		if !ok || v < 0 || v > 65535 {
			return nil, &InvalidValueError{Op: "set", SigType: sigType, Value: value}
		}
		return v, nil
	case Serial:
		s, ok := value.(string)
		if !ok {
			s = fmt.Sprintf("%v", value)
		}
		if len(s) > maxSerialLength {
			return nil, &InvalidValueError{Op: "set", SigType: sigType, Value: value}
		}
		return s, nil
	default:
		return nil, &InvalidSigTypeError{Op: "set", SigType: sigType}
	}
}

// Get returns the current value of a join. dir defaults to In (the value
// last received from the control processor); pass Out to read back the
// last value this Client sent.
func (c *Client) Get(sigType SigType, join JoinID, dir ...Direction) (interface{}, error) {
	d := In
	if len(dir) > 0 {
		d = dir[0]
	}
	if !sigType.valid() {
		return nil, &InvalidSigTypeError{Op: "get", SigType: sigType}
	}
	if !d.valid() {
		return nil, &InvalidDirectionError{Op: "get", Direction: d}
	}
	return c.store.get(joinKey{dir: d, sigType: sigType, join: join}), nil
}

// Subscribe registers cb to be invoked whenever join's value changes. dir
// defaults to In.
func (c *Client) Subscribe(sigType SigType, join JoinID, cb Callback, dir ...Direction) error {
	d := In
	if len(dir) > 0 {
		d = dir[0]
	}
	if !sigType.valid() {
		return &InvalidSigTypeError{Op: "subscribe", SigType: sigType}
	}
	if !d.valid() {
		return &InvalidDirectionError{Op: "subscribe", Direction: d}
	}
	c.store.subscribe(joinKey{dir: d, sigType: sigType, join: join}, cb)
	return nil
}

// UpdateRequest asks the connected control processor to resend its current
// state for every join, the same request the Receiver sends automatically
// right after registration succeeds. A no-op, logged at
// error level, when the session isn't currently connected.
func (c *Client) UpdateRequest() {
	if !c.connected.get() {
		c.log.Errorf(context.Background(), "%s: update_request: not connected", c.sessID)
		return
	}
	c.tx <- initialUpdateRequest
}

// Connected reports whether the session has completed the end-of-query
// handshake with the control processor and is considered live.
func (c *Client) Connected() bool {
	return c.connected.get()
}

// SessionID returns the session's randomly generated identifier, used to
// correlate log lines across a process that runs more than one Client.
func (c *Client) SessionID() string {
	return c.sessID
}

// JoinSnapshot is one entry of a Client's full join state, as returned by
// Snapshot. It exists for introspection - the debug HTTP endpoint and
// cipctl's monitor subcommand - not for the hot Set/Get/Subscribe path.
type JoinSnapshot struct {
	Direction Direction   `json:"direction"`
	SigType   SigType     `json:"type"`
	Join      JoinID      `json:"join"`
	Value     interface{} `json:"value"`
}

// Snapshot returns every join this Client currently has state for, in
// both directions.
func (c *Client) Snapshot() []JoinSnapshot {
	raw := c.store.snapshotAll()
	out := make([]JoinSnapshot, len(raw))
	for i, r := range raw {
		out[i] = JoinSnapshot{Direction: r.dir, SigType: r.sigType, Join: r.join, Value: r.value}
	}
	return out
}
