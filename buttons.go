// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import "sync"

// buttonTable tracks the outbound "press" packet bytes for every digital
// join currently held down via button semantics. An entry exists exactly
// while the join is pressed and its outbound digital state is still 1; the
// Sender re-emits every entry's packet on its repeat cadence. Guarded by a
// dedicated mutex, independent of the join store's, since the Sender's
// repeat tick must not contend with ordinary Set/Get traffic.
type buttonTable struct {
	mu      sync.Mutex
	pressed map[JoinID][]byte
}

func newButtonTable() *buttonTable {
	return &buttonTable{pressed: make(map[JoinID][]byte)}
}

func (b *buttonTable) set(join JoinID, packet []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pressed[join] = packet
}

func (b *buttonTable) clear(join JoinID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pressed, join)
}

// snapshot returns a copy of every currently-held press packet, safe to
// range over after the lock is released.
func (b *buttonTable) snapshot() [][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([][]byte, 0, len(b.pressed))
	for _, pkt := range b.pressed {
		out = append(out, pkt)
	}
	return out
}
