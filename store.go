// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import "sync"

// joinKey addresses a single join slot. Replacing the source's triple-nested
// map (direction -> sigtype -> join -> [value, callbacks...]) with a flat
// map keyed by this struct removes the KeyError-as-control-flow pattern the
// original implementation relied on.
type joinKey struct {
	dir     Direction
	sigType SigType
	join    JoinID
}

// joinRecord is the value half of the store: a join's current value and its
// subscriber list.
type joinRecord struct {
	value     interface{}
	callbacks []Callback
}

func zeroValue(sigType SigType) interface{} {
	if sigType == Serial {
		return ""
	}
	return 0
}

// joinStore is the single mapping described in the spec's data model. Reads
// and writes are serialized under one mutex; the critical section is held
// only for the duration of a single upsert (callbacks are snapshotted and
// invoked after the lock is released, see DESIGN.md for the reentrancy
// rationale).
type joinStore struct {
	mu      sync.Mutex
	records map[joinKey]*joinRecord
}

func newJoinStore() *joinStore {
	return &joinStore{records: make(map[joinKey]*joinRecord)}
}

// get returns the current value at key, or the signal type's zero value if
// the join has never been observed or subscribed.
func (s *joinStore) get(key joinKey) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[key]; ok {
		return rec.value
	}
	return zeroValue(key.sigType)
}

// subscribe appends callback to key's subscriber list, creating a
// default-valued entry if absent.
func (s *joinStore) subscribe(key joinKey, cb Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		rec = &joinRecord{value: zeroValue(key.sigType)}
		s.records[key] = rec
	}
	rec.callbacks = append(rec.callbacks, cb)
}

// outboundSnapshot is one entry from snapshotOutbound or snapshotAll: a
// known join, its direction, and its current value.
type outboundSnapshot struct {
	dir     Direction
	sigType SigType
	join    JoinID
	value   interface{}
}

// snapshotOutbound returns every known outbound join and its current value,
// used to replay outbound state to a freshly (re)connected processor.
func (s *joinStore) snapshotOutbound() []outboundSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []outboundSnapshot
	for key, rec := range s.records {
		if key.dir != Out {
			continue
		}
		out = append(out, outboundSnapshot{dir: key.dir, sigType: key.sigType, join: key.join, value: rec.value})
	}
	return out
}

// snapshotAll returns every known join and its current value, regardless
// of direction. Used by the debug HTTP endpoint.
func (s *joinStore) snapshotAll() []outboundSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]outboundSnapshot, 0, len(s.records))
	for key, rec := range s.records {
		out = append(out, outboundSnapshot{dir: key.dir, sigType: key.sigType, join: key.join, value: rec.value})
	}
	return out
}

// upsert sets key's value and returns the callbacks to invoke for it. Per
// spec, callbacks only fire when the entry pre-existed (a join nobody has
// ever observed or subscribed to has no subscribers by construction, but we
// still guard explicitly since a freshly created entry must not replay to
// callbacks registered concurrently with this very upsert).
func (s *joinStore) upsert(key joinKey, value interface{}) (callbacks []Callback, existed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[key]
	if !ok {
		s.records[key] = &joinRecord{value: value}
		return nil, false
	}
	rec.value = value
	cbs := make([]Callback, len(rec.callbacks))
	copy(cbs, rec.callbacks)
	return cbs, true
}
