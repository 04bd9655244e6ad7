// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import "sync"

// sessionFlag is a mutex-guarded boolean, used for connected and
// restartRequested. The spec calls for write-ordering under a lock with
// atomic-style reads; a sync.Mutex-guarded bool gives both without
// reaching for sync/atomic's more fiddly int32 dance for a single bit.
type sessionFlag struct {
	mu  sync.Mutex
	val bool
}

func (f *sessionFlag) get() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.val
}

func (f *sessionFlag) set(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.val = v
}
