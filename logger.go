// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package cip

import (
	"context"
	"log"
)

// Logger is the diagnostic/trace collaborator a Client reports through. It
// is deliberately narrow: Client never assumes a concrete logging backend,
// matching the call shape (logger.Infof(ctx, format, args...)) used
// throughout the teacher tree's own log call sites.
type Logger interface {
	Debugf(ctx context.Context, format string, args ...interface{})
	Infof(ctx context.Context, format string, args ...interface{})
	Errorf(ctx context.Context, format string, args ...interface{})
}

// stdLogger is the default Logger used when a Client is constructed
// without one. It wraps the standard library's log package, the same
// fallback the teacher's own leaf commands (cmd/testrunner) reach for when
// no richer sink is configured.
type stdLogger struct {
	prefix string
}

func newStdLogger(prefix string) *stdLogger {
	return &stdLogger{prefix: prefix}
}

func (l *stdLogger) Debugf(ctx context.Context, format string, args ...interface{}) {
	log.Printf("["+l.prefix+"] DEBUG "+format, args...)
}

func (l *stdLogger) Infof(ctx context.Context, format string, args ...interface{}) {
	log.Printf("["+l.prefix+"] INFO "+format, args...)
}

func (l *stdLogger) Errorf(ctx context.Context, format string, args ...interface{}) {
	log.Printf("["+l.prefix+"] ERROR "+format, args...)
}
