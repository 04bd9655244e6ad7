// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// cancelOnInterrupt returns a Context canceled the moment the process
// receives SIGINT or SIGTERM, so a blocking subcommand like monitor can
// shut down its Client cleanly instead of leaving a TCP socket dangling.
func cancelOnInterrupt(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		if s := <-sigs; s != nil {
			cancel()
		}
	}()
	return ctx
}
