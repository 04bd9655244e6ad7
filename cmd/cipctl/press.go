// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"strconv"

	"github.com/google/subcommands"

	"go.cresnet.dev/cip"
)

// pressCommand implements `cipctl press <join>`, holding the join until
// the process is interrupted, at which point it releases and exits.
type pressCommand struct {
	configFlags
}

func (*pressCommand) Name() string     { return "press" }
func (*pressCommand) Synopsis() string { return "press and hold a digital join until interrupted" }
func (*pressCommand) Usage() string    { return "cipctl press [flags] <join>\n" }

func (c *pressCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageErrorf("press: expected exactly 1 argument, got %d", f.NArg())
	}
	join, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		return usageErrorf("press: invalid join id %q: %v", f.Arg(0), err)
	}

	cfg, err := c.load()
	if err != nil {
		return usageErrorf("press: %v", err)
	}
	client := cip.NewClient(cfg.ClientConfig(), nil)
	if err := client.Start(); err != nil {
		return usageErrorf("press: %v", err)
	}
	defer client.Stop()

	if err := client.Press(cip.JoinID(join)); err != nil {
		return usageErrorf("press: %v", err)
	}
	<-ctx.Done()
	_ = client.Release(cip.JoinID(join))
	awaitDelivery(context.Background(), client)
	return subcommands.ExitSuccess
}

// pulseCommand implements `cipctl pulse <join>`.
type pulseCommand struct {
	configFlags
}

func (*pulseCommand) Name() string     { return "pulse" }
func (*pulseCommand) Synopsis() string { return "send a single momentary digital press" }
func (*pulseCommand) Usage() string    { return "cipctl pulse [flags] <join>\n" }

func (c *pulseCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usageErrorf("pulse: expected exactly 1 argument, got %d", f.NArg())
	}
	join, err := strconv.Atoi(f.Arg(0))
	if err != nil {
		return usageErrorf("pulse: invalid join id %q: %v", f.Arg(0), err)
	}

	cfg, err := c.load()
	if err != nil {
		return usageErrorf("pulse: %v", err)
	}
	client := cip.NewClient(cfg.ClientConfig(), nil)
	if err := client.Start(); err != nil {
		return usageErrorf("pulse: %v", err)
	}
	defer client.Stop()

	if err := client.Pulse(cip.JoinID(join)); err != nil {
		return usageErrorf("pulse: %v", err)
	}
	awaitDelivery(ctx, client)
	return subcommands.ExitSuccess
}
