// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/google/subcommands"

	"go.cresnet.dev/cip"
)

// getCommand implements `cipctl get <sigtype> <join>`.
type getCommand struct {
	configFlags
	outbound bool
	wait     time.Duration
}

func (*getCommand) Name() string     { return "get" }
func (*getCommand) Synopsis() string { return "print an inbound (or outbound) join's current value" }
func (*getCommand) Usage() string {
	return "cipctl get [flags] <d|a|s> <join>\n"
}

func (c *getCommand) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
	f.BoolVar(&c.outbound, "out", false, "read back this Client's last sent value instead of the processor's")
	f.DurationVar(&c.wait, "wait", 2*time.Second, "time to let the session connect before reading")
}

func (c *getCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		return usageErrorf("get: expected exactly 2 arguments, got %d", f.NArg())
	}
	sigType := cip.SigType(f.Arg(0))
	join, err := strconv.Atoi(f.Arg(1))
	if err != nil {
		return usageErrorf("get: invalid join id %q: %v", f.Arg(1), err)
	}

	cfg, err := c.load()
	if err != nil {
		return usageErrorf("get: %v", err)
	}
	client := cip.NewClient(cfg.ClientConfig(), nil)
	if err := client.Start(); err != nil {
		return usageErrorf("get: %v", err)
	}
	defer client.Stop()

	select {
	case <-ctx.Done():
	case <-time.After(c.wait):
	}

	dir := cip.In
	if c.outbound {
		dir = cip.Out
	}
	value, err := client.Get(sigType, cip.JoinID(join), dir)
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	fmt.Println(value)
	return subcommands.ExitSuccess
}
