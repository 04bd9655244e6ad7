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

// setCommand implements `cipctl set <sigtype> <join> <value>`.
type setCommand struct {
	configFlags
}

func (*setCommand) Name() string     { return "set" }
func (*setCommand) Synopsis() string { return "set an outbound join's value" }
func (*setCommand) Usage() string {
	return "cipctl set [flags] <d|a|s> <join> <value>\n"
}

func (c *setCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 3 {
		return usageErrorf("set: expected exactly 3 arguments, got %d", f.NArg())
	}
	sigType := cip.SigType(f.Arg(0))
	join, err := strconv.Atoi(f.Arg(1))
	if err != nil {
		return usageErrorf("set: invalid join id %q: %v", f.Arg(1), err)
	}

	cfg, err := c.load()
	if err != nil {
		return usageErrorf("set: %v", err)
	}
	client := cip.NewClient(cfg.ClientConfig(), nil)
	if err := client.Start(); err != nil {
		return usageErrorf("set: %v", err)
	}
	defer client.Stop()

	value, err := parseValue(sigType, f.Arg(2))
	if err != nil {
		return usageErrorf("set: %v", err)
	}
	if err := client.Set(sigType, cip.JoinID(join), value); err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}

	awaitDelivery(ctx, client)
	return subcommands.ExitSuccess
}

// parseValue interprets raw according to sigType: digitals are 0/1,
// analogs are unsigned 16-bit integers, serials are passed through as-is.
func parseValue(sigType cip.SigType, raw string) (interface{}, error) {
	switch sigType {
	case cip.Digital:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("digital value must be 0 or 1: %w", err)
		}
		return v, nil
	case cip.Analog:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("analog value must be an integer: %w", err)
		}
		return v, nil
	case cip.Serial:
		return raw, nil
	default:
		return nil, fmt.Errorf("%q is not a valid signal type", sigType)
	}
}

// awaitDelivery gives the Sender a brief window to flush the just-queued
// event before the CLI process exits and the Client is torn down.
func awaitDelivery(ctx context.Context, client *cip.Client) {
	select {
	case <-ctx.Done():
	case <-time.After(500 * time.Millisecond):
	}
}
