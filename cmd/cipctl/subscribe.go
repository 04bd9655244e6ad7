// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"go.cresnet.dev/cip"
)

// subscribeCommand implements `cipctl subscribe`: it subscribes to inbound
// joins 1 through -max-join of every signal type in -sigtypes and prints
// changes as they arrive, until interrupted. Joins above -max-join are not
// printed.
type subscribeCommand struct {
	configFlags
	sigTypes string
	maxJoin  int
}

func (*subscribeCommand) Name() string     { return "subscribe" }
func (*subscribeCommand) Synopsis() string { return "print inbound join changes until interrupted" }
func (*subscribeCommand) Usage() string    { return "cipctl subscribe [flags]\n" }

func (c *subscribeCommand) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
	f.StringVar(&c.sigTypes, "sigtypes", "das", "signal types to subscribe to, any of d/a/s")
	f.IntVar(&c.maxJoin, "max-join", 512, "highest join number to subscribe to")
}

func (c *subscribeCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.load()
	if err != nil {
		return usageErrorf("subscribe: %v", err)
	}
	client := cip.NewClient(cfg.ClientConfig(), nil)
	if err := client.Start(); err != nil {
		return usageErrorf("subscribe: %v", err)
	}
	defer client.Stop()

	for _, r := range c.sigTypes {
		sigType := cip.SigType(string(r))
		for j := 1; j <= c.maxJoin; j++ {
			join := cip.JoinID(j)
			_ = client.Subscribe(sigType, join, func(sigType cip.SigType, join cip.JoinID, value interface{}) {
				fmt.Printf("%s %d = %v\n", sigType, join, value)
			})
		}
	}

	<-ctx.Done()
	return subcommands.ExitSuccess
}
