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
	"go.cresnet.dev/cip/internal/cipdebug"
)

// monitorCommand implements `cipctl monitor`: it runs the debug HTTP server,
// serving the join snapshot and a health check for as long as it's left
// running. Unlike subscribe, it prints nothing to stdout itself - point a
// browser or curl at -addr.
type monitorCommand struct {
	configFlags
	addr string
}

func (*monitorCommand) Name() string     { return "monitor" }
func (*monitorCommand) Synopsis() string { return "serve /joins and /healthz until interrupted" }
func (*monitorCommand) Usage() string    { return "cipctl monitor [flags]\n" }

func (c *monitorCommand) SetFlags(f *flag.FlagSet) {
	c.configFlags.SetFlags(f)
	f.StringVar(&c.addr, "addr", ":8080", "address to serve /joins and /healthz on")
}

func (c *monitorCommand) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := c.load()
	if err != nil {
		return usageErrorf("monitor: %v", err)
	}
	client := cip.NewClient(cfg.ClientConfig(), nil)
	if err := client.Start(); err != nil {
		return usageErrorf("monitor: %v", err)
	}
	defer client.Stop()

	srv := cipdebug.NewServer(client)
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe(c.addr) }()

	select {
	case <-ctx.Done():
		return subcommands.ExitSuccess
	case err := <-errc:
		fmt.Printf("monitor: debug server: %v\n", err)
		return subcommands.ExitFailure
	}
}
