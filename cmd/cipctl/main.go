// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"go.cresnet.dev/cip/internal/cipconfig"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&setCommand{}, "")
	subcommands.Register(&getCommand{}, "")
	subcommands.Register(&subscribeCommand{}, "")
	subcommands.Register(&pressCommand{}, "")
	subcommands.Register(&pulseCommand{}, "")
	subcommands.Register(&monitorCommand{}, "")

	flag.Parse()
	ctx := cancelOnInterrupt(context.Background())
	os.Exit(int(subcommands.Execute(ctx)))
}

// configFlags is embedded by every subcommand that needs to dial a control
// processor: it resolves a YAML config file the way botanist's commands
// resolve a device config file, falling back to cipconfig.DefaultPath.
type configFlags struct {
	configPath string
}

func (c *configFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.configPath, "config", "", "path to a cipctl YAML config file (default ~/.cipctl.yaml)")
}

func (c *configFlags) load() (cipconfig.File, error) {
	path := c.configPath
	if path == "" {
		var err error
		path, err = cipconfig.DefaultPath()
		if err != nil {
			return cipconfig.File{}, err
		}
	}
	return cipconfig.Load(path)
}

func usageErrorf(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return subcommands.ExitUsageError
}
