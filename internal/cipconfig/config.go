// Copyright 2026 The cresnet.dev Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cipconfig loads cipctl's YAML configuration file, the way
// fuchsia's botanist tooling loads its own JSON device configs: a thin
// struct plus a decoder, with a sensible default path under the user's
// home directory.
package cipconfig

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"

	"go.cresnet.dev/cip"
)

// File is the on-disk shape of a cipctl config file.
type File struct {
	Host    string        `yaml:"host"`
	IPID    int           `yaml:"ip_id"`
	Port    int           `yaml:"port,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// DefaultPath is ~/.cipctl.yaml, resolved via go-homedir so it also works
// when cross-compiled or run with a manipulated HOME (e.g. under sudo).
func DefaultPath() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("cipconfig: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cipctl.yaml"), nil
}

// Load reads and parses the config file at path.
func Load(path string) (File, error) {
	var f File
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("cipconfig: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("cipconfig: parse %s: %w", path, err)
	}
	if f.Host == "" {
		return f, fmt.Errorf("cipconfig: %s: host is required", path)
	}
	if f.IPID < 0 || f.IPID > 0xFF {
		return f, fmt.Errorf("cipconfig: %s: ip_id %d out of byte range", path, f.IPID)
	}
	return f, nil
}

// ClientConfig converts a loaded File into a cip.Config.
func (f File) ClientConfig() cip.Config {
	return cip.Config{
		Host:    f.Host,
		IPID:    byte(f.IPID),
		Port:    f.Port,
		Timeout: f.Timeout,
	}
}
