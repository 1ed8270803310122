// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package cmd implements the kcldoc subcommands.
package cmd

import (
	"flag"
	"io"
	"os"

	"grimm.is/kcldoc/internal/config"
	"grimm.is/kcldoc/internal/logging"
)

// IO holds the streams a command writes to.
type IO struct {
	Out io.Writer
	Err io.Writer
}

// StdIO writes to the process streams.
func StdIO() IO {
	return IO{Out: os.Stdout, Err: os.Stderr}
}

func newFlagSet(name string, stdio IO) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stdio.Err)
	return fs
}

// loadConfig loads the configuration and installs its logger as the default.
func loadConfig(path string, stdio IO) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	lc := cfg.Logging()
	lc.Output = stdio.Err
	logging.SetDefault(logging.New(lc))
	return cfg, nil
}
